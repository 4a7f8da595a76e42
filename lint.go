package envsync

import (
	"github.com/joho/godotenv"

	"github.com/agentstation/envsync/pkg/envfile"
)

// inspect loads the merged output the way a dotenv loader would and reports
// the keys that still resolve to an empty value. A non-empty warning means a
// standard loader rejects the output.
func inspect(doc *envfile.Document, output string) (unset []string, warning string) {
	loaded, err := godotenv.Unmarshal(output)
	if err != nil {
		warning = err.Error()
	}

	for _, key := range doc.Keys() {
		a, _ := doc.Lookup(key)
		if value, ok := loaded[key]; ok {
			if value == "" {
				unset = append(unset, key)
			}
			continue
		}
		// loader gave up before this key; fall back to the raw value
		if a.Value == "" {
			unset = append(unset, key)
		}
	}

	return unset, warning
}
