package envfile_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/agentstation/envsync/pkg/envfile"
)

// corpus holds inputs that exercise every entry kind and comment placement.
var corpus = map[string]string{
	"empty":            "",
	"simple":           "KEY=value\nANOTHER=test\n",
	"no final newline": "KEY=value",
	"sections": `# Database
DB_HOST=localhost
DB_PORT=5432 # default postgres port

# Secrets
# never commit these
API_KEY=
`,
	"orphans":      "# Comment\nKEY=value\n\n# Orphan\nTEST=123 # inline",
	"quoted":       "GREETING=\"hello # world\" # note\nSINGLE='x'\n",
	"bare":         "JUST_A_KEY\nFLAG # toggled\n",
	"crlf":         "A=1\r\n# c\r\nB=2\r\n",
	"spacing":      "  KEY   =   value   #   spaced\n",
	"footer":       "A=1\n# trailing one\n# trailing two",
	"blank runs":   "\n\nA=1\n\n\n",
	"url fragment": "URL=http://host/#frag\n",
}

func TestRenderEntries(t *testing.T) {
	doc := &envfile.Document{Entries: []envfile.Entry{
		envfile.StandaloneComment{Text: " header"},
		envfile.Blank{},
		envfile.Assignment{Key: "A", Value: "1", LeadingComments: []string{" desc", "more"}},
		envfile.Assignment{Key: "B", InlineComment: ptr(" fill me")},
		envfile.Assignment{Key: "C", Bare: true},
		envfile.Assignment{Key: "D", Value: "x", Bare: true},
	}}

	want := "# header\n\n# desc\n#more\nA=1\nB= # fill me\nC\nD=x\n"
	assert.Equal(t, want, envfile.Render(doc))
	assert.Equal(t, want, doc.String())
}

func TestRenderNormalizesSpacing(t *testing.T) {
	assert.Equal(t, "KEY=value #   spaced\n", envfile.Render(envfile.Parse(corpus["spacing"])))
	assert.Equal(t, "A=1\n# c\nB=2\n", envfile.Render(envfile.Parse(corpus["crlf"])))
}

func TestRenderPreservesCanonicalInput(t *testing.T) {
	for _, name := range []string{"simple", "sections", "quoted", "bare", "blank runs", "url fragment"} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, corpus[name], envfile.Render(envfile.Parse(corpus[name])))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for name, input := range corpus {
		t.Run(name, func(t *testing.T) {
			first := envfile.Parse(input)
			second := envfile.Parse(envfile.Render(first))

			if diff := cmp.Diff(first.Entries, second.Entries); diff != "" {
				t.Errorf("parse(render(d)) differs from d (-first +second):\n%s", diff)
			}
			assert.Equal(t, envfile.Render(first), envfile.Render(second))
		})
	}
}

func FuzzParseRender(f *testing.F) {
	for _, input := range corpus {
		f.Add(input)
	}

	f.Fuzz(func(t *testing.T, input string) {
		first := envfile.Render(envfile.Parse(input))
		second := envfile.Render(envfile.Parse(first))
		if first != second {
			t.Errorf("render is not stable for %q:\nfirst:  %q\nsecond: %q", input, first, second)
		}
	})
}

func TestRenderDeterministic(t *testing.T) {
	doc := envfile.Parse(corpus["sections"])
	first := envfile.Render(doc)
	for range 10 {
		assert.Equal(t, first, envfile.Render(doc))
	}
}
