package envfile

import "strings"

// Parse builds a Document from the full text of an env file.
//
// Parse never fails. Comment lines accumulate until the next line decides
// their fate: an assignment takes them as its leading comments, while a
// blank line or the end of input turns them into standalone comments.
func Parse(text string) *Document {
	doc := &Document{}

	var pending []string
	flush := func() {
		for _, comment := range pending {
			doc.Entries = append(doc.Entries, StandaloneComment{Text: comment})
		}
		pending = nil
	}

	for _, raw := range splitLines(text) {
		line := Classify(raw)

		switch line.Kind {
		case KindBlank:
			flush()
			doc.Entries = append(doc.Entries, Blank{})
		case KindComment:
			pending = append(pending, line.Text)
		case KindAssignment:
			doc.Entries = append(doc.Entries, Assignment{
				Key:             line.Key,
				Value:           line.Value,
				InlineComment:   line.InlineComment,
				LeadingComments: pending,
				Bare:            line.Bare,
			})
			pending = nil
		}
	}
	flush()

	return doc
}

// splitLines splits text on "\n". A trailing newline terminates the last
// line rather than starting an empty one.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
