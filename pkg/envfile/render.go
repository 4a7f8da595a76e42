package envfile

import "strings"

// Render serializes a document back to text, one line per entry line, each
// terminated by "\n". Identical documents always render to identical bytes.
func Render(doc *Document) string {
	if doc == nil {
		return ""
	}

	var b strings.Builder
	for _, e := range doc.Entries {
		writeEntry(&b, e)
	}
	return b.String()
}

func writeEntry(b *strings.Builder, e Entry) {
	switch e := e.(type) {
	case Assignment:
		for _, text := range e.LeadingComments {
			writeComment(b, text)
		}
		b.WriteString(e.Key)
		if !e.Bare || e.Value != "" {
			b.WriteString(AssignmentOperator)
			b.WriteString(e.Value)
		}
		if e.InlineComment != nil {
			b.WriteString(" ")
			b.WriteString(CommentPrefix)
			b.WriteString(*e.InlineComment)
		}
		b.WriteByte('\n')
	case StandaloneComment:
		writeComment(b, e.Text)
	case Blank:
		b.WriteByte('\n')
	}
}

func writeComment(b *strings.Builder, text string) {
	b.WriteString(CommentPrefix)
	b.WriteString(text)
	b.WriteByte('\n')
}
