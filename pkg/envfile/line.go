package envfile

import (
	"strings"
	"unicode"
)

const (
	// CommentPrefix marks a comment line or the start of an inline comment.
	CommentPrefix = "#"

	// AssignmentOperator separates a key from its value.
	AssignmentOperator = "="
)

// Kind tags a classified line.
type Kind int

// Line kinds.
const (
	KindBlank Kind = iota
	KindComment
	KindAssignment
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindComment:
		return "comment"
	case KindAssignment:
		return "assignment"
	}
	return "unknown"
}

// Line is one raw line of text after classification.
type Line struct {
	Kind Kind

	// Text is the comment body after the marker (KindComment only).
	Text string

	// Assignment fields (KindAssignment only).
	Key           string
	Value         string
	InlineComment *string
	Bare          bool // no "=" on the line
}

// Classify turns one raw line into a tagged Line.
//
// It never fails: a line that is neither blank nor a comment is read as an
// assignment on a best-effort basis, split on the first "=". A line without
// "=" becomes a bare assignment with an empty value.
func Classify(raw string) Line {
	trimmed := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))

	switch {
	case trimmed == "":
		return Line{Kind: KindBlank}
	case strings.HasPrefix(trimmed, CommentPrefix):
		return Line{Kind: KindComment, Text: trimmed[len(CommentPrefix):]}
	}

	line := Line{Kind: KindAssignment}

	key, rest, found := strings.Cut(trimmed, AssignmentOperator)
	if !found {
		body, inline := splitInlineComment(trimmed)
		line.Key = strings.TrimSpace(body)
		line.InlineComment = inline
		line.Bare = true
		return line
	}

	value, inline := splitInlineComment(rest)
	line.Key = strings.TrimSpace(key)
	line.Value = strings.TrimSpace(value)
	line.InlineComment = inline
	return line
}

// splitInlineComment separates a value from a trailing "# comment".
//
// A "#" starts a comment only outside quotes, when not escaped by a
// backslash, and when it is the first character or follows whitespace.
func splitInlineComment(s string) (string, *string) {
	var (
		quote   rune
		escaped bool
		prev    rune = ' '
	)

	for i, r := range s {
		switch {
		case escaped:
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '#' && unicode.IsSpace(prev):
			comment := s[i+len(CommentPrefix):]
			return s[:i], &comment
		}
		prev = r
	}

	return s, nil
}
