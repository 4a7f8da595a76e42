// Package envfile models env files (KEY=VALUE lines, # comments and blank
// lines) as an ordered document that keeps every comment, blank line and
// inline annotation, so a parsed file can be rendered back without losing
// anything a human wrote.
package envfile

import (
	"slices"
	"strings"
)

// Entry is one logical unit of a parsed file. It is a closed sum type: the
// only implementations are Assignment, StandaloneComment and Blank.
type Entry interface {
	entry()
}

// Assignment is a KEY=VALUE line together with the comments attached to it.
type Assignment struct {
	// Key is the variable name, trimmed and case-sensitive.
	Key string

	// Value is the raw right-hand side, trimmed but otherwise verbatim
	// (surrounding quotes are kept).
	Value string

	// InlineComment is the text after the "#" on the same line, if any.
	InlineComment *string

	// LeadingComments are the comment lines directly above the assignment
	// with no blank line in between, stored without the "#" marker.
	LeadingComments []string

	// Bare is set when the source line had no "=".
	Bare bool
}

// StandaloneComment is a comment line not attached to any assignment.
type StandaloneComment struct {
	Text string
}

// Blank is an empty line.
type Blank struct{}

func (Assignment) entry()        {}
func (StandaloneComment) entry() {}
func (Blank) entry()             {}

// HasComments reports whether the assignment carries a leading or inline comment.
func (a Assignment) HasComments() bool {
	return len(a.LeadingComments) > 0 || a.InlineComment != nil
}

// IsEmpty reports whether the value is empty after trimming.
func (a Assignment) IsEmpty() bool {
	return strings.TrimSpace(a.Value) == ""
}

// Clone returns a deep copy that shares no memory with a.
func (a Assignment) Clone() Assignment {
	out := a
	out.LeadingComments = slices.Clone(a.LeadingComments)
	out.InlineComment = cloneComment(a.InlineComment)
	return out
}

func cloneComment(c *string) *string {
	if c == nil {
		return nil
	}
	text := *c
	return &text
}

// Document is an ordered sequence of entries. Order is rendering order.
type Document struct {
	Entries []Entry
}

// KeyIndex maps a key to the position of its first Assignment in a Document.
type KeyIndex map[string]int

// Len returns the number of entries in the document.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Entries)
}

// Index builds the key index. Duplicate keys map to their first occurrence.
func (d *Document) Index() KeyIndex {
	index := make(KeyIndex)
	if d == nil {
		return index
	}
	for i, e := range d.Entries {
		if a, ok := e.(Assignment); ok {
			if _, seen := index[a.Key]; !seen {
				index[a.Key] = i
			}
		}
	}
	return index
}

// Lookup returns the first assignment for key.
func (d *Document) Lookup(key string) (Assignment, bool) {
	if d == nil {
		return Assignment{}, false
	}
	for _, e := range d.Entries {
		if a, ok := e.(Assignment); ok && a.Key == key {
			return a, true
		}
	}
	return Assignment{}, false
}

// Keys returns every distinct key in order of first appearance.
func (d *Document) Keys() []string {
	if d == nil {
		return nil
	}
	seen := make(map[string]bool)
	var keys []string
	for _, e := range d.Entries {
		if a, ok := e.(Assignment); ok && !seen[a.Key] {
			seen[a.Key] = true
			keys = append(keys, a.Key)
		}
	}
	return keys
}

// Assignments returns every assignment in order, duplicates included.
func (d *Document) Assignments() []Assignment {
	if d == nil {
		return nil
	}
	var out []Assignment
	for _, e := range d.Entries {
		if a, ok := e.(Assignment); ok {
			out = append(out, a)
		}
	}
	return out
}

// String renders the document. See Render.
func (d *Document) String() string {
	return Render(d)
}
