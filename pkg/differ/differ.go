package differ

import (
	"slices"
	"strings"

	"github.com/agentstation/envsync/pkg/constants"
	"github.com/agentstation/envsync/pkg/envfile"
)

// maxCommentWidth bounds leading comments quoted in a changeset.
const maxCommentWidth = 50

// Differ handles change detection between env documents.
type Differ interface {
	// Documents compares two documents and returns changes.
	// Duplicate keys compare by their first occurrence.
	Documents(existing, updated *envfile.Document) *Changeset
}

// differ is the default implementation of Differ.
type differ struct {
	redact   bool
	comments bool
}

// New creates a new Differ with default settings.
func New(opts ...Option) Differ {
	d := &differ{comments: true}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Documents compares two documents and returns changes.
func (diff *differ) Documents(existing, updated *envfile.Document) *Changeset {
	changeset := &Changeset{
		Added:   []Variable{},
		Updated: []VariableUpdate{},
		Removed: []Variable{},
	}

	existingIndex := existing.Index()
	updatedIndex := updated.Index()
	common := make(map[string]bool)

	// Find added and updated variables in the order of the updated document
	for _, key := range updated.Keys() {
		newVar, _ := updated.Lookup(key)
		if _, exists := existingIndex[key]; !exists {
			changeset.Added = append(changeset.Added, Variable{Key: key, Value: diff.value(newVar.Value)})
			continue
		}

		common[key] = true
		oldVar, _ := existing.Lookup(key)
		if update := diff.variable(oldVar, newVar); update != nil {
			changeset.Updated = append(changeset.Updated, *update)
		}
	}

	// Find removed variables in the order of the existing document
	for _, key := range existing.Keys() {
		if _, exists := updatedIndex[key]; !exists {
			oldVar, _ := existing.Lookup(key)
			changeset.Removed = append(changeset.Removed, Variable{Key: key, Value: diff.value(oldVar.Value)})
		}
	}

	changeset.LayoutChanged = !slices.Equal(diff.skeleton(existing, common), diff.skeleton(updated, common))
	changeset.Summary = calculateSummary(changeset)

	return changeset
}

// variable compares two assignments of the same key and returns an update if they differ.
func (diff *differ) variable(existing, updated envfile.Assignment) *VariableUpdate {
	changes := []FieldChange{}

	if existing.Value != updated.Value {
		changes = append(changes, FieldChange{
			Path:     FieldValue,
			OldValue: diff.value(existing.Value),
			NewValue: diff.value(updated.Value),
			Type:     changeType(existing.Value, updated.Value),
		})
	}

	if diff.comments {
		oldInline, newInline := inline(existing.InlineComment), inline(updated.InlineComment)
		if oldInline != newInline {
			changes = append(changes, FieldChange{
				Path:     FieldInlineComment,
				OldValue: oldInline,
				NewValue: newInline,
				Type:     changeType(oldInline, newInline),
			})
		}
	}

	if diff.comments {
		oldLeading, newLeading := leading(existing.LeadingComments), leading(updated.LeadingComments)
		if oldLeading != newLeading {
			changes = append(changes, FieldChange{
				Path:     FieldLeadingComments,
				OldValue: truncateString(oldLeading, maxCommentWidth),
				NewValue: truncateString(newLeading, maxCommentWidth),
				Type:     changeType(oldLeading, newLeading),
			})
		}
	}

	// If no changes, return nil
	if len(changes) == 0 {
		return nil
	}

	return &VariableUpdate{
		Key:     existing.Key,
		Changes: changes,
	}
}

// skeleton reduces a document to the parts that are not variables of their
// own: standalone comments, blank lines, and the order of shared keys.
func (diff *differ) skeleton(doc *envfile.Document, common map[string]bool) []string {
	var out []string
	if doc == nil {
		return out
	}
	for _, e := range doc.Entries {
		switch e := e.(type) {
		case envfile.Assignment:
			if common[e.Key] {
				out = append(out, envfile.AssignmentOperator+e.Key)
			}
		case envfile.StandaloneComment:
			if diff.comments {
				out = append(out, envfile.CommentPrefix+e.Text)
			}
		case envfile.Blank:
			out = append(out, "")
		}
	}
	return out
}

// value returns v as it may appear in a report.
func (diff *differ) value(v string) string {
	if diff.redact && strings.TrimSpace(v) != "" {
		return constants.RedactedValue
	}
	return v
}

func changeType(old, updated string) ChangeType {
	switch {
	case old == "" && updated != "":
		return ChangeTypeAdd
	case old != "" && updated == "":
		return ChangeTypeRemove
	default:
		return ChangeTypeUpdate
	}
}

func inline(c *string) string {
	if c == nil {
		return ""
	}
	return envfile.CommentPrefix + *c
}

func leading(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return envfile.CommentPrefix + strings.Join(lines, " "+envfile.CommentPrefix)
}

// truncateString truncates a string to maxLen runes.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
