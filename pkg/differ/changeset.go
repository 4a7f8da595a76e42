// Package differ provides functionality for comparing env documents and detecting changes.
package differ

import (
	"fmt"
	"io"
	"strings"
)

// ChangeType represents the type of change.
type ChangeType string

const (
	// ChangeTypeAdd indicates an item was added.
	ChangeTypeAdd ChangeType = "add"
	// ChangeTypeUpdate indicates an item was updated.
	ChangeTypeUpdate ChangeType = "update"
	// ChangeTypeRemove indicates an item was removed.
	ChangeTypeRemove ChangeType = "remove"
)

// Field paths reported in FieldChange.Path.
const (
	FieldValue           = "value"
	FieldInlineComment   = "inline_comment"
	FieldLeadingComments = "leading_comments"
)

// FieldChange represents a change to a specific field of a variable.
type FieldChange struct {
	Path     string     `json:"path" yaml:"path"`           // Field path (e.g., "value")
	OldValue string     `json:"old_value" yaml:"old_value"` // Previous value (string representation)
	NewValue string     `json:"new_value" yaml:"new_value"` // New value (string representation)
	Type     ChangeType `json:"type" yaml:"type"`           // Type of change
}

// Variable is a key with its value as seen by the differ.
type Variable struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// VariableUpdate represents an update to an existing variable.
type VariableUpdate struct {
	Key     string        `json:"key" yaml:"key"`
	Changes []FieldChange `json:"changes" yaml:"changes"`
}

// Changeset represents all changes between two env documents.
type Changeset struct {
	Added   []Variable       `json:"added" yaml:"added"`
	Updated []VariableUpdate `json:"updated" yaml:"updated"`
	Removed []Variable       `json:"removed" yaml:"removed"`

	// LayoutChanged is set when the rendered documents differ in ways no
	// variable accounts for: standalone comments, blank lines or ordering.
	LayoutChanged bool `json:"layout_changed" yaml:"layout_changed"`

	Summary ChangesetSummary `json:"summary" yaml:"summary"`
}

// ChangesetSummary provides summary statistics for a changeset.
type ChangesetSummary struct {
	Added        int `json:"added" yaml:"added"`
	Updated      int `json:"updated" yaml:"updated"`
	Removed      int `json:"removed" yaml:"removed"`
	TotalChanges int `json:"total_changes" yaml:"total_changes"`
}

// HasChanges returns true if the changeset contains any changes.
func (c *Changeset) HasChanges() bool {
	return c != nil && (c.Summary.TotalChanges > 0 || c.LayoutChanged)
}

// IsEmpty returns true if the changeset contains no changes.
func (c *Changeset) IsEmpty() bool {
	return !c.HasChanges()
}

// calculateSummary computes the summary for a changeset.
func calculateSummary(c *Changeset) ChangesetSummary {
	return ChangesetSummary{
		Added:        len(c.Added),
		Updated:      len(c.Updated),
		Removed:      len(c.Removed),
		TotalChanges: len(c.Added) + len(c.Updated) + len(c.Removed),
	}
}

// String returns a human-readable summary of the changeset.
func (c *Changeset) String() string {
	if c.IsEmpty() {
		return "No changes detected"
	}

	var parts []string
	if len(c.Added) > 0 {
		parts = append(parts, fmt.Sprintf("%d added", len(c.Added)))
	}
	if len(c.Updated) > 0 {
		parts = append(parts, fmt.Sprintf("%d updated", len(c.Updated)))
	}
	if len(c.Removed) > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", len(c.Removed)))
	}
	if c.LayoutChanged {
		parts = append(parts, "layout changed")
	}

	return fmt.Sprintf("Changeset: %s (Total: %d changes)", strings.Join(parts, ", "), c.Summary.TotalChanges)
}

// Print writes a detailed, human-readable view of the changeset to w.
func (c *Changeset) Print(w io.Writer) {
	_, _ = fmt.Fprintln(w, c.String())
	if c.IsEmpty() {
		return
	}

	if len(c.Added) > 0 {
		_, _ = fmt.Fprintf(w, "\n➕ Added (%d):\n", len(c.Added))
		for _, v := range c.Added {
			_, _ = fmt.Fprintf(w, "  • %s=%s\n", v.Key, v.Value)
		}
	}

	if len(c.Updated) > 0 {
		_, _ = fmt.Fprintf(w, "\n🔄 Updated (%d):\n", len(c.Updated))
		for _, update := range c.Updated {
			_, _ = fmt.Fprintf(w, "  • %s:\n", update.Key)
			for _, change := range update.Changes {
				_, _ = fmt.Fprintf(w, "    - %s: %s → %s\n", change.Path, change.OldValue, change.NewValue)
			}
		}
	}

	if len(c.Removed) > 0 {
		_, _ = fmt.Fprintf(w, "\n⚠️  Removed (%d):\n", len(c.Removed))
		for _, v := range c.Removed {
			_, _ = fmt.Fprintf(w, "  • %s\n", v.Key)
		}
	}

	if c.LayoutChanged {
		_, _ = fmt.Fprintln(w, "\n📐 Comments or blank lines changed")
	}
}
