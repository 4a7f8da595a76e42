package reconcile

import (
	"fmt"
	"strings"

	"github.com/agentstation/envsync/pkg/envfile"
)

// Action describes what the merge did with a key.
type Action string

const (
	// ActionAdded means the key exists only in the template.
	ActionAdded Action = "added"
	// ActionMatched means the key exists in both files.
	ActionMatched Action = "matched"
	// ActionDuplicate means a repeated template key copied through untouched.
	ActionDuplicate Action = "duplicate"
	// ActionAppended means a local-only key kept after the template entries.
	ActionAppended Action = "appended"
	// ActionDropped means a local-only key left out of the output.
	ActionDropped Action = "dropped"
)

// String returns the string representation of the action.
func (a Action) String() string {
	return string(a)
}

// Source names the file a merged field was taken from.
type Source string

const (
	// SourceNone means neither file supplied the field.
	SourceNone Source = ""
	// SourceTemplate means the field came from the template.
	SourceTemplate Source = "template"
	// SourceLocal means the field came from the local file.
	SourceLocal Source = "local"
	// SourceMixed means the leading and inline comments came from different files.
	SourceMixed Source = "mixed"
)

// String returns the string representation of the source.
func (s Source) String() string {
	if s == SourceNone {
		return "none"
	}
	return string(s)
}

// Decision records how a single key was reconciled.
type Decision struct {
	Key           string `json:"key" yaml:"key"`
	Action        Action `json:"action" yaml:"action"`
	ValueSource   Source `json:"value_source,omitempty" yaml:"value_source,omitempty"`
	CommentSource Source `json:"comment_source,omitempty" yaml:"comment_source,omitempty"`

	// Overridden is set when the local file had a different non-empty
	// value and the template default won.
	Overridden bool `json:"overridden,omitempty" yaml:"overridden,omitempty"`
}

// Statistics counts decisions by outcome.
type Statistics struct {
	Added         int `json:"added" yaml:"added"`
	Matched       int `json:"matched" yaml:"matched"`
	Duplicates    int `json:"duplicates" yaml:"duplicates"`
	Appended      int `json:"appended" yaml:"appended"`
	Dropped       int `json:"dropped" yaml:"dropped"`
	LocalValues   int `json:"local_values" yaml:"local_values"`
	LocalComments int `json:"local_comments" yaml:"local_comments"`
	Overridden    int `json:"overridden" yaml:"overridden"`
}

// Result is the outcome of a merge.
type Result struct {
	// Document is the merged document. It shares no memory with the inputs.
	Document *envfile.Document `json:"-" yaml:"-"`

	Decisions []Decision `json:"decisions" yaml:"decisions"`
	Stats     Statistics `json:"stats" yaml:"stats"`

	CommentPolicy   CommentPolicy   `json:"comment_policy" yaml:"comment_policy"`
	LocalOnlyPolicy LocalOnlyPolicy `json:"local_only_policy" yaml:"local_only_policy"`
}

// Decision returns the first decision recorded for key.
func (r *Result) Decision(key string) (Decision, bool) {
	if r == nil {
		return Decision{}, false
	}
	for _, d := range r.Decisions {
		if d.Key == key {
			return d, true
		}
	}
	return Decision{}, false
}

// Render renders the merged document.
func (r *Result) Render() string {
	if r == nil {
		return ""
	}
	return envfile.Render(r.Document)
}

// record appends a decision and updates the statistics.
func (r *Result) record(d Decision) {
	r.Decisions = append(r.Decisions, d)

	switch d.Action {
	case ActionAdded:
		r.Stats.Added++
	case ActionMatched:
		r.Stats.Matched++
		if d.ValueSource == SourceLocal {
			r.Stats.LocalValues++
		}
		if d.CommentSource == SourceLocal || d.CommentSource == SourceMixed {
			r.Stats.LocalComments++
		}
		if d.Overridden {
			r.Stats.Overridden++
		}
	case ActionDuplicate:
		r.Stats.Duplicates++
	case ActionAppended:
		r.Stats.Appended++
	case ActionDropped:
		r.Stats.Dropped++
	}
}

// Summary returns a human-readable summary of the merge.
func (r *Result) Summary() string {
	if r == nil || len(r.Decisions) == 0 {
		return "No variables reconciled"
	}

	s := r.Stats
	parts := []string{fmt.Sprintf("%d matched", s.Matched)}
	if s.Added > 0 {
		parts = append(parts, fmt.Sprintf("%d added", s.Added))
	}
	if s.Appended > 0 {
		parts = append(parts, fmt.Sprintf("%d local-only kept", s.Appended))
	}
	if s.Dropped > 0 {
		parts = append(parts, fmt.Sprintf("%d local-only dropped", s.Dropped))
	}
	if s.Duplicates > 0 {
		parts = append(parts, fmt.Sprintf("%d duplicate", s.Duplicates))
	}
	if s.Overridden > 0 {
		parts = append(parts, fmt.Sprintf("%d overridden by template", s.Overridden))
	}
	return strings.Join(parts, ", ")
}
