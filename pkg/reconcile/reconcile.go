// Package reconcile merges a template env document with a local one.
//
// The template is the structural base: its entry order, standalone comments
// and blank lines are reproduced exactly. For keys present in both documents,
// an empty template value defers to the local value, and a template entry
// without any comment adopts the local comments. Keys the template does not
// know about are appended or dropped according to LocalOnlyPolicy, and so
// are later local copies of a template key that the template itself does
// not repeat verbatim.
//
// Merge never fails and never mutates its inputs.
package reconcile

import (
	"slices"

	"github.com/rs/zerolog"

	"github.com/agentstation/envsync/pkg/envfile"
)

// Merge reconciles local against template and returns the merged document
// together with a record of every per-key decision.
func Merge(template, local *envfile.Document, opts ...Option) *Result {
	o := defaultOptions().apply(opts...)

	result := &Result{
		Document:        &envfile.Document{},
		CommentPolicy:   o.comments,
		LocalOnlyPolicy: o.localOnly,
	}
	out := result.Document

	localIndex := local.Index()
	inTemplate := make(map[string]bool)

	for _, e := range entries(template) {
		switch e := e.(type) {
		case envfile.Assignment:
			if inTemplate[e.Key] {
				out.Entries = append(out.Entries, e.Clone())
				emit(o.logger, result, Decision{Key: e.Key, Action: ActionDuplicate, ValueSource: SourceTemplate})
				continue
			}
			inTemplate[e.Key] = true

			i, ok := localIndex[e.Key]
			if !ok {
				out.Entries = append(out.Entries, e.Clone())
				emit(o.logger, result, Decision{
					Key:           e.Key,
					Action:        ActionAdded,
					ValueSource:   SourceTemplate,
					CommentSource: commentSource(e, SourceTemplate),
				})
				continue
			}

			merged, d := mergeAssignment(e, local.Entries[i].(envfile.Assignment), o.comments)
			out.Entries = append(out.Entries, merged)
			emit(o.logger, result, d)
		case envfile.StandaloneComment:
			out.Entries = append(out.Entries, envfile.StandaloneComment{Text: e.Text})
		case envfile.Blank:
			out.Entries = append(out.Entries, envfile.Blank{})
		}
	}

	mergeLocalOnly(o, result, template, local, inTemplate)

	o.logger.Debug().
		Int("matched", result.Stats.Matched).
		Int("added", result.Stats.Added).
		Int("appended", result.Stats.Appended).
		Int("dropped", result.Stats.Dropped).
		Msg("Merged env documents")

	return result
}

// mergeAssignment combines a template assignment with the local assignment
// for the same key.
func mergeAssignment(tmpl, loc envfile.Assignment, policy CommentPolicy) (envfile.Assignment, Decision) {
	merged := tmpl.Clone()
	d := Decision{Key: tmpl.Key, Action: ActionMatched, ValueSource: SourceTemplate}

	switch {
	case tmpl.IsEmpty() && !loc.IsEmpty():
		merged.Value = loc.Value
		merged.Bare = false
		d.ValueSource = SourceLocal
	case !tmpl.IsEmpty() && !loc.IsEmpty() && loc.Value != tmpl.Value:
		d.Overridden = true
	}

	leadingFrom, inlineFrom := SourceTemplate, SourceTemplate
	switch policy {
	case CommentsField:
		if len(tmpl.LeadingComments) == 0 && len(loc.LeadingComments) > 0 {
			merged.LeadingComments = cloneLines(loc.LeadingComments)
			leadingFrom = SourceLocal
		}
		if tmpl.InlineComment == nil && loc.InlineComment != nil {
			merged.InlineComment = copyComment(loc.InlineComment)
			inlineFrom = SourceLocal
		}
	default:
		if !tmpl.HasComments() && loc.HasComments() {
			merged.LeadingComments = cloneLines(loc.LeadingComments)
			merged.InlineComment = copyComment(loc.InlineComment)
			leadingFrom, inlineFrom = SourceLocal, SourceLocal
		}
	}

	d.CommentSource = combineSources(
		sourceIf(len(merged.LeadingComments) > 0, leadingFrom),
		sourceIf(merged.InlineComment != nil, inlineFrom),
	)
	return merged, d
}

// mergeLocalOnly handles assignments whose key the template never mentions
// and later local duplicates of template keys. The first local occurrence
// of a template key was merged in place; a later one is skipped only when
// an identical later template occurrence already carries it through.
func mergeLocalOnly(o *options, result *Result, template, local *envfile.Document, inTemplate map[string]bool) {
	out := result.Document
	separated := false
	seen := make(map[string]bool)
	copies := laterOccurrences(template)

	for _, a := range local.Assignments() {
		duplicate := inTemplate[a.Key]
		if duplicate && !seen[a.Key] {
			seen[a.Key] = true
			continue
		}
		if duplicate && consume(copies, a) {
			continue
		}

		action := ActionAppended
		if duplicate {
			action = ActionDuplicate
		}
		if o.localOnly == LocalOnlyDrop {
			action = ActionDropped
		} else {
			if !separated && len(out.Entries) > 0 && !endsWithBlank(out) {
				out.Entries = append(out.Entries, envfile.Blank{})
			}
			separated = true
			out.Entries = append(out.Entries, a.Clone())
		}

		// Local-only keys are recorded once; every extra copy of a
		// template key gets its own decision.
		if !duplicate {
			if seen[a.Key] {
				continue
			}
			seen[a.Key] = true
		}
		emit(o.logger, result, Decision{
			Key:           a.Key,
			Action:        action,
			ValueSource:   SourceLocal,
			CommentSource: commentSource(a, SourceLocal),
		})
	}
}

// laterOccurrences returns every template assignment after the first one
// for its key, grouped by key.
func laterOccurrences(doc *envfile.Document) map[string][]envfile.Assignment {
	copies := make(map[string][]envfile.Assignment)
	first := make(map[string]bool)
	for _, a := range doc.Assignments() {
		if !first[a.Key] {
			first[a.Key] = true
			continue
		}
		copies[a.Key] = append(copies[a.Key], a)
	}
	return copies
}

// consume removes one assignment identical to a from copies and reports
// whether it found one.
func consume(copies map[string][]envfile.Assignment, a envfile.Assignment) bool {
	list := copies[a.Key]
	for i, c := range list {
		if sameAssignment(c, a) {
			copies[a.Key] = append(list[:i:i], list[i+1:]...)
			return true
		}
	}
	return false
}

func sameAssignment(x, y envfile.Assignment) bool {
	if x.Value != y.Value || x.Bare != y.Bare || !slices.Equal(x.LeadingComments, y.LeadingComments) {
		return false
	}
	if (x.InlineComment == nil) != (y.InlineComment == nil) {
		return false
	}
	return x.InlineComment == nil || *x.InlineComment == *y.InlineComment
}

func emit(logger *zerolog.Logger, result *Result, d Decision) {
	result.record(d)
	logger.Trace().
		Str("key", d.Key).
		Str("action", d.Action.String()).
		Str("value_source", d.ValueSource.String()).
		Str("comment_source", d.CommentSource.String()).
		Bool("overridden", d.Overridden).
		Msg("Reconciled key")
}

func entries(doc *envfile.Document) []envfile.Entry {
	if doc == nil {
		return nil
	}
	return doc.Entries
}

func endsWithBlank(doc *envfile.Document) bool {
	_, ok := doc.Entries[len(doc.Entries)-1].(envfile.Blank)
	return ok
}

func commentSource(a envfile.Assignment, from Source) Source {
	return sourceIf(a.HasComments(), from)
}

func sourceIf(present bool, from Source) Source {
	if present {
		return from
	}
	return SourceNone
}

func combineSources(leading, inline Source) Source {
	switch {
	case leading == SourceNone:
		return inline
	case inline == SourceNone, leading == inline:
		return leading
	default:
		return SourceMixed
	}
}

func cloneLines(lines []string) []string {
	if len(lines) == 0 {
		return nil
	}
	return append([]string(nil), lines...)
}

func copyComment(c *string) *string {
	if c == nil {
		return nil
	}
	text := *c
	return &text
}
