// Package table provides common table formatting utilities for CLI commands.
package table

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/envsync/pkg/differ"
	"github.com/agentstation/envsync/pkg/reconcile"
	"github.com/agentstation/envsync/pkg/sync"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Status symbols.
const (
	SymbolOK      = "✓"
	SymbolChanged = "~"
	SymbolFailed  = "✗"
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Title           string
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// Failure is a pair that could not be processed.
type Failure struct {
	Local string
	Err   error
}

// ResultsToTableData converts sync results to one row per local file.
func ResultsToTableData(results []*sync.Result, failures []Failure) Data {
	headers := []string{"Local", "Status", "Added", "Updated", "Removed", "Unset"}

	rows := make([][]string, 0, len(results)+len(failures))
	for _, result := range results {
		if result == nil {
			continue
		}
		var added, updated, removed int
		if result.Changeset != nil {
			added = result.Changeset.Summary.Added
			updated = result.Changeset.Summary.Updated
			removed = result.Changeset.Summary.Removed
		}
		rows = append(rows, []string{
			result.Local,
			Status(result),
			strconv.Itoa(added),
			strconv.Itoa(updated),
			strconv.Itoa(removed),
			strconv.Itoa(len(result.Unset)),
		})
	}
	for _, f := range failures {
		rows = append(rows, []string{f.Local, SymbolFailed + " " + f.Err.Error(), "-", "-", "-", "-"})
	}

	return Data{
		Headers:         headers,
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight},
	}
}

// Status returns a short status with a symbol.
func Status(result *sync.Result) string {
	switch {
	case result.InSync():
		return SymbolOK + " in sync"
	case result.DryRun && result.Created:
		return SymbolChanged + " missing"
	case result.DryRun:
		return SymbolChanged + " out of sync"
	case result.Created:
		return SymbolOK + " created"
	case result.Written:
		return SymbolOK + " updated"
	default:
		return SymbolChanged + " out of sync"
	}
}

// ChangesToTableData converts a changeset to one row per field change.
func ChangesToTableData(title string, changeset *differ.Changeset) Data {
	headers := []string{"Key", "Change", "Field", "Current", "Merged"}
	rows := [][]string{}

	if changeset != nil {
		for _, v := range changeset.Added {
			rows = append(rows, []string{v.Key, "add", differ.FieldValue, "-", orDash(v.Value)})
		}
		for _, u := range changeset.Updated {
			for _, c := range u.Changes {
				rows = append(rows, []string{u.Key, string(c.Type), c.Path, orDash(c.OldValue), orDash(c.NewValue)})
			}
		}
		for _, v := range changeset.Removed {
			rows = append(rows, []string{v.Key, "remove", differ.FieldValue, orDash(v.Value), "-"})
		}
		if changeset.LayoutChanged {
			rows = append(rows, []string{"-", "layout", "comments/blank lines", "-", "-"})
		}
	}

	return Data{Title: title, Headers: headers, Rows: rows}
}

// DecisionsToTableData converts merge decisions to one row per key.
func DecisionsToTableData(title string, decisions []reconcile.Decision) Data {
	caser := cases.Title(language.English)
	headers := []string{"Key", "Action", "Value From", "Comments From", "Overridden"}

	rows := make([][]string, 0, len(decisions))
	for _, d := range decisions {
		overridden := ""
		if d.Overridden {
			overridden = "yes"
		}
		rows = append(rows, []string{
			d.Key,
			caser.String(d.Action.String()),
			caser.String(d.ValueSource.String()),
			caser.String(d.CommentSource.String()),
			overridden,
		})
	}

	return Data{Title: title, Headers: headers, Rows: rows}
}

// UnsetToTableData lists keys that still have no value.
func UnsetToTableData(results []*sync.Result) Data {
	rows := [][]string{}
	for _, result := range results {
		if result == nil || len(result.Unset) == 0 {
			continue
		}
		rows = append(rows, []string{result.Local, strings.Join(result.Unset, ", ")})
	}
	return Data{Title: "Unset variables", Headers: []string{"Local", "Keys"}, Rows: rows}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
