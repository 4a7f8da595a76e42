package app

import (
	"io"

	"github.com/agentstation/envsync/internal/cmd/output"
	"github.com/agentstation/envsync/internal/cmd/table"
	"github.com/agentstation/envsync/pkg/discover"
	"github.com/agentstation/envsync/pkg/errors"
	"github.com/agentstation/envsync/pkg/sync"
)

type reportKind int

const (
	summaryReport reportKind = iota
	planReport
)

// Report is the structured output of sync, check and plan.
type Report struct {
	Results  []*sync.Result `json:"results" yaml:"results"`
	Failures []Failure      `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// Failure is a pair that could not be processed.
type Failure struct {
	Template string `json:"template" yaml:"template"`
	Local    string `json:"local" yaml:"local"`
	Error    string `json:"error" yaml:"error"`
}

func formatterFor(format output.Format) output.Formatter {
	return output.NewFormatter(format)
}

// report writes the results of a multi-pair run in the configured format.
func (a *App) report(w io.Writer, pairs []discover.Pair, results []*sync.Result, err error, kind reportKind) error {
	format, ferr := a.format()
	if ferr != nil {
		return ferr
	}

	failures := failuresFor(pairs, results, err)

	if format.IsStructured() {
		rep := Report{Results: make([]*sync.Result, 0, len(results))}
		for _, result := range results {
			if result != nil {
				rep.Results = append(rep.Results, result)
			}
		}
		failed := failedPairs(pairs, results)
		for i, f := range failures {
			rep.Failures = append(rep.Failures, Failure{
				Template: failed[i].Template,
				Local:    f.Local,
				Error:    f.Err.Error(),
			})
		}
		return formatterFor(format).Format(w, rep)
	}

	var sets []table.Data
	if kind == planReport {
		for _, result := range results {
			if result == nil || result.InSync() {
				continue
			}
			sets = append(sets, table.ChangesToTableData(result.Local, result.Changeset))
		}
	}
	sets = append(sets, table.ResultsToTableData(results, failures))
	if kind == summaryReport {
		sets = append(sets, table.UnsetToTableData(results))
	}

	return formatterFor(format).Format(w, sets)
}

// failedPairs returns the pairs that produced no result, in order.
func failedPairs(pairs []discover.Pair, results []*sync.Result) []discover.Pair {
	var failed []discover.Pair
	for i, pair := range pairs {
		if i >= len(results) || results[i] == nil {
			failed = append(failed, pair)
		}
	}
	return failed
}

// failuresFor matches the joined error of a multi-pair run back to the
// pairs that produced no result.
func failuresFor(pairs []discover.Pair, results []*sync.Result, err error) []table.Failure {
	byLocal := make(map[string]error)
	for _, e := range unwrapJoined(err) {
		var serr *errors.SyncError
		if errors.As(e, &serr) {
			byLocal[serr.Local] = serr.Err
		}
	}

	var failures []table.Failure
	for _, pair := range failedPairs(pairs, results) {
		cause := byLocal[pair.Local]
		if cause == nil {
			cause = err
		}
		if cause == nil {
			cause = errors.New("no result")
		}
		failures = append(failures, table.Failure{Local: pair.Local, Err: cause})
	}
	return failures
}

func unwrapJoined(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
