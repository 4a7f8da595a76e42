package sync

import (
	"fmt"
	"strings"

	"github.com/agentstation/envsync/pkg/differ"
	"github.com/agentstation/envsync/pkg/reconcile"
)

// Result represents the result of syncing one template/local pair.
type Result struct {
	Template string `json:"template" yaml:"template"`
	Local    string `json:"local" yaml:"local"`

	// Operation metadata. Created means the local file did not exist before;
	// BackupPath is where the previous local file was copied.
	DryRun     bool   `json:"dry_run" yaml:"dry_run"`
	Created    bool   `json:"created" yaml:"created"`
	Written    bool   `json:"written" yaml:"written"`
	BackupPath string `json:"backup,omitempty" yaml:"backup,omitempty"`

	// Output is the merged file content.
	Output string `json:"-" yaml:"-"`

	// Normalized is set when the local file only differs from the output in
	// formatting: line endings, spacing around "=" or a missing final newline.
	Normalized bool `json:"normalized,omitempty" yaml:"normalized,omitempty"`

	Merge     *reconcile.Result `json:"merge" yaml:"merge"`
	Changeset *differ.Changeset `json:"changes" yaml:"changes"`

	// Unset lists keys whose value is still empty once the output is loaded.
	Unset []string `json:"unset,omitempty" yaml:"unset,omitempty"`

	// LoadWarning is set when a standard dotenv loader cannot read the output.
	LoadWarning string `json:"load_warning,omitempty" yaml:"load_warning,omitempty"`
}

// HasChanges returns true if the local file differs from the merged output.
func (sr *Result) HasChanges() bool {
	return sr.Created || sr.Normalized || sr.Changeset.HasChanges()
}

// InSync returns true if the local file already matches the merged output.
func (sr *Result) InSync() bool {
	return !sr.HasChanges()
}

// Summary returns a human-readable summary of the sync result.
func (sr *Result) Summary() string {
	var status string
	switch {
	case !sr.HasChanges():
		status = "already in sync"
	case sr.DryRun:
		status = "would update"
	case sr.Created:
		status = "created"
	case sr.Written:
		status = "updated"
	default:
		status = "out of sync"
	}

	summary := fmt.Sprintf("%s: %s", sr.Local, status)

	var parts []string
	if sr.HasChanges() && sr.Changeset != nil && sr.Changeset.Summary.TotalChanges > 0 {
		parts = append(parts, strings.TrimPrefix(sr.Changeset.String(), "Changeset: "))
	}
	if len(sr.Unset) > 0 {
		parts = append(parts, fmt.Sprintf("%d unset", len(sr.Unset)))
	}
	if sr.BackupPath != "" {
		parts = append(parts, "backup at "+sr.BackupPath)
	}
	if len(parts) > 0 {
		summary += " (" + strings.Join(parts, "; ") + ")"
	}

	return summary
}
