// Package envsync keeps a local env file in step with its versioned template.
//
// The template decides which variables exist, in what order, and how they are
// documented. The local file keeps every value and comment the template does
// not provide itself. Merge works on text in memory; Sync, Check and SyncAll
// read and write files on disk.
package envsync

import (
	"github.com/agentstation/envsync/pkg/envfile"
	"github.com/agentstation/envsync/pkg/reconcile"
)

// Merge reconciles localText against templateText and returns the merged file
// content along with the per-key decisions that produced it.
func Merge(templateText, localText string, opts ...reconcile.Option) (string, *reconcile.Result) {
	template := envfile.Parse(templateText)
	local := envfile.Parse(localText)

	result := reconcile.Merge(template, local, opts...)

	return result.Render(), result
}
