package envsync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/envsync/pkg/constants"
	"github.com/agentstation/envsync/pkg/differ"
	"github.com/agentstation/envsync/pkg/discover"
	"github.com/agentstation/envsync/pkg/envfile"
	"github.com/agentstation/envsync/pkg/errors"
	"github.com/agentstation/envsync/pkg/logging"
	"github.com/agentstation/envsync/pkg/reconcile"
	"github.com/agentstation/envsync/pkg/sync"
)

// Sync merges the template into the local file and writes the result.
// The merged text is fully computed before anything is written, and the
// write replaces the local file atomically.
func Sync(ctx context.Context, opts ...sync.Option) (*sync.Result, error) {
	// Step 0: Set context
	if ctx == nil {
		ctx = context.Background()
	}

	// Step 1: Parse and validate options
	options := sync.Defaults().Apply(opts...)
	if err := options.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Setup context with timeout
	var cancel context.CancelFunc
	if options.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
	} else {
		cancel = func() {} // No-op cancel if no timeout
	}
	defer cancel()

	ctx = logging.WithPair(ctx, options.TemplatePath, options.LocalPath)
	logger := logging.FromContext(ctx)

	// Step 3: Read the template
	templateText, exists, err := readFile(options.TemplatePath)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.NewNotFoundError("template", options.TemplatePath)
	}

	// Step 4: Read the local file, or start from nothing
	localText, exists, err := readFile(options.LocalPath)
	if err != nil {
		return nil, err
	}
	created := !exists
	if created && !options.CreateLocal {
		return nil, errors.NewNotFoundError("local", options.LocalPath)
	}
	if created {
		logger.Debug().Msg("Local file missing, starting from an empty document")
	}

	// Step 5: Merge in memory
	templateDoc := envfile.Parse(templateText)
	localDoc := envfile.Parse(localText)

	merged := reconcile.Merge(templateDoc, localDoc,
		append(options.ReconcileOptions(), reconcile.WithLogger(logger))...)
	output := merged.Render()

	// Step 6: Compare against what is on disk
	changeset := differ.New(options.DifferOptions()...).Documents(localDoc, merged.Document)
	unset, warning := inspect(merged.Document, output)

	result := &sync.Result{
		Template:    options.TemplatePath,
		Local:       options.LocalPath,
		DryRun:      options.DryRun,
		Created:     created,
		Output:      output,
		Normalized:  !created && !options.IgnoreComments && output != localText && !changeset.HasChanges(),
		Merge:       merged,
		Changeset:   changeset,
		Unset:       unset,
		LoadWarning: warning,
	}

	if warning != "" {
		logger.Warn().Str("warning", warning).Msg("Merged output is not readable by dotenv loaders")
	}

	// Step 7: Stop before touching disk if canceled
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrCanceled, err)
	}

	// Step 8: Dry run ends here
	if options.DryRun {
		logger.Info().Bool("dry_run", true).Bool("changes", result.HasChanges()).Msg("Dry run completed - no changes applied")
		return result, nil
	}

	// Step 9: Skip the write when nothing would change
	if !created && output == localText {
		logger.Debug().Msg("Local file already in sync")
		return result, nil
	}

	target := targetPath(options.LocalPath)

	// Step 10: Backup the current local file
	if options.Backup && !created {
		backup := options.LocalPath + constants.BackupSuffix
		if err := writeFileAtomic(backup, []byte(localText), fileMode(target, options.NewFileMode())); err != nil {
			return nil, errors.WrapIO("backup", backup, err)
		}
		result.BackupPath = backup
	}

	// Step 11: Write atomically
	mode := options.NewFileMode()
	if created {
		if err := os.MkdirAll(filepath.Dir(target), constants.DirPermissions); err != nil {
			return nil, errors.WrapIO("mkdir", filepath.Dir(target), err)
		}
	} else {
		mode = fileMode(target, mode)
	}
	if err := writeFileAtomic(target, []byte(output), mode); err != nil {
		return nil, errors.WrapIO("write", options.LocalPath, err)
	}
	result.Written = true

	logger.Info().
		Bool("created", created).
		Int("changes", changeset.Summary.TotalChanges).
		Int("unset", len(unset)).
		Msg("Local file synced")

	return result, nil
}

// Check computes the merge without writing and reports an error wrapping
// errors.ErrOutOfSync when the local file differs from the merged output.
// The result is returned in both cases.
func Check(ctx context.Context, opts ...sync.Option) (*sync.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithOperation(ctx, "check")

	result, err := Sync(ctx, append(opts, sync.WithDryRun(true))...)
	if err != nil {
		return nil, err
	}
	if result.HasChanges() {
		return result, errors.NewSyncError(result.Template, result.Local, errors.ErrOutOfSync)
	}
	return result, nil
}

// SyncAll syncs every pair concurrently. Pair paths override any path
// options. A failing pair does not stop the others; results are returned in
// pair order with nil for failed pairs, and the errors are joined.
func SyncAll(ctx context.Context, pairs []discover.Pair, opts ...sync.Option) ([]*sync.Result, error) {
	return runAll(ctx, pairs, Sync, opts)
}

// CheckAll runs Check for every pair concurrently. Out-of-sync pairs still
// have their result set.
func CheckAll(ctx context.Context, pairs []discover.Pair, opts ...sync.Option) ([]*sync.Result, error) {
	return runAll(ctx, pairs, Check, opts)
}

type syncFunc func(context.Context, ...sync.Option) (*sync.Result, error)

func runAll(ctx context.Context, pairs []discover.Pair, fn syncFunc, opts []sync.Option) ([]*sync.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	results := make([]*sync.Result, len(pairs))
	errs := make([]error, len(pairs))

	var g errgroup.Group
	g.SetLimit(constants.MaxConcurrentSyncs)

	for i, pair := range pairs {
		pairOpts := append(append([]sync.Option(nil), opts...),
			sync.WithTemplatePath(pair.Template),
			sync.WithLocalPath(pair.Local),
		)
		g.Go(func() error {
			result, err := fn(ctx, pairOpts...)
			results[i] = result
			if err != nil {
				var serr *errors.SyncError
				if errors.As(err, &serr) {
					errs[i] = err
				} else {
					errs[i] = errors.WrapSync(pair.Template, pair.Local, err)
				}
			}
			return nil
		})
	}
	_ = g.Wait() // goroutines report through errs

	return results, errors.Join(errs...)
}
