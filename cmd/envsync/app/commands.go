package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/envsync"
	"github.com/agentstation/envsync/internal/watch"
	"github.com/agentstation/envsync/pkg/discover"
	"github.com/agentstation/envsync/pkg/errors"
	"github.com/agentstation/envsync/pkg/logging"
	"github.com/agentstation/envsync/pkg/sync"
)

const (
	flagDryRun         = "dry-run"
	flagBackup         = "backup"
	flagStrict         = "strict"
	flagShowValues     = "show-values"
	flagIgnoreComments = "ignore-comments"
)

// addSyncFlags adds the flags shared by the root command and sync.
func addSyncFlags(cmd *cobra.Command) {
	cmd.Flags().Bool(flagDryRun, false, "print the merged file instead of writing it")
	cmd.Flags().Bool(flagBackup, false, "copy the local file to <local>.bak before overwriting it")
}

// newSyncCommand creates the sync command.
func (a *App) newSyncCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Merge the template into the local file",
		Long: `Sync merges the template into the local file and writes the result.

The merged file is computed in memory first and then written atomically, so
an interrupted sync never leaves a half-written file behind. A local file
that already matches the merged output is not touched.`,
		Args: cobra.NoArgs,
		RunE: a.runSync,
	}
	addSyncFlags(cmd)
	return cmd
}

// runSync runs the sync command for every resolved pair.
func (a *App) runSync(cmd *cobra.Command, _ []string) error {
	dryRun := mustGetBool(cmd, flagDryRun)
	backup := mustGetBool(cmd, flagBackup)

	pairs, err := a.pairs()
	if err != nil {
		return err
	}
	opts, err := a.syncOptions(sync.WithDryRun(dryRun), sync.WithBackup(backup))
	if err != nil {
		return err
	}

	ctx := a.withLogger(cmd.Context())
	results, err := envsync.SyncAll(ctx, pairs, opts...)

	// A dry run of one file prints the merged text itself.
	if dryRun && !a.config.All && results[0] != nil {
		format, ferr := a.format()
		if ferr != nil {
			return ferr
		}
		if !format.IsStructured() {
			_, werr := fmt.Fprint(cmd.OutOrStdout(), results[0].Output)
			return errors.Join(err, werr)
		}
	}

	if rerr := a.report(cmd.OutOrStdout(), pairs, results, err, summaryReport); rerr != nil {
		return errors.Join(err, rerr)
	}
	return err
}

// newCheckCommand creates the check command.
func (a *App) newCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Exit non-zero when a local file is out of sync",
		Long: `Check computes the merge without writing anything and fails when any
local file differs from its merged form, which makes it suitable for CI and
git hooks. With --strict it also fails when a variable is still empty.`,
		Args: cobra.NoArgs,
		RunE: a.runCheck,
	}
	cmd.Flags().Bool(flagStrict, false, "also fail when merged variables have no value")
	cmd.Flags().Bool(flagIgnoreComments, false, "only fail on variable changes, not comment or formatting drift")
	return cmd
}

func (a *App) runCheck(cmd *cobra.Command, _ []string) error {
	strict := mustGetBool(cmd, flagStrict)
	ignoreComments := mustGetBool(cmd, flagIgnoreComments)

	pairs, err := a.pairs()
	if err != nil {
		return err
	}
	opts, err := a.syncOptions(sync.WithIgnoreComments(ignoreComments))
	if err != nil {
		return err
	}

	results, err := envsync.CheckAll(a.withLogger(cmd.Context()), pairs, opts...)
	if rerr := a.report(cmd.OutOrStdout(), pairs, results, err, summaryReport); rerr != nil {
		return errors.Join(err, rerr)
	}
	if err != nil {
		return err
	}

	if strict {
		var unset []error
		for _, result := range results {
			if result != nil && len(result.Unset) > 0 {
				unset = append(unset, errors.NewSyncError(result.Template, result.Local,
					fmt.Errorf("%w: %v", errors.ErrUnsetVariables, result.Unset)))
			}
		}
		return errors.Join(unset...)
	}

	return nil
}

// newPlanCommand creates the plan command.
func (a *App) newPlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show what sync would change, key by key",
		Long: `Plan computes the merge without writing anything and prints every
variable the sync would add, update or remove. Values are redacted unless
--show-values is given.`,
		Args: cobra.NoArgs,
		RunE: a.runPlan,
	}
	cmd.Flags().Bool(flagShowValues, false, "print values instead of redacting them")
	cmd.Flags().Bool(flagIgnoreComments, false, "leave comment changes out of the plan")
	return cmd
}

func (a *App) runPlan(cmd *cobra.Command, _ []string) error {
	showValues := mustGetBool(cmd, flagShowValues)
	ignoreComments := mustGetBool(cmd, flagIgnoreComments)

	pairs, err := a.pairs()
	if err != nil {
		return err
	}
	opts, err := a.syncOptions(
		sync.WithDryRun(true),
		sync.WithShowValues(showValues),
		sync.WithIgnoreComments(ignoreComments),
	)
	if err != nil {
		return err
	}

	results, err := envsync.SyncAll(a.withLogger(cmd.Context()), pairs, opts...)
	if rerr := a.report(cmd.OutOrStdout(), pairs, results, err, planReport); rerr != nil {
		return errors.Join(err, rerr)
	}
	return err
}

// newWatchCommand creates the watch command.
func (a *App) newWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Sync now, then again whenever a template changes",
		Long: `Watch runs an initial sync and then watches the templates. Every time a
template is saved the matching local file is synced again. Stop it with
Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: a.runWatch,
	}
}

func (a *App) runWatch(cmd *cobra.Command, _ []string) error {
	pairs, err := a.pairs()
	if err != nil {
		return err
	}
	opts, err := a.syncOptions()
	if err != nil {
		return err
	}

	ctx := a.withLogger(cmd.Context())
	out := cmd.OutOrStdout()

	results, err := envsync.SyncAll(ctx, pairs, opts...)
	if rerr := a.report(out, pairs, results, err, summaryReport); rerr != nil {
		return rerr
	}
	if err != nil {
		a.logger.Warn().Err(err).Msg("Initial sync failed, watching anyway")
	}

	w, err := watch.New(pairs, func(ctx context.Context, pair discover.Pair) error {
		result, err := envsync.Sync(ctx, append(append([]sync.Option(nil), opts...),
			sync.WithTemplatePath(pair.Template),
			sync.WithLocalPath(pair.Local),
		)...)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, result.Summary())
		return nil
	}, watch.WithLogger(a.logger))
	if err != nil {
		return err
	}
	w.OnError(func(pair discover.Pair, err error) {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", pair.Local, err)
	})

	logging.FromContext(ctx).Info().Int("templates", len(pairs)).Msg("Watching for template changes")
	return w.Run(ctx)
}

// VersionInfo is the output of the version command.
type VersionInfo struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
	BuiltBy string `json:"built_by" yaml:"built_by"`
}

// newVersionCommand creates the version command.
func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.config.Format == "" {
				cmd.Printf("envsync %s\n", a.version)
				if a.config.Verbose > 0 {
					cmd.Printf("  commit:   %s\n", a.commit)
					cmd.Printf("  built:    %s\n", a.date)
					cmd.Printf("  built by: %s\n", a.builtBy)
				}
				return nil
			}

			format, err := a.format()
			if err != nil {
				return err
			}
			return formatterFor(format).Format(cmd.OutOrStdout(), VersionInfo{
				Version: a.version,
				Commit:  a.commit,
				Date:    a.date,
				BuiltBy: a.builtBy,
			})
		},
	}
}
