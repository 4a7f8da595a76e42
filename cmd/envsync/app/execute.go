package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/envsync/pkg/constants"
	"github.com/agentstation/envsync/pkg/errors"
)

// Process exit codes.
const (
	ExitOK       = 0
	ExitFailure  = 1 // out of sync, unset variables, I/O failures
	ExitUsage    = 2 // invalid flags, options or configuration
	ExitNotFound = 3 // a template or local file is missing
	ExitCanceled = 130
)

// Execute runs the envsync CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
// Running the root command without a subcommand performs a sync.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "envsync",
		Short:   "Keep local .env files in step with their templates",
		Version: a.version,
		Long: `envsync merges a versioned env template into a local env file.

The template decides which variables exist, their order and their
documentation. Values and comments that only the local file provides are
kept, and variables the template does not know about are appended at the end.

Running envsync without a subcommand is the same as "envsync sync".`,
		Args:              cobra.NoArgs,
		PersistentPreRunE: a.setupCommand,
		RunE:              a.runSync,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.SetOut(a.out)
	rootCmd.SetErr(a.errOut)

	flags := rootCmd.PersistentFlags()

	// File selection
	flags.StringP(keyTemplate, "t", constants.DefaultTemplateFile, "template file to sync from")
	flags.StringP(keyLocal, "l", constants.DefaultLocalFile, "local file to sync into")
	flags.Bool(keyAll, false, "sync every template found under --root")
	flags.String(keyRoot, ".", "directory searched by --all")
	flags.String(keyPattern, constants.DefaultDiscoverPattern, "glob selecting templates for --all")
	flags.StringSlice(keyExclude, constants.DefaultExcludePatterns, "globs skipped by --all")

	// Merge behavior
	flags.String(keyComments, "unit", "comment adoption: unit or field")
	flags.String(keyLocalOnly, "append", "keys missing from the template: append or drop")
	flags.Bool(keyCreateLocal, true, "create the local file when it does not exist")
	flags.Duration(keyTimeout, constants.CommandTimeout, "timeout for one sync (0 disables)")

	// Output and logging
	flags.StringP(keyFormat, "o", "", "output format: table, json, yaml, markdown")
	flags.CountP(keyVerbose, "v", "verbose logging (-v debug, -vv trace)")
	flags.BoolP(keyQuiet, "q", false, "only log errors")
	flags.String(keyLogLevel, "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	flags.Bool(keyNoColor, false, "disable colored output")
	flags.String(keyConfig, "", "config file (default is ./.envsync.yaml, then $HOME/.envsync.yaml)")

	addSyncFlags(rootCmd)

	rootCmd.SetVersionTemplate("envsync {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs. It reloads configuration
// with the parsed flags, which take precedence over every other source.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	config, err := LoadConfig(a.viper, cmd.Flags())
	if err != nil {
		return err
	}
	a.config = config

	// Reject a bad --format before any file is written.
	if _, err := a.format(); err != nil {
		return err
	}

	logger := NewLogger(a.config)
	a.logger = &logger

	if a.config.ConfigFile != "" {
		a.logger.Debug().Str("file", a.config.ConfigFile).Msg("Loaded config file")
	}

	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(a.newSyncCommand())
	rootCmd.AddCommand(a.newCheckCommand())
	rootCmd.AddCommand(a.newPlanCommand())
	rootCmd.AddCommand(a.newWatchCommand())
	rootCmd.AddCommand(a.newVersionCommand())
	rootCmd.AddCommand(a.newManCommand())
}

// ExitCode maps an error returned by Execute to a process exit code.
// A joined error from a multi-pair run takes the code of its most
// specific cause.
func ExitCode(err error) int {
	var configErr *errors.ConfigError
	switch {
	case err == nil:
		return ExitOK
	case errors.IsCanceled(err):
		return ExitCanceled
	case errors.IsValidationError(err), errors.As(err, &configErr):
		return ExitUsage
	case errors.IsNotFound(err):
		return ExitNotFound
	default:
		return ExitFailure
	}
}

// ExitOnError is a helper that prints an error and exits with the code
// ExitCode picks for it. A check that only found drift exits quietly.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err == nil {
		return
	}
	if !errors.IsOutOfSync(err) {
		//nolint:errcheck // Ignoring write error since we're exiting anyway
		_, _ = os.Stderr.WriteString("envsync: " + err.Error() + "\n")
	}
	os.Exit(ExitCode(err))
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
