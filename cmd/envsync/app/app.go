// Package app provides the application context and dependency management
// for the envsync CLI. It centralizes configuration, logging and output so
// every command resolves files and options the same way.
package app

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/agentstation/envsync/internal/cmd/output"
	"github.com/agentstation/envsync/pkg/discover"
	"github.com/agentstation/envsync/pkg/errors"
	"github.com/agentstation/envsync/pkg/logging"
	"github.com/agentstation/envsync/pkg/reconcile"
	"github.com/agentstation/envsync/pkg/sync"
)

// App represents the envsync application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	viper  *viper.Viper
	config *Config

	// Logger
	logger *zerolog.Logger

	// Output streams
	out    io.Writer
	errOut io.Writer
}

// New creates a new App instance with the given version information.
// Configuration is loaded from env files, environment and config file here,
// and loaded again with command-line flags once cobra has parsed them.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		viper:   newViper(),
		out:     os.Stdout,
		errOut:  os.Stderr,
	}

	config, err := LoadConfig(app.viper, nil)
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Shutdown performs graceful shutdown of the application. envsync holds no
// background resources outside a running command, so this only flushes logs.
func (a *App) Shutdown(_ context.Context) error {
	a.logger.Debug().Msg("Shutdown")
	return nil
}

// withLogger attaches the application logger to ctx for library calls.
func (a *App) withLogger(ctx context.Context) context.Context {
	return logging.WithLogger(ctx, a.logger)
}

// format returns the output format chosen by flag, env or terminal detection.
func (a *App) format() (output.Format, error) {
	if _, err := output.ParseFormat(a.config.Format); err != nil {
		return "", err
	}
	return output.DetectFormat(a.config.Format), nil
}

// pairs resolves the template/local pairs a command works on: the single
// configured pair, or every template under the root with --all.
func (a *App) pairs() ([]discover.Pair, error) {
	if !a.config.All {
		return []discover.Pair{{Template: a.config.Template, Local: a.config.Local}}, nil
	}

	pairs, err := discover.Find(a.config.Root,
		discover.WithPattern(a.config.Pattern),
		discover.WithExclude(a.config.Exclude...),
	)
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return nil, errors.NewNotFoundError("template", a.config.Root+"/"+a.config.Pattern)
	}

	a.logger.Debug().Int("pairs", len(pairs)).Str("root", a.config.Root).Msg("Discovered templates")
	return pairs, nil
}

// syncOptions converts the configuration to sync options.
func (a *App) syncOptions(extra ...sync.Option) ([]sync.Option, error) {
	comments, err := reconcile.ParseCommentPolicy(a.config.Comments)
	if err != nil {
		return nil, err
	}
	localOnly, err := reconcile.ParseLocalOnlyPolicy(a.config.LocalOnly)
	if err != nil {
		return nil, err
	}

	opts := []sync.Option{
		sync.WithTemplatePath(a.config.Template),
		sync.WithLocalPath(a.config.Local),
		sync.WithCommentPolicy(comments),
		sync.WithLocalOnlyPolicy(localOnly),
		sync.WithCreateLocal(a.config.CreateLocal),
		sync.WithTimeout(a.config.Timeout),
	}
	return append(opts, extra...), nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithOutput sets the writers for reports and diagnostics.
func WithOutput(out, errOut io.Writer) Option {
	return func(a *App) error {
		if out != nil {
			a.out = out
		}
		if errOut != nil {
			a.errOut = errOut
		}
		return nil
	}
}
