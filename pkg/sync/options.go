// Package sync provides options and results for syncing a local env file
// with its template on disk.
package sync

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/agentstation/envsync/pkg/constants"
	"github.com/agentstation/envsync/pkg/differ"
	"github.com/agentstation/envsync/pkg/errors"
	"github.com/agentstation/envsync/pkg/reconcile"
)

// Options controls a single template/local sync.
type Options struct {
	// File selection
	TemplatePath string // Template to sync from
	LocalPath    string // Local file to sync into

	// Orchestration control
	DryRun      bool          // Compute the merged output without writing it
	Backup      bool          // Copy the local file to <local>.bak before overwriting it
	CreateLocal bool          // Treat a missing local file as empty and create it
	Timeout     time.Duration // Timeout for the whole operation (0 means none)

	// Merge behavior
	Comments  reconcile.CommentPolicy   // How local comments are adopted
	LocalOnly reconcile.LocalOnlyPolicy // What happens to keys missing from the template

	// Output control
	ShowValues     bool        // Report values in changesets instead of redacting them
	IgnoreComments bool        // Leave comment and formatting differences out of the reported drift
	FileMode       os.FileMode // Mode for a newly created local file (0 means SecureFilePermissions)
}

// Apply applies the given options to the sync options.
func (s *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Defaults returns the default sync options.
func Defaults() *Options {
	return &Options{
		TemplatePath: constants.DefaultTemplateFile,
		LocalPath:    constants.DefaultLocalFile,
		DryRun:       false,
		Backup:       false,
		CreateLocal:  true,
		Timeout:      0,
		Comments:     reconcile.CommentsUnit,
		LocalOnly:    reconcile.LocalOnlyAppend,
		ShowValues:   false,
		FileMode:     constants.SecureFilePermissions,
	}
}

// Option is a function that configures sync Options.
type Option func(*Options)

// Validate checks if the sync options are valid.
func (s *Options) Validate() error {
	if s.TemplatePath == "" {
		return &errors.ValidationError{
			Field:   "TemplatePath",
			Value:   s.TemplatePath,
			Message: "template path must not be empty",
		}
	}

	if s.LocalPath == "" {
		return &errors.ValidationError{
			Field:   "LocalPath",
			Value:   s.LocalPath,
			Message: "local path must not be empty",
		}
	}

	if samePath(s.TemplatePath, s.LocalPath) {
		return &errors.ValidationError{
			Field:   "LocalPath",
			Value:   s.LocalPath,
			Message: fmt.Sprintf("local path '%s' is the template itself", s.LocalPath),
		}
	}

	if s.Timeout < 0 {
		return &errors.ValidationError{
			Field:   "Timeout",
			Value:   s.Timeout,
			Message: "timeout must be non-negative",
		}
	}

	if !s.Comments.IsValid() {
		return &errors.ValidationError{
			Field:   "Comments",
			Value:   s.Comments,
			Message: fmt.Sprintf("unknown comment policy '%s'", s.Comments),
		}
	}

	if !s.LocalOnly.IsValid() {
		return &errors.ValidationError{
			Field:   "LocalOnly",
			Value:   s.LocalOnly,
			Message: fmt.Sprintf("unknown local-only policy '%s'", s.LocalOnly),
		}
	}

	return nil
}

// ReconcileOptions converts sync options to reconcile options.
func (s *Options) ReconcileOptions() []reconcile.Option {
	return []reconcile.Option{
		reconcile.WithCommentPolicy(s.Comments),
		reconcile.WithLocalOnlyPolicy(s.LocalOnly),
	}
}

// DifferOptions converts sync options to differ options.
func (s *Options) DifferOptions() []differ.Option {
	return []differ.Option{
		differ.WithRedactedValues(!s.ShowValues),
		differ.WithCommentComparison(!s.IgnoreComments),
	}
}

// NewFileMode returns the mode used when the local file does not exist yet.
func (s *Options) NewFileMode() os.FileMode {
	if s.FileMode == 0 {
		return constants.SecureFilePermissions
	}
	return s.FileMode
}

// samePath reports whether a and b name the same file, either as paths or,
// when both exist, through symlinks and hard links.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		if filepath.Clean(a) == filepath.Clean(b) {
			return true
		}
	} else if absA == absB {
		return true
	}

	infoA, errA := os.Stat(a)
	infoB, errB := os.Stat(b)
	return errA == nil && errB == nil && os.SameFile(infoA, infoB)
}

// WithTemplatePath configures the template to sync from.
func WithTemplatePath(path string) Option {
	return func(opts *Options) {
		opts.TemplatePath = path
	}
}

// WithLocalPath configures the local file to sync into.
func WithLocalPath(path string) Option {
	return func(opts *Options) {
		opts.LocalPath = path
	}
}

// WithDryRun configures dry run mode.
func WithDryRun(dryRun bool) Option {
	return func(opts *Options) {
		opts.DryRun = dryRun
	}
}

// WithBackup configures whether the local file is backed up before writing.
func WithBackup(backup bool) Option {
	return func(opts *Options) {
		opts.Backup = backup
	}
}

// WithCreateLocal configures whether a missing local file is created.
func WithCreateLocal(create bool) Option {
	return func(opts *Options) {
		opts.CreateLocal = create
	}
}

// WithTimeout configures the sync timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *Options) {
		opts.Timeout = timeout
	}
}

// WithCommentPolicy configures how local comments are adopted.
func WithCommentPolicy(policy reconcile.CommentPolicy) Option {
	return func(opts *Options) {
		opts.Comments = policy
	}
}

// WithLocalOnlyPolicy configures what happens to local-only keys.
func WithLocalOnlyPolicy(policy reconcile.LocalOnlyPolicy) Option {
	return func(opts *Options) {
		opts.LocalOnly = policy
	}
}

// WithIgnoreComments configures whether comment-only and formatting-only
// differences count as changes. It affects reporting, not what is written.
func WithIgnoreComments(ignore bool) Option {
	return func(opts *Options) {
		opts.IgnoreComments = ignore
	}
}

// WithShowValues configures whether reports include values.
func WithShowValues(show bool) Option {
	return func(opts *Options) {
		opts.ShowValues = show
	}
}

// WithFileMode configures the mode of a newly created local file.
func WithFileMode(mode os.FileMode) Option {
	return func(opts *Options) {
		opts.FileMode = mode
	}
}
