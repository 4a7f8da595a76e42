package reconcile

import "github.com/rs/zerolog"

// options holds the configuration for a merge.
type options struct {
	comments  CommentPolicy
	localOnly LocalOnlyPolicy
	logger    *zerolog.Logger
}

// Option configures a merge.
type Option func(*options)

// defaultOptions returns options with default values.
func defaultOptions() *options {
	nop := zerolog.Nop()
	return &options{
		comments:  CommentsUnit,
		localOnly: LocalOnlyAppend,
		logger:    &nop,
	}
}

// apply applies the given options.
func (o *options) apply(opts ...Option) *options {
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// WithCommentPolicy sets how local comments are adopted.
// Unknown policies are ignored; validate user input with ParseCommentPolicy.
func WithCommentPolicy(p CommentPolicy) Option {
	return func(o *options) {
		if p.IsValid() {
			o.comments = p
		}
	}
}

// WithLocalOnlyPolicy sets what happens to keys missing from the template.
// Unknown policies are ignored; validate user input with ParseLocalOnlyPolicy.
func WithLocalOnlyPolicy(p LocalOnlyPolicy) Option {
	return func(o *options) {
		if p.IsValid() {
			o.localOnly = p
		}
	}
}

// WithLogger traces every per-key decision to logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
