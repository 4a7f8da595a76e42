// Package discover finds template/local pairs under a directory tree, for
// repositories that keep one env template per service.
package discover

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/agentstation/envsync/pkg/constants"
	"github.com/agentstation/envsync/pkg/errors"
)

// Pair is a template file and the local file derived from it.
type Pair struct {
	Template string `json:"template" yaml:"template"`
	Local    string `json:"local" yaml:"local"`
}

// String returns "template -> local".
func (p Pair) String() string {
	return p.Template + " -> " + p.Local
}

// options holds the configuration for Find.
type options struct {
	pattern string
	exclude []string
	suffix  string
}

// Option configures Find.
type Option func(*options)

// WithPattern sets the doublestar pattern that selects template files.
func WithPattern(pattern string) Option {
	return func(o *options) {
		if pattern != "" {
			o.pattern = pattern
		}
	}
}

// WithExclude replaces the patterns whose matches are skipped.
func WithExclude(patterns ...string) Option {
	return func(o *options) {
		o.exclude = patterns
	}
}

// WithSuffix sets the suffix stripped from a template path to get its local path.
func WithSuffix(suffix string) Option {
	return func(o *options) {
		if suffix != "" {
			o.suffix = suffix
		}
	}
}

func defaultOptions() *options {
	return &options{
		pattern: constants.DefaultDiscoverPattern,
		exclude: append([]string(nil), constants.DefaultExcludePatterns...),
		suffix:  constants.TemplateSuffix,
	}
}

// Find walks root and returns every template matching the pattern, paired
// with its local file. Templates that do not end in the suffix are skipped,
// since their local path would be the template itself. Results are sorted by
// template path.
func Find(root string, opts ...Option) ([]Pair, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	if !doublestar.ValidatePattern(o.pattern) {
		return nil, errors.NewValidationError("pattern", o.pattern, "invalid glob pattern")
	}
	for _, ex := range o.exclude {
		if !doublestar.ValidatePattern(ex) {
			return nil, errors.NewValidationError("exclude", ex, "invalid glob pattern")
		}
	}

	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("directory", root)
		}
		return nil, errors.WrapIO("stat", root, err)
	}
	if !info.IsDir() {
		return nil, errors.NewValidationError("root", root, "not a directory")
	}

	matches, err := doublestar.Glob(os.DirFS(root), o.pattern,
		doublestar.WithFilesOnly(),
		doublestar.WithFailOnIOErrors(),
	)
	if err != nil {
		return nil, errors.WrapResource("discover", "directory", root, err)
	}

	var pairs []Pair
	for _, match := range matches {
		if excluded(match, o.exclude) || !strings.HasSuffix(match, o.suffix) {
			continue
		}
		local := strings.TrimSuffix(match, o.suffix)
		if local == "" || strings.HasSuffix(local, "/") {
			continue
		}
		pairs = append(pairs, Pair{
			Template: filepath.Join(root, filepath.FromSlash(match)),
			Local:    filepath.Join(root, filepath.FromSlash(local)),
		})
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].Template < pairs[j].Template
	})

	return pairs, nil
}

// Match reports whether a slash-separated path relative to a discovery root
// would be selected by pattern and not excluded.
func Match(pattern string, exclude []string, name string) bool {
	ok, err := doublestar.Match(pattern, name)
	if err != nil || !ok {
		return false
	}
	return !excluded(name, exclude)
}

func excluded(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
