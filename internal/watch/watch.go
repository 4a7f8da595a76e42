// Package watch re-syncs local env files when their templates change on disk.
package watch

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/agentstation/envsync/pkg/constants"
	"github.com/agentstation/envsync/pkg/discover"
	"github.com/agentstation/envsync/pkg/errors"
)

// SyncFunc syncs one pair after its template changed.
type SyncFunc func(ctx context.Context, pair discover.Pair) error

// Hook function types for watcher events
type (
	// SyncedHook is called after a pair synced without error
	SyncedHook func(pair discover.Pair)

	// ErrorHook is called when syncing a pair failed or fsnotify reported an error.
	// pair is zero for fsnotify errors.
	ErrorHook func(pair discover.Pair, err error)
)

// Stats tracks watcher activity.
type Stats struct {
	Events   int       // template events received
	Syncs    int       // sync runs, successful or not
	Errors   int       // failed syncs and fsnotify errors
	LastSync time.Time // time the last sync finished
}

// Watcher watches the templates of a set of pairs and runs a sync function
// for a pair once its template has been quiet for the debounce window.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	pairs    map[string]discover.Pair // keyed by absolute template path
	dirs     []string
	syncFn   SyncFunc
	debounce time.Duration
	pending  map[string]time.Time
	logger   *zerolog.Logger
	stats    Stats

	onSynced []SyncedHook
	onError  []ErrorHook
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long a template must stay quiet before it is synced.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger for watcher events.
func WithLogger(logger *zerolog.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New creates a Watcher for pairs. The parent directory of every template is
// watched, so editors that save by renaming a temp file are seen too.
func New(pairs []discover.Pair, fn SyncFunc, opts ...Option) (*Watcher, error) {
	if len(pairs) == 0 {
		return nil, errors.NewValidationError("pairs", len(pairs), "nothing to watch")
	}
	if fn == nil {
		return nil, errors.NewValidationError("sync", nil, "sync function is required")
	}

	nop := zerolog.Nop()
	w := &Watcher{
		pairs:    make(map[string]discover.Pair, len(pairs)),
		syncFn:   fn,
		debounce: constants.WatchDebounce,
		pending:  make(map[string]time.Time),
		logger:   &nop,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}

	dirs := make(map[string]bool)
	for _, pair := range pairs {
		abs, err := filepath.Abs(pair.Template)
		if err != nil {
			return nil, errors.WrapIO("resolve", pair.Template, err)
		}
		w.pairs[abs] = pair
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		w.dirs = append(w.dirs, dir)
	}
	sort.Strings(w.dirs)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapResource("create", "watcher", "", err)
	}
	for _, dir := range w.dirs {
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return nil, errors.WrapResource("watch", "directory", dir, err)
		}
	}
	w.watcher = watcher

	return w, nil
}

// OnSynced registers a callback for successful syncs.
func (w *Watcher) OnSynced(fn SyncedHook) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onSynced = append(w.onSynced, fn)
}

// OnError registers a callback for failures.
func (w *Watcher) OnError(fn ErrorHook) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = append(w.onError, fn)
}

// Dirs returns the watched directories.
func (w *Watcher) Dirs() []string {
	return append([]string(nil), w.dirs...)
}

// Stats returns a snapshot of watcher activity.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// Run processes events until ctx is done, then closes the underlying
// fsnotify watcher. Syncs run on the calling goroutine, one at a time.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.watcher.Close(); err != nil {
			w.logger.Warn().Err(err).Msg("Error closing watcher")
		}
	}()

	tick := w.debounce / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	debounceTicker := time.NewTicker(tick)
	defer debounceTicker.Stop()

	w.logger.Info().Strs("dirs", w.dirs).Int("templates", len(w.pairs)).Msg("Watching templates")

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug().Msg("Watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error().Err(err).Msg("Watcher error")
			w.fail(discover.Pair{}, err)

		case <-debounceTicker.C:
			w.processDebounced(ctx)
		}
	}
}

// handleEvent records a template event for later processing.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	name := filepath.Clean(event.Name)
	if _, ok := w.pairs[name]; !ok {
		return
	}

	w.logger.Debug().Str("template", name).Str("op", event.Op.String()).Msg("Template changed")

	w.mu.Lock()
	w.stats.Events++
	w.pending[name] = time.Now()
	w.mu.Unlock()
}

// processDebounced syncs the pairs whose template settled past the debounce window.
func (w *Watcher) processDebounced(ctx context.Context) {
	w.mu.Lock()
	now := time.Now()
	var ready []string
	for name, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			ready = append(ready, name)
			delete(w.pending, name)
		}
	}
	w.mu.Unlock()

	sort.Strings(ready)
	for _, name := range ready {
		if ctx.Err() != nil {
			return
		}
		w.run(ctx, w.pairs[name])
	}
}

func (w *Watcher) run(ctx context.Context, pair discover.Pair) {
	err := w.syncFn(ctx, pair)

	w.mu.Lock()
	w.stats.Syncs++
	w.stats.LastSync = time.Now()
	w.mu.Unlock()

	if err != nil {
		w.logger.Error().Err(err).Str("template", pair.Template).Msg("Sync failed")
		w.fail(pair, err)
		return
	}

	w.mu.Lock()
	hooks := append([]SyncedHook(nil), w.onSynced...)
	w.mu.Unlock()
	for _, hook := range hooks {
		hook(pair)
	}
}

func (w *Watcher) fail(pair discover.Pair, err error) {
	w.mu.Lock()
	w.stats.Errors++
	hooks := append([]ErrorHook(nil), w.onError...)
	w.mu.Unlock()
	for _, hook := range hooks {
		hook(pair, err)
	}
}
