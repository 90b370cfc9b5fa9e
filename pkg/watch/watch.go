// Package watch reloads a graph description when its file changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dd0wney/flowattack/pkg/logging"
)

// DefaultDebounce collapses the burst of events editors emit for one save.
const DefaultDebounce = 300 * time.Millisecond

// ReloadFunc is called with the changed path once per settled change.
type ReloadFunc func(ctx context.Context, path string) error

// Watcher watches a single file. The parent directory is watched so that
// atomic saves (write to temp, rename over) are seen.
type Watcher struct {
	path     string
	reload   ReloadFunc
	debounce time.Duration
	logger   logging.Logger

	fs   *fsnotify.Watcher
	done chan struct{}
	once sync.Once
}

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	Logger   logging.Logger
}

// New starts watching path. Call Run to process events.
func New(path string, reload ReloadFunc, opts Options) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}

	return &Watcher{
		path:     abs,
		reload:   reload,
		debounce: opts.Debounce,
		logger:   opts.Logger.With(logging.Component("watch"), logging.Path(abs)),
		fs:       fsw,
		done:     make(chan struct{}),
	}, nil
}

// Run blocks until ctx is cancelled or Close is called. Reload failures are
// logged and the previous graph stays in place.
func (w *Watcher) Run(ctx context.Context) {
	defer w.fs.Close()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	stop := func() {
		if timer != nil {
			timer.Stop()
		}
	}
	defer stop()

	w.logger.Info("watching graph description")
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("graph description changed", logging.String("op", ev.Op.String()))
			stop()
			timer = time.NewTimer(w.debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			timer = nil
			if err := w.reload(ctx, w.path); err != nil {
				w.logger.Warn("reload failed", logging.Error(err))
				continue
			}
			w.logger.Info("graph description reloaded")

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", logging.Error(err))
		}
	}
}

// Close stops Run.
func (w *Watcher) Close() error {
	w.once.Do(func() { close(w.done) })
	return nil
}
