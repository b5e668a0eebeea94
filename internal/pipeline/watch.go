package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"bioretention/internal/config"
	"bioretention/internal/logging"
)

// RunFunc receives the outcome of every run triggered by a Watcher.
type RunFunc func(*Result, error)

// Watcher re-runs the pipeline whenever the workbook changes on disk.
// It watches the workbook's directory, since spreadsheet tools usually
// save by writing a new file and renaming it over the old one.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	cfg      *config.Config
	opts     Options
	onRun    RunFunc
	target   string
	debounce time.Duration
	pending  time.Time // zero when nothing is queued

	stats WatcherStats
}

// WatcherStats tracks watcher activity.
type WatcherStats struct {
	Events    int
	Runs      int
	Failures  int
	LastEvent time.Time
}

// NewWatcher prepares a watcher for the configured workbook.
func NewWatcher(cfg *config.Config, opts Options, onRun RunFunc) (*Watcher, error) {
	target, err := filepath.Abs(cfg.Input.Workbook)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workbook path: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(target)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}
	if onRun == nil {
		onRun = func(*Result, error) {}
	}
	return &Watcher{
		watcher:  fw,
		cfg:      cfg,
		opts:     opts,
		onRun:    onRun,
		target:   target,
		debounce: cfg.GetWatchDebounce(),
	}, nil
}

// Stats returns a snapshot of the watcher counters.
func (w *Watcher) Stats() WatcherStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// Run blocks, re-running the pipeline after each settled change, until ctx
// is done. The watcher is closed on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	log := logging.Get(logging.CategoryWatch)
	log.Infow("watching workbook", "path", w.target, "debounce", w.debounce)

	tick := w.debounce / 5
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Infow("watch stopped", "runs", w.Stats().Runs)
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher event channel closed")
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			log.Warnw("watcher error", "error", err)

		case <-ticker.C:
			w.processSettled(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil || abs != w.target {
		return
	}
	logging.Get(logging.CategoryWatch).Debugw("workbook event", "op", event.Op.String())

	w.mu.Lock()
	w.stats.Events++
	w.stats.LastEvent = time.Now()
	w.pending = w.stats.LastEvent
	w.mu.Unlock()
}

func (w *Watcher) processSettled(ctx context.Context) {
	w.mu.Lock()
	if w.pending.IsZero() || time.Since(w.pending) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.pending = time.Time{}
	w.mu.Unlock()

	res, err := Run(ctx, w.cfg, w.opts)

	w.mu.Lock()
	w.stats.Runs++
	if err != nil {
		w.stats.Failures++
	}
	w.mu.Unlock()

	if err != nil {
		logging.Get(logging.CategoryWatch).Errorw("run failed", "error", err)
	}
	w.onRun(res, err)
}

// Watch runs the pipeline whenever the workbook is written until ctx is done.
func Watch(ctx context.Context, cfg *config.Config, opts Options, onRun RunFunc) error {
	w, err := NewWatcher(cfg, opts, onRun)
	if err != nil {
		return err
	}
	return w.Run(ctx)
}
