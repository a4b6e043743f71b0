// Package watcher regenerates component documents when their sources change.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gnana997/propdoc/pkg/generator"
)

// Regenerator is the part of generator.Generator the watcher drives.
type Regenerator interface {
	Generate(ctx context.Context, sourcePath string) (*generator.Result, error)
}

// Options control which files trigger regeneration.
type Options struct {
	DebounceMs int
	Include    []string
	Exclude    []string
}

// DefaultOptions watches the default component globs with a 200ms debounce.
func DefaultOptions() Options {
	return Options{
		DebounceMs: 200,
		Include:    generator.DefaultInclude,
		Exclude:    generator.DefaultExclude,
	}
}

// Watcher debounces write and create events per file and regenerates the
// file's document once the file has been quiet for the debounce window.
type Watcher struct {
	fsw     *fsnotify.Watcher
	gen     Regenerator
	options Options
	logger  *slog.Logger

	root string
	ctx  context.Context

	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex
	inflight       sync.WaitGroup

	stopChan chan struct{}
	started  bool
	stopped  bool
	mu       sync.Mutex
}

// New creates a Watcher. Patterns are validated here so that Start only
// fails on filesystem errors.
func New(gen Regenerator, options Options, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if options.DebounceMs <= 0 {
		options.DebounceMs = DefaultOptions().DebounceMs
	}
	if err := generator.ValidatePatterns(options.Include, options.Exclude); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	return &Watcher{
		fsw:            fsw,
		gen:            gen,
		options:        options,
		logger:         logger,
		debounceTimers: make(map[string]*time.Timer),
		stopChan:       make(chan struct{}),
	}, nil
}

// Start watches root and every non-excluded directory below it. Events are
// handled in the background until Stop is called or ctx ends.
func (w *Watcher) Start(ctx context.Context, root string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return fmt.Errorf("watcher already stopped")
	}
	if w.started {
		return fmt.Errorf("watcher already started")
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", root, err)
	}
	w.root = absRoot
	w.ctx = ctx

	if err := w.addTree(absRoot); err != nil {
		return err
	}
	w.started = true

	w.logger.Info("watching for component changes", "root", absRoot, "debounce_ms", w.options.DebounceMs)
	go w.eventLoop()
	return nil
}

func (w *Watcher) addTree(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if path != w.root && w.excludedDir(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			if path == dir {
				return fmt.Errorf("watch %s: %w", path, err)
			}
			w.logger.Warn("cannot watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// Stop ends watching and cancels pending regenerations. It waits for a
// regeneration already running. Safe to call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	close(w.stopChan)
	w.mu.Unlock()

	w.debounceMu.Lock()
	for path, timer := range w.debounceTimers {
		if timer.Stop() {
			w.inflight.Done()
		}
		delete(w.debounceTimers, path)
	}
	w.debounceMu.Unlock()

	err := w.fsw.Close()
	w.inflight.Wait()
	w.logger.Info("watcher stopped")
	return err
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.stopChan:
			return
		case <-w.ctx.Done():
			_ = w.Stop()
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !w.excludedDir(event.Name) {
				if err := w.addTree(event.Name); err != nil {
					w.logger.Warn("cannot watch new directory", "path", event.Name, "error", err)
				}
			}
			return
		}
	}

	if !w.Watches(event.Name) {
		return
	}
	w.logger.Debug("component changed", "op", event.Op.String(), "file", event.Name)
	w.debounce(event.Name)
}

// Watches reports whether a change to path triggers regeneration.
// Generated documents never match the source globs, so writing them does not
// loop back into the watcher.
func (w *Watcher) Watches(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	return !generator.Excluded(rel, w.options.Exclude) && generator.Included(rel, w.options.Include)
}

func (w *Watcher) excludedDir(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	return generator.Excluded(rel, w.options.Exclude) || generator.Excluded(rel+"/_", w.options.Exclude)
}

// debounce (re)arms the timer for path. Only the last event in a burst
// triggers regeneration.
func (w *Watcher) debounce(path string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	w.mu.Lock()
	stopped := w.stopped
	w.mu.Unlock()
	if stopped {
		return
	}

	if timer, ok := w.debounceTimers[path]; ok && timer.Stop() {
		w.inflight.Done()
	}

	w.inflight.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(
		time.Duration(w.options.DebounceMs)*time.Millisecond,
		func() {
			defer w.inflight.Done()
			w.release(path, timer)
			w.regenerate(path)
		},
	)
	w.debounceTimers[path] = timer
}

// release removes the pending entry for path if it is still timer. A newer
// event may already have armed a replacement that must stay cancellable.
func (w *Watcher) release(path string, timer *time.Timer) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()
	if w.debounceTimers[path] == timer {
		delete(w.debounceTimers, path)
	}
}

func (w *Watcher) regenerate(path string) {
	res, err := w.gen.Generate(w.ctx, path)
	if err != nil {
		w.logger.Warn("regeneration failed", "file", path, "error", err)
		return
	}
	w.logger.Info("document refreshed", "file", path, "doc", res.DocPath, "action", string(res.Action))
}

// Pending returns the number of files waiting out their debounce window.
func (w *Watcher) Pending() int {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()
	return len(w.debounceTimers)
}
