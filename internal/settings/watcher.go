package settings

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher caches a FileSource and reloads it when the file changes on disk.
type Watcher struct {
	file     FileSource
	debounce time.Duration
	logger   *zap.SugaredLogger

	mu      sync.RWMutex
	current Settings
	err     error

	// OnReload, when set, is called after every reload.
	OnReload func(Settings, error)
}

// NewWatcher loads the file once and returns a watcher serving the cached record.
func NewWatcher(file FileSource, debounce time.Duration, logger *zap.SugaredLogger) *Watcher {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	w := &Watcher{file: file, debounce: debounce, logger: logger}
	w.reload()
	return w
}

// Load returns the most recently read record.
func (w *Watcher) Load() (Settings, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current, w.err
}

func (w *Watcher) reload() {
	s, err := w.file.Load()
	w.mu.Lock()
	w.current, w.err = s, err
	w.mu.Unlock()
	w.logger.Debugw("settings_reloaded", "path", w.file.Path, "error", err)
	if w.OnReload != nil {
		w.OnReload(s, err)
	}
}

// Run watches the settings directory until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// editors replace files, so watch the directory and filter by name
	dir := filepath.Dir(w.file.Path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	target := filepath.Clean(w.file.Path)

	var mu sync.Mutex
	var timer *time.Timer
	resetTimer := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(w.debounce, w.reload)
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				resetTimer()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warnw("settings_watch_error", "error", err)
		case <-ctx.Done():
			return nil
		}
	}
}
