package pipeline

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"fwmodel/logging"
	"github.com/fsnotify/fsnotify"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

const (
	DefaultDebounce = 500 * time.Millisecond

	minTick = time.Millisecond
)

// DatasetWatcher calls onChange after the data file has been created, written,
// renamed or removed and then left alone for the debounce window. The parent
// directory is watched so that editors replacing the file are noticed.
type DatasetWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	dir      string
	debounce time.Duration
	onChange func(ctx context.Context)
	pending  time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

func NewDatasetWatcher(path string, debounce time.Duration, onChange func(ctx context.Context)) (*DatasetWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &DatasetWatcher{
		watcher:  watcher,
		path:     abs,
		dir:      filepath.Dir(abs),
		debounce: debounce,
		onChange: onChange,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start is non-blocking; events are handled on a background goroutine until
// ctx is cancelled or Stop is called.
func (w *DatasetWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	if err := w.watcher.Add(w.dir); err != nil {
		return errors.Annotatef(err, "watch %s", w.dir)
	}
	w.running = true
	logging.Logger().Info("watch dataset", zap.String("path", w.path))
	go w.run(ctx)
	return nil
}

// Stop ends the event loop, waits for it and releases the watcher.
func (w *DatasetWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		_ = w.watcher.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	if err := w.watcher.Close(); err != nil {
		logging.Logger().Error("failed to close watcher", zap.Error(err))
	}
}

// Done is closed once the event loop has exited.
func (w *DatasetWatcher) Done() <-chan struct{} {
	return w.doneCh
}

func (w *DatasetWatcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(tickInterval(w.debounce))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Logger().Error("watcher error", zap.Error(err))
		case now := <-ticker.C:
			if w.settled(now) {
				w.onChange(ctx)
			}
		}
	}
}

// tickInterval is how often settled is polled: a fifth of the debounce
// window, never below minTick.
func tickInterval(debounce time.Duration) time.Duration {
	return max(debounce/5, minTick)
}

func (w *DatasetWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return
	}
	logging.Logger().Debug("dataset event", zap.String("op", event.Op.String()))
	w.mu.Lock()
	w.pending = time.Now()
	w.mu.Unlock()
}

func (w *DatasetWatcher) settled(now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending.IsZero() || now.Sub(w.pending) < w.debounce {
		return false
	}
	w.pending = time.Time{}
	return true
}
