package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/whisper-subtitler/internal/logger"
)

// defaultSettle is how long a new file is left alone before it is handled,
// so a copy in progress can finish.
const defaultSettle = 500 * time.Millisecond

// Option configures a Watcher.
type Option func(*implWatcher)

// WithSettle overrides the delay between a create event and handling the file.
func WithSettle(d time.Duration) Option {
	return func(w *implWatcher) { w.settle = d }
}

// New creates a new Watcher instance with concurrency control
func New(inputDir string, accept Filter, handler EventHandler, log logger.Logger, maxConcurrent int, opts ...Option) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	// One pipeline at a time unless configured otherwise
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	w := &implWatcher{
		inputDir:      inputDir,
		accept:        accept,
		handler:       handler,
		logger:        log,
		watcher:       watcher,
		maxConcurrent: maxConcurrent,
		sem:           newSemaphore(maxConcurrent),
		settle:        defaultSettle,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}
