package watcher

import (
	"fmt"

	"github.com/fsnotify/fsnotify"

	"github.com/meetscribe/meetscribe/internal/logger"
)

// New creates a Watcher over inboxDir. The handler is expected to hand
// work off quickly; long-running processing belongs to the pipeline.
func New(inboxDir string, handler EventHandler, log logger.Logger) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inboxDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	return &implWatcher{
		inboxDir: inboxDir,
		handler:  handler,
		logger:   log,
		watcher:  watcher,
	}, nil
}
