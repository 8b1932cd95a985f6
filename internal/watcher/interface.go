package watcher

import "context"

// Watcher monitors the inbox directory for new audio files.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler is invoked for each new audio file detected.
type EventHandler func(ctx context.Context, filePath string) error
