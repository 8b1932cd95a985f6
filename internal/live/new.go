package live

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/meetscribe/meetscribe/internal/logger"
	"github.com/meetscribe/meetscribe/internal/pipeline"
	"github.com/meetscribe/meetscribe/internal/store"
)

type implCoordinator struct {
	store      *store.Store
	runner     pipeline.Runner
	logger     logger.Logger
	uploadsDir string
	upgrader   websocket.Upgrader
}

// New creates a Coordinator writing accumulated recordings under uploadsDir.
func New(st *store.Store, runner pipeline.Runner, log logger.Logger, uploadsDir string) Coordinator {
	return &implCoordinator{
		store:      st,
		runner:     runner,
		logger:     log,
		uploadsDir: uploadsDir,
		upgrader: websocket.Upgrader{
			// The browser recorder runs on a different origin in development
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}
