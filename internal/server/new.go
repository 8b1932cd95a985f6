package server

import (
	"net/http"

	"github.com/meetscribe/meetscribe/internal/live"
	"github.com/meetscribe/meetscribe/internal/logger"
	"github.com/meetscribe/meetscribe/internal/pipeline"
	"github.com/meetscribe/meetscribe/internal/store"
)

type Server struct {
	store      *store.Store
	runner     pipeline.Runner
	live       live.Coordinator
	logger     logger.Logger
	uploadsDir string
}

// New creates the HTTP surface: upload + CRUD routes and the live
// recording WebSocket endpoint.
func New(st *store.Store, runner pipeline.Runner, coord live.Coordinator, log logger.Logger, uploadsDir string) *Server {
	return &Server{
		store:      st,
		runner:     runner,
		live:       coord,
		logger:     log,
		uploadsDir: uploadsDir,
	}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("GET /status/{task_id}", s.handleStatus)
	mux.HandleFunc("GET /meetings", s.handleListMeetings)
	mux.HandleFunc("GET /meeting/{task_id}", s.handleGetMeeting)
	mux.HandleFunc("DELETE /meeting/{task_id}", s.handleDeleteMeeting)
	mux.Handle("GET /ws", s.live)
	return mux
}
