package live

import "net/http"

// Coordinator bridges the live-recording WebSocket channel to the
// one-shot pipeline: it accumulates streamed audio chunks per session
// and, on stop, feeds the buffered file through the pipeline, pushing
// the terminal result back over the same connection.
type Coordinator interface {
	http.Handler
}
