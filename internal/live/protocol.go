package live

import "github.com/meetscribe/meetscribe/internal/summarizer"

// Client-to-server event types.
const (
	eventStart      = "start"
	eventAudioChunk = "audio_chunk"
	eventStop       = "stop"
)

// Server-to-client event types.
const (
	eventStarted   = "started"
	eventChunkAck  = "chunk_ack"
	eventStopped   = "stopped"
	eventCompleted = "completed"
	eventError     = "error"
)

type clientMessage struct {
	Type   string `json:"type"`
	TaskID string `json:"task_id,omitempty"`
	Data   string `json:"data,omitempty"`
}

type serverMessage struct {
	Type          string                  `json:"type"`
	TaskID        string                  `json:"task_id,omitempty"`
	BytesReceived int64                   `json:"bytes_received,omitempty"`
	Transcript    string                  `json:"transcript,omitempty"`
	Summary       *summarizer.SummaryData `json:"summary,omitempty"`
	Message       string                  `json:"message,omitempty"`
}
