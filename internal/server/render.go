package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/meetscribe/meetscribe/internal/store"
	"github.com/meetscribe/meetscribe/internal/summarizer"
)

type meetingResponse struct {
	ID            int64                   `json:"id"`
	TaskID        string                  `json:"task_id"`
	Filename      string                  `json:"filename"`
	Status        string                  `json:"status"`
	Transcript    string                  `json:"transcript,omitempty"`
	Summary       *summarizer.SummaryData `json:"summary,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
	CompletedAt   *time.Time              `json:"completed_at,omitempty"`
	RecordingType string                  `json:"recording_type,omitempty"`
}

type uploadResponse struct {
	Success bool   `json:"success"`
	TaskID  string `json:"task_id"`
	Message string `json:"message"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func renderMeeting(m *store.Meeting) meetingResponse {
	resp := meetingResponse{
		ID:            m.ID,
		TaskID:        m.TaskID,
		Filename:      m.Filename,
		Status:        m.Status,
		Transcript:    m.Transcript,
		CreatedAt:     m.CreatedAt,
		CompletedAt:   m.CompletedAt,
		RecordingType: m.RecordingType,
	}

	if m.SummaryData != "" {
		var summary summarizer.SummaryData
		if err := json.Unmarshal([]byte(m.SummaryData), &summary); err == nil {
			resp.Summary = &summary
		}
	}

	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}
