// Package store persists meeting task records in SQLite.
package store

import "time"

// Task record statuses, in pipeline order. A record moves forward only,
// except that error is reachable from any non-terminal status.
const (
	StatusUploaded     = "uploaded"
	StatusRecording    = "recording"
	StatusProcessing   = "processing"
	StatusTranscribing = "transcribing"
	StatusSummarizing  = "summarizing"
	StatusCompleted    = "completed"
	StatusError        = "error"
)

// Recording types.
const (
	RecordingTypeUpload = "upload"
	RecordingTypeLive   = "live"
)

// Meeting is the task record tracking one recording through the pipeline.
// TaskID is the only key external callers use to query progress.
type Meeting struct {
	ID              int64
	TaskID          string
	Filename        string
	FilePath        string
	Status          string
	Transcript      string
	SummaryOverview string
	SummaryData     string
	CreatedAt       time.Time
	CompletedAt     *time.Time
	RecordingType   string
}
