// Package artifact persists transcript and summary files per task.
// Artifacts are secondary, write-once copies; the task record in the
// database stays authoritative if a write here fails.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
)

type Store struct {
	transcriptsDir string
	summariesDir   string
}

// New creates an artifact store rooted at the given directories.
func New(transcriptsDir, summariesDir string) *Store {
	return &Store{
		transcriptsDir: transcriptsDir,
		summariesDir:   summariesDir,
	}
}

// PutTranscript writes the transcript text for a task.
func (s *Store) PutTranscript(taskID, transcript string) (string, error) {
	path := s.TranscriptPath(taskID)
	if err := writeOnce(path, []byte(transcript)); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}
	return path, nil
}

// PutSummary writes the summary JSON for a task.
func (s *Store) PutSummary(taskID string, summaryJSON []byte) (string, error) {
	path := s.SummaryPath(taskID)
	if err := writeOnce(path, summaryJSON); err != nil {
		return "", fmt.Errorf("write summary: %w", err)
	}
	return path, nil
}

// TranscriptPath returns the deterministic transcript location for a task.
func (s *Store) TranscriptPath(taskID string) string {
	return filepath.Join(s.transcriptsDir, taskID+"_transcript.txt")
}

// SummaryPath returns the deterministic summary location for a task.
func (s *Store) SummaryPath(taskID string) string {
	return filepath.Join(s.summariesDir, taskID+"_summary.json")
}

// writeOnce refuses to clobber an existing artifact.
func writeOnce(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
