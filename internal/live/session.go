package live

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// session tracks the audio accumulation buffers owned by one
// connection. Buffers belong to exactly one session; a connection that
// closes before stop abandons them.
type session struct {
	uploadsDir string
	received   map[string]int64
}

func newSession(uploadsDir string) *session {
	return &session{
		uploadsDir: uploadsDir,
		received:   make(map[string]int64),
	}
}

// recordingPath is the deterministic accumulation file for a task.
func (s *session) recordingPath(taskID string) string {
	return filepath.Join(s.uploadsDir, taskID+"_recording.webm")
}

// appendChunk decodes a base64 chunk (optionally a data URL) and appends
// the raw bytes to the task's accumulation file, returning the running
// byte total for the session.
func (s *session) appendChunk(taskID, data string) (int64, error) {
	// Browser recorders often send data URLs: strip the prefix
	if i := strings.IndexByte(data, ','); i >= 0 {
		data = data[i+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return s.received[taskID], fmt.Errorf("decode audio chunk: %w", err)
	}

	if err := os.MkdirAll(s.uploadsDir, 0755); err != nil {
		return s.received[taskID], fmt.Errorf("create uploads dir: %w", err)
	}

	f, err := os.OpenFile(s.recordingPath(taskID), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return s.received[taskID], fmt.Errorf("open recording file: %w", err)
	}
	n, err := f.Write(raw)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return s.received[taskID], fmt.Errorf("append audio chunk: %w", err)
	}

	s.received[taskID] += int64(n)
	return s.received[taskID], nil
}
