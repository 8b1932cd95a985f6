package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/meetscribe/meetscribe/internal/store"
)

var allowedExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".mp4":  true,
	".m4a":  true,
	".webm": true,
	".ogg":  true,
}

// handleUpload accepts a multipart audio file, creates the task record
// and kicks off a background pipeline run. The caller polls /status.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file selected")
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		writeError(w, http.StatusBadRequest, "Invalid file type. Allowed: mp3, wav, mp4, m4a, webm, ogg")
		return
	}

	taskID := uuid.NewString()
	uniqueFilename := taskID + "_" + filename
	destPath := filepath.Join(s.uploadsDir, uniqueFilename)

	if err := os.MkdirAll(s.uploadsDir, 0755); err != nil {
		s.logger.Error(ctx, "Failed to create uploads dir: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to store upload")
		return
	}
	dest, err := os.Create(destPath)
	if err != nil {
		s.logger.Error(ctx, "Failed to create upload file: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to store upload")
		return
	}
	if _, err := io.Copy(dest, file); err != nil {
		dest.Close()
		s.logger.Error(ctx, "Failed to write upload: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to store upload")
		return
	}
	dest.Close()

	m := &store.Meeting{
		TaskID:        taskID,
		Filename:      uniqueFilename,
		FilePath:      destPath,
		Status:        store.StatusUploaded,
		RecordingType: store.RecordingTypeUpload,
	}
	if err := s.store.Create(ctx, m); err != nil {
		s.logger.Error(ctx, "Failed to create task record: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create task")
		return
	}

	s.runner.StartRun(taskID, destPath)

	writeJSON(w, http.StatusOK, uploadResponse{
		Success: true,
		TaskID:  taskID,
		Message: "File uploaded successfully. Processing started.",
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("task_id")

	m, err := s.store.GetByTaskID(r.Context(), taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Task not found")
			return
		}
		s.logger.Error(r.Context(), "Failed to load task %s: %v", taskID, err)
		writeError(w, http.StatusInternalServerError, "Failed to load task")
		return
	}

	writeJSON(w, http.StatusOK, renderMeeting(m))
}

func (s *Server) handleListMeetings(w http.ResponseWriter, r *http.Request) {
	meetings, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), "Failed to list meetings: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list meetings")
		return
	}

	resp := make([]meetingResponse, 0, len(meetings))
	for _, m := range meetings {
		resp = append(resp, renderMeeting(m))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetMeeting(w http.ResponseWriter, r *http.Request) {
	s.handleStatus(w, r)
}

// handleDeleteMeeting removes a record and best-effort deletes its
// audio file; a failed file removal never blocks record deletion.
func (s *Server) handleDeleteMeeting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	taskID := r.PathValue("task_id")

	m, err := s.store.GetByTaskID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Meeting not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load meeting")
		return
	}

	if err := os.Remove(m.FilePath); err != nil && !os.IsNotExist(err) {
		s.logger.Warn(ctx, "Failed to delete file %s: %v", m.FilePath, err)
	}

	if err := s.store.Delete(ctx, taskID); err != nil {
		s.logger.Error(ctx, "Failed to delete meeting %s: %v", taskID, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete meeting")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Meeting deleted",
	})
}

// sanitizeFilename keeps only the base name so uploads cannot escape
// the uploads directory.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	if name == "" || name == "." || name == string(filepath.Separator) {
		return fmt.Sprintf("upload%s", filepath.Ext(name))
	}
	return name
}
