package live

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/meetscribe/meetscribe/internal/store"
	"github.com/meetscribe/meetscribe/internal/summarizer"
)

// wsConn serializes writes: the pipeline completion event arrives from a
// background goroutine while the read loop may be acknowledging chunks.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) send(msg serverMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

func (c *implCoordinator) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	raw, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.Error(ctx, "WebSocket upgrade failed: %v", err)
		return
	}
	defer raw.Close()

	conn := &wsConn{conn: raw}
	sess := newSession(c.uploadsDir)
	c.logger.Info(ctx, "Live session connected from %s", r.RemoteAddr)

	for {
		var msg clientMessage
		if err := raw.ReadJSON(&msg); err != nil {
			// Connection closed; any unprocessed buffer is abandoned
			c.logger.Info(ctx, "Live session disconnected: %v", err)
			return
		}

		switch msg.Type {
		case eventStart:
			c.handleStart(ctx, conn, sess)
		case eventAudioChunk:
			c.handleAudioChunk(ctx, conn, sess, msg)
		case eventStop:
			c.handleStop(ctx, conn, sess, msg)
		default:
			c.sendError(ctx, conn, msg.TaskID, fmt.Sprintf("Unknown event type: %s", msg.Type))
		}
	}
}

// handleStart allocates a task id, creates the task record in recording
// state and replies with the assigned id.
func (c *implCoordinator) handleStart(ctx context.Context, conn *wsConn, sess *session) {
	taskID := uuid.NewString()

	m := &store.Meeting{
		TaskID:        taskID,
		Filename:      filepath.Base(sess.recordingPath(taskID)),
		FilePath:      sess.recordingPath(taskID),
		Status:        store.StatusRecording,
		RecordingType: store.RecordingTypeLive,
	}
	if err := c.store.Create(ctx, m); err != nil {
		c.logger.Error(ctx, "Failed to create live task record: %v", err)
		c.sendError(ctx, conn, "", "Failed to start recording session")
		return
	}

	c.logger.Info(ctx, "Started live recording session %s", taskID)
	c.reply(ctx, conn, serverMessage{Type: eventStarted, TaskID: taskID})
}

// handleAudioChunk appends one decoded chunk to the session buffer.
// Malformed chunks are reported back but never terminate the session.
func (c *implCoordinator) handleAudioChunk(ctx context.Context, conn *wsConn, sess *session, msg clientMessage) {
	if msg.TaskID == "" || msg.Data == "" {
		c.sendError(ctx, conn, msg.TaskID, "Missing task_id or data")
		return
	}

	total, err := sess.appendChunk(msg.TaskID, msg.Data)
	if err != nil {
		c.logger.Warn(ctx, "Bad audio chunk for task %s: %v", msg.TaskID, err)
		c.sendError(ctx, conn, msg.TaskID, fmt.Sprintf("Error saving audio: %v", err))
		return
	}

	c.reply(ctx, conn, serverMessage{Type: eventChunkAck, TaskID: msg.TaskID, BytesReceived: total})
}

// handleStop acknowledges the stop, then runs the pipeline on the
// accumulated file in the background and pushes the terminal result.
func (c *implCoordinator) handleStop(ctx context.Context, conn *wsConn, sess *session, msg clientMessage) {
	if msg.TaskID == "" {
		c.sendError(ctx, conn, "", "Missing task_id")
		return
	}

	if err := c.store.UpdateStatus(ctx, msg.TaskID, store.StatusProcessing); err != nil {
		c.logger.Warn(ctx, "Failed to mark task %s processing: %v", msg.TaskID, err)
		c.sendError(ctx, conn, msg.TaskID, "Unknown recording session")
		return
	}

	c.logger.Info(ctx, "Stopped live recording session %s", msg.TaskID)
	c.reply(ctx, conn, serverMessage{Type: eventStopped, TaskID: msg.TaskID})

	taskID := msg.TaskID
	audioPath := sess.recordingPath(taskID)
	go func() {
		// The connection may outlive the request context
		ctx := context.Background()

		if err := c.runner.Run(ctx, taskID, audioPath); err != nil {
			c.sendError(ctx, conn, taskID, fmt.Sprintf("Processing failed: %v", err))
			return
		}

		m, err := c.store.GetByTaskID(ctx, taskID)
		if err != nil {
			c.sendError(ctx, conn, taskID, "Processed record disappeared")
			return
		}

		var summary summarizer.SummaryData
		if err := json.Unmarshal([]byte(m.SummaryData), &summary); err != nil {
			c.logger.Error(ctx, "Failed to decode stored summary for task %s: %v", taskID, err)
		}

		c.reply(ctx, conn, serverMessage{
			Type:       eventCompleted,
			TaskID:     taskID,
			Transcript: m.Transcript,
			Summary:    &summary,
		})
	}()
}

func (c *implCoordinator) sendError(ctx context.Context, conn *wsConn, taskID, message string) {
	c.reply(ctx, conn, serverMessage{Type: eventError, TaskID: taskID, Message: message})
}

func (c *implCoordinator) reply(ctx context.Context, conn *wsConn, msg serverMessage) {
	if err := conn.send(msg); err != nil {
		c.logger.Warn(ctx, "Failed to write %s event: %v", msg.Type, err)
	}
}
