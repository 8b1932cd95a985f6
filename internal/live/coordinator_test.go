package live

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/meetscribe/meetscribe/internal/logger"
	"github.com/meetscribe/meetscribe/internal/store"
)

// fakeRunner stands in for the pipeline: it drives the record straight
// to its terminal state.
type fakeRunner struct {
	store *store.Store
	fail  bool
}

func (f *fakeRunner) Run(ctx context.Context, taskID, audioPath string) error {
	if f.fail {
		f.store.UpdateStatus(ctx, taskID, store.StatusError)
		return errors.New("transcription failed")
	}
	if err := f.store.SaveTranscript(ctx, taskID, "live transcript"); err != nil {
		return err
	}
	return f.store.SaveSummary(ctx, taskID, "Live overview",
		`{"overview":"Live overview","key_points":["one"],"action_items":[],"decisions":[]}`)
}

func (f *fakeRunner) StartRun(taskID, audioPath string) {}
func (f *fakeRunner) Wait()                             {}

type wsFixture struct {
	store *store.Store
	conn  *websocket.Conn
}

func newWSFixture(t *testing.T, fail bool) *wsFixture {
	t.Helper()
	dir := t.TempDir()

	st, err := store.Open(filepath.Join(dir, "meetings.db"))
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() { st.Close() })

	coord := New(st, &fakeRunner{store: st, fail: fail}, logger.New("error"), filepath.Join(dir, "uploads"))
	srv := httptest.NewServer(coord)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return &wsFixture{store: st, conn: conn}
}

func (f *wsFixture) read(t *testing.T) serverMessage {
	t.Helper()
	f.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg serverMessage
	if err := f.conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return msg
}

func (f *wsFixture) write(t *testing.T, msg clientMessage) {
	t.Helper()
	if err := f.conn.WriteJSON(msg); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
}

func TestLiveSessionFullFlow(t *testing.T) {
	f := newWSFixture(t, false)

	f.write(t, clientMessage{Type: "start"})
	started := f.read(t)
	if started.Type != eventStarted || started.TaskID == "" {
		t.Fatalf("got %+v, want started event with task id", started)
	}
	taskID := started.TaskID

	m, err := f.store.GetByTaskID(context.Background(), taskID)
	if err != nil {
		t.Fatalf("GetByTaskID() error = %v", err)
	}
	if m.Status != store.StatusRecording || m.RecordingType != store.RecordingTypeLive {
		t.Errorf("record = %+v, want recording/live", m)
	}

	chunks := [][]byte{[]byte("chunk-one"), []byte("chunk-two-longer"), []byte("three")}
	var sent int64
	for _, chunk := range chunks {
		sent += int64(len(chunk))
		f.write(t, clientMessage{
			Type:   "audio_chunk",
			TaskID: taskID,
			Data:   base64.StdEncoding.EncodeToString(chunk),
		})
		ack := f.read(t)
		if ack.Type != eventChunkAck {
			t.Fatalf("got %+v, want chunk_ack", ack)
		}
		if ack.BytesReceived != sent {
			t.Errorf("BytesReceived = %d, want %d", ack.BytesReceived, sent)
		}
	}

	f.write(t, clientMessage{Type: "stop", TaskID: taskID})
	stopped := f.read(t)
	if stopped.Type != eventStopped {
		t.Fatalf("got %+v, want stopped", stopped)
	}

	completed := f.read(t)
	if completed.Type != eventCompleted {
		t.Fatalf("got %+v, want completed", completed)
	}
	if completed.Transcript != "live transcript" {
		t.Errorf("Transcript = %q", completed.Transcript)
	}
	if completed.Summary == nil || completed.Summary.Overview != "Live overview" {
		t.Errorf("Summary = %+v", completed.Summary)
	}

	// The accumulated file holds every chunk in receipt order
	m, _ = f.store.GetByTaskID(context.Background(), taskID)
	data, err := os.ReadFile(m.FilePath)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", m.FilePath, err)
	}
	if int64(len(data)) != sent {
		t.Errorf("recording length = %d, want %d", len(data), sent)
	}
	if string(data) != "chunk-onechunk-two-longerthree" {
		t.Errorf("recording = %q, chunks out of order", data)
	}
}

func TestLiveSessionRunFailure(t *testing.T) {
	f := newWSFixture(t, true)

	f.write(t, clientMessage{Type: "start"})
	started := f.read(t)

	f.write(t, clientMessage{Type: "stop", TaskID: started.TaskID})
	if msg := f.read(t); msg.Type != eventStopped {
		t.Fatalf("got %+v, want stopped", msg)
	}

	errMsg := f.read(t)
	if errMsg.Type != eventError {
		t.Fatalf("got %+v, want error event after failed run", errMsg)
	}

	m, _ := f.store.GetByTaskID(context.Background(), started.TaskID)
	if m.Status != store.StatusError {
		t.Errorf("Status = %v, want error", m.Status)
	}
}

func TestLiveSessionMalformedChunk(t *testing.T) {
	f := newWSFixture(t, false)

	f.write(t, clientMessage{Type: "start"})
	started := f.read(t)

	f.write(t, clientMessage{Type: "audio_chunk", TaskID: started.TaskID, Data: "@@not-base64@@"})
	if msg := f.read(t); msg.Type != eventError {
		t.Fatalf("got %+v, want error for malformed chunk", msg)
	}

	// Session stays open and keeps accepting chunks
	f.write(t, clientMessage{
		Type:   "audio_chunk",
		TaskID: started.TaskID,
		Data:   base64.StdEncoding.EncodeToString([]byte("fine")),
	})
	ack := f.read(t)
	if ack.Type != eventChunkAck || ack.BytesReceived != 4 {
		t.Errorf("got %+v, want chunk_ack with 4 bytes", ack)
	}
}

func TestLiveSessionUnknownEvent(t *testing.T) {
	f := newWSFixture(t, false)

	f.write(t, clientMessage{Type: "rewind"})
	msg := f.read(t)
	if msg.Type != eventError {
		t.Fatalf("got %+v, want error", msg)
	}
	if !strings.Contains(msg.Message, "rewind") {
		t.Errorf("Message = %q, should name the unrecognized type", msg.Message)
	}
}

func TestLiveSessionStopUnknownTask(t *testing.T) {
	f := newWSFixture(t, false)

	f.write(t, clientMessage{Type: "stop", TaskID: "nope"})
	msg := f.read(t)
	if msg.Type != eventError {
		t.Fatalf("got %+v, want error for unknown task", msg)
	}
}
