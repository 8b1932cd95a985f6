package transcriber

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/meetscribe/meetscribe/internal/config"
	"github.com/meetscribe/meetscribe/internal/logger"
)

// fakeExecutor simulates the whisper binary by writing the transcript
// next to the input file the way whisper.cpp does with -otxt.
type fakeExecutor struct {
	output string
	err    error
	args   []string
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.args = args
	if f.err != nil {
		return "", f.err
	}
	var prefix string
	for i, a := range args {
		if a == "--output-file" && i+1 < len(args) {
			prefix = args[i+1]
		}
	}
	if err := os.WriteFile(prefix+".txt", []byte(f.output), 0644); err != nil {
		return "", err
	}
	return "", nil
}

func testConfig() config.WhisperConfig {
	return config.WhisperConfig{
		ModelPath:  "models/ggml-base.bin",
		BinaryPath: "./whisper",
		Language:   "en",
		Threads:    4,
	}
}

func TestTranscribe(t *testing.T) {
	audioPath := filepath.Join(t.TempDir(), "meeting.wav")
	if err := os.WriteFile(audioPath, []byte("not really audio"), 0644); err != nil {
		t.Fatal(err)
	}

	exec := &fakeExecutor{output: " hello from the meeting \n"}
	tr := New(testConfig(), exec, logger.New("error"))

	got, err := tr.Transcribe(context.Background(), audioPath)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if got != "hello from the meeting" {
		t.Errorf("Transcribe() = %q, want trimmed transcript", got)
	}

	joined := strings.Join(exec.args, " ")
	if !strings.Contains(joined, "-m models/ggml-base.bin") {
		t.Errorf("whisper args missing model path: %v", exec.args)
	}
	if !strings.Contains(joined, "-otxt") {
		t.Errorf("whisper args missing -otxt: %v", exec.args)
	}
}

func TestTranscribeMissingFile(t *testing.T) {
	tr := New(testConfig(), &fakeExecutor{}, logger.New("error"))

	_, err := tr.Transcribe(context.Background(), filepath.Join(t.TempDir(), "missing.wav"))
	if err == nil {
		t.Error("Transcribe() should fail for unreadable audio")
	}
}

func TestTranscribeExecutorFailure(t *testing.T) {
	audioPath := filepath.Join(t.TempDir(), "meeting.wav")
	if err := os.WriteFile(audioPath, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	exec := &fakeExecutor{err: errors.New("model not found")}
	tr := New(testConfig(), exec, logger.New("error"))

	_, err := tr.Transcribe(context.Background(), audioPath)
	if err == nil {
		t.Error("Transcribe() should propagate executor failure")
	}
}
