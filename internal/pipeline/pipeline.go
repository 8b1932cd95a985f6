package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/meetscribe/meetscribe/internal/store"
)

// ErrRunInFlight is returned when a run is already active for a task id.
var ErrRunInFlight = errors.New("run already in flight for task")

// Run executes the full pipeline for one task: transcribe, then
// summarize, committing the record after every step. At most one run may
// be active per task id; a second concurrent invocation is rejected.
func (r *implRunner) Run(ctx context.Context, taskID, audioPath string) (err error) {
	if !r.tryAcquireTask(taskID) {
		r.logger.Warn(ctx, "Rejecting duplicate run for task %s", taskID)
		return ErrRunInFlight
	}
	defer r.releaseTask(taskID)

	// The run must never exit leaving the record in a non-terminal
	// status, whatever goes wrong inside.
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error(ctx, "Panic during run for task %s: %v", taskID, p)
			r.markError(ctx, taskID)
			err = fmt.Errorf("pipeline panic: %v", p)
		}
	}()

	startTime := time.Now()

	if _, err := r.store.GetByTaskID(ctx, taskID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			r.logger.Error(ctx, "Task %s not found, nothing to process", taskID)
			return err
		}
		r.logger.Error(ctx, "Failed to load task %s: %v", taskID, err)
		return err
	}

	r.logger.Info(ctx, "Starting pipeline for task %s: %s", taskID, audioPath)

	if err := r.store.UpdateStatus(ctx, taskID, store.StatusTranscribing); err != nil {
		r.logger.Error(ctx, "Failed to mark task %s transcribing: %v", taskID, err)
		r.markError(ctx, taskID)
		return fmt.Errorf("update status: %w", err)
	}

	transcript, err := r.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		r.logger.Error(ctx, "Transcription failed for task %s: %v", taskID, err)
		r.markError(ctx, taskID)
		return fmt.Errorf("transcribe: %w", err)
	}
	r.logger.Info(ctx, "Transcription complete for task %s: %d characters", taskID, len(transcript))

	// Artifacts are best-effort copies; the record stays authoritative.
	if _, err := r.artifacts.PutTranscript(taskID, transcript); err != nil {
		r.logger.Warn(ctx, "Failed to persist transcript artifact for task %s: %v", taskID, err)
	}

	if err := r.store.SaveTranscript(ctx, taskID, transcript); err != nil {
		r.logger.Error(ctx, "Failed to save transcript for task %s: %v", taskID, err)
		r.markError(ctx, taskID)
		return fmt.Errorf("save transcript: %w", err)
	}

	// Summarize never fails: a bad model response degrades, it does not
	// throw away a good transcript.
	summary := r.summarizer.Summarize(ctx, transcript)

	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		r.logger.Error(ctx, "Failed to encode summary for task %s: %v", taskID, err)
		r.markError(ctx, taskID)
		return fmt.Errorf("encode summary: %w", err)
	}

	if _, err := r.artifacts.PutSummary(taskID, summaryJSON); err != nil {
		r.logger.Warn(ctx, "Failed to persist summary artifact for task %s: %v", taskID, err)
	}

	if err := r.store.SaveSummary(ctx, taskID, summary.Overview, string(summaryJSON)); err != nil {
		r.logger.Error(ctx, "Failed to save summary for task %s: %v", taskID, err)
		r.markError(ctx, taskID)
		return fmt.Errorf("save summary: %w", err)
	}

	r.logger.Info(ctx, "Pipeline complete for task %s in %s", taskID, time.Since(startTime))
	return nil
}

// StartRun spawns a bounded background run for the task. Errors surface
// to callers only through the task record's status.
func (r *implRunner) StartRun(taskID, audioPath string) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ctx := context.Background()
		if err := r.semaphore.acquire(ctx); err != nil {
			return
		}
		defer r.semaphore.release()

		if err := r.Run(ctx, taskID, audioPath); err != nil {
			r.logger.Debug(ctx, "Background run for task %s finished with: %v", taskID, err)
		}
	}()
}

// Wait blocks until all background runs have finished.
func (r *implRunner) Wait() {
	r.wg.Wait()
}

// markError moves the record to the terminal error status. A failure
// here is logged and dropped; there is nowhere left to report it.
func (r *implRunner) markError(ctx context.Context, taskID string) {
	if err := r.store.UpdateStatus(ctx, taskID, store.StatusError); err != nil {
		r.logger.Error(ctx, "Failed to mark task %s as error: %v", taskID, err)
	}
}

func (r *implRunner) tryAcquireTask(taskID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, active := r.inFlight[taskID]; active {
		return false
	}
	r.inFlight[taskID] = struct{}{}
	return true
}

func (r *implRunner) releaseTask(taskID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inFlight, taskID)
}
