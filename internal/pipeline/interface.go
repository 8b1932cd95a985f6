package pipeline

import "context"

// Runner drives task records through the processing state machine:
// uploaded/recording -> transcribing -> summarizing -> completed|error.
type Runner interface {
	// Run executes the pipeline synchronously for one task.
	Run(ctx context.Context, taskID, audioPath string) error
	// StartRun triggers a pipeline run off the caller's path. The caller
	// polls the task record for completion.
	StartRun(taskID, audioPath string)
	// Wait blocks until all in-flight runs have finished.
	Wait()
}
