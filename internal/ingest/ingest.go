// Package ingest turns files dropped into the inbox into pipeline runs.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/meetscribe/meetscribe/internal/logger"
	"github.com/meetscribe/meetscribe/internal/pipeline"
	"github.com/meetscribe/meetscribe/internal/store"
)

type Ingestor struct {
	store      *store.Store
	runner     pipeline.Runner
	logger     logger.Logger
	uploadsDir string
}

// New creates an Ingestor that claims inbox files into uploadsDir.
func New(st *store.Store, runner pipeline.Runner, log logger.Logger, uploadsDir string) *Ingestor {
	return &Ingestor{
		store:      st,
		runner:     runner,
		logger:     log,
		uploadsDir: uploadsDir,
	}
}

// Handle moves the file out of the inbox, creates its task record and
// kicks off a background pipeline run.
func (i *Ingestor) Handle(ctx context.Context, filePath string) error {
	taskID := uuid.NewString()
	filename := taskID + "_" + filepath.Base(filePath)
	destPath := filepath.Join(i.uploadsDir, filename)

	if err := os.MkdirAll(i.uploadsDir, 0755); err != nil {
		return fmt.Errorf("create uploads dir: %w", err)
	}
	if err := os.Rename(filePath, destPath); err != nil {
		return fmt.Errorf("claim inbox file: %w", err)
	}

	m := &store.Meeting{
		TaskID:        taskID,
		Filename:      filename,
		FilePath:      destPath,
		Status:        store.StatusUploaded,
		RecordingType: store.RecordingTypeUpload,
	}
	if err := i.store.Create(ctx, m); err != nil {
		return fmt.Errorf("create task record: %w", err)
	}

	i.logger.Info(ctx, "Ingested %s as task %s", filePath, taskID)
	i.runner.StartRun(taskID, destPath)
	return nil
}
