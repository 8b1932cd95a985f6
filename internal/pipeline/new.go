package pipeline

import (
	"sync"

	"github.com/meetscribe/meetscribe/internal/artifact"
	"github.com/meetscribe/meetscribe/internal/logger"
	"github.com/meetscribe/meetscribe/internal/store"
	"github.com/meetscribe/meetscribe/internal/summarizer"
	"github.com/meetscribe/meetscribe/internal/transcriber"
)

type implRunner struct {
	store       *store.Store
	artifacts   *artifact.Store
	transcriber transcriber.Transcriber
	summarizer  summarizer.Summarizer
	logger      logger.Logger

	semaphore *semaphore
	wg        sync.WaitGroup

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// New creates a Runner. maxConcurrent bounds the number of pipeline
// runs executing at once; model inference is the expensive part.
func New(st *store.Store, art *artifact.Store, tr transcriber.Transcriber, sum summarizer.Summarizer, log logger.Logger, maxConcurrent int) Runner {
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}
	return &implRunner{
		store:       st,
		artifacts:   art,
		transcriber: tr,
		summarizer:  sum,
		logger:      log,
		semaphore:   newSemaphore(maxConcurrent),
		inFlight:    make(map[string]struct{}),
	}
}
