package summarizer

import (
	"context"
	"fmt"
	"time"

	"github.com/meetscribe/meetscribe/internal/config"
	"github.com/meetscribe/meetscribe/internal/logger"
)

// generator is the raw model call behind a Summarizer backend.
type generator interface {
	generate(ctx context.Context, prompt string) (string, error)
}

type implSummarizer struct {
	gen     generator
	timeout time.Duration
	logger  logger.Logger
}

// New creates a Summarizer with the backend named in the config.
func New(cfg config.SummarizerConfig, ollama config.OllamaConfig, gemini config.GeminiConfig, log logger.Logger) (Summarizer, error) {
	var gen generator
	switch cfg.Backend {
	case "ollama":
		gen = newOllamaGenerator(ollama)
	case "gemini":
		gen = newGeminiGenerator(gemini, log)
	default:
		return nil, fmt.Errorf("unknown summarizer backend %q", cfg.Backend)
	}

	return &implSummarizer{
		gen:     gen,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		logger:  log,
	}, nil
}
