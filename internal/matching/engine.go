package matching

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrUnavailable is returned by capability implementations when their backing
// service cannot be reached. The engine treats it as a fallback trigger, never
// as a batch-aborting failure.
var ErrUnavailable = errors.New("backend unavailable")

// EmbeddingSource maps text to a fixed-length vector. Implementations must
// return ErrUnavailable (possibly wrapped) when the backend is down so the
// scorer can exclude geometric signals instead of scoring against noise.
type EmbeddingSource interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Judge answers free-form prompts. Used for semantic similarity scores and
// match rationales. Implementations cache their availability probe and stay
// sticky-negative for the rest of the process.
type Judge interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Engine fuses geometric and semantic similarity signals into relevance
// scores and composes panels from them. It is stateless between calls.
type Engine struct {
	embedder EmbeddingSource
	judge    Judge
	logger   *zap.Logger
}

func NewEngine(embedder EmbeddingSource, judge Judge, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{embedder: embedder, judge: judge, logger: logger}
}
