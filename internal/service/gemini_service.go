package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jashan-dhillon/mira-matching/internal/config"
	"github.com/jashan-dhillon/mira-matching/internal/matching"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// EmbeddingDimension is the vector size requested from the embedding model
// and the size of every vector column in the store.
const EmbeddingDimension = 384

const maxEmbeddingInput = 10000

// GeminiService implements matching.EmbeddingSource on top of the Gemini
// embedding API. When the backend cannot be reached it reports
// matching.ErrUnavailable rather than degrading into a fabricated vector.
type GeminiService struct {
	client         *genai.Client
	model          string
	logger         *zap.Logger
	maxRetries     int
	baseDelay      time.Duration
	maxDelay       time.Duration
	requestTimeout time.Duration

	// Embed runs from concurrent goroutines during embedding refreshes, so
	// the breaker counter must be atomic.
	consecutiveErrors atomic.Int32
	circuitBreakerMax int32
}

func NewGeminiService(ctx context.Context, logger *zap.Logger) (*GeminiService, error) {
	geminiConfig := config.LoadGeminiConfig()
	if geminiConfig.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set: %w", matching.ErrUnavailable)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  geminiConfig.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiService{
		client:            client,
		model:             geminiConfig.EmbeddingModel,
		logger:            logger,
		maxRetries:        3,
		baseDelay:         time.Second,
		maxDelay:          90 * time.Second,
		requestTimeout:    90 * time.Second,
		circuitBreakerMax: 5,
	}, nil
}

// Embed generates a fixed-dimension embedding for the given text.
func (s *GeminiService) Embed(ctx context.Context, text string) ([]float32, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("text for embedding cannot be empty")
	}
	if clamped := clampRunes(trimmed, maxEmbeddingInput); clamped != trimmed {
		s.logger.Warn("embedding input exceeds limit, truncating",
			zap.Int("length", len(trimmed)))
		trimmed = clamped
	}

	if s.breakerOpen() {
		return nil, fmt.Errorf("circuit breaker open after %d consecutive errors: %w",
			s.consecutiveErrors.Load(), matching.ErrUnavailable)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()

	content := []*genai.Content{genai.NewContentFromText(trimmed, genai.RoleUser)}
	embedConfig := &genai.EmbedContentConfig{
		OutputDimensionality: genai.Ptr(int32(EmbeddingDimension)),
	}

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			delay := s.calculateBackoff(attempt)
			s.logger.Debug("retrying embedding request",
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay))

			select {
			case <-time.After(delay):
			case <-timeoutCtx.Done():
				return nil, fmt.Errorf("context timeout during retry: %w", timeoutCtx.Err())
			}
		}

		result, err := s.client.Models.EmbedContent(timeoutCtx, s.model, content, embedConfig)
		if err == nil {
			s.consecutiveErrors.Store(0)
			return s.validateEmbedding(result)
		}

		lastErr = err
		if !s.isRetryableError(err) {
			s.recordFailure()
			return nil, fmt.Errorf("generate embedding: %w", err)
		}
		s.logger.Debug("retryable embedding error", zap.Int("attempt", attempt+1), zap.Error(err))
	}

	s.recordFailure()
	return nil, fmt.Errorf("embedding backend unreachable after %d retries (%v): %w",
		s.maxRetries, lastErr, matching.ErrUnavailable)
}

func (s *GeminiService) recordFailure() {
	s.consecutiveErrors.Add(1)
}

func (s *GeminiService) breakerOpen() bool {
	return s.consecutiveErrors.Load() >= s.circuitBreakerMax
}

// clampRunes truncates on a rune boundary so the API never receives a split
// multi-byte character.
func clampRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func (s *GeminiService) calculateBackoff(attempt int) time.Duration {
	delay := s.baseDelay * time.Duration(math.Pow(2, float64(attempt-1)))
	if delay > s.maxDelay {
		delay = s.maxDelay
	}

	jitter := time.Duration(float64(delay) * 0.25)
	delay = delay - jitter/2 + time.Duration(float64(jitter)*0.5)

	return delay
}

func (s *GeminiService) isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errMsg := err.Error()
	if strings.Contains(errMsg, "context canceled") ||
		strings.Contains(errMsg, "context deadline exceeded") {
		return false
	}

	if apiErr, ok := err.(*genai.APIError); ok {
		switch apiErr.Code {
		case 429, 500, 502, 503, 504:
			return true
		case 400, 401, 403, 404:
			return false
		}
	}

	if strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "connection reset") ||
		strings.Contains(errMsg, "timeout") ||
		strings.Contains(errMsg, "temporary failure") ||
		strings.Contains(errMsg, "EOF") {
		return true
	}

	return false
}

func (s *GeminiService) validateEmbedding(resp *genai.EmbedContentResponse) ([]float32, error) {
	if resp == nil || len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}

	values := resp.Embeddings[0].Values
	if len(values) == 0 {
		return nil, fmt.Errorf("embedding vector is empty")
	}

	for i, val := range values {
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return nil, fmt.Errorf("invalid embedding value at index %d: %v", i, val)
		}
	}

	return values, nil
}
