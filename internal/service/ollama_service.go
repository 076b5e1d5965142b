package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jashan-dhillon/mira-matching/internal/config"
	"github.com/jashan-dhillon/mira-matching/internal/matching"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// OllamaService implements matching.Judge against a local Ollama instance.
// Availability is probed once per process and the result is sticky: a dead
// backend is not re-probed between calls, so a batch run never flips between
// live and fallback scoring mid-way.
type OllamaService struct {
	client *resty.Client
	model  string
	logger *zap.Logger

	probeOnce sync.Once
	available bool
}

func NewOllamaService(logger *zap.Logger) *OllamaService {
	cfg := config.LoadOllamaConfig()
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(90 * time.Second)

	return &OllamaService{
		client: client,
		model:  cfg.Model,
		logger: logger,
	}
}

// Available reports whether the Ollama backend answered the one-time
// connectivity probe.
func (s *OllamaService) Available() bool {
	s.probeOnce.Do(func() {
		resp, err := s.client.R().Get("/api/tags")
		if err != nil || resp.IsError() {
			s.logger.Warn("ollama not reachable, semantic scoring falls back to heuristic",
				zap.String("url", s.client.BaseURL),
				zap.Error(err))
			return
		}
		s.available = true
		s.logger.Info("ollama available for semantic scoring",
			zap.String("model", s.model))
	})
	return s.available
}

// Generate sends a prompt to Ollama and returns the raw text response. Low
// temperature biases toward stable scores across invocations.
func (s *OllamaService) Generate(ctx context.Context, prompt string) (string, error) {
	if !s.Available() {
		return "", fmt.Errorf("ollama at %s: %w", s.client.BaseURL, matching.ErrUnavailable)
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"model":  s.model,
			"prompt": prompt,
			"stream": false,
			"options": map[string]any{
				"temperature": 0.1,
				"num_predict": 300,
			},
		}).
		Post("/api/generate")
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("ollama generate: status %d: %s", resp.StatusCode(), resp.String())
	}

	text := gjson.Get(resp.String(), "response").String()
	if text == "" {
		return "", fmt.Errorf("ollama returned empty response")
	}

	return text, nil
}
