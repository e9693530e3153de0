package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/config"
	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/errors"
	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/observability"
)

// Service runs vision calls for document extraction. It satisfies document.OCRClient.
type Service struct {
	Provider VisionProvider
	config   *config.OperationAIConfig
	logger   *errors.Logger
	om       *observability.ObservabilityManager
}

// ServiceOption customizes a Service
type ServiceOption func(*Service)

// WithObservability records token usage and latency for every call
func WithObservability(om *observability.ObservabilityManager) ServiceOption {
	return func(s *Service) { s.om = om }
}

// WithModelCheckTimeout bounds the model lookup done by health checks
func WithModelCheckTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		if g, ok := s.Provider.(*GeminiProvider); ok && d > 0 {
			g.modelCheckTimeout = d
		}
	}
}

// NewService creates a Service with configuration for a specific operation
func NewService(cfg *config.OperationAIConfig, operationType string, logger *errors.Logger, opts ...ServiceOption) (*Service, error) {
	var provider VisionProvider
	var err error

	logger.Debug("Initializing AI service",
		"provider", cfg.Provider,
		"operation_type", operationType,
		"model", cfg.Model,
		"temperature", *cfg.Temperature,
		"timeout", *cfg.Timeout,
		"max_retries", *cfg.MaxRetries,
		"use_system_prompts", *cfg.UseSystemPrompts)

	switch cfg.Provider {
	case "gemini":
		provider, err = NewGeminiProvider(cfg, operationType, logger)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}

	if err != nil {
		return nil, err
	}

	s := &Service{
		Provider: provider,
		config:   cfg,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Generate extracts text from a base64 image
func (s *Service) Generate(ctx context.Context, prompt, imageBase64, mediaType string) (string, error) {
	var text string
	call := func(ctx context.Context) *observability.AIOperationResult {
		out, tokenUsage, err := s.Provider.Generate(ctx, prompt, imageBase64, mediaType)
		text = out
		if tokenUsage != nil {
			s.logger.Debug("OCR token usage",
				"model", s.config.Model,
				"input_tokens", tokenUsage.InputTokens,
				"output_tokens", tokenUsage.OutputTokens,
				"total_tokens", tokenUsage.TotalTokens)
		}
		return &observability.AIOperationResult{
			Error:      err,
			TokenUsage: (*observability.TokenUsage)(tokenUsage),
		}
	}

	if s.om == nil {
		return text, call(ctx).Error
	}
	err := s.om.GetMetrics().TrackAIOperationWithTokens(ctx, "ocr_extract", call)
	return text, err
}

// OCRPrompt returns the current user prompt, preferring a file-loaded prompt
// over the configured one. It is read on every call so reloads apply.
func (s *Service) OCRPrompt() string {
	loaded := config.GetPromptsForOperation("ocr")
	return resolvePrompt(
		loaded.UserPrompts.OCRExtract,
		s.config.CustomPrompts.UserPrompts.OCRExtract,
		DefaultUserPrompts.OCRExtract,
	)
}

// GetModelInfo returns information about the AI model for health checks
func (s *Service) GetModelInfo(ctx context.Context) any {
	return s.Provider.GetModelInfo(ctx)
}

func (s *Service) GetCircuitBreakerStats() map[string]any {
	return s.Provider.GetCircuitBreakerStats()
}

func (s *Service) Close() error {
	return s.Provider.Close()
}
