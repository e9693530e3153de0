package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/config"
	appErrors "github.com/NoobSambit/AI-Career-Assistant-sub000/internal/errors"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"
)

const (
	defaultModelCheckTimeout = 10 * time.Second
	maxBackoff               = 30 * time.Second
)

// GeminiProvider implements VisionProvider for Google Gemini
type GeminiProvider struct {
	client            *genai.Client
	config            *config.OperationAIConfig
	circuitBreaker    *AICircuitBreaker
	modelBreaker      *ModelCircuitBreaker
	logger            *appErrors.Logger
	modelCheckTimeout time.Duration
	newBackOff        func() backoff.BackOff
}

var _ VisionProvider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a Gemini client for a specific operation
func NewGeminiProvider(cfg *config.OperationAIConfig, operationType string, logger *appErrors.Logger) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, appErrors.NewConfigError(appErrors.ErrCodeMissingAPIKey,
			"Gemini API key is not configured", nil)
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, appErrors.NewAIError(appErrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	return &GeminiProvider{
		client:            client,
		config:            cfg,
		circuitBreaker:    NewAICircuitBreaker(operationType, cfg, logger),
		modelBreaker:      NewModelCircuitBreaker(operationType, cfg, logger),
		logger:            logger,
		modelCheckTimeout: defaultModelCheckTimeout,
		newBackOff:        exponentialBackOff,
	}, nil
}

// Generate sends one image and prompt to the model and returns the response text
func (g *GeminiProvider) Generate(ctx context.Context, prompt, imageBase64, mediaType string) (string, *TokenUsage, error) {
	tracer := otel.Tracer("careerassist.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini.ocr_extract")
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.Float64("ai.temperature", float64(*g.config.Temperature)),
		attribute.String("input.media_type", mediaType),
		attribute.Int("input.image_base64_length", len(imageBase64)),
	)

	image, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return "", nil, appErrors.NewValidationError(appErrors.ErrCodeInvalidRequest,
			"Image payload is not valid base64", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(image, mediaType),
		}, genai.RoleUser),
	}
	genaiConfig := g.buildContentConfig()

	result, err := g.circuitBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, "ocr_extract", func(attemptCtx context.Context) (*genai.GenerateContentResponse, error) {
			resp, err := g.client.Models.GenerateContent(attemptCtx, g.config.Model, contents, genaiConfig)
			if err != nil {
				return nil, err
			}
			if reason := blockReason(resp); reason != "" {
				return nil, &ProviderError{
					Category: CategoryContentBlocked,
					Err:      fmt.Errorf("%w: %s", ErrContentBlocked, reason),
				}
			}
			return resp, nil
		})
	})
	if err != nil {
		category := ClassifyError(err)
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false), attribute.String("error.category", string(category)))
		return "", nil, providerFailure(category, err)
	}

	// token counts land on the parent ai.ocr_extract span
	text := result.Text()
	span.SetAttributes(attribute.Bool("success", true), attribute.Int("output.text_length", len(text)))
	return text, extractTokenUsage(result), nil
}

func (g *GeminiProvider) buildContentConfig() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}

	if *g.config.Temperature > 0 {
		cfg.Temperature = g.config.Temperature
	}

	if *g.config.UseSystemPrompts {
		loaded := config.GetPromptsForOperation("ocr")
		systemPrompt := resolvePrompt(
			loaded.SystemPrompts.OCRExtract,
			g.config.CustomPrompts.SystemPrompts.OCRExtract,
			DefaultSystemPrompts.OCRExtract,
		)
		cfg.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	return cfg
}

// blockReason returns a non-empty description when the model refused the request
func blockReason(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "prompt blocked: " + string(resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
		switch resp.Candidates[0].FinishReason {
		case genai.FinishReasonSafety, genai.FinishReasonProhibitedContent, genai.FinishReasonBlocklist:
			return "candidate finished with " + string(resp.Candidates[0].FinishReason)
		}
	}
	return ""
}

// providerFailure wraps a failed call; transient failures become network errors
func providerFailure(category ErrorCategory, err error) *appErrors.AppError {
	const message = "Failed to extract text with Gemini"
	var appErr *appErrors.AppError
	switch category {
	case CategoryTransient:
		appErr = appErrors.NewNetworkError(appErrors.ErrCodeNetworkTimeout, message, err)
	case CategoryInvalidCredentials:
		appErr = appErrors.NewAIError(appErrors.ErrCodeInvalidCredentials, message, err)
	case CategoryQuotaExceeded:
		appErr = appErrors.NewAIError(appErrors.ErrCodeQuotaExceeded, message, err)
	case CategoryContentBlocked:
		appErr = appErrors.NewAIError(appErrors.ErrCodeContentBlocked, message, err)
	default:
		appErr = appErrors.NewAIError(appErrors.ErrCodeAIServiceFailed, message, err)
	}
	return appErr.WithContext("category", string(category))
}

// GetModelInfo looks the configured model up through the model breaker.
// Failures are reported in ModelInfo.Error rather than returned.
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	info := &ModelInfo{Name: g.config.Model}
	ctx, cancel := context.WithTimeout(ctx, g.modelCheckTimeout)
	defer cancel()

	model, err := g.modelBreaker.Execute(func() (*genai.Model, error) {
		return g.client.Models.Get(ctx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		info.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("OCR model unavailable", "model", g.config.Model, "error", err.Error())
		return info
	}

	info.Available, info.DisplayName, info.Version = true, model.DisplayName, model.Version
	g.logger.Debug("OCR model available", "model", g.config.Model, "version", model.Version)
	return info
}

// executeWithRetry runs fn with a fresh per-attempt timeout, retrying
// transient failures up to MaxRetries times
func (g *GeminiProvider) executeWithRetry(ctx context.Context, operation string, fn func(context.Context) (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	attempts := 0
	result, err := backoff.Retry(ctx, func() (*genai.GenerateContentResponse, error) {
		attempts++
		resp, err := g.runAttempt(ctx, fn)
		if err != nil && !isRetryableError(err) {
			g.logger.Debug("Giving up on non-transient error",
				"operation", operation, "category", string(ClassifyError(err)))
			return nil, backoff.Permanent(err)
		}
		return resp, err
	},
		backoff.WithBackOff(g.newBackOff()),
		backoff.WithMaxTries(uint(max(*g.config.MaxRetries, 0))+1),
		backoff.WithNotify(func(err error, wait time.Duration) {
			g.logger.Warn("Transient OCR failure, retrying",
				"operation", operation, "attempt", attempts, "wait", wait.String(), "error", err.Error())
		}),
	)
	if err != nil {
		g.logger.LogError(err, "OCR call failed", "operation", operation, "total_attempts", attempts)
		return nil, fmt.Errorf("operation '%s' failed after %d attempts: %w", operation, attempts, err)
	}
	if attempts > 1 {
		g.logger.Info("OCR call recovered after retry", "operation", operation, "total_attempts", attempts)
	}
	return result, nil
}

func (g *GeminiProvider) runAttempt(ctx context.Context, fn func(context.Context) (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	if g.config.Timeout == nil || *g.config.Timeout <= 0 {
		return fn(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, *g.config.Timeout)
	defer cancel()
	return fn(attemptCtx)
}

// exponentialBackOff waits 1s, 2s, 4s and so on with 10% jitter, capped at maxBackoff
func exponentialBackOff() backoff.BackOff {
	return &backoff.ExponentialBackOff{
		InitialInterval:     time.Second,
		RandomizationFactor: 0.1,
		Multiplier:          2,
		MaxInterval:         maxBackoff,
	}
}

// GetCircuitBreakerStats reports both breakers; overall_healthy drives /health
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	return map[string]any{
		"ai_operations":    g.circuitBreaker.Stats(),
		"model_operations": g.modelBreaker.Stats(),
		"overall_healthy":  g.circuitBreaker.Healthy() && g.modelBreaker.Healthy(),
	}
}

// Close implements VisionProvider
func (g *GeminiProvider) Close() error {
	// single-shot client, nothing to release
	return nil
}

func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}
	u := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(u.PromptTokenCount),
		OutputTokens: int64(u.CandidatesTokenCount),
		TotalTokens:  int64(u.TotalTokenCount),
	}
}
