package ai

import "context"

// VisionProvider turns an image into text using a multimodal model
type VisionProvider interface {
	// Generate sends prompt together with a base64 image of the given media type
	Generate(ctx context.Context, prompt, imageBase64, mediaType string) (string, *TokenUsage, error)

	GetModelInfo(ctx context.Context) *ModelInfo
	GetCircuitBreakerStats() map[string]any
	Close() error
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}
