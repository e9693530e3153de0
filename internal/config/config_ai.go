package config

import "time"

// AIConfig is the global vision model setup. OCR overrides individual fields.
type AIConfig struct {
	Provider         string        `mapstructure:"provider" validate:"oneof=gemini"`
	Model            string        `mapstructure:"model" validate:"required"`
	Timeout          time.Duration `mapstructure:"timeout" validate:"gt=0"`
	APIKey           string        `mapstructure:"apiKey"`
	MaxRetries       int           `mapstructure:"maxRetries" validate:"gte=0,lte=10"`
	Temperature      float32       `mapstructure:"temperature" validate:"gte=0,lte=2"`
	UseSystemPrompts bool          `mapstructure:"useSystemPrompts"`
	CustomPrompts    PromptConfig  `mapstructure:"customPrompts"`

	OCR OperationAIConfig `mapstructure:"ocr"`
}

// OperationAIConfig is what a single provider runs with. Nil pointers and
// empty strings inherit from AIConfig in GetOCRConfig.
type OperationAIConfig struct {
	Provider         string               `mapstructure:"provider"`
	Model            string               `mapstructure:"model"`
	Timeout          *time.Duration       `mapstructure:"timeout"`
	APIKey           string               `mapstructure:"apiKey"`
	MaxRetries       *int                 `mapstructure:"maxRetries"`
	Temperature      *float32             `mapstructure:"temperature"`
	UseSystemPrompts *bool                `mapstructure:"useSystemPrompts"`
	CustomPrompts    PromptConfig         `mapstructure:"customPrompts"`
	CircuitBreaker   CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// CircuitBreakerConfig trips after FailureThreshold of at least MinRequests
// calls fail within Interval, then stays open for Timeout
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"maxRequests"` // half-open trial calls
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MinRequests      uint32        `mapstructure:"minRequests"`
	FailureThreshold float64       `mapstructure:"failureThreshold" validate:"gte=0,lte=1"`
}

// PromptConfig holds inline OCR prompts or the files they are read from
type PromptConfig struct {
	SystemPrompts SystemPrompts `mapstructure:"systemPrompts"`
	UserPrompts   UserPrompts   `mapstructure:"userPrompts"`
}

type SystemPrompts struct {
	OCRExtract     string `mapstructure:"ocrExtract"`
	OCRExtractFile string `mapstructure:"ocrExtractFile"`
}

// UserPrompts are sent alongside the page image
type UserPrompts struct {
	OCRExtract     string `mapstructure:"ocrExtract"`
	OCRExtractFile string `mapstructure:"ocrExtractFile"`
}

// GetOCRConfig returns the OCR overrides with every unset field taken from
// the global AI configuration
func (c *Config) GetOCRConfig() OperationAIConfig {
	op := c.AI.OCR
	global := &c.AI

	inherit(&op.Provider, global.Provider)
	inherit(&op.Model, global.Model)
	inherit(&op.APIKey, global.APIKey)
	inheritPtr(&op.Timeout, &global.Timeout)
	inheritPtr(&op.MaxRetries, &global.MaxRetries)
	inheritPtr(&op.Temperature, &global.Temperature)
	inheritPtr(&op.UseSystemPrompts, &global.UseSystemPrompts)

	sys, user := &op.CustomPrompts.SystemPrompts, &op.CustomPrompts.UserPrompts
	inherit(&sys.OCRExtract, global.CustomPrompts.SystemPrompts.OCRExtract)
	inherit(&sys.OCRExtractFile, global.CustomPrompts.SystemPrompts.OCRExtractFile)
	inherit(&user.OCRExtract, global.CustomPrompts.UserPrompts.OCRExtract)
	inherit(&user.OCRExtractFile, global.CustomPrompts.UserPrompts.OCRExtractFile)
	return op
}

func inherit[T comparable](field *T, fallback T) {
	var zero T
	if *field == zero {
		*field = fallback
	}
}

func inheritPtr[T any](field **T, fallback *T) {
	if *field == nil {
		*field = fallback
	}
}
