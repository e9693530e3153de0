package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *Config {
	return &Config{
		AI: AIConfig{
			Provider:   "gemini",
			Model:      "gemini-2.0-flash",
			Timeout:    20 * time.Second,
			MaxRetries: 1,
		},
		Document: DocumentConfig{
			PDFMinWords:   10,
			DOCXMinChars:  10,
			OCRMinChars:   10,
			MaxUploadSize: 1024,
			Concurrency:   4,
		},
		Server: ServerConfig{
			Port: "8080",
			TLS:  TLSConfig{Mode: "disabled"},
		},
		App: AppConfig{
			LogLevel:         "info",
			DefaultFormat:    "json",
			SupportedFormats: []string{"json", "text"},
			MaxFileSize:      1024,
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		errorMsg string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{
			name:     "unknown provider",
			mutate:   func(c *Config) { c.AI.Provider = "openai" },
			errorMsg: "AI.Provider must satisfy 'oneof=gemini'",
		},
		{
			name:     "zero pdf threshold",
			mutate:   func(c *Config) { c.Document.PDFMinWords = 0 },
			errorMsg: "Document.PDFMinWords must satisfy 'gte=1'",
		},
		{
			name:     "non numeric port",
			mutate:   func(c *Config) { c.Server.Port = "http" },
			errorMsg: "Server.Port must satisfy 'numeric'",
		},
		{
			name:     "bad log level",
			mutate:   func(c *Config) { c.App.LogLevel = "trace" },
			errorMsg: "App.LogLevel",
		},
		{
			name:     "default format not supported",
			mutate:   func(c *Config) { c.App.DefaultFormat = "yaml" },
			errorMsg: "invalid default format: yaml",
		},
		{
			name:     "tls without certificate",
			mutate:   func(c *Config) { c.Server.TLS.Mode = "server" },
			errorMsg: "TLS configuration error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errorMsg)
		})
	}
}

func TestValidateDoesNotRequireAPIKey(t *testing.T) {
	cfg := validTestConfig()
	cfg.AI.APIKey = ""
	assert.NoError(t, cfg.Validate())
}

func TestGetOCRConfig(t *testing.T) {
	cfg := validTestConfig()
	cfg.AI.APIKey = "global-key"
	cfg.AI.Temperature = 0.3
	cfg.AI.CustomPrompts.UserPrompts.OCRExtract = "global user prompt"

	timeout := 5 * time.Second
	cfg.AI.OCR = OperationAIConfig{
		Model:   "gemini-2.5-flash",
		Timeout: &timeout,
		CustomPrompts: PromptConfig{
			SystemPrompts: SystemPrompts{OCRExtract: "ocr system prompt"},
		},
	}

	ocr := cfg.GetOCRConfig()

	assert.Equal(t, "gemini", ocr.Provider)
	assert.Equal(t, "gemini-2.5-flash", ocr.Model)
	assert.Equal(t, "global-key", ocr.APIKey)
	require.NotNil(t, ocr.Timeout)
	assert.Equal(t, 5*time.Second, *ocr.Timeout)
	require.NotNil(t, ocr.Temperature)
	assert.InDelta(t, 0.3, *ocr.Temperature, 0.0001)
	assert.Equal(t, "ocr system prompt", ocr.CustomPrompts.SystemPrompts.OCRExtract)
	assert.Equal(t, "global user prompt", ocr.CustomPrompts.UserPrompts.OCRExtract)

	// The stored override is untouched
	assert.Empty(t, cfg.AI.OCR.APIKey)
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Cleanup(ResetLoadedPrompts)
	t.Setenv("GEMINI_API_KEY", "env-gemini-key")
	t.Setenv("CAREERASSIST_SERVER_APIKEYS", "key-one,key-two")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
ai:
  model: gemini-2.5-flash
document:
  pdfMinWords: 25
app:
  logLevel: debug
  defaultFormat: text
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadConfigFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.5-flash", cfg.AI.Model)
	assert.Equal(t, "env-gemini-key", cfg.AI.APIKey)
	assert.Equal(t, 25, cfg.Document.PDFMinWords)
	assert.Equal(t, 10, cfg.Document.DOCXMinChars)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "text", cfg.App.DefaultFormat)
	assert.Equal(t, []string{"key-one", "key-two"}, cfg.Server.APIKeys)
	assert.Equal(t, "disabled", cfg.Server.TLS.Mode)
}

func TestLoadConfigFromFileRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("document:\n  concurrency: 0\n"), 0600))

	_, err := LoadConfigFromFile(path)
	assert.ErrorContains(t, err, "Document.Concurrency")
}
