package ai

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/config"
	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/document"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	text  string
	usage *TokenUsage
	err   error

	gotPrompt, gotImage, gotType string
}

func (f *fakeProvider) Generate(_ context.Context, prompt, imageBase64, mediaType string) (string, *TokenUsage, error) {
	f.gotPrompt, f.gotImage, f.gotType = prompt, imageBase64, mediaType
	return f.text, f.usage, f.err
}

func (f *fakeProvider) GetModelInfo(context.Context) *ModelInfo {
	return &ModelInfo{Name: "fake", Available: true}
}

func (f *fakeProvider) GetCircuitBreakerStats() map[string]any {
	return map[string]any{"overall_healthy": true}
}

func (f *fakeProvider) Close() error { return nil }

func newFakeService(p VisionProvider, userPrompt string) *Service {
	cfg := &config.OperationAIConfig{Provider: "gemini", Model: "fake"}
	cfg.CustomPrompts.UserPrompts.OCRExtract = userPrompt
	return &Service{Provider: p, config: cfg, logger: newTestLogger()}
}

var _ document.OCRClient = (*Service)(nil)

func TestServiceGenerate(t *testing.T) {
	p := &fakeProvider{text: "Jane Doe\nEngineer", usage: &TokenUsage{InputTokens: 10, OutputTokens: 4, TotalTokens: 14}}
	s := newFakeService(p, "")

	text, err := s.Generate(context.Background(), "read it", "aGVsbG8=", "image/png")

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nEngineer", text)
	assert.Equal(t, "read it", p.gotPrompt)
	assert.Equal(t, "aGVsbG8=", p.gotImage)
	assert.Equal(t, "image/png", p.gotType)
}

func TestServiceGeneratePropagatesError(t *testing.T) {
	boom := errors.New("upstream down")
	s := newFakeService(&fakeProvider{err: boom}, "")

	_, err := s.Generate(context.Background(), "p", "", "image/png")
	assert.ErrorIs(t, err, boom)
}

func TestNewServiceRejectsUnknownProvider(t *testing.T) {
	cfg := &config.OperationAIConfig{
		Provider:         "openai",
		Timeout:          timePtr(time.Second),
		MaxRetries:       intPtr(0),
		Temperature:      float32Ptr(0),
		UseSystemPrompts: boolPtr(false),
	}
	_, err := NewService(cfg, "ocr", newTestLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unsupported AI provider: openai")
}

func TestServiceOCRPromptPrecedence(t *testing.T) {
	config.ResetLoadedPrompts()
	t.Cleanup(config.ResetLoadedPrompts)

	assert.Equal(t, document.DefaultOCRPrompt, newFakeService(&fakeProvider{}, "").OCRPrompt())

	s := newFakeService(&fakeProvider{}, "configured prompt")
	assert.Equal(t, "configured prompt", s.OCRPrompt())

	dir := t.TempDir()
	path := filepath.Join(dir, "ocr_user.txt")
	require.NoError(t, os.WriteFile(path, []byte("prompt from file"), 0o600))

	cfg := &config.Config{}
	cfg.AI.OCR.CustomPrompts.UserPrompts.OCRExtractFile = path
	require.NoError(t, cfg.ReloadPrompts())

	assert.Equal(t, "prompt from file", s.OCRPrompt())
}

func TestServiceHealthPassThrough(t *testing.T) {
	s := newFakeService(&fakeProvider{}, "")

	info, ok := s.GetModelInfo(context.Background()).(*ModelInfo)
	require.True(t, ok)
	assert.True(t, info.Available)
	assert.Equal(t, true, s.GetCircuitBreakerStats()["overall_healthy"])
	assert.NoError(t, s.Close())
}
