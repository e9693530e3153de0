package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "without cause",
			err:      NewValidationError(ErrCodeInvalidFormat, "unsupported output format", nil),
			expected: "INVALID_FORMAT: unsupported output format",
		},
		{
			name:     "with cause",
			err:      NewNetworkError(ErrCodeNetworkTimeout, "ocr call failed", fmt.Errorf("deadline exceeded")),
			expected: "NETWORK_TIMEOUT: ocr call failed (caused by: deadline exceeded)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := stderrors.New("quota")
	err := fmt.Errorf("wrapped: %w", NewAIError(ErrCodeQuotaExceeded, "quota exceeded", cause))

	var appErr *AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, ErrorTypeAI, appErr.Type)
	assert.ErrorIs(t, err, cause)
}

func TestConstructorTypes(t *testing.T) {
	tests := []struct {
		err      *AppError
		expected ErrorType
	}{
		{NewValidationError("C", "m", nil), ErrorTypeValidation},
		{NewIOError("C", "m", nil), ErrorTypeIO},
		{NewAIError("C", "m", nil), ErrorTypeAI},
		{NewNetworkError("C", "m", nil), ErrorTypeNetwork},
		{NewConfigError("C", "m", nil), ErrorTypeConfig},
	}

	for _, tt := range tests {
		t.Run(string(tt.expected), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Type)
		})
	}
}

func TestWithContext(t *testing.T) {
	err := NewIOError(ErrCodeFileNotFound, "missing", nil).
		WithContext("file", "resume.pdf").
		WithContext("size", 42)

	assert.Equal(t, "resume.pdf", err.Context["file"])
	assert.Equal(t, 42, err.Context["size"])
}

func TestLogErrorExpandsAppError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelDebug)

	err := NewIOError(ErrCodeFileNotReadable, "no text", nil).WithContext("media_type", "image/png")
	logger.LogError(err, "parse failed", "request_id", "abc")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "parse failed", entry["msg"])
	assert.Equal(t, "io", entry["error_type"])
	assert.Equal(t, ErrCodeFileNotReadable, entry["error_code"])
	assert.Equal(t, "image/png", entry["media_type"])
	assert.Equal(t, "abc", entry["request_id"])
}

func TestLogErrorWrappedAppError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelInfo)

	err := fmt.Errorf("ocr: %w", NewNetworkError(ErrCodeNetworkTimeout, "gemini unreachable", nil))
	logger.LogError(err, "extraction failed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "network", entry["error_type"])
	assert.Equal(t, ErrCodeNetworkTimeout, entry["error_code"])
}

func TestLogErrorPlainError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelInfo)

	logger.LogError(stderrors.New("boom"), "failed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "boom", entry["error"])
}

func TestNewLoggerLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		t.Run(level, func(t *testing.T) {
			logger, err := New(level)
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}

	_, err := New("verbose")
	assert.Error(t, err)
}

func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelInfo).With("component", "parser")
	logger.Info("ready")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "parser", entry["component"])
}
