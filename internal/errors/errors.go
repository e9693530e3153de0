package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// ErrorType is the broad category an AppError belongs to
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeAI         ErrorType = "ai"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeConfig     ErrorType = "config"
)

const (
	// input files
	ErrCodeFileNotFound    = "FILE_NOT_FOUND"
	ErrCodeFileNotReadable = "FILE_NOT_READABLE"
	ErrCodeFileTooLarge    = "FILE_TOO_LARGE"
	ErrCodeInvalidInput    = "INVALID_INPUT_FILE"
	ErrCodeInvalidFormat   = "INVALID_FORMAT"
	ErrCodeInvalidRequest  = "INVALID_REQUEST"
	ErrCodeWriteFailed     = "FILE_WRITE_FAILED"

	ErrCodeInvalidConfig = "INVALID_CONFIG"
	ErrCodeMissingAPIKey = "MISSING_API_KEY"

	// vision provider failures
	ErrCodeAIServiceFailed    = "AI_SERVICE_FAILED"
	ErrCodeNetworkTimeout     = "NETWORK_TIMEOUT"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeQuotaExceeded      = "QUOTA_EXCEEDED"
	ErrCodeContentBlocked     = "CONTENT_BLOCKED"
)

// AppError is an error with a stable code that logs as structured fields
type AppError struct {
	Type    ErrorType      `json:"type"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Cause   error          `json:"cause,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return e.Code + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithContext attaches a field that LogError emits next to the error code
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = map[string]any{}
	}
	e.Context[key] = value
	return e
}

func typed(typ ErrorType) func(code, message string, cause error) *AppError {
	return func(code, message string, cause error) *AppError {
		return &AppError{Type: typ, Code: code, Message: message, Cause: cause}
	}
}

var (
	NewValidationError = typed(ErrorTypeValidation)
	NewIOError         = typed(ErrorTypeIO)
	NewAIError         = typed(ErrorTypeAI)
	NewNetworkError    = typed(ErrorTypeNetwork)
	NewConfigError     = typed(ErrorTypeConfig)
)

// Logger is a JSON slog logger that knows how to log AppErrors
type Logger struct {
	*slog.Logger
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// New returns a stdout logger for one of debug, info, warn or error
func New(level string) (*Logger, error) {
	lvl, ok := logLevels[level]
	if !ok {
		return nil, fmt.Errorf("invalid log level: %s", level)
	}
	return NewLogger(lvl), nil
}

func NewLogger(level slog.Level) *Logger {
	return NewLoggerWithWriter(os.Stdout, level)
}

func NewLoggerWithWriter(w io.Writer, level slog.Level) *Logger {
	return &Logger{slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))}
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{l.Logger.With(args...)}
}

// LogError logs err at error level. AppErrors are expanded into their type,
// code, message and context fields.
func (l *Logger) LogError(err error, message string, args ...any) {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		l.Error(message, append([]any{"error", err.Error()}, args...)...)
		return
	}

	fields := make([]any, 0, 6+2*len(appErr.Context)+len(args))
	fields = append(fields,
		"error_type", appErr.Type,
		"error_code", appErr.Code,
		"error_message", appErr.Message)
	for key, value := range appErr.Context {
		fields = append(fields, key, value)
	}
	l.Error(message, append(fields, args...)...)
}
