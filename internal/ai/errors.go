package ai

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/api/googleapi"
)

// ErrorCategory groups vision provider failures by how callers should react
type ErrorCategory string

const (
	CategoryInvalidCredentials ErrorCategory = "invalid_credentials"
	CategoryQuotaExceeded      ErrorCategory = "quota_exceeded"
	CategoryContentBlocked     ErrorCategory = "content_blocked"
	CategoryTransient          ErrorCategory = "transient"
	CategoryUnknown            ErrorCategory = "unknown"
)

// ErrContentBlocked is returned when the model refuses to answer for safety reasons
var ErrContentBlocked = errors.New("response blocked by content filter")

// ProviderError carries the category of a failed vision call
type ProviderError struct {
	Category ErrorCategory
	Err      error
}

func (e *ProviderError) Error() string {
	return string(e.Category) + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ClassifyError maps an error returned by the Gemini client to a category
func ClassifyError(err error) ErrorCategory {
	if err == nil {
		return ""
	}

	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.Category
	}

	if errors.Is(err, ErrContentBlocked) {
		return CategoryContentBlocked
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryTransient
	}

	// An open breaker clears itself after its timeout
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return CategoryTransient
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if category, ok := categoryForStatus(apiErr.Code); ok {
			return category
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return CategoryTransient
	}

	return categoryFromMessage(err.Error())
}

func categoryForStatus(code int) (ErrorCategory, bool) {
	switch {
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return CategoryInvalidCredentials, true
	case code == http.StatusTooManyRequests:
		return CategoryQuotaExceeded, true
	case code == http.StatusRequestTimeout, code >= http.StatusInternalServerError:
		return CategoryTransient, true
	}
	return "", false
}

// categoryFromMessage covers the genai client, which reports HTTP failures as plain text
func categoryFromMessage(msg string) ErrorCategory {
	msg = strings.ToLower(msg)

	switch {
	case containsAny(msg, "api key not valid", "api_key_invalid", "permission_denied", "unauthenticated", "error 401", "error 403"):
		return CategoryInvalidCredentials
	case containsAny(msg, "resource_exhausted", "quota", "error 429", "rate limit"):
		return CategoryQuotaExceeded
	case containsAny(msg, "safety", "blocked"):
		return CategoryContentBlocked
	case containsAny(msg, "unavailable", "deadline", "timeout", "connection reset", "connection refused",
		"error 500", "error 502", "error 503", "error 504", "internal error"):
		return CategoryTransient
	}
	return CategoryUnknown
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// isRetryableError reports whether another attempt could succeed
func isRetryableError(err error) bool {
	return ClassifyError(err) == CategoryTransient
}
