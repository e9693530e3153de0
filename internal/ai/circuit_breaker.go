package ai

import (
	"errors"

	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/config"
	appErrors "github.com/NoobSambit/AI-Career-Assistant-sub000/internal/errors"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/genai"
)

// Breaker wraps a gobreaker circuit. A nil Breaker calls straight through and
// always reports healthy.
type Breaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

type (
	// AICircuitBreaker guards OCR generate calls
	AICircuitBreaker = Breaker[*genai.GenerateContentResponse]
	// ModelCircuitBreaker guards the model lookups behind health checks
	ModelCircuitBreaker = Breaker[*genai.Model]
)

// tripRule opens the circuit once at least minRequests calls were seen and
// the failure ratio reaches ratio
func tripRule(minRequests uint32, ratio float64) func(gobreaker.Counts) bool {
	return func(c gobreaker.Counts) bool {
		return c.Requests >= minRequests && float64(c.TotalFailures)/float64(c.Requests) >= ratio
	}
}

func newBreaker[T any](name, operationType string, cfg config.CircuitBreakerConfig, tripped func(gobreaker.Counts) bool, logger *appErrors.Logger) *Breaker[T] {
	if !cfg.Enabled {
		return nil
	}
	return &Breaker[T]{cb: gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:         name,
		MaxRequests:  cfg.MaxRequests,
		Interval:     cfg.Interval,
		Timeout:      cfg.Timeout,
		ReadyToTrip:  tripped,
		IsSuccessful: countsAsSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				"name", name,
				"operation_type", operationType,
				"from", from.String(),
				"to", to.String())
		},
	})}
}

// countsAsSuccess keeps refused content and bad keys from tripping the
// breaker; neither says anything about upstream health
func countsAsSuccess(err error) bool {
	switch ClassifyError(err) {
	case "", CategoryContentBlocked, CategoryInvalidCredentials:
		return true
	}
	return false
}

// NewAICircuitBreaker uses the configured trip rule. It returns nil when the
// breaker is disabled.
func NewAICircuitBreaker(operationType string, cfg *config.OperationAIConfig, logger *appErrors.Logger) *AICircuitBreaker {
	cb := cfg.CircuitBreaker
	return newBreaker[*genai.GenerateContentResponse]("AI-"+operationType, operationType, cb,
		tripRule(cb.MinRequests, cb.FailureThreshold), logger)
}

// NewModelCircuitBreaker trips only when most health checks fail
func NewModelCircuitBreaker(operationType string, cfg *config.OperationAIConfig, logger *appErrors.Logger) *ModelCircuitBreaker {
	return newBreaker[*genai.Model]("AI-Model-"+operationType, operationType, cfg.CircuitBreaker,
		tripRule(5, 0.8), logger)
}

// Execute runs fn through the circuit. Rejections by an open or saturated
// half-open circuit come back as transient ProviderErrors.
func (b *Breaker[T]) Execute(fn func() (T, error)) (T, error) {
	if b == nil {
		return fn()
	}
	result, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		var zero T
		return zero, &ProviderError{Category: CategoryTransient, Err: err}
	}
	return result, err
}

func (b *Breaker[T]) Stats() map[string]any {
	if b == nil {
		return map[string]any{"enabled": false}
	}
	return map[string]any{
		"name":    b.cb.Name(),
		"state":   b.cb.State().String(),
		"counts":  b.cb.Counts(),
		"enabled": true,
	}
}

// Healthy is false while the circuit is open or half-open
func (b *Breaker[T]) Healthy() bool {
	return b == nil || b.cb.State() == gobreaker.StateClosed
}
