package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all custom instruments. The zero value records nothing.
type Metrics struct {
	// vision model calls
	AIProcessingTime metric.Float64Histogram
	AIRequestCount   metric.Int64Counter
	AIErrorCount     metric.Int64Counter
	AITokenUsage     metric.Int64Histogram

	// parse pipeline
	DocumentsParsed metric.Int64Counter
	ParseDuration   metric.Float64Histogram
	DocumentSize    metric.Int64Histogram
	DocumentWords   metric.Int64Histogram
	OCRCalls        metric.Int64Counter
	OCRDuration     metric.Float64Histogram

	ScoresComputed metric.Int64Counter
	ScoreValue     metric.Int64Histogram

	RateLimitHits metric.Int64Counter

	custom *config.CustomMetricsConfig
}

// AIOperationResult is what a tracked AI call reports back
type AIOperationResult struct {
	Error      error
	TokenUsage *TokenUsage
}

type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// instruments creates instruments on one meter and collects every failure
type instruments struct {
	meter metric.Meter
	errs  []error
}

func (b *instruments) fail(name string, err error) {
	if err != nil {
		b.errs = append(b.errs, fmt.Errorf("failed to create %s metric: %w", name, err))
	}
}

func (b *instruments) counter(name, description string) metric.Int64Counter {
	c, err := b.meter.Int64Counter(name, metric.WithDescription(description))
	b.fail(name, err)
	return c
}

func (b *instruments) seconds(name, description string) metric.Float64Histogram {
	h, err := b.meter.Float64Histogram(name, metric.WithDescription(description), metric.WithUnit("s"))
	b.fail(name, err)
	return h
}

func (b *instruments) histogram(name, description, unit string) metric.Int64Histogram {
	opts := []metric.Int64HistogramOption{metric.WithDescription(description)}
	if unit != "" {
		opts = append(opts, metric.WithUnit(unit))
	}
	h, err := b.meter.Int64Histogram(name, opts...)
	b.fail(name, err)
	return h
}

func newMetrics(meter metric.Meter, fullConfig *config.Config) (*Metrics, error) {
	b := &instruments{meter: meter}
	m := &Metrics{
		AIProcessingTime: b.seconds("careerassist_ai_processing_duration_seconds", "Time spent in vision model calls"),
		AIRequestCount:   b.counter("careerassist_ai_requests_total", "Vision model calls by operation and outcome"),
		AIErrorCount:     b.counter("careerassist_ai_errors_total", "Failed vision model calls"),
		AITokenUsage:     b.histogram("careerassist_ai_token_usage", "Tokens per call by token_type", "{token}"),

		DocumentsParsed: b.counter("careerassist_documents_parsed_total", "Documents processed by the parse pipeline, by method and outcome"),
		ParseDuration:   b.seconds("careerassist_document_parse_duration_seconds", "End-to-end extraction time per document"),
		DocumentSize:    b.histogram("careerassist_document_size_bytes", "Size of uploaded documents", "By"),
		DocumentWords:   b.histogram("careerassist_document_word_count", "Words extracted per successful document", "{word}"),
		OCRCalls:        b.counter("careerassist_ocr_calls_total", "Vision model OCR calls"),
		OCRDuration:     b.seconds("careerassist_ocr_duration_seconds", "Latency of vision model OCR calls"),

		ScoresComputed: b.counter("careerassist_scores_computed_total", "Scorer invocations by scorer and grade"),
		ScoreValue:     b.histogram("careerassist_score_value", "Distribution of scorer results", ""),

		RateLimitHits: b.counter("careerassist_rate_limit_hits_total", "Requests rejected by the rate limiter"),
	}
	if err := errors.Join(b.errs...); err != nil {
		return nil, err
	}
	if fullConfig != nil {
		m.custom = &fullConfig.Observability.CustomMetrics
	}
	return m, nil
}

// TrackAIOperationWithTokens runs fn inside an "ai.<operation>" span and
// records duration, outcome and token usage
func (m *Metrics) TrackAIOperationWithTokens(ctx context.Context, operation string, fn func(context.Context) *AIOperationResult) error {
	if m.AIProcessingTime == nil {
		return resultError(fn(ctx))
	}

	ctx, span := otel.Tracer("careerassist.ai").Start(ctx, "ai."+operation)
	defer span.End()

	start := time.Now()
	result := fn(ctx)
	elapsed := time.Since(start).Seconds()
	err := resultError(result)

	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("success", err == nil),
	}
	span.SetAttributes(attrs...)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("error", true))
	}
	if result != nil && result.TokenUsage != nil {
		// spans carry token counts even when the metric is off
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", result.TokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", result.TokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", result.TokenUsage.TotalTokens),
		)
	}

	if m.custom != nil && !m.custom.AIOperations.Enabled {
		return err
	}
	withAttrs := metric.WithAttributes(attrs...)
	m.AIRequestCount.Add(ctx, 1, withAttrs)
	if err != nil {
		m.AIErrorCount.Add(ctx, 1, withAttrs)
	}
	if m.custom == nil || m.custom.AIOperations.TrackDuration {
		m.AIProcessingTime.Record(ctx, elapsed, withAttrs)
	}
	if result != nil && result.TokenUsage != nil && (m.custom == nil || m.custom.AIOperations.TrackTokenUsage) {
		m.recordTokens(ctx, result.TokenUsage, attrs)
	}
	return err
}

func resultError(result *AIOperationResult) error {
	if result == nil {
		return nil
	}
	return result.Error
}

func (m *Metrics) recordTokens(ctx context.Context, usage *TokenUsage, attrs []attribute.KeyValue) {
	for tokenType, value := range map[string]int64{
		"input":  usage.InputTokens,
		"output": usage.OutputTokens,
		"total":  usage.TotalTokens,
	} {
		typed := append(attrs[:len(attrs):len(attrs)], attribute.String("token_type", tokenType))
		m.AITokenUsage.Record(ctx, value, metric.WithAttributes(typed...))
	}
}

// RecordScore counts one scorer run by grade and, when enabled, the score
func (m *Metrics) RecordScore(ctx context.Context, scorer string, score int, grade string) {
	if m.ScoresComputed == nil || (m.custom != nil && !m.custom.Scoring.Enabled) {
		return
	}
	scorerAttr := attribute.String("scorer", scorer)
	m.ScoresComputed.Add(ctx, 1, metric.WithAttributes(scorerAttr, attribute.String("grade", grade)))
	if m.custom == nil || m.custom.Scoring.TrackScores {
		m.ScoreValue.Record(ctx, int64(score), metric.WithAttributes(scorerAttr))
	}
}

func (m *Metrics) RecordRateLimitHit(ctx context.Context, attrs ...attribute.KeyValue) {
	if m.RateLimitHits == nil {
		return
	}
	if m.custom != nil && (!m.custom.Infrastructure.Enabled || !m.custom.Infrastructure.TrackRateLimits) {
		return
	}
	m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attrs...))
}
