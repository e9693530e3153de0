package observability

import (
	"context"
	"time"

	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/document"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// DocumentObserver feeds parse pipeline outcomes into Metrics
type DocumentObserver struct {
	metrics *Metrics
}

var _ document.Observer = (*DocumentObserver)(nil)

func NewDocumentObserver(om *ObservabilityManager) *DocumentObserver {
	return &DocumentObserver{metrics: om.GetMetrics()}
}

func (o *DocumentObserver) enabled() bool {
	m := o.metrics
	return m.DocumentsParsed != nil && (m.custom == nil || m.custom.Documents.Enabled)
}

// ObserveParse records the outcome of one Parse call
func (o *DocumentObserver) ObserveParse(ctx context.Context, doc document.ParsedDocument, mediaType string, sizeBytes int, duration time.Duration) {
	if !o.enabled() {
		return
	}
	m := o.metrics

	attrs := []attribute.KeyValue{
		attribute.String("method", string(doc.Method)),
		attribute.String("media_type", mediaType),
		attribute.Bool("success", !doc.Failed()),
	}
	if doc.Failed() {
		attrs = append(attrs, attribute.String("error_kind", string(doc.ErrorKind)))
	}

	m.DocumentsParsed.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.ParseDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))

	if m.custom == nil || m.custom.Documents.TrackSizes {
		m.DocumentSize.Record(ctx, int64(sizeBytes), metric.WithAttributes(attribute.String("media_type", mediaType)))
	}
	if doc.Metadata.WordCount != nil && (m.custom == nil || m.custom.Documents.TrackWordCounts) {
		m.DocumentWords.Record(ctx, int64(*doc.Metadata.WordCount), metric.WithAttributes(attribute.String("method", string(doc.Method))))
	}
}

// ObserveOCR records one vision model call made by the pipeline
func (o *DocumentObserver) ObserveOCR(ctx context.Context, mediaType string, duration time.Duration, err error) {
	if !o.enabled() {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("media_type", mediaType),
		attribute.Bool("success", err == nil),
	)
	o.metrics.OCRCalls.Add(ctx, 1, attrs)
	o.metrics.OCRDuration.Record(ctx, duration.Seconds(), attrs)
}
