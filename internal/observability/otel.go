package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/config"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ObservabilityManager owns the tracer and meter providers of one process.
// A nil or disabled manager hands out no-op telemetry.
type ObservabilityManager struct {
	cfg            ObservabilityConfig
	tracerProvider *trace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	metrics        *Metrics
	stops          []func(context.Context) error
}

// NewObservabilityManager installs global providers exporting to the console,
// an OTLP collector and Prometheus, whichever obsConfig enables. fullConfig
// supplies the per-family metric switches.
func NewObservabilityManager(obsConfig ObservabilityConfig, fullConfig *config.Config) (*ObservabilityManager, error) {
	om := &ObservabilityManager{cfg: obsConfig}
	if !obsConfig.Enabled {
		return om, nil
	}
	if om.cfg.Interval <= 0 {
		om.cfg.Interval = defaultCollectionInterval
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(obsConfig.ServiceName),
		semconv.ServiceVersion(obsConfig.ServiceVersion),
		attribute.String("service.instance.id", obsConfig.ServiceInstance),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if err := om.startTracing(res); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := om.startMetrics(res, fullConfig); err != nil {
		_ = om.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	return om, nil
}

func (om *ObservabilityManager) startTracing(res *resource.Resource) error {
	opts := []trace.TracerProviderOption{
		trace.WithResource(res),
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(om.cfg.SampleRate))),
	}

	// console wins over OTLP; with neither, spans are sampled but dropped
	switch {
	case om.cfg.ConsoleOutput:
		var stdoutOpts []stdouttrace.Option
		if om.cfg.PrettyPrint {
			stdoutOpts = append(stdoutOpts, stdouttrace.WithPrettyPrint())
		}
		exporter, err := stdouttrace.New(stdoutOpts...)
		if err != nil {
			return err
		}
		opts = append(opts, trace.WithBatcher(exporter))
	case om.cfg.OTLP.Enabled:
		exporter, err := otlptracehttp.New(context.Background(), otlpTraceOptions(om.cfg.OTLP)...)
		if err != nil {
			return fmt.Errorf("failed to create OTLP trace exporter: %w", err)
		}
		opts = append(opts, trace.WithBatcher(exporter))
	}

	om.tracerProvider = trace.NewTracerProvider(opts...)
	om.stops = append(om.stops, om.tracerProvider.Shutdown)

	otel.SetTracerProvider(om.tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	return nil
}

func (om *ObservabilityManager) startMetrics(res *resource.Resource, fullConfig *config.Config) error {
	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	periodic := func(exporter sdkmetric.Exporter) {
		opts = append(opts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(om.cfg.Interval))))
	}

	if om.cfg.ConsoleOutput {
		exporter, err := stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console metric exporter: %w", err)
		}
		periodic(exporter)
	}
	if om.cfg.OTLP.Enabled {
		exporter, err := otlpmetrichttp.New(context.Background(), otlpMetricOptions(om.cfg.OTLP)...)
		if err != nil {
			return fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
		}
		periodic(exporter)
	}
	if om.cfg.Prometheus.Enabled {
		reader, stop, err := prometheusReader(om.cfg.Prometheus)
		if err != nil {
			return err
		}
		opts = append(opts, sdkmetric.WithReader(reader))
		om.stops = append(om.stops, stop)
	}
	if len(opts) == 1 {
		opts = append(opts, sdkmetric.WithReader(sdkmetric.NewManualReader()))
	}

	om.meterProvider = sdkmetric.NewMeterProvider(opts...)
	om.stops = append(om.stops, om.meterProvider.Shutdown)
	otel.SetMeterProvider(om.meterProvider)

	metrics, err := newMetrics(om.meterProvider.Meter(om.cfg.ServiceName), fullConfig)
	if err != nil {
		return err
	}
	om.metrics = metrics
	return nil
}

func otlpTraceOptions(cfg config.OTLPConfig) []otlptracehttp.Option {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpointURL(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(cfg.Headers))
	}
	return opts
}

func otlpMetricOptions(cfg config.OTLPConfig) []otlpmetrichttp.Option {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpointURL(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlpmetrichttp.WithHeaders(cfg.Headers))
	}
	return opts
}

// GetMetrics never returns nil
func (om *ObservabilityManager) GetMetrics() *Metrics {
	if om == nil || om.metrics == nil {
		return &Metrics{}
	}
	return om.metrics
}

// HTTPMiddleware traces and meters every request with otelhttp
func (om *ObservabilityManager) HTTPMiddleware() func(http.Handler) http.Handler {
	if om == nil || om.tracerProvider == nil {
		return func(h http.Handler) http.Handler { return h }
	}
	return otelhttp.NewMiddleware(om.cfg.ServiceName,
		otelhttp.WithTracerProvider(om.tracerProvider),
		otelhttp.WithMeterProvider(om.meterProvider))
}

func (om *ObservabilityManager) Tracer(name string) oteltrace.Tracer {
	if om == nil || om.tracerProvider == nil {
		return noop.NewTracerProvider().Tracer(name)
	}
	return om.tracerProvider.Tracer(name)
}

// Shutdown flushes exporters and stops the Prometheus listener
func (om *ObservabilityManager) Shutdown(ctx context.Context) error {
	if om == nil {
		return nil
	}
	var errs []error
	for _, stop := range om.stops {
		errs = append(errs, stop(ctx))
	}
	return errors.Join(errs...)
}
