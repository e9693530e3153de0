package observability

import (
	"time"

	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/config"
)

const (
	defaultServiceName        = "careerassist"
	defaultServiceInstance    = "careerassist-1"
	defaultCollectionInterval = 15 * time.Second
)

// ObservabilityConfig is the resolved telemetry setup for one process
type ObservabilityConfig struct {
	ServiceName     string
	ServiceVersion  string
	ServiceInstance string
	Enabled         bool
	ConsoleOutput   bool
	PrettyPrint     bool
	SampleRate      float64
	Interval        time.Duration
	OTLP            config.OTLPConfig
	Prometheus      PrometheusConfig
}

// PrometheusConfig places the scrape endpoint on its own listener
type PrometheusConfig struct {
	Enabled  bool
	Endpoint string
	Port     string
}

// GetObservabilityConfig resolves cfg. Tracing off forces a zero sample rate
// and metrics off disables the Prometheus listener. A nil cfg gives
// console output with Prometheus on :9090.
func GetObservabilityConfig(cfg *config.Config, version string) ObservabilityConfig {
	if cfg == nil {
		return ObservabilityConfig{
			ServiceName:     defaultServiceName,
			ServiceVersion:  version,
			ServiceInstance: defaultServiceInstance,
			Enabled:         true,
			ConsoleOutput:   true,
			PrettyPrint:     true,
			SampleRate:      1.0,
			Interval:        defaultCollectionInterval,
			Prometheus:      PrometheusConfig{Enabled: true, Endpoint: "/metrics", Port: "9090"},
		}
	}

	obs := cfg.Observability
	resolved := ObservabilityConfig{
		ServiceName:     obs.ServiceName,
		ServiceVersion:  obs.ServiceVersion,
		ServiceInstance: obs.ServiceInstance,
		Enabled:         obs.Enabled,
		ConsoleOutput:   obs.ConsoleOutput || obs.Console.Enabled,
		PrettyPrint:     obs.Console.PrettyPrint,
		SampleRate:      obs.SampleRate,
		Interval:        obs.Metrics.CollectionInterval,
		OTLP:            obs.OTLP,
		Prometheus: PrometheusConfig{
			Enabled:  obs.Prometheus.Enabled && obs.Metrics.Enabled,
			Endpoint: obs.Prometheus.Endpoint,
			Port:     obs.Prometheus.Port,
		},
	}
	if resolved.ServiceVersion == "" {
		resolved.ServiceVersion = version
	}
	if resolved.ServiceInstance == "" {
		resolved.ServiceInstance = defaultServiceInstance
	}
	if resolved.Interval <= 0 {
		resolved.Interval = defaultCollectionInterval
	}
	if !obs.Tracing.Enabled {
		resolved.SampleRate = 0
	}
	return resolved
}
