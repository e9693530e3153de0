package config

import "time"

// ObservabilityConfig switches tracing and metrics and picks their exporters
type ObservabilityConfig struct {
	Enabled         bool    `mapstructure:"enabled"`
	ServiceName     string  `mapstructure:"serviceName"`
	ServiceVersion  string  `mapstructure:"serviceVersion"`
	ServiceInstance string  `mapstructure:"serviceInstance"`
	ConsoleOutput   bool    `mapstructure:"consoleOutput"`
	SampleRate      float64 `mapstructure:"sampleRate" validate:"gte=0,lte=1"`

	Tracing struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"tracing"`
	Metrics struct {
		Enabled            bool          `mapstructure:"enabled"`
		CollectionInterval time.Duration `mapstructure:"collectionInterval"`
	} `mapstructure:"metrics"`
	Console struct {
		Enabled     bool `mapstructure:"enabled"`
		PrettyPrint bool `mapstructure:"prettyPrint"`
	} `mapstructure:"console"`

	CustomMetrics CustomMetricsConfig `mapstructure:"customMetrics"`
	Prometheus    PrometheusConfig    `mapstructure:"prometheus"`
	OTLP          OTLPConfig          `mapstructure:"otlp"`
	HealthCheck   HealthCheckConfig   `mapstructure:"healthCheck"`
}

// CustomMetricsConfig turns individual metric families on and off
type CustomMetricsConfig struct {
	AIOperations struct {
		Enabled         bool `mapstructure:"enabled"`
		TrackDuration   bool `mapstructure:"trackDuration"`
		TrackTokenUsage bool `mapstructure:"trackTokenUsage"`
	} `mapstructure:"aiOperations"`
	Documents struct {
		Enabled         bool `mapstructure:"enabled"`
		TrackSizes      bool `mapstructure:"trackSizes"`
		TrackWordCounts bool `mapstructure:"trackWordCounts"`
	} `mapstructure:"documents"`
	Scoring struct {
		Enabled     bool `mapstructure:"enabled"`
		TrackScores bool `mapstructure:"trackScores"`
	} `mapstructure:"scoring"`
	Infrastructure struct {
		Enabled         bool `mapstructure:"enabled"`
		TrackRateLimits bool `mapstructure:"trackRateLimits"`
	} `mapstructure:"infrastructure"`
}

// PrometheusConfig serves the scrape endpoint on its own port
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig points the OTLP/HTTP trace and metric exporters at a collector
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// HealthCheckConfig bounds the model availability check behind /health
type HealthCheckConfig struct {
	Timeout             time.Duration `mapstructure:"timeout"`
	AIModelCheckTimeout time.Duration `mapstructure:"aiModelCheckTimeout"`
}
