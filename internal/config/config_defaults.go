package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix = "CAREERASSIST"
	megabyte  = 1024 * 1024
)

// defaults are grouped by key prefix
var defaults = []struct {
	prefix string
	values map[string]any
}{
	{"ai", map[string]any{
		"provider":         "gemini",
		"model":            "gemini-2.0-flash",
		"timeout":          20 * time.Second,
		"apiKey":           "",
		"maxRetries":       1,
		"temperature":      0.0,
		"useSystemPrompts": true,
	}},
	// one retry on transient errors inside a 20s budget
	{"ai.ocr", map[string]any{
		"provider":         "gemini",
		"model":            "",
		"timeout":          20 * time.Second,
		"apiKey":           "",
		"maxRetries":       1,
		"temperature":      0.0,
		"useSystemPrompts": true,
	}},
	{"ai.ocr.circuitBreaker", map[string]any{
		"enabled":          true,
		"maxRequests":      3,
		"interval":         time.Minute,
		"timeout":          30 * time.Second,
		"minRequests":      5,
		"failureThreshold": 0.6,
	}},
	{"document", map[string]any{
		"pdfMinWords":   10,
		"docxMinChars":  10,
		"ocrMinChars":   10,
		"maxUploadSize": 10 * megabyte,
		"ocrEnabled":    true,
		"watchPrompts":  false,
		"concurrency":   4,
	}},
	{"server", map[string]any{
		"host":         "localhost",
		"port":         "8080",
		"readTimeout":  30 * time.Second,
		"writeTimeout": 45 * time.Second, // OCR budget plus headroom
		"idleTimeout":  2 * time.Minute,
		"apiKeys":      []string{},
	}},
	{"server.tls", map[string]any{
		"mode":             "disabled",
		"certFile":         "",
		"keyFile":          "",
		"caFile":           "",
		"minVersion":       "1.2",
		"cipherSuites":     []string{},
		"clientAuthPolicy": "require",
	}},
	{"server.rateLimit", map[string]any{
		"enabled":        false,
		"requestsPerMin": 60,
		"burstCapacity":  10,
		"byIP":           true,
		"byAPIKey":       false,
		"window":         time.Minute,
	}},
	{"app", map[string]any{
		"logLevel":         "info",
		"defaultFormat":    "json",
		"supportedFormats": []string{"json", "text", "markdown", "yaml"},
		"maxFileSize":      10 * megabyte,
	}},
	{"vault", map[string]any{
		"enabled":           false,
		"address":           "",
		"token":             "",
		"tokenFile":         "",
		"namespace":         "",
		"secrets.apiKeys":   "",
		"secrets.geminiKey": "",
		"secrets.tlsCerts":  "",
	}},
	{"observability", map[string]any{
		"enabled":                         true,
		"serviceName":                     "careerassist",
		"serviceVersion":                  "",
		"serviceInstance":                 "",
		"consoleOutput":                   false,
		"sampleRate":                      1.0,
		"tracing.enabled":                 true,
		"metrics.enabled":                 true,
		"metrics.collectionInterval":      15 * time.Second,
		"console.enabled":                 false,
		"console.prettyPrint":             true,
		"prometheus.enabled":              true,
		"prometheus.endpoint":             "/metrics",
		"prometheus.port":                 "9090",
		"otlp.enabled":                    false,
		"otlp.endpoint":                   "http://localhost:4318",
		"otlp.insecure":                   true,
		"otlp.headers":                    map[string]string{},
		"healthCheck.timeout":             15 * time.Second,
		"healthCheck.aiModelCheckTimeout": 10 * time.Second,
	}},
	{"observability.customMetrics", map[string]any{
		"aiOperations.enabled":           true,
		"aiOperations.trackDuration":     true,
		"aiOperations.trackTokenUsage":   true,
		"documents.enabled":              true,
		"documents.trackSizes":           true,
		"documents.trackWordCounts":      true,
		"scoring.enabled":                true,
		"scoring.trackScores":            true,
		"infrastructure.enabled":         true,
		"infrastructure.trackRateLimits": true,
	}},
}

func setDefaults(v *viper.Viper) {
	for _, group := range defaults {
		for key, value := range group.values {
			v.SetDefault(group.prefix+"."+key, value)
		}
	}
}
