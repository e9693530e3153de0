package server

import (
	"context"
	"time"

	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/config"
	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/document"
	appErrors "github.com/NoobSambit/AI-Career-Assistant-sub000/internal/errors"
	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/observability"
	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/schemas"
)

// ATSRequest represents the request body for the ATS score endpoint
type ATSRequest struct {
	ResumeText string `json:"resumeText"`
}

// STARRequest represents the request body for the STAR evaluation endpoint
type STARRequest struct {
	Answer string `json:"answer"`
}

// ToneRequest represents the request body for the email tone endpoint
type ToneRequest struct {
	Original   string `json:"original"`
	Rewritten  string `json:"rewritten"`
	TargetTone string `json:"targetTone"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string               `json:"error"`
	Message string               `json:"message,omitempty"`
	Details []schemas.FieldError `json:"details,omitempty"`
}

// DocumentParser extracts text from uploaded files
type DocumentParser interface {
	Parse(ctx context.Context, f document.File) document.ParsedDocument
}

// OCRStatus reports the state of the vision model behind OCR
type OCRStatus interface {
	GetModelInfo(ctx context.Context) any
	GetCircuitBreakerStats() map[string]any
}

// ServerConfig holds everything NewServer needs
type ServerConfig struct {
	Host    string
	Port    string
	Version string

	TLSConfig config.TLSConfig
	// Empty disables authentication
	APIKeys []string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Upper bound for request bodies, zero disables the limit
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig

	Parser DocumentParser
	// OCR is nil when OCR is disabled
	OCR           OCRStatus
	Observability *observability.ObservabilityManager
}

// Server serves the parse and score API
type Server struct {
	ServerConfig

	AppConfig   *config.Config
	RateLimiter *RateLimiter
	Logger      *appErrors.Logger

	apiKeys map[string]struct{}
}

// NewServer creates a Server. The rate limiter is only started when rate
// limiting is enabled.
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *appErrors.Logger) *Server {
	s := &Server{
		ServerConfig: cfg,
		AppConfig:    appCfg,
		Logger:       logger,
		apiKeys:      make(map[string]struct{}, len(cfg.APIKeys)),
	}
	for _, key := range cfg.APIKeys {
		if key != "" {
			s.apiKeys[key] = struct{}{}
		}
	}

	if rl := cfg.RateLimit; rl != nil && rl.Enabled {
		s.RateLimiter = NewRateLimiter(rl.RequestsPerMin, rl.Window, rl.BurstCapacity, logger)
	}
	return s
}
