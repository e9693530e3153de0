package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"time"

	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/ai"
)

const (
	serviceName               = "careerassist"
	defaultHealthCheckTimeout = 15 * time.Second
)

type healthResponse struct {
	Status  string         `json:"status"`
	Service string         `json:"service"`
	Version string         `json:"version"`
	OCR     map[string]any `json:"ocr"`
}

type statsResponse struct {
	Service         string         `json:"service"`
	Version         string         `json:"version"`
	MaxRequestSize  int64          `json:"max_request_size_bytes"`
	RateLimiting    map[string]any `json:"rate_limiting"`
	RateLimitConfig map[string]any `json:"rate_limit_config,omitempty"`
	CircuitBreakers map[string]any `json:"circuit_breakers,omitempty"`
}

func (s *Server) healthCheckTimeout() time.Duration {
	if s.AppConfig != nil && s.AppConfig.Observability.HealthCheck.Timeout > 0 {
		return s.AppConfig.Observability.HealthCheck.Timeout
	}
	return defaultHealthCheckTimeout
}

// healthHandler answers 503 "degraded" when the OCR model is unreachable
// or one of its breakers is open
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ocr, healthy := s.checkOCRHealth(r.Context())
	resp := healthResponse{Status: "healthy", Service: serviceName, Version: s.Version, OCR: ocr}

	status := http.StatusOK
	if !healthy {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// checkOCRHealth checks model availability and breaker state. Scorers and
// text-layer extraction do not depend on the model, so a disabled OCR
// backend is reported but still healthy.
func (s *Server) checkOCRHealth(parent context.Context) (map[string]any, bool) {
	if s.OCR == nil {
		return map[string]any{"enabled": false}, true
	}

	ctx, cancel := context.WithTimeout(parent, s.healthCheckTimeout())
	defer cancel()

	modelInfo := s.OCR.GetModelInfo(ctx)
	breakers := s.OCR.GetCircuitBreakerStats()

	info, isInfo := modelInfo.(*ai.ModelInfo)
	overall, hasOverall := breakers["overall_healthy"].(bool)
	healthy := (!isInfo || info.Available) && (!hasOverall || overall)

	return map[string]any{
		"enabled":          true,
		"model":            modelInfo,
		"circuit_breakers": breakers,
	}, healthy
}

// statsHandler reports limiter occupancy, limiter settings and breaker state
func (s *Server) statsHandler(w http.ResponseWriter, _ *http.Request) {
	resp := statsResponse{
		Service:        serviceName,
		Version:        s.Version,
		MaxRequestSize: s.MaxRequestSize,
		RateLimiting:   map[string]any{"enabled": false},
	}
	if s.RateLimiter != nil {
		resp.RateLimiting = s.RateLimiter.GetStats()
	}
	if rl := s.RateLimit; rl != nil {
		resp.RateLimitConfig = map[string]any{
			"enabled":          rl.Enabled,
			"requests_per_min": rl.RequestsPerMin,
			"burst_capacity":   rl.BurstCapacity,
			"by_ip":            rl.ByIP,
			"by_api_key":       rl.ByAPIKey,
		}
	}
	if s.OCR != nil {
		resp.CircuitBreakers = s.OCR.GetCircuitBreakerStats()
	}
	writeJSON(w, http.StatusOK, resp)
}

// readJSONBody reads a request body that must be declared as JSON
func readJSONBody(r *http.Request) ([]byte, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return nil, fmt.Errorf("content-type must be application/json")
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	body, err := io.ReadAll(r.Body)
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return nil, fmt.Errorf("request body too large (limit is %d bytes)", tooLarge.Limit)
	case err != nil:
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	return body, nil
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeErrorResponse(w http.ResponseWriter, reason, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{Error: reason, Message: message})
}
