package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	maxRequestIDLen = 128
)

type requestIDKey struct{}

// middleware wraps a handler; the first in a chain runs outermost
type middleware func(http.HandlerFunc) http.HandlerFunc

func chain(h http.HandlerFunc, mws ...middleware) http.HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Handler returns the mux wrapped in request IDs and HTTP telemetry
func (s *Server) Handler() http.Handler {
	return s.requestIDMiddleware(s.Observability.HTTPMiddleware()(s.setupRoutes()))
}

// setupRoutes registers the public health routes and the guarded API routes.
// API routes are rate limited before authentication so rejected keys still count.
func (s *Server) setupRoutes() *http.ServeMux {
	guarded := []middleware{s.rateLimitMiddleware(), s.authMiddleware, s.bodyLimitMiddleware}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /stats", s.statsHandler)
	mux.HandleFunc("POST /parse", chain(s.parseHandler, guarded...))
	mux.HandleFunc("POST /score/ats", chain(s.atsHandler(), guarded...))
	mux.HandleFunc("POST /score/star", chain(s.starHandler(), guarded...))
	mux.HandleFunc("POST /score/tone", chain(s.toneHandler(), guarded...))
	return mux
}

// requestIDMiddleware keeps a caller-supplied X-Request-ID or assigns a UUID
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// RequestID returns the ID assigned by requestIDMiddleware
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// authMiddleware requires a configured API key. With no keys configured the
// API is open.
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(s.apiKeys) == 0 {
			next(w, r)
			return
		}

		key := apiKeyFromRequest(r)
		_, known := s.apiKeys[key]
		if known {
			next(w, r)
			return
		}

		reason, message := "Invalid API key", "Unauthorized access"
		if key == "" {
			reason, message = "Missing API key", "X-API-Key header or Authorization Bearer token required"
		}
		s.Logger.Info("Request rejected by API key check",
			"reason", reason,
			"endpoint", r.URL.Path,
			"client_ip", getClientIP(r),
			"api_key_prefix", maskAPIKey(key),
			"request_id", RequestID(r.Context()))
		writeErrorResponse(w, reason, message, http.StatusUnauthorized)
	}
}

func apiKeyFromRequest(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return token
	}
	return ""
}

// bodyLimitMiddleware caps request bodies at MaxRequestSize
func (s *Server) bodyLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	if s.MaxRequestSize <= 0 {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.MaxRequestSize)
		next(w, r)
	}
}

// maskAPIKey keeps the first 8 characters for logs
func maskAPIKey(apiKey string) string {
	if len(apiKey) <= 8 {
		return "****"
	}
	return apiKey[:8] + "****"
}
