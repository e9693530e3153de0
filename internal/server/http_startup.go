package server

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/config"
)

const shutdownTimeout = 30 * time.Second

var (
	tlsMinVersions = map[string]uint16{
		"":    tls.VersionTLS12,
		"1.2": tls.VersionTLS12,
		"1.3": tls.VersionTLS13,
	}

	clientAuthPolicies = map[string]tls.ClientAuthType{
		"":        tls.RequireAndVerifyClientCert,
		"require": tls.RequireAndVerifyClientCert,
		"request": tls.RequestClientCert,
		"verify":  tls.VerifyClientCertIfGiven,
	}
)

// Start serves until ctx is cancelled or SIGINT/SIGTERM arrives, then drains
// in-flight requests for up to shutdownTimeout.
func (s *Server) Start(ctx context.Context) error {
	tlsCfg, err := listenerTLS(s.TLSConfig)
	if err != nil {
		return fmt.Errorf("failed to set up TLS: %w", err)
	}

	httpServer := s.setupHTTPServer()
	httpServer.TLSConfig = tlsCfg

	scheme := "http"
	if tlsCfg != nil {
		scheme = "https"
	}
	fmt.Printf("Listening on %s://%s (TLS mode: %s)\n", scheme, httpServer.Addr, tlsModeLabel(s.TLSConfig.Mode))
	s.displayServerInfo()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	served := make(chan error, 1)
	go func() {
		s.Logger.Info("Starting HTTP server", "address", httpServer.Addr, "tls_enabled", tlsCfg != nil)
		if tlsCfg != nil {
			// the certificate is already in TLSConfig
			served <- httpServer.ListenAndServeTLS("", "")
			return
		}
		served <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-served:
		s.cleanupRateLimiter()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
	}

	s.Logger.Info("Shutting down HTTP server", "cause", context.Cause(ctx).Error())
	s.cleanupRateLimiter()

	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(drainCtx); err != nil {
		s.Logger.LogError(err, "Graceful shutdown timed out, closing connections")
		return httpServer.Close()
	}
	s.Logger.Info("Server stopped")
	return nil
}

func (s *Server) setupHTTPServer() *http.Server {
	return &http.Server{
		Addr:         net.JoinHostPort(s.Host, s.Port),
		Handler:      s.Handler(),
		ReadTimeout:  s.ReadTimeout,
		WriteTimeout: s.WriteTimeout,
		IdleTimeout:  s.IdleTimeout,
	}
}

func (s *Server) cleanupRateLimiter() {
	if s.RateLimiter != nil {
		s.RateLimiter.Close()
	}
}

func tlsModeLabel(mode string) string {
	switch mode {
	case "server":
		return "server-only"
	case "mutual":
		return "mutual, client certificates required"
	default:
		return "disabled"
	}
}

// listenerTLS builds the listener TLS settings. It returns nil for plain HTTP.
// Inline PEM content (filled from Vault during config load) wins over files.
func listenerTLS(cfg config.TLSConfig) (*tls.Config, error) {
	switch cfg.Mode {
	case "", "disabled":
		return nil, nil
	case "server", "mutual":
	default:
		return nil, fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", cfg.Mode)
	}

	certPEM, err := readPEM(cfg.CertContent, cfg.CertFile)
	if err != nil {
		return nil, fmt.Errorf("server certificate: %w", err)
	}
	keyPEM, err := readPEM(cfg.KeyContent, cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("server key: %w", err)
	}
	if certPEM == nil || keyPEM == nil {
		return nil, fmt.Errorf("TLS certificate and key are required (provide either files or content)")
	}
	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, fmt.Errorf("invalid server cert/key pair: %w", err)
	}

	minVersion, ok := tlsMinVersions[cfg.MinVersion]
	if !ok {
		minVersion = tls.VersionTLS12
	}
	tlsCfg := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   minVersion,
		CipherSuites: cipherSuiteIDs(cfg.CipherSuites),
	}
	if cfg.Mode == "server" {
		return tlsCfg, nil
	}

	caPEM, err := readPEM(cfg.CAContent, cfg.CAFile)
	if err != nil {
		return nil, fmt.Errorf("client CA: %w", err)
	}
	if caPEM == nil {
		return nil, fmt.Errorf("CA certificate is required for mutual TLS mode (provide either caFile or caContent)")
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return nil, fmt.Errorf("client CA: no PEM certificates found")
	}
	tlsCfg.ClientCAs = pool
	if tlsCfg.ClientAuth, ok = clientAuthPolicies[cfg.ClientAuthPolicy]; !ok {
		tlsCfg.ClientAuth = tls.RequireAndVerifyClientCert
	}
	return tlsCfg, nil
}

// readPEM returns inline content, the file contents, or nil when neither is set
func readPEM(content, file string) ([]byte, error) {
	if content != "" {
		return []byte(content), nil
	}
	if file == "" {
		return nil, nil
	}
	return os.ReadFile(file)
}

// cipherSuiteIDs maps names to the suites crypto/tls considers secure. Unknown
// names are dropped; an empty result leaves the Go defaults in place.
func cipherSuiteIDs(names []string) []uint16 {
	if len(names) == 0 {
		return nil
	}
	known := make(map[string]uint16)
	for _, suite := range tls.CipherSuites() {
		known[suite.Name] = suite.ID
		// older configs name the CHACHA20 suites without the hash suffix
		known[strings.TrimSuffix(suite.Name, "_SHA256")] = suite.ID
	}

	var ids []uint16
	for _, name := range names {
		if id, ok := known[strings.TrimSpace(name)]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}
