package cli

import (
	"fmt"

	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start an HTTP server exposing document parsing and scoring.

Available endpoints:
- POST /parse: Extract text from an uploaded document (multipart field "file")
- POST /score/ats: Score resume text for ATS compatibility
- POST /score/star: Evaluate an interview answer for STAR structure
- POST /score/tone: Assess an email rewrite against a target tone
- GET /health: Health check including OCR model availability
- GET /stats: Server statistics and rate limiting info

TLS Configuration:
- Use --tls-mode to set TLS mode: disabled, server, mutual
- Use --cert-file and --key-file for TLS certificates
- Use --ca-file for mutual TLS client certificate verification`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")
	serveCmd.Flags().String("tls-mode", "", "TLS mode: disabled, server, mutual (overrides config)")
	serveCmd.Flags().String("cert-file", "", "Server certificate file (PEM, overrides config)")
	serveCmd.Flags().String("key-file", "", "Server private key file (PEM, overrides config)")
	serveCmd.Flags().String("ca-file", "", "CA certificate file for client cert verification (PEM, overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	// Flags override whatever the config file and environment provided
	override := func(flagName string, target *string) {
		if cmd.Flags().Changed(flagName) {
			*target, _ = cmd.Flags().GetString(flagName)
		}
	}
	override("port", &cfg.Server.Port)
	override("host", &cfg.Server.Host)
	override("tls-mode", &cfg.Server.TLS.Mode)
	override("cert-file", &cfg.Server.TLS.CertFile)
	override("key-file", &cfg.Server.TLS.KeyFile)
	override("ca-file", &cfg.Server.TLS.CAFile)

	if err := cfg.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	p, err := newPipeline(cfg, logger, true)
	if err != nil {
		return fmt.Errorf("failed to initialize document pipeline: %w", err)
	}
	defer p.Close()

	serverCfg := server.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        Version,
		TLSConfig:      cfg.Server.TLS,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.Document.MaxUploadSize,
		RateLimit:      &cfg.Server.RateLimit,
		Parser:         p.parser,
		Observability:  p.om,
	}
	if p.ocr != nil {
		serverCfg.OCR = p.ocr
	}

	return server.NewServer(cfg, serverCfg, logger).Start(cmd.Context())
}
