package cli

import (
	"context"
	"time"

	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/ai"
	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/config"
	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/document"
	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/errors"
	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/observability"
)

const promptReloadDebounce = 500 * time.Millisecond

// pipeline wires the document parser to its OCR backend and telemetry
type pipeline struct {
	parser  *document.Parser
	ocr     *ai.Service // nil when OCR is unavailable
	om      *observability.ObservabilityManager
	watcher *config.PromptWatcher
	logger  *errors.Logger
}

// newPipeline builds the parser. OCR is wired only when enabled and an API
// key is present; otherwise scanned documents fail with an extraction error.
// Long-running servers also get prompt hot-reload and the Prometheus listener.
func newPipeline(cfg *config.Config, logger *errors.Logger, serving bool) (*pipeline, error) {
	om, err := observability.NewObservabilityManager(observabilityConfig(cfg, serving), cfg)
	if err != nil {
		return nil, err
	}

	p := &pipeline{om: om, logger: logger}

	var ocrClient document.OCRClient
	ocrCfg := cfg.GetOCRConfig()
	switch {
	case !cfg.Document.OCREnabled:
		ocrClient = document.UnavailableOCR{Reason: "disabled in configuration"}
	case ocrCfg.APIKey == "":
		logger.Warn("No vision model API key configured, OCR fallback is unavailable")
		ocrClient = document.UnavailableOCR{Reason: "no API key configured"}
	default:
		svc, err := ai.NewService(&ocrCfg, "ocr", logger,
			ai.WithObservability(om),
			ai.WithModelCheckTimeout(cfg.Observability.HealthCheck.AIModelCheckTimeout))
		if err != nil {
			p.shutdownTelemetry()
			return nil, err
		}
		p.ocr = svc
		ocrClient = svc
	}

	opts := []document.Option{
		document.WithThresholds(document.Thresholds{
			PDFMinWords:  cfg.Document.PDFMinWords,
			DOCXMinChars: cfg.Document.DOCXMinChars,
			OCRMinChars:  cfg.Document.OCRMinChars,
		}),
		document.WithObserver(observability.NewDocumentObserver(om)),
		document.WithLogger(logger),
	}
	if p.ocr != nil {
		opts = append(opts, document.WithPromptSource(p.ocr.OCRPrompt))
	}
	p.parser = document.NewParser(ocrClient, opts...)

	if serving && cfg.Document.WatchPrompts {
		p.watcher = config.NewPromptWatcher(cfg, promptReloadDebounce, logger)
		if err := p.watcher.Start(); err != nil {
			logger.LogError(err, "Failed to start prompt watcher, prompt files will not hot-reload")
			p.watcher = nil
		}
	}

	return p, nil
}

// Close stops the watcher, the OCR client and flushes telemetry
func (p *pipeline) Close() {
	if p.watcher != nil {
		if err := p.watcher.Stop(); err != nil {
			p.logger.LogError(err, "Failed to stop prompt watcher")
		}
	}
	if p.ocr != nil {
		if err := p.ocr.Close(); err != nil {
			p.logger.LogError(err, "Failed to close OCR client")
		}
	}
	p.shutdownTelemetry()
}

func (p *pipeline) shutdownTelemetry() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.om.Shutdown(ctx); err != nil {
		p.logger.LogError(err, "Failed to shutdown observability")
	}
}

// observabilityConfig keeps one-shot commands from binding the metrics port
func observabilityConfig(cfg *config.Config, serving bool) observability.ObservabilityConfig {
	obsCfg := observability.GetObservabilityConfig(cfg, Version)
	if !serving {
		obsCfg.Prometheus.Enabled = false
	}
	return obsCfg
}

// scoreRecorder reports scorer runs to the configured metrics backend
type scoreRecorder struct {
	om     *observability.ObservabilityManager
	logger *errors.Logger
}

func newScoreRecorder(ctx context.Context) *scoreRecorder {
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	om, err := observability.NewObservabilityManager(observabilityConfig(cfg, false), cfg)
	if err != nil {
		logger.Warn("Observability unavailable, scores will not be recorded", "error", err)
		om = nil
	}
	return &scoreRecorder{om: om, logger: logger}
}

func (r *scoreRecorder) record(ctx context.Context, scorer string, score int, grade string) {
	r.om.GetMetrics().RecordScore(ctx, scorer, score, grade)
}

func (r *scoreRecorder) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.om.Shutdown(ctx); err != nil {
		r.logger.LogError(err, "Failed to shutdown observability")
	}
}
