package document

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("careerassist/document")

// Thresholds are the minimum amounts of text each strategy must produce
type Thresholds struct {
	// PDFMinWords is the text-layer word count below which a PDF is sent to OCR
	PDFMinWords  int
	DOCXMinChars int
	OCRMinChars  int
}

// DefaultThresholds returns the stock threshold of 10 for every strategy
func DefaultThresholds() Thresholds {
	return Thresholds{PDFMinWords: 10, DOCXMinChars: 10, OCRMinChars: 10}
}

// Observer receives parse outcomes for metrics
type Observer interface {
	ObserveParse(ctx context.Context, doc ParsedDocument, mediaType string, sizeBytes int, duration time.Duration)
	ObserveOCR(ctx context.Context, mediaType string, duration time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveParse(context.Context, ParsedDocument, string, int, time.Duration) {}
func (nopObserver) ObserveOCR(context.Context, string, time.Duration, error) {}

// Parser routes files to the matching extractor. It holds no per-request
// state and is safe for concurrent use.
type Parser struct {
	pdf        PDFTextReader
	docx       DOCXTextReader
	ocr        OCRClient
	prompt     func() string
	thresholds Thresholds
	observer   Observer
	logger     *errors.Logger
}

// Option configures a Parser
type Option func(*Parser)

// WithPDFReader replaces the PDF text-layer reader
func WithPDFReader(r PDFTextReader) Option {
	return func(p *Parser) { p.pdf = r }
}

// WithDOCXReader replaces the DOCX text reader
func WithDOCXReader(r DOCXTextReader) Option {
	return func(p *Parser) { p.docx = r }
}

func WithThresholds(t Thresholds) Option {
	return func(p *Parser) { p.thresholds = t }
}

// WithPromptSource sets the function consulted for the OCR instruction on every call
func WithPromptSource(source func() string) Option {
	return func(p *Parser) { p.prompt = source }
}

func WithObserver(o Observer) Option {
	return func(p *Parser) { p.observer = o }
}

func WithLogger(l *errors.Logger) Option {
	return func(p *Parser) { p.logger = l }
}

// NewParser creates a parser that sends images and text-less PDFs to ocr.
// A nil ocr behaves like UnavailableOCR.
func NewParser(ocr OCRClient, opts ...Option) *Parser {
	if ocr == nil {
		ocr = UnavailableOCR{}
	}

	p := &Parser{
		pdf:        LedongthucPDFReader{},
		docx:       DocconvDOCXReader{},
		ocr:        ocr,
		prompt:     func() string { return DefaultOCRPrompt },
		thresholds: DefaultThresholds(),
		observer:   nopObserver{},
		logger:     errors.NewLoggerWithWriter(io.Discard, slog.LevelError),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse extracts text from f. It never fails: every failure is reported as a
// ParsedDocument with MethodError.
func (p *Parser) Parse(ctx context.Context, f File) ParsedDocument {
	mediaType := NormalizeMediaType(f.MediaType)

	ctx, span := tracer.Start(ctx, "document.parse")
	defer span.End()
	span.SetAttributes(
		attribute.String("document.media_type", mediaType),
		attribute.Int("document.size_bytes", len(f.Bytes)),
	)

	start := time.Now()
	doc := p.dispatch(ctx, mediaType, f.Bytes)
	duration := time.Since(start)

	span.SetAttributes(attribute.String("document.method", string(doc.Method)))
	if doc.Failed() {
		span.SetStatus(codes.Error, doc.Error)
		span.SetAttributes(attribute.String("document.error_kind", string(doc.ErrorKind)))
	}
	p.observer.ObserveParse(ctx, doc, mediaType, len(f.Bytes), duration)

	p.logger.Debug("Document parsed",
		"name", f.Name,
		"media_type", mediaType,
		"method", doc.Method,
		"error_kind", doc.ErrorKind,
		"duration", duration)

	return doc
}

func (p *Parser) dispatch(ctx context.Context, mediaType string, data []byte) ParsedDocument {
	switch routeFor(mediaType) {
	case routePDF:
		return p.extractPDF(ctx, data)
	case routeDOCX:
		return p.extractDOCX(data)
	case routeImage:
		// Images have no text layer, so OCR runs unconditionally
		return p.extractOCR(ctx, data, mediaType)
	default:
		return failure(ErrorKindUnsupportedFormat,
			fmt.Sprintf("Unsupported file type: %s. Supported types: %s", mediaType, supportedTypesLabel))
	}
}
