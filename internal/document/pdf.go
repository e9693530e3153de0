package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFTextReader reads the embedded text layer of a PDF
type PDFTextReader interface {
	ReadText(data []byte) (text string, pages int, err error)
}

// LedongthucPDFReader reads PDF text layers with github.com/ledongthuc/pdf
type LedongthucPDFReader struct{}

// ReadText returns the plain text and page count of a PDF. Malformed input
// can panic inside the library; the panic is returned as an error.
func (LedongthucPDFReader) ReadText(data []byte) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("open pdf: %w", err)
	}
	pages = reader.NumPage()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", pages, fmt.Errorf("extract plain text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", pages, fmt.Errorf("read text buffer: %w", err)
	}
	return buf.String(), pages, nil
}

func (p *Parser) extractPDF(ctx context.Context, data []byte) ParsedDocument {
	text, pages, err := p.pdf.ReadText(data)
	if err != nil {
		p.logger.Warn("PDF text layer extraction failed, falling back to OCR", "error", err)
		return p.extractOCR(ctx, data, MediaTypePDF)
	}

	text = strings.TrimSpace(text)
	words := CountWords(text)
	if words < p.thresholds.PDFMinWords {
		p.logger.Info("PDF text layer below word threshold, falling back to OCR",
			"word_count", words,
			"min_words", p.thresholds.PDFMinWords,
			"pages", pages)
		return p.extractOCR(ctx, data, MediaTypePDF)
	}

	return success(text, MethodPDFTextLayer, &pages, false)
}
