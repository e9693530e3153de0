package document

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultOCRPrompt is the extraction instruction sent with every image
const DefaultOCRPrompt = "Extract all text content from this document or image. " +
	"Preserve the original formatting, structure, line breaks and reading order as much as possible. " +
	"Return only the extracted text without commentary, explanations or markdown fences."

// OCRClient is a vision-capable text generator. Implementations own their
// timeout and retry policy; the parser treats any error as a failed extraction.
type OCRClient interface {
	Generate(ctx context.Context, prompt, imageBase64, mediaType string) (string, error)
}

// UnavailableOCR is used when no vision model is configured
type UnavailableOCR struct {
	Reason string
}

func (u UnavailableOCR) Generate(context.Context, string, string, string) (string, error) {
	if u.Reason == "" {
		return "", fmt.Errorf("OCR is not configured")
	}
	return "", fmt.Errorf("OCR is not available: %s", u.Reason)
}

func (p *Parser) extractOCR(ctx context.Context, data []byte, mediaType string) ParsedDocument {
	encoded := base64.StdEncoding.EncodeToString(data)

	start := time.Now()
	text, err := p.ocr.Generate(ctx, p.prompt(), encoded, mediaType)
	p.observer.ObserveOCR(ctx, mediaType, time.Since(start), err)
	if err != nil {
		p.logger.LogError(err, "OCR extraction failed", "media_type", mediaType)
		return failure(ErrorKindExtractionFailure, fmt.Sprintf("OCR extraction failed: %v", err))
	}

	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < p.thresholds.OCRMinChars {
		return failure(ErrorKindEmptyExtraction, "OCR extraction failed or returned minimal content")
	}

	return success(text, MethodOCR, nil, true)
}
