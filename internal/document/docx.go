package document

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"code.sajari.com/docconv"
)

// DOCXTextReader extracts raw text from a DOCX file
type DOCXTextReader interface {
	ReadText(data []byte) (string, error)
}

// DocconvDOCXReader extracts DOCX text with code.sajari.com/docconv
type DocconvDOCXReader struct{}

func (DocconvDOCXReader) ReadText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("docx reader panic: %v", r)
		}
	}()

	text, _, err = docconv.ConvertDocx(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	return text, nil
}

// extractDOCX never falls back to OCR: a DOCX has no image form to recognize.
func (p *Parser) extractDOCX(data []byte) ParsedDocument {
	text, err := p.docx.ReadText(data)
	if err != nil {
		p.logger.Warn("DOCX extraction failed", "error", err)
		return failure(ErrorKindExtractionFailure, fmt.Sprintf("Failed to extract text from DOCX: %v", err))
	}

	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < p.thresholds.DOCXMinChars {
		return failure(ErrorKindEmptyExtraction, "DOCX file appears empty or contains no extractable text")
	}

	return success(text, MethodDOCXRawText, nil, false)
}
