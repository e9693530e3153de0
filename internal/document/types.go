package document

// Method identifies the strategy that produced a document's text
type Method string

const (
	MethodPDFTextLayer Method = "PdfTextLayer"
	MethodDOCXRawText  Method = "DocxRawText"
	MethodOCR          Method = "Ocr"
	MethodError        Method = "Error"
)

// ErrorKind classifies why a parse produced no text
type ErrorKind string

const (
	ErrorKindUnsupportedFormat ErrorKind = "UnsupportedFormat"
	ErrorKindEmptyExtraction   ErrorKind = "EmptyExtraction"
	ErrorKindExtractionFailure ErrorKind = "ExtractionFailure"
)

// Metadata describes the extracted text. Absent values are nil.
type Metadata struct {
	Pages     *int  `json:"pages,omitempty" yaml:"pages,omitempty"`
	WordCount *int  `json:"wordCount,omitempty" yaml:"wordCount,omitempty"`
	HasImages *bool `json:"hasImages,omitempty" yaml:"hasImages,omitempty"`
}

// ParsedDocument is the result of parsing one file.
// Method is MethodError exactly when Text is empty; Error and ErrorKind are set only then.
type ParsedDocument struct {
	Text      string    `json:"text" yaml:"text"`
	Method    Method    `json:"method" yaml:"method"`
	Error     string    `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorKind ErrorKind `json:"errorKind,omitempty" yaml:"errorKind,omitempty"`
	Metadata  Metadata  `json:"metadata" yaml:"metadata"`
}

// Failed reports whether every extraction strategy failed
func (d ParsedDocument) Failed() bool {
	return d.Method == MethodError
}

// File is an uploaded document and the media type its sender declared
type File struct {
	Bytes     []byte
	MediaType string
	// Name is informational only and never used for routing
	Name string
}

func failure(kind ErrorKind, message string) ParsedDocument {
	return ParsedDocument{
		Method:    MethodError,
		Error:     message,
		ErrorKind: kind,
	}
}

func success(text string, method Method, pages *int, hasImages bool) ParsedDocument {
	words := CountWords(text)
	return ParsedDocument{
		Text:   text,
		Method: method,
		Metadata: Metadata{
			Pages:     pages,
			WordCount: &words,
			HasImages: &hasImages,
		},
	}
}
