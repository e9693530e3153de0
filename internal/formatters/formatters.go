package formatters

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/document"
	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/scoring"

	"gopkg.in/yaml.v3"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// Data type keys used by the registry
const (
	TypeAny             = "any"
	TypeParsedDocument  = "ParsedDocument"
	TypeParsedDocuments = "ParsedDocuments"
	TypeATSScore        = "ATSScoreResult"
	TypeStarEvaluation  = "StarEvaluation"
	TypeEmailTone       = "EmailToneResult"
)

// FormatterRegistry maps an output format and a data type to a formatter
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry registers json and yaml for every type, plus text and
// markdown renderings of parse results and scorer reports
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{formatters: make(map[string]map[string]Formatter)}
	registry.RegisterFormatter("json", TypeAny, &JSONFormatter{})
	registry.RegisterFormatter("yaml", TypeAny, &YAMLFormatter{})

	for _, r := range []struct {
		types          []string
		text, markdown Formatter
	}{
		{[]string{TypeParsedDocument, TypeParsedDocuments}, &DocumentTextFormatter{}, &DocumentMarkdownFormatter{}},
		{[]string{TypeATSScore}, &ATSTextFormatter{}, &ATSMarkdownFormatter{}},
		{[]string{TypeStarEvaluation}, &StarTextFormatter{}, &StarMarkdownFormatter{}},
		{[]string{TypeEmailTone}, &ToneTextFormatter{}, &ToneMarkdownFormatter{}},
	} {
		for _, dataType := range r.types {
			registry.RegisterFormatter("text", dataType, r.text)
			registry.RegisterFormatter("markdown", dataType, r.markdown)
		}
	}
	return registry
}

func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format prefers a formatter registered for the concrete data type and
// falls back to the TypeAny one
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)
	byType := fr.formatters[format]
	for _, key := range []string{dataType, TypeAny} {
		if formatter, ok := byType[key]; ok {
			return formatter.Format(data)
		}
	}
	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats, sorted
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	return slices.Sorted(maps.Keys(fr.formatters))
}

func getDataType(data any) string {
	switch data.(type) {
	case document.ParsedDocument, *document.ParsedDocument:
		return TypeParsedDocument
	case []document.ParsedDocument, []NamedDocument:
		return TypeParsedDocuments
	case scoring.ATSScoreResult, *scoring.ATSScoreResult:
		return TypeATSScore
	case scoring.StarEvaluation, *scoring.StarEvaluation:
		return TypeStarEvaluation
	case scoring.EmailToneResult, *scoring.EmailToneResult:
		return TypeEmailTone
	default:
		return TypeAny
	}
}

// NamedDocument pairs a parse result with the file it came from
type NamedDocument struct {
	document.ParsedDocument `yaml:",inline"`

	Source string `json:"source" yaml:"source"`
}

// JSONFormatter writes indented JSON with a trailing newline
type JSONFormatter struct{}

func (*JSONFormatter) Format(data any) (string, error) {
	out, err := json.MarshalIndent(data, "", "  ")
	return string(out) + "\n", err
}

func (*JSONFormatter) SupportedType() string { return TypeAny }

type YAMLFormatter struct{}

func (*YAMLFormatter) Format(data any) (string, error) {
	out, err := yaml.Marshal(data)
	return string(out), err
}

func (*YAMLFormatter) SupportedType() string { return TypeAny }

// GlobalRegistry is the registry used by the CLI output handler
var GlobalRegistry = NewFormatterRegistry()
