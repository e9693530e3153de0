package formatters

import (
	"fmt"
	"strings"

	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/document"
	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/scoring"

	"github.com/charmbracelet/lipgloss"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")) // blue
	labelStyle   = lipgloss.NewStyle().Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")) // red
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func gradeStyle(grade scoring.Grade) lipgloss.Style {
	switch grade {
	case scoring.GradeExcellent:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")) // green
	case scoring.GradeGood:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")) // cyan
	case scoring.GradeFair:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")) // yellow
	default:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	}
}

func heading(b *strings.Builder, title string) {
	b.WriteString(headingStyle.Render("=== " + title + " ==="))
	b.WriteString("\n")
}

func writeList(b *strings.Builder, items []string, empty string) {
	if len(items) == 0 {
		b.WriteString(mutedStyle.Render(empty))
		b.WriteString("\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "  • %s\n", item)
	}
}

// documentsOf normalizes every document shape the registry routes here
func documentsOf(data any) ([]NamedDocument, error) {
	switch v := data.(type) {
	case document.ParsedDocument:
		return []NamedDocument{{ParsedDocument: v}}, nil
	case *document.ParsedDocument:
		if v == nil {
			return nil, fmt.Errorf("nil ParsedDocument")
		}
		return []NamedDocument{{ParsedDocument: *v}}, nil
	case []document.ParsedDocument:
		docs := make([]NamedDocument, len(v))
		for i, d := range v {
			docs[i] = NamedDocument{ParsedDocument: d}
		}
		return docs, nil
	case []NamedDocument:
		return v, nil
	default:
		return nil, fmt.Errorf("expected ParsedDocument, got %T", data)
	}
}

func metadataLine(m document.Metadata) string {
	var parts []string
	if m.Pages != nil {
		parts = append(parts, fmt.Sprintf("pages: %d", *m.Pages))
	}
	if m.WordCount != nil {
		parts = append(parts, fmt.Sprintf("words: %d", *m.WordCount))
	}
	if m.HasImages != nil {
		parts = append(parts, fmt.Sprintf("images: %t", *m.HasImages))
	}
	return strings.Join(parts, ", ")
}

// DocumentTextFormatter renders parse results for a terminal
type DocumentTextFormatter struct{}

func (f *DocumentTextFormatter) Format(data any) (string, error) {
	docs, err := documentsOf(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder
	for i, doc := range docs {
		if i > 0 {
			output.WriteString("\n")
		}
		title := "PARSED DOCUMENT"
		if doc.Source != "" {
			title += ": " + doc.Source
		}
		heading(&output, title)
		fmt.Fprintf(&output, "%s %s\n", labelStyle.Render("Method:"), doc.Method)

		if doc.Failed() {
			fmt.Fprintf(&output, "%s %s\n", labelStyle.Render("Error:"), errorStyle.Render(fmt.Sprintf("[%s] %s", doc.ErrorKind, doc.Error)))
			continue
		}
		if meta := metadataLine(doc.Metadata); meta != "" {
			fmt.Fprintf(&output, "%s %s\n", labelStyle.Render("Metadata:"), meta)
		}
		output.WriteString("\n")
		output.WriteString(doc.Text)
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (f *DocumentTextFormatter) SupportedType() string {
	return TypeParsedDocument
}

// ATSTextFormatter handles text formatting for ATS results
type ATSTextFormatter struct{}

func (f *ATSTextFormatter) Format(data any) (string, error) {
	result, ok := derefATS(data)
	if !ok {
		return "", fmt.Errorf("expected ATSScoreResult, got %T", data)
	}

	var output strings.Builder
	heading(&output, "ATS SCORE")
	fmt.Fprintf(&output, "Score: %d/100  %s\n\n", result.Score, gradeStyle(result.Grade).Render(string(result.Grade)))

	a := result.Analysis
	fmt.Fprintf(&output, "  Keywords        %2d/25\n", a.Keywords)
	fmt.Fprintf(&output, "  Quantification  %2d/30\n", a.Quantification)
	fmt.Fprintf(&output, "  Structure       %2d/20\n", a.Structure)
	fmt.Fprintf(&output, "  Formatting      %2d/25\n\n", a.Formatting)

	heading(&output, "RECOMMENDATIONS")
	writeList(&output, result.Recommendations, "No recommendations")

	return output.String(), nil
}

func (f *ATSTextFormatter) SupportedType() string {
	return TypeATSScore
}

// StarTextFormatter handles text formatting for STAR evaluations
type StarTextFormatter struct{}

func (f *StarTextFormatter) Format(data any) (string, error) {
	result, ok := derefStar(data)
	if !ok {
		return "", fmt.Errorf("expected StarEvaluation, got %T", data)
	}

	var output strings.Builder
	heading(&output, "STAR EVALUATION")
	fmt.Fprintf(&output, "Overall: %d/10  Completeness: %d/4\n\n", result.OverallScore, result.Completeness)

	for _, c := range starComponents(result.Analysis) {
		mark := errorStyle.Render("✗")
		if c.component.Present {
			mark = gradeStyle(scoring.GradeExcellent).Render("✓")
		}
		fmt.Fprintf(&output, "%s %-10s %2d/10  %s\n", mark, c.name, c.component.Strength, c.component.Feedback)
	}
	output.WriteString("\n")

	heading(&output, "RECOMMENDATIONS")
	writeList(&output, result.Recommendations, "No recommendations")

	return output.String(), nil
}

func (f *StarTextFormatter) SupportedType() string {
	return TypeStarEvaluation
}

// ToneTextFormatter handles text formatting for email tone results
type ToneTextFormatter struct{}

func (f *ToneTextFormatter) Format(data any) (string, error) {
	result, ok := derefTone(data)
	if !ok {
		return "", fmt.Errorf("expected EmailToneResult, got %T", data)
	}

	var output strings.Builder
	heading(&output, "EMAIL TONE")
	fmt.Fprintf(&output, "Score: %d/100  %s\n\n", result.Score, gradeStyle(result.Grade).Render(string(result.Grade)))

	a := result.Analysis
	fmt.Fprintf(&output, "  Clarity           %2d/25\n", a.Clarity)
	fmt.Fprintf(&output, "  Professionalism   %2d/25\n", a.Professionalism)
	fmt.Fprintf(&output, "  Tone consistency  %2d/25\n", a.ToneConsistency)
	fmt.Fprintf(&output, "  Call to action    %2d/25\n\n", a.CallToAction)

	heading(&output, "IMPROVEMENTS")
	writeList(&output, result.Improvements, "No improvements needed")

	return output.String(), nil
}

func (f *ToneTextFormatter) SupportedType() string {
	return TypeEmailTone
}

type namedComponent struct {
	name      string
	component scoring.StarComponent
}

func starComponents(a scoring.StarAnalysis) []namedComponent {
	return []namedComponent{
		{"Situation", a.Situation},
		{"Task", a.Task},
		{"Action", a.Action},
		{"Result", a.Result},
	}
}

func derefATS(data any) (scoring.ATSScoreResult, bool) {
	switch v := data.(type) {
	case scoring.ATSScoreResult:
		return v, true
	case *scoring.ATSScoreResult:
		if v != nil {
			return *v, true
		}
	}
	return scoring.ATSScoreResult{}, false
}

func derefStar(data any) (scoring.StarEvaluation, bool) {
	switch v := data.(type) {
	case scoring.StarEvaluation:
		return v, true
	case *scoring.StarEvaluation:
		if v != nil {
			return *v, true
		}
	}
	return scoring.StarEvaluation{}, false
}

func derefTone(data any) (scoring.EmailToneResult, bool) {
	switch v := data.(type) {
	case scoring.EmailToneResult:
		return v, true
	case *scoring.EmailToneResult:
		if v != nil {
			return *v, true
		}
	}
	return scoring.EmailToneResult{}, false
}
