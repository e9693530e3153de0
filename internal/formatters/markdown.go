package formatters

import (
	"fmt"
	"strings"
)

func mdList(b *strings.Builder, items []string, empty string) {
	if len(items) == 0 {
		fmt.Fprintf(b, "_%s_\n", empty)
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}

// DocumentMarkdownFormatter renders parse results as markdown
type DocumentMarkdownFormatter struct{}

func (f *DocumentMarkdownFormatter) Format(data any) (string, error) {
	docs, err := documentsOf(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder
	for i, doc := range docs {
		if i > 0 {
			output.WriteString("\n---\n\n")
		}
		title := "Parsed Document"
		if doc.Source != "" {
			title += ": `" + doc.Source + "`"
		}
		fmt.Fprintf(&output, "# %s\n\n", title)
		fmt.Fprintf(&output, "**Method:** %s\n\n", doc.Method)

		if doc.Failed() {
			fmt.Fprintf(&output, "**Error (%s):** %s\n", doc.ErrorKind, doc.Error)
			continue
		}
		if meta := metadataLine(doc.Metadata); meta != "" {
			fmt.Fprintf(&output, "**Metadata:** %s\n\n", meta)
		}
		output.WriteString("```text\n")
		output.WriteString(doc.Text)
		output.WriteString("\n```\n")
	}

	return output.String(), nil
}

func (f *DocumentMarkdownFormatter) SupportedType() string {
	return TypeParsedDocument
}

// ATSMarkdownFormatter handles markdown formatting for ATS results
type ATSMarkdownFormatter struct{}

func (f *ATSMarkdownFormatter) Format(data any) (string, error) {
	result, ok := derefATS(data)
	if !ok {
		return "", fmt.Errorf("expected ATSScoreResult, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# ATS Score\n\n")
	fmt.Fprintf(&output, "**Score:** %d/100 (%s)\n\n", result.Score, result.Grade)

	a := result.Analysis
	output.WriteString("| Category | Score |\n|---|---|\n")
	fmt.Fprintf(&output, "| Keywords | %d/25 |\n", a.Keywords)
	fmt.Fprintf(&output, "| Quantification | %d/30 |\n", a.Quantification)
	fmt.Fprintf(&output, "| Structure | %d/20 |\n", a.Structure)
	fmt.Fprintf(&output, "| Formatting | %d/25 |\n\n", a.Formatting)

	output.WriteString("## Recommendations\n\n")
	mdList(&output, result.Recommendations, "No recommendations")

	return output.String(), nil
}

func (f *ATSMarkdownFormatter) SupportedType() string {
	return TypeATSScore
}

// StarMarkdownFormatter handles markdown formatting for STAR evaluations
type StarMarkdownFormatter struct{}

func (f *StarMarkdownFormatter) Format(data any) (string, error) {
	result, ok := derefStar(data)
	if !ok {
		return "", fmt.Errorf("expected StarEvaluation, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# STAR Evaluation\n\n")
	fmt.Fprintf(&output, "**Overall:** %d/10 | **Completeness:** %d/4\n\n", result.OverallScore, result.Completeness)

	output.WriteString("| Component | Present | Strength | Feedback |\n|---|---|---|---|\n")
	for _, c := range starComponents(result.Analysis) {
		present := "no"
		if c.component.Present {
			present = "yes"
		}
		fmt.Fprintf(&output, "| %s | %s | %d/10 | %s |\n", c.name, present, c.component.Strength, c.component.Feedback)
	}
	output.WriteString("\n## Recommendations\n\n")
	mdList(&output, result.Recommendations, "No recommendations")

	return output.String(), nil
}

func (f *StarMarkdownFormatter) SupportedType() string {
	return TypeStarEvaluation
}

// ToneMarkdownFormatter handles markdown formatting for email tone results
type ToneMarkdownFormatter struct{}

func (f *ToneMarkdownFormatter) Format(data any) (string, error) {
	result, ok := derefTone(data)
	if !ok {
		return "", fmt.Errorf("expected EmailToneResult, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Email Tone\n\n")
	fmt.Fprintf(&output, "**Score:** %d/100 (%s)\n\n", result.Score, result.Grade)

	a := result.Analysis
	output.WriteString("| Category | Score |\n|---|---|\n")
	fmt.Fprintf(&output, "| Clarity | %d/25 |\n", a.Clarity)
	fmt.Fprintf(&output, "| Professionalism | %d/25 |\n", a.Professionalism)
	fmt.Fprintf(&output, "| Tone consistency | %d/25 |\n", a.ToneConsistency)
	fmt.Fprintf(&output, "| Call to action | %d/25 |\n\n", a.CallToAction)

	output.WriteString("## Improvements\n\n")
	mdList(&output, result.Improvements, "No improvements needed")

	return output.String(), nil
}

func (f *ToneMarkdownFormatter) SupportedType() string {
	return TypeEmailTone
}
