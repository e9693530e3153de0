package schemas

import (
	"testing"

	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/document"
	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequests(t *testing.T) {
	tests := []struct {
		name    string
		schema  Name
		body    string
		wantErr bool
	}{
		{"ats valid", ATSRequest, `{"resumeText":"Experience\n- Led team"}`, false},
		{"ats empty text allowed", ATSRequest, `{"resumeText":""}`, false},
		{"ats missing field", ATSRequest, `{}`, true},
		{"ats wrong type", ATSRequest, `{"resumeText":42}`, true},
		{"ats unknown field", ATSRequest, `{"resumeText":"x","extra":true}`, true},
		{"star valid", STARRequest, `{"answer":"I led the team"}`, false},
		{"star null answer", STARRequest, `{"answer":null}`, true},
		{"tone valid", ToneRequest, `{"original":"hi","rewritten":"Hello","targetTone":"formal"}`, false},
		{"tone original optional", ToneRequest, `{"rewritten":"Hello","targetTone":"formal"}`, false},
		{"tone missing rewritten", ToneRequest, `{"targetTone":"formal"}`, true},
		{"malformed json", ToneRequest, `{"rewritten":`, true},
		{"array root", ATSRequest, `[]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.schema, []byte(tt.body))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.schema, validationErr.Schema)
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := Validate(ATSRequest, []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ats_request validation failed")
	assert.Contains(t, err.Error(), "resumeText")
}

func TestScorerResultsMatchSchemas(t *testing.T) {
	resume := "Experience\n- Led a team of 5 engineers\n- Increased revenue by 25%\nSkills\nGo"

	assert.NoError(t, ValidateValue(ATSResult, scoring.CalculateATSScore(resume)))
	assert.NoError(t, ValidateValue(ATSResult, scoring.CalculateATSScore("")))
	assert.NoError(t, ValidateValue(STARResult, scoring.EvaluateSTARStructure("When the build broke I fixed it and the result was great")))
	assert.NoError(t, ValidateValue(STARResult, scoring.EvaluateSTARStructure("")))
	assert.NoError(t, ValidateValue(ToneResult, scoring.AssessEmailTone("", "Please confirm. Thank you!", "friendly")))
	assert.NoError(t, ValidateValue(ToneResult, scoring.AssessEmailTone("", "", "")))
}

func TestParsedDocumentSchema(t *testing.T) {
	pages, words, images := 2, 120, false

	ok := document.ParsedDocument{
		Text:     "Jane Doe",
		Method:   document.MethodPDFTextLayer,
		Metadata: document.Metadata{Pages: &pages, WordCount: &words, HasImages: &images},
	}
	assert.NoError(t, ValidateValue(ParsedDocument, ok))

	failed := document.ParsedDocument{
		Method:    document.MethodError,
		Error:     "Unsupported file type: application/zip",
		ErrorKind: document.ErrorKindUnsupportedFormat,
	}
	assert.NoError(t, ValidateValue(ParsedDocument, failed))

	inconsistent := failed
	inconsistent.Text = "leftover"
	assert.Error(t, ValidateValue(ParsedDocument, inconsistent))

	emptySuccess := ok
	emptySuccess.Text = ""
	assert.Error(t, ValidateValue(ParsedDocument, emptySuccess))

	successWithError := ok
	successWithError.Error = "stale"
	assert.Error(t, ValidateValue(ParsedDocument, successWithError))
}

func TestUnknownSchema(t *testing.T) {
	err := Validate(Name("missing"), []byte(`{}`))
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, Name("missing"), loadErr.Schema)
}
