package ai

import "github.com/NoobSambit/AI-Career-Assistant-sub000/internal/document"

// SystemPrompts contains system-level instructions for vision calls
type SystemPrompts struct {
	OCRExtract string
}

// UserPrompts contains the instructions sent next to the image
type UserPrompts struct {
	OCRExtract string
}

// DefaultSystemPrompts provides the default system instructions
var DefaultSystemPrompts = SystemPrompts{
	OCRExtract: `You are a precise document transcription engine. You read resumes, cover letters and other career documents from images and scanned pages.

- Transcribe exactly what is written, never summarize or rewrite
- Never invent text that is not visible in the image
- Keep headings, bullet points and list order as they appear
- If a region is unreadable, skip it rather than guessing`,
}

// DefaultUserPrompts holds the default per-image instruction
var DefaultUserPrompts = UserPrompts{
	OCRExtract: document.DefaultOCRPrompt,
}

// resolvePrompt picks the first non-empty prompt in priority order:
// loaded from file, then configured inline, then the built-in default.
func resolvePrompt(loadedFromFile, fromConfig, fromDefault string) string {
	if loadedFromFile != "" {
		return loadedFromFile
	}
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}
