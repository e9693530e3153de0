package config

import (
	"sync"
)

var (
	loadedPrompts   AllLoadedPrompts
	loadedPromptsMu sync.RWMutex
)

// LoadedPrompts holds the content of prompts loaded from files
type LoadedPrompts struct {
	SystemPrompts LoadedSystemPrompts
	UserPrompts   LoadedUserPrompts
}

// LoadedSystemPrompts contains loaded system-level instructions
type LoadedSystemPrompts struct {
	OCRExtract string
}

// LoadedUserPrompts contains loaded user-level instructions
type LoadedUserPrompts struct {
	OCRExtract string
}

// AllLoadedPrompts holds the global and OCR-specific prompt files
type AllLoadedPrompts struct {
	Global LoadedPrompts
	OCR    LoadedPrompts
}

// GetPromptsForOperation returns a copy of the loaded prompts for an operation type.
// OCR-specific files win over global files field by field.
func GetPromptsForOperation(operationType string) LoadedPrompts {
	loadedPromptsMu.RLock()
	defer loadedPromptsMu.RUnlock()

	switch operationType {
	case "ocr":
		result := loadedPrompts.OCR
		if result.SystemPrompts.OCRExtract == "" {
			result.SystemPrompts.OCRExtract = loadedPrompts.Global.SystemPrompts.OCRExtract
		}
		if result.UserPrompts.OCRExtract == "" {
			result.UserPrompts.OCRExtract = loadedPrompts.Global.UserPrompts.OCRExtract
		}
		return result
	default:
		return loadedPrompts.Global
	}
}

func setLoadedPrompts(prompts AllLoadedPrompts) {
	loadedPromptsMu.Lock()
	loadedPrompts = prompts
	loadedPromptsMu.Unlock()
}

// ResetLoadedPrompts clears every prompt loaded from files
func ResetLoadedPrompts() {
	setLoadedPrompts(AllLoadedPrompts{})
}
