package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// promptFileRef names one configurable prompt file and where its content lands
type promptFileRef struct {
	path   string
	kind   string // "system" or "user"
	scope  string // "global" or "ocr"
	target func(*AllLoadedPrompts, string)
}

// promptFileRefs lists every prompt file path present in the configuration
func (c *Config) promptFileRefs() []promptFileRef {
	refs := []promptFileRef{
		{c.AI.CustomPrompts.SystemPrompts.OCRExtractFile, "system", "global",
			func(p *AllLoadedPrompts, s string) { p.Global.SystemPrompts.OCRExtract = s }},
		{c.AI.CustomPrompts.UserPrompts.OCRExtractFile, "user", "global",
			func(p *AllLoadedPrompts, s string) { p.Global.UserPrompts.OCRExtract = s }},
		{c.AI.OCR.CustomPrompts.SystemPrompts.OCRExtractFile, "system", "ocr",
			func(p *AllLoadedPrompts, s string) { p.OCR.SystemPrompts.OCRExtract = s }},
		{c.AI.OCR.CustomPrompts.UserPrompts.OCRExtractFile, "user", "ocr",
			func(p *AllLoadedPrompts, s string) { p.OCR.UserPrompts.OCRExtract = s }},
	}

	configured := refs[:0]
	for _, ref := range refs {
		if ref.path != "" {
			configured = append(configured, ref)
		}
	}
	return configured
}

// PromptFiles returns the absolute paths of all configured prompt files
func (c *Config) PromptFiles() []string {
	var files []string
	for _, ref := range c.promptFileRefs() {
		if abs, err := filepath.Abs(ref.path); err == nil {
			files = append(files, abs)
		}
	}
	return files
}

// loadPromptsFromFiles loads custom prompts from external files if file paths are specified
func (c *Config) loadPromptsFromFiles() error {
	log.Println("[CONFIG] Starting custom prompt loading from files")

	prompts, err := c.readPromptFiles()
	if err != nil {
		return err
	}
	setLoadedPrompts(prompts)

	c.logPromptLoadingSummary(prompts)
	return nil
}

// ReloadPrompts re-reads every configured prompt file. The previous prompts stay
// in effect when any file fails to load.
func (c *Config) ReloadPrompts() error {
	prompts, err := c.readPromptFiles()
	if err != nil {
		return err
	}
	setLoadedPrompts(prompts)
	return nil
}

func (c *Config) readPromptFiles() (AllLoadedPrompts, error) {
	var prompts AllLoadedPrompts
	for _, ref := range c.promptFileRefs() {
		content, err := loadPromptFromFile(ref.path, ref.kind, ref.scope)
		if err != nil {
			return AllLoadedPrompts{}, fmt.Errorf("failed to load %s %s prompt: %w", ref.scope, ref.kind, err)
		}
		ref.target(&prompts, content)
	}
	return prompts, nil
}

// loadPromptFromFile reads a prompt file, rejecting missing or blank files
func loadPromptFromFile(filePath, promptType, scope string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s %s prompt file '%s': %w", scope, promptType, filePath, err)
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%s %s prompt file not found: %s", scope, promptType, absPath)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s %s prompt file '%s': %w", scope, promptType, absPath, err)
	}

	trimmedContent := strings.TrimSpace(string(content))
	if trimmedContent == "" {
		return "", fmt.Errorf("%s %s prompt file '%s' is empty", scope, promptType, absPath)
	}

	log.Printf("[CONFIG] Successfully loaded %s %s prompt from file: %s (%d characters)",
		scope, promptType, absPath, len(trimmedContent))

	return trimmedContent, nil
}

// validatePromptFiles validates that prompt files exist before loading
func (c *Config) validatePromptFiles() error {
	var validationErrors []string

	for _, ref := range c.promptFileRefs() {
		absPath, err := filepath.Abs(ref.path)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("invalid path for %s %s prompt: %s", ref.scope, ref.kind, ref.path))
			continue
		}
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			validationErrors = append(validationErrors, fmt.Sprintf("%s %s prompt file not found: %s", ref.scope, ref.kind, absPath))
		}
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}

	return nil
}

// logPromptLoadingSummary logs a summary of loaded prompts
func (c *Config) logPromptLoadingSummary(prompts AllLoadedPrompts) {
	log.Println("[CONFIG] === Custom Prompt Loading Summary ===")

	checks := []struct {
		content string
		message string
	}{
		{prompts.Global.SystemPrompts.OCRExtract, "[CONFIG] Global system OCR prompt: loaded from file"},
		{prompts.Global.UserPrompts.OCRExtract, "[CONFIG] Global user OCR prompt: loaded from file"},
		{prompts.OCR.SystemPrompts.OCRExtract, "[CONFIG] OCR-specific system prompt: loaded from file"},
		{prompts.OCR.UserPrompts.OCRExtract, "[CONFIG] OCR-specific user prompt: loaded from file"},
	}

	count := 0
	for _, check := range checks {
		if check.content != "" {
			log.Println(check.message)
			count++
		}
	}

	if count == 0 {
		log.Println("[CONFIG] No custom prompts loaded - using built-in defaults")
	} else {
		log.Printf("[CONFIG] Total custom prompts loaded: %d", count)
	}
	log.Println("[CONFIG] ==========================================")
}
