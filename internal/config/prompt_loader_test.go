package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePrompt(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadPromptsFromFiles(t *testing.T) {
	t.Cleanup(ResetLoadedPrompts)
	dir := t.TempDir()

	globalSystem := writePrompt(t, dir, "system.md", "  Global OCR system prompt  \n")
	ocrUser := writePrompt(t, dir, "user.md", "OCR user prompt")

	cfg := &Config{AI: AIConfig{
		CustomPrompts: PromptConfig{SystemPrompts: SystemPrompts{OCRExtractFile: globalSystem}},
		OCR: OperationAIConfig{
			CustomPrompts: PromptConfig{UserPrompts: UserPrompts{OCRExtractFile: ocrUser}},
		},
	}}

	require.NoError(t, cfg.validatePromptFiles())
	require.NoError(t, cfg.loadPromptsFromFiles())

	prompts := GetPromptsForOperation("ocr")
	assert.Equal(t, "Global OCR system prompt", prompts.SystemPrompts.OCRExtract)
	assert.Equal(t, "OCR user prompt", prompts.UserPrompts.OCRExtract)

	global := GetPromptsForOperation("global")
	assert.Equal(t, "Global OCR system prompt", global.SystemPrompts.OCRExtract)
	assert.Empty(t, global.UserPrompts.OCRExtract)
}

func TestValidatePromptFiles(t *testing.T) {
	cfg := &Config{AI: AIConfig{
		OCR: OperationAIConfig{CustomPrompts: PromptConfig{
			SystemPrompts: SystemPrompts{OCRExtractFile: "/does/not/exist.md"},
		}},
	}}

	err := cfg.validatePromptFiles()
	assert.ErrorContains(t, err, "ocr system prompt file not found")
}

func TestLoadPromptFromFileRejectsBlank(t *testing.T) {
	path := writePrompt(t, t.TempDir(), "blank.md", "   \n\t")

	_, err := loadPromptFromFile(path, "user", "global")
	assert.ErrorContains(t, err, "is empty")
}

func TestReloadPromptsKeepsPreviousOnError(t *testing.T) {
	t.Cleanup(ResetLoadedPrompts)
	dir := t.TempDir()
	path := writePrompt(t, dir, "ocr.md", "first version")

	cfg := &Config{AI: AIConfig{
		CustomPrompts: PromptConfig{UserPrompts: UserPrompts{OCRExtractFile: path}},
	}}
	require.NoError(t, cfg.loadPromptsFromFiles())

	require.NoError(t, os.WriteFile(path, []byte(""), 0600))
	assert.Error(t, cfg.ReloadPrompts())
	assert.Equal(t, "first version", GetPromptsForOperation("ocr").UserPrompts.OCRExtract)

	require.NoError(t, os.WriteFile(path, []byte("second version"), 0600))
	require.NoError(t, cfg.ReloadPrompts())
	assert.Equal(t, "second version", GetPromptsForOperation("ocr").UserPrompts.OCRExtract)
}

func TestPromptWatcherReloadsOnWrite(t *testing.T) {
	t.Cleanup(ResetLoadedPrompts)
	dir := t.TempDir()
	path := writePrompt(t, dir, "ocr.md", "before")

	cfg := &Config{AI: AIConfig{
		CustomPrompts: PromptConfig{UserPrompts: UserPrompts{OCRExtractFile: path}},
	}}
	require.NoError(t, cfg.loadPromptsFromFiles())

	watcher := NewPromptWatcher(cfg, 20*time.Millisecond, newTestLogger())
	require.NoError(t, watcher.Start())
	t.Cleanup(func() { _ = watcher.Stop() })

	assert.True(t, watcher.IsRunning())
	assert.Len(t, watcher.GetWatchedFiles(), 1)

	// Replace atomically with a future mtime so coarse filesystem clocks still register a change
	staged := writePrompt(t, dir, "ocr.md.tmp", "after")
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(staged, future, future))
	require.NoError(t, os.Rename(staged, path))

	assert.Eventually(t, func() bool {
		return GetPromptsForOperation("ocr").UserPrompts.OCRExtract == "after"
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, watcher.Stop())
	assert.False(t, watcher.IsRunning())
}

func TestPromptWatcherNoFiles(t *testing.T) {
	watcher := NewPromptWatcher(&Config{}, 0, newTestLogger())
	require.NoError(t, watcher.Start())
	assert.False(t, watcher.IsRunning())
	assert.NoError(t, watcher.Stop())
}
