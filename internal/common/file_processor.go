package common

import (
	"fmt"
	"io"
	"os"

	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/errors"
	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/utils"
)

// FileProcessor reads command inputs and writes command output
type FileProcessor struct {
	logger *errors.Logger
	stdin  io.Reader
	// maxSize caps every read; zero means unlimited
	maxSize int64
}

func NewFileProcessor(logger *errors.Logger) *FileProcessor {
	return &FileProcessor{logger: logger, stdin: os.Stdin}
}

// WithStdin replaces the reader used for the "-" argument
func (fp *FileProcessor) WithStdin(r io.Reader) *FileProcessor {
	fp.stdin = r
	return fp
}

// WithMaxSize rejects inputs larger than n bytes
func (fp *FileProcessor) WithMaxSize(n int64) *FileProcessor {
	fp.maxSize = n
	return fp
}

// ReadInput checks that path names a readable file (or "-") and reads it
func (fp *FileProcessor) ReadInput(path string) ([]byte, error) {
	if err := utils.ValidateInputFile(path); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidInput,
			fmt.Sprintf("Invalid file %s", path), err)
	}
	return fp.ReadBytes(path)
}

// ReadBytes reads a file, or standard input when filename is "-"
func (fp *FileProcessor) ReadBytes(filename string) ([]byte, error) {
	if filename == utils.StdinName {
		return fp.readLimited(fp.stdin, "stdin")
	}

	file, err := os.Open(filename)
	switch {
	case os.IsNotExist(err):
		return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
			fmt.Sprintf("File not found: %s", filename), err)
	case err != nil:
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	defer func() {
		if err := file.Close(); err != nil && fp.logger != nil {
			fp.logger.Warn("Failed to close file", "filename", filename, "error", err)
		}
	}()

	return fp.readLimited(file, filename)
}

func (fp *FileProcessor) readLimited(r io.Reader, name string) ([]byte, error) {
	if fp.maxSize > 0 {
		r = io.LimitReader(r, fp.maxSize+1)
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", name), err)
	}
	if fp.maxSize > 0 && int64(len(content)) > fp.maxSize {
		return nil, errors.NewValidationError(errors.ErrCodeFileTooLarge,
			fmt.Sprintf("%s exceeds the %s limit", name, utils.FormatFileSize(fp.maxSize)), nil)
	}
	return content, nil
}

// ValidateAndReadFiles reads text inputs for the scoring commands. Inputs
// without a text extension are read anyway, with a warning.
func (fp *FileProcessor) ValidateAndReadFiles(filenames ...string) ([]string, error) {
	contents := make([]string, 0, len(filenames))
	for _, filename := range filenames {
		if filename != utils.StdinName && !utils.IsTextFile(filename) && fp.logger != nil {
			fp.logger.Warn("File may not be a text file", "filename", filename)
		}
		content, err := fp.ReadInput(filename)
		if err != nil {
			return nil, err
		}
		contents = append(contents, string(content))
	}
	return contents, nil
}

// PrepareOutput creates the parent directory of filename. An empty filename
// means stdout and needs nothing.
func (fp *FileProcessor) PrepareOutput(filename string) error {
	if err := utils.ValidateOutputFile(filename); err != nil {
		return errors.NewIOError(errors.ErrCodeWriteFailed,
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}
	return nil
}

// WriteFile writes content to a prepared output path
func (fp *FileProcessor) WriteFile(filename, content string) error {
	if err := os.WriteFile(filename, []byte(content), 0600); err != nil {
		return errors.NewIOError(errors.ErrCodeWriteFailed,
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}
	return nil
}
