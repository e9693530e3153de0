package common

import (
	"context"
	"path/filepath"

	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/document"
	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/errors"
	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/formatters"
	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/utils"

	"golang.org/x/sync/errgroup"
)

// ComputeFunc turns the text content of the input files into a result
type ComputeFunc[Output any] func(ctx context.Context, contents []string) (Output, error)

// LogDetailsFunc defines how to log the outcome of an operation
type LogDetailsFunc[Output any] func(result Output, cfg CommandConfig)

// RunTextCommand encapsulates the common logic for text-in, result-out CLI commands
func RunTextCommand[Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	args []string,
	compute ComputeFunc[Output],
	logDetails LogDetailsFunc[Output],
) error {
	fileProcessor := NewFileProcessor(logger).WithMaxSize(cmdConfig.MaxFileSize)
	outputHandler := NewOutputHandler(logger)

	contents, err := fileProcessor.ValidateAndReadFiles(args...)
	if err != nil {
		return err
	}

	result, err := compute(ctx, contents)
	if err != nil {
		return err
	}

	if logDetails != nil {
		logDetails(result, cmdConfig)
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}

// DocumentParser is the subset of document.Parser used by batch parsing
type DocumentParser interface {
	Parse(ctx context.Context, f document.File) document.ParsedDocument
}

// ParseOptions controls ParseFiles
type ParseOptions struct {
	// MediaType overrides content sniffing for every file
	MediaType   string
	Concurrency int
	MaxFileSize int64
}

// ParseFiles reads and parses every path concurrently. Results keep the order
// of paths. Read errors abort the batch; extraction failures do not, they are
// reported in the returned documents.
func ParseFiles(ctx context.Context, logger *errors.Logger, parser DocumentParser, paths []string, opts ParseOptions) ([]formatters.NamedDocument, error) {
	fileProcessor := NewFileProcessor(logger).WithMaxSize(opts.MaxFileSize)
	results := make([]formatters.NamedDocument, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Concurrency, 1))

	for i, path := range paths {
		g.Go(func() error {
			data, err := fileProcessor.ReadInput(path)
			if err != nil {
				return err
			}

			mediaType := opts.MediaType
			if mediaType == "" {
				mediaType = document.SniffMediaType(data)
			}

			doc := parser.Parse(ctx, document.File{
				Bytes:     data,
				MediaType: mediaType,
				Name:      filepath.Base(path),
			})
			if doc.Failed() && logger != nil {
				logger.Warn("Document extraction failed",
					"file", path,
					"media_type", mediaType,
					"error_kind", doc.ErrorKind,
					"error", doc.Error)
			}
			results[i] = formatters.NamedDocument{ParsedDocument: doc, Source: path}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// RunParseCommand expands patterns, parses every file and writes the output.
// A single input is written as a bare document, several as a list.
func RunParseCommand(ctx context.Context, logger *errors.Logger, cmdConfig CommandConfig, patterns []string, parser DocumentParser, opts ParseOptions) error {
	paths, err := utils.ExpandPatterns(patterns)
	if err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, "Invalid input files", err)
	}

	docs, err := ParseFiles(ctx, logger, parser, paths, opts)
	if err != nil {
		return err
	}

	failed := 0
	for _, d := range docs {
		if d.Failed() {
			failed++
		}
	}
	logger.Info("Parse completed", "files", len(docs), "failed", failed)

	outputHandler := NewOutputHandler(logger)
	if len(docs) == 1 {
		return outputHandler.HandleOutput(docs[0].ParsedDocument, cmdConfig)
	}
	return outputHandler.HandleOutput(docs, cmdConfig)
}
