package cli

import (
	"fmt"

	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/common"
	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/document"

	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE|GLOB...",
	Short: "Extract plain text from PDF, DOCX and image files",
	Long: `Extract plain text from one or more documents.

PDFs use their embedded text layer and fall back to OCR when it is too
sparse. DOCX files are read directly. Images always go through OCR.
Arguments may be doublestar globs such as "resumes/**/*.pdf". Media types
are detected from file content unless --media-type is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

var (
	parseConfig      common.CommandConfig
	parseMediaType   string
	parseConcurrency int
)

func init() {
	outputFlags(parseCmd, &parseConfig)
	parseCmd.Flags().StringVar(&parseMediaType, "media-type", "", "Declared media type for every input (default: detect from content)")
	parseCmd.Flags().IntVarP(&parseConcurrency, "concurrency", "c", 0, "Files parsed in parallel (default from config)")

	_ = parseCmd.RegisterFlagCompletionFunc("media-type", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return document.SupportedMediaTypes, cobra.ShellCompDirectiveNoFileComp
	})
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	p, err := newPipeline(cfg, logger, false)
	if err != nil {
		return fmt.Errorf("failed to initialize document pipeline: %w", err)
	}
	defer p.Close()

	concurrency := parseConcurrency
	if concurrency <= 0 {
		concurrency = cfg.Document.Concurrency
	}

	logger.Info("Starting document parse",
		"inputs", len(args),
		"concurrency", concurrency,
		"media_type", parseMediaType,
		"output_format", parseConfig.OutputFormat)

	return common.RunParseCommand(cmd.Context(), logger, parseConfig, args, p.parser, common.ParseOptions{
		MediaType:   parseMediaType,
		Concurrency: concurrency,
		MaxFileSize: cfg.Document.MaxUploadSize,
	})
}
