package cli

import (
	"context"

	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/common"
	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/scoring"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score resumes, interview answers and emails",
	Long: `Deterministic scorers for career documents. Each subcommand reads plain
text from a file, or from standard input when the file is "-".`,
}

var atsCmd = &cobra.Command{
	Use:   "ats FILE|-",
	Short: "Score a resume for ATS compatibility",
	Args:  cobra.ExactArgs(1),
	RunE:  runATS,
}

var starCmd = &cobra.Command{
	Use:   "star FILE|-",
	Short: "Check an interview answer for STAR structure",
	Args:  cobra.ExactArgs(1),
	RunE:  runSTAR,
}

var toneCmd = &cobra.Command{
	Use:   "tone --rewritten FILE --tone TONE",
	Short: "Assess an email rewrite against a target tone",
	Long: `Assess an email rewrite against a target tone: professional, friendly,
formal, casual or persuasive. Unknown tones are scored with zero tone match.`,
	Args: cobra.NoArgs,
	RunE: runTone,
}

var (
	atsConfig, starConfig, toneConfig common.CommandConfig

	toneOriginal  string
	toneRewritten string
	toneTarget    string
)

func init() {
	outputFlags(atsCmd, &atsConfig)
	outputFlags(starCmd, &starConfig)
	outputFlags(toneCmd, &toneConfig)

	toneCmd.Flags().StringVar(&toneOriginal, "original", "", "Original email file (optional, informational)")
	toneCmd.Flags().StringVar(&toneRewritten, "rewritten", "", "Rewritten email file, or - for stdin")
	toneCmd.Flags().StringVar(&toneTarget, "tone", "professional", "Target tone")
	_ = toneCmd.MarkFlagRequired("rewritten")
	_ = toneCmd.RegisterFlagCompletionFunc("tone", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"professional", "friendly", "formal", "casual", "persuasive"}, cobra.ShellCompDirectiveNoFileComp
	})

	scoreCmd.AddCommand(atsCmd, starCmd, toneCmd)
}

func runATS(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())
	rec := newScoreRecorder(cmd.Context())
	defer rec.Close()

	return common.RunTextCommand(cmd.Context(), logger, atsConfig, args,
		func(ctx context.Context, contents []string) (scoring.ATSScoreResult, error) {
			result := scoring.CalculateATSScore(contents[0])
			rec.record(ctx, "ats", result.Score, string(result.Grade))
			return result, nil
		},
		func(result scoring.ATSScoreResult, cfg common.CommandConfig) {
			logger.Info("ATS score computed",
				"score", result.Score,
				"grade", result.Grade,
				"output_format", cfg.OutputFormat)
		})
}

func runSTAR(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())
	rec := newScoreRecorder(cmd.Context())
	defer rec.Close()

	return common.RunTextCommand(cmd.Context(), logger, starConfig, args,
		func(ctx context.Context, contents []string) (scoring.StarEvaluation, error) {
			result := scoring.EvaluateSTARStructure(contents[0])
			rec.record(ctx, "star", result.OverallScore, "ungraded")
			return result, nil
		},
		func(result scoring.StarEvaluation, cfg common.CommandConfig) {
			logger.Info("STAR evaluation computed",
				"overall_score", result.OverallScore,
				"completeness", result.Completeness,
				"output_format", cfg.OutputFormat)
		})
}

func runTone(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())
	rec := newScoreRecorder(cmd.Context())
	defer rec.Close()

	files := []string{toneRewritten}
	if toneOriginal != "" {
		files = append(files, toneOriginal)
	}

	return common.RunTextCommand(cmd.Context(), logger, toneConfig, files,
		func(ctx context.Context, contents []string) (scoring.EmailToneResult, error) {
			original := ""
			if len(contents) > 1 {
				original = contents[1]
			}
			result := scoring.AssessEmailTone(original, contents[0], toneTarget)
			rec.record(ctx, "tone", result.Score, string(result.Grade))
			return result, nil
		},
		func(result scoring.EmailToneResult, cfg common.CommandConfig) {
			logger.Info("Email tone assessed",
				"tone", toneTarget,
				"score", result.Score,
				"grade", result.Grade,
				"output_format", cfg.OutputFormat)
		})
}
