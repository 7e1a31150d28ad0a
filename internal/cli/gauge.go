package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"jobkit/internal/common"
	"jobkit/internal/pipeline"
	"jobkit/internal/standards"
	"jobkit/internal/types"

	"github.com/spf13/cobra"
)

var gaugeCmd = &cobra.Command{
	Use:   "gauge [comparison.json]",
	Short: "Assess whether documented changes warrant reevaluation",
	Long: `Assess whether the changes in a saved comparison result warrant a formal
reevaluation of the position. The argument is a comparison JSON file as
produced by 'jobkit compare --format json'. The current classification
level is inferred from the new document's filename recorded in the
comparison.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if gaugeJSON {
			gaugeConfig.OutputFormat = "json"
		}
		if gaugeConfig.OutputFormat == "" {
			gaugeConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(gaugeConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runGauge,
}

var (
	gaugeConfig common.CommandConfig
	gaugeJSON   bool
)

func init() {
	gaugeCmd.Flags().StringVarP(&gaugeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	gaugeCmd.Flags().StringVar(&gaugeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	gaugeCmd.Flags().BoolVar(&gaugeJSON, "json", false, "Shorthand for --format json")
}

func runGauge(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	fileProcessor := common.NewFileProcessor(logger)
	content, err := fileProcessor.ReadFile(args[0])
	if err != nil {
		return err
	}

	var comparison types.ComparisonResult
	if err := json.Unmarshal([]byte(content), &comparison); err != nil {
		return fmt.Errorf("failed to parse comparison result from %s: %w", args[0], err)
	}

	std, err := standards.Load(cfg.Output.StandardsFile)
	if err != nil {
		return err
	}

	gaugeProvider, closeGauge, err := evaluationProvider(cfg, cfg.GetGaugeConfig(), "gauge", logger)
	if err != nil {
		return err
	}
	defer closeGauge()

	evaluator := pipeline.NewEvaluator(nil, gaugeProvider, nil, std, logger)

	logger.Info("Starting reevaluation assessment",
		"comparison_file", args[0],
		"new_document", comparison.NewDocument,
		"output_format", gaugeConfig.OutputFormat)

	operation := func(ctx context.Context) (types.RevaluationRecommendation, error) {
		return evaluator.Gauge(ctx, comparison.NewDocument, comparison)
	}

	if err := common.RunAICommand(cmd.Context(), logger, gaugeConfig, nil, operation); err != nil {
		return fmt.Errorf("failed to assess reevaluation: %w", err)
	}
	logger.Info("Reevaluation assessment completed successfully")
	return nil
}
