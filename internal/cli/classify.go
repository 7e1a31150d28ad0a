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

var classifyCmd = &cobra.Command{
	Use:   "classify [document]",
	Short: "Recommend an EC classification level for a position",
	Long: `Classify a position description against the EC classification standards
and recommend a level with supporting analysis.

With --from-results a previously saved comparison or gauge JSON file is
supplied as change context; the file type is detected from its content.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if classifyJSON {
			classifyConfig.OutputFormat = "json"
		}
		if classifyConfig.OutputFormat == "" {
			classifyConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(classifyConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runClassify,
}

var (
	classifyConfig      common.CommandConfig
	classifyJSON        bool
	classifyFromResults string
)

func init() {
	classifyCmd.Flags().StringVarP(&classifyConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	classifyCmd.Flags().StringVar(&classifyConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "Shorthand for --format json")
	classifyCmd.Flags().StringVar(&classifyFromResults, "from-results", "", "Comparison or gauge JSON file to use as change context")
}

// parseResultsFile detects whether a saved results file holds a comparison
// or a gauge recommendation. A gauge payload always carries
// should_reevaluate; a comparison carries changes_by_section.
func parseResultsFile(content string) (pipeline.ClassifyOptions, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &probe); err != nil {
		return pipeline.ClassifyOptions{}, fmt.Errorf("failed to parse results file: %w", err)
	}

	if _, ok := probe["should_reevaluate"]; ok {
		var gauge types.RevaluationRecommendation
		if err := json.Unmarshal([]byte(content), &gauge); err != nil {
			return pipeline.ClassifyOptions{}, fmt.Errorf("failed to parse gauge results: %w", err)
		}
		return pipeline.ClassifyOptions{Gauge: &gauge}, nil
	}

	if _, ok := probe["changes_by_section"]; ok {
		var comparison types.ComparisonResult
		if err := json.Unmarshal([]byte(content), &comparison); err != nil {
			return pipeline.ClassifyOptions{}, fmt.Errorf("failed to parse comparison results: %w", err)
		}
		return pipeline.ClassifyOptions{Comparison: &comparison}, nil
	}

	return pipeline.ClassifyOptions{}, fmt.Errorf("results file is neither a comparison nor a gauge result")
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	var opts pipeline.ClassifyOptions
	if classifyFromResults != "" {
		fileProcessor := common.NewFileProcessor(logger)
		content, err := fileProcessor.ReadFile(classifyFromResults)
		if err != nil {
			return err
		}
		opts, err = parseResultsFile(content)
		if err != nil {
			return err
		}
	}

	std, err := standards.Load(cfg.Output.StandardsFile)
	if err != nil {
		return err
	}

	classifyProvider, closeClassify, err := evaluationProvider(cfg, cfg.GetClassifyConfig(), "classify", logger)
	if err != nil {
		return err
	}
	defer closeClassify()

	evaluator := pipeline.NewEvaluator(nil, nil, classifyProvider, std, logger)

	logger.Info("Starting position classification",
		"document", args[0],
		"change_context", classifyFromResults != "",
		"output_format", classifyConfig.OutputFormat)

	operation := func(ctx context.Context) (types.ClassificationRecommendation, error) {
		recommendation, err := evaluator.Classify(ctx, args[0], opts)
		if err != nil {
			return types.ClassificationRecommendation{}, err
		}
		for _, warning := range recommendation.Warnings {
			logger.Warn("Classification warning", "warning", warning)
		}
		return recommendation, nil
	}

	if err := common.RunAICommand(cmd.Context(), logger, classifyConfig, args, operation); err != nil {
		return fmt.Errorf("failed to classify position: %w", err)
	}
	logger.Info("Position classification completed successfully")
	return nil
}
