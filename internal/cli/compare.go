package cli

import (
	"context"
	"fmt"

	"jobkit/internal/ai"
	"jobkit/internal/common"
	"jobkit/internal/config"
	"jobkit/internal/errors"
	"jobkit/internal/pipeline"
	"jobkit/internal/standards"
	"jobkit/internal/types"

	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare [old-document] [new-document]",
	Short: "Compare two versions of a position description",
	Long: `Compare two versions of a position description and report what changed,
grouped by section and by classification factor.

With --with-gauge the comparison is chained into a reevaluation assessment.
With --with-classify (implies --with-gauge) the full workflow runs and a
classification level is recommended.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if compareJSON {
			compareConfig.OutputFormat = "json"
		}
		if compareConfig.OutputFormat == "" {
			compareConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(compareConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runCompare,
}

var (
	compareConfig       common.CommandConfig
	compareJSON         bool
	compareWithGauge    bool
	compareWithClassify bool
)

func init() {
	compareCmd.Flags().StringVarP(&compareConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	compareCmd.Flags().StringVar(&compareConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	compareCmd.Flags().BoolVar(&compareJSON, "json", false, "Shorthand for --format json")
	compareCmd.Flags().BoolVar(&compareWithGauge, "with-gauge", false, "Also assess whether the changes warrant reevaluation")
	compareCmd.Flags().BoolVar(&compareWithClassify, "with-classify", false, "Run the full workflow including classification (implies --with-gauge)")
}

// evaluationProvider creates the AI provider for one evaluation operation
func evaluationProvider(cfg *config.Config, opCfg config.OperationAIConfig, operation string, logger *errors.Logger) (ai.AIProvider, func(), error) {
	service, err := ai.NewService(&opCfg, operation, cfg.AI.MistralBaseURL, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s AI service: %w", operation, err)
	}
	closer := func() {
		if err := service.Close(); err != nil {
			logger.Warn("Failed to close AI service", "operation", operation, "error", err.Error())
		}
	}
	return service.Provider, closer, nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	withGauge := compareWithGauge || compareWithClassify

	compareProvider, closeCompare, err := evaluationProvider(cfg, cfg.GetCompareConfig(), "compare", logger)
	if err != nil {
		return err
	}
	defer closeCompare()

	var gaugeProvider, classifyProvider ai.AIProvider
	var std *standards.Standards
	if withGauge {
		std, err = standards.Load(cfg.Output.StandardsFile)
		if err != nil {
			return err
		}
		var closeGauge func()
		gaugeProvider, closeGauge, err = evaluationProvider(cfg, cfg.GetGaugeConfig(), "gauge", logger)
		if err != nil {
			return err
		}
		defer closeGauge()
	}
	if compareWithClassify {
		var closeClassify func()
		classifyProvider, closeClassify, err = evaluationProvider(cfg, cfg.GetClassifyConfig(), "classify", logger)
		if err != nil {
			return err
		}
		defer closeClassify()
	}

	evaluator := pipeline.NewEvaluator(compareProvider, gaugeProvider, classifyProvider, std, logger)

	logger.Info("Starting document comparison",
		"old_document", args[0],
		"new_document", args[1],
		"with_gauge", withGauge,
		"with_classify", compareWithClassify,
		"output_format", compareConfig.OutputFormat)

	operation := func(ctx context.Context) (any, error) {
		if compareWithClassify {
			return evaluator.FullWorkflow(ctx, args[0], args[1])
		}

		comparison, err := evaluator.Compare(ctx, args[0], args[1])
		if err != nil {
			return nil, err
		}
		if !withGauge {
			return comparison, nil
		}

		gauge, err := evaluator.Gauge(ctx, args[1], comparison)
		if err != nil {
			return nil, err
		}
		return types.EvaluationReport{Comparison: comparison, Gauge: gauge}, nil
	}

	if err := common.RunAICommand(cmd.Context(), logger, compareConfig, args, operation); err != nil {
		return fmt.Errorf("failed to compare documents: %w", err)
	}
	logger.Info("Document comparison completed successfully")
	return nil
}
