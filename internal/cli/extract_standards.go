package cli

import (
	"encoding/json"
	"fmt"

	"jobkit/internal/ai"
	"jobkit/internal/common"
	"jobkit/internal/document"

	"github.com/spf13/cobra"
)

var extractStandardsCmd = &cobra.Command{
	Use:   "extract-standards [matrix.pdf]",
	Short: "Build the classification standards JSON from a grade matrix document",
	Long: `Extract the EC grade matrix document and structure it into the
classification standards JSON used by the gauge and classify commands.
The matrix text is extracted from the PDF and structured by the
configured AI provider.

The result is written to the configured standards file unless --output
is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtractStandards,
}

var extractStandardsOutput string

func init() {
	extractStandardsCmd.Flags().StringVarP(&extractStandardsOutput, "output", "o", "", "Standards JSON path (default: configured standards file)")
}

func runExtractStandards(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	outputPath := extractStandardsOutput
	if outputPath == "" {
		outputPath = cfg.Output.StandardsFile
	}

	logger.Info("Extracting grade matrix text", "document", args[0])
	matrixText, err := document.ExtractText(args[0])
	if err != nil {
		return err
	}

	provider, closeProvider, err := evaluationProvider(cfg, cfg.GetClassifyConfig(), "standards", logger)
	if err != nil {
		return err
	}
	defer closeProvider()

	logger.Info("Structuring grade matrix",
		"matrix_chars", len(matrixText),
		"output_path", outputPath)

	std, usage, err := provider.StructureStandards(cmd.Context(), matrixText)
	if err != nil {
		return fmt.Errorf("failed to structure grade matrix: %w", err)
	}
	if len(std.ClassificationLevels) == 0 {
		return fmt.Errorf("no classification levels found in %s", args[0])
	}

	data, err := json.MarshalIndent(std, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode standards: %w", err)
	}

	fileProcessor := common.NewFileProcessor(logger)
	if err := fileProcessor.WriteFile(outputPath, string(data)); err != nil {
		return err
	}

	logger.Info("Classification standards written",
		"path", outputPath,
		"levels", len(std.ClassificationLevels),
		"total_tokens", tokenTotal(usage))
	return nil
}

func tokenTotal(usage *ai.TokenUsage) int64 {
	if usage == nil {
		return 0
	}
	return usage.TotalTokens
}
