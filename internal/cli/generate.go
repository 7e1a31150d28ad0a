package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"jobkit/internal/ai"
	"jobkit/internal/common"
	"jobkit/internal/config"
	"jobkit/internal/pipeline"
	"jobkit/internal/store"
	"jobkit/internal/types"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a job description from questionnaire answers",
	Long: `Generate a formal job description using AI. Without flags the command
runs an interactive questionnaire on stdin. With --input it reads the
questionnaire answers from a JSON file instead.

The generated description is printed (or written with --output) and saved
to the output directory in text, PDF and DOCX formats.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if generateConfig.OutputFormat == "" {
			generateConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(generateConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runGenerate,
}

var (
	generateConfig    common.CommandConfig
	generateInputFile string
)

func init() {
	generateCmd.Flags().StringVarP(&generateConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	generateCmd.Flags().StringVar(&generateConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	generateCmd.Flags().StringVarP(&generateInputFile, "input", "i", "", "JSON file of questionnaire answers (skips the interactive questionnaire)")

	// Add completion for format flag
	_ = generateCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	var responses types.UserResponses
	if generateInputFile != "" {
		fileProcessor := common.NewFileProcessor(logger)
		content, err := fileProcessor.ReadFile(generateInputFile)
		if err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(content), &responses); err != nil {
			return fmt.Errorf("failed to parse questionnaire answers from %s: %w", generateInputFile, err)
		}
	} else {
		responses = collectUserResponses(cmd.InOrStdin(), cmd.OutOrStdout())
	}

	if responses.JobTitle == "" {
		return fmt.Errorf("job_title is required")
	}

	genConfig := cfg.GetGenerateConfig()
	aiService, err := ai.NewGenerationService(&genConfig, cfg.AI.MistralBaseURL, logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}
	defer func() {
		if err := aiService.Close(); err != nil {
			logger.Warn("Failed to close AI service", "error", err.Error())
		}
	}()

	logger.Info("Starting job description generation",
		"provider", genConfig.Provider,
		"job_title", responses.JobTitle,
		"output_format", generateConfig.OutputFormat)

	generator := pipeline.NewGenerator(aiService.Provider, genConfig.Provider, cfg.AI.Pricing, logger)
	jd, err := generator.Generate(cmd.Context(), orgContextFromConfig(cfg), responses)
	if err != nil {
		return fmt.Errorf("failed to generate job description: %w", err)
	}

	logger.Info("Job description generation completed",
		"input_tokens", jd.Usage.TotalInputTokens,
		"output_tokens", jd.Usage.TotalOutputTokens,
		"total_tokens", jd.Usage.TotalTokens,
		"cost_usd", jd.Usage.CostUSD,
		"cost_cad", jd.Usage.CostCAD)

	outputStore := store.NewOutputStore(cfg.Output.Dir, logger)
	jobID := store.NewGenerationJobID()
	if _, err := outputStore.SaveGeneration(jd, jobID, genConfig.Provider); err != nil {
		logger.Warn("Failed to save generated documents", "error", err.Error())
	} else {
		logger.Info("Generated documents saved", "job_id", jobID, "dir", outputStore.Dir())
	}

	outputHandler := common.NewOutputHandler(logger)
	return outputHandler.HandleOutput(jd, generateConfig)
}

func orgContextFromConfig(cfg *config.Config) types.OrgContext {
	return types.OrgContext{
		OrganizationName:        cfg.Org.OrganizationName,
		Industry:                cfg.Org.Industry,
		Location:                cfg.Org.Location,
		OrganizationDescription: cfg.Org.OrganizationDescription,
	}
}

// collectUserResponses walks the user through the position questionnaire
func collectUserResponses(in io.Reader, out io.Writer) types.UserResponses {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	ask := func(prompt string) string {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			return ""
		}
		return strings.TrimSpace(scanner.Text())
	}

	fmt.Fprintln(out, "\nJob Description Questionnaire")
	fmt.Fprintln(out, "Answer the following questions about the position. Press Enter to skip optional questions.")

	fmt.Fprintln(out, "\n-- Basic Information --")
	r := types.UserResponses{}
	r.JobTitle = ask("\n1. What is the job/working title for this position?\n   > ")
	r.Department = ask("\n2. What is the department name?\n   > ")
	r.DivisionSection = ask("   Division or section (optional):\n   > ")
	r.ReportsTo = ask("\n3. What position does this role report to?\n   > ")

	fmt.Fprintln(out, "\n-- Role Responsibilities --")
	r.PrimaryResponsibilities = ask("\n4. What are the main duties and outcomes this role is responsible for?\n   > ")
	r.KeyDeliverables = ask("\n5. What specific outputs or results does this role produce?\n   > ")
	r.UniqueAspects = ask("\n6. What makes this role different from a typical position with this title?\n   > ")

	fmt.Fprintln(out, "\n-- People and Relationships --")
	managesAnswer := strings.ToLower(ask("\n7. Does this role manage or supervise people? (yes/no)\n   > "))
	r.ManagesPeople = managesAnswer == "yes" || managesAnswer == "y"
	if r.ManagesPeople {
		r.NumDirectReports = ask("   How many direct reports?\n   > ")
		r.NumIndirectReports = ask("   How many indirect reports? (optional)\n   > ")
		r.OtherResourcesManaged = ask("   Any other resources managed? (optional)\n   > ")
	}
	r.KeyContacts = ask("\n8. Who does this role interact with regularly?\n   > ")

	fmt.Fprintln(out, "\n-- Scope and Decision Making --")
	r.DecisionAuthority = ask("\n9. What types of decisions can this role make independently?\n   > ")
	r.InnovationProblemSolving = ask("\n10. What degree of creativity, judgment or innovation does this role require?\n    > ")
	r.ImpactOfResults = ask("\n11. How do the outcomes of this role affect the organization or its clients?\n    > ")

	fmt.Fprintln(out, "\n-- Requirements --")
	r.SpecialRequirements = ask("\n12. Are there any special requirements (licenses, certifications, travel)? (optional)\n    > ")

	fmt.Fprintln(out)
	return r
}
