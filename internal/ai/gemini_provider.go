package ai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"jobkit/internal/config"
	jobkitErrors "jobkit/internal/errors"
	"jobkit/internal/standards"
	"jobkit/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

// GeminiProvider implements AIProvider for Google Gemini
type GeminiProvider struct {
	client         *genai.Client
	httpClient     *http.Client
	config         *config.OperationAIConfig
	stageTemps     map[string]float32
	circuitBreaker *AICircuitBreaker[*genai.GenerateContentResponse]
	modelBreaker   *ModelCircuitBreaker
	logger         *jobkitErrors.Logger
}

// Ensure GeminiProvider implements AIProvider
var _ AIProvider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a Gemini provider for a specific operation.
// stageTemps is only set for the generation pipeline; evaluation operations
// pass nil and use the operation temperature throughout.
func NewGeminiProvider(cfg *config.OperationAIConfig, stageTemps map[string]float32, operationType string, logger *jobkitErrors.Logger) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, jobkitErrors.NewConfigError(jobkitErrors.ErrCodeMissingAPIKey,
			"Gemini API key is not configured (set GEMINI_API_KEY or ai.geminiApiKey)", nil)
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, jobkitErrors.NewAIError(jobkitErrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	return &GeminiProvider{
		client: client,
		httpClient: &http.Client{
			Timeout: *cfg.Timeout,
		},
		config:         cfg,
		stageTemps:     stageTemps,
		circuitBreaker: NewAICircuitBreaker[*genai.GenerateContentResponse](operationType, cfg, logger),
		modelBreaker:   NewModelCircuitBreaker(operationType, cfg, logger),
		logger:         logger,
	}, nil
}

// temperatureFor returns the sampling temperature for an operation,
// preferring the per-stage table when one is configured.
func (g *GeminiProvider) temperatureFor(operation string) float32 {
	if t, ok := g.stageTemps[operation]; ok {
		return t
	}
	return *g.config.Temperature
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{
		Name:      g.config.Model,
		Available: false,
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	model, err := g.modelBreaker.ExecuteModel(func() (*genai.Model, error) {
		return g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"provider", g.config.Provider,
			"error", err.Error())
		return modelInfo
	}

	modelInfo.Available = true
	if model.DisplayName != "" {
		modelInfo.DisplayName = model.DisplayName
	}
	if model.Version != "" {
		modelInfo.Version = model.Version
	}

	g.logger.Debug("Model availability check successful",
		"model", g.config.Model,
		"provider", g.config.Provider,
		"display_name", modelInfo.DisplayName,
		"version", modelInfo.Version)

	return modelInfo
}

// executeGeminiOperation runs one structured-output call with tracing,
// circuit breaker and retry, then strictly decodes and validates the result.
func executeGeminiOperation[Out any](
	g *GeminiProvider,
	ctx context.Context,
	operation string,
	userPrompt string,
	systemPrompt string,
	genaiConfig *genai.GenerateContentConfig,
	spanAttributes ...attribute.KeyValue,
) (Out, *TokenUsage, error) {
	var output Out
	tracer := otel.Tracer("jobkit.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini."+operation)
	defer span.End()

	temperature := g.temperatureFor(operation)
	if temperature > 0 {
		genaiConfig.Temperature = &temperature
	}

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.Float64("ai.temperature", float64(temperature)),
	)
	span.SetAttributes(spanAttributes...)

	if *g.config.UseSystemPrompts && systemPrompt != "" {
		genaiConfig.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	result, err := g.circuitBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return executeWithRetry(ctx, operation, *g.config.MaxRetries, g.logger,
			func() (*genai.GenerateContentResponse, error) {
				return g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(userPrompt), genaiConfig)
			})
	})

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, jobkitErrors.NewAIError(jobkitErrors.ErrCodeAIServiceFailed,
			"Failed to generate content for "+operation, err)
	}

	if err := DecodeModelJSON(result.Text(), operation, &output); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, err
	}
	if err := ValidateModelOutput(operation, &output); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, err
	}

	tokenUsage := extractTokenUsage(result)
	if tokenUsage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", tokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", tokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", tokenUsage.TotalTokens),
		)
	}

	span.SetAttributes(attribute.Bool("success", true))
	return output, tokenUsage, nil
}

// GenerateJobInfo implements the first pipeline stage
func (g *GeminiProvider) GenerateJobInfo(ctx context.Context, org types.OrgContext, responses types.UserResponses) (types.JobInfoResult, *TokenUsage, error) {
	systemPrompt, userPrompt := buildStagePrompt(g.config, OpJobInfo,
		GenerationContext{Org: org, Responses: responses})

	output, usage, err := executeGeminiOperation[types.JobInfoResult](
		g, ctx, OpJobInfo, userPrompt, systemPrompt, jobInfoSchema(),
		attribute.String("input.job_title", responses.JobTitle),
	)
	if err != nil {
		return types.JobInfoResult{}, nil, err
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.String("output.role_level", string(output.RoleLevel.InferredLevel)),
		)
	}
	return output, usage, nil
}

// GenerateResponsibilities implements the key responsibilities stage
func (g *GeminiProvider) GenerateResponsibilities(ctx context.Context, gc GenerationContext) (types.KeyResponsibilities, *TokenUsage, error) {
	systemPrompt, userPrompt := buildStagePrompt(g.config, OpResponsibilities, gc)

	output, usage, err := executeGeminiOperation[types.KeyResponsibilities](
		g, ctx, OpResponsibilities, userPrompt, systemPrompt, responsibilitiesSchema(),
	)
	if err != nil {
		return types.KeyResponsibilities{}, nil, err
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(attribute.Int("output.responsibilities", len(output.Responsibilities)))
	}
	return output, usage, nil
}

// GeneratePeopleManagement implements the supervisory structure stage
func (g *GeminiProvider) GeneratePeopleManagement(ctx context.Context, gc GenerationContext) (types.PeopleManagement, *TokenUsage, error) {
	systemPrompt, userPrompt := buildStagePrompt(g.config, OpPeopleManagement, gc)
	return executeGeminiOperation[types.PeopleManagement](
		g, ctx, OpPeopleManagement, userPrompt, systemPrompt, peopleManagementSchema(),
	)
}

// GenerateScope implements the scope stage
func (g *GeminiProvider) GenerateScope(ctx context.Context, gc GenerationContext) (types.ScopeSection, *TokenUsage, error) {
	systemPrompt, userPrompt := buildStagePrompt(g.config, OpScope, gc)
	return executeGeminiOperation[types.ScopeSection](
		g, ctx, OpScope, userPrompt, systemPrompt, scopeSchema(),
	)
}

// GenerateLicenses implements the mandatory credentials stage
func (g *GeminiProvider) GenerateLicenses(ctx context.Context, gc GenerationContext) (types.LicensesCertifications, *TokenUsage, error) {
	systemPrompt, userPrompt := buildStagePrompt(g.config, OpRequirements, gc)
	return executeGeminiOperation[types.LicensesCertifications](
		g, ctx, OpRequirements, userPrompt, systemPrompt, requirementsSchema(),
	)
}

// GenerateWorkingConditions implements the working conditions stage
func (g *GeminiProvider) GenerateWorkingConditions(ctx context.Context, gc GenerationContext) (types.WorkingConditions, *TokenUsage, error) {
	systemPrompt, userPrompt := buildStagePrompt(g.config, OpWorkingConditions, gc)
	return executeGeminiOperation[types.WorkingConditions](
		g, ctx, OpWorkingConditions, userPrompt, systemPrompt, workingConditionsSchema(),
	)
}

// CompareDocuments implements AIProvider for document comparison
func (g *GeminiProvider) CompareDocuments(ctx context.Context, oldText, newText string) (types.ComparisonResult, *TokenUsage, error) {
	systemPrompt, userPrompt := buildComparePrompt(g.config, oldText, newText)

	output, usage, err := executeGeminiOperation[types.ComparisonResult](
		g, ctx, OpCompare, userPrompt, systemPrompt, compareSchema(),
		attribute.Int("input.old_length", len(oldText)),
		attribute.Int("input.new_length", len(newText)),
	)
	if err != nil {
		return types.ComparisonResult{}, nil, err
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(attribute.String("output.significance", output.OverallSignificance))
	}
	return output, usage, nil
}

// AssessRevaluation implements AIProvider for the revaluation gauge
func (g *GeminiProvider) AssessRevaluation(ctx context.Context, input GaugeInput) (types.RevaluationRecommendation, *TokenUsage, error) {
	systemPrompt, userPrompt := buildGaugePrompt(g.config, input)

	output, usage, err := executeGeminiOperation[types.RevaluationRecommendation](
		g, ctx, OpGauge, userPrompt, systemPrompt, gaugeSchema(),
		attribute.String("input.current_level", input.CurrentLevel),
	)
	if err != nil {
		return types.RevaluationRecommendation{}, nil, err
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.Bool("output.should_reevaluate", output.ShouldReevaluate),
			attribute.Int("output.confidence", output.Confidence),
		)
	}
	return output, usage, nil
}

// ClassifyPosition implements AIProvider for position classification
func (g *GeminiProvider) ClassifyPosition(ctx context.Context, input ClassifyInput) (types.ClassificationRecommendation, *TokenUsage, error) {
	systemPrompt, userPrompt := buildClassifyPrompt(g.config, input)

	output, usage, err := executeGeminiOperation[types.ClassificationRecommendation](
		g, ctx, OpClassify, userPrompt, systemPrompt, classifySchema(),
		attribute.Int("input.document_length", len(input.DocumentText)),
		attribute.Bool("input.change_context", input.ChangeContext != ""),
	)
	if err != nil {
		return types.ClassificationRecommendation{}, nil, err
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.String("output.recommended_level", output.RecommendedLevel),
			attribute.Int("output.confidence", output.Confidence),
		)
	}
	return output, usage, nil
}

// StructureStandards turns extracted grade matrix text into the standards
// document. The level keys are dynamic, so no response schema is set and
// the decode boundary enforces the shape.
func (g *GeminiProvider) StructureStandards(ctx context.Context, matrixText string) (standards.Standards, *TokenUsage, error) {
	systemPrompt, userPrompt := buildStandardsPrompt(g.config, matrixText)
	return executeGeminiOperation[standards.Standards](
		g, ctx, OpStandards, userPrompt, systemPrompt, jsonConfig(nil),
		attribute.Int("input.matrix_length", len(matrixText)),
	)
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	stats := map[string]any{
		"ai_operations":    g.circuitBreaker.GetStats(),
		"model_operations": g.modelBreaker.GetModelStats(),
	}
	stats["overall_healthy"] = g.circuitBreaker.IsHealthy() && g.modelBreaker.IsModelHealthy()
	return stats
}

// Close implements AIProvider interface
func (g *GeminiProvider) Close() error {
	// Gemini client has no Close method in single-shot usage
	return nil
}

// extractTokenUsage extracts token usage information from a Gemini response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}
