package ai

import (
	"context"
	"fmt"
	"time"

	"jobkit/internal/config"
	jobkitErrors "jobkit/internal/errors"
	"jobkit/internal/standards"
	"jobkit/internal/types"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultMistralBaseURL is the OpenAI-compatible endpoint of La Plateforme
const DefaultMistralBaseURL = "https://api.mistral.ai/v1"

// MistralProvider implements AIProvider against Mistral's OpenAI-compatible
// chat completions API.
type MistralProvider struct {
	client         *openai.Client
	config         *config.OperationAIConfig
	stageTemps     map[string]float32
	circuitBreaker *AICircuitBreaker[openai.ChatCompletionResponse]
	logger         *jobkitErrors.Logger
}

var _ AIProvider = (*MistralProvider)(nil)

// NewMistralProvider creates a Mistral provider for a specific operation
func NewMistralProvider(cfg *config.OperationAIConfig, baseURL string, stageTemps map[string]float32, operationType string, logger *jobkitErrors.Logger) (*MistralProvider, error) {
	if cfg.APIKey == "" {
		return nil, jobkitErrors.NewConfigError(jobkitErrors.ErrCodeMissingAPIKey,
			"Mistral API key is not configured (set MISTRAL_API_KEY or ai.mistralApiKey)", nil)
	}

	if baseURL == "" {
		baseURL = DefaultMistralBaseURL
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = baseURL

	return &MistralProvider{
		client:         openai.NewClientWithConfig(clientConfig),
		config:         cfg,
		stageTemps:     stageTemps,
		circuitBreaker: NewAICircuitBreaker[openai.ChatCompletionResponse](operationType, cfg, logger),
		logger:         logger,
	}, nil
}

func (m *MistralProvider) temperatureFor(operation string) float32 {
	if t, ok := m.stageTemps[operation]; ok {
		return t
	}
	return *m.config.Temperature
}

// GetModelInfo checks the availability of the configured model
func (m *MistralProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{
		Name:      m.config.Model,
		Available: false,
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	model, err := m.client.GetModel(checkCtx, m.config.Model)
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)
		m.logger.Warn("Model availability check failed",
			"model", m.config.Model,
			"provider", m.config.Provider,
			"error", err.Error())
		return modelInfo
	}

	modelInfo.Available = true
	modelInfo.DisplayName = model.ID

	m.logger.Debug("Model availability check successful",
		"model", m.config.Model,
		"provider", m.config.Provider)

	return modelInfo
}

// executeMistralOperation runs one JSON-mode chat completion with tracing,
// circuit breaker and retry, then strictly decodes and validates the result.
// Mistral has no response schema parameter, so the expected shape lives in
// the prompt and the decode boundary does the enforcement.
func executeMistralOperation[Out any](
	m *MistralProvider,
	ctx context.Context,
	operation string,
	userPrompt string,
	systemPrompt string,
	spanAttributes ...attribute.KeyValue,
) (Out, *TokenUsage, error) {
	var output Out
	tracer := otel.Tracer("jobkit.ai.mistral")
	ctx, span := tracer.Start(ctx, "mistral."+operation)
	defer span.End()

	temperature := m.temperatureFor(operation)
	span.SetAttributes(
		attribute.String("ai.provider", "mistral"),
		attribute.String("ai.model", m.config.Model),
		attribute.Float64("ai.temperature", float64(temperature)),
	)
	span.SetAttributes(spanAttributes...)

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if *m.config.UseSystemPrompts && systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userPrompt,
	})

	request := openai.ChatCompletionRequest{
		Model:       m.config.Model,
		Messages:    messages,
		Temperature: temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	result, err := m.circuitBreaker.Execute(func() (openai.ChatCompletionResponse, error) {
		return executeWithRetry(ctx, operation, *m.config.MaxRetries, m.logger,
			func() (openai.ChatCompletionResponse, error) {
				callCtx, cancel := context.WithTimeout(ctx, *m.config.Timeout)
				defer cancel()
				return m.client.CreateChatCompletion(callCtx, request)
			})
	})

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, jobkitErrors.NewAIError(jobkitErrors.ErrCodeAIServiceFailed,
			"Failed to generate content for "+operation, err)
	}

	if len(result.Choices) == 0 {
		err := jobkitErrors.NewAIError(jobkitErrors.ErrCodeMalformedResponse,
			"Empty completion for "+operation, nil)
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, err
	}

	if err := DecodeModelJSON(result.Choices[0].Message.Content, operation, &output); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, err
	}
	if err := ValidateModelOutput(operation, &output); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, err
	}

	tokenUsage := &TokenUsage{
		InputTokens:  int64(result.Usage.PromptTokens),
		OutputTokens: int64(result.Usage.CompletionTokens),
		TotalTokens:  int64(result.Usage.TotalTokens),
	}
	span.SetAttributes(
		attribute.Int64("ai.tokens.input", tokenUsage.InputTokens),
		attribute.Int64("ai.tokens.output", tokenUsage.OutputTokens),
		attribute.Int64("ai.tokens.total", tokenUsage.TotalTokens),
		attribute.Bool("success", true),
	)

	return output, tokenUsage, nil
}

// GenerateJobInfo implements the first pipeline stage
func (m *MistralProvider) GenerateJobInfo(ctx context.Context, org types.OrgContext, responses types.UserResponses) (types.JobInfoResult, *TokenUsage, error) {
	systemPrompt, userPrompt := buildStagePrompt(m.config, OpJobInfo,
		GenerationContext{Org: org, Responses: responses})

	output, usage, err := executeMistralOperation[types.JobInfoResult](
		m, ctx, OpJobInfo, userPrompt, systemPrompt,
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
func (m *MistralProvider) GenerateResponsibilities(ctx context.Context, gc GenerationContext) (types.KeyResponsibilities, *TokenUsage, error) {
	systemPrompt, userPrompt := buildStagePrompt(m.config, OpResponsibilities, gc)
	return executeMistralOperation[types.KeyResponsibilities](
		m, ctx, OpResponsibilities, userPrompt, systemPrompt,
	)
}

// GeneratePeopleManagement implements the supervisory structure stage
func (m *MistralProvider) GeneratePeopleManagement(ctx context.Context, gc GenerationContext) (types.PeopleManagement, *TokenUsage, error) {
	systemPrompt, userPrompt := buildStagePrompt(m.config, OpPeopleManagement, gc)
	return executeMistralOperation[types.PeopleManagement](
		m, ctx, OpPeopleManagement, userPrompt, systemPrompt,
	)
}

// GenerateScope implements the scope stage
func (m *MistralProvider) GenerateScope(ctx context.Context, gc GenerationContext) (types.ScopeSection, *TokenUsage, error) {
	systemPrompt, userPrompt := buildStagePrompt(m.config, OpScope, gc)
	return executeMistralOperation[types.ScopeSection](
		m, ctx, OpScope, userPrompt, systemPrompt,
	)
}

// GenerateLicenses implements the mandatory credentials stage
func (m *MistralProvider) GenerateLicenses(ctx context.Context, gc GenerationContext) (types.LicensesCertifications, *TokenUsage, error) {
	systemPrompt, userPrompt := buildStagePrompt(m.config, OpRequirements, gc)
	return executeMistralOperation[types.LicensesCertifications](
		m, ctx, OpRequirements, userPrompt, systemPrompt,
	)
}

// GenerateWorkingConditions implements the working conditions stage
func (m *MistralProvider) GenerateWorkingConditions(ctx context.Context, gc GenerationContext) (types.WorkingConditions, *TokenUsage, error) {
	systemPrompt, userPrompt := buildStagePrompt(m.config, OpWorkingConditions, gc)
	return executeMistralOperation[types.WorkingConditions](
		m, ctx, OpWorkingConditions, userPrompt, systemPrompt,
	)
}

// CompareDocuments implements AIProvider for document comparison
func (m *MistralProvider) CompareDocuments(ctx context.Context, oldText, newText string) (types.ComparisonResult, *TokenUsage, error) {
	systemPrompt, userPrompt := buildComparePrompt(m.config, oldText, newText)

	output, usage, err := executeMistralOperation[types.ComparisonResult](
		m, ctx, OpCompare, userPrompt, systemPrompt,
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
func (m *MistralProvider) AssessRevaluation(ctx context.Context, input GaugeInput) (types.RevaluationRecommendation, *TokenUsage, error) {
	systemPrompt, userPrompt := buildGaugePrompt(m.config, input)

	output, usage, err := executeMistralOperation[types.RevaluationRecommendation](
		m, ctx, OpGauge, userPrompt, systemPrompt,
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
func (m *MistralProvider) ClassifyPosition(ctx context.Context, input ClassifyInput) (types.ClassificationRecommendation, *TokenUsage, error) {
	systemPrompt, userPrompt := buildClassifyPrompt(m.config, input)

	output, usage, err := executeMistralOperation[types.ClassificationRecommendation](
		m, ctx, OpClassify, userPrompt, systemPrompt,
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
// document
func (m *MistralProvider) StructureStandards(ctx context.Context, matrixText string) (standards.Standards, *TokenUsage, error) {
	systemPrompt, userPrompt := buildStandardsPrompt(m.config, matrixText)
	return executeMistralOperation[standards.Standards](
		m, ctx, OpStandards, userPrompt, systemPrompt,
		attribute.Int("input.matrix_length", len(matrixText)),
	)
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (m *MistralProvider) GetCircuitBreakerStats() map[string]any {
	stats := map[string]any{
		"ai_operations": m.circuitBreaker.GetStats(),
	}
	stats["overall_healthy"] = m.circuitBreaker.IsHealthy()
	return stats
}

// Close implements AIProvider interface
func (m *MistralProvider) Close() error {
	return nil
}
