package ai

import (
	"context"

	"jobkit/internal/standards"
	"jobkit/internal/types"
)

// Operation names used for prompts, tracing and circuit breaker labels
const (
	OpJobInfo           = "job_info"
	OpResponsibilities  = "responsibilities"
	OpPeopleManagement  = "people_management"
	OpScope             = "scope"
	OpRequirements      = "requirements"
	OpWorkingConditions = "working_conditions"
	OpCompare           = "compare"
	OpGauge             = "gauge"
	OpClassify          = "classify"
	OpStandards         = "standards"
)

// GenerationContext carries the accumulated state of the job description
// pipeline into each stage call. Early stages see only the organization
// context and questionnaire responses; later stages also see the results
// of the stages before them.
type GenerationContext struct {
	Org              types.OrgContext
	Responses        types.UserResponses
	JobInfo          types.JobInformation
	Purpose          types.OverallPurpose
	RoleLevel        types.RoleLevelAssessment
	Responsibilities []string
	TierGuidance     string
}

// GaugeInput carries a completed comparison into the revaluation assessment
type GaugeInput struct {
	Comparison       types.ComparisonResult
	CurrentLevel     string
	StandardsContext string
}

// ClassifyInput carries a position document into classification
type ClassifyInput struct {
	DocumentText     string
	StandardsContext string
	PreviousLevel    string
	ChangeContext    string
}

// AIProvider is the model-facing interface shared by the Gemini and Mistral
// implementations. All methods return token usage; callers can ignore it.
type AIProvider interface {
	GenerateJobInfo(ctx context.Context, org types.OrgContext, responses types.UserResponses) (types.JobInfoResult, *TokenUsage, error)
	GenerateResponsibilities(ctx context.Context, gc GenerationContext) (types.KeyResponsibilities, *TokenUsage, error)
	GeneratePeopleManagement(ctx context.Context, gc GenerationContext) (types.PeopleManagement, *TokenUsage, error)
	GenerateScope(ctx context.Context, gc GenerationContext) (types.ScopeSection, *TokenUsage, error)
	GenerateLicenses(ctx context.Context, gc GenerationContext) (types.LicensesCertifications, *TokenUsage, error)
	GenerateWorkingConditions(ctx context.Context, gc GenerationContext) (types.WorkingConditions, *TokenUsage, error)
	CompareDocuments(ctx context.Context, oldText, newText string) (types.ComparisonResult, *TokenUsage, error)
	AssessRevaluation(ctx context.Context, input GaugeInput) (types.RevaluationRecommendation, *TokenUsage, error)
	ClassifyPosition(ctx context.Context, input ClassifyInput) (types.ClassificationRecommendation, *TokenUsage, error)
	StructureStandards(ctx context.Context, matrixText string) (standards.Standards, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// ModelInfo represents availability information about the configured model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}
