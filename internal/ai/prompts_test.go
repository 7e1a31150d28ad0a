package ai

import (
	"strings"
	"testing"
	"time"

	"jobkit/internal/config"
	"jobkit/internal/types"
)

func promptTestConfig() *config.OperationAIConfig {
	return &config.OperationAIConfig{
		Provider:         "gemini",
		Model:            "test-model",
		Timeout:          timePtr(30 * time.Second),
		MaxRetries:       intPtr(1),
		Temperature:      float32Ptr(0.3),
		UseSystemPrompts: boolPtr(true),
	}
}

func TestDefaultPromptsCoverEveryOperation(t *testing.T) {
	operations := []string{
		OpJobInfo, OpResponsibilities, OpPeopleManagement, OpScope,
		OpRequirements, OpWorkingConditions, OpCompare, OpGauge, OpClassify,
	}

	for _, op := range operations {
		if DefaultSystemPrompts[op] == "" {
			t.Errorf("missing default system prompt for %s", op)
		}
		if DefaultUserPrompts[op] == "" {
			t.Errorf("missing default user prompt for %s", op)
		}
	}
}

func TestResolvePromptPrecedence(t *testing.T) {
	cfg := promptTestConfig()
	cfg.CustomPrompts.System = "custom system"

	if got := systemPromptFor(cfg, OpCompare); got != "custom system" {
		t.Errorf("config override not applied, got %q", got)
	}
	if got := userPromptFor(cfg, OpCompare); got != DefaultUserPrompts[OpCompare] {
		t.Error("user prompt should fall back to the default")
	}
}

func TestBuildStagePromptJobInfo(t *testing.T) {
	gc := GenerationContext{
		Org: types.OrgContext{
			OrganizationName: "City of Riverton",
			Industry:         "Municipal government",
		},
		Responses: types.UserResponses{
			JobTitle:                "Budget Analyst",
			Department:              "Finance",
			ReportsTo:               "Budget Manager",
			PrimaryResponsibilities: "Prepares and monitors departmental budgets",
			ManagesPeople:           false,
		},
	}

	_, user := buildStagePrompt(promptTestConfig(), OpJobInfo, gc)

	for _, want := range []string{
		"City of Riverton",
		"Budget Analyst",
		"Manages People: no",
		"role_level_assessment",
	} {
		if !strings.Contains(user, want) {
			t.Errorf("job_info prompt missing %q", want)
		}
	}
	if strings.Contains(user, "%s") {
		t.Error("unfilled placeholder in job_info prompt")
	}
}

func TestBuildStagePromptWorkingConditions(t *testing.T) {
	gc := GenerationContext{
		Responses:    types.UserResponses{JobTitle: "Budget Analyst"},
		JobInfo:      types.JobInformation{JobWorkingTitle: "Budget Analyst"},
		RoleLevel:    types.RoleLevelAssessment{InferredLevel: types.RoleLevelMid},
		TierGuidance: "Standard office environment with sustained screen work.",
	}

	_, user := buildStagePrompt(promptTestConfig(), OpWorkingConditions, gc)
	if !strings.Contains(user, gc.TierGuidance) {
		t.Error("tier guidance not interpolated into working conditions prompt")
	}
	if !strings.Contains(user, "Assessed Level: mid") {
		t.Error("assessed level missing from position context")
	}
}

func TestBuildClassifyPromptOptionalContext(t *testing.T) {
	cfg := promptTestConfig()

	base := ClassifyInput{
		DocumentText:     "Position description text",
		StandardsContext: "EC-01 through EC-17 standards",
	}
	_, plain := buildClassifyPrompt(cfg, base)
	if strings.Contains(plain, "previously classified") {
		t.Error("previous level line should be absent when not provided")
	}

	withContext := base
	withContext.PreviousLevel = "EC-08"
	withContext.ChangeContext = "Supervisory duties were added."
	_, full := buildClassifyPrompt(cfg, withContext)
	if !strings.Contains(full, "previously classified at EC-08") {
		t.Error("previous level not interpolated")
	}
	if !strings.Contains(full, "Supervisory duties were added.") {
		t.Error("change context not interpolated")
	}
}

func TestBuildGaugePromptEmbedsComparison(t *testing.T) {
	input := GaugeInput{
		Comparison: types.ComparisonResult{
			Summary:             "Scope expanded.",
			OverallSignificance: "major",
		},
		CurrentLevel:     "EC-06",
		StandardsContext: "standards excerpt",
	}

	_, user := buildGaugePrompt(promptTestConfig(), input)
	for _, want := range []string{"EC-06", "Scope expanded.", "standards excerpt"} {
		if !strings.Contains(user, want) {
			t.Errorf("gauge prompt missing %q", want)
		}
	}
}
