package pipeline

import (
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jobkit/internal/ai"
	"jobkit/internal/config"
	"jobkit/internal/document"
	"jobkit/internal/errors"
	"jobkit/internal/standards"
	"jobkit/internal/types"
)

var testLogger = errors.NewLogger(slog.LevelError)

// mockProvider returns canned outputs and records what it was asked
type mockProvider struct {
	stages        []string
	tierGuidance  string
	classifyInput ai.ClassifyInput
	gaugeInput    ai.GaugeInput

	recommendedLevel string
	currentLevel     string
	failStage        string
}

func (m *mockProvider) usage() *ai.TokenUsage {
	return &ai.TokenUsage{InputTokens: 100, OutputTokens: 50, TotalTokens: 150}
}

func (m *mockProvider) fail(stage string) error {
	if m.failStage == stage {
		return stderrors.New(stage + " boom")
	}
	return nil
}

func (m *mockProvider) GenerateJobInfo(ctx context.Context, org types.OrgContext, responses types.UserResponses) (types.JobInfoResult, *ai.TokenUsage, error) {
	m.stages = append(m.stages, ai.OpJobInfo)
	if err := m.fail(ai.OpJobInfo); err != nil {
		return types.JobInfoResult{}, nil, err
	}
	return types.JobInfoResult{
		JobInfo: types.JobInformation{
			JobWorkingTitle: responses.JobTitle,
			Department:      responses.Department,
			ReportsTo:       responses.ReportsTo,
			ExclusionStatus: types.NonExcluded,
		},
		OverallPurpose: types.OverallPurpose{PurposeText: "Exists to analyze budgets."},
		RoleLevel:      types.RoleLevelAssessment{InferredLevel: types.RoleLevelSenior, Reasoning: "broad scope"},
	}, m.usage(), nil
}

func (m *mockProvider) GenerateResponsibilities(ctx context.Context, gc ai.GenerationContext) (types.KeyResponsibilities, *ai.TokenUsage, error) {
	m.stages = append(m.stages, ai.OpResponsibilities)
	if err := m.fail(ai.OpResponsibilities); err != nil {
		return types.KeyResponsibilities{}, nil, err
	}
	return types.KeyResponsibilities{
		Responsibilities: []string{"a", "b", "c", "d", "e", "f"},
	}, m.usage(), nil
}

func (m *mockProvider) GeneratePeopleManagement(ctx context.Context, gc ai.GenerationContext) (types.PeopleManagement, *ai.TokenUsage, error) {
	m.stages = append(m.stages, ai.OpPeopleManagement)
	return types.PeopleManagement{TypeOfRole: "Individual Contributor"}, m.usage(), nil
}

func (m *mockProvider) GenerateScope(ctx context.Context, gc ai.GenerationContext) (types.ScopeSection, *ai.TokenUsage, error) {
	m.stages = append(m.stages, ai.OpScope)
	return types.ScopeSection{
		ContactsTypical: "c", Innovation: "i", DecisionMaking: "d", ImpactOfResults: "r",
	}, m.usage(), nil
}

func (m *mockProvider) GenerateLicenses(ctx context.Context, gc ai.GenerationContext) (types.LicensesCertifications, *ai.TokenUsage, error) {
	m.stages = append(m.stages, ai.OpRequirements)
	return types.LicensesCertifications{}, m.usage(), nil
}

func (m *mockProvider) GenerateWorkingConditions(ctx context.Context, gc ai.GenerationContext) (types.WorkingConditions, *ai.TokenUsage, error) {
	m.stages = append(m.stages, ai.OpWorkingConditions)
	m.tierGuidance = gc.TierGuidance
	return types.WorkingConditions{
		PhysicalEffort: "p", PhysicalEnvironment: "e", SensoryAttention: "s", PsychologicalPressures: "pp",
	}, m.usage(), nil
}

func (m *mockProvider) CompareDocuments(ctx context.Context, oldText, newText string) (types.ComparisonResult, *ai.TokenUsage, error) {
	m.stages = append(m.stages, ai.OpCompare)
	return types.ComparisonResult{
		Summary:             "Scope expanded.",
		OverallSignificance: "major",
		ClassificationRelevantChanges: map[string][]string{
			"leadership": {"now supervises staff"},
		},
	}, m.usage(), nil
}

func (m *mockProvider) AssessRevaluation(ctx context.Context, input ai.GaugeInput) (types.RevaluationRecommendation, *ai.TokenUsage, error) {
	m.stages = append(m.stages, ai.OpGauge)
	m.gaugeInput = input
	return types.RevaluationRecommendation{
		ShouldReevaluate:    true,
		Confidence:          85,
		CurrentLevel:        m.currentLevel,
		LikelyNewLevelRange: "EC-07 to EC-08",
		Rationale:           "material changes",
		RiskAssessment:      "medium",
	}, m.usage(), nil
}

func (m *mockProvider) ClassifyPosition(ctx context.Context, input ai.ClassifyInput) (types.ClassificationRecommendation, *ai.TokenUsage, error) {
	m.stages = append(m.stages, ai.OpClassify)
	m.classifyInput = input
	return types.ClassificationRecommendation{
		PositionTitle:    "Budget Analyst",
		RecommendedLevel: m.recommendedLevel,
		Confidence:       80,
		Rationale:        "matches the standard",
	}, m.usage(), nil
}

func (m *mockProvider) StructureStandards(ctx context.Context, matrixText string) (standards.Standards, *ai.TokenUsage, error) {
	return standards.Standards{}, m.usage(), nil
}

func (m *mockProvider) GetModelInfo(ctx context.Context) *ai.ModelInfo {
	return &ai.ModelInfo{Name: "mock", Available: true}
}

func (m *mockProvider) Close() error { return nil }

var _ ai.AIProvider = (*mockProvider)(nil)

func testPricing() config.PricingConfig {
	return config.PricingConfig{
		Mistral:      config.ModelPricing{InputPerMillionUSD: 0.10, OutputPerMillionUSD: 0.80},
		Gemini:       config.ModelPricing{InputPerMillionUSD: 0.30, OutputPerMillionUSD: 2.50},
		USDToCADRate: 1.40,
	}
}

func testResponses() types.UserResponses {
	return types.UserResponses{
		JobTitle:                "Budget Analyst",
		Department:              "Finance",
		ReportsTo:               "Budget Manager",
		PrimaryResponsibilities: "Prepares budgets",
	}
}

func TestGeneratorRunsStagesInOrder(t *testing.T) {
	mock := &mockProvider{}
	gen := NewGenerator(mock, "mistral", testPricing(), testLogger)

	jd, err := gen.Generate(context.Background(), types.OrgContext{OrganizationName: "City"}, testResponses())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	wantOrder := []string{
		ai.OpJobInfo, ai.OpResponsibilities, ai.OpPeopleManagement,
		ai.OpScope, ai.OpRequirements, ai.OpWorkingConditions,
	}
	if len(mock.stages) != len(wantOrder) {
		t.Fatalf("ran %d stages, want %d: %v", len(mock.stages), len(wantOrder), mock.stages)
	}
	for i, want := range wantOrder {
		if mock.stages[i] != want {
			t.Errorf("stage[%d] = %s, want %s", i, mock.stages[i], want)
		}
	}

	if jd.JobInfo.JobWorkingTitle != "Budget Analyst" {
		t.Errorf("title = %q", jd.JobInfo.JobWorkingTitle)
	}
	if jd.Boilerplate.MayPerformOtherDuties != BoilerplateMayPerformOtherDuties {
		t.Error("boilerplate duties text not applied")
	}
	if len(jd.ClassificationInfo.DateLastEvaluated) != 10 {
		t.Errorf("date last evaluated = %q, want MM/DD/YYYY", jd.ClassificationInfo.DateLastEvaluated)
	}
}

func TestGeneratorUsageAndCost(t *testing.T) {
	mock := &mockProvider{}
	gen := NewGenerator(mock, "mistral", testPricing(), testLogger)

	jd, err := gen.Generate(context.Background(), types.OrgContext{}, testResponses())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// Six stages at 100 in / 50 out each
	if jd.Usage.TotalInputTokens != 600 || jd.Usage.TotalOutputTokens != 300 {
		t.Errorf("usage = %+v", jd.Usage)
	}
	if jd.Usage.TotalTokens != 900 {
		t.Errorf("total tokens = %d, want 900", jd.Usage.TotalTokens)
	}

	wantUSD := 600.0/1e6*0.10 + 300.0/1e6*0.80
	if diff := jd.Usage.CostUSD - wantUSD; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("cost USD = %v, want %v", jd.Usage.CostUSD, wantUSD)
	}
	wantCAD := wantUSD * 1.40
	if diff := jd.Usage.CostCAD - wantCAD; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("cost CAD = %v, want %v", jd.Usage.CostCAD, wantCAD)
	}
}

func TestGeneratorSelectsTierGuidanceByLevel(t *testing.T) {
	mock := &mockProvider{}
	gen := NewGenerator(mock, "mistral", testPricing(), testLogger)

	if _, err := gen.Generate(context.Background(), types.OrgContext{}, testResponses()); err != nil {
		t.Fatal(err)
	}

	// The mock infers a senior role level
	if mock.tierGuidance != workingConditionTiers[types.RoleLevelSenior] {
		t.Errorf("tier guidance = %q, want senior tier", mock.tierGuidance)
	}
}

func TestGeneratorStopsOnStageFailure(t *testing.T) {
	mock := &mockProvider{failStage: ai.OpResponsibilities}
	gen := NewGenerator(mock, "mistral", testPricing(), testLogger)

	_, err := gen.Generate(context.Background(), types.OrgContext{}, testResponses())
	if err == nil {
		t.Fatal("expected stage failure to propagate")
	}
	if len(mock.stages) != 2 {
		t.Errorf("later stages should not run after a failure, ran %v", mock.stages)
	}
}

// writeTestDocument renders a small DOCX so extraction has real input
func writeTestDocument(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	doc := document.Document{
		Title:  "Budget Analyst",
		Blocks: []document.Block{{Kind: document.KindParagraph, Text: "Prepares budgets."}},
	}
	if err := document.RenderDOCX(doc, f); err != nil {
		t.Fatal(err)
	}
	return path
}

func testStandards(t *testing.T) *standards.Standards {
	t.Helper()
	std := &standards.Standards{ClassificationLevels: map[string]standards.Level{}}
	for i := standards.MinLevel; i <= standards.MaxLevel; i++ {
		code := standards.FormatLevel(i)
		std.ClassificationLevels[code] = standards.Level{
			Level:     i,
			Title:     "Level " + code,
			GradeCode: code,
			Categories: map[string][]string{
				"accountabilities": {"does work at " + code},
			},
		}
	}
	return std
}

func newTestEvaluator(mock *mockProvider, t *testing.T) *Evaluator {
	return NewEvaluator(mock, mock, mock, testStandards(t), testLogger)
}

func TestCompareRecordsFileNames(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeTestDocument(t, dir, "position_EC-06_old.docx")
	newPath := writeTestDocument(t, dir, "position_EC-06_new.docx")

	mock := &mockProvider{}
	ev := newTestEvaluator(mock, t)

	result, err := ev.Compare(context.Background(), oldPath, newPath)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if result.OldDocument != "position_EC-06_old.docx" {
		t.Errorf("old document = %q", result.OldDocument)
	}
	if result.NewDocument != "position_EC-06_new.docx" {
		t.Errorf("new document = %q", result.NewDocument)
	}
}

func TestGaugeDerivesLevelFromFilename(t *testing.T) {
	dir := t.TempDir()
	newPath := writeTestDocument(t, dir, "analyst_EC-06.docx")

	mock := &mockProvider{currentLevel: "EC-06"}
	ev := newTestEvaluator(mock, t)

	result, err := ev.Gauge(context.Background(), newPath, types.ComparisonResult{Summary: "s", OverallSignificance: "minor"})
	if err != nil {
		t.Fatalf("Gauge: %v", err)
	}
	if result.CurrentLevel != "EC-06" {
		t.Errorf("current level = %q, want EC-06", result.CurrentLevel)
	}
	if mock.gaugeInput.CurrentLevel != "EC-06" {
		t.Errorf("provider saw level %q", mock.gaugeInput.CurrentLevel)
	}
	// Neighbouring levels only
	if !strings.Contains(mock.gaugeInput.StandardsContext, "EC-05") ||
		!strings.Contains(mock.gaugeInput.StandardsContext, "EC-07") {
		t.Error("standards context should include the adjacent levels")
	}
	if strings.Contains(mock.gaugeInput.StandardsContext, "EC-09") {
		t.Error("standards context should not include distant levels")
	}
}

func TestGaugeUnknownLevelUsesAllStandards(t *testing.T) {
	dir := t.TempDir()
	newPath := writeTestDocument(t, dir, "analyst.docx")

	mock := &mockProvider{currentLevel: "EC-Unknown"}
	ev := newTestEvaluator(mock, t)

	result, err := ev.Gauge(context.Background(), newPath, types.ComparisonResult{Summary: "s", OverallSignificance: "minor"})
	if err != nil {
		t.Fatal(err)
	}
	if result.CurrentLevel != standards.UnknownLevel {
		t.Errorf("current level = %q, want %q", result.CurrentLevel, standards.UnknownLevel)
	}
	for _, code := range []string{"EC-01", "EC-09", "EC-17"} {
		if !strings.Contains(mock.gaugeInput.StandardsContext, code) {
			t.Errorf("full standards context missing %s", code)
		}
	}
}

func TestClassifyFlagsBelowPreviousLevel(t *testing.T) {
	dir := t.TempDir()
	path := writeTestDocument(t, dir, "analyst_EC-08.docx")

	mock := &mockProvider{recommendedLevel: "EC-06"}
	ev := newTestEvaluator(mock, t)

	result, err := ev.Classify(context.Background(), path, ClassifyOptions{})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}

	// Never corrected
	if result.RecommendedLevel != "EC-06" {
		t.Errorf("recommendation altered to %q", result.RecommendedLevel)
	}
	if result.PreviousLevel != "EC-08" {
		t.Errorf("previous level = %q", result.PreviousLevel)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("warnings = %v, want one entry", result.Warnings)
	}
	if !strings.Contains(result.Warnings[0], "below the previous level EC-08") {
		t.Errorf("warning text = %q", result.Warnings[0])
	}
}

func TestClassifyNoWarningAtOrAbovePrevious(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name        string
		file        string
		recommended string
	}{
		{"same level", "analyst_EC-06.docx", "EC-06"},
		{"above previous", "analyst_EC-06_v2.docx", "EC-07"},
		{"no previous level", "analyst.docx", "EC-05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTestDocument(t, dir, tt.file)
			mock := &mockProvider{recommendedLevel: tt.recommended}
			ev := newTestEvaluator(mock, t)

			result, err := ev.Classify(context.Background(), path, ClassifyOptions{})
			if err != nil {
				t.Fatal(err)
			}
			if len(result.Warnings) != 0 {
				t.Errorf("unexpected warnings: %v", result.Warnings)
			}
		})
	}
}

func TestFullWorkflowChainsStages(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeTestDocument(t, dir, "analyst_EC-06_old.docx")
	newPath := writeTestDocument(t, dir, "analyst_EC-06_new.docx")

	mock := &mockProvider{recommendedLevel: "EC-07", currentLevel: "EC-06"}
	ev := newTestEvaluator(mock, t)

	report, err := ev.FullWorkflow(context.Background(), oldPath, newPath)
	if err != nil {
		t.Fatalf("FullWorkflow: %v", err)
	}

	wantOrder := []string{ai.OpCompare, ai.OpGauge, ai.OpClassify}
	if len(mock.stages) != 3 {
		t.Fatalf("stages = %v", mock.stages)
	}
	for i, want := range wantOrder {
		if mock.stages[i] != want {
			t.Errorf("stage[%d] = %s, want %s", i, mock.stages[i], want)
		}
	}

	if !report.Classification.ChangeContextUsed {
		t.Error("classification should record that change context was used")
	}
	if !strings.Contains(mock.classifyInput.ChangeContext, "Scope expanded.") {
		t.Error("comparison summary missing from change context")
	}
	if !strings.Contains(mock.classifyInput.ChangeContext, "now supervises staff") {
		t.Error("classification-relevant change missing from change context")
	}
}
