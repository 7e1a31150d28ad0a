package types

// ChangeCategory groups the changes detected in one document section
type ChangeCategory struct {
	Additions     []string `json:"additions"`
	Deletions     []string `json:"deletions"`
	Modifications []string `json:"modifications"` // "old -> new" pairs
}

// ComparisonResult is the structured diff between two position descriptions
type ComparisonResult struct {
	OldDocument                   string                    `json:"old_document"`
	NewDocument                   string                    `json:"new_document"`
	Summary                       string                    `json:"summary" validate:"required"`
	ChangesBySection              map[string]ChangeCategory `json:"changes_by_section"`
	ClassificationRelevantChanges map[string][]string       `json:"classification_relevant_changes"`
	OverallSignificance           string                    `json:"overall_significance" validate:"required,oneof=minor moderate major"`
}

// RevaluationRecommendation answers whether documented changes are material
// enough to justify a fresh classification attempt
type RevaluationRecommendation struct {
	ShouldReevaluate    bool     `json:"should_reevaluate"`
	Confidence          int      `json:"confidence" validate:"gte=0,lte=100"`
	CurrentLevel        string   `json:"current_level" validate:"required"`
	LikelyNewLevelRange string   `json:"likely_new_level_range" validate:"required"`
	Rationale           string   `json:"rationale" validate:"required"`
	KeyFactors          []string `json:"key_factors"`
	CategoriesAffected  []string `json:"categories_affected"`
	RiskAssessment      string   `json:"risk_assessment" validate:"required,oneof=low medium high"`
}

// ClassificationRecommendation is the final level proposal for a position.
//
// Warnings carries advisory flags the pipeline attaches after decoding, such
// as a recommended level sitting below the documented previous level. The
// recommendation itself is never altered.
type ClassificationRecommendation struct {
	PositionTitle       string            `json:"position_title" validate:"required"`
	RecommendedLevel    string            `json:"recommended_level" validate:"required"`
	Confidence          int               `json:"confidence" validate:"gte=0,lte=100"`
	PreviousLevel       string            `json:"previous_level,omitempty"`
	Rationale           string            `json:"rationale" validate:"required"`
	CategoryAnalysis    map[string]string `json:"category_analysis"`
	SupportingEvidence  []string          `json:"supporting_evidence"`
	AlternativeLevels   []string          `json:"alternative_levels"`
	ChangeContextUsed   bool              `json:"change_context_used"`
	ComparablePositions []string          `json:"comparable_positions"`
	Warnings            []string          `json:"warnings,omitempty"`
}

// EvaluationReport aggregates the three evaluation stages for persistence
// and for the full-workflow endpoint
type EvaluationReport struct {
	Comparison     ComparisonResult             `json:"comparison"`
	Gauge          RevaluationRecommendation    `json:"gauge"`
	Classification ClassificationRecommendation `json:"classification"`
}
