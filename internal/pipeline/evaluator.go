package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"jobkit/internal/ai"
	"jobkit/internal/document"
	"jobkit/internal/errors"
	"jobkit/internal/standards"
	"jobkit/internal/types"
)

// Evaluator chains the document evaluation operations. Each operation can
// run against its own provider; the standards set is shared.
type Evaluator struct {
	compare   ai.AIProvider
	gauge     ai.AIProvider
	classify  ai.AIProvider
	standards *standards.Standards
	logger    *errors.Logger
}

// NewEvaluator creates an evaluator over per-operation providers
func NewEvaluator(compare, gauge, classify ai.AIProvider, std *standards.Standards, logger *errors.Logger) *Evaluator {
	return &Evaluator{
		compare:   compare,
		gauge:     gauge,
		classify:  classify,
		standards: std,
		logger:    logger,
	}
}

// Compare extracts both documents and produces a structured diff
func (e *Evaluator) Compare(ctx context.Context, oldPath, newPath string) (types.ComparisonResult, error) {
	oldText, err := document.ExtractText(oldPath)
	if err != nil {
		return types.ComparisonResult{}, err
	}
	newText, err := document.ExtractText(newPath)
	if err != nil {
		return types.ComparisonResult{}, err
	}

	result, _, err := e.compare.CompareDocuments(ctx, oldText, newText)
	if err != nil {
		return types.ComparisonResult{}, err
	}

	result.OldDocument = filepath.Base(oldPath)
	result.NewDocument = filepath.Base(newPath)

	e.logger.Info("Comparison complete",
		"old", result.OldDocument,
		"new", result.NewDocument,
		"significance", result.OverallSignificance)

	return result, nil
}

// Gauge assesses whether a compared position should be formally reevaluated.
// The current level is derived from the new document's filename; when the
// filename carries no level the full standards set is used as context.
func (e *Evaluator) Gauge(ctx context.Context, newPath string, comparison types.ComparisonResult) (types.RevaluationRecommendation, error) {
	currentLevel := standards.LevelFromFilename(filepath.Base(newPath))

	result, _, err := e.gauge.AssessRevaluation(ctx, ai.GaugeInput{
		Comparison:       comparison,
		CurrentLevel:     currentLevel,
		StandardsContext: e.standards.RelevantContext(currentLevel),
	})
	if err != nil {
		return types.RevaluationRecommendation{}, err
	}

	result.CurrentLevel = currentLevel

	e.logger.Info("Revaluation gauge complete",
		"current_level", currentLevel,
		"should_reevaluate", result.ShouldReevaluate,
		"confidence", result.Confidence)

	return result, nil
}

// ClassifyOptions carries the optional change context into classification
type ClassifyOptions struct {
	Comparison *types.ComparisonResult
	Gauge      *types.RevaluationRecommendation
}

// Classify recommends a classification level for the position at path.
// A previous level found in the filename and any change context are advisory
// inputs; a recommendation below the previous level is flagged in Warnings
// and logged, never corrected.
func (e *Evaluator) Classify(ctx context.Context, path string, opts ClassifyOptions) (types.ClassificationRecommendation, error) {
	text, err := document.ExtractText(path)
	if err != nil {
		return types.ClassificationRecommendation{}, err
	}

	previousLevel := standards.LevelFromFilename(filepath.Base(path))
	if previousLevel == standards.UnknownLevel {
		previousLevel = ""
	}

	input := ai.ClassifyInput{
		DocumentText:     text,
		StandardsContext: e.standards.AllLevelsContext(),
		PreviousLevel:    previousLevel,
	}
	if opts.Comparison != nil {
		input.ChangeContext = changeContextText(*opts.Comparison, opts.Gauge)
	}

	result, _, err := e.classify.ClassifyPosition(ctx, input)
	if err != nil {
		return types.ClassificationRecommendation{}, err
	}

	result.PreviousLevel = previousLevel
	result.ChangeContextUsed = input.ChangeContext != ""
	e.flagBelowPrevious(&result)

	e.logger.Info("Classification complete",
		"title", result.PositionTitle,
		"recommended_level", result.RecommendedLevel,
		"previous_level", result.PreviousLevel,
		"confidence", result.Confidence,
		"warnings", len(result.Warnings))

	return result, nil
}

// flagBelowPrevious appends an advisory warning when the recommendation sits
// ordinally below the documented previous level. The recommendation stands.
func (e *Evaluator) flagBelowPrevious(rec *types.ClassificationRecommendation) {
	if rec.PreviousLevel == "" {
		return
	}

	recommended, err := standards.ParseLevel(rec.RecommendedLevel)
	if err != nil {
		return
	}
	previous, err := standards.ParseLevel(rec.PreviousLevel)
	if err != nil {
		return
	}

	if recommended < previous {
		warning := fmt.Sprintf("recommended level %s is below the previous level %s; verify before acting on this recommendation",
			rec.RecommendedLevel, rec.PreviousLevel)
		rec.Warnings = append(rec.Warnings, warning)
		e.logger.Warn("Classification below previous level",
			"title", rec.PositionTitle,
			"recommended_level", rec.RecommendedLevel,
			"previous_level", rec.PreviousLevel)
	}
}

// FullWorkflow chains compare, gauge and classify over one document pair
func (e *Evaluator) FullWorkflow(ctx context.Context, oldPath, newPath string) (types.EvaluationReport, error) {
	comparison, err := e.Compare(ctx, oldPath, newPath)
	if err != nil {
		return types.EvaluationReport{}, err
	}

	gauge, err := e.Gauge(ctx, newPath, comparison)
	if err != nil {
		return types.EvaluationReport{}, err
	}

	classification, err := e.Classify(ctx, newPath, ClassifyOptions{
		Comparison: &comparison,
		Gauge:      &gauge,
	})
	if err != nil {
		return types.EvaluationReport{}, err
	}

	return types.EvaluationReport{
		Comparison:     comparison,
		Gauge:          gauge,
		Classification: classification,
	}, nil
}

// changeContextText summarizes the comparison (and gauge, when present) for
// the classifier's change context block
func changeContextText(comparison types.ComparisonResult, gauge *types.RevaluationRecommendation) string {
	text := fmt.Sprintf("Overall significance: %s\n%s", comparison.OverallSignificance, comparison.Summary)
	if len(comparison.ClassificationRelevantChanges) > 0 {
		text += "\nClassification-relevant changes:"
		for category, changes := range comparison.ClassificationRelevantChanges {
			for _, change := range changes {
				text += fmt.Sprintf("\n- [%s] %s", category, change)
			}
		}
	}
	if gauge != nil {
		text += fmt.Sprintf("\nRevaluation assessment: should_reevaluate=%t, likely range %s",
			gauge.ShouldReevaluate, gauge.LikelyNewLevelRange)
	}
	return text
}
