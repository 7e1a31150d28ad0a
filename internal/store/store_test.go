package store

import (
	"strings"
	"testing"

	"jobkit/internal/errors"
	"jobkit/internal/types"
)

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "Analyst", "Analyst"},
		{"spaces", "Senior Data Analyst", "Senior_Data_Analyst"},
		{"punctuation", "Manager, Finance & Ops", "Manager_Finance_Ops"},
		{"slashes", "HR/Payroll Lead", "HR_Payroll_Lead"},
		{"keeps hyphen", "Co-op Student", "Co-op_Student"},
		{"empty", "", "untitled"},
		{"only symbols", "///", "untitled"},
		{
			"long title capped at 50",
			strings.Repeat("a", 60),
			strings.Repeat("a", 50),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeTitle(tt.title); got != tt.want {
				t.Errorf("sanitizeTitle(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	for _, format := range []string{"txt", "pdf", "docx"} {
		if err := ValidateFormat(format); err != nil {
			t.Errorf("ValidateFormat(%q) = %v, want nil", format, err)
		}
	}

	err := ValidateFormat("xlsx")
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("expected *errors.AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeInvalidFormat {
		t.Errorf("error code = %q, want %q", appErr.Code, errors.ErrCodeInvalidFormat)
	}
	if !strings.Contains(appErr.Message, "Invalid format") {
		t.Errorf("message = %q, should contain 'Invalid format'", appErr.Message)
	}
}

func TestMediaType(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"txt", "text/plain; charset=utf-8"},
		{"pdf", "application/pdf"},
		{"docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	}
	for _, tt := range tests {
		if got := MediaType(tt.format); got != tt.want {
			t.Errorf("MediaType(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func minimalJobDescription(title string) types.JobDescription {
	return types.JobDescription{
		JobInfo:        types.JobInformation{JobWorkingTitle: title},
		OverallPurpose: types.OverallPurpose{PurposeText: "Does the work."},
		KeyResponsibilities: types.KeyResponsibilities{
			Responsibilities: []string{"a", "b", "c", "d", "e", "f"},
		},
	}
}

func TestSaveAndLookupGeneration(t *testing.T) {
	s := NewOutputStore(t.TempDir(), nil)
	jobID := "20260829_101500"

	paths, err := s.SaveGeneration(minimalJobDescription("Data Analyst"), jobID, "mistral")
	if err != nil {
		t.Fatalf("SaveGeneration: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("expected 3 written formats, got %d: %v", len(paths), paths)
	}

	for _, format := range SupportedFormats() {
		path, err := s.LookupGeneration("mistral", jobID, format)
		if err != nil {
			t.Errorf("LookupGeneration(%s): %v", format, err)
			continue
		}
		if path != paths[format] {
			t.Errorf("lookup path = %q, want %q", path, paths[format])
		}
		if !strings.Contains(path, "job_description_Data_Analyst_"+jobID+"_mistral") {
			t.Errorf("unexpected file name: %q", path)
		}
	}
}

func TestLookupGenerationWrongProvider(t *testing.T) {
	s := NewOutputStore(t.TempDir(), nil)
	jobID := "20260829_101500"
	if _, err := s.SaveGeneration(minimalJobDescription("Analyst"), jobID, "mistral"); err != nil {
		t.Fatal(err)
	}

	_, err := s.LookupGeneration("gemini", jobID, "txt")
	if err == nil {
		t.Fatal("expected miss for unsaved provider")
	}
	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("expected *errors.AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeOutputNotFound {
		t.Errorf("error code = %q, want %q", appErr.Code, errors.ErrCodeOutputNotFound)
	}
}

// An unknown format must be rejected before the file lookup happens, even
// when no file for the job exists at all.
func TestLookupFormatGatePrecedesNotFound(t *testing.T) {
	s := NewOutputStore(t.TempDir(), nil)

	_, err := s.LookupGeneration("mistral", "no_such_job", "xlsx")
	if err == nil {
		t.Fatal("expected error")
	}
	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("expected *errors.AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeInvalidFormat {
		t.Errorf("error code = %q, want %q (format gate must run first)",
			appErr.Code, errors.ErrCodeInvalidFormat)
	}

	_, err = s.LookupEvaluation("no_such_job", "xlsx")
	if appErr, ok := err.(*errors.AppError); !ok || appErr.Code != errors.ErrCodeInvalidFormat {
		t.Errorf("evaluation lookup: got %v, want INVALID_FORMAT", err)
	}
}

func TestSaveAndLookupEvaluation(t *testing.T) {
	s := NewOutputStore(t.TempDir(), nil)
	jobID := "1787000000123"

	report := types.EvaluationReport{
		Comparison: types.ComparisonResult{Summary: "Minor edits.", OverallSignificance: "minor"},
		Gauge:      types.RevaluationRecommendation{CurrentLevel: "EC-06", Confidence: 70},
		Classification: types.ClassificationRecommendation{
			PositionTitle:    "Senior Data Analyst",
			RecommendedLevel: "EC-06",
			Confidence:       75,
		},
	}

	if _, err := s.SaveEvaluation(report, jobID); err != nil {
		t.Fatalf("SaveEvaluation: %v", err)
	}

	path, err := s.LookupEvaluation(jobID, "pdf")
	if err != nil {
		t.Fatalf("LookupEvaluation: %v", err)
	}
	if !strings.Contains(path, "job_eval_Senior_Data_Analyst_"+jobID+".pdf") {
		t.Errorf("unexpected file name: %q", path)
	}
}

func TestJobIDFormats(t *testing.T) {
	gen := NewGenerationJobID()
	if len(gen) != 15 || gen[8] != '_' {
		t.Errorf("generation job ID %q should be YYYYMMDD_HHMMSS", gen)
	}

	eval := NewEvaluationJobID()
	if len(eval) < 13 {
		t.Errorf("evaluation job ID %q should be unix milliseconds", eval)
	}
	for _, c := range eval {
		if c < '0' || c > '9' {
			t.Errorf("evaluation job ID %q should be digits only", eval)
			break
		}
	}
}
