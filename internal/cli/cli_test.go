package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseResultsFileDetectsGauge(t *testing.T) {
	content := `{"should_reevaluate": true, "confidence": 85, "current_level": "EC-07"}`
	opts, err := parseResultsFile(content)
	if err != nil {
		t.Fatalf("parseResultsFile failed: %v", err)
	}
	if opts.Gauge == nil {
		t.Fatal("gauge payload not detected")
	}
	if opts.Comparison != nil {
		t.Error("comparison should be nil for a gauge payload")
	}
	if !opts.Gauge.ShouldReevaluate {
		t.Error("should_reevaluate not carried through")
	}
	if opts.Gauge.CurrentLevel != "EC-07" {
		t.Errorf("current_level = %q, want EC-07", opts.Gauge.CurrentLevel)
	}
}

func TestParseResultsFileDetectsComparison(t *testing.T) {
	content := `{"summary": "scope expanded", "changes_by_section": {"Scope": {"additions": ["new program"]}}, "overall_significance": "major"}`
	opts, err := parseResultsFile(content)
	if err != nil {
		t.Fatalf("parseResultsFile failed: %v", err)
	}
	if opts.Comparison == nil {
		t.Fatal("comparison payload not detected")
	}
	if opts.Gauge != nil {
		t.Error("gauge should be nil for a comparison payload")
	}
	if opts.Comparison.OverallSignificance != "major" {
		t.Errorf("overall_significance = %q, want major", opts.Comparison.OverallSignificance)
	}
}

func TestParseResultsFileRejectsUnknownPayload(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unrelated object", `{"foo": "bar"}`},
		{"not json", `plain text`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseResultsFile(tt.content); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestCollectUserResponses(t *testing.T) {
	answers := []string{
		"Budget Analyst",    // job title
		"Finance",           // department
		"",                  // division
		"Director, Finance", // reports to
		"Prepares the annual budget", // primary responsibilities
		"Budget reports",             // key deliverables
		"Provincial reporting focus", // unique aspects
		"yes",                        // manages people
		"3",                          // direct reports
		"",                           // indirect reports
		"",                           // other resources
		"Department heads",           // key contacts
		"Approves expenditures under 10k", // decision authority
		"Moderate judgment",               // innovation
		"Affects departmental budgets",    // impact
		"",                                // special requirements
	}
	in := strings.NewReader(strings.Join(answers, "\n") + "\n")
	var out bytes.Buffer

	r := collectUserResponses(in, &out)

	if r.JobTitle != "Budget Analyst" {
		t.Errorf("JobTitle = %q", r.JobTitle)
	}
	if r.Department != "Finance" {
		t.Errorf("Department = %q", r.Department)
	}
	if r.DivisionSection != "" {
		t.Errorf("DivisionSection = %q, want empty", r.DivisionSection)
	}
	if !r.ManagesPeople {
		t.Error("ManagesPeople = false, want true")
	}
	if r.NumDirectReports != "3" {
		t.Errorf("NumDirectReports = %q", r.NumDirectReports)
	}
	if r.SpecialRequirements != "" {
		t.Errorf("SpecialRequirements = %q, want empty", r.SpecialRequirements)
	}
	if !strings.Contains(out.String(), "12.") {
		t.Error("questionnaire did not reach question 12")
	}
}

func TestCollectUserResponsesNonManager(t *testing.T) {
	answers := []string{
		"Clerk", "Records", "", "Supervisor, Records",
		"Files documents", "", "",
		"no", // manages people; reports questions skipped
		"Public",
		"None", "Low", "Limited", "",
	}
	in := strings.NewReader(strings.Join(answers, "\n") + "\n")
	var out bytes.Buffer

	r := collectUserResponses(in, &out)

	if r.ManagesPeople {
		t.Error("ManagesPeople = true, want false")
	}
	if r.NumDirectReports != "" {
		t.Errorf("NumDirectReports = %q, want empty", r.NumDirectReports)
	}
	if r.KeyContacts != "Public" {
		t.Errorf("KeyContacts = %q", r.KeyContacts)
	}
}
