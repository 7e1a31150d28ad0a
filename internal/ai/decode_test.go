package ai

import (
	"strings"
	"testing"

	"jobkit/internal/errors"
	"jobkit/internal/types"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare json", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  \n```json\n{\"a\":1}\n```\n  ", `{"a":1}`},
		{"no closing fence", "```json\n{\"a\":1}", `{"a":1}`},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFence(tt.input); got != tt.want {
				t.Errorf("StripCodeFence(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDecodeModelJSON(t *testing.T) {
	var out types.KeyResponsibilities
	raw := "```json\n{\"responsibilities\": [\"Leads analysis\", \"Writes reports\"]}\n```"
	if err := DecodeModelJSON(raw, OpResponsibilities, &out); err != nil {
		t.Fatalf("DecodeModelJSON: %v", err)
	}
	if len(out.Responsibilities) != 2 {
		t.Errorf("got %d responsibilities, want 2", len(out.Responsibilities))
	}
}

func TestDecodeModelJSONMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"truncated", `{"responsibilities": ["Leads`},
		{"prose", "Here are the responsibilities you asked for."},
		{"empty", ""},
		{"empty fence", "```json\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out types.KeyResponsibilities
			err := DecodeModelJSON(tt.raw, OpResponsibilities, &out)
			if err == nil {
				t.Fatal("expected decode error")
			}
			appErr, ok := err.(*errors.AppError)
			if !ok {
				t.Fatalf("expected *errors.AppError, got %T", err)
			}
			if appErr.Code != errors.ErrCodeMalformedResponse {
				t.Errorf("error code = %q, want %q", appErr.Code, errors.ErrCodeMalformedResponse)
			}
		})
	}
}

func TestValidateModelOutput(t *testing.T) {
	valid := types.RevaluationRecommendation{
		Confidence:          80,
		CurrentLevel:        "EC-06",
		LikelyNewLevelRange: "EC-06 to EC-07",
		Rationale:           "Material changes to decision making.",
		RiskAssessment:      "medium",
	}
	if err := ValidateModelOutput(OpGauge, &valid); err != nil {
		t.Fatalf("valid output rejected: %v", err)
	}

	invalid := valid
	invalid.Confidence = 140
	invalid.RiskAssessment = "catastrophic"
	err := ValidateModelOutput(OpGauge, &invalid)
	if err == nil {
		t.Fatal("expected schema violation")
	}
	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("expected *errors.AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeSchemaViolation {
		t.Errorf("error code = %q, want %q", appErr.Code, errors.ErrCodeSchemaViolation)
	}
	if !strings.Contains(appErr.Message, OpGauge) {
		t.Errorf("message should name the operation: %q", appErr.Message)
	}
}

func TestValidateModelOutputResponsibilityBounds(t *testing.T) {
	tooFew := types.KeyResponsibilities{Responsibilities: []string{"a", "b", "c"}}
	if err := ValidateModelOutput(OpResponsibilities, &tooFew); err == nil {
		t.Error("fewer than six responsibilities should be rejected")
	}

	enough := types.KeyResponsibilities{
		Responsibilities: []string{"a", "b", "c", "d", "e", "f", "g"},
	}
	if err := ValidateModelOutput(OpResponsibilities, &enough); err != nil {
		t.Errorf("seven responsibilities rejected: %v", err)
	}
}
