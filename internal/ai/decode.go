package ai

import (
	"encoding/json"
	"strings"
	"sync"

	"jobkit/internal/errors"

	"github.com/go-playground/validator/v10"
)

// StripCodeFence removes a surrounding markdown code fence from model
// output. Handles both ```json and bare ``` fences; anything else passes
// through untouched.
func StripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimPrefix(trimmed, "json")
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

// DecodeModelJSON decodes model output into out. The raw text is fence
// stripped first; a decode failure is always UPSTREAM_RESPONSE_MALFORMED
// so callers never see partial output from a malformed response.
func DecodeModelJSON(raw string, operation string, out any) error {
	cleaned := StripCodeFence(raw)
	if cleaned == "" {
		return errors.NewAIError(errors.ErrCodeMalformedResponse,
			"Empty model response for "+operation, nil)
	}

	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return errors.NewAIError(errors.ErrCodeMalformedResponse,
			"Failed to parse model response for "+operation, err).
			WithContext("operation", operation)
	}
	return nil
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func outputValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateModelOutput checks a decoded response against its struct
// validation tags. Violations surface as UPSTREAM_SCHEMA_VIOLATION.
func ValidateModelOutput(operation string, out any) error {
	if err := outputValidator().Struct(out); err != nil {
		return errors.NewAIError(errors.ErrCodeSchemaViolation,
			"Model response for "+operation+" violates the expected schema", err).
			WithContext("operation", operation)
	}
	return nil
}
