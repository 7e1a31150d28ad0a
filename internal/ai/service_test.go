package ai

import (
	"log/slog"
	"testing"
	"time"

	"jobkit/internal/config"
	"jobkit/internal/errors"
)

func timePtr(d time.Duration) *time.Duration { return &d }
func intPtr(i int) *int                      { return &i }
func float32Ptr(f float32) *float32          { return &f }
func boolPtr(b bool) *bool                   { return &b }

var testLogger = errors.NewLogger(slog.LevelDebug)

func testOperationConfig(provider, apiKey string) *config.OperationAIConfig {
	return &config.OperationAIConfig{
		Provider:         provider,
		Model:            "test-model",
		APIKey:           apiKey,
		Timeout:          timePtr(30 * time.Second),
		MaxRetries:       intPtr(2),
		Temperature:      float32Ptr(0.3),
		UseSystemPrompts: boolPtr(true),
	}
}

func TestNewServiceUnknownProvider(t *testing.T) {
	_, err := NewService(testOperationConfig("anthropic", "key"), OpCompare, "", testLogger)
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("expected *errors.AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeInvalidConfig {
		t.Errorf("error code = %q, want %q", appErr.Code, errors.ErrCodeInvalidConfig)
	}
}

func TestNewServiceMissingAPIKey(t *testing.T) {
	for _, provider := range []string{"gemini", "mistral"} {
		t.Run(provider, func(t *testing.T) {
			_, err := NewService(testOperationConfig(provider, ""), OpClassify, "", testLogger)
			if err == nil {
				t.Fatal("expected error for missing API key")
			}
			appErr, ok := err.(*errors.AppError)
			if !ok {
				t.Fatalf("expected *errors.AppError, got %T", err)
			}
			if appErr.Code != errors.ErrCodeMissingAPIKey {
				t.Errorf("error code = %q, want %q", appErr.Code, errors.ErrCodeMissingAPIKey)
			}
		})
	}
}

func TestNewServiceMistral(t *testing.T) {
	svc, err := NewService(testOperationConfig("mistral", "test-key"), OpCompare, "", testLogger)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	defer svc.Close()

	if _, ok := svc.Provider.(*MistralProvider); !ok {
		t.Errorf("expected MistralProvider, got %T", svc.Provider)
	}
}

func TestNewGenerationServiceStageTemperatures(t *testing.T) {
	cfg := &config.GenerateAIConfig{
		OperationAIConfig: *testOperationConfig("mistral", "test-key"),
		StageTemperatures: map[string]float32{
			OpJobInfo: 0.3,
			OpScope:   0.6,
		},
	}

	svc, err := NewGenerationService(cfg, "", testLogger)
	if err != nil {
		t.Fatalf("NewGenerationService: %v", err)
	}
	defer svc.Close()

	provider, ok := svc.Provider.(*MistralProvider)
	if !ok {
		t.Fatalf("expected MistralProvider, got %T", svc.Provider)
	}

	if got := provider.temperatureFor(OpScope); got != 0.6 {
		t.Errorf("scope temperature = %v, want 0.6", got)
	}
	// Stages without an entry fall back to the operation temperature
	if got := provider.temperatureFor(OpResponsibilities); got != 0.3 {
		t.Errorf("fallback temperature = %v, want 0.3", got)
	}
}
