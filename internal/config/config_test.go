package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *Config {
	return &Config{
		AI: AIConfig{
			Provider:         "mistral",
			GeminiAPIKey:     "gem-key",
			GeminiModel:      "gemini-2.0-flash",
			MistralAPIKey:    "mis-key",
			MistralModel:     "mistral-medium-latest",
			Timeout:          60 * time.Second,
			MaxRetries:       3,
			Temperature:      0.3,
			UseSystemPrompts: true,
			Generate: GenerateAIConfig{
				StageTemperatures: map[string]float32{
					"job_info":           0.3,
					"responsibilities":   0.5,
					"people_management":  0.3,
					"scope":              0.6,
					"requirements":       0.4,
					"working_conditions": 0.3,
				},
			},
		},
	}
}

func TestGetOperationConfigFallbacks(t *testing.T) {
	cfg := baseConfig()

	tests := []struct {
		name     string
		get      func() OperationAIConfig
		provider string
		model    string
		apiKey   string
	}{
		{"generate", func() OperationAIConfig { return cfg.GetGenerateConfig().OperationAIConfig }, "mistral", "mistral-medium-latest", "mis-key"},
		{"compare", cfg.GetCompareConfig, "mistral", "mistral-medium-latest", "mis-key"},
		{"gauge", cfg.GetGaugeConfig, "mistral", "mistral-medium-latest", "mis-key"},
		{"classify", cfg.GetClassifyConfig, "mistral", "mistral-medium-latest", "mis-key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := tt.get()
			assert.Equal(t, tt.provider, op.Provider)
			assert.Equal(t, tt.model, op.Model)
			assert.Equal(t, tt.apiKey, op.APIKey)
			require.NotNil(t, op.Timeout)
			assert.Equal(t, 60*time.Second, *op.Timeout)
			require.NotNil(t, op.MaxRetries)
			assert.Equal(t, 3, *op.MaxRetries)
			require.NotNil(t, op.Temperature)
			require.NotNil(t, op.UseSystemPrompts)
			assert.True(t, *op.UseSystemPrompts)
		})
	}
}

func TestGetOperationConfigOverrides(t *testing.T) {
	cfg := baseConfig()
	timeout := 120 * time.Second
	retries := 1
	temp := float32(0.05)
	cfg.AI.Classify = OperationAIConfig{
		Provider:    "gemini",
		Timeout:     &timeout,
		MaxRetries:  &retries,
		Temperature: &temp,
	}

	op := cfg.GetClassifyConfig()

	assert.Equal(t, "gemini", op.Provider)
	assert.Equal(t, "gemini-2.0-flash", op.Model) // Filled from provider default
	assert.Equal(t, "gem-key", op.APIKey)         // Key follows the provider
	assert.Equal(t, timeout, *op.Timeout)
	assert.Equal(t, 1, *op.MaxRetries)
	assert.InDelta(t, 0.05, float64(*op.Temperature), 1e-6)
}

func TestGetGenerateConfigFor(t *testing.T) {
	cfg := baseConfig()

	gemini := cfg.GetGenerateConfigFor("gemini")
	assert.Equal(t, "gemini", gemini.Provider)
	assert.Equal(t, "gemini-2.0-flash", gemini.Model)
	assert.Equal(t, "gem-key", gemini.APIKey)

	mistral := cfg.GetGenerateConfigFor("mistral")
	assert.Equal(t, "mistral", mistral.Provider)
	assert.Equal(t, "mistral-medium-latest", mistral.Model)
	assert.Equal(t, "mis-key", mistral.APIKey)

	// Both resolved configs share stage temperatures
	assert.InDelta(t, 0.6, float64(gemini.StageTemperature("scope")), 1e-6)
	assert.InDelta(t, 0.6, float64(mistral.StageTemperature("scope")), 1e-6)
}

func TestStageTemperatureFallback(t *testing.T) {
	cfg := baseConfig()
	gen := cfg.GetGenerateConfig()

	assert.InDelta(t, 0.5, float64(gen.StageTemperature("responsibilities")), 1e-6)
	// Unknown stage falls back to the operation temperature
	assert.InDelta(t, 0.3, float64(gen.StageTemperature("no_such_stage")), 1e-6)
}

func TestPricingForProvider(t *testing.T) {
	pricing := PricingConfig{
		Gemini:       ModelPricing{InputPerMillionUSD: 0.30, OutputPerMillionUSD: 2.50},
		Mistral:      ModelPricing{InputPerMillionUSD: 0.10, OutputPerMillionUSD: 0.80},
		USDToCADRate: 1.40,
	}

	assert.Equal(t, 0.30, pricing.ForProvider("gemini").InputPerMillionUSD)
	assert.Equal(t, 0.80, pricing.ForProvider("mistral").OutputPerMillionUSD)
	// Unknown providers price as mistral, the default provider
	assert.Equal(t, 0.10, pricing.ForProvider("other").InputPerMillionUSD)
}

func TestValidateRejectsUnknownProvider(t *testing.T) {
	cfg := baseConfig()
	cfg.Server.Port = "8080"
	cfg.Output.Dir = "output"
	cfg.App.DefaultFormat = "text"
	cfg.App.SupportedFormats = []string{"json", "text", "markdown"}
	cfg.Server.TLS.Mode = "disabled"

	require.NoError(t, cfg.Validate())

	cfg.AI.Provider = "openai"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid AI provider")
}

func TestLoadPromptsFromFiles(t *testing.T) {
	tmpDir := t.TempDir()
	promptFile := filepath.Join(tmpDir, "classify_system.txt")
	require.NoError(t, os.WriteFile(promptFile, []byte("You are a classification analyst.\n"), 0644))

	cfg := baseConfig()
	cfg.AI.Classify.CustomPrompts.SystemFile = promptFile

	require.NoError(t, cfg.validatePromptFiles())
	require.NoError(t, cfg.loadPromptsFromFiles())

	assert.Equal(t, "You are a classification analyst.", cfg.AI.Classify.CustomPrompts.System)
}

func TestValidatePromptFilesMissing(t *testing.T) {
	cfg := baseConfig()
	cfg.AI.Compare.CustomPrompts.UserFile = "/nonexistent/prompt.txt"

	err := cfg.validatePromptFiles()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompt file not found")
}

func TestProviderKeyEnvFallbacks(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-gem")
	t.Setenv("MISTRAL_API_KEY", "env-mis")

	cfg := &Config{}
	cfg.applyProviderKeyFallbacks()

	assert.Equal(t, "env-gem", cfg.AI.GeminiAPIKey)
	assert.Equal(t, "env-mis", cfg.AI.MistralAPIKey)

	// Configured keys are never overwritten by environment
	cfg = &Config{AI: AIConfig{GeminiAPIKey: "cfg-gem"}}
	cfg.applyProviderKeyFallbacks()
	assert.Equal(t, "cfg-gem", cfg.AI.GeminiAPIKey)
}
