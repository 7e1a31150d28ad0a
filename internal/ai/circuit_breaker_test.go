package ai

import (
	"testing"
	"time"

	"jobkit/internal/config"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

func TestIndependentCircuitBreakerConfigurations(t *testing.T) {
	// Each operation gets its own circuit breaker configuration

	compareConfig := &config.OperationAIConfig{
		Provider: "gemini",
		Model:    "gemini-2.0-flash",
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          true,
			MaxRequests:      3,
			Interval:         60 * time.Second,
			Timeout:          60 * time.Second,
			MinRequests:      3,
			FailureThreshold: 0.6,
		},
	}

	gaugeConfig := &config.OperationAIConfig{
		Provider: "gemini",
		Model:    "gemini-2.0-flash",
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          true,
			MaxRequests:      5,
			Interval:         30 * time.Second,
			Timeout:          45 * time.Second,
			MinRequests:      2,
			FailureThreshold: 0.7,
		},
	}

	classifyConfig := &config.OperationAIConfig{
		Provider: "mistral",
		Model:    "mistral-medium-latest",
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          true,
			MaxRequests:      4,
			Interval:         90 * time.Second,
			Timeout:          75 * time.Second,
			MinRequests:      5,
			FailureThreshold: 0.5,
		},
	}

	compareCB := NewAICircuitBreaker[*genai.GenerateContentResponse]("compare", compareConfig, nil)
	gaugeCB := NewAICircuitBreaker[*genai.GenerateContentResponse]("gauge", gaugeConfig, nil)
	classifyCB := NewAICircuitBreaker[openai.ChatCompletionResponse]("classify", classifyConfig, nil)

	t.Run("CompareCircuitBreaker", func(t *testing.T) {
		stats := compareCB.GetStats()

		name, ok := stats["name"].(string)
		if !ok {
			t.Fatal("Circuit breaker name not found")
		}
		if name != "AI-compare" {
			t.Errorf("Expected circuit breaker name 'AI-compare', got '%s'", name)
		}

		state, ok := stats["state"].(string)
		if !ok {
			t.Fatal("Circuit breaker state not found")
		}
		if state != "closed" {
			t.Errorf("Expected initial state 'closed', got '%s'", state)
		}

		enabled, ok := stats["enabled"].(bool)
		if !ok {
			t.Fatal("Circuit breaker enabled status not found")
		}
		if !enabled {
			t.Error("Circuit breaker should be enabled")
		}
	})

	t.Run("GaugeCircuitBreaker", func(t *testing.T) {
		stats := gaugeCB.GetStats()
		if name, _ := stats["name"].(string); name != "AI-gauge" {
			t.Errorf("Expected circuit breaker name 'AI-gauge', got '%s'", name)
		}
	})

	t.Run("ClassifyCircuitBreaker", func(t *testing.T) {
		stats := classifyCB.GetStats()
		if name, _ := stats["name"].(string); name != "AI-classify" {
			t.Errorf("Expected circuit breaker name 'AI-classify', got '%s'", name)
		}
	})

	t.Run("IndependentInstances", func(t *testing.T) {
		if compareCB == gaugeCB {
			t.Error("Compare and gauge circuit breakers should be different instances")
		}
	})

	t.Run("IndependentHealthStates", func(t *testing.T) {
		if !compareCB.IsHealthy() {
			t.Error("Compare circuit breaker should be healthy initially")
		}
		if !gaugeCB.IsHealthy() {
			t.Error("Gauge circuit breaker should be healthy initially")
		}
		if !classifyCB.IsHealthy() {
			t.Error("Classify circuit breaker should be healthy initially")
		}
	})
}

func TestCircuitBreakerConfigurationMapping(t *testing.T) {
	customConfig := &config.OperationAIConfig{
		Provider: "gemini",
		Model:    "test-model",
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          true,
			MaxRequests:      10,
			Interval:         120 * time.Second,
			Timeout:          90 * time.Second,
			MinRequests:      5,
			FailureThreshold: 0.8,
		},
	}

	cb := NewAICircuitBreaker[*genai.GenerateContentResponse]("test", customConfig, nil)
	if cb == nil {
		t.Fatal("Circuit breaker should not be nil")
	}

	stats := cb.GetStats()
	if name, _ := stats["name"].(string); name != "AI-test" {
		t.Errorf("Expected circuit breaker name 'AI-test', got '%s'", name)
	}
}

func TestCircuitBreakerDisabled(t *testing.T) {
	disabledConfig := &config.OperationAIConfig{
		Provider: "gemini",
		Model:    "test-model",
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled: false,
		},
	}

	cb := NewAICircuitBreaker[*genai.GenerateContentResponse]("disabled", disabledConfig, nil)
	if cb != nil {
		t.Fatal("Circuit breaker should be nil when disabled")
	}

	// A nil breaker executes calls directly
	result, err := cb.Execute(func() (*genai.GenerateContentResponse, error) {
		return &genai.GenerateContentResponse{}, nil
	})
	if err != nil {
		t.Fatalf("nil breaker Execute: %v", err)
	}
	if result == nil {
		t.Error("nil breaker should pass the result through")
	}

	if !cb.IsHealthy() {
		t.Error("nil breaker should report healthy")
	}
	if enabled, _ := cb.GetStats()["enabled"].(bool); enabled {
		t.Error("nil breaker stats should report disabled")
	}
}
