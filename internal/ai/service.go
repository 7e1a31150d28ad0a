package ai

import (
	"context"
	"fmt"

	"jobkit/internal/config"
	"jobkit/internal/errors"
)

// Service wraps an AIProvider configured for one operation
type Service struct {
	Provider AIProvider // Exported for access from server package
	config   *config.OperationAIConfig
	logger   *errors.Logger
}

// NewService creates an AI service for an evaluation operation
// (compare, gauge, classify).
func NewService(cfg *config.OperationAIConfig, operationType, mistralBaseURL string, logger *errors.Logger) (*Service, error) {
	return newService(cfg, nil, operationType, mistralBaseURL, logger)
}

// NewGenerationService creates an AI service for the job description
// pipeline, carrying the per-stage temperature table.
func NewGenerationService(cfg *config.GenerateAIConfig, mistralBaseURL string, logger *errors.Logger) (*Service, error) {
	return newService(&cfg.OperationAIConfig, cfg.StageTemperatures, "generate", mistralBaseURL, logger)
}

func newService(cfg *config.OperationAIConfig, stageTemps map[string]float32, operationType, mistralBaseURL string, logger *errors.Logger) (*Service, error) {
	logger.Debug("Initializing AI service",
		"provider", cfg.Provider,
		"operation_type", operationType,
		"model", cfg.Model,
		"temperature", *cfg.Temperature,
		"timeout", *cfg.Timeout,
		"max_retries", *cfg.MaxRetries,
		"use_system_prompts", *cfg.UseSystemPrompts)

	var provider AIProvider
	var err error

	switch cfg.Provider {
	case "gemini":
		provider, err = NewGeminiProvider(cfg, stageTemps, operationType, logger)
	case "mistral":
		provider, err = NewMistralProvider(cfg, mistralBaseURL, stageTemps, operationType, logger)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}

	if err != nil {
		return nil, err
	}

	return &Service{
		Provider: provider,
		config:   cfg,
		logger:   logger,
	}, nil
}

// GetModelInfo returns information about the AI model for health checks
func (s *Service) GetModelInfo(ctx context.Context) any {
	return s.Provider.GetModelInfo(ctx)
}

// Close releases the provider
func (s *Service) Close() error {
	return s.Provider.Close()
}
