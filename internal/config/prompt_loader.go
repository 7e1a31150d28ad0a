package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// operationPrompts returns the prompt overrides for every AI operation,
// keyed by operation name. Pointers allow in-place file loading.
func (c *Config) operationPrompts() map[string]*PromptOverride {
	return map[string]*PromptOverride{
		"generate": &c.AI.Generate.CustomPrompts,
		"compare":  &c.AI.Compare.CustomPrompts,
		"gauge":    &c.AI.Gauge.CustomPrompts,
		"classify": &c.AI.Classify.CustomPrompts,
	}
}

// loadPromptsFromFiles loads custom prompts from external files if file
// paths are specified. Inline prompt content always wins over file content.
func (c *Config) loadPromptsFromFiles() error {
	log.Println("[CONFIG] Starting custom prompt loading from files")

	loaded := 0
	for operation, prompts := range c.operationPrompts() {
		if prompts.SystemFile != "" && prompts.System == "" {
			content, err := loadPromptFromFile(prompts.SystemFile, "system", operation)
			if err != nil {
				return err
			}
			prompts.System = content
			loaded++
		}
		if prompts.UserFile != "" && prompts.User == "" {
			content, err := loadPromptFromFile(prompts.UserFile, "user", operation)
			if err != nil {
				return err
			}
			prompts.User = content
			loaded++
		}
	}

	if loaded == 0 {
		log.Println("[CONFIG] No custom prompts loaded - using built-in defaults")
	} else {
		log.Printf("[CONFIG] Total custom prompts loaded: %d", loaded)
	}

	return nil
}

// loadPromptFromFile loads a prompt from a file with proper error handling and logging
func loadPromptFromFile(filePath, promptType, operation string) (string, error) {
	// Resolve relative paths
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s %s prompt file '%s': %w", promptType, operation, filePath, err)
	}

	// Check if file exists
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%s %s prompt file not found: %s", promptType, operation, absPath)
	}

	// Read file content
	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s %s prompt file '%s': %w", promptType, operation, absPath, err)
	}

	// Validate content is not empty
	trimmedContent := strings.TrimSpace(string(content))
	if trimmedContent == "" {
		return "", fmt.Errorf("%s %s prompt file '%s' is empty", promptType, operation, absPath)
	}

	// Log successful loading
	log.Printf("[CONFIG] Successfully loaded %s %s prompt from file: %s (%d characters)",
		promptType, operation, absPath, len(trimmedContent))

	return trimmedContent, nil
}

// validatePromptFiles validates that prompt files exist and are readable before loading
func (c *Config) validatePromptFiles() error {
	var validationErrors []string

	validateFile := func(filePath, promptType, operation string) {
		if filePath == "" {
			return // No file specified, skip validation
		}

		absPath, err := filepath.Abs(filePath)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("invalid path for %s %s prompt: %s", promptType, operation, filePath))
			return
		}

		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			validationErrors = append(validationErrors, fmt.Sprintf("%s %s prompt file not found: %s", promptType, operation, absPath))
		}
	}

	for operation, prompts := range c.operationPrompts() {
		validateFile(prompts.SystemFile, "system", operation)
		validateFile(prompts.UserFile, "user", operation)
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}

	return nil
}
