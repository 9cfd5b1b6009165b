package config

import (
	"fmt"
)

const (
	BackendREST = "rest"
	BackendSDK  = "sdk"
)

// AIConfig настройки генеративного AI (Gemini)
type AIConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Backend     string
	MaxTokens   int
	Temperature float64
}

// LoadAIConfig загружает конфигурацию AI из переменных окружения
func LoadAIConfig() AIConfig {
	return AIConfig{
		APIKey:      getEnv("GEMINI_API_KEY", ""),
		Model:       getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		BaseURL:     getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		Backend:     getEnv("AI_BACKEND", BackendREST),
		MaxTokens:   getEnvAsInt("AI_MAX_TOKENS", 2048),
		Temperature: getEnvAsFloat("AI_TEMPERATURE", 0.7),
	}
}

// ValidateConfig проверяет корректность конфигурации
func (c AIConfig) ValidateConfig() error {
	if c.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}

	if c.MaxTokens <= 0 {
		return fmt.Errorf("AI_MAX_TOKENS must be positive")
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("AI_TEMPERATURE must be between 0 and 2")
	}

	if c.Backend != BackendREST && c.Backend != BackendSDK {
		return fmt.Errorf("AI_BACKEND must be %q or %q", BackendREST, BackendSDK)
	}

	return nil
}

// GetModelInfo возвращает информацию о используемой модели
func (c AIConfig) GetModelInfo() map[string]interface{} {
	return map[string]interface{}{
		"model":       c.Model,
		"max_tokens":  c.MaxTokens,
		"temperature": c.Temperature,
		"backend":     c.Backend,
		"provider":    "Gemini",
	}
}
