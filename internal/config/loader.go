package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load загружает конфигурацию из YAML файла поверх значений по умолчанию
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", filename, err)
	}

	config := Default()
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга YAML: %w", err)
	}

	// Валидация конфигурации
	err = validateConfig(config)
	if err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}

	return config, nil
}

// validateConfig проверяет корректность конфигурации
func validateConfig(config *Config) error {
	if config.PracticeConfig.QuestionCount <= 0 {
		return fmt.Errorf("question_count должно быть больше 0")
	}

	if config.PracticeConfig.MutedAskDelayMs < 0 || config.PracticeConfig.FeedbackDelayMs < 0 {
		return fmt.Errorf("задержки не могут быть отрицательными")
	}

	if config.Speech.SilenceTimeoutMs <= 0 {
		return fmt.Errorf("silence_timeout_ms должно быть больше 0")
	}

	if config.Speech.GraceExtraMs < 0 {
		return fmt.Errorf("grace_extra_ms не может быть отрицательным")
	}

	if config.Speech.SpeakTimeoutMs <= 0 {
		return fmt.Errorf("speak_timeout_ms должно быть больше 0")
	}

	if config.Speech.Language == "" {
		return fmt.Errorf("speech.language должен быть задан")
	}

	if config.Speech.Rate <= 0 || config.Speech.Rate > 2 {
		return fmt.Errorf("speech.rate должен быть в диапазоне (0, 2]")
	}

	if config.Limits.StartsPerWindow <= 0 || config.Limits.WindowSeconds <= 0 {
		return fmt.Errorf("limits должны быть больше 0")
	}

	return nil
}
