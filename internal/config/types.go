package config

import "time"

// Config представляет конфигурацию практического интервью
type Config struct {
	PracticeConfig PracticeConfig `yaml:"practice_config"`
	Speech         SpeechConfig   `yaml:"speech"`
	Limits         LimitsConfig   `yaml:"limits"`
}

// PracticeConfig содержит общие настройки сессии
type PracticeConfig struct {
	QuestionCount   int `yaml:"question_count"`
	MutedAskDelayMs int `yaml:"muted_ask_delay_ms"`
	FeedbackDelayMs int `yaml:"feedback_delay_ms"`
}

// SpeechConfig настройки синтеза и распознавания речи
type SpeechConfig struct {
	Language         string  `yaml:"language"`
	Rate             float64 `yaml:"rate"`
	SilenceTimeoutMs int     `yaml:"silence_timeout_ms"`
	GraceExtraMs     int     `yaml:"grace_extra_ms"`
	SpeakTimeoutMs   int     `yaml:"speak_timeout_ms"`
}

// LimitsConfig ограничения на запуск сессий
type LimitsConfig struct {
	StartsPerWindow int `yaml:"starts_per_window"`
	WindowSeconds   int `yaml:"window_seconds"`
}

// Default значения по умолчанию, совпадающие с config/practice.yaml
func Default() *Config {
	return &Config{
		PracticeConfig: PracticeConfig{
			QuestionCount:   5,
			MutedAskDelayMs: 1500,
			FeedbackDelayMs: 2000,
		},
		Speech: SpeechConfig{
			Language:         "en-US",
			Rate:             0.95,
			SilenceTimeoutMs: 4000,
			GraceExtraMs:     5000,
			SpeakTimeoutMs:   60000,
		},
		Limits: LimitsConfig{
			StartsPerWindow: 5,
			WindowSeconds:   60,
		},
	}
}

// Методы для удобного доступа к конфигурации
func (c *Config) GetQuestionCount() int {
	return c.PracticeConfig.QuestionCount
}

func (c *Config) MutedAskDelay() time.Duration {
	return time.Duration(c.PracticeConfig.MutedAskDelayMs) * time.Millisecond
}

func (c *Config) FeedbackDelay() time.Duration {
	return time.Duration(c.PracticeConfig.FeedbackDelayMs) * time.Millisecond
}

func (c *Config) SilenceTimeout() time.Duration {
	return time.Duration(c.Speech.SilenceTimeoutMs) * time.Millisecond
}

func (c *Config) GraceExtra() time.Duration {
	return time.Duration(c.Speech.GraceExtraMs) * time.Millisecond
}

func (c *Config) SpeakTimeout() time.Duration {
	return time.Duration(c.Speech.SpeakTimeoutMs) * time.Millisecond
}

func (c *Config) StartWindow() time.Duration {
	return time.Duration(c.Limits.WindowSeconds) * time.Second
}
