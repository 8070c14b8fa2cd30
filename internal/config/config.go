package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"summify/internal/summarizer"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr           string        `env:"HTTP_ADDR"             envDefault:":8080"`
	LogLevel           string        `env:"LOG_LEVEL"             envDefault:"info"`
	LLMProvider        string        `env:"LLM_PROVIDER"          envDefault:"groq"`
	LLMModel           string        `env:"LLM_MODEL"`
	LLMBaseURL         string        `env:"LLM_BASE_URL"`
	LLMMaxTokens       int64         `env:"LLM_MAX_TOKENS"        envDefault:"4096"`
	TranscriptLanguage string        `env:"TRANSCRIPT_LANGUAGE"   envDefault:"en"`
	FetchTimeout       time.Duration `env:"FETCH_TIMEOUT"         envDefault:"30s"`
	PipelineTimeout    time.Duration `env:"PIPELINE_TIMEOUT"      envDefault:"5m"`
	PageMaxBodyBytes   int64         `env:"PAGE_MAX_BODY_BYTES"   envDefault:"5242880"`
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"6"`
	RateLimitBurst     int           `env:"RATE_LIMIT_BURST"      envDefault:"2"`

	PageAllowPrivateNetworks bool `env:"PAGE_ALLOW_PRIVATE_NETWORKS" envDefault:"false"`
}

func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err = cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	switch strings.ToLower(strings.TrimSpace(c.LLMProvider)) {
	case summarizer.ProviderGroq, summarizer.ProviderOpenAI, summarizer.ProviderAnthropic:
	default:
		errs = append(errs, fmt.Errorf("LLM_PROVIDER must be one of groq, openai, anthropic (got %q)", c.LLMProvider))
	}

	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	if c.LLMMaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("LLM_MAX_TOKENS must be positive (got %d)", c.LLMMaxTokens))
	}

	if c.FetchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("FETCH_TIMEOUT must be positive (got %s)", c.FetchTimeout))
	}

	if c.PipelineTimeout <= 0 {
		errs = append(errs, fmt.Errorf("PIPELINE_TIMEOUT must be positive (got %s)", c.PipelineTimeout))
	}

	if c.PageMaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("PAGE_MAX_BODY_BYTES must be positive (got %d)", c.PageMaxBodyBytes))
	}

	if c.RateLimitPerMinute < 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative (got %d)", c.RateLimitPerMinute))
	}

	if c.RateLimitBurst <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_BURST must be positive (got %d)", c.RateLimitBurst))
	}

	return errors.Join(errs...)
}

func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error (got %q)", c.LogLevel)
	}

	return level, nil
}

func (c Config) Summarizer() summarizer.Config {
	return summarizer.Config{
		Provider:  c.LLMProvider,
		Model:     c.LLMModel,
		BaseURL:   c.LLMBaseURL,
		MaxTokens: c.LLMMaxTokens,
	}
}
