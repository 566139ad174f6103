// Package config provides configuration for the agentd server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the server configuration.
type Config struct {
	// Server settings
	HTTPPort int `yaml:"http_port"`

	// Database
	DatabaseURL string `yaml:"database_url"`

	// LLM gateway (OpenAI-compatible, e.g. LiteLLM)
	LLMBaseURL string        `yaml:"llm_base_url"`
	LLMAPIKey  string        `yaml:"llm_api_key"`
	LLMTimeout time.Duration `yaml:"llm_timeout"`

	// Engine
	MaxIterations       int `yaml:"max_iterations"`
	SummaryTargetTokens int `yaml:"summary_target_tokens"`

	// Tool settings
	WorkDir   string `yaml:"work_dir"`
	SearchURL string `yaml:"search_url"`
	SMTPAddr  string `yaml:"smtp_addr"`
	SMTPFrom  string `yaml:"smtp_from"`

	// Logging
	LogLevel string `yaml:"log_level"`
}

// Load builds the configuration from environment variables, with an
// optional YAML file (AGENTD_CONFIG) applied first so env vars win.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("AGENTD_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.HTTPPort = getEnvInt("HTTP_PORT", cfg.HTTPPort)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.LLMBaseURL = getEnv("LLM_BASE_URL", cfg.LLMBaseURL)
	cfg.LLMAPIKey = getEnv("LLM_API_KEY", cfg.LLMAPIKey)
	cfg.LLMTimeout = time.Duration(getEnvInt("LLM_TIMEOUT_MS", int(cfg.LLMTimeout/time.Millisecond))) * time.Millisecond
	cfg.MaxIterations = getEnvInt("MAX_ITERATIONS", cfg.MaxIterations)
	cfg.SummaryTargetTokens = getEnvInt("SUMMARY_TARGET_TOKENS", cfg.SummaryTargetTokens)
	cfg.WorkDir = getEnv("WORK_DIR", cfg.WorkDir)
	cfg.SearchURL = getEnv("SEARCH_URL", cfg.SearchURL)
	cfg.SMTPAddr = getEnv("SMTP_ADDR", cfg.SMTPAddr)
	cfg.SMTPFrom = getEnv("SMTP_FROM", cfg.SMTPFrom)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		HTTPPort:            8080,
		DatabaseURL:         "file:agentd.db?cache=shared&mode=rwc",
		LLMBaseURL:          "http://localhost:4000",
		LLMTimeout:          120 * time.Second,
		MaxIterations:       5,
		SummaryTargetTokens: 1024,
		WorkDir:             ".",
		LogLevel:            "info",
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
