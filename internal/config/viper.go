// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"

	"fintracker/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	CSV      CSVConfig      `mapstructure:"csv" yaml:"csv"`
	AI       AIConfig       `mapstructure:"ai" yaml:"ai"`
	Import   ImportConfig   `mapstructure:"import" yaml:"import"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

type CSVConfig struct {
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// ProviderConfig holds the credentials and model of one LLM provider.
type ProviderConfig struct {
	APIKey string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	Model  string `mapstructure:"model" yaml:"model"`
}

type AIConfig struct {
	Enabled        bool           `mapstructure:"enabled" yaml:"enabled"`
	TimeoutSeconds int            `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	Gemini         ProviderConfig `mapstructure:"gemini" yaml:"gemini"`
	OpenAI         ProviderConfig `mapstructure:"openai" yaml:"openai"`
}

// ImportConfig tunes the batch categorization of imported statements.
type ImportConfig struct {
	BatchSize        int `mapstructure:"batch_size" yaml:"batch_size"`
	BatchConcurrency int `mapstructure:"batch_concurrency" yaml:"batch_concurrency"`
	BatchThreshold   int `mapstructure:"batch_threshold" yaml:"batch_threshold"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
	DSN    string `mapstructure:"dsn" yaml:"dsn"`
}

// HasProvider reports whether at least one LLM provider has credentials.
func (c AIConfig) HasProvider() bool {
	return c.Gemini.APIKey != "" || c.OpenAI.APIKey != ""
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.fintracker")
	v.AddConfigPath(".fintracker")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix("FINTRACKER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// 5. Provider keys come from their conventional, unprefixed variables
	for key, env := range map[string]string{
		"ai.gemini.api_key": "GEMINI_API_KEY",
		"ai.openai.api_key": "OPENAI_API_KEY",
	} {
		if err := v.BindEnv(key, env); err != nil {
			fmt.Printf("Warning: failed to bind %s environment variable: %v\n", env, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.timeout_seconds", 60)
	v.SetDefault("ai.gemini.model", "gemini-2.0-flash")
	v.SetDefault("ai.openai.model", "gpt-4o-mini")
	// registered so AutomaticEnv and Unmarshal see the keys
	v.SetDefault("ai.gemini.api_key", "")
	v.SetDefault("ai.openai.api_key", "")

	v.SetDefault("import.batch_size", 15)
	v.SetDefault("import.batch_concurrency", 3)
	v.SetDefault("import.batch_threshold", 20)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "fintracker.db")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if config.AI.Enabled {
		if !config.AI.HasProvider() {
			return fmt.Errorf("GEMINI_API_KEY or OPENAI_API_KEY required when AI is enabled")
		}
		if config.AI.TimeoutSeconds < 1 || config.AI.TimeoutSeconds > 600 {
			return fmt.Errorf("ai.timeout_seconds must be between 1 and 600, got: %d", config.AI.TimeoutSeconds)
		}
	}

	if config.Import.BatchSize < 1 {
		return fmt.Errorf("import.batch_size must be positive, got: %d", config.Import.BatchSize)
	}
	if config.Import.BatchConcurrency < 1 || config.Import.BatchConcurrency > 10 {
		return fmt.Errorf("import.batch_concurrency must be between 1 and 10, got: %d", config.Import.BatchConcurrency)
	}
	if config.Import.BatchThreshold < 0 {
		return fmt.Errorf("import.batch_threshold must not be negative, got: %d", config.Import.BatchThreshold)
	}

	switch config.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("invalid database driver: %s (must be 'sqlite' or 'postgres')", config.Database.Driver)
	}
	if config.Database.DSN == "" {
		return fmt.Errorf("database.dsn must not be empty")
	}

	return nil
}

// ConfigureLoggingFromConfig builds the logrus logger described by config.Log.
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	return logging.NewLogrusLogger(config.Log.Level, config.Log.Format, nil)
}
