package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeConfig_Defaults(t *testing.T) {
	clearTestEnvVars(t)
	chdirTemp(t)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, ",", config.CSV.Delimiter)
	assert.False(t, config.AI.Enabled)
	assert.Equal(t, 60, config.AI.TimeoutSeconds)
	assert.Equal(t, "gemini-2.0-flash", config.AI.Gemini.Model)
	assert.Equal(t, "gpt-4o-mini", config.AI.OpenAI.Model)
	assert.Equal(t, 15, config.Import.BatchSize)
	assert.Equal(t, 3, config.Import.BatchConcurrency)
	assert.Equal(t, 20, config.Import.BatchThreshold)
	assert.Equal(t, "sqlite", config.Database.Driver)
	assert.Equal(t, "fintracker.db", config.Database.DSN)
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)
	chdirTemp(t)

	testEnvVars := map[string]string{
		"FINTRACKER_LOG_LEVEL":         "debug",
		"FINTRACKER_LOG_FORMAT":        "json",
		"FINTRACKER_CSV_DELIMITER":     ";",
		"FINTRACKER_AI_ENABLED":        "true",
		"FINTRACKER_AI_GEMINI_MODEL":   "gemini-1.5-pro",
		"FINTRACKER_IMPORT_BATCH_SIZE": "10",
		"FINTRACKER_DATABASE_DRIVER":   "postgres",
		"FINTRACKER_DATABASE_DSN":      "host=localhost user=fin dbname=fin",
		"GEMINI_API_KEY":               "gemini-key",
		"OPENAI_API_KEY":               "openai-key",
	}
	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, ";", config.CSV.Delimiter)
	assert.True(t, config.AI.Enabled)
	assert.Equal(t, "gemini-1.5-pro", config.AI.Gemini.Model)
	assert.Equal(t, 10, config.Import.BatchSize)
	assert.Equal(t, "postgres", config.Database.Driver)
	assert.Equal(t, "gemini-key", config.AI.Gemini.APIKey)
	assert.Equal(t, "openai-key", config.AI.OpenAI.APIKey)
}

func TestInitializeConfig_ConfigFile(t *testing.T) {
	clearTestEnvVars(t)
	tempDir := chdirTemp(t)

	configContent := `
log:
  level: "warn"
  format: "json"
csv:
  delimiter: "|"
ai:
  timeout_seconds: 90
  openai:
    model: "gpt-4o"
import:
  batch_size: 25
database:
  dsn: "/tmp/test.db"
`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0644))

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, "|", config.CSV.Delimiter)
	assert.Equal(t, 90, config.AI.TimeoutSeconds)
	assert.Equal(t, "gpt-4o", config.AI.OpenAI.Model)
	assert.Equal(t, 25, config.Import.BatchSize)
	assert.Equal(t, "/tmp/test.db", config.Database.DSN)
}

func TestInitializeConfig_HierarchicalPrecedence(t *testing.T) {
	clearTestEnvVars(t)
	tempDir := chdirTemp(t)

	configContent := `
log:
  level: "warn"
csv:
  delimiter: "|"
import:
  batch_concurrency: 2
`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0644))

	t.Setenv("FINTRACKER_LOG_LEVEL", "error")
	t.Setenv("FINTRACKER_IMPORT_BATCH_CONCURRENCY", "5")

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "error", config.Log.Level)
	assert.Equal(t, "|", config.CSV.Delimiter)
	assert.Equal(t, 5, config.Import.BatchConcurrency)
}

func validConfig() *Config {
	return &Config{
		Log:      LogConfig{Level: "info", Format: "text"},
		CSV:      CSVConfig{Delimiter: ","},
		AI:       AIConfig{TimeoutSeconds: 60},
		Import:   ImportConfig{BatchSize: 15, BatchConcurrency: 3, BatchThreshold: 20},
		Database: DatabaseConfig{Driver: "sqlite", DSN: "fintracker.db"},
	}
}

func TestValidateConfig_Valid(t *testing.T) {
	assert.NoError(t, validateConfig(validConfig()))
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name         string
		modifyConfig func(*Config)
		expectError  string
	}{
		{
			name:         "invalid log level",
			modifyConfig: func(c *Config) { c.Log.Level = "invalid" },
			expectError:  "invalid log level",
		},
		{
			name:         "invalid log format",
			modifyConfig: func(c *Config) { c.Log.Format = "xml" },
			expectError:  "invalid log format",
		},
		{
			name:         "invalid CSV delimiter",
			modifyConfig: func(c *Config) { c.CSV.Delimiter = "abc" },
			expectError:  "CSV delimiter must be a single character",
		},
		{
			name:         "AI enabled without API keys",
			modifyConfig: func(c *Config) { c.AI.Enabled = true },
			expectError:  "GEMINI_API_KEY or OPENAI_API_KEY required",
		},
		{
			name: "invalid timeout seconds",
			modifyConfig: func(c *Config) {
				c.AI.Enabled = true
				c.AI.OpenAI.APIKey = "key"
				c.AI.TimeoutSeconds = 0
			},
			expectError: "ai.timeout_seconds must be between 1 and 600",
		},
		{
			name:         "zero batch size",
			modifyConfig: func(c *Config) { c.Import.BatchSize = 0 },
			expectError:  "import.batch_size must be positive",
		},
		{
			name:         "too much concurrency",
			modifyConfig: func(c *Config) { c.Import.BatchConcurrency = 50 },
			expectError:  "import.batch_concurrency must be between 1 and 10",
		},
		{
			name:         "negative threshold",
			modifyConfig: func(c *Config) { c.Import.BatchThreshold = -1 },
			expectError:  "import.batch_threshold must not be negative",
		},
		{
			name:         "unknown driver",
			modifyConfig: func(c *Config) { c.Database.Driver = "mysql" },
			expectError:  "invalid database driver",
		},
		{
			name:         "empty dsn",
			modifyConfig: func(c *Config) { c.Database.DSN = "" },
			expectError:  "database.dsn must not be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.modifyConfig(config)
			err := validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	config := validConfig()
	logger := ConfigureLoggingFromConfig(config)
	require.NotNil(t, logger)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)

	config.Log = LogConfig{Level: "debug", Format: "json"}
	logger = ConfigureLoggingFromConfig(config)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
}

func TestAIConfig_HasProvider(t *testing.T) {
	assert.False(t, AIConfig{}.HasProvider())
	assert.True(t, AIConfig{Gemini: ProviderConfig{APIKey: "k"}}.HasProvider())
	assert.True(t, AIConfig{OpenAI: ProviderConfig{APIKey: "k"}}.HasProvider())
}

func chdirTemp(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tempDir))
	t.Cleanup(func() {
		_ = os.Chdir(originalDir)
	})
	return tempDir
}

// clearTestEnvVars unsets variables that would leak into the tests from the
// developer's shell.
func clearTestEnvVars(t *testing.T) {
	t.Helper()
	for _, envVar := range []string{
		"FINTRACKER_LOG_LEVEL",
		"FINTRACKER_LOG_FORMAT",
		"FINTRACKER_CSV_DELIMITER",
		"FINTRACKER_AI_ENABLED",
		"FINTRACKER_AI_TIMEOUT_SECONDS",
		"FINTRACKER_AI_GEMINI_MODEL",
		"FINTRACKER_AI_OPENAI_MODEL",
		"FINTRACKER_IMPORT_BATCH_SIZE",
		"FINTRACKER_IMPORT_BATCH_CONCURRENCY",
		"FINTRACKER_IMPORT_BATCH_THRESHOLD",
		"FINTRACKER_DATABASE_DRIVER",
		"FINTRACKER_DATABASE_DSN",
		"GEMINI_API_KEY",
		"OPENAI_API_KEY",
	} {
		t.Setenv(envVar, "")
		require.NoError(t, os.Unsetenv(envVar))
	}
}
