// Package root contains the root command for the application
package root

import (
	"context"
	"fmt"

	"fintracker/internal/config"
	"fintracker/internal/container"
	"fintracker/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	UserID    string
	LogLevel  string
	LogFormat string
	AIEnabled bool
	DBDriver  string
	DBDSN     string
}

var (
	// Log is the shared logger instance for commands. It is replaced by the
	// container's logger once configuration is loaded.
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// AppContainer holds the wired dependencies for the running command.
	AppContainer *container.Container

	// NewContainer builds the container from configuration. Tests replace it.
	NewContainer = container.NewContainer

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "fintracker",
		Short: "Import bank and credit card statements into categorized transactions.",
		Long: `fintracker reads Brazilian bank and credit card statements (PDF, TXT, CSV, OFX),
extracts their transactions with a fast local parser or an AI fallback,
categorizes them against your category catalog and stores them.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to fintracker!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer == nil {
				return
			}
			if err := AppContainer.Close(); err != nil {
				Log.WithError(err).Warn("Failed to close resources")
			}
			AppContainer = nil
		},
	}

	// SharedFlags holds the persistent flag values.
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	flags := Cmd.PersistentFlags()
	flags.StringVarP(&SharedFlags.UserID, "user", "u", "default", "User whose catalog and records are used")
	flags.StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&SharedFlags.LogFormat, "log-format", "", "Log format (text, json)")
	flags.BoolVar(&SharedFlags.AIEnabled, "ai-enabled", false, "Enable the LLM providers")
	flags.StringVar(&SharedFlags.DBDriver, "db-driver", "", "Database driver (sqlite, postgres)")
	flags.StringVar(&SharedFlags.DBDSN, "db-dsn", "", "Database connection string")
}

func setup(cmd *cobra.Command, args []string) error {
	config.LoadEnv(nil)

	cfg, err := config.InitializeConfig()
	if err != nil {
		return err
	}
	ApplyFlags(cmd, cfg)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	c, err := NewContainer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	AppContainer = c
	Log = c.GetLogger()
	return nil
}

// ApplyFlags overrides configuration values with explicitly set flags.
func ApplyFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("log-level") {
		cfg.Log.Level = SharedFlags.LogLevel
	}
	if changed("log-format") {
		cfg.Log.Format = SharedFlags.LogFormat
	}
	if changed("ai-enabled") {
		cfg.AI.Enabled = SharedFlags.AIEnabled
	}
	if changed("db-driver") {
		cfg.Database.Driver = SharedFlags.DBDriver
	}
	if changed("db-dsn") {
		cfg.Database.DSN = SharedFlags.DBDSN
	}
}

// GetContainer returns the container built for the running command.
func GetContainer() (*container.Container, error) {
	if AppContainer == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return AppContainer, nil
}
