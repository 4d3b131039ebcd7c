package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/storerate/storerate/cli/cmd/account"
	configcmd "github.com/storerate/storerate/cli/cmd/config"
	"github.com/storerate/storerate/cli/cmd/stores"
	"github.com/storerate/storerate/cli/cmd/users"
	"github.com/storerate/storerate/cli/helpers"
	"github.com/storerate/storerate/cli/tui/models"
	"github.com/storerate/storerate/pkg/config"
	"github.com/storerate/storerate/pkg/logger"
	"github.com/storerate/storerate/pkg/version"
)

// DefaultConfigFile is read from the working directory unless --config is set
const DefaultConfigFile = "storerate.yaml"

// RootCmd builds the storerate command tree
func RootCmd() *cobra.Command {
	var logCloser io.Closer
	root := &cobra.Command{
		Use:   "storerate",
		Short: "Browse and rate stores from the terminal",
		Long: `storerate is a role-aware client for the store rating platform.

Normal Users browse stores and submit ratings, Store Owners see their stores,
and System Administrators browse the user directory. Output is interactive in
a terminal and JSON everywhere else.`,
		Version:       version.Get().String(),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			closer, err := SetupGlobalConfig(cmd)
			if err != nil {
				return err
			}
			logCloser = closer
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if logCloser != nil {
				return logCloser.Close()
			}
			return nil
		},
	}
	addGlobalFlags(root)
	root.AddCommand(
		stores.NewStoresCommand(),
		users.NewUsersCommand(),
		account.NewSessionCommand(),
		configcmd.NewConfigCommand(),
	)
	return root
}

func addGlobalFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.String("config", DefaultConfigFile, "Path to the YAML configuration file")
	flags.String("env-file", ".env", "Path to a .env file loaded before configuration")
	flags.String("base-url", "", "API base URL (default http://localhost:5000/api)")
	flags.String("api-key", "", "API key used as the bearer token")
	flags.Duration("timeout", 0, "Per-request timeout (default 30s)")
	flags.String("format", "", "Output format: auto, json or tui")
	flags.Bool("interactive", false, "Force the interactive view")
	flags.Bool("no-color", false, "Disable colored output")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.Bool("log-json", false, "Write logs as JSON")
	flags.String("log-file", "", "Write logs to this file")
	flags.Int("page-size", 0, "Default rows per page")
}

// SetupGlobalConfig loads configuration in precedence order, sets up the
// logger and attaches both to the command context. The returned closer
// releases the log file.
func SetupGlobalConfig(cmd *cobra.Command) (io.Closer, error) {
	if _, err := loadEnvFile(cmd); err != nil {
		return nil, err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	flags := make(map[string]any)
	extractCLIFlags(cmd, flags)
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	svc := config.NewService()
	cfg, err := svc.Load(ctx, config.NewYAMLProvider(configFile), config.NewCLIProvider(flags))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	ctx = config.ContextWithConfig(ctx, cfg)
	ctx = config.ContextWithService(ctx, svc)
	cmd.SetContext(ctx)
	// the interactive view owns the terminal; stderr logs would tear it
	discard := helpers.DetectMode(cmd) == models.ModeTUI
	log, closer, err := logger.SetupLogger(
		cfg.Runtime.LogLevel,
		cfg.Runtime.LogJSON,
		cfg.Runtime.LogLevel == "debug",
		cfg.Runtime.LogFile,
		discard,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	cmd.SetContext(logger.ContextWithLogger(ctx, log))
	log.Debug("configuration loaded", "config_file", configFile, "environment", cfg.Runtime.Environment)
	return closer, nil
}
