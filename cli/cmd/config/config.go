package config

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/storerate/storerate/cli/cmd"
	"github.com/storerate/storerate/cli/helpers"
	"github.com/storerate/storerate/cli/tui/models"
	"github.com/storerate/storerate/pkg/config"
	"github.com/storerate/storerate/pkg/logger"
)

var tokenRegex = regexp.MustCompile(`(?i)(token|key)=[^&\s]+`)

// NewConfigCommand creates the config command group
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect client configuration",
	}
	cmd.AddCommand(
		NewConfigShowCommand(),
		NewConfigValidateCommand(),
	)
	return cmd
}

// NewConfigShowCommand creates the config show subcommand
func NewConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration values",
		Long: `Display the effective configuration after merging defaults, storerate.yaml,
environment variables and flags. Sensitive values are redacted.`,
		RunE: executeConfigShowCommand,
	}
	cmd.Flags().StringP("output", "o", "table", "Output format (json, yaml, table)")
	cmd.Flags().BoolP("sources", "s", true, "Show where each value came from")
	return cmd
}

func executeConfigShowCommand(cobraCmd *cobra.Command, args []string) error {
	return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{}, cmd.ModeHandlers{
		JSON: handleConfigShow,
	}, args)
}

// handleConfigShow prints the configuration in the requested output format
func handleConfigShow(ctx context.Context, cobraCmd *cobra.Command, _ *cmd.CommandExecutor, _ []string) error {
	log := logger.FromContext(ctx)
	format, err := cobraCmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	if err := helpers.ValidateEnum(format, []string{"json", "yaml", "table"}, "output"); err != nil {
		return err
	}
	showSources, err := cobraCmd.Flags().GetBool("sources")
	if err != nil {
		return fmt.Errorf("failed to get sources flag: %w", err)
	}
	cfg := config.FromContext(ctx)
	flat := flattenConfig(cfg)
	var sources map[string]config.SourceType
	if showSources {
		sources = collectSources(ctx, flat)
	}
	log.Debug("showing configuration", "format", format, "keys", len(flat))
	return formatConfigOutput(cobraCmd.OutOrStdout(), flat, sources, format)
}

// NewConfigValidateCommand creates the config validate subcommand
func NewConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration",
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{}, cmd.ModeHandlers{
				JSON: handleConfigValidate,
			}, args)
		},
	}
}

func handleConfigValidate(ctx context.Context, cobraCmd *cobra.Command, e *cmd.CommandExecutor, _ []string) error {
	svc := config.ServiceFromContext(ctx)
	if svc == nil {
		svc = config.NewService()
	}
	validationErr := svc.Validate(config.FromContext(ctx))
	out := cobraCmd.OutOrStdout()
	if e.GetMode() == models.ModeTUI {
		if validationErr != nil {
			return fmt.Errorf("configuration validation failed: %w", validationErr)
		}
		fmt.Fprintln(out, "✅ Configuration is valid")
		return nil
	}
	result := map[string]any{"valid": validationErr == nil, "message": "Configuration is valid"}
	if validationErr != nil {
		result["message"] = validationErr.Error()
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return err
	}
	if validationErr != nil {
		return helpers.NewCliError("INVALID_CONFIG", "configuration validation failed", validationErr.Error())
	}
	return nil
}

func collectSources(ctx context.Context, flat map[string]string) map[string]config.SourceType {
	sources := make(map[string]config.SourceType, len(flat))
	svc := config.ServiceFromContext(ctx)
	for key := range flat {
		if svc == nil {
			sources[key] = config.SourceDefault
			continue
		}
		sources[key] = svc.GetSource(key)
	}
	return sources
}

// formatConfigOutput writes the flattened configuration
func formatConfigOutput(w io.Writer, flat map[string]string, sources map[string]config.SourceType, format string) error {
	switch format {
	case "json":
		return outputJSON(w, flat, sources)
	case "yaml":
		return outputYAML(w, flat, sources)
	case "table":
		return outputTable(w, flat, sources)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func outputJSON(w io.Writer, flat map[string]string, sources map[string]config.SourceType) error {
	output := map[string]any{"config": flat}
	if len(sources) > 0 {
		output["sources"] = sources
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func outputYAML(w io.Writer, flat map[string]string, sources map[string]config.SourceType) error {
	output := map[string]any{"config": flat}
	if len(sources) > 0 {
		output["sources"] = sources
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(output); err != nil {
		return err
	}
	return encoder.Close()
}

func outputTable(w io.Writer, flat map[string]string, sources map[string]config.SourceType) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if sources != nil {
		fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")
		fmt.Fprintln(tw, "---\t-----\t------")
	} else {
		fmt.Fprintln(tw, "KEY\tVALUE")
		fmt.Fprintln(tw, "---\t-----")
	}
	for _, key := range keys {
		if sources != nil {
			source := sources[key]
			if source == "" {
				source = config.SourceDefault
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", key, flat[key], source)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\n", key, flat[key])
	}
	return tw.Flush()
}

// flattenConfig converts the config into dot-keyed, redacted strings
func flattenConfig(cfg *config.Config) map[string]string {
	pageSizes := make([]string, 0, len(cfg.Browse.PageSizes))
	for _, size := range cfg.Browse.PageSizes {
		pageSizes = append(pageSizes, strconv.Itoa(size))
	}
	return map[string]string{
		"cli.base_url":             redactURL(cfg.CLI.BaseURL),
		"cli.api_key":              cfg.CLI.APIKey.String(),
		"cli.timeout":              cfg.CLI.Timeout.String(),
		"cli.default_format":       cfg.CLI.DefaultFormat,
		"cli.interactive":          strconv.FormatBool(cfg.CLI.Interactive),
		"cli.no_color":             strconv.FormatBool(cfg.CLI.NoColor),
		"cli.rate_limit":           strconv.FormatFloat(cfg.CLI.RateLimit, 'f', -1, 64),
		"cli.rate_burst":           strconv.Itoa(cfg.CLI.RateBurst),
		"runtime.environment":      cfg.Runtime.Environment,
		"runtime.log_level":        cfg.Runtime.LogLevel,
		"runtime.log_json":         strconv.FormatBool(cfg.Runtime.LogJSON),
		"runtime.log_file":         cfg.Runtime.LogFile,
		"browse.quiet_period":      cfg.Browse.QuietPeriod.String(),
		"browse.page_sizes":        strings.Join(pageSizes, ","),
		"browse.default_page_size": strconv.Itoa(cfg.Browse.DefaultPageSize),
		"browse.notice_ttl":        cfg.Browse.NoticeTTL.String(),
	}
}

// redactURL hides credentials embedded in a URL
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return tokenRegex.ReplaceAllString(raw, "$1=[REDACTED]")
	}
	if u.User != nil {
		u.User = url.User("redacted")
	}
	redacted := u.String()
	return tokenRegex.ReplaceAllString(redacted, "$1=[REDACTED]")
}
