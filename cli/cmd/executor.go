package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/storerate/storerate/cli/api"
	"github.com/storerate/storerate/cli/helpers"
	"github.com/storerate/storerate/cli/tui/models"
	"github.com/storerate/storerate/pkg/config"
	"github.com/storerate/storerate/pkg/logger"
	"github.com/storerate/storerate/pkg/session"
)

// CommandExecutor handles common setup and execution patterns for CLI commands:
// API client creation, session resolution, mode detection and error handling.
type CommandExecutor struct {
	mode    models.Mode
	client  *api.Client
	session *session.Session
}

// HandlerFunc defines the signature for command handlers.
type HandlerFunc func(ctx context.Context, cmd *cobra.Command, executor *CommandExecutor, args []string) error

// ModeHandlers contains handlers for different execution modes.
type ModeHandlers struct {
	JSON HandlerFunc
	TUI  HandlerFunc
}

// ExecutorOptions allows customization of the command executor
type ExecutorOptions struct {
	// RequireAuth resolves the caller's session through GET /auth/me
	RequireAuth bool
	// Allow, when set, must accept the session's capabilities
	Allow func(session.Capabilities) bool
	// Denied is the message shown when Allow rejects the session
	Denied string
}

// NewCommandExecutor creates a new command executor with all necessary setup.
func NewCommandExecutor(cmd *cobra.Command, opts ExecutorOptions) (*CommandExecutor, error) {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)
	mode := helpers.DetectMode(cmd)
	log.Debug("detected execution mode", "mode", mode)
	cfg := config.FromContext(ctx)
	client, err := api.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	executor := &CommandExecutor{mode: mode, client: client}
	if !opts.RequireAuth {
		return executor, nil
	}
	if cfg.CLI.APIKey.Value() == "" {
		return nil, helpers.NewAuthError(
			"API key is required (set cli.api_key in storerate.yaml, STORERATE_API_KEY, or use --api-key)",
		)
	}
	user, err := client.Auth().Me(ctx)
	if err != nil {
		if api.IsUnauthorized(err) {
			return nil, helpers.NewAuthError(err.Error())
		}
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	executor.session = session.New(*user, cfg.CLI.APIKey.Value())
	log.Debug("session resolved", "user", user.Email, "role", user.Role)
	if opts.Allow != nil && !opts.Allow(executor.session.Capabilities()) {
		denied := opts.Denied
		if denied == "" {
			denied = "your role cannot run this command"
		}
		return nil, helpers.NewCliError("FORBIDDEN", denied, string(user.Role))
	}
	return executor, nil
}

// Execute runs the appropriate handler based on the detected mode.
func (e *CommandExecutor) Execute(ctx context.Context, cmd *cobra.Command, handlers ModeHandlers, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if e.session != nil {
		ctx = session.ContextWithSession(ctx, e.session)
	}
	switch e.mode {
	case models.ModeJSON:
		if handlers.JSON == nil {
			return fmt.Errorf("JSON mode handler not implemented")
		}
		return handlers.JSON(ctx, cmd, e, args)
	case models.ModeTUI:
		if handlers.TUI != nil {
			return handlers.TUI(ctx, cmd, e, args)
		}
		if handlers.JSON != nil {
			return handlers.JSON(ctx, cmd, e, args)
		}
		return fmt.Errorf("TUI mode handler not implemented")
	default:
		return fmt.Errorf("unsupported mode: %s", e.mode)
	}
}

// Client returns the API client.
func (e *CommandExecutor) Client() *api.Client {
	return e.client
}

// Session returns the resolved session, nil without RequireAuth.
func (e *CommandExecutor) Session() *session.Session {
	return e.session
}

// GetMode returns the detected execution mode.
func (e *CommandExecutor) GetMode() models.Mode {
	return e.mode
}

// ExecuteCommand is a convenience function that combines executor creation and execution.
func ExecuteCommand(cmd *cobra.Command, opts ExecutorOptions, handlers ModeHandlers, args []string) error {
	executor, err := NewCommandExecutor(cmd, opts)
	if err != nil {
		return HandleCommonErrors(err, helpers.DetectMode(cmd))
	}
	return HandleCommonErrors(executor.Execute(cmd.Context(), cmd, handlers, args), executor.GetMode())
}

// HandleCommonErrors provides consistent error handling across all commands.
func HandleCommonErrors(err error, mode models.Mode) error {
	if err == nil {
		return nil
	}
	if cliErr := categorizeError(err); cliErr != nil {
		helpers.OutputError(cliErr, mode)
		return &ReportedError{Err: cliErr}
	}
	helpers.OutputError(err, mode)
	return &ReportedError{Err: err}
}

// ReportedError wraps an error that has already been written to stderr
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string {
	return e.Err.Error()
}

func (e *ReportedError) Unwrap() error {
	return e.Err
}

// IsReported reports whether err was already shown to the user
func IsReported(err error) bool {
	var reported *ReportedError
	return errors.As(err, &reported)
}

// categorizeError converts errors to structured CLI errors
func categorizeError(err error) *helpers.CliError {
	var cliErr *helpers.CliError
	var failure *api.Failure
	switch {
	case errors.As(err, &cliErr):
		return cliErr
	case errors.Is(err, context.Canceled):
		return helpers.NewCliError("OPERATION_CANCELED", "Operation was canceled by user")
	case errors.Is(err, context.DeadlineExceeded):
		return helpers.NewCliError("OPERATION_TIMEOUT", "Operation timed out")
	case helpers.IsAuthError(err):
		return helpers.NewCliError("AUTH_ERROR", "Authentication failed", err.Error())
	case helpers.IsNetworkError(err):
		return helpers.NewCliError("NETWORK_ERROR", "Network connection failed", err.Error())
	case errors.As(err, &failure):
		return helpers.NewCliError("API_ERROR", failure.UserMessage(), err.Error()).
			WithContext("status", failure.Status)
	default:
		return nil
	}
}
