package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/storerate/storerate/cli/tui/models"
	"github.com/storerate/storerate/pkg/logger"
	"github.com/storerate/storerate/pkg/session"
)

// CliError represents a CLI-specific error with enhanced context
type CliError struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   string         `json:"details,omitempty"`
	Context   map[string]any `json:"context,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

func (e *CliError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewCliError creates a new CLI error with context
func NewCliError(code, message string, details ...string) *CliError {
	err := &CliError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Context:   make(map[string]any),
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

// WithContext adds context to the error
func (e *CliError) WithContext(key string, value any) *CliError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// IsTimeoutError checks if an error is a timeout error
func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	lower := strings.ToLower(err.Error())
	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, ErrTimeout) ||
		strings.Contains(lower, "timeout") ||
		strings.Contains(lower, "timed out")
}

// IsNetworkError checks if an error is a network-related error
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNetwork) {
		return true
	}
	return ContainsAny(err.Error(),
		"connection refused", "connection reset", "connection timeout",
		"no route to host", "network unreachable", "no such host", "dns",
		"name resolution failed", "temporary failure",
	)
}

// IsAuthError checks if an error is authentication-related
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrAuth) || errors.Is(err, session.ErrNoSession) {
		return true
	}
	return ContainsAny(err.Error(),
		"unauthorized", "authentication", "invalid token",
		"permission denied", "forbidden", "access denied",
		"api key", "credential",
	)
}

// FormatError formats errors based on output mode
func FormatError(err error, mode models.Mode) string {
	if err == nil {
		return ""
	}
	switch mode {
	case models.ModeJSON:
		return formatErrorJSON(err)
	case models.ModeTUI:
		return formatErrorTUI(err)
	default:
		return err.Error()
	}
}

// formatErrorJSON renders {"error", "code", "details"}
func formatErrorJSON(err error) string {
	response := map[string]any{"error": err.Error(), "details": ""}
	var cliErr *CliError
	if errors.As(err, &cliErr) {
		response = map[string]any{
			"error":   cliErr.Message,
			"code":    cliErr.Code,
			"details": cliErr.Details,
		}
	}
	data, marshalErr := json.MarshalIndent(response, "", "  ")
	if marshalErr != nil {
		return `{"error": "JSON marshaling failed", "details": ""}`
	}
	return string(data)
}

// formatErrorTUI formats errors for TUI output with colors and icons
func formatErrorTUI(err error) string {
	message, details := extractErrorInfo(err)
	result := formatErrorMessage(getErrorIcon(err), message)
	if details != "" {
		result += formatErrorDetails(details)
	}
	return result
}

func extractErrorInfo(err error) (message, details string) {
	var cliErr *CliError
	if errors.As(err, &cliErr) && cliErr != nil {
		return cliErr.Message, cliErr.Details
	}
	return err.Error(), ""
}

func getErrorIcon(err error) string {
	switch {
	case IsNetworkError(err):
		return "🌐"
	case IsAuthError(err):
		return "🔐"
	case IsTimeoutError(err):
		return "⏰"
	default:
		return "❌"
	}
}

func formatErrorMessage(icon, message string) string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF6B6B")).
		Bold(true)
	return fmt.Sprintf("%s %s", icon, style.Render(message))
}

func formatErrorDetails(details string) string {
	detailStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Italic(true)
	return "\n" + detailStyle.Render(fmt.Sprintf("Details: %s", details))
}

// OutputError outputs an error to stderr in the appropriate format
func OutputError(err error, mode models.Mode) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, FormatError(err, mode))
}

// ValidateStoreID checks a store identifier before it is placed in a request
func ValidateStoreID(id string) error {
	if strings.TrimSpace(id) == "" {
		return NewCliError("INVALID_ID", "store ID cannot be empty")
	}
	if strings.ContainsFunc(id, func(r rune) bool {
		return unicode.IsSpace(r) || r == '/' || r == '?' || r == '#'
	}) {
		return NewCliError("INVALID_ID", "store ID contains invalid characters", fmt.Sprintf("provided: %q", id))
	}
	return nil
}

// ValidateEnum validates that a value is in a set of allowed values
func ValidateEnum(value string, allowed []string, fieldName string) error {
	if value == "" {
		return nil
	}
	if slices.Contains(allowed, value) {
		return nil
	}
	return NewCliError("INVALID_ENUM",
		fmt.Sprintf("%s must be one of: %s", fieldName, strings.Join(allowed, ", ")),
		fmt.Sprintf("provided: %s", value))
}

// ContainsAny reports whether s contains any of the provided substrings.
// The comparison is case-insensitive; empty substrings are ignored.
func ContainsAny(s string, substrings ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrings {
		if sub == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

// Truncate shortens s to at most maxLength runes, ending with "..." when
// there is room for it.
func Truncate(s string, maxLength int) string {
	if maxLength <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLength {
		return s
	}
	runes := []rune(s)
	if maxLength <= 3 {
		return string(runes[:maxLength])
	}
	return string(runes[:maxLength-3]) + "..."
}

// GetFlagStringWithDefault gets a string flag with a default value
func GetFlagStringWithDefault(cmd *cobra.Command, flagName, defaultValue string) string {
	if value, err := cmd.Flags().GetString(flagName); err == nil && value != "" {
		return value
	}
	return defaultValue
}

// GetFlagIntWithDefault gets an int flag with a default value
func GetFlagIntWithDefault(cmd *cobra.Command, flagName string, defaultValue int) int {
	if value, err := cmd.Flags().GetInt(flagName); err == nil && cmd.Flags().Changed(flagName) {
		return value
	}
	return defaultValue
}

// LogOperation logs the start, failure or completion of operation
func LogOperation(ctx context.Context, operation string, fn func() error) error {
	log := logger.FromContext(ctx)
	start := time.Now()
	log.Debug("Starting operation", "operation", operation)
	if err := fn(); err != nil {
		log.Error("Operation failed", "operation", operation, "duration", time.Since(start), "error", err)
		return err
	}
	log.Debug("Operation completed", "operation", operation, "duration", time.Since(start))
	return nil
}

// Pluralize returns singular for a count of one and plural otherwise
func Pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}
