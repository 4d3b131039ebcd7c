package helpers

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storerate/storerate/cli/tui/models"
	"github.com/storerate/storerate/pkg/config"
	"github.com/storerate/storerate/pkg/logger"
	"github.com/storerate/storerate/pkg/session"
)

func TestNewCliError(t *testing.T) {
	t.Run("Should create error with code and message", func(t *testing.T) {
		err := NewCliError("TEST_ERROR", "Test message")
		assert.Equal(t, "TEST_ERROR", err.Code)
		assert.Equal(t, "Test message", err.Message)
		assert.Empty(t, err.Details)
		assert.NotNil(t, err.Context)
	})

	t.Run("Should implement error interface", func(t *testing.T) {
		assert.Equal(t, "TEST_ERROR: Test message", NewCliError("TEST_ERROR", "Test message").Error())
		assert.Equal(t, "TEST_ERROR: Test message (Details)", NewCliError("TEST_ERROR", "Test message", "Details").Error())
	})

	t.Run("Should add context to error", func(t *testing.T) {
		err := NewCliError("TEST_ERROR", "Test message").WithContext("store_id", "42")
		assert.Equal(t, "42", err.Context["store_id"])
	})
}

func TestErrorClassification(t *testing.T) {
	t.Run("Should detect timeout errors", func(t *testing.T) {
		assert.True(t, IsTimeoutError(context.DeadlineExceeded))
		assert.True(t, IsTimeoutError(fmt.Errorf("fetch: %w", ErrTimeout)))
		assert.True(t, IsTimeoutError(errors.New("request timed out")))
		assert.False(t, IsTimeoutError(errors.New("boom")))
		assert.False(t, IsTimeoutError(nil))
	})

	t.Run("Should detect network errors", func(t *testing.T) {
		assert.True(t, IsNetworkError(NewNetworkError("list stores", errors.New("x"))))
		assert.True(t, IsNetworkError(errors.New("dial tcp: connection refused")))
		assert.False(t, IsNetworkError(errors.New("bad request")))
	})

	t.Run("Should detect authentication errors", func(t *testing.T) {
		assert.True(t, IsAuthError(NewAuthError("missing key")))
		assert.True(t, IsAuthError(fmt.Errorf("whoami: %w", session.ErrNoSession)))
		assert.True(t, IsAuthError(errors.New("401 Unauthorized")))
		assert.False(t, IsAuthError(errors.New("not found")))
	})
}

func TestFormatError(t *testing.T) {
	t.Run("Should format CLI errors as JSON", func(t *testing.T) {
		out := FormatError(NewCliError("INVALID_ID", "bad id", "provided: x"), models.ModeJSON)
		assert.JSONEq(t, `{"error":"bad id","code":"INVALID_ID","details":"provided: x"}`, out)
	})

	t.Run("Should format plain errors as JSON", func(t *testing.T) {
		out := FormatError(errors.New("boom"), models.ModeJSON)
		assert.JSONEq(t, `{"error":"boom","details":""}`, out)
	})

	t.Run("Should pick an icon for TUI output", func(t *testing.T) {
		assert.Contains(t, FormatError(errors.New("boom"), models.ModeTUI), "❌")
		assert.Contains(t, FormatError(errors.New("connection refused"), models.ModeTUI), "🌐")
		assert.Contains(t, FormatError(NewAuthError("nope"), models.ModeTUI), "🔐")
		assert.Contains(t, FormatError(NewCliError("E", "m", "more"), models.ModeTUI), "Details: more")
	})

	t.Run("Should handle nil error", func(t *testing.T) {
		assert.Empty(t, FormatError(nil, models.ModeJSON))
	})
}

func TestValidators(t *testing.T) {
	t.Run("Should accept numeric and opaque store IDs", func(t *testing.T) {
		assert.NoError(t, ValidateStoreID("42"))
		assert.NoError(t, ValidateStoreID("3f2a-b1"))
	})

	t.Run("Should reject empty or unsafe store IDs", func(t *testing.T) {
		for _, id := range []string{"", "  ", "4 2", "1/2", "a?b"} {
			assert.Error(t, ValidateStoreID(id), id)
		}
	})

	t.Run("Should validate enum values", func(t *testing.T) {
		allowed := []string{"asc", "desc"}
		assert.NoError(t, ValidateEnum("asc", allowed, "order"))
		assert.NoError(t, ValidateEnum("", allowed, "order"))
		err := ValidateEnum("up", allowed, "order")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "order must be one of: asc, desc")
	})
}

func TestStringHelpers(t *testing.T) {
	t.Run("Should perform case-insensitive substring search", func(t *testing.T) {
		assert.True(t, ContainsAny("Hello World", "world"))
		assert.False(t, ContainsAny("Hello", "", "xyz"))
	})

	t.Run("Should truncate by runes", func(t *testing.T) {
		assert.Equal(t, "short", Truncate("short", 10))
		assert.Equal(t, "Coffee ...", Truncate("Coffee Corner", 10))
		assert.Equal(t, "Caf", Truncate("Café", 3))
		assert.Empty(t, Truncate("anything", 0))
	})

	t.Run("Should pluralize", func(t *testing.T) {
		assert.Equal(t, "store", Pluralize(1, "store", "stores"))
		assert.Equal(t, "stores", Pluralize(0, "store", "stores"))
	})
}

func TestLogOperation(t *testing.T) {
	ctx := logger.ContextWithLogger(t.Context(), logger.NewForTests())

	t.Run("Should return nil on success", func(t *testing.T) {
		assert.NoError(t, LogOperation(ctx, "ok", func() error { return nil }))
	})

	t.Run("Should return the operation error", func(t *testing.T) {
		want := errors.New("failed")
		assert.ErrorIs(t, LogOperation(ctx, "bad", func() error { return want }), want)
	})
}

func TestDetectMode(t *testing.T) {
	newCmd := func(format string) *cobra.Command {
		cfg := config.Default()
		cfg.CLI.DefaultFormat = format
		cmd := &cobra.Command{}
		cmd.SetContext(config.ContextWithConfig(t.Context(), cfg))
		return cmd
	}

	t.Run("Should honor explicit formats", func(t *testing.T) {
		assert.Equal(t, models.ModeJSON, DetectMode(newCmd("json")))
		assert.Equal(t, models.ModeTUI, DetectMode(newCmd("tui")))
	})

	t.Run("Should fall back to JSON outside a terminal", func(t *testing.T) {
		t.Setenv("CI", "true")
		assert.Equal(t, models.ModeJSON, DetectMode(newCmd("auto")))
		assert.False(t, ShouldUseColor(newCmd("auto")))
	})
}

func TestFlagDefaults(t *testing.T) {
	t.Run("Should use defaults for unset flags", func(t *testing.T) {
		cmd := &cobra.Command{}
		cmd.Flags().String("name", "", "")
		cmd.Flags().Int("limit", 0, "")
		assert.Equal(t, "fallback", GetFlagStringWithDefault(cmd, "name", "fallback"))
		assert.Equal(t, 10, GetFlagIntWithDefault(cmd, "limit", 10))
		require.NoError(t, cmd.Flags().Set("limit", "25"))
		assert.Equal(t, 25, GetFlagIntWithDefault(cmd, "limit", 10))
	})
}
