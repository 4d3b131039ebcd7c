package config

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storerate/storerate/pkg/config"
)

func runShow(t *testing.T, args ...string) string {
	t.Helper()
	svc := config.NewService()
	cfg, err := svc.Load(t.Context())
	require.NoError(t, err)
	ctx := config.ContextWithService(config.ContextWithConfig(t.Context(), cfg), svc)

	var out bytes.Buffer
	c := NewConfigShowCommand()
	c.SetOut(&out)
	c.SetErr(&bytes.Buffer{})
	c.SetArgs(args)
	require.NoError(t, c.ExecuteContext(ctx))
	return out.String()
}

func TestConfigShow(t *testing.T) {
	t.Run("Should print redacted JSON with sources", func(t *testing.T) {
		t.Setenv("STORERATE_DEFAULT_FORMAT", "json")
		t.Setenv("STORERATE_API_KEY", "sk-live-123")

		raw := runShow(t, "-o", "json")

		var got struct {
			Config  map[string]string `json:"config"`
			Sources map[string]string `json:"sources"`
		}
		require.NoError(t, json.Unmarshal([]byte(raw), &got))
		assert.Equal(t, "[REDACTED]", got.Config["cli.api_key"])
		assert.NotContains(t, raw, "sk-live-123")
		assert.Equal(t, "5,10,25", got.Config["browse.page_sizes"])
		assert.Equal(t, "env", got.Sources["cli.api_key"])
		assert.Equal(t, "default", got.Sources["browse.quiet_period"])
	})

	t.Run("Should print a sorted table", func(t *testing.T) {
		t.Setenv("STORERATE_DEFAULT_FORMAT", "json")

		out := runShow(t, "-o", "table", "--sources=false")

		assert.Contains(t, out, "KEY")
		assert.NotContains(t, out, "SOURCE")
		assert.Less(t, bytes.Index([]byte(out), []byte("browse.notice_ttl")), bytes.Index([]byte(out), []byte("cli.base_url")))
	})

	t.Run("Should print YAML", func(t *testing.T) {
		t.Setenv("STORERATE_DEFAULT_FORMAT", "json")
		out := runShow(t, "-o", "yaml")
		assert.Contains(t, out, "config:")
		assert.Contains(t, out, "browse.default_page_size: \"5\"")
	})

	t.Run("Should reject unknown output formats", func(t *testing.T) {
		t.Setenv("STORERATE_DEFAULT_FORMAT", "json")
		c := NewConfigShowCommand()
		c.SetOut(&bytes.Buffer{})
		c.SetErr(&bytes.Buffer{})
		c.SilenceErrors = true
		c.SilenceUsage = true
		c.SetArgs([]string{"-o", "xml"})
		ctx := config.ContextWithConfig(t.Context(), config.Default())
		assert.Error(t, c.ExecuteContext(ctx))
	})
}

func TestRedactURL(t *testing.T) {
	t.Run("Should hide user info and token parameters", func(t *testing.T) {
		assert.Equal(t, "https://redacted@api.example.com/api", redactURL("https://bob:pw@api.example.com/api"))
		assert.Equal(t, "https://api.example.com/?token=[REDACTED]", redactURL("https://api.example.com/?token=abc"))
		assert.Equal(t, "http://localhost:5000/api", redactURL("http://localhost:5000/api"))
	})
}

