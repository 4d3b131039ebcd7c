package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storerate/storerate/pkg/config"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := RootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func TestRootCmd(t *testing.T) {
	t.Run("Should register the command groups", func(t *testing.T) {
		root := RootCmd()
		for _, name := range []string{"stores", "users", "session", "config"} {
			found, _, err := root.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, found.Name())
		}
	})
}

func TestSetupGlobalConfig(t *testing.T) {
	t.Run("Should merge YAML, environment and flags in precedence order", func(t *testing.T) {
		dir := t.TempDir()
		cfgPath := filepath.Join(dir, "storerate.yaml")
		yaml := "cli:\n  base_url: https://yaml.example.com/api\n  timeout: 5s\nbrowse:\n  quiet_period: 250ms\n"
		require.NoError(t, os.WriteFile(cfgPath, []byte(yaml), 0o600))
		t.Setenv("STORERATE_NOTICE_TTL", "4s")

		out, err := runRoot(t,
			"--config", cfgPath, "--env-file", "", "--format", "json",
			"--timeout", "7s", "config", "show", "-o", "json")

		require.NoError(t, err)
		var shown struct {
			Config  map[string]string `json:"config"`
			Sources map[string]string `json:"sources"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &shown))
		assert.Equal(t, "https://yaml.example.com/api", shown.Config["cli.base_url"])
		assert.Equal(t, "yaml", shown.Sources["cli.base_url"])
		assert.Equal(t, "7s", shown.Config["cli.timeout"])
		assert.Equal(t, "cli", shown.Sources["cli.timeout"])
		assert.Equal(t, "4s", shown.Config["browse.notice_ttl"])
		assert.Equal(t, "env", shown.Sources["browse.notice_ttl"])
		assert.Equal(t, "250ms", shown.Config["browse.quiet_period"])
	})

	t.Run("Should attach configuration to the command context", func(t *testing.T) {
		cmd := &cobra.Command{Use: "probe"}
		addGlobalFlags(cmd)
		require.NoError(t, cmd.ParseFlags([]string{
			"--config", filepath.Join(t.TempDir(), "absent.yaml"),
			"--env-file", "",
			"--base-url", "https://flag.example.com",
			"--page-size", "10",
		}))
		cmd.SetContext(t.Context())

		closer, err := SetupGlobalConfig(cmd)
		require.NoError(t, err)
		t.Cleanup(func() { _ = closer.Close() })

		cfg := config.FromContext(cmd.Context())
		assert.Equal(t, "https://flag.example.com", cfg.CLI.BaseURL)
		assert.Equal(t, 10, cfg.Browse.DefaultPageSize)
		require.NotNil(t, config.ServiceFromContext(cmd.Context()))
		assert.Equal(t, config.SourceCLI, config.ServiceFromContext(cmd.Context()).GetSource("cli.base_url"))
	})

	t.Run("Should fail on invalid configuration", func(t *testing.T) {
		_, err := runRoot(t, "--env-file", "", "--base-url", "ftp://nope", "config", "validate")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load configuration")
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("Should reject env files outside the working directory", func(t *testing.T) {
		cmd := &cobra.Command{Use: "probe"}
		addGlobalFlags(cmd)
		require.NoError(t, cmd.ParseFlags([]string{"--env-file", "../../outside.env"}))

		_, err := loadEnvFile(cmd)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "outside the project directory")
	})

	t.Run("Should load variables from a file in the working directory", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("STORERATE_TEST_ENV_FILE=loaded\n"), 0o600))
		t.Cleanup(func() { _ = os.Unsetenv("STORERATE_TEST_ENV_FILE") })
		cmd := &cobra.Command{Use: "probe"}
		addGlobalFlags(cmd)
		require.NoError(t, cmd.ParseFlags(nil))

		path, err := loadEnvFile(cmd)

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, ".env"), path)
		assert.Equal(t, "loaded", os.Getenv("STORERATE_TEST_ENV_FILE"))
	})
}

func TestIsPathWithinDirectory(t *testing.T) {
	t.Run("Should accept nested paths and reject siblings", func(t *testing.T) {
		assert.True(t, isPathWithinDirectory("/work/project/.env", "/work/project"))
		assert.True(t, isPathWithinDirectory("/work/project", "/work/project"))
		assert.False(t, isPathWithinDirectory("/work/project-other/.env", "/work/project"))
	})
}
