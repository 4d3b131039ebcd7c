package users

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storerate/storerate/cli/api"
	"github.com/storerate/storerate/cli/cmd"
	"github.com/storerate/storerate/pkg/config"
	"github.com/storerate/storerate/pkg/session"
)

func runUsers(t *testing.T, role string, listed *atomic.Int32, args ...string) (string, error) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/auth/me":
			_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
				"user": map[string]any{"id": "u1", "name": "Ada Admin", "email": "ada@example.com", "role": role},
			}})
		case "/users":
			listed.Add(1)
			assert.Equal(t, "Store Owner", r.URL.Query().Get("role"))
			_ = json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{
				{"id": 3, "name": "Otto Owner", "email": "otto@example.com", "address": "5 Pine Rd", "role": "Store Owner"},
			}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	cfg := config.Default()
	cfg.CLI.BaseURL = server.URL
	cfg.CLI.APIKey = "admin-key"
	cfg.CLI.Timeout = 2 * time.Second
	cfg.CLI.DefaultFormat = "json"
	root := &cobra.Command{Use: "storerate", SilenceErrors: true, SilenceUsage: true}
	root.AddCommand(NewUsersCommand())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(config.ContextWithConfig(t.Context(), cfg))
	return out.String(), err
}

func TestUsersList(t *testing.T) {
	t.Run("Should list users for administrators", func(t *testing.T) {
		var listed atomic.Int32

		out, err := runUsers(t, "System Administrator", &listed, "users", "list", "--role", "Store Owner")

		require.NoError(t, err)
		var page cmd.ListPage[api.User]
		require.NoError(t, json.Unmarshal([]byte(out), &page))
		require.Len(t, page.Rows, 1)
		assert.Equal(t, session.RoleOwner, page.Rows[0].Role)
		assert.Equal(t, 1, page.Total)
		assert.Equal(t, int32(1), listed.Load())
	})

	t.Run("Should refuse other roles without listing", func(t *testing.T) {
		var listed atomic.Int32

		_, err := runUsers(t, "Normal User", &listed, "users", "list")

		require.Error(t, err)
		assert.Contains(t, err.Error(), deniedText)
		assert.Zero(t, listed.Load())
	})
}

func TestUserColumns(t *testing.T) {
	t.Run("Should make every column sortable", func(t *testing.T) {
		for _, c := range userColumns() {
			assert.True(t, c.Sortable, c.ID)
			assert.Contains(t, api.UserSortFields, c.ID)
		}
	})
}
