// Package users implements the administrator user directory.
package users

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/storerate/storerate/cli/api"
	"github.com/storerate/storerate/cli/cmd"
	"github.com/storerate/storerate/cli/tui/browser"
	"github.com/storerate/storerate/cli/tui/components"
	"github.com/storerate/storerate/internal/browse"
	"github.com/storerate/storerate/pkg/config"
	"github.com/storerate/storerate/pkg/logger"
	"github.com/storerate/storerate/pkg/session"
)

const (
	// FetchFailure is shown when the directory cannot be loaded
	FetchFailure = "Failed to fetch users."
	// NoUsersText is shown when a fetch returns no rows
	NoUsersText = "No users found matching your criteria."
	deniedText  = "Only System Administrators can browse users."
)

var listSpec = cmd.ListSpec{
	Fields:          api.UserFilterFields,
	Sortable:        api.UserSortFields,
	DefaultSort:     browse.SortSpec{Field: api.FieldName, Order: browse.SortOrderAsc},
	FallbackMessage: FetchFailure,
}

// NewUsersCommand creates the users command group
func NewUsersCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "users",
		Short: "Browse platform users (administrators)",
	}
	c.AddCommand(ListCmd())
	return c
}

// ListCmd creates the users list command
func ListCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Long:  "List platform users filtered by name, email, address or role.",
		Example: `  storerate users list --role "Store Owner"
  storerate users list --email example.com --sort email --format json`,
		RunE: runList,
	}
	cmd.AddListFlags(c, listSpec)
	return c
}

func runList(cobraCmd *cobra.Command, args []string) error {
	return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
		RequireAuth: true,
		Allow:       func(c session.Capabilities) bool { return c.CanManageUsers },
		Denied:      deniedText,
	}, cmd.ModeHandlers{
		JSON: listJSONHandler,
		TUI:  listTUIHandler,
	}, args)
}

func listJSONHandler(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	req, err := cmd.ParseListFlags(cobraCmd, listSpec)
	if err != nil {
		return fmt.Errorf("invalid list flags: %w", err)
	}
	page, err := cmd.FetchPage[api.User](ctx, executor.Client().Users(), req.Query(), FetchFailure)
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Debug("users listed", "count", len(page.Rows), "total", page.Total)
	return cmd.WriteJSON(cobraCmd.OutOrStdout(), page)
}

func listTUIHandler(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	log := logger.FromContext(ctx)
	req, err := cmd.ParseListFlags(cobraCmd, listSpec)
	if err != nil {
		return fmt.Errorf("invalid list flags: %w", err)
	}
	sess, err := session.FromContext(ctx)
	if err != nil {
		return err
	}
	fetcher := executor.Client().Users()
	model, err := newUserListModel(ctx, fetcher, string(sess.User.Role), req.Options)
	if err != nil {
		return err
	}
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.Attach(func(msg tea.Msg) { go program.Send(msg) })
	if _, err := program.Run(); err != nil {
		log.Error("failed to run user list TUI", "error", err)
		page, err := cmd.FetchPage[api.User](ctx, fetcher, req.Query(), FetchFailure)
		if err != nil {
			return err
		}
		out := cobraCmd.OutOrStdout()
		if err := cmd.WriteTable(out, tableColumns(), page.Rows); err != nil {
			return err
		}
		return cmd.WritePageFooter(out, page, "user", "users")
	}
	return nil
}

func newUserListModel(
	ctx context.Context,
	fetcher browse.Fetcher[api.User],
	role string,
	opts browse.Options,
) (*browser.Model[api.User], error) {
	s, err := browse.NewSession(ctx, fetcher, opts)
	if err != nil {
		return nil, err
	}
	return browser.New(ctx, s, browser.Config[api.User]{
		Title:     "Users",
		Role:      role,
		Section:   "Users",
		Columns:   userColumns(),
		EmptyText: NoUsersText,
		NoticeTTL: config.FromContext(ctx).Browse.NoticeTTL,
		RowID:     func(u api.User) string { return u.ID.String() },
	}), nil
}

func userColumns() []components.Column[api.User] {
	return []components.Column[api.User]{
		{ID: api.FieldName, Label: "Name", Width: 24, Sortable: true, Render: func(u api.User) string { return u.Name }},
		{ID: api.FieldEmail, Label: "Email", Width: 28, Sortable: true, Render: func(u api.User) string { return u.Email }},
		{ID: api.FieldAddress, Label: "Address", Width: 30, Sortable: true, Render: func(u api.User) string { return u.Address }},
		{ID: api.FieldRole, Label: "Role", Width: 20, Sortable: true, Render: func(u api.User) string { return string(u.Role) }},
	}
}

func tableColumns() []cmd.TableColumn[api.User] {
	return []cmd.TableColumn[api.User]{
		{Header: "ID", Value: func(u api.User) string { return u.ID.String() }},
		{Header: "Name", Value: func(u api.User) string { return u.Name }},
		{Header: "Email", Value: func(u api.User) string { return u.Email }},
		{Header: "Role", Value: func(u api.User) string { return string(u.Role) }},
	}
}
