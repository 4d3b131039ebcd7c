package stores

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/storerate/storerate/cli/api"
	"github.com/storerate/storerate/cli/cmd"
	"github.com/storerate/storerate/cli/tui/components"
	"github.com/storerate/storerate/internal/browse"
	"github.com/storerate/storerate/internal/rating"
	"github.com/storerate/storerate/pkg/config"
	"github.com/storerate/storerate/pkg/logger"
	"github.com/storerate/storerate/pkg/session"
)

// NoStoresText is shown when a fetch returns no rows
const NoStoresText = "No stores found matching your criteria."

var listSpec = cmd.ListSpec{
	Fields:          api.StoreFilterFields,
	Sortable:        api.StoreSortFields,
	DefaultSort:     browse.SortSpec{Field: api.FieldName, Order: browse.SortOrderAsc},
	FallbackMessage: browse.DefaultFetchFailure,
}

// ListCmd creates the stores list command
func ListCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "list",
		Short: "List stores",
		Long: `List stores with optional name and address filters.

In a terminal the list is interactive: filters apply once typing pauses,
columns sort in place, and Normal Users can rate the selected store.`,
		Example: `  storerate stores list
  storerate stores list --name coffee --sort overall_rating --order desc
  storerate stores list --format json --page 2 --limit 10`,
		RunE: runList,
	}
	cmd.AddListFlags(c, listSpec)
	return c
}

func runList(cobraCmd *cobra.Command, args []string) error {
	return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
		RequireAuth: true,
	}, cmd.ModeHandlers{
		JSON: listJSONHandler,
		TUI:  listTUIHandler,
	}, args)
}

// listJSONHandler prints one page of stores
func listJSONHandler(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	log := logger.FromContext(ctx)
	req, err := cmd.ParseListFlags(cobraCmd, listSpec)
	if err != nil {
		return fmt.Errorf("invalid list flags: %w", err)
	}
	page, err := cmd.FetchPage[api.Store](ctx, executor.Client().Stores(), req.Query(), listSpec.FallbackMessage)
	if err != nil {
		return err
	}
	log.Debug("stores listed", "count", len(page.Rows), "total", page.Total, "mode", "json")
	return cmd.WriteJSON(cobraCmd.OutOrStdout(), page)
}

// listTUIHandler runs the interactive listing
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
	client := executor.Client()
	model, err := newListModel(ctx, client.Stores(), client.Ratings(), sess, req.Options)
	if err != nil {
		return err
	}
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	// Send blocks until the event loop reads it; fetches may be issued from Update
	model.Attach(func(msg tea.Msg) { go program.Send(msg) })
	log.Debug("starting store list TUI", "role", sess.User.Role)
	if _, err := program.Run(); err != nil {
		log.Error("failed to run store list TUI", "error", err)
		return writeFallbackTable(ctx, cobraCmd, client.Stores(), req, sess.Capabilities().CanRate)
	}
	return nil
}

// writeFallbackTable prints one page as plain text when the TUI cannot start
func writeFallbackTable(
	ctx context.Context,
	cobraCmd *cobra.Command,
	fetcher browse.Fetcher[api.Store],
	req cmd.ListRequest,
	canRate bool,
) error {
	page, err := cmd.FetchPage(ctx, fetcher, req.Query(), listSpec.FallbackMessage)
	if err != nil {
		return err
	}
	out := cobraCmd.OutOrStdout()
	if len(page.Rows) == 0 {
		_, err := fmt.Fprintln(out, NoStoresText)
		return err
	}
	columns := []cmd.TableColumn[api.Store]{
		{Header: "ID", Value: func(s api.Store) string { return s.ID.String() }},
		{Header: "Name", Value: func(s api.Store) string { return s.Name }},
		{Header: "Address", Value: func(s api.Store) string { return s.Address }},
		{Header: "Overall", Value: api.Store.OverallLabel},
	}
	if canRate {
		columns = append(columns, cmd.TableColumn[api.Store]{Header: "Your Rating", Value: api.Store.UserRatingLabel})
	}
	if err := cmd.WriteTable(out, columns, page.Rows); err != nil {
		return err
	}
	return cmd.WritePageFooter(out, page, "store", "stores")
}

// storeColumns returns the table columns for the caller's role
func storeColumns(canRate bool) []components.Column[api.Store] {
	columns := []components.Column[api.Store]{
		{ID: api.FieldName, Label: "Name", Width: 28, Sortable: true, Render: func(s api.Store) string { return s.Name }},
		{ID: api.FieldAddress, Label: "Address", Width: 36, Sortable: true, Render: func(s api.Store) string { return s.Address }},
		{ID: api.FieldOverallRating, Label: "Overall", Width: 10, Sortable: true, Render: api.Store.OverallLabel},
	}
	if canRate {
		columns = append(columns, components.Column[api.Store]{
			ID: api.FieldUserRating, Label: "Your Rating", Width: 12, Render: api.Store.UserRatingLabel,
		})
	}
	return columns
}

// newListModel wires a browse session and a rating workflow into the list view
func newListModel(
	ctx context.Context,
	fetcher browse.Fetcher[api.Store],
	submitter rating.Submitter,
	sess *session.Session,
	opts browse.Options,
) (*listModel, error) {
	browseSession, err := browse.NewSession(ctx, fetcher, opts)
	if err != nil {
		return nil, err
	}
	caps := sess.Capabilities()
	cfg := config.FromContext(ctx)
	return newStoreListModel(ctx, browseSession, rating.NewWorkflow(submitter, caps.CanRate), string(sess.User.Role), cfg.Browse.NoticeTTL), nil
}
