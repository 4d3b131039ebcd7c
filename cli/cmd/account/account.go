// Package account shows the signed-in principal and the navigation its role
// unlocks.
package account

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/storerate/storerate/cli/cmd"
	"github.com/storerate/storerate/cli/tui/components"
	"github.com/storerate/storerate/cli/tui/styles"
	"github.com/storerate/storerate/pkg/session"
)

// SessionInfo is the JSON document printed by the session command
type SessionInfo struct {
	User         session.User         `json:"user"`
	Capabilities session.Capabilities `json:"capabilities"`
	Layout       session.Layout       `json:"layout"`
}

// NewSessionCommand creates the session command
func NewSessionCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "session",
		Aliases: []string{"whoami"},
		Short:   "Show the signed-in user, role and available sections",
		Args:    cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{RequireAuth: true}, cmd.ModeHandlers{
				JSON: sessionJSONHandler,
				TUI:  sessionTUIHandler,
			}, args)
		},
	}
}

func describe(ctx context.Context) (SessionInfo, error) {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return SessionInfo{}, err
	}
	return SessionInfo{User: sess.User, Capabilities: sess.Capabilities(), Layout: sess.Layout()}, nil
}

func sessionJSONHandler(ctx context.Context, cobraCmd *cobra.Command, _ *cmd.CommandExecutor, _ []string) error {
	info, err := describe(ctx)
	if err != nil {
		return err
	}
	return cmd.WriteJSON(cobraCmd.OutOrStdout(), info)
}

func sessionTUIHandler(ctx context.Context, cobraCmd *cobra.Command, _ *cmd.CommandExecutor, _ []string) error {
	info, err := describe(ctx)
	if err != nil {
		return err
	}
	out := cobraCmd.OutOrStdout()
	fmt.Fprintln(out, components.RenderASCIIHeader(80))
	return renderSession(out, info)
}

func renderSession(w io.Writer, info SessionInfo) error {
	label := styles.HelpKeyStyle.Width(10)
	rows := []string{
		label.Render("Name") + info.User.Name,
		label.Render("Email") + info.User.Email,
		label.Render("Role") + string(info.User.Role),
	}
	if info.User.Address != "" {
		rows = append(rows, label.Render("Address")+info.User.Address)
	}
	var b strings.Builder
	b.WriteString(styles.RenderTitle("Signed in"))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...))
	b.WriteString("\n\n")
	b.WriteString(styles.RenderTitle("Sections"))
	b.WriteString("\n")
	for _, item := range info.Layout.Nav {
		line := "• " + item.Label
		if item.Command != "" {
			line += styles.HelpStyle.Render("  storerate " + item.Command)
		}
		b.WriteString(line + "\n")
	}
	abilities := capabilityLabels(info.Capabilities)
	if len(abilities) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.InfoStyle.Render("You can " + strings.Join(abilities, ", ") + "."))
		b.WriteString("\n")
	}
	_, err := fmt.Fprint(w, b.String())
	return err
}

func capabilityLabels(c session.Capabilities) []string {
	var out []string
	if c.CanRate {
		out = append(out, "rate stores")
	}
	if c.CanManageUsers {
		out = append(out, "manage users")
	}
	if c.CanManageStores {
		out = append(out, "manage stores")
	}
	if c.CanViewOwnerDashboard {
		out = append(out, "view your store dashboard")
	}
	return out
}
