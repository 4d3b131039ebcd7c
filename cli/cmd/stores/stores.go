// Package stores implements the store listing and rating commands.
package stores

import (
	"github.com/spf13/cobra"
)

// NewStoresCommand creates the stores command group
func NewStoresCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stores",
		Short: "Browse and rate stores",
		Long:  "Browse the store directory with filters, sorting and paging, and submit ratings.",
	}
	cmd.AddCommand(
		ListCmd(),
		RateCmd(),
	)
	return cmd
}
