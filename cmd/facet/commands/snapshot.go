package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/facet/internal/app"
)

func (c *CLI) newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot [dirs...]",
		Short: "Record the components in the given directories as new versions",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			message, _ := cmd.Flags().GetString("message")
			user, _ := cmd.Flags().GetString("user")
			email, _ := cmd.Flags().GetString("email")

			results, err := c.app.Snapshot(cmd.Context(), args, app.SnapshotOptions{
				Force:    force,
				Message:  message,
				Username: user,
				Email:    email,
			})
			for _, res := range results {
				status := "snapshot"
				if res.Cached {
					status = "unchanged"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-9s %s %s\n", status, res.Ref.Short(), res.ID)
			}
			return err
		},
	}
	cmd.Flags().BoolP("force", "f", false, "Write new versions even when the inputs are unchanged")
	cmd.Flags().StringP("message", "m", "", "Log message of the new versions")
	cmd.Flags().String("user", "", "Author name recorded in the version log")
	cmd.Flags().String("email", "", "Author email recorded in the version log")
	return cmd
}
