package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newGCCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gc",
		Short: "Remove stored objects no tagged version reaches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			refs, err := c.app.GC(cmd.Context(), dryRun)
			if err != nil {
				return err
			}
			verb := "removed"
			if dryRun {
				verb = "unreachable"
			}
			for _, ref := range refs {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, ref)
			}
			return nil
		},
	}
	cmd.Flags().BoolP("dry-run", "n", false, "List unreachable objects without deleting them")
	return cmd
}
