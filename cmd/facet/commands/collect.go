package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newCollectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect <id>",
		Short: "Import every dependency version of a component",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			withDev, _ := cmd.Flags().GetBool("dev")
			versions, err := c.app.Collect(cmd.Context(), args[0], withDev)
			if err != nil {
				return err
			}
			for _, cv := range versions {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", cv.Ref.Short(), cv.ID)
			}
			return nil
		},
	}
	cmd.Flags().BoolP("dev", "d", false, "Include the compiler and tester")
	return cmd
}
