package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newAspectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "aspects <id>",
		Short: "Print the aspect configuration of a component",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := c.app.Aspects(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), list.ToConfigObject())
		},
	}
}
