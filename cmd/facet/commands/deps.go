package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/facet/internal/dependencies"
	"go.trai.ch/zerr"
)

func (c *CLI) newDepsCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "deps [id]",
		Short: "Print the normalized dependency records of a component",
		Long: "Print the normalized dependency records of a component.\n" +
			"With --from, records previously printed by deps are read from a file (or - for stdin) and validated.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				list *dependencies.DependencyList
				err  error
			)
			switch {
			case from != "" && len(args) == 0:
				list, err = c.decodeDependencies(cmd, from)
			case from == "" && len(args) == 1:
				list, err = c.app.Dependencies(cmd.Context(), args[0])
			default:
				return errors.New("deps takes either a component id or --from")
			}
			if err != nil {
				return err
			}
			for _, id := range list.Duplicates() {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s is listed more than once\n", id)
			}
			return writeJSON(cmd.OutOrStdout(), list)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Read serialized dependency records from a file instead of the scope")
	return cmd
}

func (c *CLI) decodeDependencies(cmd *cobra.Command, from string) (*dependencies.DependencyList, error) {
	var (
		data []byte
		err  error
	)
	if from == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(from) //nolint:gosec // Path is supplied by the user
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read dependency records"), "file", from)
	}
	return c.app.DecodeDependencies(cmd.Context(), data)
}
