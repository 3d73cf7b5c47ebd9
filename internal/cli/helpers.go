package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storekeeper/internal/controller"
	"github.com/mesh-intelligence/storekeeper/internal/grid"
)

// writeGrid renders g in the selected output format.
func (a *App) writeGrid(cmd *cobra.Command, g *grid.Grid) error {
	return g.Write(cmd.OutOrStdout(), a.output)
}

// confirmDelete asks before deleting unless yes is set. End of input
// counts as no.
func (a *App) confirmDelete(kind string, id int64, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	ok, err := a.prompt.Confirm(fmt.Sprintf("Do you want to delete %s ID %d?", kind, id), false)
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	return ok, err
}

// deleteCmd builds the "delete <id>" subcommand shared by the three
// entities.
func (a *App) deleteCmd(kind string, del func(c *controller.Controller, cmd *cobra.Command, id int64) (string, error)) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s", kind),
		Args:  userArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(kind, args[0])
			if err != nil {
				return err
			}
			ctrl, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}

			ok, err := a.confirmDelete(kind, id, yes)
			if err != nil {
				return err
			}
			if !ok {
				a.status("Delete canceled.")
				return nil
			}

			status, err := del(ctrl, cmd, id)
			if err != nil {
				return err
			}
			a.status(status)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	return cmd
}
