package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storekeeper/internal/controller"
)

func newSupplierCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "supplier",
		Short: "List, add and delete suppliers",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show the supplier grid",
		Args:  userArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			return app.writeGrid(cmd, ctrl.Grids().Suppliers)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Add a supplier",
		Args:  userArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			status, err := ctrl.AddSupplier(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			app.status(status)
			return nil
		},
	})

	cmd.AddCommand(app.deleteCmd("supplier", func(c *controller.Controller, cmd *cobra.Command, id int64) (string, error) {
		return c.DeleteSupplier(cmd.Context(), id)
	}))

	return cmd
}
