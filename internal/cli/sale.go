package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storekeeper/internal/controller"
	"github.com/mesh-intelligence/storekeeper/pkg/types"
)

func newSaleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sale",
		Short: "List, record, update and delete sales",
	}

	cmd.AddCommand(newSaleListCmd(app))
	cmd.AddCommand(newSaleAddCmd(app))
	cmd.AddCommand(newSaleUpdateCmd(app))
	cmd.AddCommand(app.deleteCmd("sale", func(c *controller.Controller, cmd *cobra.Command, id int64) (string, error) {
		return c.DeleteSale(cmd.Context(), id)
	}))

	return cmd
}

func newSaleListCmd(app *App) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the sale grid with total costs",
		Args:  userArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			return app.writeGrid(cmd, ctrl.Grids().Sales.Filter(search))
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "show only rows where some column contains this text")
	return cmd
}

func newSaleAddCmd(app *App) *cobra.Command {
	var form controller.SaleForm

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a sale, creating the customer on first use",
		Long: `Add records a sale dated today and takes the quantity out of stock,
oldest purchase first. A customer name that is not on file yet is added.

Example:
  storekeeper sale add --customer "Ada Lovelace" --product 3 --quantity 2`,
		Args: userArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			status, err := ctrl.SaveSale(cmd.Context(), types.ModeInsert, form)
			if err != nil {
				return err
			}
			app.status(status)
			return nil
		},
	}

	saleFlags(cmd, &form)
	return cmd
}

func newSaleUpdateCmd(app *App) *cobra.Command {
	var form controller.SaleForm

	cmd := &cobra.Command{
		Use:   "update <saleid>",
		Short: "Change the customer, product or quantity of a sale",
		Long: `Update starts from the grid row of the sale and applies the given
flags. The old quantity goes back into stock before the new one is
taken.

Example:
  storekeeper sale update 12 --quantity 3`,
		Args: userArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			saleID, err := parseID("sale", args[0])
			if err != nil {
				return err
			}
			ctrl, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}

			current, err := ctrl.EditSale(cmd.Context(), saleID)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("customer") {
				current.CustomerName = form.CustomerName
			}
			if flags.Changed("product") {
				current.ProductID = form.ProductID
			}
			if flags.Changed("quantity") {
				current.Quantity = form.Quantity
			}

			status, err := ctrl.SaveSale(cmd.Context(), types.ModeUpdate, current)
			if err != nil {
				return err
			}
			app.status(status)
			return nil
		},
	}

	saleFlags(cmd, &form)
	return cmd
}

func saleFlags(cmd *cobra.Command, form *controller.SaleForm) {
	cmd.Flags().StringVar(&form.CustomerName, "customer", "", "customer name")
	cmd.Flags().StringVar(&form.ProductID, "product", "", "product ID")
	cmd.Flags().StringVar(&form.Quantity, "quantity", "", "quantity sold")
}
