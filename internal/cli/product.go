package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storekeeper/internal/controller"
	"github.com/mesh-intelligence/storekeeper/pkg/types"
)

func newProductCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "List, add, update and delete products and their stock",
	}

	cmd.AddCommand(newProductListCmd(app))
	cmd.AddCommand(newProductAddCmd(app))
	cmd.AddCommand(newProductUpdateCmd(app))
	cmd.AddCommand(app.deleteCmd("product", func(c *controller.Controller, cmd *cobra.Command, id int64) (string, error) {
		return c.DeleteProduct(cmd.Context(), id)
	}))

	return cmd
}

func newProductListCmd(app *App) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the product grid, one row per supplier stock entry",
		Args:  userArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			return app.writeGrid(cmd, ctrl.Grids().Products.Filter(search))
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "show only rows where some column contains this text")
	return cmd
}

func newProductAddCmd(app *App) *cobra.Command {
	var form controller.ProductForm

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product stocked by a supplier",
		Long: `Add creates a product and records its stock quantity for the given
supplier, dated today.

Example:
  storekeeper product add --supplier 1 --name "Blue Widget" --price 2.50 --quantity 10`,
		Args: userArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			status, err := ctrl.SaveProduct(cmd.Context(), types.ModeInsert, form)
			if err != nil {
				return err
			}
			app.status(status)
			return nil
		},
	}

	productFlags(cmd, &form)
	return cmd
}

func newProductUpdateCmd(app *App) *cobra.Command {
	var form controller.ProductForm

	cmd := &cobra.Command{
		Use:   "update <productid>",
		Short: "Update a product and its stock for one supplier",
		Long: `Update starts from the grid row of the product stocked by --supplier and
applies the given flags. Name and price belong to the product; quantity
belongs to the supplier's stock entry, which is created when the
supplier does not stock the product yet.

Example:
  storekeeper product update 3 --supplier 1 --quantity 25`,
		Args: userArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := parseID("product", args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("supplier") {
				return usageErrorf("--supplier is required")
			}
			supplierID, err := parseID("supplier", form.SupplierID)
			if err != nil {
				return err
			}

			ctrl, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}

			current, err := ctrl.EditProduct(productID, supplierID)
			if errors.Is(err, types.ErrNoSelection) {
				current, err = ctrl.EditProduct(productID, 0)
			}
			if err != nil {
				return err
			}

			current.SupplierID = form.SupplierID
			flags := cmd.Flags()
			if flags.Changed("name") {
				current.Name = form.Name
			}
			if flags.Changed("price") {
				current.Price = form.Price
			}
			if flags.Changed("quantity") {
				current.Quantity = form.Quantity
			}

			status, err := ctrl.SaveProduct(cmd.Context(), types.ModeUpdate, current)
			if err != nil {
				return err
			}
			app.status(status)
			return nil
		},
	}

	productFlags(cmd, &form)
	return cmd
}

// productFlags binds the product form fields. Values stay text so the
// controller validates them the same way for every caller.
func productFlags(cmd *cobra.Command, form *controller.ProductForm) {
	cmd.Flags().StringVar(&form.SupplierID, "supplier", "", "supplier ID")
	cmd.Flags().StringVar(&form.Name, "name", "", "product name")
	cmd.Flags().StringVar(&form.Price, "price", "", "unit price")
	cmd.Flags().StringVar(&form.Quantity, "quantity", "", "stock quantity")
}
