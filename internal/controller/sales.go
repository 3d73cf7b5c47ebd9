package controller

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/storekeeper/pkg/types"
)

// SaveSale records or rewrites a sale from form. The customer is created
// when the name is new. In update mode the sale must be shown in the grid.
func (c *Controller) SaveSale(ctx context.Context, mode types.Mode, form SaleForm) (string, error) {
	if !mode.Valid() {
		return "", types.ErrInvalidMode
	}
	in, err := form.input(mode)
	if err != nil {
		return "", err
	}
	if mode == types.ModeUpdate {
		if _, ok := c.grids.Sales.Find(formatID(in.SaleID)); !ok {
			return "", fmt.Errorf("sale ID %d: %w", in.SaleID, types.ErrNoSelection)
		}
	}

	res, err := c.store.SaveSale(ctx, mode, in)
	if err != nil {
		return "", &Failure{Action: "add/update sale", Err: err}
	}

	status := "Sale added successfully."
	if mode == types.ModeUpdate {
		status = "Sale updated successfully."
	}
	if res.CustomerCreated {
		status = "Customer not found, new customer added successfully. " + status
	}
	return c.done(ctx, status)
}

// EditSale returns a form filled from the grid row of saleID. The product
// field is resolved from the product name shown in the row.
func (c *Controller) EditSale(ctx context.Context, saleID int64) (SaleForm, error) {
	rec, ok := c.grids.Sales.Find(formatID(saleID))
	if !ok {
		return SaleForm{}, fmt.Errorf("sale ID %d: %w", saleID, types.ErrNoSelection)
	}
	row := rec.(types.SaleRow)

	productID, err := c.store.ProductIDByName(ctx, row.ProductName)
	if err != nil {
		return SaleForm{}, &Failure{Action: "retrieve sale information", Err: err}
	}
	return SaleForm{
		SaleID:       formatID(row.SaleID),
		CustomerName: row.CustomerName,
		ProductID:    formatID(productID),
		Quantity:     formatID(row.Quantity),
	}, nil
}

// DeleteSale removes the sale shown in the grid with identifier id.
func (c *Controller) DeleteSale(ctx context.Context, id int64) (string, error) {
	if _, ok := c.grids.Sales.Find(formatID(id)); !ok {
		return "", fmt.Errorf("sale ID %d: %w", id, types.ErrNoSelection)
	}
	if err := c.store.DeleteSale(ctx, id); err != nil {
		return "", &Failure{Action: fmt.Sprintf("delete sale ID %d", id), Err: err}
	}
	return c.done(ctx, fmt.Sprintf("Sale ID %d deleted successfully.", id))
}
