package controller

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/storekeeper/pkg/types"
)

// SaveProduct inserts or updates a product from form. In update mode the
// product must be shown in the grid.
func (c *Controller) SaveProduct(ctx context.Context, mode types.Mode, form ProductForm) (string, error) {
	if !mode.Valid() {
		return "", types.ErrInvalidMode
	}
	in, err := form.input(mode)
	if err != nil {
		return "", err
	}
	if mode == types.ModeUpdate {
		if _, ok := c.grids.Products.Find(formatID(in.ProductID)); !ok {
			return "", fmt.Errorf("product ID %d: %w", in.ProductID, types.ErrNoSelection)
		}
	}

	if _, err := c.store.SaveProduct(ctx, mode, in); err != nil {
		return "", &Failure{Action: "add/update product", Err: err}
	}

	status := "Product added successfully."
	if mode == types.ModeUpdate {
		status = "Product updated successfully."
	}
	return c.done(ctx, status)
}

// EditProduct returns a form filled from the grid row of productID stocked
// by supplierID. A zero supplierID picks the first row of the product.
func (c *Controller) EditProduct(productID, supplierID int64) (ProductForm, error) {
	for _, rec := range c.grids.Products.Records {
		row := rec.(types.ProductRow)
		if row.ProductID != productID || (supplierID != 0 && row.SupplierID != supplierID) {
			continue
		}
		return ProductForm{
			ProductID:  formatID(row.ProductID),
			SupplierID: formatID(row.SupplierID),
			Name:       row.Name,
			Price:      row.Price.String(),
			Quantity:   formatID(row.Quantity),
		}, nil
	}
	return ProductForm{}, fmt.Errorf("product ID %d: %w", productID, types.ErrNoSelection)
}

// DeleteProduct removes the product shown in the grid with identifier id.
func (c *Controller) DeleteProduct(ctx context.Context, id int64) (string, error) {
	if _, ok := c.grids.Products.Find(formatID(id)); !ok {
		return "", fmt.Errorf("product ID %d: %w", id, types.ErrNoSelection)
	}
	if err := c.store.DeleteProduct(ctx, id); err != nil {
		return "", &Failure{Action: fmt.Sprintf("delete product ID %d", id), Err: err}
	}
	return c.done(ctx, fmt.Sprintf("Product ID %d deleted successfully.", id))
}
