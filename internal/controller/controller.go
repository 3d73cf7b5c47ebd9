// Package controller holds the storekeeper screen state: the three grids
// and the handlers behind every insert, update, delete and savepoint
// action. Each handler validates raw form input, performs one write,
// reloads every grid and reports a status line.
package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/storekeeper/internal/grid"
	"github.com/mesh-intelligence/storekeeper/pkg/types"
)

// Store is the data access the controller drives. *storage.Session
// implements it.
type Store interface {
	ListSuppliers(ctx context.Context) ([]types.Supplier, error)
	ListProducts(ctx context.Context) ([]types.ProductRow, error)
	ListSales(ctx context.Context) ([]types.SaleRow, error)

	AddSupplier(ctx context.Context, name string) (int64, error)
	DeleteSupplier(ctx context.Context, id int64) error

	ProductIDByName(ctx context.Context, name string) (int64, error)
	SaveProduct(ctx context.Context, mode types.Mode, in types.ProductInput) (int64, error)
	DeleteProduct(ctx context.Context, id int64) error

	SaveSale(ctx context.Context, mode types.Mode, in types.SaleInput) (types.SaleResult, error)
	DeleteSale(ctx context.Context, id int64) error

	Savepoint(ctx context.Context) error
	RollbackToSavepoint(ctx context.Context) error
	Commit(ctx context.Context) error
}

// Failure is a database error raised while performing Action.
type Failure struct {
	Action string
	Err    error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("failed to %s: %v", f.Action, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Grids is the last loaded state of the three tables.
type Grids struct {
	Suppliers *grid.Grid
	Products  *grid.Grid
	Sales     *grid.Grid
}

// Controller owns the grids and the store they are loaded from.
type Controller struct {
	store Store
	log   logrus.FieldLogger
	grids Grids
}

// New returns a controller with empty grids. Call Reload before handling
// selections.
func New(store Store, log logrus.FieldLogger) *Controller {
	return &Controller{
		store: store,
		log:   log,
		grids: Grids{
			Suppliers: grid.FromSuppliers(nil),
			Products:  grid.FromProducts(nil),
			Sales:     grid.FromSales(nil),
		},
	}
}

// Grids returns the current grids.
func (c *Controller) Grids() Grids { return c.grids }

// Reload re-reads every table and replaces all three grids. On error the
// previous grids are kept.
func (c *Controller) Reload(ctx context.Context) error {
	sales, err := c.store.ListSales(ctx)
	if err != nil {
		return &Failure{Action: "load sales", Err: err}
	}
	products, err := c.store.ListProducts(ctx)
	if err != nil {
		return &Failure{Action: "load products", Err: err}
	}
	suppliers, err := c.store.ListSuppliers(ctx)
	if err != nil {
		return &Failure{Action: "load suppliers", Err: err}
	}

	c.grids = Grids{
		Suppliers: grid.FromSuppliers(suppliers),
		Products:  grid.FromProducts(products),
		Sales:     grid.FromSales(sales),
	}
	c.log.WithFields(logrus.Fields{
		"suppliers": c.grids.Suppliers.Len(),
		"products":  c.grids.Products.Len(),
		"sales":     c.grids.Sales.Len(),
	}).Debug("grids reloaded")
	return nil
}

// done reloads after a successful write and returns status unless the
// reload fails.
func (c *Controller) done(ctx context.Context, status string) (string, error) {
	if err := c.Reload(ctx); err != nil {
		return status, err
	}
	return status, nil
}

// AddSupplier inserts a supplier named name.
func (c *Controller) AddSupplier(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", types.ErrMissingFields
	}
	if _, err := c.store.AddSupplier(ctx, name); err != nil {
		return "", &Failure{Action: "add supplier", Err: err}
	}
	return c.done(ctx, "Supplier added successfully.")
}

// DeleteSupplier removes the supplier shown in the grid with identifier id.
func (c *Controller) DeleteSupplier(ctx context.Context, id int64) (string, error) {
	if _, ok := c.grids.Suppliers.Find(formatID(id)); !ok {
		return "", fmt.Errorf("supplier ID %d: %w", id, types.ErrNoSelection)
	}
	if err := c.store.DeleteSupplier(ctx, id); err != nil {
		return "", &Failure{Action: fmt.Sprintf("delete supplier ID %d", id), Err: err}
	}
	return c.done(ctx, fmt.Sprintf("Supplier ID %d deleted successfully.", id))
}

// Savepoint sets the undo checkpoint.
func (c *Controller) Savepoint(ctx context.Context) (string, error) {
	if err := c.store.Savepoint(ctx); err != nil {
		return "", &Failure{Action: "create savepoint", Err: err}
	}
	return "Savepoint created.", nil
}

// RollbackToSavepoint undoes every write since the checkpoint and reloads.
func (c *Controller) RollbackToSavepoint(ctx context.Context) (string, error) {
	if err := c.store.RollbackToSavepoint(ctx); err != nil {
		if errors.Is(err, types.ErrNoSavepoint) {
			return "", err
		}
		return "", &Failure{Action: "roll back to savepoint", Err: err}
	}
	return c.done(ctx, "Rolled back to savepoint.")
}

// Commit makes the writes since the checkpoint durable.
func (c *Controller) Commit(ctx context.Context) (string, error) {
	if err := c.store.Commit(ctx); err != nil {
		if errors.Is(err, types.ErrNoSavepoint) {
			return "", err
		}
		return "", &Failure{Action: "commit", Err: err}
	}
	return c.done(ctx, "Changes committed.")
}
