package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mesh-intelligence/storekeeper/pkg/types"
)

// Procedures creates and rewrites sales together with their stock effects.
// Implementations run inside the caller's transaction.
type Procedures interface {
	// MakePurchase records a new sale dated today and takes quantity out of
	// stock. Returns the new sale identifier when it is known.
	MakePurchase(ctx context.Context, q sqlx.ExtContext, customerID, productID, quantity int64) (int64, error)

	// UpdateSale points sale saleID at a new customer, product and
	// quantity, moving stock accordingly.
	UpdateSale(ctx context.Context, q sqlx.ExtContext, customerID, productID, quantity, saleID int64) error
}

// ProceduresFor picks the procedure strategy configured for cfg.
func ProceduresFor(cfg types.Config) Procedures {
	if cfg.EffectiveProcedures() == types.ProceduresServer {
		return ServerProcedures{}
	}
	return NativeProcedures{}
}

// ServerProcedures delegates to the makepurchase and updatesale stored
// procedures of the database.
type ServerProcedures struct{}

func (ServerProcedures) MakePurchase(ctx context.Context, q sqlx.ExtContext, customerID, productID, quantity int64) (int64, error) {
	if _, err := q.ExecContext(ctx, "CALL makepurchase(?, ?, ?)", customerID, productID, quantity); err != nil {
		return 0, err
	}
	var id int64
	if err := sqlx.GetContext(ctx, q, &id, "SELECT LAST_INSERT_ID()"); err != nil {
		return 0, fmt.Errorf("reading sale id: %w", err)
	}
	return id, nil
}

func (ServerProcedures) UpdateSale(ctx context.Context, q sqlx.ExtContext, customerID, productID, quantity, saleID int64) error {
	_, err := q.ExecContext(ctx, "CALL updatesale(?, ?, ?, ?)", customerID, productID, quantity, saleID)
	return err
}

// NativeProcedures implements the procedure contract with plain
// statements. Stock is consumed from the oldest purchase first and
// returned to the newest one.
type NativeProcedures struct{}

func (NativeProcedures) MakePurchase(ctx context.Context, q sqlx.ExtContext, customerID, productID, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, types.ErrInvalidQuantity
	}
	if err := requireProduct(ctx, q, productID); err != nil {
		return 0, err
	}
	if err := consumeStock(ctx, q, productID, quantity); err != nil {
		return 0, err
	}

	res, err := q.ExecContext(ctx,
		"INSERT INTO sale (customerid, productid, quantity, saledate) VALUES (?, ?, ?, CURRENT_DATE)",
		customerID, productID, quantity)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (NativeProcedures) UpdateSale(ctx context.Context, q sqlx.ExtContext, customerID, productID, quantity, saleID int64) error {
	if quantity <= 0 {
		return types.ErrInvalidQuantity
	}

	var old types.Sale
	err := sqlx.GetContext(ctx, q, &old,
		"SELECT saleid, customerid, productid, quantity, COALESCE(saledate, '') AS saledate FROM sale WHERE saleid = ?",
		saleID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("sale %d: %w", saleID, types.ErrNotFound)
	}
	if err != nil {
		return err
	}

	if err := requireProduct(ctx, q, productID); err != nil {
		return err
	}
	if err := moveSaleStock(ctx, q, old, productID, quantity); err != nil {
		return err
	}

	_, err = q.ExecContext(ctx,
		"UPDATE sale SET customerid = ?, productid = ?, quantity = ? WHERE saleid = ?",
		customerID, productID, quantity, saleID)
	return err
}

func requireProduct(ctx context.Context, q sqlx.ExtContext, productID int64) error {
	found, err := exists(ctx, q, "SELECT 1 FROM product WHERE productid = ?", productID)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("product %d: %w", productID, types.ErrNotFound)
	}
	return nil
}

// moveSaleStock applies the stock effect of rewriting sale old to
// quantity units of productID. For the same product only the difference
// moves, so an unchanged quantity leaves every stock row as it was.
func moveSaleStock(ctx context.Context, q sqlx.ExtContext, old types.Sale, productID, quantity int64) error {
	if old.ProductID == productID {
		switch delta := quantity - old.Quantity; {
		case delta > 0:
			return consumeStock(ctx, q, productID, delta)
		case delta < 0:
			return restock(ctx, q, productID, -delta)
		default:
			return nil
		}
	}
	if err := restock(ctx, q, old.ProductID, old.Quantity); err != nil {
		return err
	}
	return consumeStock(ctx, q, productID, quantity)
}

// consumeStock takes quantity units of productID out of its stock rows,
// oldest purchase first. Fails without touching stock when the rows hold
// fewer units than requested.
func consumeStock(ctx context.Context, q sqlx.ExtContext, productID, quantity int64) error {
	var available int64
	if err := sqlx.GetContext(ctx, q, &available,
		"SELECT COALESCE(SUM(quantity), 0) FROM stock WHERE productid = ?", productID); err != nil {
		return err
	}
	if available < quantity {
		return fmt.Errorf("%w: product %d has %d in stock, %d requested",
			types.ErrInsufficientStock, productID, available, quantity)
	}

	var rows []types.Stock
	if err := sqlx.SelectContext(ctx, q, &rows, `
SELECT productid, supplierid, quantity, COALESCE(purchasedate, '') AS purchasedate
FROM stock
WHERE productid = ? AND quantity > 0
ORDER BY purchasedate, supplierid`, productID); err != nil {
		return err
	}

	remaining := quantity
	for _, row := range rows {
		if remaining == 0 {
			break
		}
		take := min(row.Quantity, remaining)
		if _, err := q.ExecContext(ctx,
			"UPDATE stock SET quantity = quantity - ? WHERE productid = ? AND supplierid = ?",
			take, row.ProductID, row.SupplierID); err != nil {
			return err
		}
		remaining -= take
	}
	return nil
}

// restock returns quantity units to the most recently purchased stock row
// of productID. A product without stock rows has nowhere to return to.
func restock(ctx context.Context, q sqlx.ExtContext, productID, quantity int64) error {
	var supplierID int64
	err := sqlx.GetContext(ctx, q, &supplierID, `
SELECT supplierid FROM stock
WHERE productid = ?
ORDER BY purchasedate DESC, supplierid DESC
LIMIT 1`, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	_, err = q.ExecContext(ctx,
		"UPDATE stock SET quantity = quantity + ? WHERE productid = ? AND supplierid = ?",
		quantity, productID, supplierID)
	return err
}
