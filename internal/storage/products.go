package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/storekeeper/pkg/types"
)

// listProductsQuery yields one row per (product, supplier) stock entry.
// Products without stock are not listed.
const listProductsQuery = `
SELECT p.productid, p.name, p.price, s.quantity,
       COALESCE(s.purchasedate, '') AS purchasedate, su.supplierid
FROM product p
JOIN stock s ON p.productid = s.productid
JOIN supplier su ON s.supplierid = su.supplierid
ORDER BY p.productid, su.supplierid`

// ListProducts returns the product grid rows.
func (s *Session) ListProducts(ctx context.Context) ([]types.ProductRow, error) {
	var rows []types.ProductRow
	err := s.view(ctx, func(q sqlx.ExtContext) error {
		return sqlx.SelectContext(ctx, q, &rows, listProductsQuery)
	})
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return rows, nil
}

// ProductIDByName returns the identifier of the first product named name.
func (s *Session) ProductIDByName(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.view(ctx, func(q sqlx.ExtContext) error {
		return sqlx.GetContext(ctx, q, &id,
			"SELECT productid FROM product WHERE name = ? ORDER BY productid LIMIT 1", name)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("product %q: %w", name, types.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("looking up product %q: %w", name, err)
	}
	return id, nil
}

// SaveProduct writes a product and its stock entry for in.SupplierID.
// ModeInsert creates a new product; ModeUpdate rewrites name and price of
// in.ProductID. Either way the (product, supplier) stock row is then
// updated if present or inserted if not. Returns the product identifier.
func (s *Session) SaveProduct(ctx context.Context, mode types.Mode, in types.ProductInput) (int64, error) {
	if !mode.Valid() {
		return 0, types.ErrInvalidMode
	}
	if in.Name == "" {
		return 0, types.ErrInvalidName
	}
	if in.Quantity < 0 {
		return 0, types.ErrInvalidQuantity
	}

	id := in.ProductID
	err := s.WithTx(ctx, func(q sqlx.ExtContext) error {
		switch mode {
		case types.ModeInsert:
			res, err := q.ExecContext(ctx,
				"INSERT INTO product (name, price) VALUES (?, ?)", in.Name, in.Price)
			if err != nil {
				return err
			}
			if id, err = res.LastInsertId(); err != nil {
				return err
			}
		case types.ModeUpdate:
			found, err := exists(ctx, q, "SELECT 1 FROM product WHERE productid = ?", id)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("product %d: %w", id, types.ErrNotFound)
			}
			if _, err := q.ExecContext(ctx,
				"UPDATE product SET name = ?, price = ? WHERE productid = ?", in.Name, in.Price, id); err != nil {
				return err
			}
		}
		return upsertStock(ctx, q, id, in.SupplierID, in.Quantity)
	})
	if err != nil {
		return 0, err
	}

	s.log.WithFields(logrus.Fields{
		"mode":        mode.String(),
		"product_id":  id,
		"supplier_id": in.SupplierID,
	}).Debug("product saved")
	return id, nil
}

// upsertStock sets the quantity of the (product, supplier) stock row and
// stamps it with today's date.
func upsertStock(ctx context.Context, q sqlx.ExtContext, productID, supplierID, quantity int64) error {
	found, err := exists(ctx, q,
		"SELECT productid, supplierid FROM stock WHERE productid = ? AND supplierid = ?", productID, supplierID)
	if err != nil {
		return err
	}
	if found {
		_, err = q.ExecContext(ctx,
			"UPDATE stock SET quantity = ?, purchasedate = CURRENT_DATE WHERE productid = ? AND supplierid = ?",
			quantity, productID, supplierID)
		return err
	}
	_, err = q.ExecContext(ctx,
		"INSERT INTO stock (productid, supplierid, quantity, purchasedate) VALUES (?, ?, ?, CURRENT_DATE)",
		productID, supplierID, quantity)
	return err
}

// DeleteProduct removes a product. Stock or sale rows that reference it
// make the database refuse the delete; nothing cascades.
func (s *Session) DeleteProduct(ctx context.Context, id int64) error {
	if id <= 0 {
		return types.ErrInvalidID
	}
	return s.WithTx(ctx, func(q sqlx.ExtContext) error {
		return deleteByID(ctx, q, "DELETE FROM product WHERE productid = ?", id)
	})
}
