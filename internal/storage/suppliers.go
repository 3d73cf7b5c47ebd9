package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mesh-intelligence/storekeeper/internal/database"
	"github.com/mesh-intelligence/storekeeper/pkg/types"
)

// ListSuppliers returns every supplier in identifier order.
func (s *Session) ListSuppliers(ctx context.Context) ([]types.Supplier, error) {
	var suppliers []types.Supplier
	err := s.view(ctx, func(q sqlx.ExtContext) error {
		return sqlx.SelectContext(ctx, q, &suppliers,
			"SELECT supplierid, name FROM supplier ORDER BY supplierid")
	})
	if err != nil {
		return nil, fmt.Errorf("listing suppliers: %w", err)
	}
	return suppliers, nil
}

// AddSupplier inserts a supplier and returns its new identifier.
func (s *Session) AddSupplier(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, types.ErrInvalidName
	}

	var id int64
	err := s.WithTx(ctx, func(q sqlx.ExtContext) error {
		res, err := q.ExecContext(ctx, "INSERT INTO supplier (name) VALUES (?)", name)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, err
	}

	s.log.WithField("supplier_id", id).Debug("supplier added")
	return id, nil
}

// DeleteSupplier removes a supplier. Stock rows that still reference it
// make the database refuse the delete.
func (s *Session) DeleteSupplier(ctx context.Context, id int64) error {
	if id <= 0 {
		return types.ErrInvalidID
	}
	return s.WithTx(ctx, func(q sqlx.ExtContext) error {
		return deleteByID(ctx, q, "DELETE FROM supplier WHERE supplierid = ?", id)
	})
}

// deleteByID runs a single-row delete and maps "no row" to ErrNotFound.
func deleteByID(ctx context.Context, q sqlx.ExtContext, query string, id int64) error {
	res, err := q.ExecContext(ctx, query, id)
	if err != nil {
		return referenced(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// referenced marks a foreign key refusal with ErrStillReferenced and keeps
// the driver error in the chain.
func referenced(err error) error {
	if database.IsForeignKeyViolation(err) {
		return fmt.Errorf("%w: %w", types.ErrStillReferenced, err)
	}
	return err
}

// exists reports whether query returns a row.
func exists(ctx context.Context, q sqlx.ExtContext, query string, args ...any) (bool, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	defer rows.Close()
	found := rows.Next()
	return found, rows.Err()
}
