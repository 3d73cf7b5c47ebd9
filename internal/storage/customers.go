package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mesh-intelligence/storekeeper/pkg/types"
)

const customerByNameQuery = "SELECT customerid FROM customer WHERE name = ? ORDER BY customerid LIMIT 1"

// CustomerIDByName returns the identifier of the first customer named name.
func (s *Session) CustomerIDByName(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.view(ctx, func(q sqlx.ExtContext) error {
		return sqlx.GetContext(ctx, q, &id, customerByNameQuery, name)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("customer %q: %w", name, types.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("looking up customer %q: %w", name, err)
	}
	return id, nil
}

// AddCustomer inserts a customer and returns its new identifier.
func (s *Session) AddCustomer(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, types.ErrInvalidName
	}
	var id int64
	err := s.WithTx(ctx, func(q sqlx.ExtContext) error {
		var err error
		id, err = insertCustomer(ctx, q, name)
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func insertCustomer(ctx context.Context, q sqlx.ExtContext, name string) (int64, error) {
	res, err := q.ExecContext(ctx, "INSERT INTO customer (name) VALUES (?)", name)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ensureCustomer returns the identifier of the customer called name,
// creating the customer when no row has that name. Names are matched
// exactly; the first match wins if several rows share a name.
func ensureCustomer(ctx context.Context, q sqlx.ExtContext, name string) (id int64, created bool, err error) {
	err = sqlx.GetContext(ctx, q, &id, customerByNameQuery, name)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, err
	}

	id, err = insertCustomer(ctx, q, name)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}
