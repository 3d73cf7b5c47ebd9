package storage

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/storekeeper/internal/database"
	"github.com/mesh-intelligence/storekeeper/pkg/types"
)

// setupSession migrates a fresh sqlite store and opens a session on it.
func setupSession(t *testing.T) (*Session, types.Config) {
	t.Helper()
	cfg := types.Config{
		Driver:   types.DriverSQLite,
		Database: types.DefaultDatabase,
		DataDir:  filepath.Join(t.TempDir(), "data"),
	}
	require.NoError(t, database.Migrate(cfg, types.Credentials{}))

	s := openSession(t, cfg)
	return s, cfg
}

func openSession(t *testing.T, cfg types.Config) *Session {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	s, err := Open(context.Background(), cfg, types.Credentials{}, log)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func supplierNames(t *testing.T, s *Session) []string {
	t.Helper()
	suppliers, err := s.ListSuppliers(context.Background())
	require.NoError(t, err)
	names := make([]string, 0, len(suppliers))
	for _, sp := range suppliers {
		names = append(names, sp.Name)
	}
	return names
}

func TestSession_WithTxRollsBackOnError(t *testing.T) {
	s, _ := setupSession(t)
	ctx := context.Background()

	_, err := s.AddSupplier(ctx, "Acme")
	require.NoError(t, err)

	// The second statement fails, so the first must not stick.
	err = failingWrite(ctx, s)
	require.Error(t, err)

	assert.Equal(t, []string{"Acme"}, supplierNames(t, s))
}

// failingWrite inserts a supplier and then a stock row for a product that
// does not exist, inside one unit of work.
func failingWrite(ctx context.Context, s *Session) error {
	return s.WithTx(ctx, func(q sqlx.ExtContext) error {
		if _, err := q.ExecContext(ctx, "INSERT INTO supplier (name) VALUES (?)", "Ghost"); err != nil {
			return err
		}
		_, err := q.ExecContext(ctx,
			"INSERT INTO stock (productid, supplierid, quantity) VALUES (?, ?, ?)", 999, 1, 1)
		return err
	})
}

func TestSession_SavepointRollback(t *testing.T) {
	s, _ := setupSession(t)
	ctx := context.Background()

	_, err := s.AddSupplier(ctx, "Before")
	require.NoError(t, err)

	require.NoError(t, s.Savepoint(ctx))
	assert.True(t, s.HasSavepoint())

	_, err = s.AddSupplier(ctx, "After")
	require.NoError(t, err)
	assert.Equal(t, []string{"Before", "After"}, supplierNames(t, s))

	require.NoError(t, s.RollbackToSavepoint(ctx))
	assert.Equal(t, []string{"Before"}, supplierNames(t, s))

	// The savepoint survives a rollback and can be used again.
	_, err = s.AddSupplier(ctx, "Again")
	require.NoError(t, err)
	require.NoError(t, s.RollbackToSavepoint(ctx))
	assert.Equal(t, []string{"Before"}, supplierNames(t, s))
}

func TestSession_SavepointMovesForward(t *testing.T) {
	s, _ := setupSession(t)
	ctx := context.Background()

	require.NoError(t, s.Savepoint(ctx))
	_, err := s.AddSupplier(ctx, "First")
	require.NoError(t, err)

	require.NoError(t, s.Savepoint(ctx))
	_, err = s.AddSupplier(ctx, "Second")
	require.NoError(t, err)

	require.NoError(t, s.RollbackToSavepoint(ctx))
	assert.Equal(t, []string{"First"}, supplierNames(t, s))
}

func TestSession_FailedWriteInsideCheckpoint(t *testing.T) {
	s, _ := setupSession(t)
	ctx := context.Background()

	require.NoError(t, s.Savepoint(ctx))
	_, err := s.AddSupplier(ctx, "Kept")
	require.NoError(t, err)

	require.Error(t, failingWrite(ctx, s))

	_, err = s.AddSupplier(ctx, "Later")
	require.NoError(t, err)
	assert.Equal(t, []string{"Kept", "Later"}, supplierNames(t, s))
}

func TestSession_RollbackWithoutSavepoint(t *testing.T) {
	s, _ := setupSession(t)
	assert.ErrorIs(t, s.RollbackToSavepoint(context.Background()), types.ErrNoSavepoint)
	assert.ErrorIs(t, s.Commit(context.Background()), types.ErrNoSavepoint)
}

func TestSession_CommitMakesWritesDurable(t *testing.T) {
	s, cfg := setupSession(t)
	ctx := context.Background()

	require.NoError(t, s.Savepoint(ctx))
	_, err := s.AddSupplier(ctx, "Durable")
	require.NoError(t, err)
	require.NoError(t, s.Commit(ctx))
	assert.False(t, s.HasSavepoint())

	assert.ErrorIs(t, s.RollbackToSavepoint(ctx), types.ErrNoSavepoint)
	require.NoError(t, s.Close())

	reopened := openSession(t, cfg)
	assert.Equal(t, []string{"Durable"}, supplierNames(t, reopened))
}

func TestSession_CloseCommitsCheckpoint(t *testing.T) {
	s, cfg := setupSession(t)
	ctx := context.Background()

	require.NoError(t, s.Savepoint(ctx))
	_, err := s.AddSupplier(ctx, "Pending")
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "Close is idempotent")

	reopened := openSession(t, cfg)
	assert.Equal(t, []string{"Pending"}, supplierNames(t, reopened))
}

func TestSession_Closed(t *testing.T) {
	s, _ := setupSession(t)
	ctx := context.Background()
	require.NoError(t, s.Close())

	_, err := s.ListSuppliers(ctx)
	assert.ErrorIs(t, err, types.ErrSessionClosed)
	_, err = s.AddSupplier(ctx, "Nope")
	assert.ErrorIs(t, err, types.ErrSessionClosed)
	assert.ErrorIs(t, s.Savepoint(ctx), types.ErrSessionClosed)
}
