// Package storage runs the store statements over a single database
// connection. Every write goes through Session.WithTx, which commits or
// rolls back in one place. A user-created savepoint turns the session into
// one long transaction until Commit or Close.
package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/storekeeper/internal/database"
	"github.com/mesh-intelligence/storekeeper/pkg/types"
)

// Savepoint names. checkpointSavepoint is the single user savepoint;
// opSavepoint brackets one write while the checkpoint transaction is open.
const (
	checkpointSavepoint = "storekeeper_checkpoint"
	opSavepoint         = "storekeeper_op"
)

// Session owns the connection for the life of the process.
type Session struct {
	mu         sync.Mutex
	db         *sqlx.DB
	procedures Procedures
	log        logrus.FieldLogger

	// checkpoint is the transaction opened by Savepoint; nil when writes
	// auto-commit.
	checkpoint *sqlx.Tx
	closed     bool
}

// Open connects with cfg and creds and returns a session over that
// connection.
func Open(ctx context.Context, cfg types.Config, creds types.Credentials, log logrus.FieldLogger) (*Session, error) {
	db, err := database.Open(ctx, cfg, creds)
	if err != nil {
		return nil, err
	}
	return NewSession(db, ProceduresFor(cfg), log), nil
}

// NewSession wraps an open handle. The handle should allow a single
// connection; the session serializes all access to it.
func NewSession(db *sqlx.DB, procedures Procedures, log logrus.FieldLogger) *Session {
	return &Session{
		db:         db,
		procedures: procedures,
		log:        log,
	}
}

// handle returns what statements run on: the checkpoint transaction when
// one is open (it holds the only connection), otherwise the handle.
// The caller must hold s.mu.
func (s *Session) handle() sqlx.ExtContext {
	if s.checkpoint != nil {
		return s.checkpoint
	}
	return s.db
}

// view runs read-only statements.
func (s *Session) view(ctx context.Context, fn func(q sqlx.ExtContext) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.ErrSessionClosed
	}
	return fn(s.handle())
}

// WithTx runs fn as one unit of work. Without a checkpoint the work is
// committed when fn returns nil and rolled back otherwise. With a
// checkpoint open, a failed fn is undone back to its own savepoint and a
// successful one stays pending until Commit.
func (s *Session) WithTx(ctx context.Context, fn func(q sqlx.ExtContext) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.ErrSessionClosed
	}

	if s.checkpoint != nil {
		return s.withSavepoint(ctx, s.checkpoint, fn)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.log.WithError(rbErr).Warn("rollback failed")
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Session) withSavepoint(ctx context.Context, tx *sqlx.Tx, fn func(q sqlx.ExtContext) error) error {
	if _, err := tx.ExecContext(ctx, "SAVEPOINT "+opSavepoint); err != nil {
		return fmt.Errorf("set savepoint: %w", err)
	}

	if err := fn(tx); err != nil {
		if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+opSavepoint); rbErr != nil {
			s.log.WithError(rbErr).Warn("rollback to operation savepoint failed")
		}
		if _, relErr := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+opSavepoint); relErr != nil {
			s.log.WithError(relErr).Warn("release of operation savepoint failed")
		}
		return err
	}

	if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+opSavepoint); err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}
	return nil
}

// Savepoint sets the session savepoint. The first call opens the
// checkpoint transaction; later calls move the savepoint to the current
// state, so there is never more than one.
func (s *Session) Savepoint(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.ErrSessionClosed
	}

	if s.checkpoint == nil {
		// The checkpoint outlives the command that created it.
		tx, err := s.db.BeginTxx(context.WithoutCancel(ctx), nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		s.checkpoint = tx
	} else if _, err := s.checkpoint.ExecContext(ctx, "RELEASE SAVEPOINT "+checkpointSavepoint); err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}

	if _, err := s.checkpoint.ExecContext(ctx, "SAVEPOINT "+checkpointSavepoint); err != nil {
		return fmt.Errorf("set savepoint: %w", err)
	}

	s.log.Debug("savepoint set")
	return nil
}

// RollbackToSavepoint undoes every write made since Savepoint. The
// savepoint stays in place and can be rolled back to again.
func (s *Session) RollbackToSavepoint(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.ErrSessionClosed
	}
	if s.checkpoint == nil {
		return types.ErrNoSavepoint
	}

	if _, err := s.checkpoint.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+checkpointSavepoint); err != nil {
		return fmt.Errorf("rollback to savepoint: %w", err)
	}

	s.log.Debug("rolled back to savepoint")
	return nil
}

// HasSavepoint reports whether a checkpoint transaction is open.
func (s *Session) HasSavepoint() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkpoint != nil
}

// Commit makes the writes since Savepoint durable and drops the
// savepoint. Returns ErrNoSavepoint when writes are already committed.
func (s *Session) Commit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.ErrSessionClosed
	}
	return s.commitLocked()
}

func (s *Session) commitLocked() error {
	if s.checkpoint == nil {
		return types.ErrNoSavepoint
	}
	tx := s.checkpoint
	s.checkpoint = nil
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.log.Debug("checkpoint committed")
	return nil
}

// Close commits an open checkpoint transaction and closes the connection.
// Close is idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var commitErr error
	if s.checkpoint != nil {
		commitErr = s.commitLocked()
	}
	if err := s.db.Close(); err != nil {
		return err
	}
	return commitErr
}
