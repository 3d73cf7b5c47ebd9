// Package database opens connections to the store database: the
// connection gate used by the login loop, the single-connection session
// handle, and schema migrations for fresh installations.
package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/storekeeper/pkg/types"
)

//go:embed migrations
var migrationsFS embed.FS

const (
	defaultMySQLPort = "3306"
	dialTimeout      = 5 * time.Second
)

// sqlitePragmas are applied to every sqlite connection. Foreign keys make
// deletes of referenced rows fail instead of leaving orphans.
const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// DBPath returns the sqlite database file for cfg.
func DBPath(cfg types.Config) string {
	return filepath.Join(cfg.DataDir, cfg.Database+".db")
}

// DSN builds the driver connection string for cfg and creds. The sqlite
// driver ignores the credentials.
func DSN(cfg types.Config, creds types.Credentials) (string, error) {
	switch cfg.Driver {
	case types.DriverSQLite:
		return DBPath(cfg) + "?" + sqlitePragmas, nil
	case types.DriverMySQL:
		return mysqlConfig(cfg, creds).FormatDSN(), nil
	default:
		return "", types.ErrDriverUnknown
	}
}

func mysqlConfig(cfg types.Config, creds types.Credentials) *mysql.Config {
	host := cfg.Host
	if host == "" {
		host = types.DefaultHost
	}
	port := creds.Port
	if port == "" {
		port = defaultMySQLPort
	}

	mc := mysql.NewConfig()
	mc.User = creds.User
	mc.Passwd = creds.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(host, port)
	mc.DBName = cfg.Database
	mc.Timeout = dialTimeout
	return mc
}

// Check reports whether a connection with creds can be established. Any
// failure (bad credentials, unreachable host, timeout) is reported as
// false; the connection is always closed before returning.
func Check(ctx context.Context, cfg types.Config, creds types.Credentials, log logrus.FieldLogger) bool {
	db, err := connect(ctx, cfg, creds)
	if err != nil {
		log.WithError(err).WithField("driver", cfg.Driver).Warn("connection check failed")
		return false
	}
	defer db.Close()
	return true
}

// Open returns the session handle: one connection, never pooled, kept for
// the life of the handle.
func Open(ctx context.Context, cfg types.Config, creds types.Credentials) (*sqlx.DB, error) {
	db, err := connect(ctx, cfg, creds)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrConnectionFailed, err)
	}
	return db, nil
}

func connect(ctx context.Context, cfg types.Config, creds types.Credentials) (*sqlx.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// sqlite would create a missing file; a store that was never
	// initialized counts as unreachable.
	if cfg.Driver == types.DriverSQLite {
		if _, err := os.Stat(DBPath(cfg)); err != nil {
			return nil, fmt.Errorf("open %s: %w", DBPath(cfg), err)
		}
	}

	dsn, err := DSN(cfg, creds)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// IsForeignKeyViolation reports whether err is the database refusing a
// write because of a foreign key.
func IsForeignKeyViolation(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		// 1451: cannot delete or update a parent row; 1452: cannot add a child row.
		return me.Number == 1451 || me.Number == 1452
	}
	return containsFold(err, "FOREIGN KEY constraint failed")
}

func containsFold(err error, substr string) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), strings.ToLower(substr))
}
