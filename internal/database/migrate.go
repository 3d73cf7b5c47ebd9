package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	mysqlmigrate "github.com/golang-migrate/migrate/v4/database/mysql"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/mesh-intelligence/storekeeper/pkg/types"
)

// Migrate brings the schema for cfg up to date. For sqlite it creates the
// data directory and the database file; for mysql it creates the tables
// and the makepurchase / updatesale procedures in an existing database.
func Migrate(cfg types.Config, creds types.Credentials) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	var (
		sqlDB *sql.DB
		drv   migratedb.Driver
		err   error
	)

	switch cfg.Driver {
	case types.DriverSQLite:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
		sqlDB, err = sql.Open("sqlite", DBPath(cfg)+"?"+sqlitePragmas)
		if err != nil {
			return fmt.Errorf("open DB: %w", err)
		}
		drv, err = sqlitemigrate.WithInstance(sqlDB, &sqlitemigrate.Config{})
	case types.DriverMySQL:
		mc := mysqlConfig(cfg, creds)
		mc.MultiStatements = true
		sqlDB, err = sql.Open("mysql", mc.FormatDSN())
		if err != nil {
			return fmt.Errorf("open DB: %w", err)
		}
		drv, err = mysqlmigrate.WithInstance(sqlDB, &mysqlmigrate.Config{})
	}
	if err != nil {
		sqlDB.Close()
		return fmt.Errorf("create driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations/"+cfg.Driver)
	if err != nil {
		drv.Close()
		return fmt.Errorf("open migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, cfg.Driver, drv)
	if err != nil {
		drv.Close()
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
