package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"calctl/core/config"
	"calctl/core/constants"
	"calctl/core/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

type IDatabase interface {
	ExecContext(ctx context.Context, query string, args ...any) error
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	SQLx() *sqlx.DB
	Close() error
}

type Database struct {
	db     *sql.DB
	sqlx   *sqlx.DB
	driver string
}

// Open connects the configured SQL backend. The json driver never reaches
// this path; it has no database handle at all.
func Open(cfg config.StorageConfig) (*Database, error) {
	var driver, dsn string

	switch cfg.Driver {
	case constants.StorageDriverSQLite:
		driver = "sqlite3"
		dsn = cfg.Path
	case constants.StorageDriverPostgres:
		driver = "postgres"
		dsn = cfg.DSN
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}

	sqlxDB, err := sqlx.Connect(driver, dsn)
	if err != nil {
		logger.Error("Failed to connect to database", "driver", driver, "error", err)
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}

	sqlDB := sqlxDB.DB
	sqlDB.SetMaxOpenConns(constants.DatabaseMaxOpenConns)
	sqlDB.SetMaxIdleConns(constants.DatabaseMaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(constants.DatabaseConnMaxLifetime) * time.Minute)

	db := &Database{
		db:     sqlDB,
		sqlx:   sqlxDB,
		driver: driver,
	}

	if err := db.migrate(); err != nil {
		sqlxDB.Close()
		return nil, err
	}

	logger.Info("Database initialized", "driver", driver)
	return db, nil
}

// migrate creates the events table when absent.
func (d *Database) migrate() error {
	ddl := `
		CREATE TABLE IF NOT EXISTS events (
			seq              %s,
			id               TEXT NOT NULL UNIQUE,
			title            TEXT NOT NULL,
			date             TEXT NOT NULL,
			start_time       TEXT NOT NULL,
			duration_minutes INTEGER NOT NULL,
			location         TEXT,
			description      TEXT,
			created_at       TIMESTAMP NOT NULL,
			updated_at       TIMESTAMP NOT NULL
		)
	`

	// seq preserves insertion order across both engines.
	seqColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if d.driver == "postgres" {
		seqColumn = "BIGSERIAL PRIMARY KEY"
	}

	if _, err := d.db.Exec(fmt.Sprintf(ddl, seqColumn)); err != nil {
		logger.Error("Failed to create events table", err)
		return err
	}
	return nil
}

// Rebind converts ? placeholders to the driver's style.
func (d *Database) Rebind(query string) string {
	return d.sqlx.Rebind(query)
}

func (d *Database) ExecContext(ctx context.Context, query string, args ...any) error {
	_, err := d.sqlx.ExecContext(ctx, d.sqlx.Rebind(query), args...)
	return err
}

func (d *Database) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	return d.sqlx.GetContext(ctx, dest, d.sqlx.Rebind(query), args...)
}

func (d *Database) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	return d.sqlx.SelectContext(ctx, dest, d.sqlx.Rebind(query), args...)
}

func (d *Database) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return d.db.QueryRowContext(ctx, d.sqlx.Rebind(query), args...)
}

func (d *Database) SQLx() *sqlx.DB {
	return d.sqlx
}

func (d *Database) Close() error {
	return d.sqlx.Close()
}
