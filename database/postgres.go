package database

import (
	"context"
	"database/sql"
	"embed"
	"time"

	"no-homers/logging"

	"github.com/cockroachdb/errors"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresDB wraps a sqlx handle and the URL it was opened with
type PostgresDB struct {
	db      *sqlx.DB
	url     string
	timeout time.Duration
}

// NewPostgresConnection opens and pings a Postgres database through lib/pq
func NewPostgresConnection(ctx context.Context, config Config) (*PostgresDB, error) {
	logger := logging.WithPrefix("Postgres")
	ctx, cancel := ContextWithTimeout(ctx, config.timeout())
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "postgres", config.PostgresURL)
	if err != nil {
		logger.Errorf("Failed to connect: %v", err)
		return nil, errors.Wrap(err, "failed to connect to postgres")
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	logger.Info("Successfully connected")
	return &PostgresDB{db: db, url: config.PostgresURL, timeout: config.timeout()}, nil
}

// DB exposes the sqlx handle
func (p *PostgresDB) DB() *sqlx.DB {
	return p.db
}

// TestConnection pings the server
func (p *PostgresDB) TestConnection(ctx context.Context) error {
	ctx, cancel := ContextWithTimeout(ctx, ShortTimeout)
	defer cancel()

	if err := p.db.PingContext(ctx); err != nil {
		logging.WithPrefix("Postgres").Errorf("Ping test failed: %v", err)
		return errors.Wrap(err, "postgres ping failed")
	}
	return nil
}

func (p *PostgresDB) Close() error {
	err := p.db.Close()
	if err != nil {
		logging.WithPrefix("Postgres").Errorf("Error closing: %v", err)
	}
	return err
}

// Migrate applies every pending embedded migration
func (p *PostgresDB) Migrate() error {
	m, err := NewMigrator(p.url)
	if err != nil {
		return err
	}
	defer CloseMigrator(m)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "apply migrations")
	}
	version, dirty, err := m.Version()
	if err == nil {
		logging.WithPrefix("Postgres").Infof("Schema at version %d (dirty=%t)", version, dirty)
	}
	return nil
}

// NewMigrator builds a migrator over the embedded migrations
func NewMigrator(databaseURL string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, errors.Wrap(err, "open embedded migrations")
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "create migrator")
	}
	return m, nil
}

// CloseMigrator releases the migrator's source and database handles
func CloseMigrator(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		logging.Warnf("close migration source: %v", srcErr)
	}
	if dbErr != nil {
		logging.Warnf("close migration db: %v", dbErr)
	}
}

// opContext bounds a single repository call
func (p *PostgresDB) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return ContextWithTimeout(ctx, p.timeout)
}

// withTx runs fn in a transaction and commits when it returns nil
func (p *PostgresDB) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit tx")
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isUniqueViolation matches Postgres error 23505
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
