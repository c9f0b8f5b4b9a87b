// Package migrations versions the PostgreSQL schema with golang-migrate.
// The SQL files are embedded so the binary carries its own schema.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/alchemorsel/pantry/internal/infrastructure/config"
)

//go:embed sql/*.sql
var sqlFiles embed.FS

const versionTable = "schema_migrations"

type Migrator struct {
	m   *migrate.Migrate
	log *zap.Logger
}

// Open connects with the pgx stdlib driver
func Open(cfg config.DatabaseConfig, logger *zap.Logger) (*Migrator, error) {
	db, err := sql.Open("pgx", cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Host, err)
	}

	mg, err := New(db, cfg.Database, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return mg, nil
}

// New runs migrations over db. Close closes db as well.
func New(db *sql.DB, databaseName string, logger *zap.Logger) (*Migrator, error) {
	src, err := iofs.New(sqlFiles, "sql")
	if err != nil {
		return nil, fmt.Errorf("load embedded migrations: %w", err)
	}
	target, err := postgres.WithInstance(db, &postgres.Config{
		MigrationsTable: versionTable,
		DatabaseName:    databaseName,
	})
	if err != nil {
		return nil, fmt.Errorf("prepare migration target: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", target)
	if err != nil {
		return nil, fmt.Errorf("init migrate: %w", err)
	}
	m.Log = migrateLogger{logger.Sugar()}

	return &Migrator{m: m, log: logger}, nil
}

// Up applies every pending migration. An up-to-date schema is not an
// error.
func (mg *Migrator) Up() error {
	before, _, err := mg.Version()
	if err != nil {
		return err
	}
	if err := mg.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up from %d: %w", before, err)
	}
	after, _, err := mg.Version()
	if err != nil {
		return err
	}
	if after != before {
		mg.log.Info("Schema migrated", zap.Uint("from", before), zap.Uint("to", after))
	}
	return nil
}

// Down reverts the last n migrations
func (mg *Migrator) Down(n int) error {
	if n < 1 {
		return fmt.Errorf("migrate down: steps must be at least 1, got %d", n)
	}
	mg.log.Warn("Reverting migrations", zap.Int("steps", n))
	if err := mg.m.Steps(-n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down %d: %w", n, err)
	}
	return nil
}

// Version reports the applied version, 0 on an empty database, and
// whether a failed migration left the schema dirty
func (mg *Migrator) Version() (uint, bool, error) {
	v, dirty, err := mg.m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, false, nil
	case err != nil:
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return v, dirty, nil
}

// Force records version as applied and clean without running anything
func (mg *Migrator) Force(version int) error {
	mg.log.Warn("Forcing schema version", zap.Int("version", version))
	if err := mg.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}

// migrateLogger routes golang-migrate's progress output to zap at debug
type migrateLogger struct {
	s *zap.SugaredLogger
}

func (l migrateLogger) Printf(format string, v ...interface{}) {
	l.s.Debugf(strings.TrimSuffix(format, "\n"), v...)
}

func (l migrateLogger) Verbose() bool { return false }
