package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// DSN builds the SQLite data source name with WAL mode, busy timeout and
// synchronous=FULL, since every write is a whole-state snapshot.
func DSN(path string) string {
	if path == ":memory:" {
		return path
	}
	return path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(FULL)"
}

// Open opens the SQLite database at path and verifies the connection.
// PRE: path is a writable file path or ":memory:"
// POST: Returns a live *sql.DB; caller owns Close
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time; an in-memory database must also stay on one
	// connection or each new connection would see an empty database.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	return db, nil
}

// MigrateDB applies every pending embedded migration.
// PRE: db is a valid database connection
// POST: Schema is at LatestSchemaVersion
func MigrateDB(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("get schema version: %w", err)
	}
	slog.Debug("schema_migrated", "version", version)
	return nil
}

// LatestSchemaVersion returns the version of the newest embedded migration.
func LatestSchemaVersion() int64 {
	goose.SetBaseFS(migrationsFS)
	migrations, err := goose.CollectMigrations(migrationsDir, 0, goose.MaxVersion)
	if err != nil {
		return 0
	}
	last, err := migrations.Last()
	if err != nil {
		return 0
	}
	return last.Version
}
