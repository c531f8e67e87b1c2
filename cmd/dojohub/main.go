package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"dojohub/internal/adapters/http/perf"
	"dojohub/internal/adapters/storage"
	"dojohub/internal/adapters/storage/kv"
	snapshotStore "dojohub/internal/adapters/storage/snapshot"
	"dojohub/internal/application/console"
	"dojohub/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

var (
	configPath string
	dbFlag     string
	envFlag    string
	levelFlag  string

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:           "dojohub",
	Short:         "Dojo Hub academy console",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("db") {
			loaded.DBPath = dbFlag
		}
		if flags.Changed("env") {
			loaded.Env = envFlag
		}
		if flags.Changed("log-level") {
			loaded.LogLevel = levelFlag
		}
		if flags.Changed("addr") {
			loaded.Addr = addrFlag
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded
		return setupLogger(cfg)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML config file")
	pf.StringVar(&dbFlag, "db", config.DefaultDBPath, "SQLite database path")
	pf.StringVar(&envFlag, "env", config.EnvDevelopment, "environment: development or production")
	pf.StringVar(&levelFlag, "log-level", config.DefaultLogLevel, "log level: debug, info, warn, error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command_failed", "error", err.Error())
		os.Exit(1)
	}
}

// setupLogger installs a text handler in development and JSON in production.
func setupLogger(c config.Config) error {
	level, err := config.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if c.IsProduction() {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
	return nil
}

// backend is the opened storage stack shared by every command.
type backend struct {
	db        *sql.DB
	store     *kv.SQLiteStore
	adapter   *snapshotStore.Adapter
	collector *perf.Collector
}

// openBackend opens and migrates the database and builds the persistence adapter.
// PRE: cfg is loaded
// POST: caller owns Close
func openBackend(ctx context.Context) (*backend, error) {
	db, err := storage.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := storage.MigrateDB(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	collector := perf.NewCollector(perf.DefaultRingSize)
	store := kv.NewSQLiteStore(storage.NewTimedDB(db, collector, cfg.SlowQueryMs))
	return &backend{
		db:        db,
		store:     store,
		adapter:   snapshotStore.NewAdapter(store).WithCollector(collector),
		collector: collector,
	}, nil
}

// openConsole hydrates the academy from the stored record.
func (b *backend) openConsole(ctx context.Context) (*console.Console, error) {
	return console.Open(ctx, b.adapter, nil)
}

func (b *backend) Close() error {
	return b.db.Close()
}
