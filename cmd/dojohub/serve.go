package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	web "dojohub/internal/adapters/http"
	"dojohub/internal/adapters/storage"
	"dojohub/internal/application/orchestrators"
)

var addrFlag string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the console over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&addrFlag, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	csrfKey, err := web.LoadCSRFKey(cfg.CSRFKey, cfg.IsProduction())
	if err != nil {
		return err
	}

	var adminHash []byte
	if cfg.AdminPassphrase != "" {
		adminHash, err = orchestrators.HashAdminPassphrase(cfg.AdminPassphrase)
		if err != nil {
			return err
		}
	} else if cfg.IsProduction() {
		slog.Warn("admin_unprotected", "hint", "set DOJOHUB_ADMIN_PASSPHRASE")
	}

	b, err := openBackend(ctx)
	if err != nil {
		return err
	}
	defer b.Close()

	academy, err := b.openConsole(ctx)
	if err != nil {
		return err
	}

	handler := web.NewMux(web.Options{
		StaticDir:           cfg.StaticDir,
		CSRFKey:             csrfKey,
		TrustedOrigins:      cfg.TrustedOrigins,
		Production:          cfg.IsProduction(),
		SlowRequestMs:       cfg.SlowRequestMs,
		AdminPassphraseHash: adminHash,
	}, academy, b.collector)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_starting",
			"version", version,
			"addr", cfg.Addr,
			"env", cfg.Env,
			"schema", storage.LatestSchemaVersion(),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
