package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cabinet/internal/auth"
	"cabinet/internal/config"
	"cabinet/internal/handler"
	"cabinet/internal/repository"
	"cabinet/internal/router"
	"cabinet/internal/service"
	serviceAuth "cabinet/internal/service/auth"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		stop()
		log.Fatalf("Server error: %v", err)
	}
}

// run serves until ctx is cancelled. Every resource it opens is released
// before it returns, on error paths too.
func run(ctx context.Context, cfg *config.Config) error {
	// Logs go to stdout, and also to a rotated file when LOG_DIR is set
	var out io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			return fmt.Errorf("set up log file: %w", err)
		}
		defer logFile.Close()
		out = io.MultiWriter(os.Stdout, logFile)
	}

	logger := config.NewLogger(cfg.Environment, out)
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"store", cfg.StoreDriver,
	)

	verifier, err := newVerifier(cfg, logger)
	if err != nil {
		return fmt.Errorf("create JWT verifier: %w", err)
	}
	defer verifier.Close()

	store, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	folderService := service.NewFolderService(
		store.Folders,
		store.Files,
		store.Shares,
		store.Tx,
		serviceAuth.NewOwnerBasedAuthorizer(),
		logger,
	)

	handlers := router.Handlers{
		Folders: handler.NewFolderHandler(folderService, logger),
		Health:  handler.NewHealthHandler(store, logger),
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.New(handlers, verifier, cfg.CORSOrigins, logger),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", server.Addr)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	}
}

// newVerifier prefers JWKS (asymmetric keys from the identity provider) and
// falls back to a shared HS256 secret.
func newVerifier(cfg *config.Config, logger *slog.Logger) (auth.JWTVerifier, error) {
	if cfg.JWKSURL != "" {
		return auth.NewJWKSVerifier(cfg.JWKSURL, logger)
	}
	logger.Warn("using HS256 shared-secret token verification")
	return auth.NewHMACVerifier(cfg.JWTSecret, logger)
}
