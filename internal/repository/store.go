package repository

import (
	"context"
	"fmt"
	"log/slog"

	"cabinet/internal/config"
	"cabinet/internal/domain/repositories"
	"cabinet/internal/repository/postgres"
	"cabinet/internal/repository/sqlite"
)

// Store bundles the repositories of one backing database.
type Store struct {
	Folders repositories.FolderRepository
	Files   repositories.FileRepository
	Shares  repositories.ShareRepository
	Tx      repositories.TransactionManager

	ping  func(context.Context) error
	close func()
}

// Open connects to the store selected by cfg.StoreDriver. For Postgres the
// schema is created when cfg.AutoMigrate is set; SQLite always migrates.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, logger)
	case config.DriverSQLite:
		return openSQLite(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, err
	}

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if cfg.AutoMigrate {
		if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
			pool.Close()
			return nil, err
		}
	}

	logger.Info("database connected",
		"driver", config.DriverPostgres,
		"table_prefix", cfg.TablePrefix,
		"max_conns", pool.Config().MaxConns,
	)

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}

	return &Store{
		Folders: postgres.NewFolderRepository(repoConfig),
		Files:   postgres.NewFileRepository(repoConfig),
		Shares:  postgres.NewShareRepository(repoConfig),
		Tx:      postgres.NewTransactionManager(repoConfig),
		ping:    pool.Ping,
		close:   pool.Close,
	}, nil
}

func openSQLite(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	db, err := sqlite.Open(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, err
	}

	logger.Info("database connected",
		"driver", config.DriverSQLite,
		"path", db.Path(),
	)

	return &Store{
		Folders: sqlite.NewFolderRepository(db),
		Files:   sqlite.NewFileRepository(db),
		Shares:  sqlite.NewShareRepository(db),
		Tx:      db.TransactionManager(),
		ping:    db.Ping,
		close: func() {
			if err := db.Close(); err != nil {
				logger.Warn("close sqlite", "error", err)
			}
		},
	}, nil
}

// Ping verifies the backing database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases the underlying connections.
func (s *Store) Close() {
	s.close()
}
