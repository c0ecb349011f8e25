package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"cabinet/internal/auth"
	"cabinet/internal/config"
	"cabinet/internal/domain/models"
	"cabinet/internal/domain/services"
	"cabinet/internal/httputil"
	"cabinet/internal/repository"
	"cabinet/internal/repository/postgres"
	"cabinet/internal/service"
	serviceAuth "cabinet/internal/service/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

// Demo identities. Tokens for them are printed when JWT_SECRET is set.
const (
	ownerUser     = "demo-owner"
	recipientUser = "demo-recipient"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed data")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("BLOCKED: --drop-tables is not allowed in the prod environment")
	}

	logger := config.NewLogger(cfg.Environment, os.Stdout)

	if err := run(context.Background(), cfg, logger, *dropTables, *schemaOnly); err != nil {
		log.Fatalf("Seed failed: %v", err)
	}
}

// run prepares the schema and seeds demo data. The store is closed before
// it returns.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, dropTables, schemaOnly bool) error {
	if dropTables {
		log.Printf("Dropping tables (driver: %s)", cfg.StoreDriver)
		if err := drop(ctx, cfg, logger); err != nil {
			return fmt.Errorf("drop tables: %w", err)
		}
	}

	// Opening the store migrates the schema
	cfg.AutoMigrate = true
	store, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	if schemaOnly {
		log.Println("Schema ready (schema-only mode)")
		return nil
	}

	folderService := service.NewFolderService(
		store.Folders,
		store.Files,
		store.Shares,
		store.Tx,
		serviceAuth.NewOwnerBasedAuthorizer(),
		logger,
	)

	if err := seed(ctx, store, folderService); err != nil {
		return err
	}
	log.Println("Seed complete")

	if cfg.JWTSecret != "" {
		printTokens(cfg.JWTSecret)
	}
	return nil
}

func drop(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return err
		}
		defer pool.Close()
		return postgres.DropSchema(ctx, pool, postgres.NewTableNames(cfg.TablePrefix))
	case config.DriverSQLite:
		if err := os.Remove(cfg.SQLitePath); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	default:
		return fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// seed creates a small tree for the owner, a few files, and shares for the
// recipient: one folder share and one file share.
func seed(ctx context.Context, store *repository.Store, folders services.FolderService) error {
	docs, err := folders.CreateFolder(ctx, ownerUser, &services.CreateFolderRequest{Name: "Documents"})
	if err != nil {
		return fmt.Errorf("create Documents: %w", err)
	}

	invoices, err := folders.CreateFolder(ctx, ownerUser, &services.CreateFolderRequest{Name: "Invoices"})
	if err != nil {
		return fmt.Errorf("create Invoices: %w", err)
	}
	if _, err := folders.UpdateFolder(ctx, ownerUser, invoices.ID, &services.UpdateFolderRequest{
		ParentFolderID: httputil.OptionalString{Present: true, Value: &docs.ID},
	}); err != nil {
		return fmt.Errorf("move Invoices: %w", err)
	}

	photos, err := folders.CreateFolder(ctx, ownerUser, &services.CreateFolderRequest{Name: "Photos"})
	if err != nil {
		return fmt.Errorf("create Photos: %w", err)
	}

	if _, err := folders.CreateFolder(ctx, recipientUser, &services.CreateFolderRequest{Name: "Inbox"}); err != nil {
		return fmt.Errorf("create Inbox: %w", err)
	}

	now := time.Now().UTC()
	files := []*models.File{
		{FolderID: docs.ID, OwnerID: ownerUser, Name: "readme.md", Size: 1024, MimeType: "text/markdown", CreatedAt: now},
		{FolderID: invoices.ID, OwnerID: ownerUser, Name: "2024-01.pdf", Size: 48213, MimeType: "application/pdf", CreatedAt: now},
		{FolderID: photos.ID, OwnerID: ownerUser, Name: "beach.jpg", Size: 2381904, MimeType: "image/jpeg", CreatedAt: now},
		{FolderID: photos.ID, OwnerID: ownerUser, Name: "hike.jpg", Size: 1983311, MimeType: "image/jpeg", CreatedAt: now},
	}
	for _, f := range files {
		if err := store.Files.Create(ctx, f); err != nil {
			return fmt.Errorf("create file %s: %w", f.Name, err)
		}
	}

	shares := []*models.Share{
		{ResourceType: models.ResourceTypeFolder, FolderID: &docs.ID, SharedWith: recipientUser, OwnerID: ownerUser, CreatedAt: now},
		{ResourceType: models.ResourceTypeFile, ResourceID: &files[2].ID, FolderID: &photos.ID, SharedWith: recipientUser, OwnerID: ownerUser, CreatedAt: now},
	}
	for _, s := range shares {
		if err := store.Shares.Create(ctx, s); err != nil {
			return fmt.Errorf("create %s share: %w", s.ResourceType, err)
		}
	}

	log.Printf("Seeded %d files and %d shares", len(files), len(shares))
	return nil
}

func printTokens(secret string) {
	expires := jwt.NewNumericDate(time.Now().Add(24 * time.Hour))
	for _, user := range []string{ownerUser, recipientUser} {
		token, err := auth.SignHS256(secret, user, jwt.RegisteredClaims{ExpiresAt: expires})
		if err != nil {
			log.Printf("Failed to sign token for %s: %v", user, err)
			continue
		}
		fmt.Printf("%s: Bearer %s\n", user, token)
	}
}
