package postgres

import (
	"context"
	"fmt"

	"cabinet/internal/domain/models"
	"cabinet/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

const shareColumns = `id, resource_type, resource_id, folder_id, shared_with, owner_id, created_at`

// PostgresShareRepository implements the ShareRepository interface
type PostgresShareRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewShareRepository creates a new share repository
func NewShareRepository(config *RepositoryConfig) repositories.ShareRepository {
	return &PostgresShareRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a share record
func (r *PostgresShareRepository) Create(ctx context.Context, share *models.Share) error {
	if !share.ResourceType.Valid() {
		return fmt.Errorf("create share: unknown resource type %q", share.ResourceType)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (resource_type, resource_id, folder_id, shared_with, owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, r.tables.Shares)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		string(share.ResourceType),
		share.ResourceID,
		share.FolderID,
		share.SharedWith,
		share.OwnerID,
		share.CreatedAt,
	).Scan(&share.ID, &share.CreatedAt)
	if err != nil {
		return fmt.Errorf("create share: %w", err)
	}

	return nil
}

// ListBySharedWith lists every share whose recipient is userID, oldest first
func (r *PostgresShareRepository) ListBySharedWith(ctx context.Context, userID string) ([]models.Share, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE shared_with = $1
		ORDER BY created_at, id
	`, shareColumns, r.tables.Shares)

	return r.list(ctx, query, userID)
}

// ListByFolderAndSharedWith lists shares on folderID whose recipient is userID
func (r *PostgresShareRepository) ListByFolderAndSharedWith(ctx context.Context, folderID, userID string) ([]models.Share, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE folder_id = $1 AND shared_with = $2
		ORDER BY created_at, id
	`, shareColumns, r.tables.Shares)

	return r.list(ctx, query, folderID, userID)
}

func (r *PostgresShareRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Share, error) {
	executor := GetExecutor(ctx, r.pool)

	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shares: %w", err)
	}
	defer rows.Close()

	shares := []models.Share{}
	for rows.Next() {
		var share models.Share
		if err := rows.Scan(
			&share.ID,
			&share.ResourceType,
			&share.ResourceID,
			&share.FolderID,
			&share.SharedWith,
			&share.OwnerID,
			&share.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan share: %w", err)
		}
		shares = append(shares, share)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shares: %w", err)
	}

	return shares, nil
}
