package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"cabinet/internal/domain/models"
	"cabinet/internal/domain/repositories"

	"github.com/google/uuid"
)

const shareColumns = `id, resource_type, resource_id, folder_id, shared_with, owner_id, created_at`

// ShareRepository implements repositories.ShareRepository on SQLite.
type ShareRepository struct {
	store *DB
}

// NewShareRepository creates a new share repository
func NewShareRepository(store *DB) repositories.ShareRepository {
	return &ShareRepository{store: store}
}

// Create inserts a share record, assigning a UUID when ID is empty
func (r *ShareRepository) Create(ctx context.Context, share *models.Share) error {
	if !share.ResourceType.Valid() {
		return fmt.Errorf("create share: unknown resource type %q", share.ResourceType)
	}
	if share.ID == "" {
		share.ID = uuid.NewString()
	}

	_, err := r.store.executor(ctx).ExecContext(ctx, `
		INSERT INTO shares (id, resource_type, resource_id, folder_id, shared_with, owner_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		share.ID,
		string(share.ResourceType),
		nullableString(share.ResourceID),
		nullableString(share.FolderID),
		share.SharedWith,
		share.OwnerID,
		formatTime(share.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create share: %w", err)
	}

	return nil
}

// ListBySharedWith lists every share whose recipient is userID, oldest first
func (r *ShareRepository) ListBySharedWith(ctx context.Context, userID string) ([]models.Share, error) {
	return r.list(ctx,
		`SELECT `+shareColumns+` FROM shares WHERE shared_with = ? ORDER BY created_at, id`,
		userID)
}

// ListByFolderAndSharedWith lists shares on folderID whose recipient is userID
func (r *ShareRepository) ListByFolderAndSharedWith(ctx context.Context, folderID, userID string) ([]models.Share, error) {
	return r.list(ctx,
		`SELECT `+shareColumns+` FROM shares WHERE folder_id = ? AND shared_with = ? ORDER BY created_at, id`,
		folderID, userID)
}

func (r *ShareRepository) list(ctx context.Context, query string, args ...any) ([]models.Share, error) {
	rows, err := r.store.executor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shares: %w", err)
	}
	defer rows.Close()

	shares := []models.Share{}
	for rows.Next() {
		var (
			share                models.Share
			resourceType         string
			resourceID, folderID sql.NullString
			createdAt            string
		)
		if err := rows.Scan(
			&share.ID,
			&resourceType,
			&resourceID,
			&folderID,
			&share.SharedWith,
			&share.OwnerID,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan share: %w", err)
		}

		share.ResourceType = models.ResourceType(resourceType)
		share.ResourceID = stringPtr(resourceID)
		share.FolderID = stringPtr(folderID)
		if share.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}

		shares = append(shares, share)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shares: %w", err)
	}

	return shares, nil
}
