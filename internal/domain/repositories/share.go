package repositories

import (
	"context"

	"cabinet/internal/domain/models"
)

// ShareRepository defines data access operations for share records.
// The folder service only reads shares; Create exists for seeding and tests.
type ShareRepository interface {
	// Create inserts a share record
	Create(ctx context.Context, share *models.Share) error

	// ListBySharedWith lists every share whose recipient is userID
	ListBySharedWith(ctx context.Context, userID string) ([]models.Share, error)

	// ListByFolderAndSharedWith lists shares on folderID whose recipient is userID
	ListByFolderAndSharedWith(ctx context.Context, folderID, userID string) ([]models.Share, error)
}
