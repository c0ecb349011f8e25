package repositories

import (
	"context"

	"cabinet/internal/domain/models"
)

// FolderRepository defines data access operations for folders.
// Lookups by ID return an error wrapping domain.ErrNotFound when the row is absent.
type FolderRepository interface {
	// Create inserts a folder, filling ID and timestamps
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder by ID
	GetByID(ctx context.Context, id string) (*models.Folder, error)

	// GetByIDForUpdate retrieves a folder and locks it until the surrounding
	// transaction ends
	GetByIDForUpdate(ctx context.Context, id string) (*models.Folder, error)

	// ListByOwner lists every folder owned by a user, oldest first
	ListByOwner(ctx context.Context, ownerID string) ([]models.Folder, error)

	// ListByIDs returns the folders that exist among ids, in no particular order
	ListByIDs(ctx context.Context, ids []string) ([]models.Folder, error)

	// Update persists name, parent and updated_at
	Update(ctx context.Context, folder *models.Folder) error

	// Delete removes a folder row
	Delete(ctx context.Context, id string) error
}
