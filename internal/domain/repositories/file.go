package repositories

import (
	"context"

	"cabinet/internal/domain/models"
)

// FileRepository defines data access operations for files
type FileRepository interface {
	// Create inserts a file record
	Create(ctx context.Context, file *models.File) error

	// ListByFolderIDs lists files stored in any of the given folders
	ListByFolderIDs(ctx context.Context, folderIDs []string) ([]models.File, error)

	// ListByIDs lists the files that exist among ids
	ListByIDs(ctx context.Context, ids []string) ([]models.File, error)
}
