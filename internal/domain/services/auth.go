package services

import (
	"context"

	"cabinet/internal/domain/models"
)

// ResourceAuthorizer decides whether a user may act on a resource.
// Current implementation: ownership-based.
type ResourceAuthorizer interface {
	// CanModifyFolder checks that the user owns the folder
	CanModifyFolder(ctx context.Context, userID string, folder *models.Folder) error

	// CanUseAsParent checks that parent may hold a folder owned by userID
	CanUseAsParent(ctx context.Context, userID string, parent *models.Folder) error
}
