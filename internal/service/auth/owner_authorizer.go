package auth

import (
	"context"

	"cabinet/internal/domain"
	"cabinet/internal/domain/models"
	"cabinet/internal/domain/services"
)

// OwnerBasedAuthorizer implements ResourceAuthorizer using ownership checks.
// Shares never grant modification rights.
type OwnerBasedAuthorizer struct{}

// NewOwnerBasedAuthorizer creates a new ownership-based authorizer
func NewOwnerBasedAuthorizer() services.ResourceAuthorizer {
	return &OwnerBasedAuthorizer{}
}

// CanModifyFolder checks that userID owns the folder
func (a *OwnerBasedAuthorizer) CanModifyFolder(ctx context.Context, userID string, folder *models.Folder) error {
	if !folder.OwnedBy(userID) {
		return &domain.ForbiddenError{Message: "folder does not belong to the user"}
	}
	return nil
}

// CanUseAsParent checks that the prospective parent is owned by the same user
func (a *OwnerBasedAuthorizer) CanUseAsParent(ctx context.Context, userID string, parent *models.Folder) error {
	if !parent.OwnedBy(userID) {
		return &domain.ForbiddenError{Message: "parent folder does not belong to the user"}
	}
	return nil
}
