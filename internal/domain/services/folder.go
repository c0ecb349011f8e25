package services

import (
	"context"

	"cabinet/internal/domain/models"
	"cabinet/internal/httputil"
)

// FolderService handles folder business logic.
//
// Every method takes the caller's user ID explicitly. An empty userID means
// the request carried no authenticated identity and yields domain.ErrUnauthorized.
type FolderService interface {
	// CreateFolder creates a top-level folder owned by the caller
	CreateFolder(ctx context.Context, userID string, req *CreateFolderRequest) (*models.Folder, error)

	// ListFolders returns the caller's folders and the folders shared with them
	ListFolders(ctx context.Context, userID string) (*models.FolderListing, error)

	// GetFolderWithFiles returns an owned folder and its files
	GetFolderWithFiles(ctx context.Context, userID, folderID string) (*models.FolderWithFiles, error)

	// GetFolderWithSharedFiles returns a folder and the files in it shared with the caller
	GetFolderWithSharedFiles(ctx context.Context, userID, folderID string) (*models.FolderWithSharedFiles, error)

	// UpdateFolder renames and/or moves an owned folder
	UpdateFolder(ctx context.Context, userID, folderID string, req *UpdateFolderRequest) (*models.Folder, error)

	// DeleteFolder deletes an owned folder (contents are left in place)
	DeleteFolder(ctx context.Context, userID, folderID string) error
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	Name string `json:"name"`
}

// UpdateFolderRequest represents a folder update request
type UpdateFolderRequest struct {
	Name           *string                 `json:"name,omitempty"`           // blank = keep current name
	ParentFolderID httputil.OptionalString `json:"parentFolderId,omitempty"` // absent = keep, null = clear
}
