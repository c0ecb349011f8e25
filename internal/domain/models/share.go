package models

import "time"

// ResourceType identifies what a share grants access to.
type ResourceType string

const (
	ResourceTypeFolder ResourceType = "folder"
	ResourceTypeFile   ResourceType = "file"
)

// Valid reports whether t is a known resource type.
func (t ResourceType) Valid() bool {
	return t == ResourceTypeFolder || t == ResourceTypeFile
}

// Share grants a recipient visibility of a folder or a file.
//
// Folder shares set FolderID. File shares set ResourceID and record the
// file's folder in FolderID.
type Share struct {
	ID           string       `json:"id" db:"id"`
	ResourceType ResourceType `json:"resourceType" db:"resource_type"`
	ResourceID   *string      `json:"resourceId" db:"resource_id"`
	FolderID     *string      `json:"folderId" db:"folder_id"`
	SharedWith   string       `json:"sharedWith" db:"shared_with"`
	OwnerID      string       `json:"ownerId" db:"owner_id"`
	CreatedAt    time.Time    `json:"createdAt" db:"created_at"`
}
