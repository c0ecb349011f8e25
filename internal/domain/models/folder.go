package models

import "time"

// Folder is a named container owned by exactly one user.
type Folder struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	OwnerID        string    `json:"ownerId" db:"owner_id"`
	ParentFolderID *string   `json:"parentFolderId" db:"parent_folder_id"` // NULL = top level
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// OwnedBy reports whether userID owns the folder.
func (f *Folder) OwnedBy(userID string) bool {
	return f.OwnerID == userID
}

// FolderListing is the ListForUser result.
type FolderListing struct {
	UserFolders   []Folder `json:"userFolders"`
	SharedFolders []Folder `json:"sharedFolders"`
}

// FolderWithFiles is a folder and the files stored directly in it.
type FolderWithFiles struct {
	Folder *Folder `json:"folder"`
	Files  []File  `json:"files"`
}

// FolderWithSharedFiles is a folder and the files in it that were shared
// with the caller.
type FolderWithSharedFiles struct {
	Folder      *Folder `json:"folder"`
	SharedFiles []File  `json:"sharedFiles"`
}
