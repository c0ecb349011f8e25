package models

import "time"

type File struct {
	ID        string    `json:"id" db:"id"`
	FolderID  string    `json:"folderId" db:"folder_id"`
	OwnerID   string    `json:"ownerId" db:"owner_id"`
	Name      string    `json:"name" db:"name"`
	Size      int64     `json:"size" db:"size"`
	MimeType  string    `json:"mimeType" db:"mime_type"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
