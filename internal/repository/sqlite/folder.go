package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cabinet/internal/domain"
	"cabinet/internal/domain/models"
	"cabinet/internal/domain/repositories"

	"github.com/google/uuid"
)

const folderColumns = `id, name, owner_id, parent_folder_id, created_at, updated_at`

// FolderRepository implements repositories.FolderRepository on SQLite.
type FolderRepository struct {
	store *DB
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(store *DB) repositories.FolderRepository {
	return &FolderRepository{store: store}
}

// Create inserts a folder, assigning a UUID when ID is empty
func (r *FolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	if folder.ID == "" {
		folder.ID = uuid.NewString()
	}

	_, err := r.store.executor(ctx).ExecContext(ctx, `
		INSERT INTO folders (id, name, owner_id, parent_folder_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		folder.ID,
		folder.Name,
		folder.OwnerID,
		nullableString(folder.ParentFolderID),
		formatTime(folder.CreatedAt),
		formatTime(folder.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a folder by ID
func (r *FolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	row := r.store.executor(ctx).QueryRowContext(ctx,
		`SELECT `+folderColumns+` FROM folders WHERE id = ?`, id)

	folder, err := scanFolder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return folder, nil
}

// GetByIDForUpdate is GetByID: SQLite has no row locks, and transactions on
// this store already hold the database write lock from BEGIN.
func (r *FolderRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Folder, error) {
	return r.GetByID(ctx, id)
}

// ListByOwner lists every folder owned by a user, oldest first
func (r *FolderRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Folder, error) {
	return r.list(ctx,
		`SELECT `+folderColumns+` FROM folders WHERE owner_id = ? ORDER BY created_at, id`,
		ownerID)
}

// ListByIDs returns the folders that exist among ids
func (r *FolderRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Folder, error) {
	if len(ids) == 0 {
		return []models.Folder{}, nil
	}

	folders := []models.Folder{}
	for _, chunk := range chunkIDs(ids) {
		marks, args := placeholders(chunk)
		found, err := r.list(ctx,
			`SELECT `+folderColumns+` FROM folders WHERE id IN (`+marks+`)`,
			args...)
		if err != nil {
			return nil, err
		}
		folders = append(folders, found...)
	}
	return folders, nil
}

func (r *FolderRepository) list(ctx context.Context, query string, args ...any) ([]models.Folder, error) {
	rows, err := r.store.executor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	folders := []models.Folder{}
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

// Update persists name, parent and updated_at
func (r *FolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	result, err := r.store.executor(ctx).ExecContext(ctx, `
		UPDATE folders
		SET name = ?, parent_folder_id = ?, updated_at = ?
		WHERE id = ?
	`,
		folder.Name,
		nullableString(folder.ParentFolderID),
		formatTime(folder.UpdatedAt),
		folder.ID,
	)
	if err != nil {
		return fmt.Errorf("update folder: %w", err)
	}

	return requireAffected(result, folder.ID)
}

// Delete removes the folder row only
func (r *FolderRepository) Delete(ctx context.Context, id string) error {
	result, err := r.store.executor(ctx).ExecContext(ctx, `DELETE FROM folders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}

	return requireAffected(result, id)
}

func requireAffected(result sql.Result, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanFolder(row rowScanner) (*models.Folder, error) {
	var (
		folder               models.Folder
		parentID             sql.NullString
		createdAt, updatedAt string
	)

	if err := row.Scan(&folder.ID, &folder.Name, &folder.OwnerID, &parentID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	folder.ParentFolderID = stringPtr(parentID)

	var err error
	if folder.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if folder.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &folder, nil
}
