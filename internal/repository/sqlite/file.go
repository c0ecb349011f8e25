package sqlite

import (
	"context"
	"fmt"
	"sort"

	"cabinet/internal/domain/models"
	"cabinet/internal/domain/repositories"

	"github.com/google/uuid"
)

const fileColumns = `id, folder_id, owner_id, name, size, mime_type, created_at`

// FileRepository implements repositories.FileRepository on SQLite.
type FileRepository struct {
	store *DB
}

// NewFileRepository creates a new file repository
func NewFileRepository(store *DB) repositories.FileRepository {
	return &FileRepository{store: store}
}

// Create inserts a file record, assigning a UUID when ID is empty
func (r *FileRepository) Create(ctx context.Context, file *models.File) error {
	if file.ID == "" {
		file.ID = uuid.NewString()
	}

	_, err := r.store.executor(ctx).ExecContext(ctx, `
		INSERT INTO files (id, folder_id, owner_id, name, size, mime_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		file.ID,
		file.FolderID,
		file.OwnerID,
		file.Name,
		file.Size,
		file.MimeType,
		formatTime(file.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	return nil
}

// ListByFolderIDs lists files stored in any of the given folders
func (r *FileRepository) ListByFolderIDs(ctx context.Context, folderIDs []string) ([]models.File, error) {
	return r.listWhereIn(ctx, "folder_id", folderIDs)
}

// ListByIDs lists the files that exist among ids
func (r *FileRepository) ListByIDs(ctx context.Context, ids []string) ([]models.File, error) {
	return r.listWhereIn(ctx, "id", ids)
}

func (r *FileRepository) listWhereIn(ctx context.Context, column string, ids []string) ([]models.File, error) {
	files := []models.File{}
	if len(ids) == 0 {
		return files, nil
	}

	for _, chunk := range chunkIDs(ids) {
		found, err := r.queryWhereIn(ctx, column, chunk)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}

	// Chunks are each ordered; restore one order across them
	sort.SliceStable(files, func(i, j int) bool {
		if !files[i].CreatedAt.Equal(files[j].CreatedAt) {
			return files[i].CreatedAt.Before(files[j].CreatedAt)
		}
		return files[i].ID < files[j].ID
	})

	return files, nil
}

func (r *FileRepository) queryWhereIn(ctx context.Context, column string, ids []string) ([]models.File, error) {
	marks, args := placeholders(ids)
	query := fmt.Sprintf(`SELECT %s FROM files WHERE %s IN (%s) ORDER BY created_at, id`, fileColumns, column, marks)

	var files []models.File
	rows, err := r.store.executor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			file      models.File
			createdAt string
		)
		if err := rows.Scan(
			&file.ID,
			&file.FolderID,
			&file.OwnerID,
			&file.Name,
			&file.Size,
			&file.MimeType,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		if file.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}

	return files, nil
}
