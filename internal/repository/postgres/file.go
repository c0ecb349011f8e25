package postgres

import (
	"context"
	"fmt"

	"cabinet/internal/domain/models"
	"cabinet/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

const fileColumns = `id, folder_id, owner_id, name, size, mime_type, created_at`

// PostgresFileRepository implements the FileRepository interface
type PostgresFileRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFileRepository creates a new file repository
func NewFileRepository(config *RepositoryConfig) repositories.FileRepository {
	return &PostgresFileRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a file record
func (r *PostgresFileRepository) Create(ctx context.Context, file *models.File) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (folder_id, owner_id, name, size, mime_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		file.FolderID,
		file.OwnerID,
		file.Name,
		file.Size,
		file.MimeType,
		file.CreatedAt,
	).Scan(&file.ID, &file.CreatedAt)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	return nil
}

// ListByFolderIDs lists files stored in any of the given folders
func (r *PostgresFileRepository) ListByFolderIDs(ctx context.Context, folderIDs []string) ([]models.File, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE folder_id = ANY($1::uuid[])
		ORDER BY created_at, id
	`, fileColumns, r.tables.Files)

	return r.list(ctx, query, folderIDs)
}

// ListByIDs lists the files that exist among ids
func (r *PostgresFileRepository) ListByIDs(ctx context.Context, ids []string) ([]models.File, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE id = ANY($1::uuid[])
		ORDER BY created_at, id
	`, fileColumns, r.tables.Files)

	return r.list(ctx, query, ids)
}

func (r *PostgresFileRepository) list(ctx context.Context, query string, ids []string) ([]models.File, error) {
	files := []models.File{}
	if len(ids) == 0 {
		return files, nil
	}

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var file models.File
		if err := rows.Scan(
			&file.ID,
			&file.FolderID,
			&file.OwnerID,
			&file.Name,
			&file.Size,
			&file.MimeType,
			&file.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}

	return files, nil
}
