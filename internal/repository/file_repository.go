package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/blog-service/internal/domain"
)

// FileRepository persists upload metadata.
type FileRepository interface {
	Create(ctx context.Context, file *domain.FileUpload) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.FileUpload, error)
	List(ctx context.Context) ([]domain.FileUpload, error)
}

type fileRepository struct {
	pool *pgxpool.Pool
}

// NewFileRepository returns a Postgres-backed implementation.
func NewFileRepository(pool *pgxpool.Pool) FileRepository {
	return &fileRepository{pool: pool}
}

func (r *fileRepository) Create(ctx context.Context, file *domain.FileUpload) error {
	const query = `
        INSERT INTO file_uploads (uploaded_by, storage_key, original_name, mime_type, size_bytes)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		file.UploadedBy,
		file.StorageKey,
		file.OriginalName,
		file.MimeType,
		file.SizeBytes,
	).Scan(&file.ID, &file.CreatedAt)
}

func (r *fileRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM file_uploads WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *fileRepository) GetByID(ctx context.Context, id string) (*domain.FileUpload, error) {
	const query = `
        SELECT id, uploaded_by, storage_key, original_name, mime_type, size_bytes, created_at
        FROM file_uploads WHERE id=$1`

	var file domain.FileUpload
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&file.ID,
		&file.UploadedBy,
		&file.StorageKey,
		&file.OriginalName,
		&file.MimeType,
		&file.SizeBytes,
		&file.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *fileRepository) List(ctx context.Context) ([]domain.FileUpload, error) {
	const query = `
        SELECT id, uploaded_by, storage_key, original_name, mime_type, size_bytes, created_at
        FROM file_uploads ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.FileUpload
	for rows.Next() {
		var file domain.FileUpload
		if err := rows.Scan(
			&file.ID,
			&file.UploadedBy,
			&file.StorageKey,
			&file.OriginalName,
			&file.MimeType,
			&file.SizeBytes,
			&file.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, file)
	}
	return result, rows.Err()
}
