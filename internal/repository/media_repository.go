package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/eregistrar/eregistrar-api/internal/models"
)

// MediaRepository stores metadata for uploaded media files.
type MediaRepository struct {
	db *sqlx.DB
}

// NewMediaRepository creates the repository.
func NewMediaRepository(db *sqlx.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// Create inserts a media metadata row.
func (r *MediaRepository) Create(ctx context.Context, item *models.MediaItem) error {
	const query = `INSERT INTO media_items (id, owner_id, filename, mime_type, size_bytes, stored_path, created_at)
VALUES (:id, :owner_id, :filename, :mime_type, :size_bytes, :stored_path, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create media item: %w", err)
	}
	return nil
}

// GetByID returns a media item by identifier.
func (r *MediaRepository) GetByID(ctx context.Context, id string) (*models.MediaItem, error) {
	const query = `SELECT id, owner_id, filename, mime_type, size_bytes, stored_path, created_at FROM media_items WHERE id = $1 LIMIT 1`
	var item models.MediaItem
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get media item: %w", err)
	}
	return &item, nil
}

// Delete removes a media metadata row.
func (r *MediaRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM media_items WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete media item: %w", err)
	}
	return nil
}
