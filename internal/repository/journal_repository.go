package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/eregistrar/eregistrar-api/internal/models"
)

// JournalRepository persists travel-journal entries.
type JournalRepository struct {
	db *sqlx.DB
}

// NewJournalRepository creates the repository.
func NewJournalRepository(db *sqlx.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

// ListByOwner returns one user's entries, newest first.
func (r *JournalRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.JournalEntry, error) {
	const query = `SELECT id, owner_id, title, note, location, media_id, created_at
FROM journal_entries WHERE owner_id = $1 ORDER BY created_at DESC`
	var entries []models.JournalEntry
	if err := r.db.SelectContext(ctx, &entries, query, ownerID); err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	return entries, nil
}

// Create inserts a journal entry.
func (r *JournalRepository) Create(ctx context.Context, entry *models.JournalEntry) error {
	const query = `INSERT INTO journal_entries (id, owner_id, title, note, location, media_id, created_at)
VALUES (:id, :owner_id, :title, :note, :location, :media_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create journal entry: %w", err)
	}
	return nil
}

// Delete removes an entry owned by the given user.
func (r *JournalRepository) Delete(ctx context.Context, id, ownerID string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM journal_entries WHERE id = $1 AND owner_id = $2", id, ownerID)
	if err != nil {
		return fmt.Errorf("delete journal entry: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
