package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/eregistrar/eregistrar-api/internal/models"
)

// ProfileRepository stores per-identity profile documents. The two
// sub-documents live in independent nullable JSONB columns so writing one
// section never disturbs the other.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository creates the repository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

type profileRow struct {
	UserID      string    `db:"user_id"`
	Username    string    `db:"username"`
	ProfileInfo []byte    `db:"profile_info"`
	SchoolInfo  []byte    `db:"school_info"`
	AvatarID    *string   `db:"avatar_id"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Get loads the profile document for a user. Returns sql.ErrNoRows when no
// document exists yet.
func (r *ProfileRepository) Get(ctx context.Context, userID string) (*models.Profile, error) {
	const query = `SELECT user_id, username, profile_info, school_info, avatar_id, updated_at FROM student_profiles WHERE user_id = $1 LIMIT 1`
	var row profileRow
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return row.toProfile()
}

// SaveSection merge-writes exactly one sub-document, creating the document
// row when absent. The other sub-document column is untouched.
func (r *ProfileRepository) SaveSection(ctx context.Context, userID string, section models.ProfileSection, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s section: %w", section, err)
	}
	column, err := sectionColumn(section)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`INSERT INTO student_profiles (user_id, username, %s, updated_at)
VALUES ($1, '', $2, $3)
ON CONFLICT (user_id) DO UPDATE SET %s = EXCLUDED.%s, updated_at = EXCLUDED.updated_at`, column, column, column)
	if _, err := r.db.ExecContext(ctx, query, userID, raw, time.Now().UTC()); err != nil {
		return fmt.Errorf("save %s section: %w", section, err)
	}
	return nil
}

// DeleteSection nulls exactly one sub-document column.
func (r *ProfileRepository) DeleteSection(ctx context.Context, userID string, section models.ProfileSection) error {
	column, err := sectionColumn(section)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE student_profiles SET %s = NULL, updated_at = $2 WHERE user_id = $1`, column)
	res, err := r.db.ExecContext(ctx, query, userID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("delete %s section: %w", section, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateUsername sets the username field, creating the document when absent.
func (r *ProfileRepository) UpdateUsername(ctx context.Context, userID, username string) error {
	const query = `INSERT INTO student_profiles (user_id, username, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (user_id) DO UPDATE SET username = EXCLUDED.username, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, userID, username, time.Now().UTC()); err != nil {
		return fmt.Errorf("update username: %w", err)
	}
	return nil
}

// UpdateAvatar points the profile at an uploaded media item.
func (r *ProfileRepository) UpdateAvatar(ctx context.Context, userID, mediaID string) error {
	const query = `INSERT INTO student_profiles (user_id, username, avatar_id, updated_at)
VALUES ($1, '', $2, $3)
ON CONFLICT (user_id) DO UPDATE SET avatar_id = EXCLUDED.avatar_id, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, userID, mediaID, time.Now().UTC()); err != nil {
		return fmt.Errorf("update avatar: %w", err)
	}
	return nil
}

func sectionColumn(section models.ProfileSection) (string, error) {
	switch section {
	case models.SectionProfile:
		return "profile_info", nil
	case models.SectionSchool:
		return "school_info", nil
	}
	return "", fmt.Errorf("unknown profile section %q", section)
}

func (row profileRow) toProfile() (*models.Profile, error) {
	profile := &models.Profile{
		UserID:    row.UserID,
		Username:  row.Username,
		UpdatedAt: row.UpdatedAt,
	}
	if row.AvatarID != nil {
		profile.AvatarID = *row.AvatarID
	}
	if len(row.ProfileInfo) > 0 {
		var info models.ProfileInfo
		if err := json.Unmarshal(row.ProfileInfo, &info); err != nil {
			return nil, fmt.Errorf("decode profile info: %w", err)
		}
		profile.ProfileInfo = &info
	}
	if len(row.SchoolInfo) > 0 {
		var info models.SchoolInfo
		if err := json.Unmarshal(row.SchoolInfo, &info); err != nil {
			return nil, fmt.Errorf("decode school info: %w", err)
		}
		profile.SchoolInfo = &info
	}
	return profile, nil
}
