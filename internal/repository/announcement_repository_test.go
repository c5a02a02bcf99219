package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eregistrar/eregistrar-api/internal/models"
)

func TestListAnnouncements(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "title", "content", "is_pinned", "published_at", "expires_at", "created_by", "created_at"}).
		AddRow("a1", "Enrollment week", "Submit early.", true, now, nil, "reg-1", now)
	mock.ExpectQuery("SELECT id, title, content, is_pinned, published_at, expires_at, created_by, created_at").
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM announcements").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	announcements, total, err := repo.List(context.Background(), models.AnnouncementFilter{})
	require.NoError(t, err)
	assert.Len(t, announcements, 1)
	assert.Equal(t, 1, total)
	assert.True(t, announcements[0].IsPinned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAnnouncementAssignsID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	mock.ExpectExec("INSERT INTO announcements").WillReturnResult(sqlmock.NewResult(1, 1))

	a := &models.Announcement{Title: "Office closed", Content: "Holiday on Friday.", CreatedBy: "reg-1"}
	err := repo.Create(context.Background(), a)
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.False(t, a.PublishedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAnnouncementMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	mock.ExpectExec("DELETE FROM announcements").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
