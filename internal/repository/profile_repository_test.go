package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eregistrar/eregistrar-api/internal/models"
)

func TestGetProfileDecodesSections(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"user_id", "username", "profile_info", "school_info", "avatar_id", "updated_at"}).
		AddRow("u1", "ana", []byte(`{"status":"Regular","gender":"F","yearLevel":"3","course":"BSIT"}`), nil, nil, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id, username, profile_info, school_info, avatar_id, updated_at FROM student_profiles WHERE user_id = $1 LIMIT 1")).
		WithArgs("u1").
		WillReturnRows(rows)

	profile, err := repo.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "ana", profile.Username)
	require.NotNil(t, profile.ProfileInfo)
	assert.Equal(t, "BSIT", profile.ProfileInfo.Course)
	assert.Nil(t, profile.SchoolInfo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveSectionTargetsOneColumn(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	mock.ExpectExec("INSERT INTO student_profiles \\(user_id, username, school_info, updated_at\\)").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SaveSection(context.Background(), "u1", models.SectionSchool, models.SchoolInfo{
		School:     "State University",
		Department: "CS",
		StudentID:  "2021-001",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSectionMissingRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	mock.ExpectExec("UPDATE student_profiles SET profile_info = NULL").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteSection(context.Background(), "u1", models.SectionProfile)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveSectionRejectsUnknownSection(t *testing.T) {
	db, _, cleanup := newMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	err := repo.SaveSection(context.Background(), "u1", models.ProfileSection("other"), nil)
	assert.Error(t, err)
}
