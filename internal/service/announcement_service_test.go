package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eregistrar/eregistrar-api/internal/dto"
	"github.com/eregistrar/eregistrar-api/internal/models"
	"github.com/eregistrar/eregistrar-api/pkg/config"
	appErrors "github.com/eregistrar/eregistrar-api/pkg/errors"
)

type announcementRepoStub struct {
	items   []models.Announcement
	created []*models.Announcement
}

func (s *announcementRepoStub) List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, int, error) {
	return s.items, len(s.items), nil
}

func (s *announcementRepoStub) GetByID(ctx context.Context, id string) (*models.Announcement, error) {
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *announcementRepoStub) Create(ctx context.Context, announcement *models.Announcement) error {
	if announcement.ID == "" {
		announcement.ID = "generated-id"
	}
	s.created = append(s.created, announcement)
	s.items = append(s.items, *announcement)
	return nil
}

func (s *announcementRepoStub) Delete(ctx context.Context, id string) error {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func officeHoursConfig() config.AnnouncementsConfig {
	return config.AnnouncementsConfig{OfficeOpenHour: 8, OfficeCloseHour: 17}
}

func TestAnnouncementServiceOfficeStatus(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		open bool
	}{
		{"weekday morning", time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC), true},
		{"weekday before opening", time.Date(2025, 3, 12, 7, 59, 0, 0, time.UTC), false},
		{"weekday at close", time.Date(2025, 3, 12, 17, 0, 0, 0, time.UTC), false},
		{"saturday midday", time.Date(2025, 3, 15, 11, 0, 0, 0, time.UTC), false},
		{"sunday midday", time.Date(2025, 3, 16, 11, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			at := tt.at
			svc := NewAnnouncementService(&announcementRepoStub{}, nil, nil, officeHoursConfig(),
				WithAnnouncementClock(func() time.Time { return at }))

			status := svc.OfficeStatus()
			assert.Equal(t, tt.open, status.Open)
			assert.NotEmpty(t, status.Message)
			assert.Equal(t, 8, status.OpenHour)
			assert.Equal(t, 17, status.CloseHour)
		})
	}
}

func TestAnnouncementServiceListNeverReturnsNil(t *testing.T) {
	svc := NewAnnouncementService(&announcementRepoStub{}, nil, nil, officeHoursConfig())

	announcements, pagination, err := svc.List(context.Background(), models.AnnouncementFilter{})
	require.NoError(t, err)
	assert.NotNil(t, announcements)
	assert.Empty(t, announcements)
	require.NotNil(t, pagination)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
}

func TestAnnouncementServiceCreate(t *testing.T) {
	repo := &announcementRepoStub{}
	svc := NewAnnouncementService(repo, nil, nil, officeHoursConfig())

	announcement, err := svc.Create(context.Background(), "registrar-1", dto.CreateAnnouncementRequest{
		Title:   "Enrollment schedule",
		Content: "Enrollment for the second semester opens on Monday.",
	})
	require.NoError(t, err)
	assert.Equal(t, "registrar-1", announcement.CreatedBy)
	require.Len(t, repo.created, 1)

	_, err = svc.Create(context.Background(), "registrar-1", dto.CreateAnnouncementRequest{Title: "No content"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAnnouncementServiceGetAndDeleteMissing(t *testing.T) {
	svc := NewAnnouncementService(&announcementRepoStub{}, nil, nil, officeHoursConfig())

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	err = svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
