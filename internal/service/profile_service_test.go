package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eregistrar/eregistrar-api/internal/dto"
	"github.com/eregistrar/eregistrar-api/internal/models"
	appErrors "github.com/eregistrar/eregistrar-api/pkg/errors"
)

type profileRepoStub struct {
	profiles map[string]*models.Profile
}

func newProfileRepoStub() *profileRepoStub {
	return &profileRepoStub{profiles: map[string]*models.Profile{}}
}

func (s *profileRepoStub) Get(ctx context.Context, userID string) (*models.Profile, error) {
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *profile
	return &copied, nil
}

func (s *profileRepoStub) SaveSection(ctx context.Context, userID string, section models.ProfileSection, payload interface{}) error {
	profile, ok := s.profiles[userID]
	if !ok {
		profile = &models.Profile{UserID: userID}
		s.profiles[userID] = profile
	}
	switch section {
	case models.SectionProfile:
		info := *(payload.(*models.ProfileInfo))
		profile.ProfileInfo = &info
	case models.SectionSchool:
		info := *(payload.(*models.SchoolInfo))
		profile.SchoolInfo = &info
	}
	return nil
}

func (s *profileRepoStub) DeleteSection(ctx context.Context, userID string, section models.ProfileSection) error {
	profile, ok := s.profiles[userID]
	if !ok {
		return sql.ErrNoRows
	}
	switch section {
	case models.SectionProfile:
		profile.ProfileInfo = nil
	case models.SectionSchool:
		profile.SchoolInfo = nil
	}
	return nil
}

func (s *profileRepoStub) UpdateUsername(ctx context.Context, userID, username string) error {
	profile, ok := s.profiles[userID]
	if !ok {
		profile = &models.Profile{UserID: userID}
		s.profiles[userID] = profile
	}
	profile.Username = username
	return nil
}

func (s *profileRepoStub) UpdateAvatar(ctx context.Context, userID, mediaID string) error {
	profile, ok := s.profiles[userID]
	if !ok {
		profile = &models.Profile{UserID: userID}
		s.profiles[userID] = profile
	}
	profile.AvatarID = mediaID
	return nil
}

func TestProfileServiceGetMissingReturnsEmptyDocument(t *testing.T) {
	svc := NewProfileService(newProfileRepoStub(), nil, nil)

	profile, err := svc.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", profile.UserID)
	assert.Nil(t, profile.ProfileInfo)
	assert.Nil(t, profile.SchoolInfo)
}

func TestProfileServiceSectionsAreIndependent(t *testing.T) {
	repo := newProfileRepoStub()
	svc := NewProfileService(repo, nil, nil)

	_, err := svc.SaveSection(context.Background(), "user-1", dto.SaveSectionRequest{
		Section: models.SectionProfile,
		Profile: &models.ProfileInfo{Status: "Regular", Gender: "F", YearLevel: "3rd Year", Course: "BSIT"},
	})
	require.NoError(t, err)

	profile, err := svc.SaveSection(context.Background(), "user-1", dto.SaveSectionRequest{
		Section: models.SectionSchool,
		School:  &models.SchoolInfo{School: "Main Campus", Department: "CCS", StudentID: "2021-00123"},
	})
	require.NoError(t, err)

	require.NotNil(t, profile.ProfileInfo)
	require.NotNil(t, profile.SchoolInfo)
	assert.Equal(t, "BSIT", profile.ProfileInfo.Course)
	assert.Equal(t, "CCS", profile.SchoolInfo.Department)

	// Clearing school leaves the profile sub-document alone.
	profile, err = svc.DeleteSection(context.Background(), "user-1", models.SectionSchool)
	require.NoError(t, err)
	assert.Nil(t, profile.SchoolInfo)
	require.NotNil(t, profile.ProfileInfo)
	assert.Equal(t, "BSIT", profile.ProfileInfo.Course)
}

func TestProfileServiceSaveSectionPayloadMustMatchTag(t *testing.T) {
	svc := NewProfileService(newProfileRepoStub(), nil, nil)

	_, err := svc.SaveSection(context.Background(), "user-1", dto.SaveSectionRequest{
		Section: models.SectionSchool,
		Profile: &models.ProfileInfo{Status: "Regular"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestProfileServiceRejectsUnknownSection(t *testing.T) {
	svc := NewProfileService(newProfileRepoStub(), nil, nil)

	_, err := svc.SaveSection(context.Background(), "user-1", dto.SaveSectionRequest{
		Section: models.ProfileSection("billing"),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.DeleteSection(context.Background(), "user-1", models.ProfileSection("billing"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestProfileServiceDeleteSectionMissingProfile(t *testing.T) {
	svc := NewProfileService(newProfileRepoStub(), nil, nil)

	_, err := svc.DeleteSection(context.Background(), "user-1", models.SectionProfile)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestProfileServiceUpdateUsername(t *testing.T) {
	svc := NewProfileService(newProfileRepoStub(), nil, nil)

	profile, err := svc.UpdateUsername(context.Background(), "user-1", dto.UpdateUsernameRequest{Username: "ana.c"})
	require.NoError(t, err)
	assert.Equal(t, "ana.c", profile.Username)

	_, err = svc.UpdateUsername(context.Background(), "user-1", dto.UpdateUsernameRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
