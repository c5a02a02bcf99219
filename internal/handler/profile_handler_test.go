package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eregistrar/eregistrar-api/internal/models"
	"github.com/eregistrar/eregistrar-api/internal/service"
	"github.com/eregistrar/eregistrar-api/pkg/response"
)

type profileRepoMock struct {
	profiles map[string]*models.Profile
}

func (m *profileRepoMock) Get(ctx context.Context, userID string) (*models.Profile, error) {
	profile, ok := m.profiles[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return profile, nil
}

func (m *profileRepoMock) SaveSection(ctx context.Context, userID string, section models.ProfileSection, payload interface{}) error {
	if m.profiles == nil {
		m.profiles = map[string]*models.Profile{}
	}
	profile, ok := m.profiles[userID]
	if !ok {
		profile = &models.Profile{UserID: userID}
		m.profiles[userID] = profile
	}
	if section == models.SectionProfile {
		info := *(payload.(*models.ProfileInfo))
		profile.ProfileInfo = &info
	} else {
		info := *(payload.(*models.SchoolInfo))
		profile.SchoolInfo = &info
	}
	return nil
}

func (m *profileRepoMock) DeleteSection(ctx context.Context, userID string, section models.ProfileSection) error {
	profile, ok := m.profiles[userID]
	if !ok {
		return sql.ErrNoRows
	}
	if section == models.SectionProfile {
		profile.ProfileInfo = nil
	} else {
		profile.SchoolInfo = nil
	}
	return nil
}

func (m *profileRepoMock) UpdateUsername(ctx context.Context, userID, username string) error {
	return nil
}

func (m *profileRepoMock) UpdateAvatar(ctx context.Context, userID, mediaID string) error {
	return nil
}

func TestProfileHandlerGetEmpty(t *testing.T) {
	handler := NewProfileHandler(service.NewProfileService(&profileRepoMock{}, nil, nil))

	c, w := authedContext(t, http.MethodGet, "/profile", nil)

	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	profile := envelope.Data.(map[string]interface{})
	assert.Equal(t, "user-1", profile["userId"])
}

func TestProfileHandlerSaveSection(t *testing.T) {
	handler := NewProfileHandler(service.NewProfileService(&profileRepoMock{}, nil, nil))

	body := []byte(`{"section":"school","schoolInfo":{"school":"Main Campus","department":"CCS","studentId":"2021-00123"}}`)
	c, w := authedContext(t, http.MethodPut, "/profile/sections", body)

	handler.SaveSection(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	profile := envelope.Data.(map[string]interface{})
	school := profile["schoolInfo"].(map[string]interface{})
	assert.Equal(t, "CCS", school["department"])
	assert.Nil(t, profile["profileInfo"])
}

func TestProfileHandlerSaveSectionMismatchedTag(t *testing.T) {
	handler := NewProfileHandler(service.NewProfileService(&profileRepoMock{}, nil, nil))

	body := []byte(`{"section":"profile","schoolInfo":{"school":"Main Campus"}}`)
	c, w := authedContext(t, http.MethodPut, "/profile/sections", body)

	handler.SaveSection(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileHandlerDeleteSectionMissing(t *testing.T) {
	handler := NewProfileHandler(service.NewProfileService(&profileRepoMock{}, nil, nil))

	c, w := authedContext(t, http.MethodDelete, "/profile/sections/school", nil)
	c.Params = gin.Params{{Key: "section", Value: "school"}}

	handler.DeleteSection(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}
