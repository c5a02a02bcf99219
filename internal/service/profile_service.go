package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/eregistrar/eregistrar-api/internal/dto"
	"github.com/eregistrar/eregistrar-api/internal/models"
	appErrors "github.com/eregistrar/eregistrar-api/pkg/errors"
)

type profileRepository interface {
	Get(ctx context.Context, userID string) (*models.Profile, error)
	SaveSection(ctx context.Context, userID string, section models.ProfileSection, payload interface{}) error
	DeleteSection(ctx context.Context, userID string, section models.ProfileSection) error
	UpdateUsername(ctx context.Context, userID, username string) error
	UpdateAvatar(ctx context.Context, userID, mediaID string) error
}

// ProfileService manages the per-identity profile document. The profile and
// school sub-documents are edited independently; saving or clearing one never
// touches the other.
type ProfileService struct {
	repo      profileRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProfileService constructs a ProfileService instance.
func NewProfileService(repo profileRepository, validate *validator.Validate, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ProfileService{repo: repo, validator: validate, logger: logger}
}

// Get returns the profile document for a user. A user with no saved profile
// gets an empty document, not an error.
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.Profile{UserID: userID}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}
	return profile, nil
}

// SaveSection merge-writes one tagged sub-document. The payload must match
// the section tag.
func (s *ProfileService) SaveSection(ctx context.Context, userID string, req dto.SaveSectionRequest) (*models.Profile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}
	if !req.Section.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown profile section")
	}

	var payload interface{}
	switch req.Section {
	case models.SectionProfile:
		if req.Profile == nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "profile section payload is missing")
		}
		payload = req.Profile
	case models.SectionSchool:
		if req.School == nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "school section payload is missing")
		}
		payload = req.School
	}

	if err := s.repo.SaveSection(ctx, userID, req.Section, payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save profile section")
	}

	s.logger.Info("profile section saved",
		zap.String("user_id", userID),
		zap.String("section", string(req.Section)))

	return s.Get(ctx, userID)
}

// DeleteSection removes one tagged sub-document, leaving the other intact.
func (s *ProfileService) DeleteSection(ctx context.Context, userID string, section models.ProfileSection) (*models.Profile, error) {
	if !section.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown profile section")
	}

	if err := s.repo.DeleteSection(ctx, userID, section); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete profile section")
	}

	s.logger.Info("profile section deleted",
		zap.String("user_id", userID),
		zap.String("section", string(section)))

	return s.Get(ctx, userID)
}

// UpdateUsername renames the profile.
func (s *ProfileService) UpdateUsername(ctx context.Context, userID string, req dto.UpdateUsernameRequest) (*models.Profile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid username")
	}

	if err := s.repo.UpdateUsername(ctx, userID, req.Username); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update username")
	}
	return s.Get(ctx, userID)
}

// SetAvatar points the profile at an uploaded media item.
func (s *ProfileService) SetAvatar(ctx context.Context, userID, mediaID string) (*models.Profile, error) {
	if mediaID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "media id is required")
	}
	if err := s.repo.UpdateAvatar(ctx, userID, mediaID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update avatar")
	}
	return s.Get(ctx, userID)
}
