package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eregistrar/eregistrar-api/internal/dto"
	"github.com/eregistrar/eregistrar-api/internal/models"
	appErrors "github.com/eregistrar/eregistrar-api/pkg/errors"
)

type journalRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.JournalEntry, error)
	Create(ctx context.Context, entry *models.JournalEntry) error
	Delete(ctx context.Context, id, ownerID string) error
}

// JournalService manages travel-journal entries. The whole module sits
// behind a feature flag and is disabled by default.
type JournalService struct {
	repo      journalRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewJournalService constructs a JournalService instance.
func NewJournalService(repo journalRepository, validate *validator.Validate, logger *zap.Logger) *JournalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &JournalService{repo: repo, validator: validate, logger: logger}
}

// List returns the caller's entries, newest first.
func (s *JournalService) List(ctx context.Context, ownerID string) ([]models.JournalEntry, error) {
	entries, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list journal entries")
	}
	if entries == nil {
		entries = []models.JournalEntry{}
	}
	return entries, nil
}

// Create adds an entry for the caller.
func (s *JournalService) Create(ctx context.Context, ownerID string, req dto.CreateJournalRequest) (*models.JournalEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid journal payload")
	}

	entry := &models.JournalEntry{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     req.Title,
		Note:      req.Note,
		Location:  req.Location,
		MediaID:   req.MediaID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create journal entry")
	}
	return entry, nil
}

// Delete removes one of the caller's entries.
func (s *JournalService) Delete(ctx context.Context, id, ownerID string) error {
	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "journal entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete journal entry")
	}
	return nil
}
