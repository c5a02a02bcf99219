package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/eregistrar/eregistrar-api/internal/dto"
	"github.com/eregistrar/eregistrar-api/internal/models"
	"github.com/eregistrar/eregistrar-api/pkg/config"
	appErrors "github.com/eregistrar/eregistrar-api/pkg/errors"
)

type announcementRepository interface {
	List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, int, error)
	GetByID(ctx context.Context, id string) (*models.Announcement, error)
	Create(ctx context.Context, announcement *models.Announcement) error
	Delete(ctx context.Context, id string) error
}

// AnnouncementService serves registrar notices plus the synthesized office
// availability banner.
type AnnouncementService struct {
	repo      announcementRepository
	validator *validator.Validate
	logger    *zap.Logger
	cfg       config.AnnouncementsConfig
	now       func() time.Time
}

// AnnouncementServiceOption customizes an AnnouncementService.
type AnnouncementServiceOption func(*AnnouncementService)

// WithAnnouncementClock overrides the time source, used in tests.
func WithAnnouncementClock(now func() time.Time) AnnouncementServiceOption {
	return func(s *AnnouncementService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewAnnouncementService constructs an AnnouncementService instance.
func NewAnnouncementService(repo announcementRepository, validate *validator.Validate, logger *zap.Logger, cfg config.AnnouncementsConfig, opts ...AnnouncementServiceOption) *AnnouncementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.OfficeOpenHour == 0 && cfg.OfficeCloseHour == 0 {
		cfg.OfficeOpenHour = 8
		cfg.OfficeCloseHour = 17
	}
	s := &AnnouncementService{
		repo:      repo,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the visible announcements with pagination info.
func (s *AnnouncementService) List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, *models.Pagination, error) {
	announcements, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list announcements")
	}
	if announcements == nil {
		announcements = []models.Announcement{}
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return announcements, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a single announcement.
func (s *AnnouncementService) Get(ctx context.Context, id string) (*models.Announcement, error) {
	announcement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load announcement")
	}
	return announcement, nil
}

// Create publishes a registrar notice.
func (s *AnnouncementService) Create(ctx context.Context, createdBy string, req dto.CreateAnnouncementRequest) (*models.Announcement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid announcement payload")
	}

	announcement := &models.Announcement{
		Title:     req.Title,
		Content:   req.Content,
		IsPinned:  req.IsPinned,
		ExpiresAt: req.ExpiresAt,
		CreatedBy: createdBy,
	}
	if req.PublishedAt != nil {
		announcement.PublishedAt = *req.PublishedAt
	}

	if err := s.repo.Create(ctx, announcement); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create announcement")
	}

	s.logger.Info("announcement published",
		zap.String("announcement_id", announcement.ID),
		zap.String("created_by", createdBy))
	return announcement, nil
}

// Delete removes an announcement.
func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete announcement")
	}
	return nil
}

// OfficeStatus reports whether the registrar office is open right now.
// The office keeps weekday hours; weekends are always closed.
func (s *AnnouncementService) OfficeStatus() models.OfficeStatus {
	now := s.now()
	weekday := now.Weekday()
	hour := now.Hour()

	open := weekday != time.Saturday && weekday != time.Sunday &&
		hour >= s.cfg.OfficeOpenHour && hour < s.cfg.OfficeCloseHour

	status := models.OfficeStatus{
		Open:      open,
		OpenHour:  s.cfg.OfficeOpenHour,
		CloseHour: s.cfg.OfficeCloseHour,
	}
	if open {
		status.Message = fmt.Sprintf("The registrar office is open today until %d:00.", s.cfg.OfficeCloseHour)
	} else {
		status.Message = fmt.Sprintf("The registrar office is closed. Office hours are weekdays %d:00 to %d:00.", s.cfg.OfficeOpenHour, s.cfg.OfficeCloseHour)
	}
	return status
}
