package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eregistrar/eregistrar-api/internal/models"
	"github.com/eregistrar/eregistrar-api/pkg/config"
	appErrors "github.com/eregistrar/eregistrar-api/pkg/errors"
)

type mediaRepository interface {
	Create(ctx context.Context, item *models.MediaItem) error
	GetByID(ctx context.Context, id string) (*models.MediaItem, error)
	Delete(ctx context.Context, id string) error
}

type mediaStorage interface {
	SaveStream(filename string, r io.Reader) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
}

type urlSigner interface {
	Generate(mediaID, relPath string) (string, time.Time, error)
	Parse(token string) (mediaID, relPath string, expiresAt time.Time, err error)
}

// SignedMediaURL is the result of signing a media download.
type SignedMediaURL struct {
	MediaID   string    `json:"media_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MediaService validates and stores uploaded images. Uploads are rejected
// up front on type and size; nothing is written for a rejected file.
type MediaService struct {
	repo    mediaRepository
	storage mediaStorage
	signer  urlSigner
	logger  *zap.Logger
	cfg     config.MediaConfig
}

// NewMediaService constructs a MediaService instance.
func NewMediaService(repo mediaRepository, storage mediaStorage, signer urlSigner, logger *zap.Logger, cfg config.MediaConfig) *MediaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxFileSizeBytes <= 0 {
		cfg.MaxFileSizeBytes = 5 << 20
	}
	if len(cfg.AllowedMIMEs) == 0 {
		cfg.AllowedMIMEs = []string{"image/jpeg", "image/png", "image/webp"}
	}
	return &MediaService{repo: repo, storage: storage, signer: signer, logger: logger, cfg: cfg}
}

// Upload stores an image for the owner after type and size checks.
func (s *MediaService) Upload(ctx context.Context, ownerID, filename, mimeType string, size int64, r io.Reader) (*models.MediaItem, error) {
	if !s.mimeAllowed(mimeType) {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedMedia, fmt.Sprintf("media type %q is not allowed", mimeType))
	}
	if size <= 0 || size > s.cfg.MaxFileSizeBytes {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedMedia, fmt.Sprintf("file exceeds the %d byte limit", s.cfg.MaxFileSizeBytes))
	}

	id := uuid.NewString()
	storedName := filepath.Join(ownerID, id+filepath.Ext(filename))
	if _, err := s.storage.SaveStream(storedName, io.LimitReader(r, s.cfg.MaxFileSizeBytes)); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store media file")
	}

	item := &models.MediaItem{
		ID:         id,
		OwnerID:    ownerID,
		Filename:   filename,
		MimeType:   mimeType,
		SizeBytes:  size,
		StoredPath: storedName,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		if cleanupErr := s.storage.Delete(storedName); cleanupErr != nil {
			s.logger.Warn("failed to clean up orphaned media file",
				zap.String("path", storedName), zap.Error(cleanupErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record media item")
	}

	s.logger.Info("media uploaded",
		zap.String("media_id", item.ID),
		zap.String("owner_id", ownerID),
		zap.String("mime_type", mimeType),
		zap.Int64("size_bytes", size))
	return item, nil
}

// SignDownload issues a signed download token for a media item the caller owns.
func (s *MediaService) SignDownload(ctx context.Context, requesterID, mediaID string) (*SignedMediaURL, error) {
	item, err := s.getOwned(ctx, requesterID, mediaID)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.signer.Generate(item.ID, item.StoredPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign media url")
	}
	return &SignedMediaURL{MediaID: item.ID, Token: token, ExpiresAt: expiresAt}, nil
}

// OpenSigned validates a signed token and opens the referenced file.
func (s *MediaService) OpenSigned(ctx context.Context, token string) (*models.MediaItem, *os.File, error) {
	mediaID, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid media token")
	}
	item, err := s.repo.GetByID(ctx, mediaID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "media item not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load media item")
	}
	if item.StoredPath != relPath {
		return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "media token does not match stored file")
	}
	file, err := s.storage.Open(item.StoredPath)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open media file")
	}
	return item, file, nil
}

// Delete removes a media item the caller owns, file first.
func (s *MediaService) Delete(ctx context.Context, requesterID, mediaID string) error {
	item, err := s.getOwned(ctx, requesterID, mediaID)
	if err != nil {
		return err
	}
	if err := s.storage.Delete(item.StoredPath); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete media file")
	}
	if err := s.repo.Delete(ctx, mediaID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete media item")
	}
	return nil
}

func (s *MediaService) getOwned(ctx context.Context, requesterID, mediaID string) (*models.MediaItem, error) {
	item, err := s.repo.GetByID(ctx, mediaID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "media item not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load media item")
	}
	if item.OwnerID != requesterID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "media item belongs to another user")
	}
	return item, nil
}

func (s *MediaService) mimeAllowed(mimeType string) bool {
	for _, allowed := range s.cfg.AllowedMIMEs {
		if allowed == mimeType {
			return true
		}
	}
	return false
}
