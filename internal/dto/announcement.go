package dto

import "time"

// CreateAnnouncementRequest publishes a registrar notice.
type CreateAnnouncementRequest struct {
	Title       string     `json:"title" validate:"required"`
	Content     string     `json:"content" validate:"required"`
	IsPinned    bool       `json:"is_pinned"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}
