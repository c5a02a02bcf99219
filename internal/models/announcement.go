package models

import "time"

// Announcement is a registrar notice shown read-only in the mobile client.
type Announcement struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Content     string     `db:"content" json:"content"`
	IsPinned    bool       `db:"is_pinned" json:"is_pinned"`
	PublishedAt time.Time  `db:"published_at" json:"published_at"`
	ExpiresAt   *time.Time `db:"expires_at" json:"expires_at,omitempty"`
	CreatedBy   string     `db:"created_by" json:"created_by"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// AnnouncementFilter constrains announcement listing.
type AnnouncementFilter struct {
	Page     int
	PageSize int
}

// OfficeStatus reports whether the registrar office is currently open.
type OfficeStatus struct {
	Open      bool   `json:"open"`
	Message   string `json:"message"`
	OpenHour  int    `json:"open_hour"`
	CloseHour int    `json:"close_hour"`
}
