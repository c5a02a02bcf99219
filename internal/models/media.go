package models

import "time"

// MediaItem records an uploaded image owned by one identity.
type MediaItem struct {
	ID         string    `db:"id" json:"id"`
	OwnerID    string    `db:"owner_id" json:"owner_id"`
	Filename   string    `db:"filename" json:"filename"`
	MimeType   string    `db:"mime_type" json:"mime_type"`
	SizeBytes  int64     `db:"size_bytes" json:"size_bytes"`
	StoredPath string    `db:"stored_path" json:"-"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
