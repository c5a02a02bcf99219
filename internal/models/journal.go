package models

import "time"

// JournalEntry is one travel-journal card. The journal module ships
// feature-flagged and disabled by default; it is unrelated to the
// registrar request flow.
type JournalEntry struct {
	ID        string    `db:"id" json:"id"`
	OwnerID   string    `db:"owner_id" json:"owner_id"`
	Title     string    `db:"title" json:"title"`
	Note      string    `db:"note" json:"note"`
	Location  string    `db:"location" json:"location"`
	MediaID   *string   `db:"media_id" json:"media_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
