package dto

// CreateJournalRequest adds a travel-journal entry.
type CreateJournalRequest struct {
	Title    string  `json:"title" validate:"required"`
	Note     string  `json:"note"`
	Location string  `json:"location"`
	MediaID  *string `json:"media_id,omitempty"`
}
