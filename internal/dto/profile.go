package dto

import "github.com/eregistrar/eregistrar-api/internal/models"

// SaveSectionRequest is a tagged profile edit. Exactly one of the payloads
// must be set, matching the section tag.
type SaveSectionRequest struct {
	Section models.ProfileSection `json:"section" validate:"required"`
	Profile *models.ProfileInfo   `json:"profileInfo,omitempty"`
	School  *models.SchoolInfo    `json:"schoolInfo,omitempty"`
}

// UpdateUsernameRequest renames the profile.
type UpdateUsernameRequest struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
}
