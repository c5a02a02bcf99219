package models

import "time"

// ProfileSection tags which sub-document a profile edit targets. The two
// sections are independent records; writing or deleting one never touches
// the other.
type ProfileSection string

const (
	SectionProfile ProfileSection = "profile"
	SectionSchool  ProfileSection = "school"
)

// Valid reports whether the section tag is known.
func (s ProfileSection) Valid() bool {
	return s == SectionProfile || s == SectionSchool
}

// ProfileInfo is the personal sub-document of a student profile.
type ProfileInfo struct {
	Status    string `json:"status"`
	Gender    string `json:"gender"`
	YearLevel string `json:"yearLevel"`
	Course    string `json:"course"`
}

// SchoolInfo is the enrollment sub-document of a student profile.
type SchoolInfo struct {
	School     string `json:"school"`
	Department string `json:"department"`
	StudentID  string `json:"studentId"`
}

// Profile is the per-identity profile document. Either sub-document may be
// absent independently of the other.
type Profile struct {
	UserID      string       `json:"userId"`
	Username    string       `json:"username"`
	ProfileInfo *ProfileInfo `json:"profileInfo,omitempty"`
	SchoolInfo  *SchoolInfo  `json:"schoolInfo,omitempty"`
	AvatarID    string       `json:"avatarId,omitempty"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}
