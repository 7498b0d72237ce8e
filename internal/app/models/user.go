package models

import (
	"strings"
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Username  string    `json:"username" db:"username" example:"asha"`
	Email     string    `json:"email" db:"email" example:"asha@xavier.edu"`
	Password  string    `json:"-" db:"password"` // bcrypt hash
	IsActive  bool      `json:"isActive" db:"is_active" example:"true"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"`
}

// Profile holds the user's optional college affiliation from 'user_profiles'
type Profile struct {
	UserID         int64   `json:"userId" db:"user_id"`
	CollegeName    *string `json:"collegeName,omitempty" db:"college_name"` // NULL until setup
	PhoneNumber    *string `json:"phoneNumber,omitempty" db:"phone_number"`
	ProfileIconURL *string `json:"profileIconUrl,omitempty" db:"profile_icon_url"`
	SetupComplete  bool    `json:"setupComplete" db:"setup_complete"`
}

// Affiliation returns the trimmed college name, or "" when none is set.
// Safe on a nil profile.
func (p *Profile) Affiliation() string {
	if p == nil || p.CollegeName == nil {
		return ""
	}
	return strings.TrimSpace(*p.CollegeName)
}
