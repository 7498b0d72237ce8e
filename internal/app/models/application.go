package models

import "time"

// Application records a user's intent to attend an event
type Application struct {
	ID             int64     `json:"id" db:"id"`
	UserID         int64     `json:"userId" db:"user_id"`
	EventID        int64     `json:"eventId" db:"event_id"`
	Name           string    `json:"name" db:"name"`
	CollegeName    string    `json:"collegeName" db:"college_name"`
	WhatsappNumber *string   `json:"whatsappNumber,omitempty" db:"whatsapp_number"`
	Email          string    `json:"email" db:"email"`
	AppliedAt      time.Time `json:"appliedAt" db:"applied_at"`

	Event *Event `json:"event,omitempty"`
}
