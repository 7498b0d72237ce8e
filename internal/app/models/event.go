package models

import (
	"time"

	"github.com/google/uuid"
)

// EventCategory groups event types
type EventCategory struct {
	ID    int64        `json:"id" db:"id"`
	Name  string       `json:"name" db:"name"`
	Types []*EventType `json:"types,omitempty"`
}

// EventType is a leaf of the category tree, e.g. "Hackathon" under "Technical"
type EventType struct {
	ID         int64  `json:"id" db:"id"`
	CategoryID int64  `json:"categoryId" db:"category_id"`
	Name       string `json:"name" db:"name"`
}

// Event is an upcoming activity organized by a user on behalf of their college
type Event struct {
	ID              int64     `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	EventTypeID     *int64    `json:"eventTypeId,omitempty" db:"event_type_id"`
	BannerURL       *string   `json:"bannerUrl,omitempty" db:"banner_url"`
	Description     string    `json:"description" db:"description"`
	Location        string    `json:"location" db:"location"`
	State           *string   `json:"state,omitempty" db:"state"`
	DateTime        time.Time `json:"dateTime" db:"date_time"`
	RegistrationFee *float64  `json:"registrationFee,omitempty" db:"registration_fee"` // NULL means free
	OrganizerID     int64     `json:"organizerId" db:"organizer_id"`
	LinkKey         uuid.UUID `json:"linkKey" db:"link_key"`
	PhoneNumber     *string   `json:"phoneNumber,omitempty" db:"phone_number"`
	ShowPhoneNumber bool      `json:"showPhoneNumber" db:"show_phone_number"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`

	// Denormalized for rendering
	TypeName         *string `json:"typeName,omitempty"`
	OrganizerEmail   string  `json:"organizerEmail"`
	OrganizerCollege *string `json:"organizerCollege,omitempty"`
}

// IsFree reports whether the event has no registration fee
func (e *Event) IsFree() bool {
	return e.RegistrationFee == nil
}

// EventFilter is the set of optional criteria applied to upcoming events.
// Zero values impose no constraint.
type EventFilter struct {
	EventTypeID   *int64
	Fee           FeeClass
	MyCollegeOnly bool
	AppliedOnly   bool
	College       *string // substring of the organizer's affiliation
	State         *string // substring of the event location
}
