package dto

import (
	"time"

	"github.com/yigit/campusnet/internal/app/models"
	"github.com/yigit/campusnet/internal/pkg/helpers"
)

// EventListItem is the flat-list projection of a filtered event
type EventListItem struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	EventTypeID     *int64    `json:"eventTypeId,omitempty"`
	TypeName        *string   `json:"typeName,omitempty"`
	Location        string    `json:"location"`
	DateTime        time.Time `json:"dateTime"`
	RegistrationFee *float64  `json:"registrationFee"`
	LinkKey         string    `json:"linkKey"`
	OrganizerEmail  string    `json:"organizerEmail"`
	PhoneNumber     *string   `json:"phoneNumber,omitempty"`
	ShowPhoneNumber bool      `json:"showPhoneNumber"`
}

// EventListResponse wraps the flat list
type EventListResponse struct {
	Events []EventListItem `json:"events"`
	Count  int             `json:"count"`
}

// CalendarEntry is one event inside a calendar day bucket
type CalendarEntry struct {
	Name           string  `json:"name"`
	LinkKey        string  `json:"linkKey"`
	Location       string  `json:"location"`
	TypeName       *string `json:"typeName,omitempty"`
	OrganizerEmail string  `json:"organizerEmail"`
	DateTime       string  `json:"dateTime" example:"2025-03-14 18:30"`
}

// CalendarResponse maps a UTC day (YYYY-MM-DD) to that day's events. Days without events are absent.
type CalendarResponse map[string][]CalendarEntry

// DayEventsResponse lists the events of one day
type DayEventsResponse struct {
	Date   string          `json:"date" example:"2025-03-14"`
	Events []EventListItem `json:"events"`
}

// EventDetailResponse is the full event behind a shareable link
type EventDetailResponse struct {
	EventListItem
	Description      string    `json:"description"`
	BannerURL        *string   `json:"bannerUrl,omitempty"`
	State            *string   `json:"state,omitempty"`
	OrganizerCollege *string   `json:"organizerCollege,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// EventTypeResponse is an event type inside a category
type EventTypeResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// EventCategoryResponse groups types for filter dropdowns
type EventCategoryResponse struct {
	ID    int64               `json:"id"`
	Name  string              `json:"name"`
	Types []EventTypeResponse `json:"types"`
}

// CreateEventRequest is the multipart form for creating an event. The banner is a separate file field.
type CreateEventRequest struct {
	Name            string   `form:"name" binding:"required,max=200"`
	EventTypeID     *int64   `form:"event_type" binding:"omitempty,min=1"`
	Description     string   `form:"description"`
	Location        string   `form:"location" binding:"required,max=250"`
	State           *string  `form:"state" binding:"omitempty,max=100"`
	DateTime        string   `form:"date_time" binding:"required"`
	RegistrationFee *float64 `form:"registration_fee" binding:"omitempty,gte=0"`
	PhoneNumber     *string  `form:"phone_number" binding:"omitempty,max=15"`
	ShowPhoneNumber *bool    `form:"show_phone_number"`
}

// NewEventListItem converts an event to its list projection
func NewEventListItem(e *models.Event) EventListItem {
	return EventListItem{
		ID:              e.ID,
		Name:            e.Name,
		EventTypeID:     e.EventTypeID,
		TypeName:        e.TypeName,
		Location:        e.Location,
		DateTime:        e.DateTime.UTC(),
		RegistrationFee: e.RegistrationFee,
		LinkKey:         e.LinkKey.String(),
		OrganizerEmail:  e.OrganizerEmail,
		PhoneNumber:     e.PhoneNumber,
		ShowPhoneNumber: e.ShowPhoneNumber,
	}
}

// NewEventListResponse converts events preserving order
func NewEventListResponse(events []*models.Event) *EventListResponse {
	items := make([]EventListItem, 0, len(events))
	for _, e := range events {
		items = append(items, NewEventListItem(e))
	}
	return &EventListResponse{Events: items, Count: len(items)}
}

// NewCalendarEntry converts an event to its calendar projection
func NewCalendarEntry(e *models.Event) CalendarEntry {
	return CalendarEntry{
		Name:           e.Name,
		LinkKey:        e.LinkKey.String(),
		Location:       e.Location,
		TypeName:       e.TypeName,
		OrganizerEmail: e.OrganizerEmail,
		DateTime:       e.DateTime.UTC().Format(helpers.DateTimeLayout),
	}
}

// NewEventDetailResponse converts an event to its detail view
func NewEventDetailResponse(e *models.Event) *EventDetailResponse {
	return &EventDetailResponse{
		EventListItem:    NewEventListItem(e),
		Description:      e.Description,
		BannerURL:        e.BannerURL,
		State:            e.State,
		OrganizerCollege: e.OrganizerCollege,
		CreatedAt:        e.CreatedAt,
	}
}

// NewEventCategoryListResponse converts the category tree
func NewEventCategoryListResponse(categories []*models.EventCategory) []EventCategoryResponse {
	out := make([]EventCategoryResponse, 0, len(categories))
	for _, c := range categories {
		cat := EventCategoryResponse{ID: c.ID, Name: c.Name, Types: make([]EventTypeResponse, 0, len(c.Types))}
		for _, t := range c.Types {
			cat.Types = append(cat.Types, EventTypeResponse{ID: t.ID, Name: t.Name})
		}
		out = append(out, cat)
	}
	return out
}
