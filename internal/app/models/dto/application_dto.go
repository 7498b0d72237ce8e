package dto

import (
	"time"

	"github.com/yigit/campusnet/internal/app/models"
)

// ApplyRequest carries optional contact overrides. Missing fields are filled from the applicant's profile.
type ApplyRequest struct {
	Name           *string `json:"name" binding:"omitempty,max=200"`
	CollegeName    *string `json:"college_name" binding:"omitempty,max=500"`
	WhatsappNumber *string `json:"whatsapp_number" binding:"omitempty,max=20"`
	Email          *string `json:"email" binding:"omitempty,email"`
}

// ApplicationResponse represents an application, optionally with its event summary
type ApplicationResponse struct {
	ID             int64     `json:"id"`
	EventID        int64     `json:"eventId"`
	EventName      string    `json:"eventName,omitempty"`
	EventDateTime  time.Time `json:"eventDateTime,omitempty"`
	Name           string    `json:"name"`
	CollegeName    string    `json:"collegeName"`
	WhatsappNumber *string   `json:"whatsappNumber,omitempty"`
	Email          string    `json:"email"`
	AppliedAt      time.Time `json:"appliedAt"`
}

// NewApplicationResponse converts an application model
func NewApplicationResponse(a *models.Application) ApplicationResponse {
	resp := ApplicationResponse{
		ID:             a.ID,
		EventID:        a.EventID,
		Name:           a.Name,
		CollegeName:    a.CollegeName,
		WhatsappNumber: a.WhatsappNumber,
		Email:          a.Email,
		AppliedAt:      a.AppliedAt,
	}
	if a.Event != nil {
		resp.EventName = a.Event.Name
		resp.EventDateTime = a.Event.DateTime.UTC()
	}
	return resp
}

// NewApplicationListResponse converts applications preserving order
func NewApplicationListResponse(apps []*models.Application) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(apps))
	for _, a := range apps {
		out = append(out, NewApplicationResponse(a))
	}
	return out
}
