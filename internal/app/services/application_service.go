package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/campusnet/internal/app/models"
	"github.com/yigit/campusnet/internal/app/models/dto"
	"github.com/yigit/campusnet/internal/pkg/apperrors"
	"github.com/yigit/campusnet/internal/pkg/helpers"
	"github.com/yigit/campusnet/internal/pkg/metrics"
)

// Application outcomes reported to metrics
const (
	ApplicationAccepted  = "accepted"
	ApplicationDuplicate = "duplicate"
)

// ApplicationService registers users for events
type ApplicationService interface {
	Apply(ctx context.Context, userID int64, linkKey string, req *dto.ApplyRequest) (*dto.ApplicationResponse, error)
	MyApplications(ctx context.Context, userID int64) ([]dto.ApplicationResponse, error)
}

type applicationServiceImpl struct {
	applicationStore ApplicationStore
	eventStore       EventStore
	userStore        UserStore
	metrics          *metrics.Metrics
	logger           zerolog.Logger
}

// NewApplicationService creates a new ApplicationService
func NewApplicationService(
	applicationStore ApplicationStore,
	eventStore EventStore,
	userStore UserStore,
	m *metrics.Metrics,
	logger zerolog.Logger,
) ApplicationService {
	return &applicationServiceImpl{
		applicationStore: applicationStore,
		eventStore:       eventStore,
		userStore:        userStore,
		metrics:          m,
		logger:           logger,
	}
}

// valueOr returns the trimmed override when present, otherwise the fallback
func valueOr(override *string, fallback string) string {
	if v := helpers.QueryText(derefString(override)); v != nil {
		return *v
	}
	return fallback
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Apply records the user's application to the event behind linkKey.
// Omitted contact fields default to the user's account and profile.
func (s *applicationServiceImpl) Apply(ctx context.Context, userID int64, linkKey string, req *dto.ApplyRequest) (*dto.ApplicationResponse, error) {
	s.logger.Debug().Int64("userID", userID).Str("linkKey", linkKey).Msg("Applying to event")

	if req == nil {
		req = &dto.ApplyRequest{}
	}

	key, err := parseLinkKey(linkKey)
	if err != nil {
		return nil, err
	}
	event, err := s.eventStore.GetByLinkKey(ctx, key)
	if err != nil {
		return nil, err
	}

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.userStore.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	app := &models.Application{
		UserID:         userID,
		EventID:        event.ID,
		Name:           valueOr(req.Name, user.Username),
		CollegeName:    valueOr(req.CollegeName, profile.Affiliation()),
		WhatsappNumber: helpers.QueryText(derefString(req.WhatsappNumber)),
		Email:          valueOr(req.Email, user.Email),
	}
	if app.WhatsappNumber == nil {
		app.WhatsappNumber = profile.PhoneNumber
	}

	if _, err := s.applicationStore.Create(ctx, app); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyApplied) {
			s.logger.Warn().Int64("userID", userID).Int64("eventID", event.ID).Msg("Duplicate application")
			s.metrics.ApplicationSubmitted(ApplicationDuplicate)
			return nil, err
		}
		return nil, fmt.Errorf("failed to save application: %w", err)
	}

	s.metrics.ApplicationSubmitted(ApplicationAccepted)
	app.Event = event

	resp := dto.NewApplicationResponse(app)
	return &resp, nil
}

// MyApplications lists the user's applications, most recent first
func (s *applicationServiceImpl) MyApplications(ctx context.Context, userID int64) ([]dto.ApplicationResponse, error) {
	apps, err := s.applicationStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return dto.NewApplicationListResponse(apps), nil
}
