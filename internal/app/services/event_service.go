package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/campusnet/internal/app/models"
	"github.com/yigit/campusnet/internal/app/models/dto"
	"github.com/yigit/campusnet/internal/app/repositories"
	"github.com/yigit/campusnet/internal/pkg/apperrors"
	"github.com/yigit/campusnet/internal/pkg/filestorage"
	"github.com/yigit/campusnet/internal/pkg/helpers"
	"github.com/yigit/campusnet/internal/pkg/metrics"
)

// bannerSubPath is where event banners are stored
const bannerSubPath = "event_banners"

// accepted event date_time inputs, tried in order
var eventTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	helpers.DateTimeLayout,
}

// EventService is the event discovery surface
type EventService interface {
	FilterEvents(ctx context.Context, userID int64, filter models.EventFilter) (*dto.EventListResponse, error)
	Calendar(ctx context.Context, userID int64, filter models.EventFilter) (dto.CalendarResponse, error)
	EventsOnDay(ctx context.Context, day string) (*dto.DayEventsResponse, error)
	GetByLinkKey(ctx context.Context, key string) (*dto.EventDetailResponse, error)
	MyEvents(ctx context.Context, userID int64) (*dto.EventListResponse, error)
	Categories(ctx context.Context) ([]dto.EventCategoryResponse, error)
	CreateEvent(ctx context.Context, userID int64, req *dto.CreateEventRequest, banner *multipart.FileHeader) (*dto.EventDetailResponse, error)
	Registrations(ctx context.Context, userID, eventID int64) ([]dto.ApplicationResponse, error)
}

type eventServiceImpl struct {
	eventStore       EventStore
	userStore        UserStore
	applicationStore ApplicationStore
	storage          filestorage.FileStorage
	metrics          *metrics.Metrics
	logger           zerolog.Logger
	now              func() time.Time
}

// NewEventService creates a new EventService
func NewEventService(
	eventStore EventStore,
	userStore UserStore,
	applicationStore ApplicationStore,
	storage filestorage.FileStorage,
	m *metrics.Metrics,
	logger zerolog.Logger,
) EventService {
	return &eventServiceImpl{
		eventStore:       eventStore,
		userStore:        userStore,
		applicationStore: applicationStore,
		storage:          storage,
		metrics:          m,
		logger:           logger,
		now:              time.Now,
	}
}

// ParseEventFilter reads filter criteria from query parameters. Malformed values are treated as absent.
func ParseEventFilter(q url.Values) models.EventFilter {
	return models.EventFilter{
		EventTypeID:   helpers.QueryInt64(q.Get("event_type")),
		Fee:           models.ParseFeeClass(q.Get("fees")),
		MyCollegeOnly: helpers.QueryBool(q.Get("my_college_only")),
		AppliedOnly:   helpers.QueryBool(q.Get("applied_filter")),
		College:       helpers.QueryText(q.Get("college_name")),
		State:         helpers.QueryText(q.Get("state")),
	}
}

// upcoming resolves the filter against the requester. my_college_only without an
// affiliation short-circuits to an empty result.
func (s *eventServiceImpl) upcoming(ctx context.Context, userID int64, filter models.EventFilter) ([]*models.Event, error) {
	query := repositories.EventQuery{
		Filter:      filter,
		RequesterID: userID,
		From:        s.now().UTC(),
	}

	if filter.MyCollegeOnly {
		profile, err := s.userStore.GetProfile(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
		query.RequesterCollege = profile.Affiliation()
		if query.RequesterCollege == "" {
			s.logger.Warn().Int64("userID", userID).Msg("my_college_only without affiliation, result is empty")
			return nil, nil
		}
	}

	events, err := s.eventStore.Filter(ctx, query)
	if err != nil {
		s.logger.Error().Err(err).Int64("userID", userID).Msg("Failed to filter events")
		return nil, fmt.Errorf("failed to filter events: %w", err)
	}
	return events, nil
}

// FilterEvents returns upcoming events matching every supplied criterion, soonest first
func (s *eventServiceImpl) FilterEvents(ctx context.Context, userID int64, filter models.EventFilter) (*dto.EventListResponse, error) {
	s.logger.Debug().Int64("userID", userID).Interface("filter", filter).Msg("Filtering events")

	events, err := s.upcoming(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	s.metrics.EventQuery(metrics.ProjectionList)
	return dto.NewEventListResponse(events), nil
}

// groupByDay buckets events by UTC calendar day, keeping their order inside each bucket
func groupByDay(events []*models.Event) dto.CalendarResponse {
	calendar := make(dto.CalendarResponse)
	for _, e := range events {
		key := helpers.DayKey(e.DateTime)
		calendar[key] = append(calendar[key], dto.NewCalendarEntry(e))
	}
	return calendar
}

// Calendar is the date-bucketed projection of FilterEvents
func (s *eventServiceImpl) Calendar(ctx context.Context, userID int64, filter models.EventFilter) (dto.CalendarResponse, error) {
	s.logger.Debug().Int64("userID", userID).Interface("filter", filter).Msg("Building calendar")

	events, err := s.upcoming(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	s.metrics.EventQuery(metrics.ProjectionCalendar)
	return groupByDay(events), nil
}

// EventsOnDay lists every event on the given UTC day, past or upcoming
func (s *eventServiceImpl) EventsOnDay(ctx context.Context, day string) (*dto.DayEventsResponse, error) {
	start, err := helpers.ParseDay(strings.TrimSpace(day))
	if err != nil {
		return nil, apperrors.ErrInvalidDate
	}

	events, err := s.eventStore.ListBetween(ctx, start, start.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to list events for day: %w", err)
	}
	s.metrics.EventQuery(metrics.ProjectionDay)

	return &dto.DayEventsResponse{
		Date:   helpers.DayKey(start),
		Events: dto.NewEventListResponse(events).Events,
	}, nil
}

// parseLinkKey reports a malformed key as an unknown event
func parseLinkKey(key string) (uuid.UUID, error) {
	linkKey, err := uuid.Parse(strings.TrimSpace(key))
	if err != nil {
		return uuid.Nil, apperrors.ErrEventNotFound
	}
	return linkKey, nil
}

// GetByLinkKey resolves a shareable link
func (s *eventServiceImpl) GetByLinkKey(ctx context.Context, key string) (*dto.EventDetailResponse, error) {
	linkKey, err := parseLinkKey(key)
	if err != nil {
		return nil, err
	}

	event, err := s.eventStore.GetByLinkKey(ctx, linkKey)
	if err != nil {
		return nil, err
	}
	return dto.NewEventDetailResponse(event), nil
}

// MyEvents lists events organized by the user, newest first
func (s *eventServiceImpl) MyEvents(ctx context.Context, userID int64) (*dto.EventListResponse, error) {
	events, err := s.eventStore.ListByOrganizer(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organized events: %w", err)
	}
	return dto.NewEventListResponse(events), nil
}

func (s *eventServiceImpl) Categories(ctx context.Context) ([]dto.EventCategoryResponse, error) {
	categories, err := s.eventStore.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list event categories: %w", err)
	}
	return dto.NewEventCategoryListResponse(categories), nil
}

func parseEventTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range eventTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperrors.NewBadRequestError("date_time must look like 2025-03-14 18:30")
}

// stateFromCollege takes the suffix after the last " - " of a college name, e.g. "Xavier - Mumbai" gives "Mumbai"
func stateFromCollege(college string) *string {
	idx := strings.LastIndex(college, " - ")
	if idx < 0 {
		return nil
	}
	return helpers.QueryText(college[idx+len(" - "):])
}

// CreateEvent stores a new event organized by the user
func (s *eventServiceImpl) CreateEvent(ctx context.Context, userID int64, req *dto.CreateEventRequest, banner *multipart.FileHeader) (*dto.EventDetailResponse, error) {
	s.logger.Debug().Int64("userID", userID).Str("name", req.Name).Msg("Creating event")

	dateTime, err := parseEventTime(req.DateTime)
	if err != nil {
		return nil, err
	}

	if req.EventTypeID != nil {
		if _, err := s.eventStore.GetEventType(ctx, *req.EventTypeID); err != nil {
			return nil, err
		}
	}

	event := &models.Event{
		Name:            strings.TrimSpace(req.Name),
		EventTypeID:     req.EventTypeID,
		Description:     strings.TrimSpace(req.Description),
		Location:        strings.TrimSpace(req.Location),
		DateTime:        dateTime,
		RegistrationFee: req.RegistrationFee,
		OrganizerID:     userID,
		LinkKey:         uuid.New(),
		PhoneNumber:     req.PhoneNumber,
	}
	if req.ShowPhoneNumber != nil {
		event.ShowPhoneNumber = *req.ShowPhoneNumber
	}
	if event.RegistrationFee != nil && *event.RegistrationFee == 0 {
		event.RegistrationFee = nil
	}

	if req.State != nil {
		event.State = helpers.QueryText(*req.State)
	}
	if event.State == nil {
		profile, err := s.userStore.GetProfile(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
		event.State = stateFromCollege(profile.Affiliation())
	}

	if banner != nil {
		bannerURL, err := s.storage.SaveFileWithPath(banner, bannerSubPath)
		if err != nil {
			return nil, fmt.Errorf("failed to save banner: %w", err)
		}
		event.BannerURL = &bannerURL
	}

	id, err := s.eventStore.Create(ctx, event)
	if err != nil {
		if event.BannerURL != nil {
			if delErr := s.storage.DeleteFile(*event.BannerURL); delErr != nil {
				s.logger.Error().Err(delErr).Str("url", *event.BannerURL).Msg("Failed to clean up banner")
			}
		}
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	created, err := s.eventStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("eventID", id).Int64("userID", userID).Msg("Event created")
	return dto.NewEventDetailResponse(created), nil
}

// Registrations lists applications to an event. Only the organizer may see them;
// anyone else gets not found.
func (s *eventServiceImpl) Registrations(ctx context.Context, userID, eventID int64) ([]dto.ApplicationResponse, error) {
	event, err := s.eventStore.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != userID {
		s.logger.Warn().Int64("userID", userID).Int64("eventID", eventID).Msg("Registrations requested by non-organizer")
		return nil, apperrors.ErrEventNotFound
	}

	apps, err := s.applicationStore.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	return dto.NewApplicationListResponse(apps), nil
}

