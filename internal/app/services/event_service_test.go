package services

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusnet/internal/app/models"
	"github.com/yigit/campusnet/internal/app/models/dto"
	"github.com/yigit/campusnet/internal/app/repositories"
	"github.com/yigit/campusnet/internal/pkg/apperrors"
)

var eventNow = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

type testEvent struct {
	*models.Event
	appliedBy []int64
}

// evaluate mirrors the SQL predicate of the event filter over an in-memory list
func evaluate(events []testEvent) func(ctx context.Context, q repositories.EventQuery) ([]*models.Event, error) {
	return func(ctx context.Context, q repositories.EventQuery) ([]*models.Event, error) {
		f := q.Filter
		var out []*models.Event
		for _, te := range events {
			e := te.Event
			if e.DateTime.Before(q.From) {
				continue
			}
			if f.EventTypeID != nil && (e.EventTypeID == nil || *e.EventTypeID != *f.EventTypeID) {
				continue
			}
			if f.Fee == models.FeeFree && !e.IsFree() || f.Fee == models.FeePaid && e.IsFree() {
				continue
			}
			if f.MyCollegeOnly && (e.OrganizerCollege == nil || *e.OrganizerCollege != q.RequesterCollege) {
				continue
			}
			if f.AppliedOnly {
				applied := false
				for _, id := range te.appliedBy {
					applied = applied || id == q.RequesterID
				}
				if !applied {
					continue
				}
			}
			if f.College != nil && (e.OrganizerCollege == nil ||
				!strings.Contains(strings.ToLower(*e.OrganizerCollege), strings.ToLower(*f.College))) {
				continue
			}
			if f.State != nil && !strings.Contains(strings.ToLower(e.Location), strings.ToLower(*f.State)) {
				continue
			}
			out = append(out, e)
		}
		sort.Slice(out, func(i, j int) bool {
			if !out[i].DateTime.Equal(out[j].DateTime) {
				return out[i].DateTime.Before(out[j].DateTime)
			}
			return out[i].ID < out[j].ID
		})
		return out, nil
	}
}

func event(id int64, college, location string, daysAhead int, fee *float64) *models.Event {
	return &models.Event{
		ID:               id,
		Name:             "event",
		Location:         location,
		DateTime:         eventNow.Add(time.Duration(daysAhead) * 24 * time.Hour),
		RegistrationFee:  fee,
		LinkKey:          uuid.New(),
		OrganizerCollege: ptr(college),
	}
}

func campusEvents() []testEvent {
	return []testEvent{
		{Event: event(1, "Xavier", "Mumbai, Maharashtra", 2, nil), appliedBy: []int64{1}},
		{Event: event(2, "Xavier", "Mumbai, Maharashtra", 3, ptr(150.0))},
		{Event: event(3, "Loyola", "Chennai, Tamil Nadu", 1, nil), appliedBy: []int64{1}},
		{Event: event(4, "Loyola", "Chennai, Tamil Nadu", -2, nil)}, // already happened
	}
}

func newTestEventService(events *fakeEventStore, users *fakeUserStore) *eventServiceImpl {
	svc := NewEventService(events, users, &fakeApplicationStore{}, &fakeStorage{}, nil, testLogger).(*eventServiceImpl)
	svc.now = func() time.Time { return eventNow }
	return svc
}

func ids(resp *dto.EventListResponse) []int64 {
	out := []int64{}
	for _, e := range resp.Events {
		out = append(out, e.ID)
	}
	return out
}

func TestParseEventFilter(t *testing.T) {
	q := url.Values{
		"event_type":      {"4"},
		"fees":            {"Free"},
		"my_college_only": {"true"},
		"applied_filter":  {"True"},
		"college_name":    {"  xav "},
		"state":           {""},
	}
	f := ParseEventFilter(q)

	require.NotNil(t, f.EventTypeID)
	assert.Equal(t, int64(4), *f.EventTypeID)
	assert.Equal(t, models.FeeFree, f.Fee)
	assert.True(t, f.MyCollegeOnly)
	assert.False(t, f.AppliedOnly, "only the literal \"true\" enables a flag")
	require.NotNil(t, f.College)
	assert.Equal(t, "xav", *f.College)
	assert.Nil(t, f.State)

	empty := ParseEventFilter(url.Values{"event_type": {"abc"}, "fees": {"cheap"}})
	assert.Nil(t, empty.EventTypeID)
	assert.Equal(t, models.FeeAny, empty.Fee)
}

func TestFilterEvents(t *testing.T) {
	tests := []struct {
		name   string
		filter models.EventFilter
		want   []int64
	}{
		{name: "no criteria returns upcoming soonest first", want: []int64{3, 1, 2}},
		{name: "free only", filter: models.EventFilter{Fee: models.FeeFree}, want: []int64{3, 1}},
		{name: "paid only", filter: models.EventFilter{Fee: models.FeePaid}, want: []int64{2}},
		{name: "my college and free", filter: models.EventFilter{MyCollegeOnly: true, Fee: models.FeeFree}, want: []int64{1}},
		{name: "applied", filter: models.EventFilter{AppliedOnly: true}, want: []int64{3, 1}},
		{name: "applied and my college", filter: models.EventFilter{AppliedOnly: true, MyCollegeOnly: true}, want: []int64{1}},
		{name: "college substring is case-insensitive", filter: models.EventFilter{College: ptr("loy")}, want: []int64{3}},
		{name: "state matches location", filter: models.EventFilter{State: ptr("tamil")}, want: []int64{3}},
		{name: "conjunction can be empty", filter: models.EventFilter{State: ptr("tamil"), Fee: models.FeePaid}, want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeEventStore{FilterFunc: evaluate(campusEvents())}
			svc := newTestEventService(store, &fakeUserStore{GetProfileFunc: profileWith("Xavier")})

			resp, err := svc.FilterEvents(context.Background(), 1, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(resp))
			assert.Equal(t, len(tt.want), resp.Count)
		})
	}
}

func TestFilterEventsMyCollegeWithoutAffiliation(t *testing.T) {
	store := &fakeEventStore{FilterFunc: func(ctx context.Context, q repositories.EventQuery) ([]*models.Event, error) {
		t.Fatal("store must not be queried")
		return nil, nil
	}}
	svc := newTestEventService(store, &fakeUserStore{})

	resp, err := svc.FilterEvents(context.Background(), 1, models.EventFilter{MyCollegeOnly: true})
	require.NoError(t, err)
	assert.Empty(t, resp.Events)
	assert.NotNil(t, resp.Events)

	cal, err := svc.Calendar(context.Background(), 1, models.EventFilter{MyCollegeOnly: true})
	require.NoError(t, err)
	assert.Empty(t, cal)
}

func TestFilterEventsPassesRequester(t *testing.T) {
	var got repositories.EventQuery
	store := &fakeEventStore{FilterFunc: func(ctx context.Context, q repositories.EventQuery) ([]*models.Event, error) {
		got = q
		return nil, nil
	}}
	svc := newTestEventService(store, &fakeUserStore{GetProfileFunc: profileWith("Xavier")})

	_, err := svc.FilterEvents(context.Background(), 7, models.EventFilter{MyCollegeOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.RequesterID)
	assert.Equal(t, "Xavier", got.RequesterCollege)
	assert.Equal(t, eventNow, got.From)
}

func TestCalendarBucketsByDay(t *testing.T) {
	morning := event(1, "Xavier", "Mumbai", 1, nil)
	evening := event(2, "Xavier", "Mumbai", 1, nil)
	evening.DateTime = evening.DateTime.Add(10 * time.Hour)
	later := event(3, "Loyola", "Chennai", 4, nil)

	store := &fakeEventStore{FilterFunc: evaluate([]testEvent{{Event: later}, {Event: evening}, {Event: morning}})}
	svc := newTestEventService(store, &fakeUserStore{})

	cal, err := svc.Calendar(context.Background(), 1, models.EventFilter{})
	require.NoError(t, err)

	require.Len(t, cal, 2)
	day := cal["2025-03-11"]
	require.Len(t, day, 2)
	assert.Equal(t, "2025-03-11 08:00", day[0].DateTime)
	assert.Equal(t, "2025-03-11 18:00", day[1].DateTime)
	assert.Len(t, cal["2025-03-14"], 1)
}

func TestEventsOnDay(t *testing.T) {
	var from, to time.Time
	store := &fakeEventStore{ListBetweenFunc: func(ctx context.Context, f, tt time.Time) ([]*models.Event, error) {
		from, to = f, tt
		return []*models.Event{event(1, "Xavier", "Mumbai", -1, nil)}, nil
	}}
	svc := newTestEventService(store, &fakeUserStore{})

	resp, err := svc.EventsOnDay(context.Background(), "2025-03-09")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-09", resp.Date)
	assert.Len(t, resp.Events, 1, "past events on the day are included")
	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, 24*time.Hour, to.Sub(from))

	for _, bad := range []string{"", "09-03-2025", "2025-13-01", "tomorrow"} {
		_, err := svc.EventsOnDay(context.Background(), bad)
		assert.ErrorIs(t, err, apperrors.ErrInvalidDate, bad)
	}
}

func TestGetByLinkKey(t *testing.T) {
	e := event(1, "Xavier", "Mumbai", 1, nil)
	store := &fakeEventStore{GetByLinkKeyFunc: func(ctx context.Context, key uuid.UUID) (*models.Event, error) {
		if key == e.LinkKey {
			return e, nil
		}
		return nil, apperrors.ErrEventNotFound
	}}
	svc := newTestEventService(store, &fakeUserStore{})

	got, err := svc.GetByLinkKey(context.Background(), e.LinkKey.String())
	require.NoError(t, err)
	assert.Equal(t, e.LinkKey.String(), got.LinkKey)

	_, err = svc.GetByLinkKey(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)

	_, err = svc.GetByLinkKey(context.Background(), "not-a-key")
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
}

func TestCreateEvent(t *testing.T) {
	var stored *models.Event
	store := &fakeEventStore{
		CreateFunc: func(ctx context.Context, e *models.Event) (int64, error) {
			e.ID = 11
			stored = e
			return 11, nil
		},
		GetByIDFunc: func(ctx context.Context, id int64) (*models.Event, error) {
			return stored, nil
		},
		GetEventTypeFunc: func(ctx context.Context, id int64) (*models.EventType, error) {
			if id == 3 {
				return &models.EventType{ID: 3, Name: "Hackathon"}, nil
			}
			return nil, apperrors.ErrEventTypeNotFound
		},
	}
	users := &fakeUserStore{GetProfileFunc: profileWith("St. Xavier's College - Maharashtra")}
	svc := newTestEventService(store, users)
	storage := &fakeStorage{}
	svc.storage = storage

	req := &dto.CreateEventRequest{
		Name:            " Hack Night ",
		EventTypeID:     ptr(int64(3)),
		Location:        "Main Hall",
		DateTime:        "2025-04-01 18:30",
		RegistrationFee: ptr(0.0),
		ShowPhoneNumber: ptr(true),
	}
	resp, err := svc.CreateEvent(context.Background(), 5, req, fileHeader("banner.png", "image/png"))
	require.NoError(t, err)

	assert.Equal(t, int64(11), resp.ID)
	assert.Equal(t, "Hack Night", stored.Name)
	assert.Equal(t, int64(5), stored.OrganizerID)
	assert.NotEqual(t, uuid.Nil, stored.LinkKey)
	assert.Nil(t, stored.RegistrationFee, "a zero fee is stored as free")
	assert.True(t, stored.ShowPhoneNumber)
	require.NotNil(t, stored.State)
	assert.Equal(t, "Maharashtra", *stored.State)
	assert.Equal(t, time.Date(2025, 4, 1, 18, 30, 0, 0, time.UTC), stored.DateTime)
	require.NotNil(t, stored.BannerURL)
	assert.Equal(t, storage.saved[0], *stored.BannerURL)

	_, err = svc.CreateEvent(context.Background(), 5, &dto.CreateEventRequest{Name: "x", Location: "y", DateTime: "soon"}, nil)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, err = svc.CreateEvent(context.Background(), 5, &dto.CreateEventRequest{
		Name: "x", Location: "y", DateTime: "2025-04-01T18:30", EventTypeID: ptr(int64(99)),
	}, nil)
	assert.ErrorIs(t, err, apperrors.ErrEventTypeNotFound)
}

func TestStateFromCollege(t *testing.T) {
	assert.Equal(t, "Karnataka", *stateFromCollege("Christ University - Bangalore - Karnataka"))
	assert.Nil(t, stateFromCollege("Loyola College, Chennai"))
	assert.Nil(t, stateFromCollege("Trailing - "))
}

func TestRegistrationsOrganizerOnly(t *testing.T) {
	store := &fakeEventStore{GetByIDFunc: func(ctx context.Context, id int64) (*models.Event, error) {
		return &models.Event{ID: id, OrganizerID: 5}, nil
	}}
	svc := newTestEventService(store, &fakeUserStore{})
	svc.applicationStore = &fakeApplicationStore{ListByEventFunc: func(ctx context.Context, eventID int64) ([]*models.Application, error) {
		return []*models.Application{{ID: 1, EventID: eventID, Name: "Asha"}}, nil
	}}

	apps, err := svc.Registrations(context.Background(), 5, 2)
	require.NoError(t, err)
	assert.Len(t, apps, 1)

	_, err = svc.Registrations(context.Background(), 6, 2)
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
}
