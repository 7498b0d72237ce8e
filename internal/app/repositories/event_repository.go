package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/campusnet/internal/app/models"
	"github.com/yigit/campusnet/internal/pkg/apperrors"
)

// EventQuery is a filter request resolved against the requester
type EventQuery struct {
	Filter           models.EventFilter
	RequesterID      int64
	RequesterCollege string    // "" when the requester has no affiliation
	From             time.Time // lower bound on date_time, inclusive
}

// EventRepository handles events and the event type catalogue
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

// eventSelect joins each event with its type name and organizer contact/affiliation
func eventSelect() squirrel.SelectBuilder {
	return squirrel.Select(
		"e.id", "e.name", "e.event_type_id", "e.banner_url", "e.description", "e.location", "e.state",
		"e.date_time", "e.registration_fee", "e.organizer_id", "e.link_key", "e.phone_number",
		"e.show_phone_number", "e.created_at",
		"et.name", "u.email", "op.college_name",
	).
		From("events e").
		LeftJoin("event_types et ON et.id = e.event_type_id").
		Join("users u ON u.id = e.organizer_id").
		LeftJoin("user_profiles op ON op.user_id = e.organizer_id").
		PlaceholderFormat(squirrel.Dollar)
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	err := row.Scan(
		&e.ID, &e.Name, &e.EventTypeID, &e.BannerURL, &e.Description, &e.Location, &e.State,
		&e.DateTime, &e.RegistrationFee, &e.OrganizerID, &e.LinkKey, &e.PhoneNumber,
		&e.ShowPhoneNumber, &e.CreatedAt,
		&e.TypeName, &e.OrganizerEmail, &e.OrganizerCollege,
	)
	if err != nil {
		return nil, err
	}
	e.DateTime = e.DateTime.UTC()
	return &e, nil
}

func (r *EventRepository) queryEvents(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Event, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return events, nil
}

func (r *EventRepository) queryEvent(ctx context.Context, query squirrel.SelectBuilder) (*models.Event, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	e, err := scanEvent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return e, nil
}

// filterEventsQuery composes every supplied criterion with AND over upcoming events
func filterEventsQuery(q EventQuery) squirrel.SelectBuilder {
	f := q.Filter
	query := eventSelect().Where(squirrel.GtOrEq{"e.date_time": q.From.UTC()})

	if f.EventTypeID != nil {
		query = query.Where(squirrel.Eq{"e.event_type_id": *f.EventTypeID})
	}

	switch f.Fee {
	case models.FeeFree:
		query = query.Where(squirrel.Eq{"e.registration_fee": nil})
	case models.FeePaid:
		query = query.Where(squirrel.NotEq{"e.registration_fee": nil})
	}

	if f.MyCollegeOnly {
		if q.RequesterCollege == "" {
			query = query.Where("FALSE")
		} else {
			query = query.Where(squirrel.Eq{"op.college_name": q.RequesterCollege})
		}
	}

	if f.AppliedOnly {
		query = query.Where("EXISTS (SELECT 1 FROM event_applications ea WHERE ea.event_id = e.id AND ea.user_id = ?)", q.RequesterID)
	}

	if f.College != nil {
		query = query.Where(squirrel.ILike{"op.college_name": "%" + escapeLike(*f.College) + "%"})
	}

	if f.State != nil {
		query = query.Where(squirrel.ILike{"e.location": "%" + escapeLike(*f.State) + "%"})
	}

	return query.OrderBy("e.date_time ASC", "e.id ASC")
}

// Filter returns upcoming events matching the query, soonest first
func (r *EventRepository) Filter(ctx context.Context, q EventQuery) ([]*models.Event, error) {
	return r.queryEvents(ctx, filterEventsQuery(q))
}

func eventsBetweenQuery(from, to time.Time) squirrel.SelectBuilder {
	return eventSelect().
		Where(squirrel.GtOrEq{"e.date_time": from.UTC()}).
		Where(squirrel.Lt{"e.date_time": to.UTC()}).
		OrderBy("e.date_time ASC", "e.id ASC")
}

// ListBetween returns events in [from, to), soonest first
func (r *EventRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*models.Event, error) {
	return r.queryEvents(ctx, eventsBetweenQuery(from, to))
}

// GetByLinkKey retrieves the event behind a shareable link
func (r *EventRepository) GetByLinkKey(ctx context.Context, key uuid.UUID) (*models.Event, error) {
	return r.queryEvent(ctx, eventSelect().Where(squirrel.Eq{"e.link_key": key}))
}

// GetByID retrieves an event by ID
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	return r.queryEvent(ctx, eventSelect().Where(squirrel.Eq{"e.id": id}))
}

// ListByOrganizer returns a user's events, latest first
func (r *EventRepository) ListByOrganizer(ctx context.Context, organizerID int64) ([]*models.Event, error) {
	return r.queryEvents(ctx, eventSelect().
		Where(squirrel.Eq{"e.organizer_id": organizerID}).
		OrderBy("e.date_time DESC", "e.id DESC"))
}

// Create inserts an event and fills its ID and created_at
func (r *EventRepository) Create(ctx context.Context, e *models.Event) (int64, error) {
	query := squirrel.Insert("events").
		Columns("name", "event_type_id", "banner_url", "description", "location", "state", "date_time",
			"registration_fee", "organizer_id", "link_key", "phone_number", "show_phone_number").
		Values(e.Name, e.EventTypeID, e.BannerURL, e.Description, e.Location, e.State, e.DateTime.UTC(),
			e.RegistrationFee, e.OrganizerID, e.LinkKey, e.PhoneNumber, e.ShowPhoneNumber).
		Suffix("RETURNING id, created_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&e.ID, &e.CreatedAt); err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}
	return e.ID, nil
}

// GetEventType retrieves one event type
func (r *EventRepository) GetEventType(ctx context.Context, id int64) (*models.EventType, error) {
	var t models.EventType
	err := r.db.QueryRow(ctx, `SELECT id, category_id, name FROM event_types WHERE id = $1`, id).
		Scan(&t.ID, &t.CategoryID, &t.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventTypeNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return &t, nil
}

// ListCategories returns all categories with their types, both ordered by name
func (r *EventRepository) ListCategories(ctx context.Context) ([]*models.EventCategory, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.name, t.id, t.name
		FROM event_categories c
		LEFT JOIN event_types t ON t.category_id = c.id
		ORDER BY c.name, t.name`)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var categories []*models.EventCategory
	var current *models.EventCategory
	for rows.Next() {
		var (
			catID    int64
			catName  string
			typeID   *int64
			typeName *string
		)
		if err := rows.Scan(&catID, &catName, &typeID, &typeName); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		if current == nil || current.ID != catID {
			current = &models.EventCategory{ID: catID, Name: catName}
			categories = append(categories, current)
		}
		if typeID != nil && typeName != nil {
			current.Types = append(current.Types, &models.EventType{ID: *typeID, CategoryID: catID, Name: *typeName})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return categories, nil
}

// EnsureCategory returns the id of the named category, creating it when absent
func (r *EventRepository) EnsureCategory(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO event_categories (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}
	return id, nil
}

// EnsureEventType returns the id of the named type in a category, creating it when absent
func (r *EventRepository) EnsureEventType(ctx context.Context, categoryID int64, name string) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO event_types (category_id, name) VALUES ($1, $2)
		ON CONFLICT (category_id, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`, categoryID, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}
	return id, nil
}
