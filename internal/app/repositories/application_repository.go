package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/campusnet/internal/app/models"
	"github.com/yigit/campusnet/internal/pkg/apperrors"
	"github.com/yigit/campusnet/internal/pkg/dberrors"
)

// ApplicationRepository handles event applications
type ApplicationRepository struct {
	db *pgxpool.Pool
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(db *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create inserts an application. A second application by the same user yields apperrors.ErrAlreadyApplied.
func (r *ApplicationRepository) Create(ctx context.Context, a *models.Application) (int64, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO event_applications (user_id, event_id, name, college_name, whatsapp_number, email)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, applied_at`,
		a.UserID, a.EventID, a.Name, a.CollegeName, a.WhatsappNumber, a.Email).Scan(&a.ID, &a.AppliedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ApplicationsUserEventKey) {
			return 0, apperrors.ErrAlreadyApplied
		}
		return 0, fmt.Errorf("error executing query: %w", err)
	}
	return a.ID, nil
}

// ListByUser returns a user's applications with event name and time, newest first
func (r *ApplicationRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Application, error) {
	rows, err := r.db.Query(ctx, `
		SELECT a.id, a.user_id, a.event_id, a.name, a.college_name, a.whatsapp_number, a.email, a.applied_at,
			e.name, e.date_time, e.location, e.link_key
		FROM event_applications a
		JOIN events e ON e.id = a.event_id
		WHERE a.user_id = $1
		ORDER BY a.applied_at DESC, a.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var apps []*models.Application
	for rows.Next() {
		a := &models.Application{Event: &models.Event{}}
		err := rows.Scan(&a.ID, &a.UserID, &a.EventID, &a.Name, &a.CollegeName, &a.WhatsappNumber, &a.Email, &a.AppliedAt,
			&a.Event.Name, &a.Event.DateTime, &a.Event.Location, &a.Event.LinkKey)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		a.Event.ID = a.EventID
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return apps, nil
}

// ListByEvent returns the registrations of an event ordered by applicant name
func (r *ApplicationRepository) ListByEvent(ctx context.Context, eventID int64) ([]*models.Application, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, event_id, name, college_name, whatsapp_number, email, applied_at
		FROM event_applications
		WHERE event_id = $1
		ORDER BY name ASC, id ASC`, eventID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var apps []*models.Application
	for rows.Next() {
		var a models.Application
		if err := rows.Scan(&a.ID, &a.UserID, &a.EventID, &a.Name, &a.CollegeName, &a.WhatsappNumber, &a.Email, &a.AppliedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		apps = append(apps, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return apps, nil
}
