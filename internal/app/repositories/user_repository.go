package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/campusnet/internal/app/models"
	"github.com/yigit/campusnet/internal/db"
	"github.com/yigit/campusnet/internal/pkg/apperrors"
	"github.com/yigit/campusnet/internal/pkg/dberrors"
)

// UserRepository handles users and their profile rows
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// mapUserWriteError converts unique violations on users into domain errors
func mapUserWriteError(err error) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, dberrors.UsersEmailKey):
		return apperrors.ErrEmailAlreadyExists
	case dberrors.IsDuplicateConstraintError(err, dberrors.UsersUsernameKey):
		return apperrors.ErrUsernameAlreadyExists
	default:
		return fmt.Errorf("error executing query: %w", err)
	}
}

// CreateWithProfile inserts the user and an empty profile in one transaction
func (r *UserRepository) CreateWithProfile(ctx context.Context, user *models.User) (int64, error) {
	var id int64
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO users (username, email, password, is_active)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at, updated_at`,
			user.Username, user.Email, user.Password, user.IsActive).Scan(&id, &user.CreatedAt, &user.UpdatedAt)
		if err != nil {
			return mapUserWriteError(err)
		}

		if _, err := tx.Exec(ctx, `INSERT INTO user_profiles (user_id) VALUES ($1)`, id); err != nil {
			return fmt.Errorf("error creating profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	user.ID = id
	return id, nil
}

func (r *UserRepository) getOne(ctx context.Context, column string, value interface{}) (*models.User, error) {
	query := squirrel.Select("id", "username", "email", "password", "is_active", "created_at", "updated_at").
		From("users").
		Where(squirrel.Eq{column: value}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	user := &models.User{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&user.ID, &user.Username, &user.Email, &user.Password, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, "id", id)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "email", email)
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, "username", username)
}

// updateUserQuery builds the partial update; nil fields are left unchanged
func updateUserQuery(userID int64, username, email *string, now time.Time) (squirrel.UpdateBuilder, bool) {
	query := squirrel.Update("users").
		Where(squirrel.Eq{"id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	changed := false
	if username != nil {
		query = query.Set("username", *username)
		changed = true
	}
	if email != nil {
		query = query.Set("email", *email)
		changed = true
	}
	return query.Set("updated_at", now), changed
}

// UpdateAccount changes username and/or email
func (r *UserRepository) UpdateAccount(ctx context.Context, userID int64, username, email *string) error {
	query, changed := updateUserQuery(userID, username, email, time.Now().UTC())
	if !changed {
		return nil
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return mapUserWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// GetProfile returns the user's profile. A missing row yields an empty profile.
func (r *UserRepository) GetProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	profile := &models.Profile{UserID: userID}
	err := r.db.QueryRow(ctx, `
		SELECT college_name, phone_number, profile_icon_url, setup_complete
		FROM user_profiles
		WHERE user_id = $1`,
		userID).Scan(&profile.CollegeName, &profile.PhoneNumber, &profile.ProfileIconURL, &profile.SetupComplete)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return profile, nil
}

// saveProfileQuery upserts every profile column
func saveProfileQuery(p *models.Profile) squirrel.InsertBuilder {
	return squirrel.Insert("user_profiles").
		Columns("user_id", "college_name", "phone_number", "profile_icon_url", "setup_complete").
		Values(p.UserID, p.CollegeName, p.PhoneNumber, p.ProfileIconURL, p.SetupComplete).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			college_name = EXCLUDED.college_name,
			phone_number = EXCLUDED.phone_number,
			profile_icon_url = EXCLUDED.profile_icon_url,
			setup_complete = EXCLUDED.setup_complete`).
		PlaceholderFormat(squirrel.Dollar)
}

// SaveProfile creates or replaces the profile row
func (r *UserRepository) SaveProfile(ctx context.Context, profile *models.Profile) error {
	sql, args, err := saveProfileQuery(profile).ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}
