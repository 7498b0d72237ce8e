package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Constraint names declared in migrations/001_init.sql.
const (
	FollowsFollowerCollegeKey    = "follows_follower_college_key"
	ApplicationsUserEventKey     = "event_applications_user_event_key"
	UsersEmailKey                = "users_email_key"
	UsersUsernameKey             = "users_username_key"
	SocialCredentialsExternalKey = "social_credentials_external_account_id_key"
)

const uniqueViolation = "23505"

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == constraintName
}
