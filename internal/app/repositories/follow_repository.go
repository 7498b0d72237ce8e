package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/campusnet/internal/pkg/apperrors"
	"github.com/yigit/campusnet/internal/pkg/dberrors"
)

// FollowRepository handles explicit college follows
type FollowRepository struct {
	db *pgxpool.Pool
}

// NewFollowRepository creates a new FollowRepository
func NewFollowRepository(db *pgxpool.Pool) *FollowRepository {
	return &FollowRepository{db: db}
}

// Insert adds a follow row. An existing row yields apperrors.ErrResourceAlreadyExists.
func (r *FollowRepository) Insert(ctx context.Context, followerID int64, collegeName string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO follows (follower_id, college_name) VALUES ($1, $2)`,
		followerID, collegeName)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.FollowsFollowerCollegeKey) {
			return apperrors.ErrResourceAlreadyExists
		}
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

// Delete removes a follow row and reports how many rows went away
func (r *FollowRepository) Delete(ctx context.Context, followerID int64, collegeName string) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND college_name = $2`,
		followerID, collegeName)
	if err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListCollegeNames returns the colleges a user follows explicitly, by name
func (r *FollowRepository) ListCollegeNames(ctx context.Context, followerID int64) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT college_name FROM follows WHERE follower_id = $1 ORDER BY college_name`,
		followerID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("error scanning row: %w", err)
	}
	return names, nil
}

// IsFollowing reports whether a follow row exists
func (r *FollowRepository) IsFollowing(ctx context.Context, followerID int64, collegeName string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND college_name = $2)`,
		followerID, collegeName).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error executing query: %w", err)
	}
	return exists, nil
}
