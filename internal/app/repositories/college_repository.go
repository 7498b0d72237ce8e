package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/campusnet/internal/app/models"
	"github.com/yigit/campusnet/internal/pkg/apperrors"
)

// CollegeRepository handles the colleges reference table
type CollegeRepository struct {
	db *pgxpool.Pool
}

// NewCollegeRepository creates a new CollegeRepository
func NewCollegeRepository(db *pgxpool.Pool) *CollegeRepository {
	return &CollegeRepository{db: db}
}

// escapeLike escapes LIKE wildcards so user input matches literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func scanColleges(rows pgx.Rows) ([]*models.College, error) {
	defer rows.Close()

	var colleges []*models.College
	for rows.Next() {
		var c models.College
		if err := rows.Scan(&c.ID, &c.Name, &c.State); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		colleges = append(colleges, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return colleges, nil
}

// GetByName retrieves a college by its exact name
func (r *CollegeRepository) GetByName(ctx context.Context, name string) (*models.College, error) {
	var c models.College
	err := r.db.QueryRow(ctx, `SELECT id, name, state FROM colleges WHERE name = $1`, name).
		Scan(&c.ID, &c.Name, &c.State)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCollegeNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return &c, nil
}

// Exists reports whether a college with this exact name exists
func (r *CollegeRepository) Exists(ctx context.Context, name string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM colleges WHERE name = $1)`, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("error executing query: %w", err)
	}
	return exists, nil
}

func searchCollegesQuery(term string, limit uint64) squirrel.SelectBuilder {
	return squirrel.Select("id", "name", "state").
		From("colleges").
		Where(squirrel.ILike{"name": "%" + escapeLike(term) + "%"}).
		OrderBy("name ASC").
		Limit(limit).
		PlaceholderFormat(squirrel.Dollar)
}

// Search returns colleges whose name contains term, case-insensitively
func (r *CollegeRepository) Search(ctx context.Context, term string, limit int) ([]*models.College, error) {
	sql, args, err := searchCollegesQuery(term, uint64(limit)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return scanColleges(rows)
}

// searchStatesQuery returns distinct trimmed states starting with prefix,
// skipping entries that contain digits or are too short to be a state name
func searchStatesQuery(prefix string, limit uint64) squirrel.SelectBuilder {
	return squirrel.Select("DISTINCT TRIM(state) AS state_name").
		From("colleges").
		Where(squirrel.ILike{"TRIM(state)": escapeLike(prefix) + "%"}).
		Where("TRIM(state) !~ '[0-9]'").
		Where("LENGTH(TRIM(state)) > 3").
		OrderBy("state_name ASC").
		Limit(limit).
		PlaceholderFormat(squirrel.Dollar)
}

// SearchStates autocompletes state names
func (r *CollegeRepository) SearchStates(ctx context.Context, prefix string, limit int) ([]string, error) {
	sql, args, err := searchStatesQuery(prefix, uint64(limit)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	states, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("error scanning row: %w", err)
	}
	return states, nil
}

func randomCollegesQuery(exclude []string, limit uint64) squirrel.SelectBuilder {
	query := squirrel.Select("id", "name", "state").
		From("colleges").
		OrderBy("RANDOM()").
		Limit(limit).
		PlaceholderFormat(squirrel.Dollar)
	if len(exclude) > 0 {
		query = query.Where(squirrel.NotEq{"name": exclude})
	}
	return query
}

// Random picks up to limit colleges, skipping the excluded names
func (r *CollegeRepository) Random(ctx context.Context, exclude []string, limit int) ([]*models.College, error) {
	sql, args, err := randomCollegesQuery(exclude, uint64(limit)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return scanColleges(rows)
}

// EnsureColleges inserts colleges that are not present yet and returns how many were added
func (r *CollegeRepository) EnsureColleges(ctx context.Context, colleges []*models.College) (int64, error) {
	if len(colleges) == 0 {
		return 0, nil
	}

	query := squirrel.Insert("colleges").
		Columns("name", "state").
		Suffix("ON CONFLICT (name) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar)
	for _, c := range colleges {
		query = query.Values(c.Name, c.State)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}
	return tag.RowsAffected(), nil
}
