package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/campusnet/internal/app/models"
	"github.com/yigit/campusnet/internal/db"
)

// PostRepository handles posts and their media
type PostRepository struct {
	db *pgxpool.Pool
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *pgxpool.Pool) *PostRepository {
	return &PostRepository{db: db}
}

// postSelect joins each post with its author and the author's affiliation
func postSelect() squirrel.SelectBuilder {
	return squirrel.Select(
		"p.id", "p.author_id", "p.body", "p.source_link", "p.created_at",
		"u.username", "up.college_name",
	).
		From("posts p").
		Join("users u ON u.id = p.author_id").
		LeftJoin("user_profiles up ON up.user_id = p.author_id").
		PlaceholderFormat(squirrel.Dollar)
}

// postsByAffiliationsQuery selects every post whose author belongs to one of colleges
func postsByAffiliationsQuery(colleges []string) squirrel.SelectBuilder {
	return postSelect().
		Where(squirrel.Eq{"up.college_name": colleges}).
		OrderBy("p.created_at DESC", "p.id ASC")
}

// postsOutsideAffiliationsQuery selects the newest posts whose author is outside colleges.
// Authors without an affiliation are always outside.
func postsOutsideAffiliationsQuery(colleges []string, limit uint64) squirrel.SelectBuilder {
	query := postSelect()
	if len(colleges) > 0 {
		query = query.Where(squirrel.Or{
			squirrel.Eq{"up.college_name": nil},
			squirrel.NotEq{"up.college_name": colleges},
		})
	}
	return query.
		OrderBy("p.created_at DESC", "p.id ASC").
		Limit(limit)
}

func (r *PostRepository) queryPosts(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Post, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Body, &p.SourceLink, &p.CreatedAt, &p.AuthorUsername, &p.AuthorCollege); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		posts = append(posts, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	if err := r.attachMedia(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ListByAffiliations returns all posts by authors affiliated with any of colleges
func (r *PostRepository) ListByAffiliations(ctx context.Context, colleges []string) ([]*models.Post, error) {
	if len(colleges) == 0 {
		return nil, nil
	}
	return r.queryPosts(ctx, postsByAffiliationsQuery(colleges))
}

// ListOutsideAffiliations returns the newest limit posts by authors not affiliated with any of colleges
func (r *PostRepository) ListOutsideAffiliations(ctx context.Context, colleges []string, limit int) ([]*models.Post, error) {
	if limit <= 0 {
		return nil, nil
	}
	return r.queryPosts(ctx, postsOutsideAffiliationsQuery(colleges, uint64(limit)))
}

func mediaByPostsQuery(postIDs []int64) squirrel.SelectBuilder {
	return squirrel.Select("id", "post_id", "file_url", "file_type").
		From("media_files").
		Where(squirrel.Eq{"post_id": postIDs}).
		OrderBy("id ASC").
		PlaceholderFormat(squirrel.Dollar)
}

// attachMedia loads media for all posts with one query
func (r *PostRepository) attachMedia(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	byID := make(map[int64]*models.Post, len(posts))
	ids := make([]int64, 0, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	sql, args, err := mediaByPostsQuery(ids).ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.MediaFile
		if err := rows.Scan(&m.ID, &m.PostID, &m.FileURL, &m.FileType); err != nil {
			return fmt.Errorf("error scanning row: %w", err)
		}
		if p, ok := byID[m.PostID]; ok {
			p.Media = append(p.Media, &m)
		}
	}
	return rows.Err()
}

// Create inserts a post with its media in one transaction
func (r *PostRepository) Create(ctx context.Context, post *models.Post) (int64, error) {
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO posts (author_id, body, source_link)
			VALUES ($1, $2, $3)
			RETURNING id, created_at`,
			post.AuthorID, post.Body, post.SourceLink).Scan(&post.ID, &post.CreatedAt)
		if err != nil {
			return fmt.Errorf("error creating post: %w", err)
		}

		if len(post.Media) == 0 {
			return nil
		}

		query := squirrel.Insert("media_files").
			Columns("post_id", "file_url", "file_type").
			Suffix("RETURNING id").
			PlaceholderFormat(squirrel.Dollar)
		for _, m := range post.Media {
			m.PostID = post.ID
			query = query.Values(post.ID, m.FileURL, m.FileType)
		}

		sql, args, err := query.ToSql()
		if err != nil {
			return fmt.Errorf("error building SQL: %w", err)
		}

		rows, err := tx.Query(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error creating media: %w", err)
		}
		ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
		if err != nil {
			return fmt.Errorf("error scanning row: %w", err)
		}
		for i, id := range ids {
			if i < len(post.Media) {
				post.Media[i].ID = id
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return post.ID, nil
}
