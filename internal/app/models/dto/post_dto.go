package dto

import (
	"time"

	"github.com/yigit/campusnet/internal/app/models"
)

// AuthorData is the author block embedded in a post
type AuthorData struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	College  *string `json:"college,omitempty"`
}

// MediaResponse is one post attachment
type MediaResponse struct {
	URL  string           `json:"url"`
	Type models.MediaType `json:"type" example:"image"`
}

// PostResponse represents a post in feeds and college pages
type PostResponse struct {
	ID         int64           `json:"id"`
	Body       *string         `json:"body,omitempty"`
	SourceLink *string         `json:"sourceLink,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	Author     AuthorData      `json:"author"`
	Media      []MediaResponse `json:"media"`
}

// FeedResponse is the composed home feed
type FeedResponse struct {
	Following []string       `json:"following"` // effective followed set
	Posts     []PostResponse `json:"posts"`
}

// NewPostResponse converts a post model
func NewPostResponse(p *models.Post) PostResponse {
	resp := PostResponse{
		ID:         p.ID,
		Body:       p.Body,
		SourceLink: p.SourceLink,
		CreatedAt:  p.CreatedAt,
		Author: AuthorData{
			ID:       p.AuthorID,
			Username: p.AuthorUsername,
			College:  p.AuthorCollege,
		},
		Media: make([]MediaResponse, 0, len(p.Media)),
	}
	for _, m := range p.Media {
		resp.Media = append(resp.Media, MediaResponse{URL: m.FileURL, Type: m.FileType})
	}
	return resp
}

// NewPostListResponse converts posts preserving order, never returning nil
func NewPostListResponse(posts []*models.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, NewPostResponse(p))
	}
	return out
}
