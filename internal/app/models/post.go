package models

import "time"

// Post is a user-authored update with optional media
type Post struct {
	ID         int64     `json:"id" db:"id"`
	AuthorID   int64     `json:"authorId" db:"author_id"`
	Body       *string   `json:"body,omitempty" db:"body"`
	SourceLink *string   `json:"sourceLink,omitempty" db:"source_link"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`

	// Joined from users / user_profiles
	AuthorUsername string  `json:"authorUsername"`
	AuthorCollege  *string `json:"authorCollege,omitempty"`

	Media []*MediaFile `json:"media,omitempty"`
}

// MediaFile is an attachment of a post
type MediaFile struct {
	ID       int64     `json:"id" db:"id"`
	PostID   int64     `json:"postId" db:"post_id"`
	FileURL  string    `json:"fileUrl" db:"file_url"`
	FileType MediaType `json:"fileType" db:"file_type"`
}
