package models

import "time"

// College is reference data keyed by its unique name
type College struct {
	ID    int64   `json:"id" db:"id"`
	Name  string  `json:"name" db:"name"`
	State *string `json:"state,omitempty" db:"state"`
}

// Follow is an explicit subscription of a user to a college
type Follow struct {
	ID          int64     `json:"id" db:"id"`
	FollowerID  int64     `json:"followerId" db:"follower_id"`
	CollegeName string    `json:"collegeName" db:"college_name"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
