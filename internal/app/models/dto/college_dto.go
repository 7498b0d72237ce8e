package dto

import "github.com/yigit/campusnet/internal/app/models"

// CollegeResponse represents a college
type CollegeResponse struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	State *string `json:"state,omitempty"`
}

// FollowRequest toggles a follow. Action is "follow" or "unfollow".
type FollowRequest struct {
	CollegeName string `json:"college_name" binding:"required"`
	Action      string `json:"action" binding:"required"`
}

// FollowResponse reports the resulting follow state
type FollowResponse struct {
	CollegeName string              `json:"collegeName"`
	Status      models.FollowStatus `json:"status" example:"followed"`
}

// FollowingResponse lists explicitly followed colleges
type FollowingResponse struct {
	Colleges []string `json:"colleges"`
}

// CollegePostsResponse is a single college's page
type CollegePostsResponse struct {
	College   string         `json:"college"`
	Heading   string         `json:"heading"`
	Following bool           `json:"following"`
	Posts     []PostResponse `json:"posts"`
}

// NewCollegeResponse converts a college model
func NewCollegeResponse(c *models.College) CollegeResponse {
	return CollegeResponse{ID: c.ID, Name: c.Name, State: c.State}
}

// NewCollegeListResponse converts a slice of colleges, never returning nil
func NewCollegeListResponse(colleges []*models.College) []CollegeResponse {
	out := make([]CollegeResponse, 0, len(colleges))
	for _, c := range colleges {
		out = append(out, NewCollegeResponse(c))
	}
	return out
}
