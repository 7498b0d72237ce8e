package dto

import "github.com/yigit/campusnet/internal/app/models"

// RegisterRequest represents a form-based registration
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=150"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}

// UserResponse is a user with their profile flattened in
type UserResponse struct {
	ID             int64   `json:"id"`
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	CollegeName    *string `json:"collegeName,omitempty"`
	PhoneNumber    *string `json:"phoneNumber,omitempty"`
	ProfileIconURL *string `json:"profileIconUrl,omitempty"`
	SetupComplete  bool    `json:"setupComplete"`
}

// UpdateProfileRequest represents profile update data. Omitted fields are left unchanged.
type UpdateProfileRequest struct {
	Username    *string `json:"username" binding:"omitempty,min=3,max=150"`
	Email       *string `json:"email" binding:"omitempty,email"`
	CollegeName *string `json:"college_name" binding:"omitempty,max=500"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,max=15"`
}

// ProfileSetupRequest completes the mandatory post-registration setup
type ProfileSetupRequest struct {
	CollegeName string  `json:"college_name" binding:"required,max=500"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,max=15"`
}

// NewUserResponse builds a UserResponse; profile may be nil
func NewUserResponse(user *models.User, profile *models.Profile) UserResponse {
	resp := UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
	if profile != nil {
		resp.CollegeName = profile.CollegeName
		resp.PhoneNumber = profile.PhoneNumber
		resp.ProfileIconURL = profile.ProfileIconURL
		resp.SetupComplete = profile.SetupComplete
	}
	return resp
}
