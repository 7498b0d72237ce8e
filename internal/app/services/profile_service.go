package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/campusnet/internal/app/models/dto"
	"github.com/yigit/campusnet/internal/pkg/apperrors"
	"github.com/yigit/campusnet/internal/pkg/filestorage"
	"github.com/yigit/campusnet/internal/pkg/helpers"
)

const profileIconSubPath = "profile_icons"

// ProfileService manages the user's account fields and college affiliation
type ProfileService interface {
	GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	SetupProfile(ctx context.Context, userID int64, req *dto.ProfileSetupRequest) (*dto.UserResponse, error)
	UpdateProfileIcon(ctx context.Context, userID int64, file *multipart.FileHeader) (*dto.UserResponse, error)
	IsSetupComplete(ctx context.Context, userID int64) (bool, error)
}

type profileServiceImpl struct {
	userStore    UserStore
	collegeStore CollegeStore
	storage      filestorage.FileStorage
	logger       zerolog.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(
	userStore UserStore,
	collegeStore CollegeStore,
	storage filestorage.FileStorage,
	logger zerolog.Logger,
) ProfileService {
	return &profileServiceImpl{
		userStore:    userStore,
		collegeStore: collegeStore,
		storage:      storage,
		logger:       logger,
	}
}

func (s *profileServiceImpl) load(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.userStore.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading profile: %w", err)
	}
	resp := dto.NewUserResponse(user, profile)
	return &resp, nil
}

// GetProfile returns the user with their profile
func (s *profileServiceImpl) GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	return s.load(ctx, userID)
}

// requireCollege resolves a college name to its canonical stored form
func (s *profileServiceImpl) requireCollege(ctx context.Context, name string) (string, error) {
	college, err := s.collegeStore.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return "", err
	}
	return college.Name, nil
}

// UpdateProfile applies the supplied fields. An empty college_name clears the affiliation.
func (s *profileServiceImpl) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	s.logger.Debug().Int64("userID", userID).Msg("Updating profile")

	var email *string
	if req.Email != nil {
		e := normalizeEmail(*req.Email)
		email = &e
	}
	if err := s.userStore.UpdateAccount(ctx, userID, helpers.QueryText(derefString(req.Username)), email); err != nil {
		return nil, err
	}

	if req.CollegeName == nil && req.PhoneNumber == nil {
		return s.load(ctx, userID)
	}

	profile, err := s.userStore.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading profile: %w", err)
	}

	if req.CollegeName != nil {
		if strings.TrimSpace(*req.CollegeName) == "" {
			profile.CollegeName = nil
		} else {
			name, err := s.requireCollege(ctx, *req.CollegeName)
			if err != nil {
				return nil, err
			}
			profile.CollegeName = &name
		}
	}
	if req.PhoneNumber != nil {
		profile.PhoneNumber = helpers.QueryText(*req.PhoneNumber)
	}

	if err := s.userStore.SaveProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("error saving profile: %w", err)
	}
	return s.load(ctx, userID)
}

// SetupProfile sets the affiliation and marks the mandatory setup as done
func (s *profileServiceImpl) SetupProfile(ctx context.Context, userID int64, req *dto.ProfileSetupRequest) (*dto.UserResponse, error) {
	s.logger.Debug().Int64("userID", userID).Str("college", req.CollegeName).Msg("Setting up profile")

	name, err := s.requireCollege(ctx, req.CollegeName)
	if err != nil {
		return nil, err
	}

	profile, err := s.userStore.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading profile: %w", err)
	}
	profile.UserID = userID
	profile.CollegeName = &name
	if req.PhoneNumber != nil {
		profile.PhoneNumber = helpers.QueryText(*req.PhoneNumber)
	}
	profile.SetupComplete = true

	if err := s.userStore.SaveProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("error saving profile: %w", err)
	}

	s.logger.Info().Int64("userID", userID).Str("college", name).Msg("Profile setup complete")
	return s.load(ctx, userID)
}

// UpdateProfileIcon replaces the profile picture, removing the previous file
func (s *profileServiceImpl) UpdateProfileIcon(ctx context.Context, userID int64, file *multipart.FileHeader) (*dto.UserResponse, error) {
	if file == nil {
		return nil, apperrors.NewBadRequestError("profile icon file is required")
	}
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return nil, apperrors.NewBadRequestError("profile icon must be an image")
	}

	profile, err := s.userStore.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading profile: %w", err)
	}

	url, err := s.storage.SaveFileWithPath(file, profileIconSubPath)
	if err != nil {
		return nil, fmt.Errorf("error saving profile icon: %w", err)
	}

	previous := profile.ProfileIconURL
	profile.UserID = userID
	profile.ProfileIconURL = &url
	if err := s.userStore.SaveProfile(ctx, profile); err != nil {
		if delErr := s.storage.DeleteFile(url); delErr != nil {
			s.logger.Error().Err(delErr).Str("url", url).Msg("Failed to clean up profile icon")
		}
		return nil, fmt.Errorf("error saving profile: %w", err)
	}

	if previous != nil {
		if err := s.storage.DeleteFile(*previous); err != nil {
			s.logger.Warn().Err(err).Str("url", *previous).Msg("Failed to delete previous profile icon")
		}
	}
	return s.load(ctx, userID)
}

// IsSetupComplete reports whether the user finished profile setup
func (s *profileServiceImpl) IsSetupComplete(ctx context.Context, userID int64) (bool, error) {
	profile, err := s.userStore.GetProfile(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("error loading profile: %w", err)
	}
	return profile.SetupComplete, nil
}
