package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/campusnet/internal/app/models"
	"github.com/yigit/campusnet/internal/app/models/dto"
	"github.com/yigit/campusnet/internal/pkg/apperrors"
	"github.com/yigit/campusnet/internal/pkg/metrics"
)

// FollowService toggles and lists explicit college follows
type FollowService interface {
	ToggleFollow(ctx context.Context, userID int64, req *dto.FollowRequest) (*dto.FollowResponse, error)
	Following(ctx context.Context, userID int64) (*dto.FollowingResponse, error)
}

type followServiceImpl struct {
	followStore  FollowStore
	collegeStore CollegeStore
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

// NewFollowService creates a new FollowService
func NewFollowService(followStore FollowStore, collegeStore CollegeStore, m *metrics.Metrics, logger zerolog.Logger) FollowService {
	return &followServiceImpl{
		followStore:  followStore,
		collegeStore: collegeStore,
		metrics:      m,
		logger:       logger,
	}
}

// ToggleFollow applies a follow or unfollow. Both directions are idempotent:
// a duplicate follow reports "followed" and unfollowing a missing row reports "unfollowed".
func (s *followServiceImpl) ToggleFollow(ctx context.Context, userID int64, req *dto.FollowRequest) (*dto.FollowResponse, error) {
	action := models.FollowAction(req.Action)
	college := strings.TrimSpace(req.CollegeName)

	s.logger.Debug().
		Int64("userID", userID).
		Str("college", college).
		Str("action", string(action)).
		Msg("Toggling follow")

	if action != models.ActionFollow && action != models.ActionUnfollow {
		return nil, apperrors.ErrInvalidFollowAction
	}

	exists, err := s.collegeStore.Exists(ctx, college)
	if err != nil {
		return nil, fmt.Errorf("failed to look up college: %w", err)
	}
	if !exists {
		return nil, apperrors.ErrCollegeNotFound
	}

	resp := &dto.FollowResponse{CollegeName: college}

	switch action {
	case models.ActionFollow:
		err := s.followStore.Insert(ctx, userID, college)
		if err != nil && !errors.Is(err, apperrors.ErrResourceAlreadyExists) {
			return nil, fmt.Errorf("failed to follow college: %w", err)
		}
		if err != nil {
			s.logger.Warn().Int64("userID", userID).Str("college", college).Msg("Already following")
		}
		resp.Status = models.StatusFollowed

	case models.ActionUnfollow:
		removed, err := s.followStore.Delete(ctx, userID, college)
		if err != nil {
			return nil, fmt.Errorf("failed to unfollow college: %w", err)
		}
		if removed == 0 {
			s.logger.Debug().Int64("userID", userID).Str("college", college).Msg("Was not following")
		}
		resp.Status = models.StatusUnfollowed
	}

	s.metrics.FollowToggled(string(resp.Status))
	return resp, nil
}

// Following lists the colleges a user follows explicitly
func (s *followServiceImpl) Following(ctx context.Context, userID int64) (*dto.FollowingResponse, error) {
	names, err := s.followStore.ListCollegeNames(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list follows: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return &dto.FollowingResponse{Colleges: names}, nil
}
