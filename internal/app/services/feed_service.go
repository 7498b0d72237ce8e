package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/yigit/campusnet/internal/app/models"
	"github.com/yigit/campusnet/internal/app/models/dto"
	"github.com/yigit/campusnet/internal/pkg/metrics"
)

// DefaultSpilloverLimit bounds the posts shown from outside the followed set
const DefaultSpilloverLimit = 10

// FeedService composes the home feed
type FeedService interface {
	EffectiveFollowedSet(ctx context.Context, userID int64) ([]string, error)
	ComposeFeed(ctx context.Context, userID int64) (*dto.FeedResponse, error)
	CommunityPosts(ctx context.Context, userID int64) ([]dto.PostResponse, error)
}

type feedServiceImpl struct {
	userStore   UserStore
	followStore FollowStore
	postStore   PostStore
	spillover   int
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewFeedService creates a new FeedService. A non-positive spillover falls back to DefaultSpilloverLimit.
func NewFeedService(
	userStore UserStore,
	followStore FollowStore,
	postStore PostStore,
	spillover int,
	m *metrics.Metrics,
	logger zerolog.Logger,
) FeedService {
	if spillover <= 0 {
		spillover = DefaultSpilloverLimit
	}
	return &feedServiceImpl{
		userStore:   userStore,
		followStore: followStore,
		postStore:   postStore,
		spillover:   spillover,
		metrics:     m,
		logger:      logger,
	}
}

// EffectiveFollowedSet is the union of explicit follows and the user's own affiliation, sorted.
// It is computed on every read and never stored.
func (s *feedServiceImpl) EffectiveFollowedSet(ctx context.Context, userID int64) ([]string, error) {
	followed, err := s.followStore.ListCollegeNames(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list follows: %w", err)
	}

	profile, err := s.userStore.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	return effectiveSet(followed, profile.Affiliation()), nil
}

func effectiveSet(followed []string, affiliation string) []string {
	seen := make(map[string]struct{}, len(followed)+1)
	set := make([]string, 0, len(followed)+1)
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		set = append(set, name)
	}

	for _, name := range followed {
		add(name)
	}
	add(affiliation)

	sort.Strings(set)
	return set
}

// mergePosts unions both sets, drops duplicate ids and orders newest first with ties by id
func mergePosts(a, b []*models.Post) []*models.Post {
	seen := make(map[int64]struct{}, len(a)+len(b))
	merged := make([]*models.Post, 0, len(a)+len(b))
	for _, set := range [][]*models.Post{a, b} {
		for _, p := range set {
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			merged = append(merged, p)
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		if !merged[i].CreatedAt.Equal(merged[j].CreatedAt) {
			return merged[i].CreatedAt.After(merged[j].CreatedAt)
		}
		return merged[i].ID < merged[j].ID
	})
	return merged
}

// ComposeFeed returns posts from the effective followed set plus the newest spillover posts from everyone else
func (s *feedServiceImpl) ComposeFeed(ctx context.Context, userID int64) (*dto.FeedResponse, error) {
	s.logger.Debug().Int64("userID", userID).Msg("Composing feed")

	following, err := s.EffectiveFollowedSet(ctx, userID)
	if err != nil {
		return nil, err
	}

	followedPosts, err := s.postStore.ListByAffiliations(ctx, following)
	if err != nil {
		s.logger.Error().Err(err).Int64("userID", userID).Msg("Failed to load followed posts")
		return nil, fmt.Errorf("failed to load followed posts: %w", err)
	}

	spillover, err := s.postStore.ListOutsideAffiliations(ctx, following, s.spillover)
	if err != nil {
		s.logger.Error().Err(err).Int64("userID", userID).Msg("Failed to load spillover posts")
		return nil, fmt.Errorf("failed to load spillover posts: %w", err)
	}

	posts := mergePosts(followedPosts, spillover)
	s.metrics.FeedComposed(len(posts))

	s.logger.Debug().
		Int64("userID", userID).
		Int("followed", len(followedPosts)).
		Int("spillover", len(spillover)).
		Msg("Feed composed")

	return &dto.FeedResponse{
		Following: following,
		Posts:     dto.NewPostListResponse(posts),
	}, nil
}

// CommunityPosts returns posts from the user's own college. No affiliation means no posts.
func (s *feedServiceImpl) CommunityPosts(ctx context.Context, userID int64) ([]dto.PostResponse, error) {
	profile, err := s.userStore.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	college := profile.Affiliation()
	if college == "" {
		s.logger.Debug().Int64("userID", userID).Msg("No affiliation, community is empty")
		return []dto.PostResponse{}, nil
	}

	posts, err := s.postStore.ListByAffiliations(ctx, []string{college})
	if err != nil {
		return nil, fmt.Errorf("failed to load community posts: %w", err)
	}
	return dto.NewPostListResponse(posts), nil
}
