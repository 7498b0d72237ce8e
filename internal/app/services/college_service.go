package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/campusnet/internal/app/models/dto"
)

const (
	autocompleteLimit = 10
	minStateQuery     = 1
)

// DefaultSuggestedColleges is how many random colleges are suggested
const DefaultSuggestedColleges = 3

// CollegeService serves college lookups and per-college pages
type CollegeService interface {
	Autocomplete(ctx context.Context, term string) ([]dto.CollegeResponse, error)
	States(ctx context.Context, prefix string) ([]string, error)
	Suggested(ctx context.Context, userID int64) ([]dto.CollegeResponse, error)
	CollegePosts(ctx context.Context, userID int64, name string) (*dto.CollegePostsResponse, error)
}

type collegeServiceImpl struct {
	collegeStore CollegeStore
	followStore  FollowStore
	postStore    PostStore
	feed         FeedService
	suggested    int
	logger       zerolog.Logger
}

// NewCollegeService creates a new CollegeService
func NewCollegeService(
	collegeStore CollegeStore,
	followStore FollowStore,
	postStore PostStore,
	feed FeedService,
	suggested int,
	logger zerolog.Logger,
) CollegeService {
	if suggested <= 0 {
		suggested = DefaultSuggestedColleges
	}
	return &collegeServiceImpl{
		collegeStore: collegeStore,
		followStore:  followStore,
		postStore:    postStore,
		feed:         feed,
		suggested:    suggested,
		logger:       logger,
	}
}

// Autocomplete matches college names by substring
func (s *collegeServiceImpl) Autocomplete(ctx context.Context, term string) ([]dto.CollegeResponse, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []dto.CollegeResponse{}, nil
	}

	colleges, err := s.collegeStore.Search(ctx, term, autocompleteLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search colleges: %w", err)
	}
	return dto.NewCollegeListResponse(colleges), nil
}

// States autocompletes state names by prefix
func (s *collegeServiceImpl) States(ctx context.Context, prefix string) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if len(prefix) < minStateQuery {
		return []string{}, nil
	}

	states, err := s.collegeStore.SearchStates(ctx, prefix, autocompleteLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search states: %w", err)
	}
	if states == nil {
		states = []string{}
	}
	return states, nil
}

// Suggested returns random colleges outside the user's effective followed set
func (s *collegeServiceImpl) Suggested(ctx context.Context, userID int64) ([]dto.CollegeResponse, error) {
	exclude, err := s.feed.EffectiveFollowedSet(ctx, userID)
	if err != nil {
		return nil, err
	}

	colleges, err := s.collegeStore.Random(ctx, exclude, s.suggested)
	if err != nil {
		return nil, fmt.Errorf("failed to pick colleges: %w", err)
	}
	return dto.NewCollegeListResponse(colleges), nil
}

// communityHeading strips a trailing location suffix from a college name for display
func communityHeading(name string) string {
	clean := strings.TrimSpace(name)
	for _, sep := range []string{" - ", ", ", " -"} {
		if idx := strings.Index(clean, sep); idx >= 0 {
			clean = strings.TrimSpace(clean[:idx])
			break
		}
	}
	return clean + " - Community"
}

// CollegePosts returns one college's page
func (s *collegeServiceImpl) CollegePosts(ctx context.Context, userID int64, name string) (*dto.CollegePostsResponse, error) {
	s.logger.Debug().Int64("userID", userID).Str("college", name).Msg("Getting college posts")

	college, err := s.collegeStore.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}

	posts, err := s.postStore.ListByAffiliations(ctx, []string{college.Name})
	if err != nil {
		return nil, fmt.Errorf("failed to load college posts: %w", err)
	}

	following, err := s.followStore.IsFollowing(ctx, userID, college.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check follow: %w", err)
	}

	return &dto.CollegePostsResponse{
		College:   college.Name,
		Heading:   communityHeading(college.Name),
		Following: following,
		Posts:     dto.NewPostListResponse(posts),
	}, nil
}
