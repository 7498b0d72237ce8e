package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/campusnet/internal/app/models"
	"github.com/yigit/campusnet/internal/app/models/dto"
	"github.com/yigit/campusnet/internal/pkg/apperrors"
	"github.com/yigit/campusnet/internal/pkg/filestorage"
	"github.com/yigit/campusnet/internal/pkg/helpers"
)

const (
	postMediaSubPath = "post_media"
	maxPostMedia     = 10
)

// PostService publishes posts
type PostService interface {
	CreatePost(ctx context.Context, userID int64, body string, files []*multipart.FileHeader) (*dto.PostResponse, error)
	// Publish stores an already assembled post, e.g. one mirrored from a linked account
	Publish(ctx context.Context, post *models.Post) (*dto.PostResponse, error)
}

type postServiceImpl struct {
	postStore PostStore
	userStore UserStore
	storage   filestorage.FileStorage
	logger    zerolog.Logger
	now       func() time.Time
}

// NewPostService creates a new PostService
func NewPostService(postStore PostStore, userStore UserStore, storage filestorage.FileStorage, logger zerolog.Logger) PostService {
	return &postServiceImpl{
		postStore: postStore,
		userStore: userStore,
		storage:   storage,
		logger:    logger,
		now:       time.Now,
	}
}

// CreatePost saves uploaded media and stores the post. A post needs a body or at least one file.
func (s *postServiceImpl) CreatePost(ctx context.Context, userID int64, body string, files []*multipart.FileHeader) (*dto.PostResponse, error) {
	s.logger.Debug().Int64("userID", userID).Int("files", len(files)).Msg("Creating post")

	text := helpers.QueryText(body)
	if text == nil && len(files) == 0 {
		return nil, apperrors.NewBadRequestError("post needs a body or at least one media file")
	}
	if len(files) > maxPostMedia {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("at most %d media files per post", maxPostMedia))
	}

	post := &models.Post{AuthorID: userID, Body: text}
	for _, fh := range files {
		url, err := s.storage.SaveFileWithPath(fh, postMediaSubPath)
		if err != nil {
			s.cleanup(post.Media)
			return nil, fmt.Errorf("failed to save media: %w", err)
		}
		post.Media = append(post.Media, &models.MediaFile{
			FileURL:  url,
			FileType: models.MediaTypeFromContentType(fh.Header.Get("Content-Type")),
		})
	}

	resp, err := s.Publish(ctx, post)
	if err != nil {
		s.cleanup(post.Media)
		return nil, err
	}
	return resp, nil
}

func (s *postServiceImpl) cleanup(media []*models.MediaFile) {
	for _, m := range media {
		if err := s.storage.DeleteFile(m.FileURL); err != nil {
			s.logger.Error().Err(err).Str("url", m.FileURL).Msg("Failed to clean up media")
		}
	}
}

// Publish stores the post and returns it as it will appear in feeds
func (s *postServiceImpl) Publish(ctx context.Context, post *models.Post) (*dto.PostResponse, error) {
	author, err := s.userStore.GetByID(ctx, post.AuthorID)
	if err != nil {
		return nil, err
	}
	profile, err := s.userStore.GetProfile(ctx, post.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	if _, err := s.postStore.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = s.now().UTC()
	}

	post.AuthorUsername = author.Username
	if college := profile.Affiliation(); college != "" {
		post.AuthorCollege = &college
	}

	s.logger.Info().Int64("postID", post.ID).Int64("userID", post.AuthorID).Msg("Post created")
	resp := dto.NewPostResponse(post)
	return &resp, nil
}
