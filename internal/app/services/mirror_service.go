package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/campusnet/internal/app/models"
	"github.com/yigit/campusnet/internal/pkg/apperrors"
	"github.com/yigit/campusnet/internal/pkg/instagram"
	"github.com/yigit/campusnet/internal/pkg/metrics"
)

// DefaultMirrorCaption is the post body used when mirrored media has no caption
const DefaultMirrorCaption = "New post from Instagram."

// InstagramAPI is the part of the Instagram client the mirror needs
type InstagramAPI interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (string, error)
	LongLivedToken(ctx context.Context, shortToken string) (string, error)
	BusinessAccountID(ctx context.Context, token string) (string, error)
	FetchMedia(ctx context.Context, mediaID, token string) (*instagram.Media, error)
}

// StateSigner binds an OAuth round trip to the user who started it
type StateSigner interface {
	GenerateStateToken(userID int64) (string, error)
	ValidateStateToken(state string) (int64, error)
}

var _ InstagramAPI = (*instagram.Client)(nil)

// MirrorConfig identifies the account whose Instagram posts are mirrored
type MirrorConfig struct {
	VerifyToken   string
	AdminUsername string
}

// MirrorResult summarizes one webhook delivery
type MirrorResult struct {
	Created int
	Failed  int
}

// MirrorService links Instagram accounts and mirrors new media into posts
type MirrorService interface {
	ConnectURL(userID int64) (string, error)
	Callback(ctx context.Context, state, code string) (*models.SocialCredential, error)
	VerifySubscription(mode, token string) bool
	HandleWebhook(ctx context.Context, body []byte) (*MirrorResult, error)
}

type mirrorServiceImpl struct {
	api         InstagramAPI
	signer      StateSigner
	credentials CredentialStore
	posts       PostService
	cfg         MirrorConfig
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewMirrorService creates a new MirrorService
func NewMirrorService(
	api InstagramAPI,
	signer StateSigner,
	credentials CredentialStore,
	posts PostService,
	cfg MirrorConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) MirrorService {
	return &mirrorServiceImpl{
		api:         api,
		signer:      signer,
		credentials: credentials,
		posts:       posts,
		cfg:         cfg,
		metrics:     m,
		logger:      logger,
	}
}

// ConnectURL is where the user is sent to grant access
func (s *mirrorServiceImpl) ConnectURL(userID int64) (string, error) {
	state, err := s.signer.GenerateStateToken(userID)
	if err != nil {
		return "", err
	}
	return s.api.AuthCodeURL(state), nil
}

// Callback completes the OAuth flow and stores the long-lived token for the user who started it
func (s *mirrorServiceImpl) Callback(ctx context.Context, state, code string) (*models.SocialCredential, error) {
	userID, err := s.signer.ValidateStateToken(state)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(code) == "" {
		return nil, apperrors.NewBadRequestError("missing authorization code")
	}

	s.logger.Debug().Int64("userID", userID).Msg("Completing Instagram link")

	short, err := s.api.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	long, err := s.api.LongLivedToken(ctx, short)
	if err != nil {
		return nil, err
	}
	accountID, err := s.api.BusinessAccountID(ctx, long)
	if err != nil {
		return nil, err
	}

	cred := &models.SocialCredential{
		UserID:            userID,
		Provider:          models.CredentialProviderInstagram,
		AccessToken:       long,
		ExternalAccountID: accountID,
	}
	if err := s.credentials.Save(ctx, cred); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", userID).Str("account", accountID).Msg("Instagram account linked")
	return cred, nil
}

// VerifySubscription answers the webhook subscription handshake
func (s *mirrorServiceImpl) VerifySubscription(mode, token string) bool {
	return mode == "subscribe" && s.cfg.VerifyToken != "" && token == s.cfg.VerifyToken
}

// HandleWebhook mirrors every media change in the payload as a post by the admin account.
// A media item that cannot be fetched is skipped.
func (s *mirrorServiceImpl) HandleWebhook(ctx context.Context, body []byte) (*MirrorResult, error) {
	var payload instagram.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperrors.NewBadRequestError("invalid webhook payload")
	}

	cred, err := s.credentials.GetByUsername(ctx, s.cfg.AdminUsername)
	if err != nil {
		if errors.Is(err, apperrors.ErrCredentialNotFound) {
			s.logger.Warn().Str("admin", s.cfg.AdminUsername).Msg("Webhook received but admin account is not linked")
			return nil, apperrors.NewForbiddenError("admin Instagram account is not linked")
		}
		return nil, err
	}

	result := &MirrorResult{}
	for _, mediaID := range payload.MediaIDs() {
		if err := s.mirror(ctx, cred, mediaID); err != nil {
			result.Failed++
			s.logger.Error().Err(err).Str("mediaID", mediaID).Msg("Failed to mirror media")
			continue
		}
		result.Created++
		s.metrics.PostMirrored()
	}
	return result, nil
}

func (s *mirrorServiceImpl) mirror(ctx context.Context, cred *models.SocialCredential, mediaID string) error {
	media, err := s.api.FetchMedia(ctx, mediaID, cred.AccessToken)
	if err != nil {
		return err
	}

	caption := strings.TrimSpace(media.Caption)
	if caption == "" {
		caption = DefaultMirrorCaption
	}
	post := &models.Post{
		AuthorID: cred.UserID,
		Body:     &caption,
	}
	if media.Permalink != "" {
		link := media.Permalink
		post.SourceLink = &link
	}
	if media.MediaURL != "" {
		fileType := models.MediaImage
		if media.IsVideo() {
			fileType = models.MediaVideo
		}
		post.Media = []*models.MediaFile{{FileURL: media.MediaURL, FileType: fileType}}
	}

	if _, err := s.posts.Publish(ctx, post); err != nil {
		return fmt.Errorf("failed to publish mirrored media %s: %w", mediaID, err)
	}
	return nil
}
