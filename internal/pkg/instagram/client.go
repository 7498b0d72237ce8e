package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yigit/campusnet/internal/pkg/apperrors"
	"golang.org/x/oauth2"
)

const (
	defaultAuthURL  = "https://api.instagram.com/oauth/authorize"
	defaultTokenURL = "https://api.instagram.com/oauth/access_token"

	mediaFields = "caption,media_url,media_type,permalink,timestamp"
)

// Scopes requested when linking an account
var Scopes = []string{"pages_show_list", "instagram_basic", "instagram_manage_content"}

// Config holds the app credentials and endpoints
type Config struct {
	AppID        string
	AppSecret    string
	RedirectURI  string
	GraphBaseURL string
	// AuthURL and TokenURL default to the public Instagram endpoints
	AuthURL  string
	TokenURL string
}

// Media is the subset of a Graph API media object that gets mirrored
type Media struct {
	ID        string `json:"id"`
	Caption   string `json:"caption"`
	MediaURL  string `json:"media_url"`
	MediaType string `json:"media_type"`
	Permalink string `json:"permalink"`
	Timestamp string `json:"timestamp"`
}

// IsVideo reports whether the media should be stored as a video attachment
func (m Media) IsVideo() bool {
	return m.MediaType == "VIDEO" || m.MediaType == "REELS"
}

// Client talks to the Instagram login endpoints and the Graph API
type Client struct {
	oauth      *oauth2.Config
	graphURL   string
	appSecret  string
	httpClient *http.Client
}

// NewClient creates a client. httpClient may be nil.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	authURL := cfg.AuthURL
	if authURL == "" {
		authURL = defaultAuthURL
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}

	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.AppID,
			ClientSecret: cfg.AppSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   authURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		graphURL:   strings.TrimRight(cfg.GraphBaseURL, "/"),
		appSecret:  cfg.AppSecret,
		httpClient: httpClient,
	}
}

// AuthCodeURL returns the provider consent page URL
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// Exchange trades an authorization code for a short-lived token
func (c *Client) Exchange(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: code exchange: %v", apperrors.ErrExternalService, err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", apperrors.ErrExternalService)
	}
	return tok.AccessToken, nil
}

// LongLivedToken upgrades a short-lived token
func (c *Client) LongLivedToken(ctx context.Context, shortToken string) (string, error) {
	params := url.Values{
		"grant_type":        {"fb_exchange_token"},
		"client_id":         {c.oauth.ClientID},
		"client_secret":     {c.appSecret},
		"fb_exchange_token": {shortToken},
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.getJSON(ctx, "/oauth/access_token", params, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("%w: empty long-lived token", apperrors.ErrExternalService)
	}
	return out.AccessToken, nil
}

// BusinessAccountID resolves the Instagram business account linked to the token's page
func (c *Client) BusinessAccountID(ctx context.Context, token string) (string, error) {
	params := url.Values{
		"fields":       {"id,username,instagram_business_account"},
		"access_token": {token},
	}

	var out struct {
		InstagramBusinessAccount struct {
			ID string `json:"id"`
		} `json:"instagram_business_account"`
	}
	if err := c.getJSON(ctx, "/me", params, &out); err != nil {
		return "", err
	}
	if out.InstagramBusinessAccount.ID == "" {
		return "", fmt.Errorf("%w: no instagram business account linked", apperrors.ErrExternalService)
	}
	return out.InstagramBusinessAccount.ID, nil
}

// FetchMedia loads one media object
func (c *Client) FetchMedia(ctx context.Context, mediaID, token string) (*Media, error) {
	params := url.Values{
		"fields":       {mediaFields},
		"access_token": {token},
	}

	var media Media
	if err := c.getJSON(ctx, "/"+url.PathEscape(mediaID), params, &media); err != nil {
		return nil, err
	}
	if media.ID == "" {
		return nil, fmt.Errorf("%w: media %s not returned", apperrors.ErrExternalService, mediaID)
	}
	return &media, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.graphURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("error building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrExternalService, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", apperrors.ErrExternalService, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: graph api returned %d", apperrors.ErrExternalService, resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", apperrors.ErrExternalService, err)
	}
	return nil
}
