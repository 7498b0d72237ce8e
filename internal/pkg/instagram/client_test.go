package instagram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusnet/internal/pkg/apperrors"
)

func newGraphServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "the-code", r.PostForm.Get("code"))
			assert.Equal(t, "app-id", r.PostForm.Get("client_id"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"short","token_type":"bearer","user_id":17}`))
			return
		}
		assert.Equal(t, "fb_exchange_token", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "short", r.URL.Query().Get("fb_exchange_token"))
		_, _ = w.Write([]byte(`{"access_token":"long","expires_in":5183944}`))
	})
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "long", r.URL.Query().Get("access_token"))
		_, _ = w.Write([]byte(`{"id":"page","instagram_business_account":{"id":"1784"}}`))
	})
	mux.HandleFunc("/m-1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, mediaFields, r.URL.Query().Get("fields"))
		_ = json.NewEncoder(w).Encode(Media{ID: "m-1", Caption: "Fest!", MediaURL: "https://cdn/x.mp4", MediaType: "REELS", Permalink: "https://ig/p/1"})
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Unsupported get request"}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(Config{
		AppID:        "app-id",
		AppSecret:    "app-secret",
		RedirectURI:  "http://localhost/cb",
		GraphBaseURL: srv.URL,
		TokenURL:     srv.URL + "/oauth/access_token",
	}, srv.Client())
}

func TestAuthCodeURL(t *testing.T) {
	c := NewClient(Config{AppID: "app-id", RedirectURI: "http://localhost/cb"}, nil)
	u, err := url.Parse(c.AuthCodeURL("st"))
	require.NoError(t, err)
	assert.Equal(t, "api.instagram.com", u.Host)
	assert.Equal(t, "app-id", u.Query().Get("client_id"))
	assert.Equal(t, "st", u.Query().Get("state"))
	assert.Equal(t, "pages_show_list instagram_basic instagram_manage_content", u.Query().Get("scope"))
}

func TestTokenFlow(t *testing.T) {
	srv := newGraphServer(t)
	c := newTestClient(srv)
	ctx := context.Background()

	short, err := c.Exchange(ctx, "the-code")
	require.NoError(t, err)
	assert.Equal(t, "short", short)

	long, err := c.LongLivedToken(ctx, short)
	require.NoError(t, err)
	assert.Equal(t, "long", long)

	id, err := c.BusinessAccountID(ctx, long)
	require.NoError(t, err)
	assert.Equal(t, "1784", id)
}

func TestFetchMedia(t *testing.T) {
	srv := newGraphServer(t)
	c := newTestClient(srv)

	media, err := c.FetchMedia(context.Background(), "m-1", "long")
	require.NoError(t, err)
	assert.Equal(t, "Fest!", media.Caption)
	assert.True(t, media.IsVideo())

	_, err = c.FetchMedia(context.Background(), "missing", "long")
	assert.ErrorIs(t, err, apperrors.ErrExternalService)
}

func TestWebhookMediaIDs(t *testing.T) {
	var p WebhookPayload
	body := `{"object":"instagram","entry":[{"id":"1","changes":[
		{"field":"media","value":{"media_id":"a"}},
		{"field":"comments","value":{"media_id":"b"}},
		{"field":"media","value":{}}]},
		{"id":"2","changes":[{"field":"media","value":{"media_id":"c"}}]}]}`
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	assert.Equal(t, []string{"a", "c"}, p.MediaIDs())
	assert.Empty(t, WebhookPayload{}.MediaIDs())
}
