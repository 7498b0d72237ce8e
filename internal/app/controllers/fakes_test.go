package controllers

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusnet/internal/app/models"
	"github.com/yigit/campusnet/internal/app/models/dto"
	"github.com/yigit/campusnet/internal/app/services"
	"github.com/yigit/campusnet/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testUserID int64 = 7

// newRouter returns an engine whose requests are authenticated as testUserID unless anonymous is set
func newRouter(anonymous bool) *gin.Engine {
	router := gin.New()
	if !anonymous {
		router.Use(func(c *gin.Context) {
			c.Set(middleware.ContextUserID, testUserID)
			c.Next()
		})
	}
	return router
}

type envelope struct {
	Success bool             `json:"success"`
	Data    json.RawMessage  `json:"data"`
	Error   *dto.ErrorDetail `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

type fakeAuth struct {
	RegisterFunc func(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	LoginFunc    func(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
}

func (f *fakeAuth) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	return f.RegisterFunc(ctx, req)
}

func (f *fakeAuth) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	return f.LoginFunc(ctx, req)
}

type fakeFeed struct {
	ComposeFeedFunc    func(ctx context.Context, userID int64) (*dto.FeedResponse, error)
	CommunityPostsFunc func(ctx context.Context, userID int64) ([]dto.PostResponse, error)
}

func (f *fakeFeed) EffectiveFollowedSet(context.Context, int64) ([]string, error) { return nil, nil }

func (f *fakeFeed) ComposeFeed(ctx context.Context, userID int64) (*dto.FeedResponse, error) {
	return f.ComposeFeedFunc(ctx, userID)
}

func (f *fakeFeed) CommunityPosts(ctx context.Context, userID int64) ([]dto.PostResponse, error) {
	return f.CommunityPostsFunc(ctx, userID)
}

type fakePosts struct {
	CreatePostFunc func(ctx context.Context, userID int64, body string, files []*multipart.FileHeader) (*dto.PostResponse, error)
}

func (f *fakePosts) CreatePost(ctx context.Context, userID int64, body string, files []*multipart.FileHeader) (*dto.PostResponse, error) {
	return f.CreatePostFunc(ctx, userID, body, files)
}

func (f *fakePosts) Publish(context.Context, *models.Post) (*dto.PostResponse, error) {
	return nil, nil
}

type fakeColleges struct {
	CollegePostsFunc func(ctx context.Context, userID int64, name string) (*dto.CollegePostsResponse, error)
}

func (f *fakeColleges) Autocomplete(_ context.Context, term string) ([]dto.CollegeResponse, error) {
	return []dto.CollegeResponse{{ID: 1, Name: term + " College"}}, nil
}

func (f *fakeColleges) States(context.Context, string) ([]string, error) { return []string{}, nil }

func (f *fakeColleges) Suggested(context.Context, int64) ([]dto.CollegeResponse, error) {
	return []dto.CollegeResponse{}, nil
}

func (f *fakeColleges) CollegePosts(ctx context.Context, userID int64, name string) (*dto.CollegePostsResponse, error) {
	return f.CollegePostsFunc(ctx, userID, name)
}

type fakeFollows struct {
	ToggleFollowFunc func(ctx context.Context, userID int64, req *dto.FollowRequest) (*dto.FollowResponse, error)
}

func (f *fakeFollows) ToggleFollow(ctx context.Context, userID int64, req *dto.FollowRequest) (*dto.FollowResponse, error) {
	return f.ToggleFollowFunc(ctx, userID, req)
}

func (f *fakeFollows) Following(context.Context, int64) (*dto.FollowingResponse, error) {
	return &dto.FollowingResponse{Colleges: []string{}}, nil
}

type fakeEvents struct {
	FilterEventsFunc  func(ctx context.Context, userID int64, filter models.EventFilter) (*dto.EventListResponse, error)
	EventsOnDayFunc   func(ctx context.Context, day string) (*dto.DayEventsResponse, error)
	GetByLinkKeyFunc  func(ctx context.Context, key string) (*dto.EventDetailResponse, error)
	CreateEventFunc   func(ctx context.Context, userID int64, req *dto.CreateEventRequest, banner *multipart.FileHeader) (*dto.EventDetailResponse, error)
	RegistrationsFunc func(ctx context.Context, userID, eventID int64) ([]dto.ApplicationResponse, error)
}

func (f *fakeEvents) FilterEvents(ctx context.Context, userID int64, filter models.EventFilter) (*dto.EventListResponse, error) {
	return f.FilterEventsFunc(ctx, userID, filter)
}

func (f *fakeEvents) Calendar(context.Context, int64, models.EventFilter) (dto.CalendarResponse, error) {
	return dto.CalendarResponse{}, nil
}

func (f *fakeEvents) EventsOnDay(ctx context.Context, day string) (*dto.DayEventsResponse, error) {
	return f.EventsOnDayFunc(ctx, day)
}

func (f *fakeEvents) GetByLinkKey(ctx context.Context, key string) (*dto.EventDetailResponse, error) {
	return f.GetByLinkKeyFunc(ctx, key)
}

func (f *fakeEvents) MyEvents(context.Context, int64) (*dto.EventListResponse, error) {
	return &dto.EventListResponse{Events: []dto.EventListItem{}}, nil
}

func (f *fakeEvents) Categories(context.Context) ([]dto.EventCategoryResponse, error) {
	return []dto.EventCategoryResponse{}, nil
}

func (f *fakeEvents) CreateEvent(ctx context.Context, userID int64, req *dto.CreateEventRequest, banner *multipart.FileHeader) (*dto.EventDetailResponse, error) {
	return f.CreateEventFunc(ctx, userID, req, banner)
}

func (f *fakeEvents) Registrations(ctx context.Context, userID, eventID int64) ([]dto.ApplicationResponse, error) {
	return f.RegistrationsFunc(ctx, userID, eventID)
}

type fakeApplications struct {
	ApplyFunc func(ctx context.Context, userID int64, linkKey string, req *dto.ApplyRequest) (*dto.ApplicationResponse, error)
}

func (f *fakeApplications) Apply(ctx context.Context, userID int64, linkKey string, req *dto.ApplyRequest) (*dto.ApplicationResponse, error) {
	return f.ApplyFunc(ctx, userID, linkKey, req)
}

func (f *fakeApplications) MyApplications(context.Context, int64) ([]dto.ApplicationResponse, error) {
	return []dto.ApplicationResponse{}, nil
}

type fakeMirror struct {
	ConnectURLFunc    func(userID int64) (string, error)
	CallbackFunc      func(ctx context.Context, state, code string) (*models.SocialCredential, error)
	HandleWebhookFunc func(ctx context.Context, body []byte) (*services.MirrorResult, error)
	verifyToken       string
}

func (f *fakeMirror) ConnectURL(userID int64) (string, error) { return f.ConnectURLFunc(userID) }

func (f *fakeMirror) Callback(ctx context.Context, state, code string) (*models.SocialCredential, error) {
	return f.CallbackFunc(ctx, state, code)
}

func (f *fakeMirror) VerifySubscription(mode, token string) bool {
	return mode == "subscribe" && token == f.verifyToken
}

func (f *fakeMirror) HandleWebhook(ctx context.Context, body []byte) (*services.MirrorResult, error) {
	return f.HandleWebhookFunc(ctx, body)
}
