package services

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/campusnet/internal/app/models"
	"github.com/yigit/campusnet/internal/app/repositories"
	"github.com/yigit/campusnet/internal/pkg/apperrors"
	"github.com/yigit/campusnet/internal/pkg/instagram"
)

var testLogger = zerolog.Nop()

func ptr[T any](v T) *T { return &v }

type fakeUserStore struct {
	CreateWithProfileFunc func(ctx context.Context, user *models.User) (int64, error)
	GetByIDFunc           func(ctx context.Context, id int64) (*models.User, error)
	GetByEmailFunc        func(ctx context.Context, email string) (*models.User, error)
	GetByUsernameFunc     func(ctx context.Context, username string) (*models.User, error)
	UpdateAccountFunc     func(ctx context.Context, userID int64, username, email *string) error
	GetProfileFunc        func(ctx context.Context, userID int64) (*models.Profile, error)
	SaveProfileFunc       func(ctx context.Context, profile *models.Profile) error
}

func (f *fakeUserStore) CreateWithProfile(ctx context.Context, user *models.User) (int64, error) {
	return f.CreateWithProfileFunc(ctx, user)
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if f.GetByIDFunc == nil {
		return &models.User{ID: id, Username: "user", Email: "user@campus.edu", IsActive: true}, nil
	}
	return f.GetByIDFunc(ctx, id)
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.GetByEmailFunc(ctx, email)
}

func (f *fakeUserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return f.GetByUsernameFunc(ctx, username)
}

func (f *fakeUserStore) UpdateAccount(ctx context.Context, userID int64, username, email *string) error {
	if f.UpdateAccountFunc == nil {
		return nil
	}
	return f.UpdateAccountFunc(ctx, userID, username, email)
}

func (f *fakeUserStore) GetProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	if f.GetProfileFunc == nil {
		return &models.Profile{UserID: userID}, nil
	}
	return f.GetProfileFunc(ctx, userID)
}

func (f *fakeUserStore) SaveProfile(ctx context.Context, profile *models.Profile) error {
	if f.SaveProfileFunc == nil {
		return nil
	}
	return f.SaveProfileFunc(ctx, profile)
}

// profileWith returns a GetProfileFunc reporting the given affiliation ("" for none)
func profileWith(college string) func(ctx context.Context, userID int64) (*models.Profile, error) {
	return func(ctx context.Context, userID int64) (*models.Profile, error) {
		p := &models.Profile{UserID: userID, SetupComplete: college != ""}
		if college != "" {
			p.CollegeName = ptr(college)
		}
		return p, nil
	}
}

type fakeCollegeStore struct {
	colleges         map[string]*models.College
	SearchFunc       func(ctx context.Context, term string, limit int) ([]*models.College, error)
	SearchStatesFunc func(ctx context.Context, prefix string, limit int) ([]string, error)
	RandomFunc       func(ctx context.Context, exclude []string, limit int) ([]*models.College, error)
}

func newFakeCollegeStore(names ...string) *fakeCollegeStore {
	f := &fakeCollegeStore{colleges: make(map[string]*models.College)}
	for i, n := range names {
		f.colleges[n] = &models.College{ID: int64(i + 1), Name: n}
	}
	return f
}

func (f *fakeCollegeStore) GetByName(ctx context.Context, name string) (*models.College, error) {
	c, ok := f.colleges[name]
	if !ok {
		return nil, apperrors.ErrCollegeNotFound
	}
	return c, nil
}

func (f *fakeCollegeStore) Exists(ctx context.Context, name string) (bool, error) {
	_, ok := f.colleges[name]
	return ok, nil
}

func (f *fakeCollegeStore) Search(ctx context.Context, term string, limit int) ([]*models.College, error) {
	return f.SearchFunc(ctx, term, limit)
}

func (f *fakeCollegeStore) SearchStates(ctx context.Context, prefix string, limit int) ([]string, error) {
	return f.SearchStatesFunc(ctx, prefix, limit)
}

func (f *fakeCollegeStore) Random(ctx context.Context, exclude []string, limit int) ([]*models.College, error) {
	return f.RandomFunc(ctx, exclude, limit)
}

// fakeFollowStore keeps follows in memory and enforces the (follower, college) uniqueness
type fakeFollowStore struct {
	follows map[int64]map[string]bool
	inserts int
	deletes int
}

func newFakeFollowStore() *fakeFollowStore {
	return &fakeFollowStore{follows: make(map[int64]map[string]bool)}
}

func (f *fakeFollowStore) Insert(ctx context.Context, followerID int64, collegeName string) error {
	f.inserts++
	if f.follows[followerID] == nil {
		f.follows[followerID] = make(map[string]bool)
	}
	if f.follows[followerID][collegeName] {
		return apperrors.ErrResourceAlreadyExists
	}
	f.follows[followerID][collegeName] = true
	return nil
}

func (f *fakeFollowStore) Delete(ctx context.Context, followerID int64, collegeName string) (int64, error) {
	f.deletes++
	if !f.follows[followerID][collegeName] {
		return 0, nil
	}
	delete(f.follows[followerID], collegeName)
	return 1, nil
}

func (f *fakeFollowStore) ListCollegeNames(ctx context.Context, followerID int64) ([]string, error) {
	var names []string
	for n := range f.follows[followerID] {
		names = append(names, n)
	}
	return names, nil
}

func (f *fakeFollowStore) IsFollowing(ctx context.Context, followerID int64, collegeName string) (bool, error) {
	return f.follows[followerID][collegeName], nil
}

// fakePostStore evaluates the affiliation predicates over an in-memory post list
type fakePostStore struct {
	posts      []*models.Post
	CreateFunc func(ctx context.Context, post *models.Post) (int64, error)
}

func inSet(college *string, set []string) bool {
	if college == nil {
		return false
	}
	for _, s := range set {
		if s == *college {
			return true
		}
	}
	return false
}

func (f *fakePostStore) ListByAffiliations(ctx context.Context, colleges []string) ([]*models.Post, error) {
	var out []*models.Post
	for _, p := range f.posts {
		if inSet(p.AuthorCollege, colleges) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePostStore) ListOutsideAffiliations(ctx context.Context, colleges []string, limit int) ([]*models.Post, error) {
	var out []*models.Post
	for _, p := range f.posts {
		if !inSet(p.AuthorCollege, colleges) {
			out = append(out, p)
		}
	}
	// newest first, like the SQL
	sorted := mergePosts(out, nil)
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

func (f *fakePostStore) Create(ctx context.Context, post *models.Post) (int64, error) {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, post)
	}
	post.ID = int64(len(f.posts) + 1)
	post.CreatedAt = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	f.posts = append(f.posts, post)
	return post.ID, nil
}

type fakeEventStore struct {
	FilterFunc          func(ctx context.Context, q repositories.EventQuery) ([]*models.Event, error)
	ListBetweenFunc     func(ctx context.Context, from, to time.Time) ([]*models.Event, error)
	GetByLinkKeyFunc    func(ctx context.Context, key uuid.UUID) (*models.Event, error)
	GetByIDFunc         func(ctx context.Context, id int64) (*models.Event, error)
	ListByOrganizerFunc func(ctx context.Context, organizerID int64) ([]*models.Event, error)
	CreateFunc          func(ctx context.Context, event *models.Event) (int64, error)
	GetEventTypeFunc    func(ctx context.Context, id int64) (*models.EventType, error)
	ListCategoriesFunc  func(ctx context.Context) ([]*models.EventCategory, error)
}

func (f *fakeEventStore) Filter(ctx context.Context, q repositories.EventQuery) ([]*models.Event, error) {
	return f.FilterFunc(ctx, q)
}

func (f *fakeEventStore) ListBetween(ctx context.Context, from, to time.Time) ([]*models.Event, error) {
	return f.ListBetweenFunc(ctx, from, to)
}

func (f *fakeEventStore) GetByLinkKey(ctx context.Context, key uuid.UUID) (*models.Event, error) {
	return f.GetByLinkKeyFunc(ctx, key)
}

func (f *fakeEventStore) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	return f.GetByIDFunc(ctx, id)
}

func (f *fakeEventStore) ListByOrganizer(ctx context.Context, organizerID int64) ([]*models.Event, error) {
	return f.ListByOrganizerFunc(ctx, organizerID)
}

func (f *fakeEventStore) Create(ctx context.Context, event *models.Event) (int64, error) {
	return f.CreateFunc(ctx, event)
}

func (f *fakeEventStore) GetEventType(ctx context.Context, id int64) (*models.EventType, error) {
	return f.GetEventTypeFunc(ctx, id)
}

func (f *fakeEventStore) ListCategories(ctx context.Context) ([]*models.EventCategory, error) {
	return f.ListCategoriesFunc(ctx)
}

// fakeApplicationStore enforces one application per (user, event)
type fakeApplicationStore struct {
	apps            []*models.Application
	ListByUserFunc  func(ctx context.Context, userID int64) ([]*models.Application, error)
	ListByEventFunc func(ctx context.Context, eventID int64) ([]*models.Application, error)
}

func (f *fakeApplicationStore) Create(ctx context.Context, app *models.Application) (int64, error) {
	for _, a := range f.apps {
		if a.UserID == app.UserID && a.EventID == app.EventID {
			return 0, apperrors.ErrAlreadyApplied
		}
	}
	app.ID = int64(len(f.apps) + 1)
	app.AppliedAt = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	f.apps = append(f.apps, app)
	return app.ID, nil
}

func (f *fakeApplicationStore) ListByUser(ctx context.Context, userID int64) ([]*models.Application, error) {
	return f.ListByUserFunc(ctx, userID)
}

func (f *fakeApplicationStore) ListByEvent(ctx context.Context, eventID int64) ([]*models.Application, error) {
	return f.ListByEventFunc(ctx, eventID)
}

type fakeCredentialStore struct {
	SaveFunc          func(ctx context.Context, cred *models.SocialCredential) error
	GetByUsernameFunc func(ctx context.Context, username string) (*models.SocialCredential, error)
}

func (f *fakeCredentialStore) Save(ctx context.Context, cred *models.SocialCredential) error {
	return f.SaveFunc(ctx, cred)
}

func (f *fakeCredentialStore) GetByUsername(ctx context.Context, username string) (*models.SocialCredential, error) {
	return f.GetByUsernameFunc(ctx, username)
}

// fakeStorage records saved and deleted files without touching disk
type fakeStorage struct {
	saved   []string
	deleted []string
	SaveErr error
}

func (f *fakeStorage) SaveFileWithPath(fh *multipart.FileHeader, subPath string) (string, error) {
	if f.SaveErr != nil {
		return "", f.SaveErr
	}
	url := "http://localhost:8080/uploads/" + subPath + "/" + fh.Filename
	f.saved = append(f.saved, url)
	return url, nil
}

func (f *fakeStorage) DeleteFile(fileURL string) error {
	f.deleted = append(f.deleted, fileURL)
	return nil
}

type fakeInstagram struct {
	AuthCodeURLFunc       func(state string) string
	ExchangeFunc          func(ctx context.Context, code string) (string, error)
	LongLivedTokenFunc    func(ctx context.Context, shortToken string) (string, error)
	BusinessAccountIDFunc func(ctx context.Context, token string) (string, error)
	FetchMediaFunc        func(ctx context.Context, mediaID, token string) (*instagram.Media, error)
}

func (f *fakeInstagram) AuthCodeURL(state string) string {
	return f.AuthCodeURLFunc(state)
}

func (f *fakeInstagram) Exchange(ctx context.Context, code string) (string, error) {
	return f.ExchangeFunc(ctx, code)
}

func (f *fakeInstagram) LongLivedToken(ctx context.Context, shortToken string) (string, error) {
	return f.LongLivedTokenFunc(ctx, shortToken)
}

func (f *fakeInstagram) BusinessAccountID(ctx context.Context, token string) (string, error) {
	return f.BusinessAccountIDFunc(ctx, token)
}

func (f *fakeInstagram) FetchMedia(ctx context.Context, mediaID, token string) (*instagram.Media, error) {
	return f.FetchMediaFunc(ctx, mediaID, token)
}

func fileHeader(name, contentType string) *multipart.FileHeader {
	fh := &multipart.FileHeader{Filename: name, Header: make(map[string][]string)}
	fh.Header.Set("Content-Type", contentType)
	return fh
}
