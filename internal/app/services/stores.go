package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/campusnet/internal/app/models"
	"github.com/yigit/campusnet/internal/app/repositories"
)

// UserStore is the user and profile persistence used by services
type UserStore interface {
	CreateWithProfile(ctx context.Context, user *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateAccount(ctx context.Context, userID int64, username, email *string) error
	GetProfile(ctx context.Context, userID int64) (*models.Profile, error)
	SaveProfile(ctx context.Context, profile *models.Profile) error
}

// CollegeStore is the college reference data
type CollegeStore interface {
	GetByName(ctx context.Context, name string) (*models.College, error)
	Exists(ctx context.Context, name string) (bool, error)
	Search(ctx context.Context, term string, limit int) ([]*models.College, error)
	SearchStates(ctx context.Context, prefix string, limit int) ([]string, error)
	Random(ctx context.Context, exclude []string, limit int) ([]*models.College, error)
}

// FollowStore is the follow registry
type FollowStore interface {
	Insert(ctx context.Context, followerID int64, collegeName string) error
	Delete(ctx context.Context, followerID int64, collegeName string) (int64, error)
	ListCollegeNames(ctx context.Context, followerID int64) ([]string, error)
	IsFollowing(ctx context.Context, followerID int64, collegeName string) (bool, error)
}

// PostStore is the post half of the content store
type PostStore interface {
	ListByAffiliations(ctx context.Context, colleges []string) ([]*models.Post, error)
	ListOutsideAffiliations(ctx context.Context, colleges []string, limit int) ([]*models.Post, error)
	Create(ctx context.Context, post *models.Post) (int64, error)
}

// EventStore is the event half of the content store
type EventStore interface {
	Filter(ctx context.Context, q repositories.EventQuery) ([]*models.Event, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*models.Event, error)
	GetByLinkKey(ctx context.Context, key uuid.UUID) (*models.Event, error)
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	ListByOrganizer(ctx context.Context, organizerID int64) ([]*models.Event, error)
	Create(ctx context.Context, event *models.Event) (int64, error)
	GetEventType(ctx context.Context, id int64) (*models.EventType, error)
	ListCategories(ctx context.Context) ([]*models.EventCategory, error)
}

// ApplicationStore is the application registry
type ApplicationStore interface {
	Create(ctx context.Context, app *models.Application) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Application, error)
	ListByEvent(ctx context.Context, eventID int64) ([]*models.Application, error)
}

// CredentialStore holds linked social accounts
type CredentialStore interface {
	Save(ctx context.Context, cred *models.SocialCredential) error
	GetByUsername(ctx context.Context, username string) (*models.SocialCredential, error)
}

var (
	_ UserStore        = (*repositories.UserRepository)(nil)
	_ CollegeStore     = (*repositories.CollegeRepository)(nil)
	_ FollowStore      = (*repositories.FollowRepository)(nil)
	_ PostStore        = (*repositories.PostRepository)(nil)
	_ EventStore       = (*repositories.EventRepository)(nil)
	_ ApplicationStore = (*repositories.ApplicationRepository)(nil)
	_ CredentialStore  = (*repositories.CredentialRepository)(nil)
)
