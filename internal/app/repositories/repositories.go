package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository        *UserRepository
	CollegeRepository     *CollegeRepository
	FollowRepository      *FollowRepository
	PostRepository        *PostRepository
	EventRepository       *EventRepository
	ApplicationRepository *ApplicationRepository
	CredentialRepository  *CredentialRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:        NewUserRepository(db),
		CollegeRepository:     NewCollegeRepository(db),
		FollowRepository:      NewFollowRepository(db),
		PostRepository:        NewPostRepository(db),
		EventRepository:       NewEventRepository(db),
		ApplicationRepository: NewApplicationRepository(db),
		CredentialRepository:  NewCredentialRepository(db),
	}
}
