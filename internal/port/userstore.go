package port

import "github.com/samaanhq/authcore/internal/domain"

// UserStore is the account store collaborator. Implementations must enforce
// username uniqueness at insert time; the services only check existence
// before inserting and rely on the store to close the race.
type UserStore interface {
	GetUser(username string) (*domain.User, error)
	CreateUser(user *domain.User) error
	SetFingerprint(username, sample string) error
	ListEnrolled() ([]*domain.User, error)
}
