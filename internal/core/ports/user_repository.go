package ports

import (
	"context"
	"time"

	"github.com/campusnest/sublet-market/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByIDs returns the users that exist among ids, keyed by id.
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error)
	// UpdateProfile sets the non-nil fields and returns the updated user.
	UpdateProfile(ctx context.Context, id string, name, image *string, at time.Time) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string, at time.Time) error
	MarkEmailVerified(ctx context.Context, id string, at time.Time) error
	// List returns a page of users ordered by creation time and the total count.
	List(ctx context.Context, page, limit int) ([]*domain.User, int64, error)
	Delete(ctx context.Context, id string) error
}
