package ports

import (
	"context"

	"github.com/campusnest/sublet-market/internal/core/domain"
)

// UpdateProfileInput holds optional profile changes; nil means unchanged.
type UpdateProfileInput struct {
	Name  *string
	Image *string
}

// ListUsersResult is a page of accounts for the admin console.
type ListUsersResult struct {
	Items      []*domain.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// UserService covers account self-service and admin account management.
type UserService interface {
	Me(ctx context.Context, caller domain.Caller) (*domain.User, error)
	UpdateProfile(ctx context.Context, caller domain.Caller, input UpdateProfileInput) (*domain.User, error)
	ChangePassword(ctx context.Context, caller domain.Caller, current, next string) error
	// DeleteAccount removes the caller and everything they own.
	DeleteAccount(ctx context.Context, caller domain.Caller) error

	ListUsers(ctx context.Context, caller domain.Caller, page, limit int) (*ListUsersResult, error)
	DeleteUser(ctx context.Context, caller domain.Caller, id string) error
}
