package ports

import (
	"context"

	"github.com/campusnest/sublet-market/internal/core/domain"
)

// RegisterInput carries the fields needed to open an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthService covers sign-up, sign-in and credential recovery.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	VerifyEmail(ctx context.Context, token string) error
	// RequestPasswordReset never reveals whether the email is registered.
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}
