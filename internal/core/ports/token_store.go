package ports

import (
	"context"
	"time"
)

// TokenPurpose namespaces single-use tokens.
type TokenPurpose string

const (
	TokenVerifyEmail   TokenPurpose = "verify_email"
	TokenPasswordReset TokenPurpose = "password_reset"
)

// TokenStore issues single-use, expiring tokens bound to a user.
type TokenStore interface {
	Issue(ctx context.Context, purpose TokenPurpose, userID string, ttl time.Duration) (string, error)
	// Consume returns the user bound to token and invalidates it. Unknown or
	// expired tokens yield domain.ErrInvalidToken.
	Consume(ctx context.Context, purpose TokenPurpose, token string) (string, error)
}
