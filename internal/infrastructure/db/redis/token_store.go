package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/campusnest/sublet-market/internal/core/domain"
	"github.com/campusnest/sublet-market/internal/core/ports"
)

// TokenStore keeps single-use tokens in Redis with a TTL.
// Key format: token:<purpose>:<token>
type TokenStore struct {
	client *redis.Client
}

// NewTokenStore creates a TokenStore wrapping the given Redis client.
func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

// Issue binds a fresh random token to userID until ttl elapses.
func (s *TokenStore) Issue(ctx context.Context, purpose ports.TokenPurpose, userID string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	if err := s.client.Set(ctx, tokenKey(purpose, token), userID, ttl).Err(); err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// Consume atomically reads and deletes the token.
func (s *TokenStore) Consume(ctx context.Context, purpose ports.TokenPurpose, token string) (string, error) {
	if _, err := uuid.Parse(token); err != nil {
		return "", domain.ErrInvalidToken
	}

	userID, err := s.client.GetDel(ctx, tokenKey(purpose, token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrInvalidToken
		}
		return "", fmt.Errorf("consume token: %w", err)
	}
	return userID, nil
}

func tokenKey(purpose ports.TokenPurpose, token string) string {
	return fmt.Sprintf("token:%s:%s", purpose, token)
}
