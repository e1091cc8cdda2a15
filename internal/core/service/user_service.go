package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusnest/sublet-market/internal/core/domain"
	"github.com/campusnest/sublet-market/internal/core/ports"
)

const (
	defaultUserPageSize = 20
	maxUserPageSize     = 100
)

type UserService struct {
	users   ports.UserRepository
	cascade *Cascade
	logger  zerolog.Logger
}

func NewUserService(users ports.UserRepository, cascade *Cascade, logger zerolog.Logger) *UserService {
	return &UserService{users: users, cascade: cascade, logger: logger}
}

func (s *UserService) Me(ctx context.Context, caller domain.Caller) (*domain.User, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	return s.users.FindByID(ctx, caller.UserID)
}

func (s *UserService) UpdateProfile(ctx context.Context, caller domain.Caller, input ports.UpdateProfileInput) (*domain.User, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", domain.ErrInvalidInput)
		}
		input.Name = &name
	}
	if input.Image != nil {
		image := strings.TrimSpace(*input.Image)
		input.Image = &image
	}
	return s.users.UpdateProfile(ctx, caller.UserID, input.Name, input.Image, time.Now().UTC())
}

func (s *UserService) ChangePassword(ctx context.Context, caller domain.Caller, current, next string) error {
	if !caller.Authenticated() {
		return domain.ErrUnauthenticated
	}

	user, err := s.users.FindByID(ctx, caller.UserID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return domain.ErrInvalidCredentials
	}
	if err := checkPassword(next); err != nil {
		return err
	}

	hash, err := hashPassword(next)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, user.ID, hash, time.Now().UTC())
}

func (s *UserService) DeleteAccount(ctx context.Context, caller domain.Caller) error {
	if !caller.Authenticated() {
		return domain.ErrUnauthenticated
	}
	if err := s.cascade.DeleteUser(ctx, caller.UserID); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", caller.UserID).Msg("account deleted")
	return nil
}

func (s *UserService) ListUsers(ctx context.Context, caller domain.Caller, page, limit int) (*ports.ListUsersResult, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if limit <= 0 {
		limit = defaultUserPageSize
	}
	if limit > maxUserPageSize {
		limit = maxUserPageSize
	}
	if page <= 0 {
		page = 1
	}

	items, total, err := s.users.List(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListUsersResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// DeleteUser removes another account. Admins cannot delete themselves here;
// DeleteAccount covers that.
func (s *UserService) DeleteUser(ctx context.Context, caller domain.Caller, id string) error {
	if !caller.IsAdmin() {
		return domain.ErrForbidden
	}
	if id == caller.UserID {
		return fmt.Errorf("%w: use account deletion to remove your own account", domain.ErrInvalidInput)
	}
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.cascade.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Str("by", caller.UserID).Msg("user deleted by admin")
	return nil
}
