package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusnest/sublet-market/internal/core/domain"
	"github.com/campusnest/sublet-market/internal/core/ports"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt input limit
	verifyTokenTTL    = 24 * time.Hour
	resetTokenTTL     = time.Hour
)

// AuthService implements registration, login and credential recovery.
type AuthService struct {
	users     ports.UserRepository
	tokens    ports.TokenStore
	notifier  ports.Notifier
	jwtSecret string
	tokenTTL  time.Duration
	baseURL   string
	logger    zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	tokens ports.TokenStore,
	notifier ports.Notifier,
	jwtSecret string,
	tokenTTL time.Duration,
	baseURL string,
	logger zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:     users,
		tokens:    tokens,
		notifier:  notifier,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		baseURL:   strings.TrimRight(baseURL, "/"),
		logger:    logger,
	}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	user, err := s.createUser(ctx, input, domain.RoleUser, nil)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(ctx, ports.TokenVerifyEmail, user.ID, verifyTokenTTL)
	if err != nil {
		// The account exists; the user can ask for a new link later.
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("failed to issue verification token")
		return user, nil
	}
	s.notifier.Enqueue(verificationNotification(user, token, s.baseURL))

	s.logger.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

// CreateAdmin creates an already verified administrator account.
func (s *AuthService) CreateAdmin(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	now := time.Now().UTC()
	return s.createUser(ctx, input, domain.RoleAdmin, &now)
}

func (s *AuthService) createUser(ctx context.Context, input ports.RegisterInput, role string, verifiedAt *time.Time) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, fmt.Errorf("%w: a valid email is required", domain.ErrInvalidInput)
	}
	if err := checkPassword(input.Password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return s.users.Create(ctx, &domain.User{
		Email:         email,
		Name:          name,
		PasswordHash:  hash,
		EmailVerified: verifiedAt,
		Role:          role,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	userID, err := s.tokens.Consume(ctx, ports.TokenVerifyEmail, token)
	if err != nil {
		return err
	}
	if err := s.users.MarkEmailVerified(ctx, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("verify email: %w", err)
	}
	s.logger.Info().Str("user_id", userID).Msg("email verified")
	return nil
}

func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}

	token, err := s.tokens.Issue(ctx, ports.TokenPasswordReset, user.ID, resetTokenTTL)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}
	s.notifier.Enqueue(passwordResetNotification(user, token, s.baseURL))
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := checkPassword(newPassword); err != nil {
		return err
	}

	userID, err := s.tokens.Consume(ctx, ports.TokenPasswordReset, token)
	if err != nil {
		return err
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, hash, time.Now().UTC()); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	s.logger.Info().Str("user_id", userID).Msg("password reset")
	return nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  user.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func checkPassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("%w: password must be at most %d bytes", domain.ErrInvalidInput, maxPasswordLength)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
