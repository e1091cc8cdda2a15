package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusnest/sublet-market/internal/core/ports"
	"github.com/campusnest/sublet-market/internal/pkg/metrics"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user account and sends the verification email.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "ok").Inc()
	resp := toUserResponse(user)
	return c.JSON(http.StatusCreated, authResponse{User: &resp})
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		return err
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "ok").Inc()
	resp := toUserResponse(user)
	return c.JSON(http.StatusOK, authResponse{Token: token, User: &resp})
}

// VerifyEmail consumes an email verification token.
//
// @Summary      Verify email address
// @Tags         auth
// @Accept       json
// @Param        body  body  tokenRequest  true  "Verification token"
// @Success      204
// @Failure      400   {object}  errorResponse
// @Router       /auth/verify [post]
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	var req tokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.authService.VerifyEmail(c.Request().Context(), req.Token); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ForgotPassword emails a password reset link. It answers 202 whether or not
// the address belongs to an account.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Param        body  body  forgotPasswordRequest  true  "Account email"
// @Success      202
// @Failure      400   {object}  errorResponse
// @Router       /auth/password/forgot [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.authService.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.NoContent(http.StatusAccepted)
}

// ResetPassword sets a new password using a reset token.
//
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Param        body  body  resetPasswordRequest  true  "Reset token and new password"
// @Success      204
// @Failure      400   {object}  errorResponse
// @Router       /auth/password/reset [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.authService.ResetPassword(c.Request().Context(), req.Token, req.Password); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
