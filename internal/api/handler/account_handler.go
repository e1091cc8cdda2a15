package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusnest/sublet-market/internal/core/ports"
)

type AccountHandler struct {
	userService ports.UserService
}

func NewAccountHandler(userService ports.UserService) *AccountHandler {
	return &AccountHandler{userService: userService}
}

// Me returns the authenticated user's profile.
//
// @Summary      Current user
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/me [get]
func (h *AccountHandler) Me(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	user, err := h.userService.Me(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateProfile changes the caller's display name or avatar.
//
// @Summary      Update profile
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/me [patch]
func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), caller, ports.UpdateProfileInput{
		Name:  req.Name,
		Image: req.Image,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// ChangePassword replaces the caller's password after checking the current one.
//
// @Summary      Change password
// @Tags         account
// @Accept       json
// @Security     BearerAuth
// @Param        body  body  changePasswordRequest  true  "Current and new password"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/me/password [put]
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.userService.ChangePassword(c.Request().Context(), caller, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteAccount removes the caller and everything they own.
//
// @Summary      Delete account
// @Tags         account
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  errorResponse
// @Router       /v1/me [delete]
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	if err := h.userService.DeleteAccount(c.Request().Context(), caller); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
