package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusnest/sublet-market/internal/core/ports"
)

type AdminHandler struct {
	userService       ports.UserService
	moderationService ports.ModerationService
}

func NewAdminHandler(userService ports.UserService, moderationService ports.ModerationService) *AdminHandler {
	return &AdminHandler{userService: userService, moderationService: moderationService}
}

// ListUsers returns a page of accounts.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Page size (default 20, max 100)"
// @Success      200    {object}  usersPageResponse
// @Failure      403    {object}  errorResponse
// @Router       /v1/admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	res, err := h.userService.ListUsers(c.Request().Context(), caller, queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return err
	}

	resp := usersPageResponse{
		Users:      make([]userResponse, 0, len(res.Items)),
		Total:      res.Total,
		Page:       res.Page,
		Limit:      res.Limit,
		TotalPages: res.TotalPages,
	}
	for _, u := range res.Items {
		resp.Users = append(resp.Users, toUserResponse(u))
	}
	return c.JSON(http.StatusOK, resp)
}

// DeleteUser removes an account and everything it owns.
//
// @Summary      Delete user
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  string  true  "User ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	if err := h.userService.DeleteUser(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteListing removes any listing regardless of owner.
//
// @Summary      Delete listing (moderation)
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  string  true  "Listing ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/listings/{id} [delete]
func (h *AdminHandler) DeleteListing(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	if err := h.moderationService.DeleteListing(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
