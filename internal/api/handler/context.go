package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/campusnest/sublet-market/internal/api/middleware"
	"github.com/campusnest/sublet-market/internal/core/domain"
)

// callerFrom builds the request identity from the claims injected by the
// auth middlewares. Requests that went through OptionalAuth without a token
// yield domain.Anonymous.
func callerFrom(c echo.Context) domain.Caller {
	userID, _ := c.Get(middleware.KeyUserID).(string)
	if userID == "" {
		return domain.Anonymous
	}
	role, _ := c.Get(middleware.KeyRole).(string)
	return domain.Caller{UserID: userID, Role: role}
}

// requireCaller is callerFrom with a fast-fail for routes that must never be
// reached anonymously.
func requireCaller(c echo.Context) (domain.Caller, error) {
	caller := callerFrom(c)
	if !caller.Authenticated() {
		return caller, domain.ErrUnauthenticated
	}
	return caller, nil
}

// bindAndValidate decodes the request body into req and runs the struct
// validator over it.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}
	return nil
}

// queryInt parses an optional integer query parameter, returning 0 when it
// is absent or malformed so the service applies its default.
func queryInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return n
}
