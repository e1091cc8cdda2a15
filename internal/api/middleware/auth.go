package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys set by the auth middlewares.
const (
	KeyUserID = "user_id"
	KeyEmail  = "email"
	KeyRole   = "role"
)

var errNoToken = errors.New("no token")

// Auth validates the JWT and injects claims into context. Requests without a
// valid bearer token are rejected.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return authenticate(jwtSecret, bearerToken, true)
}

// OptionalAuth injects claims when a valid bearer token is present and lets
// anonymous requests through. A malformed or expired token is still rejected
// so clients notice they were signed out.
func OptionalAuth(jwtSecret string) echo.MiddlewareFunc {
	return authenticate(jwtSecret, bearerToken, false)
}

// StreamAuth is Auth for websocket upgrades: browsers cannot set headers on
// the handshake, so the token may also arrive as the "token" query parameter.
func StreamAuth(jwtSecret string) echo.MiddlewareFunc {
	return authenticate(jwtSecret, func(c echo.Context) (string, error) {
		if tok, err := bearerToken(c); !errors.Is(err, errNoToken) {
			return tok, err
		}
		if tok := c.QueryParam("token"); tok != "" {
			return tok, nil
		}
		return "", errNoToken
	}, true)
}

func authenticate(jwtSecret string, extract func(echo.Context) (string, error), required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := extract(c)
			if errors.Is(err, errNoToken) {
				if !required {
					return next(c)
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			sub, _ := claims.GetSubject()
			if sub == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(KeyUserID, sub)
			c.Set(KeyEmail, claims["email"])
			c.Set(KeyRole, claims["role"])

			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", errNoToken
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", errors.New("malformed authorization header")
	}
	return parts[1], nil
}
