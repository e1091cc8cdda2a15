package domain

import "errors"

var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")

	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")

	ErrListingNotFound = errors.New("listing not found")

	ErrSelfMessage = errors.New("cannot message yourself")

	ErrReportNotFound          = errors.New("report not found")
	ErrInvalidReportTransition = errors.New("invalid report status transition")
)
