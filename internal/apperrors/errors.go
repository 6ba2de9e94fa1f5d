package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPasswordHash       = errors.New("password can't be hashed")

	// Token gate errors. Callers must not tell the client which check failed
	ErrNotLoggedIn = errors.New("token missing")
	ErrAuthFailed  = errors.New("token invalid or expired")

	ErrFavourNotFound    = errors.New("favour not found")
	ErrPartnerNotFound   = errors.New("partner not found")
	ErrFavourSelfPartner = errors.New("favour partner must differ from creator")
	ErrFavourTimeRange   = errors.New("favour end time must be after start time")
	ErrFavourStatus      = errors.New("favour status is not allowed")

	ErrSecretKeyMissing = errors.New("secret key must not be empty")
)
