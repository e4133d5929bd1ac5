package domain

import "errors"

// Validation errors
var (
	ErrMissingField          = errors.New("missing required field")
	ErrInvalidTimeFormat     = errors.New("invalid time format")
	ErrInvalidDateFormat     = errors.New("invalid date format")
	ErrMissingPhoto          = errors.New("photo is required")
	ErrPunchOutBeforePunchIn = errors.New("punch-out must be after punch-in")
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrForbidden          = errors.New("forbidden")
)

// Lifecycle errors
var (
	ErrNotFound         = errors.New("record not found")
	ErrAlreadyCompleted = errors.New("punch already completed")
)

// Attachment errors
var (
	ErrUnsupportedMediaType = errors.New("only image uploads are allowed")
	ErrPayloadTooLarge      = errors.New("file too large")
)

// ErrInternal is never shown with detail to the caller
var ErrInternal = errors.New("internal server error")
