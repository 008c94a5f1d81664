package services

import "errors"

// Sentinel errors the handlers map onto HTTP statuses. Validation failures
// wrap ErrValidation so callers can match with errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrNotGroupMember     = errors.New("user is not a member of this group")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
