package auth

import "studyhall/internal/shared/errs"

var (
	ErrInvalidCredentials = errs.Unauthorized("INVALID_CREDENTIALS", "invalid email or password")
	ErrUserAlreadyExists  = errs.Conflict("USER_ALREADY_EXISTS", "user with this email already exists")
	ErrInvalidToken       = errs.Unauthorized("INVALID_TOKEN", "invalid or expired token")
)
