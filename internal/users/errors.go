package users

import "studyhall/internal/shared/errs"

var (
	ErrUserNotFound    = errs.NotFound("USER_NOT_FOUND", "user not found")
	ErrInvalidStatus   = errs.Validation("INVALID_USER_STATUS", "status must be ENABLED or DISABLED")
	ErrInvalidMinutes  = errs.Validation("INVALID_STUDY_MINUTES", "study minutes must not be negative")
	ErrAccountDisabled = errs.Forbidden("ACCOUNT_DISABLED", "account disabled")
)
