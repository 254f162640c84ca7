package violations

import "studyhall/internal/shared/errs"

var (
	ErrViolationNotFound   = errs.NotFound("VIOLATION_NOT_FOUND", "violation not found")
	ErrAlreadyReported     = errs.Conflict("VIOLATION_ALREADY_REPORTED", "violation already recorded for this reservation")
	ErrInvalidType         = errs.Validation("INVALID_VIOLATION_TYPE", "type must be NO_SHOW, OVERSTAY, ABUSIVE_CANCEL or OTHER")
	ErrInvalidStatus       = errs.Validation("INVALID_VIOLATION_STATUS", "status must be UNHANDLED, HANDLED or APPEALED")
	ErrInvalidStatusChange = errs.Conflict("INVALID_VIOLATION_STATUS_CHANGE", "violation status cannot change that way")
)
