package seats

import "studyhall/internal/shared/errs"

var (
	ErrSeatNotFound              = errs.NotFound("SEAT_NOT_FOUND", "seat not found")
	ErrSeatDisabled              = errs.Conflict("SEAT_DISABLED", "seat is disabled")
	ErrDuplicateSeatNumber       = errs.Conflict("DUPLICATE_SEAT_NUMBER", "seat number already exists")
	ErrSeatHasActiveReservations = errs.Conflict("SEAT_HAS_ACTIVE_RESERVATIONS", "seat has booked or checked-in reservations")
	ErrBlankSeatField            = errs.Validation("BLANK_SEAT_FIELD", "seat number and area must not be blank")
	ErrInvalidSeatStatus         = errs.Validation("INVALID_SEAT_STATUS", "status must be ENABLED or DISABLED")
)
