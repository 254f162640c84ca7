package reservations

import "studyhall/internal/shared/errs"

var (
	ErrReservationNotFound = errs.NotFound("RESERVATION_NOT_FOUND", "reservation not found")
	ErrNotOwner            = errs.Forbidden("NOT_RESERVATION_OWNER", "reservation belongs to another user")
	ErrPastDate            = errs.Validation("PAST_DATE", "reservation date is in the past")
	ErrSlotEnded           = errs.Validation("SLOT_ENDED", "requested time slot has already ended")
	ErrSlotTaken           = errs.Conflict("SLOT_TAKEN", "seat is already booked for an overlapping time")
	ErrDailyLimitReached   = errs.Conflict("DAILY_LIMIT_REACHED", "daily reservation limit reached")
	ErrCheckInTooEarly     = errs.Conflict("CHECKIN_TOO_EARLY", "check-in window has not opened yet")
	ErrCheckInExpired      = errs.Conflict("CHECKIN_EXPIRED", "check-in window has closed")
	ErrNotBooked           = errs.Conflict("RESERVATION_NOT_BOOKED", "reservation is not in BOOKED state")
	ErrNotCheckedIn        = errs.Conflict("RESERVATION_NOT_CHECKED_IN", "reservation is not checked in")
)
