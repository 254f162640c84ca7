package timeslot

import "studyhall/internal/shared/errs"

var (
	ErrInvalidDate  = errs.Validation("INVALID_DATE", "date must be YYYY-MM-DD")
	ErrInvalidClock = errs.Validation("INVALID_TIME", "time must be HH:MM")
	ErrInvalidRange = errs.Validation("INVALID_TIME_RANGE", "end time must be after start time")
)
