package reservations

type Status string

const (
	StatusBooked     Status = "BOOKED"
	StatusCheckedIn  Status = "CHECKED_IN"
	StatusCheckedOut Status = "CHECKED_OUT"
	StatusCancelled  Status = "CANCELLED"
)

// activeStatuses hold the seat and take part in conflict detection
var activeStatuses = []string{string(StatusBooked), string(StatusCheckedIn)}

// countedStatuses count toward the per-day limit
var countedStatuses = []string{string(StatusBooked), string(StatusCheckedIn), string(StatusCheckedOut)}

func (s Status) IsValid() bool {
	switch s {
	case StatusBooked, StatusCheckedIn, StatusCheckedOut, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsActive reports whether the reservation still occupies its seat
func (s Status) IsActive() bool {
	return s == StatusBooked || s == StatusCheckedIn
}

func (s Status) IsFinal() bool {
	return s == StatusCheckedOut || s == StatusCancelled
}

// CanTransitionTo allows forward moves only:
// BOOKED -> CHECKED_IN -> CHECKED_OUT, BOOKED -> CANCELLED
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusBooked:
		return next == StatusCheckedIn || next == StatusCancelled
	case StatusCheckedIn:
		return next == StatusCheckedOut
	default:
		return false
	}
}
