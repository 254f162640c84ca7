package reservations

type CreateReservationRequest struct {
	SeatID    string `json:"seat_id" validate:"required,uuid"`
	Date      string `json:"date" validate:"required,date"`
	StartTime string `json:"start_time" validate:"required,clock"`
	EndTime   string `json:"end_time" validate:"required,clock"`
}

// RebookRequest replaces a BOOKED reservation. SeatID defaults to the current seat.
type RebookRequest struct {
	SeatID    string `json:"seat_id" validate:"omitempty,uuid"`
	Date      string `json:"date" validate:"required,date"`
	StartTime string `json:"start_time" validate:"required,clock"`
	EndTime   string `json:"end_time" validate:"required,clock"`
}
