package seats

import "time"

// AvailabilityResponse is the per-area availability map for one slot
type AvailabilityResponse struct {
	Date           string                      `json:"date"`
	StartTime      string                      `json:"start_time"`
	EndTime        string                      `json:"end_time"`
	TotalSeats     int                         `json:"total_seats"`
	AvailableSeats int                         `json:"available_seats"`
	Areas          map[string]AreaAvailability `json:"areas"`
	GeneratedAt    time.Time                   `json:"generated_at"`
}

type AreaAvailability struct {
	Area      string             `json:"area"`
	Total     int                `json:"total"`
	Available int                `json:"available"`
	Seats     []SeatAvailability `json:"seats"`
}

type SeatAvailability struct {
	SeatID     string `json:"seat_id"`
	SeatNumber string `json:"seat_number"`
	Status     string `json:"status"`
	Available  bool   `json:"available"`
}
