package reservations

import (
	"time"

	"github.com/google/uuid"
)

type ReservationResponse struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	SeatID       uuid.UUID  `json:"seat_id"`
	Date         string     `json:"date"`
	StartTime    string     `json:"start_time"`
	EndTime      string     `json:"end_time"`
	Status       Status     `json:"status"`
	CheckInAt    *time.Time `json:"check_in_at,omitempty"`
	CheckOutAt   *time.Time `json:"check_out_at,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	StudyMinutes int        `json:"study_minutes"`
	RebookedFrom *uuid.UUID `json:"rebooked_from,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	Total        int64                 `json:"total"`
	Page         int                   `json:"page"`
	Limit        int                   `json:"limit"`
	TotalPages   int                   `json:"total_pages"`
}

// RebookResponse carries both halves of a rebook
type RebookResponse struct {
	Cancelled ReservationResponse `json:"cancelled"`
	Created   ReservationResponse `json:"created"`
}

// CheckOutResponse reports the minutes credited to the user
type CheckOutResponse struct {
	Reservation  ReservationResponse `json:"reservation"`
	StudyMinutes int                 `json:"study_minutes"`
}
