package reservations

import (
	"time"

	"studyhall/internal/shared/timeslot"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reservation is a user's claim on a seat for [StartMinute, EndMinute) on
// ReserveDate, both minutes counted from local midnight. Rows are never
// deleted; cancelled reservations stay for history.
type Reservation struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_reservations_user_date,priority:1" json:"user_id"`
	SeatID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_reservations_seat_date,priority:1" json:"seat_id"`
	ReserveDate  string     `gorm:"type:varchar(10);not null;index:idx_reservations_user_date,priority:2;index:idx_reservations_seat_date,priority:2" json:"date"`
	StartMinute  int        `gorm:"not null" json:"start_minute"`
	EndMinute    int        `gorm:"not null;check:chk_reservations_range,start_minute >= 0 AND start_minute < end_minute AND end_minute <= 1440" json:"end_minute"`
	Status       Status     `gorm:"type:varchar(20);not null;default:'BOOKED';index;check:status IN ('BOOKED', 'CHECKED_IN', 'CHECKED_OUT', 'CANCELLED')" json:"status"`
	CheckInAt    *time.Time `json:"check_in_at,omitempty"`
	CheckOutAt   *time.Time `json:"check_out_at,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	StudyMinutes int        `gorm:"not null;default:0" json:"study_minutes"`
	RebookedFrom *uuid.UUID `gorm:"type:uuid" json:"rebooked_from,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Reservation model
func (Reservation) TableName() string {
	return "reservations"
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = StatusBooked
	}
	return nil
}

func (r *Reservation) Interval() timeslot.Interval {
	return timeslot.Interval{Start: r.StartMinute, End: r.EndMinute}
}

func (r *Reservation) IsOwnedBy(userID uuid.UUID) bool {
	return r.UserID == userID
}

// ToResponse renders minutes back to HH:MM
func (r *Reservation) ToResponse() ReservationResponse {
	return ReservationResponse{
		ID:           r.ID,
		UserID:       r.UserID,
		SeatID:       r.SeatID,
		Date:         r.ReserveDate,
		StartTime:    timeslot.FormatClock(r.StartMinute),
		EndTime:      timeslot.FormatClock(r.EndMinute),
		Status:       r.Status,
		CheckInAt:    r.CheckInAt,
		CheckOutAt:   r.CheckOutAt,
		CancelledAt:  r.CancelledAt,
		StudyMinutes: r.StudyMinutes,
		RebookedFrom: r.RebookedFrom,
		CreatedAt:    r.CreatedAt,
	}
}

// ListQuery filters reservation listings
type ListQuery struct {
	UserID *uuid.UUID
	SeatID *uuid.UUID
	Date   string
	Status Status
	Page   int
	Limit  int
}
