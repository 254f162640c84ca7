package seats

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusEnabled  Status = "ENABLED"
	StatusDisabled Status = "DISABLED"
)

// Seat is a bookable desk identified by a unique seat number within an area
type Seat struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SeatNumber string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"seat_number"`
	Area       string    `gorm:"type:varchar(32);index;not null" json:"area"`
	Status     Status    `gorm:"type:varchar(10);not null;default:'ENABLED';check:status IN ('ENABLED', 'DISABLED')" json:"status"`
	Remark     string    `gorm:"type:varchar(255)" json:"remark,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName sets the table name for Seat
func (Seat) TableName() string {
	return "seats"
}

func (s *Seat) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Status == "" {
		s.Status = StatusEnabled
	}
	return nil
}

func (s *Seat) IsEnabled() bool {
	return s.Status == StatusEnabled
}

func IsValidStatus(status string) bool {
	return status == string(StatusEnabled) || status == string(StatusDisabled)
}

// ListQuery filters the seat listing
type ListQuery struct {
	Area   string
	Status Status
}
