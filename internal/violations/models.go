package violations

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Type string

const (
	TypeNoShow        Type = "NO_SHOW"
	TypeOverstay      Type = "OVERSTAY"
	TypeAbusiveCancel Type = "ABUSIVE_CANCEL"
	TypeOther         Type = "OTHER"
)

// Points is the weight a violation adds toward the suspension threshold
func (t Type) Points() int {
	if t == TypeNoShow {
		return 2
	}
	return 1
}

func (t Type) IsValid() bool {
	switch t {
	case TypeNoShow, TypeOverstay, TypeAbusiveCancel, TypeOther:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusUnhandled Status = "UNHANDLED"
	StatusHandled   Status = "HANDLED"
	StatusAppealed  Status = "APPEALED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusUnhandled, StatusHandled, StatusAppealed:
		return true
	default:
		return false
	}
}

// Violation is one recorded infraction. A reservation produces at most one
// violation of each type.
type Violation struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	ReservationID *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_violations_reservation_type" json:"reservation_id,omitempty"`
	Type          Type       `gorm:"type:varchar(20);not null;uniqueIndex:idx_violations_reservation_type;check:type IN ('NO_SHOW', 'OVERSTAY', 'ABUSIVE_CANCEL', 'OTHER')" json:"type"`
	Points        int        `gorm:"not null" json:"points"`
	Description   string     `gorm:"type:varchar(500)" json:"description"`
	Status        Status     `gorm:"type:varchar(20);not null;default:'UNHANDLED';index;check:status IN ('UNHANDLED', 'HANDLED', 'APPEALED')" json:"status"`
	HandledAt     *time.Time `json:"handled_at,omitempty"`
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (Violation) TableName() string {
	return "violations"
}

func (v *Violation) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.Status == "" {
		v.Status = StatusUnhandled
	}
	if v.Points == 0 {
		v.Points = v.Type.Points()
	}
	return nil
}

// Outcome reports what recording a violation did to the account
type Outcome struct {
	Violation   *Violation `json:"violation"`
	TotalPoints int        `json:"total_points"`
	Limit       int        `json:"limit"`
	Disabled    bool       `json:"account_disabled"`
}

// ListQuery filters violation listings
type ListQuery struct {
	UserID *uuid.UUID
	Status Status
	Type   Type
	Page   int
	Limit  int
}
