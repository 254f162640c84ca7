package users

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type Status string

const (
	StatusEnabled  Status = "ENABLED"
	StatusDisabled Status = "DISABLED"
)

type User struct {
	ID                  uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	FirstName           string    `json:"first_name" gorm:"not null"`
	LastName            string    `json:"last_name" gorm:"not null"`
	Password            string    `json:"-" gorm:"not null"` // hide in json
	Role                Role      `json:"role" gorm:"type:varchar(10);not null;default:'USER'"`
	Email               string    `json:"email" gorm:"uniqueIndex;not null"`
	Status              Status    `json:"status" gorm:"type:varchar(10);not null;default:'ENABLED';check:status IN ('ENABLED', 'DISABLED')"`
	MonthlyStudyMinutes int       `json:"monthly_study_minutes" gorm:"not null;default:0;index"`
	TotalStudyMinutes   int       `json:"total_study_minutes" gorm:"not null;default:0;index"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Status == "" {
		u.Status = StatusEnabled
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

func (u *User) IsEnabled() bool {
	return u.Status == StatusEnabled
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func IsValidRole(role string) bool {
	switch role {
	case string(RoleUser), string(RoleAdmin):
		return true
	default:
		return false
	}
}

// Counter names one of the study-minute counters
type Counter string

const (
	CounterMonthly Counter = "monthly"
	CounterTotal   Counter = "total"
)

// column is the only place a Counter turns into SQL
func (c Counter) column() string {
	if c == CounterTotal {
		return "total_study_minutes"
	}
	return "monthly_study_minutes"
}

// Value reads the counter from u
func (c Counter) Value(u *User) int {
	if c == CounterTotal {
		return u.TotalStudyMinutes
	}
	return u.MonthlyStudyMinutes
}

// ListQuery filters the admin user listing
type ListQuery struct {
	Status Status
	Search string
	Page   int
	Limit  int
}
