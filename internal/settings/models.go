package settings

import "time"

// Well-known keys read by the booking rules
const (
	KeyViolationLimit     = "violation_limit"
	KeyDailyLimit         = "daily_reservation_limit"
	KeyCheckInLeadMinutes = "checkin_lead_minutes"
	KeyLateCancelMinutes  = "late_cancel_minutes"
	KeyMonthlyResetPeriod = "monthly_reset_period"
)

// Setting is one row of the key/value settings table
type Setting struct {
	Key         string    `gorm:"column:setting_key;primaryKey;type:varchar(64)" json:"key"`
	Value       string    `gorm:"type:varchar(255);not null" json:"value"`
	Description string    `gorm:"type:varchar(255)" json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "system_settings"
}

type UpsertSettingRequest struct {
	Value       string `json:"value" validate:"required,max=255"`
	Description string `json:"description" validate:"max=255"`
}
