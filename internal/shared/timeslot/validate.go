package timeslot

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator with the "date" (YYYY-MM-DD) and
// "clock" (HH:MM) tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String(), time.UTC)
		return err == nil
	})
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := ParseClock(fl.Field().String())
		return err == nil
	})
	return v
}
