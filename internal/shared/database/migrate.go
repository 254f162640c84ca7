package database

import (
	"studyhall/internal/reservations"
	"studyhall/internal/seats"
	"studyhall/internal/settings"
	"studyhall/internal/users"
	"studyhall/internal/violations"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&settings.Setting{},
		&seats.Seat{},
		&reservations.Reservation{},
		&violations.Violation{},
	)
}
