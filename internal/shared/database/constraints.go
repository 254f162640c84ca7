package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds the PostgreSQL-only storage guard against
// overlapping active reservations. The booking transaction already
// serializes on the seat row; this catches anything that bypasses it.
func MigrateConstraints(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return err
	}

	var exists int64
	err := db.Raw(`SELECT COUNT(*) FROM pg_constraint WHERE conname = 'reservations_no_overlap'`).
		Scan(&exists).Error
	if err != nil {
		return err
	}
	if exists > 0 {
		return nil
	}

	// [start_minute, end_minute) per seat and day, active rows only
	return db.Exec(`
		ALTER TABLE reservations
		ADD CONSTRAINT reservations_no_overlap
		EXCLUDE USING gist (
			seat_id WITH =,
			reserve_date WITH =,
			int4range(start_minute, end_minute) WITH &&
		) WHERE (status IN ('BOOKED', 'CHECKED_IN'));
	`).Error
}
