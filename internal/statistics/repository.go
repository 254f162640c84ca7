package statistics

import (
	"context"
	"time"

	"studyhall/internal/shared/errs"

	"gorm.io/gorm"
)

// Repository reads aggregate counts straight from the reservation and
// violation tables. Date bounds are inclusive YYYY-MM-DD strings.
type Repository interface {
	StatusCounts(ctx context.Context, from, to string) ([]StatusRow, error)
	NoShowCounts(ctx context.Context, from, to string) ([]DateCount, error)
	ViolationTimes(ctx context.Context, since, until time.Time) ([]time.Time, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) StatusCounts(ctx context.Context, from, to string) ([]StatusRow, error) {
	var rows []StatusRow
	err := r.db.WithContext(ctx).
		Table("reservations").
		Select("reserve_date, status, COUNT(*) AS count, COALESCE(SUM(study_minutes), 0) AS minutes").
		Where("reserve_date >= ? AND reserve_date <= ?", from, to).
		Group("reserve_date, status").
		Scan(&rows).Error
	return rows, errs.Storage(err)
}

// NoShowCounts attributes no-show violations to the date of the reservation
func (r *repository) NoShowCounts(ctx context.Context, from, to string) ([]DateCount, error) {
	var rows []DateCount
	err := r.db.WithContext(ctx).
		Table("violations AS v").
		Select("r.reserve_date AS reserve_date, COUNT(*) AS count").
		Joins("JOIN reservations r ON r.id = v.reservation_id").
		Where("v.type = ?", "NO_SHOW").
		Where("r.reserve_date >= ? AND r.reserve_date <= ?", from, to).
		Group("r.reserve_date").
		Scan(&rows).Error
	return rows, errs.Storage(err)
}

// ViolationTimes returns creation times in [since, until); the caller buckets them by local date
func (r *repository) ViolationTimes(ctx context.Context, since, until time.Time) ([]time.Time, error) {
	var times []time.Time
	err := r.db.WithContext(ctx).
		Table("violations").
		Where("created_at >= ? AND created_at < ?", since, until).
		Pluck("created_at", &times).Error
	return times, errs.Storage(err)
}
