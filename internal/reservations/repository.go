package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studyhall/internal/seats"
	"studyhall/internal/shared/errs"
	"studyhall/internal/shared/timeslot"
	"studyhall/internal/users"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// pgExclusionViolation is raised by reservations_no_overlap
const pgExclusionViolation = "23P01"

type Repository interface {
	// HasConflict reports whether an active reservation on seatID and date
	// overlaps interval. exclude skips one reservation id.
	HasConflict(ctx context.Context, seatID uuid.UUID, date string, interval timeslot.Interval, exclude *uuid.UUID) (bool, error)

	// CreateWithGuards checks account, seat, daily limit and conflicts and
	// inserts res in one transaction holding the user and seat row locks.
	CreateWithGuards(ctx context.Context, res *Reservation, dailyLimit int) error

	// Rebook cancels oldID and creates next under the same guards, all or nothing
	Rebook(ctx context.Context, oldID uuid.UUID, next *Reservation, dailyLimit int, at time.Time) (*Reservation, error)

	GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error)
	List(ctx context.Context, query ListQuery) ([]Reservation, int64, error)

	// Conditional transitions; a row that already left the expected state is rejected
	Cancel(ctx context.Context, id uuid.UUID, at time.Time) error
	CheckIn(ctx context.Context, id uuid.UUID, at time.Time) error
	// CheckOut closes the reservation and credits minutes to the user in one transaction
	CheckOut(ctx context.Context, id, userID uuid.UUID, at time.Time, minutes int) error

	// Background scans
	FindNoShows(ctx context.Context, today string, nowMinute, limit int) ([]Reservation, error)
	FindOverstays(ctx context.Context, cutoffDate string, cutoffMinute, limit int) ([]Reservation, error)

	// Seat directory lookups
	CountActiveBySeat(tx *gorm.DB, seatID uuid.UUID) (int64, error)
	OccupiedSeatIDs(ctx context.Context, date string, interval timeslot.Interval) ([]uuid.UUID, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) HasConflict(ctx context.Context, seatID uuid.UUID, date string, interval timeslot.Interval, exclude *uuid.UUID) (bool, error) {
	return hasConflict(r.db.WithContext(ctx), seatID, date, interval, exclude)
}

// hasConflict applies s1 < e2 AND s2 < e1 against active rows only
func hasConflict(db *gorm.DB, seatID uuid.UUID, date string, interval timeslot.Interval, exclude *uuid.UUID) (bool, error) {
	var count int64
	q := db.Model(&Reservation{}).
		Where("seat_id = ? AND reserve_date = ?", seatID, date).
		Where("status IN ?", activeStatuses).
		Where("start_minute < ? AND ? < end_minute", interval.End, interval.Start)
	if exclude != nil {
		q = q.Where("id <> ?", *exclude)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, errs.Storage(err)
	}
	return count > 0, nil
}

func (r *repository) CreateWithGuards(ctx context.Context, res *Reservation, dailyLimit int) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return insertGuarded(tx, res, dailyLimit)
	})
	return translateInsertError(err)
}

func (r *repository) Rebook(ctx context.Context, oldID uuid.UUID, next *Reservation, dailyLimit int, at time.Time) (*Reservation, error) {
	var old Reservation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockAccount(tx, next.UserID); err != nil {
			return err
		}

		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&old, "id = ?", oldID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}
			return errs.Storage(err)
		}
		if !old.IsOwnedBy(next.UserID) {
			return ErrNotOwner
		}
		if err := transition(tx, oldID, StatusBooked, map[string]interface{}{
			"status":       StatusCancelled,
			"cancelled_at": at,
		}, ErrNotBooked); err != nil {
			return err
		}

		old.Status = StatusCancelled
		old.CancelledAt = &at
		next.RebookedFrom = &old.ID
		return insertGuarded(tx, next, dailyLimit)
	})
	if err != nil {
		return nil, translateInsertError(err)
	}
	return &old, nil
}

// insertGuarded runs the create guards inside tx. The user row is locked
// first, then the seat row, so two requests for the same user or seat queue.
func insertGuarded(tx *gorm.DB, res *Reservation, dailyLimit int) error {
	if _, err := lockAccount(tx, res.UserID); err != nil {
		return err
	}

	seat, err := seats.LockForUpdate(tx, res.SeatID)
	if err != nil {
		return err
	}
	if !seat.IsEnabled() {
		return seats.ErrSeatDisabled
	}

	var booked int64
	err = tx.Model(&Reservation{}).
		Where("user_id = ? AND reserve_date = ?", res.UserID, res.ReserveDate).
		Where("status IN ?", countedStatuses).
		Count(&booked).Error
	if err != nil {
		return errs.Storage(err)
	}
	if booked >= int64(dailyLimit) {
		return ErrDailyLimitReached.Withf("daily reservation limit of %d reached for %s", dailyLimit, res.ReserveDate)
	}

	conflict, err := hasConflict(tx, res.SeatID, res.ReserveDate, res.Interval(), nil)
	if err != nil {
		return err
	}
	if conflict {
		return ErrSlotTaken
	}

	if err := tx.Create(res).Error; err != nil {
		return fmt.Errorf("failed to insert reservation: %w", err)
	}
	return nil
}

// lockAccount locks the user row and rejects disabled accounts. Locking an
// already locked row in the same transaction is a no-op.
func lockAccount(tx *gorm.DB, userID uuid.UUID) (*users.User, error) {
	user, err := users.LockForUpdate(tx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsEnabled() {
		return nil, users.ErrAccountDisabled
	}
	return user, nil
}

// translateInsertError maps the exclusion constraint backstop to SLOT_TAKEN
func translateInsertError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation {
		return ErrSlotTaken.Wrap(err)
	}
	return errs.Storage(err)
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	var res Reservation
	err := r.db.WithContext(ctx).First(&res, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, errs.Storage(err)
	}
	return &res, nil
}

func (r *repository) List(ctx context.Context, query ListQuery) ([]Reservation, int64, error) {
	var list []Reservation
	var total int64

	// Set defaults
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 20
	}

	base := r.db.WithContext(ctx).Model(&Reservation{})
	if query.UserID != nil {
		base = base.Where("user_id = ?", *query.UserID)
	}
	if query.SeatID != nil {
		base = base.Where("seat_id = ?", *query.SeatID)
	}
	if query.Date != "" {
		base = base.Where("reserve_date = ?", query.Date)
	}
	if query.Status != "" {
		base = base.Where("status = ?", query.Status)
	}

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, errs.Storage(err)
	}

	err := base.
		Order("reserve_date DESC").
		Order("start_minute ASC").
		Order("id ASC").
		Offset((query.Page - 1) * query.Limit).
		Limit(query.Limit).
		Find(&list).Error
	return list, total, errs.Storage(err)
}

func (r *repository) Cancel(ctx context.Context, id uuid.UUID, at time.Time) error {
	return transition(r.db.WithContext(ctx), id, StatusBooked, map[string]interface{}{
		"status":       StatusCancelled,
		"cancelled_at": at,
	}, ErrNotBooked)
}

func (r *repository) CheckIn(ctx context.Context, id uuid.UUID, at time.Time) error {
	return transition(r.db.WithContext(ctx), id, StatusBooked, map[string]interface{}{
		"status":      StatusCheckedIn,
		"check_in_at": at,
	}, ErrNotBooked)
}

func (r *repository) CheckOut(ctx context.Context, id, userID uuid.UUID, at time.Time, minutes int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := transition(tx, id, StatusCheckedIn, map[string]interface{}{
			"status":        StatusCheckedOut,
			"check_out_at":  at,
			"study_minutes": minutes,
		}, ErrNotCheckedIn)
		if err != nil {
			return err
		}
		return users.IncrementStudyMinutes(tx, userID, minutes)
	})
}

// transition updates the row only while it is still in from
func transition(db *gorm.DB, id uuid.UUID, from Status, updates map[string]interface{}, stale error) error {
	updates["updated_at"] = time.Now().UTC()
	result := db.Model(&Reservation{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return errs.Storage(result.Error)
	}
	if result.RowsAffected == 0 {
		return stale
	}
	return nil
}

// FindNoShows returns BOOKED reservations whose slot has ended and which have
// no NO_SHOW violation yet
func (r *repository) FindNoShows(ctx context.Context, today string, nowMinute, limit int) ([]Reservation, error) {
	var list []Reservation
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusBooked).
		Where("reserve_date < ? OR (reserve_date = ? AND end_minute <= ?)", today, today, nowMinute).
		Where("NOT EXISTS (SELECT 1 FROM violations v WHERE v.reservation_id = reservations.id AND v.type = ?)", "NO_SHOW").
		Order("reserve_date ASC").
		Order("end_minute ASC").
		Limit(limit).
		Find(&list).Error
	return list, errs.Storage(err)
}

// FindOverstays returns CHECKED_IN reservations that ended at or before
// cutoffMinute on cutoffDate and have no OVERSTAY violation yet
func (r *repository) FindOverstays(ctx context.Context, cutoffDate string, cutoffMinute, limit int) ([]Reservation, error) {
	var list []Reservation
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusCheckedIn).
		Where("reserve_date < ? OR (reserve_date = ? AND end_minute <= ?)", cutoffDate, cutoffDate, cutoffMinute).
		Where("NOT EXISTS (SELECT 1 FROM violations v WHERE v.reservation_id = reservations.id AND v.type = ?)", "OVERSTAY").
		Order("reserve_date ASC").
		Order("end_minute ASC").
		Limit(limit).
		Find(&list).Error
	return list, errs.Storage(err)
}

func (r *repository) CountActiveBySeat(tx *gorm.DB, seatID uuid.UUID) (int64, error) {
	var count int64
	err := tx.Model(&Reservation{}).
		Where("seat_id = ?", seatID).
		Where("status IN ?", activeStatuses).
		Count(&count).Error
	return count, errs.Storage(err)
}

func (r *repository) OccupiedSeatIDs(ctx context.Context, date string, interval timeslot.Interval) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&Reservation{}).
		Distinct("seat_id").
		Where("reserve_date = ?", date).
		Where("status IN ?", activeStatuses).
		Where("start_minute < ? AND ? < end_minute", interval.End, interval.Start).
		Pluck("seat_id", &ids).Error
	return ids, errs.Storage(err)
}
