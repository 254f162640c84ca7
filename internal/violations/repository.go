package violations

import (
	"context"
	"errors"
	"time"

	"studyhall/internal/shared/errs"
	"studyhall/internal/users"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// RecordAndEvaluate inserts v, re-sums the user's points and disables the
	// account when the sum reaches limit. One transaction under the user row lock.
	RecordAndEvaluate(ctx context.Context, v *Violation, limit int) (*Outcome, error)

	GetByID(ctx context.Context, id uuid.UUID) (*Violation, error)
	List(ctx context.Context, query ListQuery) ([]Violation, int64, error)
	SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Violation, error)
	TotalPoints(ctx context.Context, userID uuid.UUID) (int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) RecordAndEvaluate(ctx context.Context, v *Violation, limit int) (*Outcome, error) {
	outcome := &Outcome{Violation: v, Limit: limit}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := users.LockForUpdate(tx, v.UserID)
		if err != nil {
			return err
		}

		if err := tx.Create(v).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyReported
			}
			return errs.Storage(err)
		}

		total, err := sumPoints(tx, v.UserID)
		if err != nil {
			return err
		}
		outcome.TotalPoints = total

		if total >= limit && user.IsEnabled() {
			if err := users.SetStatusTx(tx, v.UserID, users.StatusDisabled); err != nil {
				return err
			}
			outcome.Disabled = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Violation, error) {
	var v Violation
	err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrViolationNotFound
		}
		return nil, errs.Storage(err)
	}
	return &v, nil
}

func (r *repository) List(ctx context.Context, query ListQuery) ([]Violation, int64, error) {
	var list []Violation
	var total int64

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 20
	}

	base := r.db.WithContext(ctx).Model(&Violation{})
	if query.UserID != nil {
		base = base.Where("user_id = ?", *query.UserID)
	}
	if query.Status != "" {
		base = base.Where("status = ?", query.Status)
	}
	if query.Type != "" {
		base = base.Where("type = ?", query.Type)
	}

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, errs.Storage(err)
	}

	err := base.Order("created_at DESC").
		Offset((query.Page - 1) * query.Limit).
		Limit(query.Limit).
		Find(&list).Error
	return list, total, errs.Storage(err)
}

// SetStatus moves UNHANDLED to HANDLED or APPEALED, and APPEALED to HANDLED.
// The user's threshold sum is not touched.
func (r *repository) SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Violation, error) {
	var v Violation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&v, "id = ?", id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrViolationNotFound
			}
			return errs.Storage(err)
		}
		if !canMove(v.Status, status) {
			return ErrInvalidStatusChange.Withf("violation status cannot change from %s to %s", v.Status, status)
		}

		now := time.Now().UTC()
		updates := map[string]interface{}{"status": status, "updated_at": now}
		if status == StatusHandled {
			updates["handled_at"] = now
		}
		if err := tx.Model(&Violation{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return errs.Storage(err)
		}
		v.Status = status
		v.UpdatedAt = now
		if status == StatusHandled {
			v.HandledAt = &now
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *repository) TotalPoints(ctx context.Context, userID uuid.UUID) (int, error) {
	return sumPoints(r.db.WithContext(ctx), userID)
}

func sumPoints(db *gorm.DB, userID uuid.UUID) (int, error) {
	var total int
	err := db.Model(&Violation{}).
		Select("COALESCE(SUM(points), 0)").
		Where("user_id = ?", userID).
		Scan(&total).Error
	if err != nil {
		return 0, errs.Storage(err)
	}
	return total, nil
}

func canMove(from, to Status) bool {
	switch from {
	case StatusUnhandled:
		return to == StatusHandled || to == StatusAppealed
	case StatusAppealed:
		return to == StatusHandled
	default:
		return false
	}
}
