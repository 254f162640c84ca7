package users

import (
	"context"
	"errors"
	"time"

	"studyhall/internal/shared/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error
	List(ctx context.Context, query ListQuery) ([]User, int64, error)

	SetStatus(ctx context.Context, id uuid.UUID, status Status) error
	AddStudyMinutes(ctx context.Context, id uuid.UUID, minutes int) error
	ResetMonthlyMinutes(ctx context.Context) (int64, error)

	// Leaderboard queries: enabled users only
	TopBy(ctx context.Context, counter Counter, limit int) ([]User, error)
	CountAbove(ctx context.Context, counter Counter, value int) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	return errs.Storage(r.db.WithContext(ctx).Create(user).Error)
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errs.Storage(err)
	}
	return &user, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errs.Storage(err)
	}
	return &user, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, errs.Storage(err)
	}
	return count > 0, nil
}

func (r *repository) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	result := r.db.WithContext(ctx).Model(&User{}).
		Where("id = ?", id).
		Update("password", hashedPassword)
	if result.Error != nil {
		return errs.Storage(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, query ListQuery) ([]User, int64, error) {
	var list []User
	var total int64

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 20
	}

	base := r.db.WithContext(ctx).Model(&User{})
	if query.Status != "" {
		base = base.Where("status = ?", query.Status)
	}
	if query.Search != "" {
		like := "%" + query.Search + "%"
		base = base.Where("email LIKE ? OR first_name LIKE ? OR last_name LIKE ?", like, like, like)
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

func (r *repository) SetStatus(ctx context.Context, id uuid.UUID, status Status) error {
	if status != StatusEnabled && status != StatusDisabled {
		return ErrInvalidStatus
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := LockForUpdate(tx, id); err != nil {
			return err
		}
		return SetStatusTx(tx, id, status)
	})
}

func (r *repository) AddStudyMinutes(ctx context.Context, id uuid.UUID, minutes int) error {
	return IncrementStudyMinutes(r.db.WithContext(ctx), id, minutes)
}

func (r *repository) ResetMonthlyMinutes(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Model(&User{}).
		Where("monthly_study_minutes <> 0").
		Updates(map[string]interface{}{
			"monthly_study_minutes": 0,
			"updated_at":            time.Now().UTC(),
		})
	return result.RowsAffected, errs.Storage(result.Error)
}

// TopBy orders by the counter descending, then id ascending for a stable order
func (r *repository) TopBy(ctx context.Context, counter Counter, limit int) ([]User, error) {
	col := counter.column()
	var list []User
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusEnabled).
		Where(col + " > 0").
		Order(col + " DESC").
		Order("id ASC").
		Limit(limit).
		Find(&list).Error
	return list, errs.Storage(err)
}

func (r *repository) CountAbove(ctx context.Context, counter Counter, value int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&User{}).
		Where("status = ?", StatusEnabled).
		Where(counter.column()+" > ?", value).
		Count(&count).Error
	return count, errs.Storage(err)
}

// Transaction helpers shared with the reservation and violation repositories.

// LockForUpdate reads the user row holding a row lock until tx ends
func LockForUpdate(tx *gorm.DB, id uuid.UUID) (*User, error) {
	var user User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errs.Storage(err)
	}
	return &user, nil
}

// SetStatusTx updates the account flag inside tx
func SetStatusTx(tx *gorm.DB, id uuid.UUID, status Status) error {
	result := tx.Model(&User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return errs.Storage(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// IncrementStudyMinutes adds minutes to both counters with a single UPDATE
func IncrementStudyMinutes(tx *gorm.DB, id uuid.UUID, minutes int) error {
	if minutes < 0 {
		return ErrInvalidMinutes
	}
	if minutes == 0 {
		return nil
	}
	result := tx.Model(&User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"monthly_study_minutes": gorm.Expr("monthly_study_minutes + ?", minutes),
			"total_study_minutes":   gorm.Expr("total_study_minutes + ?", minutes),
			"updated_at":            time.Now().UTC(),
		})
	if result.Error != nil {
		return errs.Storage(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
