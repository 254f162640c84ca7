package seats

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
	Create(ctx context.Context, seat *Seat) error
	GetByID(ctx context.Context, id uuid.UUID) (*Seat, error)
	List(ctx context.Context, query ListQuery) ([]Seat, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	SetStatus(ctx context.Context, id uuid.UUID, status Status) error

	// Delete runs guard inside the same transaction that holds the seat row
	// lock, so no reservation can slip in between the check and the delete.
	Delete(ctx context.Context, id uuid.UUID, guard func(tx *gorm.DB) error) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, seat *Seat) error {
	err := r.db.WithContext(ctx).Create(seat).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateSeatNumber
	}
	return errs.Storage(err)
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Seat, error) {
	var seat Seat
	err := r.db.WithContext(ctx).First(&seat, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSeatNotFound
		}
		return nil, errs.Storage(err)
	}
	return &seat, nil
}

func (r *repository) List(ctx context.Context, query ListQuery) ([]Seat, error) {
	var list []Seat
	db := r.db.WithContext(ctx)
	if query.Area != "" {
		db = db.Where("area = ?", query.Area)
	}
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	err := db.Order("area ASC").Order("seat_number ASC").Find(&list).Error
	return list, errs.Storage(err)
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&Seat{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateSeatNumber
		}
		return errs.Storage(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSeatNotFound
	}
	return nil
}

func (r *repository) SetStatus(ctx context.Context, id uuid.UUID, status Status) error {
	if !IsValidStatus(string(status)) {
		return ErrInvalidSeatStatus
	}
	return r.Update(ctx, id, map[string]interface{}{"status": status})
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID, guard func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := LockForUpdate(tx, id); err != nil {
			return err
		}
		if guard != nil {
			if err := guard(tx); err != nil {
				return err
			}
		}
		if err := tx.Delete(&Seat{}, "id = ?", id).Error; err != nil {
			return errs.Storage(err)
		}
		return nil
	})
}

// LockForUpdate reads the seat row holding a row lock until tx ends
func LockForUpdate(tx *gorm.DB, id uuid.UUID) (*Seat, error) {
	var seat Seat
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&seat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSeatNotFound
		}
		return nil, errs.Storage(err)
	}
	return &seat, nil
}
