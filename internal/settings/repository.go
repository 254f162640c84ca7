package settings

import (
	"context"
	"errors"
	"time"

	"studyhall/internal/shared/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrSettingNotFound = errs.NotFound("SETTING_NOT_FOUND", "setting not found")

type Repository interface {
	Get(ctx context.Context, key string) (*Setting, error)
	List(ctx context.Context) ([]Setting, error)
	Upsert(ctx context.Context, setting *Setting) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, key string) (*Setting, error) {
	var setting Setting
	err := r.db.WithContext(ctx).Where("setting_key = ?", key).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, errs.Storage(err)
	}
	return &setting, nil
}

func (r *repository) List(ctx context.Context) ([]Setting, error) {
	var list []Setting
	err := r.db.WithContext(ctx).Order("setting_key ASC").Find(&list).Error
	return list, errs.Storage(err)
}

func (r *repository) Upsert(ctx context.Context, setting *Setting) error {
	setting.UpdatedAt = time.Now().UTC()
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "description", "updated_at"}),
	}).Create(setting).Error
	return errs.Storage(err)
}
