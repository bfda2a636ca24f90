package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	householddomain "github.com/happytownlabs/happytown/internal/household/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) householddomain.Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, household *householddomain.Household) error {
	return r.db.WithContext(ctx).Create(household).Error
}

func (r *repository) Save(ctx context.Context, household *householddomain.Household) error {
	return r.db.WithContext(ctx).Save(household).Error
}

func (r *repository) FindByApartment(ctx context.Context, apartmentID snowflake.ID) (*householddomain.Household, error) {
	var household householddomain.Household
	err := r.db.WithContext(ctx).
		Where("apartment_id = ?", apartmentID).
		First(&household).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &household, nil
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*householddomain.Household, error) {
	var household householddomain.Household
	err := r.db.WithContext(ctx).First(&household, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &household, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&householddomain.Household{}).Count(&count).Error
	return count, err
}
