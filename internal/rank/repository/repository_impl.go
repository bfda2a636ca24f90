package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	rankdomain "github.com/happytownlabs/happytown/internal/rank/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) rankdomain.Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, rank *rankdomain.RankConfiguration) error {
	return r.db.WithContext(ctx).Create(rank).Error
}

func (r *repository) Save(ctx context.Context, rank *rankdomain.RankConfiguration) error {
	return r.db.WithContext(ctx).Save(rank).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*rankdomain.RankConfiguration, error) {
	var rank rankdomain.RankConfiguration
	err := r.db.WithContext(ctx).First(&rank, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &rank, nil
}

func (r *repository) List(ctx context.Context) ([]rankdomain.RankConfiguration, error) {
	var ranks []rankdomain.RankConfiguration
	err := r.db.WithContext(ctx).Order("threshold_amount DESC, id").Find(&ranks).Error
	return ranks, err
}

func (r *repository) ListActiveOrdered(ctx context.Context) ([]rankdomain.RankConfiguration, error) {
	var ranks []rankdomain.RankConfiguration
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("threshold_amount DESC, id").
		Find(&ranks).Error
	return ranks, err
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&rankdomain.RankConfiguration{}).Count(&count).Error
	return count, err
}
