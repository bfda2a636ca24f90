package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	posterdomain "github.com/happytownlabs/happytown/internal/poster/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) posterdomain.Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, content *posterdomain.Content) error {
	if err := content.Kind.Valid(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(content).Error
}

func (r *repository) Save(ctx context.Context, content *posterdomain.Content) error {
	if err := content.Kind.Valid(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(content).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*posterdomain.Content, error) {
	var content posterdomain.Content
	err := r.db.WithContext(ctx).First(&content, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &content, nil
}

func (r *repository) ListActive(ctx context.Context) ([]posterdomain.Content, error) {
	var contents []posterdomain.Content
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order, id").
		Find(&contents).Error
	return contents, err
}

func (r *repository) List(ctx context.Context) ([]posterdomain.Content, error) {
	var contents []posterdomain.Content
	err := r.db.WithContext(ctx).Order("display_order, id").Find(&contents).Error
	return contents, err
}
