package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	uploaddomain "github.com/happytownlabs/happytown/internal/upload/domain"
	"github.com/happytownlabs/happytown/pkg/db/pagination"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) uploaddomain.Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, entry *uploaddomain.Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) Save(ctx context.Context, entry *uploaddomain.Entry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*uploaddomain.Entry, error) {
	var entry uploaddomain.Entry
	err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *repository) List(ctx context.Context, page pagination.Pagination) ([]uploaddomain.Entry, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&uploaddomain.Entry{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []uploaddomain.Entry
	err := r.db.WithContext(ctx).
		Omit("file_content").
		Order("uploaded_at DESC, id DESC").
		Limit(page.Limit()).
		Offset(page.Offset()).
		Find(&entries).Error
	return entries, total, err
}
