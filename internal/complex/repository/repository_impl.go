package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	complexdomain "github.com/happytownlabs/happytown/internal/complex/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) complexdomain.Repository {
	return &repository{db: db}
}

func (r *repository) InsertBuilding(ctx context.Context, building *complexdomain.Building) error {
	return r.db.WithContext(ctx).Create(building).Error
}

func (r *repository) InsertEntrance(ctx context.Context, entrance *complexdomain.Entrance) error {
	return r.db.WithContext(ctx).Create(entrance).Error
}

func (r *repository) InsertApartment(ctx context.Context, apartment *complexdomain.Apartment) error {
	return r.db.WithContext(ctx).Create(apartment).Error
}

func (r *repository) CountBuildings(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&complexdomain.Building{}).Count(&count).Error
	return count, err
}

func (r *repository) ListBuildings(ctx context.Context) ([]complexdomain.Building, error) {
	var buildings []complexdomain.Building
	err := r.db.WithContext(ctx).Order("building_number").Find(&buildings).Error
	return buildings, err
}

func (r *repository) ListEntrances(ctx context.Context, buildingID snowflake.ID) ([]complexdomain.Entrance, error) {
	var entrances []complexdomain.Entrance
	err := r.db.WithContext(ctx).
		Where("building_id = ?", buildingID).
		Order("entrance_number").
		Find(&entrances).Error
	return entrances, err
}

func (r *repository) ListApartments(ctx context.Context) ([]complexdomain.Apartment, error) {
	var apartments []complexdomain.Apartment
	err := r.db.WithContext(ctx).Order("id").Find(&apartments).Error
	return apartments, err
}

func (r *repository) FindApartmentByAddress(ctx context.Context, addr complexdomain.Address) (*complexdomain.Apartment, error) {
	var apartment complexdomain.Apartment
	err := r.db.WithContext(ctx).Raw(
		`SELECT a.id, a.entrance_id, a.door_number, a.floor_number
		 FROM apartments a
		 JOIN entrances e ON e.id = a.entrance_id
		 JOIN buildings b ON b.id = e.building_id
		 WHERE b.building_number = ? AND e.entrance_number = ? AND a.door_number = ?`,
		addr.BuildingNumber,
		addr.EntranceNumber,
		addr.DoorNumber,
	).Scan(&apartment).Error
	if err != nil {
		return nil, err
	}
	if apartment.ID == 0 {
		return nil, nil
	}
	return &apartment, nil
}
