package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	InsertBuilding(ctx context.Context, building *Building) error
	InsertEntrance(ctx context.Context, entrance *Entrance) error
	InsertApartment(ctx context.Context, apartment *Apartment) error
	CountBuildings(ctx context.Context) (int64, error)
	ListBuildings(ctx context.Context) ([]Building, error)
	ListEntrances(ctx context.Context, buildingID snowflake.ID) ([]Entrance, error)
	ListApartments(ctx context.Context) ([]Apartment, error)
	// FindApartmentByAddress resolves an upload row address to an apartment.
	// Returns nil without error when the address does not exist.
	FindApartmentByAddress(ctx context.Context, addr Address) (*Apartment, error)
}
