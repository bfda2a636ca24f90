package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Insert(ctx context.Context, household *Household) error
	Save(ctx context.Context, household *Household) error
	// FindByApartment returns nil without error when the apartment has no
	// household yet.
	FindByApartment(ctx context.Context, apartmentID snowflake.ID) (*Household, error)
	FindByID(ctx context.Context, id snowflake.ID) (*Household, error)
	Count(ctx context.Context) (int64, error)
}
