package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Insert(ctx context.Context, rank *RankConfiguration) error
	Save(ctx context.Context, rank *RankConfiguration) error
	FindByID(ctx context.Context, id snowflake.ID) (*RankConfiguration, error)
	List(ctx context.Context) ([]RankConfiguration, error)
	// ListActiveOrdered returns the active rule set sorted by threshold
	// descending, id ascending. This is the order Classify expects.
	ListActiveOrdered(ctx context.Context) ([]RankConfiguration, error)
	Count(ctx context.Context) (int64, error)
}
