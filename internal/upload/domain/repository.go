package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/happytownlabs/happytown/pkg/db/pagination"
)

type Repository interface {
	Insert(ctx context.Context, entry *Entry) error
	Save(ctx context.Context, entry *Entry) error
	FindByID(ctx context.Context, id snowflake.ID) (*Entry, error)
	// List returns entries newest first, without the retained file bytes.
	List(ctx context.Context, page pagination.Pagination) ([]Entry, int64, error)
}
