package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Insert(ctx context.Context, record *PaymentRecord) error
	Save(ctx context.Context, record *PaymentRecord) error
	// FindByHouseholdAndMonth returns nil without error when no record
	// exists for the upsert key.
	FindByHouseholdAndMonth(ctx context.Context, householdID snowflake.ID, recordMonth time.Time) (*PaymentRecord, error)
	ListByHousehold(ctx context.Context, householdID snowflake.ID) ([]PaymentRecord, error)
	// LatestRows returns each household's most recent record joined with
	// its address.
	LatestRows(ctx context.Context) ([]BalanceRow, error)
	// RowsByMonth returns all records for one record month joined with
	// their addresses.
	RowsByMonth(ctx context.Context, recordMonth time.Time) ([]BalanceRow, error)
	// LatestMonth reports the most recent record month present, or nil when
	// no records exist.
	LatestMonth(ctx context.Context) (*time.Time, error)
}
