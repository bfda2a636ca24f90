// Package domain contains the monthly balance records produced by ingestion.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// PaymentRecord holds one household's outstanding balance for one record
// month. The (household, record month) pair is the upsert key.
type PaymentRecord struct {
	ID                 snowflake.ID    `gorm:"primaryKey" json:"id"`
	HouseholdID        snowflake.ID    `gorm:"not null;uniqueIndex:uq_household_month" json:"household_id"`
	RecordMonth        time.Time       `gorm:"not null;uniqueIndex:uq_household_month" json:"record_month"`
	OutstandingBalance decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"outstanding_balance"`
	UploadDate         time.Time       `gorm:"not null" json:"upload_date"`
	CreatedAt          time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (PaymentRecord) TableName() string { return "payment_records" }

// BalanceRow is the denormalized read-model row used by classification and
// aggregation. It joins a record with its household's full address.
type BalanceRow struct {
	HouseholdID        snowflake.ID
	HouseholdName      string
	BuildingNumber     string
	EntranceNumber     int
	DoorNumber         int
	FloorNumber        int
	OutstandingBalance decimal.Decimal
	RecordMonth        time.Time
}

// NormalizeMonth truncates a date to the first of its month in UTC, the
// canonical record-month representation.
func NormalizeMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
