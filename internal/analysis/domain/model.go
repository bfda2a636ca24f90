// Package domain contains the read-side views built from classified balance
// records.
package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// HouseholdPaymentInfo is one household's classified balance for a month.
type HouseholdPaymentInfo struct {
	HouseholdID        snowflake.ID    `json:"household_id"`
	HouseholdName      string          `json:"household_name"`
	BuildingNumber     string          `json:"building_number"`
	EntranceNumber     int             `json:"entrance_number"`
	DoorNumber         int             `json:"door_number"`
	FloorNumber        int             `json:"floor_number"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	RecordMonth        time.Time       `json:"record_month"`
	RankCategory       string          `json:"rank_category"`
}

func (i HouseholdPaymentInfo) FullAddress() string {
	return fmt.Sprintf("%s-%d-%d", i.BuildingNumber, i.EntranceNumber, i.DoorNumber)
}

// CategoryGroup pairs one rank category with its households ordered by
// balance descending. Groups follow rule order (threshold descending) with
// the sentinel category last.
type CategoryGroup struct {
	Category   string                 `json:"category"`
	Households []HouseholdPaymentInfo `json:"households"`
}

type BuildingStatistics struct {
	BuildingNumber     string          `json:"building_number"`
	TotalHouseholds    int             `json:"total_households"`
	HouseholdsWithDebt int             `json:"households_with_debt"`
	TotalOutstanding   decimal.Decimal `json:"total_outstanding"`
	AverageDebt        decimal.Decimal `json:"average_debt"`
}

type EntranceStatistics struct {
	BuildingNumber     string          `json:"building_number"`
	EntranceNumber     int             `json:"entrance_number"`
	TotalHouseholds    int             `json:"total_households"`
	HouseholdsWithDebt int             `json:"households_with_debt"`
	TotalOutstanding   decimal.Decimal `json:"total_outstanding"`
}

// HistoryEntry is one month of a household's balance history. Delta is the
// change against the previous month; the first month has none.
type HistoryEntry struct {
	Month              time.Time        `json:"month"`
	OutstandingBalance decimal.Decimal  `json:"outstanding_balance"`
	RankCategory       string           `json:"rank_category"`
	Delta              *decimal.Decimal `json:"delta,omitempty"`
}

// Service builds views over committed balance data. A nil month selects the
// latest record per household.
type Service interface {
	CategorizeByRank(ctx context.Context, month *time.Time) ([]CategoryGroup, error)
	BuildingStatistics(ctx context.Context, month *time.Time) ([]BuildingStatistics, error)
	EntranceStatistics(ctx context.Context, buildingNumber string, month *time.Time) ([]EntranceStatistics, error)
	HouseholdsAboveThreshold(ctx context.Context, threshold decimal.Decimal, month *time.Time) ([]HouseholdPaymentInfo, error)
	HouseholdHistory(ctx context.Context, householdID snowflake.ID) ([]HistoryEntry, error)
}
