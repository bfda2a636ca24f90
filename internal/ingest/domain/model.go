// Package domain defines the ingestion contract: one uploaded workbook in,
// one ledgered run of row-level upserts out.
package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// ErrUnreadableWorkbook marks run-fatal container errors. Row-level problems
// never carry it.
var ErrUnreadableWorkbook = errors.New("unreadable workbook")

// ParsedRow is one successfully decoded data row. HouseholdName may be empty;
// every other field is required.
type ParsedRow struct {
	RowNumber      int
	BuildingNumber string
	EntranceNumber int
	DoorNumber     int
	HouseholdName  string
	Balance        decimal.Decimal
}

// RowFailure records a single rejected row. Failures are collected, never
// thrown past the row boundary.
type RowFailure struct {
	RowNumber int    `json:"row_number"`
	Reason    string `json:"reason"`
}

func (f RowFailure) String() string {
	return fmt.Sprintf("row %d: %s", f.RowNumber, f.Reason)
}

type ProcessRequest struct {
	FileName    string
	UploadedBy  string
	RecordMonth time.Time
	Content     []byte
}

type Result struct {
	UploadID         snowflake.ID `json:"upload_id"`
	Success          bool         `json:"success"`
	TotalRecords     int          `json:"total_records"`
	ProcessedRecords int          `json:"processed_records"`
	UpdatedRecords   int          `json:"updated_records"`
	Failures         []RowFailure `json:"failures,omitempty"`
}

type Service interface {
	// ProcessFile runs one ingestion end to end. Row failures are reported
	// in the Result; only run-fatal errors are returned, and the upload
	// ledger entry reflects the outcome either way.
	ProcessFile(ctx context.Context, req ProcessRequest) (*Result, error)
}
