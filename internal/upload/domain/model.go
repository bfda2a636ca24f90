// Package domain contains the upload ledger: the durable record of one
// ingestion run from raw bytes to terminal status.
package domain

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusPending            Status = "PENDING"
	StatusProcessing         Status = "PROCESSING"
	StatusCompleted          Status = "COMPLETED"
	StatusFailed             Status = "FAILED"
	StatusPartiallyCompleted Status = "PARTIALLY_COMPLETED"
)

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusPartiallyCompleted:
		return true
	}
	return false
}

// Entry tracks one ingestion run end to end. The raw payload is retained
// unmodified so a run can be re-processed later.
type Entry struct {
	ID                snowflake.ID `gorm:"primaryKey" json:"id"`
	FileName          string       `gorm:"type:text;not null" json:"file_name"`
	FileSize          int64        `gorm:"not null" json:"file_size"`
	UploadedBy        string       `gorm:"type:text" json:"uploaded_by"`
	UploadedAt        time.Time    `gorm:"not null" json:"uploaded_at"`
	Status            Status       `gorm:"type:text;not null" json:"status"`
	TotalRecords      int          `gorm:"not null;default:0" json:"total_records"`
	ProcessedRecords  int          `gorm:"not null;default:0" json:"processed_records"`
	FailedRecords     int          `gorm:"not null;default:0" json:"failed_records"`
	ErrorMessage      string       `gorm:"type:text" json:"error_message,omitempty"`
	ProcessingSummary string       `gorm:"type:text" json:"processing_summary,omitempty"`
	FileContent       []byte       `gorm:"type:bytea" json:"-"`
}

func (Entry) TableName() string { return "upload_entries" }

func NewEntry(id snowflake.ID, fileName string, fileSize int64, uploadedBy string, uploadedAt time.Time) *Entry {
	return &Entry{
		ID:         id,
		FileName:   fileName,
		FileSize:   fileSize,
		UploadedBy: uploadedBy,
		UploadedAt: uploadedAt,
		Status:     StatusPending,
	}
}

func (e *Entry) transition(to Status) error {
	if e.Status.Terminal() {
		return fmt.Errorf("upload %d: illegal transition %s -> %s", e.ID, e.Status, to)
	}
	if to == StatusProcessing && e.Status != StatusPending {
		return fmt.Errorf("upload %d: illegal transition %s -> %s", e.ID, e.Status, to)
	}
	// FAILED may be reached straight from PENDING when capturing the raw
	// bytes fails; the other terminal states require a processing run.
	if to.Terminal() && e.Status != StatusProcessing && !(to == StatusFailed && e.Status == StatusPending) {
		return fmt.Errorf("upload %d: illegal transition %s -> %s", e.ID, e.Status, to)
	}
	e.Status = to
	return nil
}

// MarkProcessing is called once the raw bytes are durably captured.
func (e *Entry) MarkProcessing() error {
	return e.transition(StatusProcessing)
}

func (e *Entry) MarkCompleted(summary string) error {
	if err := e.transition(StatusCompleted); err != nil {
		return err
	}
	e.ProcessingSummary = summary
	return nil
}

func (e *Entry) MarkPartiallyCompleted(summary, errorMessage string) error {
	if err := e.transition(StatusPartiallyCompleted); err != nil {
		return err
	}
	e.ProcessingSummary = summary
	e.ErrorMessage = errorMessage
	return nil
}

func (e *Entry) MarkFailed(errorMessage string) error {
	if err := e.transition(StatusFailed); err != nil {
		return err
	}
	e.ErrorMessage = errorMessage
	return nil
}

func (e *Entry) UpdateProgress(processed, failed int) {
	e.ProcessedRecords = processed
	e.FailedRecords = failed
	e.TotalRecords = processed + failed
}
