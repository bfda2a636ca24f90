package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/happytownlabs/happytown/internal/clock"
	complexdomain "github.com/happytownlabs/happytown/internal/complex/domain"
	householddomain "github.com/happytownlabs/happytown/internal/household/domain"
	householdrepository "github.com/happytownlabs/happytown/internal/household/repository"
	ingestdomain "github.com/happytownlabs/happytown/internal/ingest/domain"
	paymentdomain "github.com/happytownlabs/happytown/internal/payment/domain"
	paymentrepository "github.com/happytownlabs/happytown/internal/payment/repository"
	uploaddomain "github.com/happytownlabs/happytown/internal/upload/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock

	complexRepo complexdomain.Repository
	uploadRepo  uploaddomain.Repository
}

type ServiceParam struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	ComplexRepo complexdomain.Repository
	UploadRepo  uploaddomain.Repository
}

func NewService(p ServiceParam) ingestdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("ingest.service"),
		genID: p.GenID,
		clock: p.Clock,

		complexRepo: p.ComplexRepo,
		uploadRepo:  p.UploadRepo,
	}
}

// ProcessFile captures the payload into the upload ledger, parses it, applies
// every row and finalizes the ledger entry. Applied rows stay committed even
// when later rows fail.
func (s *Service) ProcessFile(ctx context.Context, req ingestdomain.ProcessRequest) (*ingestdomain.Result, error) {
	recordMonth := paymentdomain.NormalizeMonth(req.RecordMonth)

	entry := uploaddomain.NewEntry(
		s.genID.Generate(),
		req.FileName,
		int64(len(req.Content)),
		req.UploadedBy,
		s.clock.Now(ctx),
	)
	entry.FileContent = append([]byte(nil), req.Content...)

	if err := s.uploadRepo.Insert(ctx, entry); err != nil {
		return nil, fmt.Errorf("capture upload: %w", err)
	}
	if err := entry.MarkProcessing(); err != nil {
		return nil, err
	}
	if err := s.uploadRepo.Save(ctx, entry); err != nil {
		return nil, fmt.Errorf("start upload %d: %w", entry.ID, err)
	}

	parsed, failures, err := parseWorkbook(req.Content)
	if err != nil {
		s.finalize(ctx, entry, func() error {
			return entry.MarkFailed(fmt.Sprintf("could not read workbook: %v", err))
		})
		return nil, err
	}

	processed, updated := 0, 0
	for _, row := range parsed {
		wasUpdate, rowErr := s.applyRow(ctx, row, recordMonth)
		if rowErr != nil {
			failures = append(failures, ingestdomain.RowFailure{RowNumber: row.RowNumber, Reason: rowErr.Error()})
			continue
		}
		processed++
		if wasUpdate {
			updated++
		}
	}
	sort.Slice(failures, func(i, j int) bool { return failures[i].RowNumber < failures[j].RowNumber })

	entry.UpdateProgress(processed, len(failures))
	summary := fmt.Sprintf("processed %d records, updated %d", processed, updated)
	switch {
	case len(failures) == 0:
		s.finalize(ctx, entry, func() error { return entry.MarkCompleted(summary) })
	case processed > 0:
		s.finalize(ctx, entry, func() error {
			return entry.MarkPartiallyCompleted(summary, fmt.Sprintf("%d rows failed", len(failures)))
		})
	default:
		s.finalize(ctx, entry, func() error { return entry.MarkFailed("no records were processed") })
	}

	rowsProcessed.Add(float64(processed))
	rowsFailed.Add(float64(len(failures)))
	runsTotal.WithLabelValues(string(entry.Status)).Inc()

	s.log.Info("upload processed",
		zap.Int64("upload_id", int64(entry.ID)),
		zap.String("status", string(entry.Status)),
		zap.Int("processed", processed),
		zap.Int("updated", updated),
		zap.Int("failed", len(failures)),
	)

	return &ingestdomain.Result{
		UploadID:         entry.ID,
		Success:          len(failures) == 0,
		TotalRecords:     entry.TotalRecords,
		ProcessedRecords: processed,
		UpdatedRecords:   updated,
		Failures:         failures,
	}, nil
}

// applyRow resolves one parsed row to its household and upserts the monthly
// balance. The row's writes commit together; an error here fails only this
// row. The returned bool reports whether an existing record was updated.
func (s *Service) applyRow(ctx context.Context, row ingestdomain.ParsedRow, recordMonth time.Time) (bool, error) {
	addr := complexdomain.Address{
		BuildingNumber: row.BuildingNumber,
		EntranceNumber: row.EntranceNumber,
		DoorNumber:     row.DoorNumber,
	}
	apartment, err := s.complexRepo.FindApartmentByAddress(ctx, addr)
	if err != nil {
		return false, fmt.Errorf("apartment lookup failed: %v", err)
	}
	if apartment == nil {
		return false, fmt.Errorf("apartment not found: %s", addr)
	}

	updated := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		households := householdrepository.NewRepository(tx)
		payments := paymentrepository.NewRepository(tx)
		now := s.clock.Now(ctx)

		household, err := households.FindByApartment(ctx, apartment.ID)
		if err != nil {
			return err
		}
		if household == nil {
			name := row.HouseholdName
			if name == "" {
				name = householddomain.FallbackName
			}
			household = &householddomain.Household{
				ID:            s.genID.Generate(),
				HouseholdName: name,
				ApartmentID:   apartment.ID,
			}
			if err := households.Insert(ctx, household); err != nil {
				return err
			}
		} else if row.HouseholdName != "" && row.HouseholdName != household.HouseholdName {
			// last write wins on the stored name
			household.HouseholdName = row.HouseholdName
			if err := households.Save(ctx, household); err != nil {
				return err
			}
		}

		record, err := payments.FindByHouseholdAndMonth(ctx, household.ID, recordMonth)
		if err != nil {
			return err
		}
		if record != nil {
			record.OutstandingBalance = row.Balance
			record.UploadDate = now
			updated = true
			return payments.Save(ctx, record)
		}
		return payments.Insert(ctx, &paymentdomain.PaymentRecord{
			ID:                 s.genID.Generate(),
			HouseholdID:        household.ID,
			RecordMonth:        recordMonth,
			OutstandingBalance: row.Balance,
			UploadDate:         now,
		})
	})
	return updated, err
}

// finalize applies a terminal transition and persists it; a persistence error
// at this point is logged, the run result still stands.
func (s *Service) finalize(ctx context.Context, entry *uploaddomain.Entry, mark func() error) {
	if err := mark(); err != nil {
		s.log.Error("upload state transition rejected", zap.Int64("upload_id", int64(entry.ID)), zap.Error(err))
		return
	}
	if err := s.uploadRepo.Save(ctx, entry); err != nil {
		s.log.Error("failed to persist upload entry", zap.Int64("upload_id", int64(entry.ID)), zap.Error(err))
	}
}
