package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	paymentdomain "github.com/happytownlabs/happytown/internal/payment/domain"
	"gorm.io/gorm"
)

const balanceRowSelect = `
SELECT p.household_id,
       h.household_name,
       b.building_number,
       e.entrance_number,
       a.door_number,
       a.floor_number,
       p.outstanding_balance,
       p.record_month
FROM payment_records p
JOIN households h ON h.id = p.household_id
JOIN apartments a ON a.id = h.apartment_id
JOIN entrances e ON e.id = a.entrance_id
JOIN buildings b ON b.id = e.building_id`

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) paymentdomain.Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, record *paymentdomain.PaymentRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) Save(ctx context.Context, record *paymentdomain.PaymentRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *repository) FindByHouseholdAndMonth(ctx context.Context, householdID snowflake.ID, recordMonth time.Time) (*paymentdomain.PaymentRecord, error) {
	var record paymentdomain.PaymentRecord
	err := r.db.WithContext(ctx).
		Where("household_id = ? AND record_month = ?", householdID, recordMonth).
		First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repository) ListByHousehold(ctx context.Context, householdID snowflake.ID) ([]paymentdomain.PaymentRecord, error) {
	var records []paymentdomain.PaymentRecord
	err := r.db.WithContext(ctx).
		Where("household_id = ?", householdID).
		Order("record_month").
		Find(&records).Error
	return records, err
}

func (r *repository) LatestRows(ctx context.Context) ([]paymentdomain.BalanceRow, error) {
	var rows []paymentdomain.BalanceRow
	err := r.db.WithContext(ctx).Raw(balanceRowSelect+`
JOIN (SELECT household_id, MAX(record_month) AS record_month
      FROM payment_records
      GROUP BY household_id) latest
  ON latest.household_id = p.household_id
 AND latest.record_month = p.record_month`,
	).Scan(&rows).Error
	return rows, err
}

func (r *repository) RowsByMonth(ctx context.Context, recordMonth time.Time) ([]paymentdomain.BalanceRow, error) {
	var rows []paymentdomain.BalanceRow
	err := r.db.WithContext(ctx).Raw(balanceRowSelect+`
WHERE p.record_month = ?`,
		recordMonth,
	).Scan(&rows).Error
	return rows, err
}

func (r *repository) LatestMonth(ctx context.Context) (*time.Time, error) {
	var result struct {
		RecordMonth *time.Time
	}
	err := r.db.WithContext(ctx).Raw(
		`SELECT MAX(record_month) AS record_month FROM payment_records`,
	).Scan(&result).Error
	if err != nil {
		return nil, err
	}
	return result.RecordMonth, nil
}
