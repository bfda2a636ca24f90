package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/bwmarrin/snowflake"
	complexrepository "github.com/happytownlabs/happytown/internal/complex/repository"
	householddomain "github.com/happytownlabs/happytown/internal/household/domain"
	householdrepository "github.com/happytownlabs/happytown/internal/household/repository"
	paymentdomain "github.com/happytownlabs/happytown/internal/payment/domain"
	paymentrepository "github.com/happytownlabs/happytown/internal/payment/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var demoNames = []string{
	"Батбаяр", "Оюунчимэг", "Төмөрбаатар", "Сарангэрэл", "Энхбаяр",
	"Цэцэгмаа", "Болдбаатар", "Алтанцэцэг", "Мөнхбаяр", "Наранцэцэг",
	"Гантөмөр", "Оюунтуяа", "Батсайхан", "Цэцэгдулам", "Энхтуяа",
	"Пүрэвбаатар", "Сарантуяа", "Мөнхтуяа", "Баттөмөр", "Цэцэгжаргал",
}

var demoMonths = []time.Time{
	time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
	time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC),
	time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
}

// SeedDemoData fills every apartment with a household and three months of
// simulated balances. The RNG seed is fixed so repeated runs on a fresh
// database produce the same data set.
func SeedDemoData(db *gorm.DB, node *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	rng := rand.New(rand.NewSource(42))
	ctx := context.Background()

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		complexRepo := complexrepository.NewRepository(tx)
		households := householdrepository.NewRepository(tx)
		payments := paymentrepository.NewRepository(tx)

		count, err := households.Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		apartments, err := complexRepo.ListApartments(ctx)
		if err != nil {
			return err
		}

		for _, apartment := range apartments {
			household := &householddomain.Household{
				ID:            node.Generate(),
				HouseholdName: demoNames[rng.Intn(len(demoNames))] + "-ийн гэр бүл",
				ApartmentID:   apartment.ID,
			}
			if rng.Intn(2) == 0 {
				contact := fmt.Sprintf("Утас: %d", 88000000+rng.Intn(10000000))
				household.ContactInfo = &contact
			}
			if err := households.Insert(ctx, household); err != nil {
				return err
			}

			balance := randomBalance(rng)
			for _, month := range demoMonths {
				balance = nextMonthBalance(balance, rng)
				record := &paymentdomain.PaymentRecord{
					ID:                 node.Generate(),
					HouseholdID:        household.ID,
					RecordMonth:        month,
					OutstandingBalance: balance,
					UploadDate:         month,
				}
				if err := payments.Insert(ctx, record); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// randomBalance draws an opening balance skewed toward the normal tier.
func randomBalance(rng *rand.Rand) decimal.Decimal {
	switch p := rng.Intn(100); {
	case p < 60:
		return decimal.NewFromInt(int64(rng.Intn(100000)))
	case p < 80:
		return decimal.NewFromInt(int64(100000 + rng.Intn(400000)))
	case p < 95:
		return decimal.NewFromInt(int64(500000 + rng.Intn(500000)))
	default:
		return decimal.NewFromInt(int64(1000000 + rng.Intn(2000000)))
	}
}

// nextMonthBalance simulates payment behavior: some pay down, some stall,
// some accumulate.
func nextMonthBalance(previous decimal.Decimal, rng *rand.Rand) decimal.Decimal {
	switch p := rng.Intn(100); {
	case p < 30:
		payment := previous.Mul(decimal.NewFromFloat(0.1 + rng.Float64()*0.8))
		next := previous.Sub(payment).Round(2)
		if next.IsNegative() {
			return decimal.Zero
		}
		return next
	case p < 60:
		return previous.Add(decimal.NewFromInt(int64(rng.Intn(50000))))
	default:
		debt := randomBalance(rng).Mul(decimal.NewFromFloat(0.1 + rng.Float64()*0.3))
		return previous.Add(debt.Round(2))
	}
}
