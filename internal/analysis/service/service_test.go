package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	analysisdomain "github.com/happytownlabs/happytown/internal/analysis/domain"
	complexdomain "github.com/happytownlabs/happytown/internal/complex/domain"
	householddomain "github.com/happytownlabs/happytown/internal/household/domain"
	paymentdomain "github.com/happytownlabs/happytown/internal/payment/domain"
	paymentrepository "github.com/happytownlabs/happytown/internal/payment/repository"
	rankdomain "github.com/happytownlabs/happytown/internal/rank/domain"
	rankrepository "github.com/happytownlabs/happytown/internal/rank/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	july      = time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	august    = time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	september = time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	t    *testing.T
	db   *gorm.DB
	node *snowflake.Node

	buildings map[string]*complexdomain.Building
	entrances map[string]*complexdomain.Entrance
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&complexdomain.Building{},
		&complexdomain.Entrance{},
		&complexdomain.Apartment{},
		&householddomain.Household{},
		&paymentdomain.PaymentRecord{},
		&rankdomain.RankConfiguration{},
	))
	node, err := snowflake.NewNode(9)
	require.NoError(t, err)
	return &fixture{
		t:         t,
		db:        db,
		node:      node,
		buildings: map[string]*complexdomain.Building{},
		entrances: map[string]*complexdomain.Entrance{},
	}
}

func (f *fixture) service() analysisdomain.Service {
	return NewService(ServiceParam{
		Log:         zap.NewNop(),
		PaymentRepo: paymentrepository.NewRepository(f.db),
		RankRepo:    rankrepository.NewRepository(f.db),
	})
}

func (f *fixture) addRule(name string, threshold int64) {
	f.t.Helper()
	require.NoError(f.t, f.db.Create(&rankdomain.RankConfiguration{
		ID:              f.node.Generate(),
		RankName:        name,
		ThresholdAmount: decimal.NewFromInt(threshold),
		IsActive:        true,
	}).Error)
}

func (f *fixture) defaultRules() {
	f.addRule("Хувалз", 1_000_000)
	f.addRule("Өндөр эрсдэлтэй", 500_000)
	f.addRule("Дунд эрсдэлтэй", 100_000)
}

func (f *fixture) addHousehold(building string, entrance, door int, name string) snowflake.ID {
	f.t.Helper()
	b, ok := f.buildings[building]
	if !ok {
		b = &complexdomain.Building{ID: f.node.Generate(), BuildingNumber: building, EntranceCount: 3}
		require.NoError(f.t, f.db.Create(b).Error)
		f.buildings[building] = b
	}
	entranceKey := building + "-" + string(rune('0'+entrance))
	e, ok := f.entrances[entranceKey]
	if !ok {
		e = &complexdomain.Entrance{ID: f.node.Generate(), BuildingID: b.ID, EntranceNumber: entrance}
		require.NoError(f.t, f.db.Create(e).Error)
		f.entrances[entranceKey] = e
	}
	apartment := &complexdomain.Apartment{
		ID:          f.node.Generate(),
		EntranceID:  e.ID,
		DoorNumber:  door,
		FloorNumber: complexdomain.FloorForDoor(door),
	}
	require.NoError(f.t, f.db.Create(apartment).Error)

	household := &householddomain.Household{
		ID:            f.node.Generate(),
		HouseholdName: name,
		ApartmentID:   apartment.ID,
	}
	require.NoError(f.t, f.db.Create(household).Error)
	return household.ID
}

func (f *fixture) addPayment(householdID snowflake.ID, month time.Time, balance int64) {
	f.t.Helper()
	require.NoError(f.t, f.db.Create(&paymentdomain.PaymentRecord{
		ID:                 f.node.Generate(),
		HouseholdID:        householdID,
		RecordMonth:        month,
		OutstandingBalance: decimal.NewFromInt(balance),
		UploadDate:         month.Add(14 * 24 * time.Hour),
	}).Error)
}

func TestCategorizeByRank(t *testing.T) {
	f := newFixture(t)
	f.defaultRules()

	extreme := f.addHousehold("71", 1, 1, "Bat")
	medium1 := f.addHousehold("71", 1, 2, "Dorj")
	medium2 := f.addHousehold("71", 2, 3, "Suren")
	normal := f.addHousehold("72", 1, 4, "Tuya")

	f.addPayment(extreme, september, 1_200_000)
	f.addPayment(medium1, september, 150_000)
	f.addPayment(medium2, september, 100_000) // boundary, threshold is inclusive
	f.addPayment(normal, september, 50_000)

	groups, err := f.service().CategorizeByRank(context.Background(), &september)
	require.NoError(t, err)
	require.Len(t, groups, 4)

	// Rule order, sentinel last, empty tiers still present.
	assert.Equal(t, "Хувалз", groups[0].Category)
	assert.Equal(t, "Өндөр эрсдэлтэй", groups[1].Category)
	assert.Equal(t, "Дунд эрсдэлтэй", groups[2].Category)
	assert.Equal(t, rankdomain.CategoryNormal, groups[3].Category)

	require.Len(t, groups[0].Households, 1)
	assert.Equal(t, extreme, groups[0].Households[0].HouseholdID)
	assert.Empty(t, groups[1].Households)
	require.Len(t, groups[2].Households, 2)
	assert.Equal(t, medium1, groups[2].Households[0].HouseholdID) // balance descending
	assert.Equal(t, medium2, groups[2].Households[1].HouseholdID)
	require.Len(t, groups[3].Households, 1)
	assert.Equal(t, "71-1-1", groups[0].Households[0].FullAddress())
}

func TestBuildingStatistics(t *testing.T) {
	f := newFixture(t)

	a := f.addHousehold("71", 1, 1, "Bat")
	b := f.addHousehold("71", 1, 2, "Dorj")
	c := f.addHousehold("71", 2, 3, "Suren")
	d := f.addHousehold("73", 1, 1, "Tuya")
	e := f.addHousehold("72А", 1, 1, "Naran")
	g := f.addHousehold("72", 1, 1, "Oyun")

	f.addPayment(a, september, 100)
	f.addPayment(b, september, 200)
	f.addPayment(c, september, 250)
	f.addPayment(d, september, 0)
	f.addPayment(e, september, 900)
	f.addPayment(g, september, 300)

	stats, err := f.service().BuildingStatistics(context.Background(), &september)
	require.NoError(t, err)
	require.Len(t, stats, 4)

	// Plain string order puts the suffixed building between "72" and "73".
	assert.Equal(t, "71", stats[0].BuildingNumber)
	assert.Equal(t, "72", stats[1].BuildingNumber)
	assert.Equal(t, "72А", stats[2].BuildingNumber)
	assert.Equal(t, "73", stats[3].BuildingNumber)

	assert.Equal(t, 3, stats[0].TotalHouseholds)
	assert.Equal(t, 3, stats[0].HouseholdsWithDebt)
	assert.True(t, stats[0].TotalOutstanding.Equal(decimal.NewFromInt(550)))
	// 550 / 3 rounded half up to two decimals.
	assert.Equal(t, "183.33", stats[0].AverageDebt.StringFixed(2))

	assert.Equal(t, 1, stats[3].TotalHouseholds)
	assert.Equal(t, 0, stats[3].HouseholdsWithDebt)
	assert.True(t, stats[3].AverageDebt.IsZero())
}

func TestEntranceStatistics(t *testing.T) {
	f := newFixture(t)

	a := f.addHousehold("71", 2, 10, "Bat")
	b := f.addHousehold("71", 2, 11, "Dorj")
	c := f.addHousehold("71", 1, 1, "Suren")
	other := f.addHousehold("72", 1, 1, "Tuya")

	f.addPayment(a, september, 1000)
	f.addPayment(b, september, 0)
	f.addPayment(c, september, 500)
	f.addPayment(other, september, 9999)

	stats, err := f.service().EntranceStatistics(context.Background(), "71", &september)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, 1, stats[0].EntranceNumber)
	assert.Equal(t, 1, stats[0].TotalHouseholds)
	assert.True(t, stats[0].TotalOutstanding.Equal(decimal.NewFromInt(500)))

	assert.Equal(t, 2, stats[1].EntranceNumber)
	assert.Equal(t, 2, stats[1].TotalHouseholds)
	assert.Equal(t, 1, stats[1].HouseholdsWithDebt)
	assert.True(t, stats[1].TotalOutstanding.Equal(decimal.NewFromInt(1000)))
}

func TestHouseholdsAboveThreshold(t *testing.T) {
	f := newFixture(t)
	f.defaultRules()

	low := f.addHousehold("71", 1, 1, "Bat")
	exact := f.addHousehold("71", 1, 2, "Dorj")
	high := f.addHousehold("71", 1, 3, "Suren")

	f.addPayment(low, september, 99_999)
	f.addPayment(exact, september, 100_000)
	f.addPayment(high, september, 750_000)

	infos, err := f.service().HouseholdsAboveThreshold(context.Background(), decimal.NewFromInt(100_000), &september)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	assert.Equal(t, high, infos[0].HouseholdID)
	assert.Equal(t, "Өндөр эрсдэлтэй", infos[0].RankCategory)
	assert.Equal(t, exact, infos[1].HouseholdID)
	assert.Equal(t, "Дунд эрсдэлтэй", infos[1].RankCategory)
}

func TestHouseholdHistory(t *testing.T) {
	f := newFixture(t)
	f.defaultRules()

	id := f.addHousehold("71", 1, 1, "Bat")
	f.addPayment(id, july, 100_000)
	f.addPayment(id, august, 150_000)
	f.addPayment(id, september, 120_000)

	history, err := f.service().HouseholdHistory(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, history, 3)

	assert.True(t, history[0].Month.Equal(july))
	assert.Nil(t, history[0].Delta)
	assert.Equal(t, "Дунд эрсдэлтэй", history[0].RankCategory)

	require.NotNil(t, history[1].Delta)
	assert.True(t, history[1].Delta.Equal(decimal.NewFromInt(50_000)))

	require.NotNil(t, history[2].Delta)
	assert.True(t, history[2].Delta.Equal(decimal.NewFromInt(-30_000)))
}

func TestNilMonthSelectsLatestPerHousehold(t *testing.T) {
	f := newFixture(t)
	f.defaultRules()

	steady := f.addHousehold("71", 1, 1, "Bat")
	stale := f.addHousehold("71", 1, 2, "Dorj")

	f.addPayment(steady, august, 400_000)
	f.addPayment(steady, september, 600_000)
	f.addPayment(stale, august, 50_000)

	groups, err := f.service().CategorizeByRank(context.Background(), nil)
	require.NoError(t, err)

	var seen []snowflake.ID
	byID := map[snowflake.ID]analysisdomain.HouseholdPaymentInfo{}
	for _, group := range groups {
		for _, info := range group.Households {
			seen = append(seen, info.HouseholdID)
			byID[info.HouseholdID] = info
		}
	}
	require.Len(t, seen, 2)

	// The steady household counts by its newest month, the stale one by the
	// last month it appeared in.
	assert.True(t, byID[steady].OutstandingBalance.Equal(decimal.NewFromInt(600_000)))
	assert.True(t, byID[steady].RecordMonth.Equal(september))
	assert.True(t, byID[stale].OutstandingBalance.Equal(decimal.NewFromInt(50_000)))
	assert.True(t, byID[stale].RecordMonth.Equal(august))
}

func TestCategorizeWithNoRules(t *testing.T) {
	f := newFixture(t)

	id := f.addHousehold("71", 1, 1, "Bat")
	f.addPayment(id, september, 5_000_000)

	groups, err := f.service().CategorizeByRank(context.Background(), &september)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, rankdomain.CategoryNormal, groups[0].Category)
	require.Len(t, groups[0].Households, 1)
}
