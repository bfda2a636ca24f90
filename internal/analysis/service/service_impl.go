package service

import (
	"context"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	analysisdomain "github.com/happytownlabs/happytown/internal/analysis/domain"
	paymentdomain "github.com/happytownlabs/happytown/internal/payment/domain"
	rankdomain "github.com/happytownlabs/happytown/internal/rank/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log *zap.Logger

	paymentRepo paymentdomain.Repository
	rankRepo    rankdomain.Repository
}

type ServiceParam struct {
	fx.In

	Log         *zap.Logger
	PaymentRepo paymentdomain.Repository
	RankRepo    rankdomain.Repository
}

func NewService(p ServiceParam) analysisdomain.Service {
	return &Service{
		log: p.Log.Named("analysis.service"),

		paymentRepo: p.PaymentRepo,
		rankRepo:    p.RankRepo,
	}
}

func (s *Service) CategorizeByRank(ctx context.Context, month *time.Time) ([]analysisdomain.CategoryGroup, error) {
	rules, err := s.rankRepo.ListActiveOrdered(ctx)
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		s.log.Warn("no active rank rules, every household classifies as the default category")
	}
	rows, err := s.rows(ctx, month)
	if err != nil {
		return nil, err
	}

	// Buckets in rule order with the sentinel last; every category is
	// present even when empty.
	groups := make([]analysisdomain.CategoryGroup, 0, len(rules)+1)
	index := make(map[string]int, len(rules)+1)
	for _, rule := range rules {
		if _, ok := index[rule.RankName]; ok {
			continue // sentinel configured as an explicit rule
		}
		index[rule.RankName] = len(groups)
		groups = append(groups, analysisdomain.CategoryGroup{Category: rule.RankName, Households: []analysisdomain.HouseholdPaymentInfo{}})
	}
	if _, ok := index[rankdomain.CategoryNormal]; !ok {
		index[rankdomain.CategoryNormal] = len(groups)
		groups = append(groups, analysisdomain.CategoryGroup{Category: rankdomain.CategoryNormal, Households: []analysisdomain.HouseholdPaymentInfo{}})
	}

	for _, row := range rows {
		info := s.householdInfo(row, rules)
		i := index[info.RankCategory]
		groups[i].Households = append(groups[i].Households, info)
	}
	for i := range groups {
		sortByBalanceDesc(groups[i].Households)
	}
	return groups, nil
}

func (s *Service) BuildingStatistics(ctx context.Context, month *time.Time) ([]analysisdomain.BuildingStatistics, error) {
	rows, err := s.rows(ctx, month)
	if err != nil {
		return nil, err
	}

	byBuilding := map[string][]paymentdomain.BalanceRow{}
	for _, row := range rows {
		byBuilding[row.BuildingNumber] = append(byBuilding[row.BuildingNumber], row)
	}

	stats := make([]analysisdomain.BuildingStatistics, 0, len(byBuilding))
	for number, group := range byBuilding {
		total, withDebt := sumBalances(group)
		average := decimal.Zero
		if len(group) > 0 {
			average = total.DivRound(decimal.NewFromInt(int64(len(group))), 2)
		}
		stats = append(stats, analysisdomain.BuildingStatistics{
			BuildingNumber:     number,
			TotalHouseholds:    len(group),
			HouseholdsWithDebt: withDebt,
			TotalOutstanding:   total,
			AverageDebt:        average,
		})
	}
	// Plain string order; suffixed numbers like "72А" sort by full string.
	sort.Slice(stats, func(i, j int) bool { return stats[i].BuildingNumber < stats[j].BuildingNumber })
	return stats, nil
}

func (s *Service) EntranceStatistics(ctx context.Context, buildingNumber string, month *time.Time) ([]analysisdomain.EntranceStatistics, error) {
	rows, err := s.rows(ctx, month)
	if err != nil {
		return nil, err
	}

	byEntrance := map[int][]paymentdomain.BalanceRow{}
	for _, row := range rows {
		if row.BuildingNumber != buildingNumber {
			continue
		}
		byEntrance[row.EntranceNumber] = append(byEntrance[row.EntranceNumber], row)
	}

	stats := make([]analysisdomain.EntranceStatistics, 0, len(byEntrance))
	for entrance, group := range byEntrance {
		total, withDebt := sumBalances(group)
		stats = append(stats, analysisdomain.EntranceStatistics{
			BuildingNumber:     buildingNumber,
			EntranceNumber:     entrance,
			TotalHouseholds:    len(group),
			HouseholdsWithDebt: withDebt,
			TotalOutstanding:   total,
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].EntranceNumber < stats[j].EntranceNumber })
	return stats, nil
}

func (s *Service) HouseholdsAboveThreshold(ctx context.Context, threshold decimal.Decimal, month *time.Time) ([]analysisdomain.HouseholdPaymentInfo, error) {
	rules, err := s.rankRepo.ListActiveOrdered(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.rows(ctx, month)
	if err != nil {
		return nil, err
	}

	infos := make([]analysisdomain.HouseholdPaymentInfo, 0, len(rows))
	for _, row := range rows {
		if row.OutstandingBalance.GreaterThanOrEqual(threshold) {
			infos = append(infos, s.householdInfo(row, rules))
		}
	}
	sortByBalanceDesc(infos)
	return infos, nil
}

func (s *Service) HouseholdHistory(ctx context.Context, householdID snowflake.ID) ([]analysisdomain.HistoryEntry, error) {
	rules, err := s.rankRepo.ListActiveOrdered(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.paymentRepo.ListByHousehold(ctx, householdID)
	if err != nil {
		return nil, err
	}

	history := make([]analysisdomain.HistoryEntry, 0, len(records))
	for i, record := range records {
		entry := analysisdomain.HistoryEntry{
			Month:              record.RecordMonth,
			OutstandingBalance: record.OutstandingBalance,
			RankCategory:       rankdomain.Classify(record.OutstandingBalance, rules),
		}
		if i > 0 {
			delta := record.OutstandingBalance.Sub(records[i-1].OutstandingBalance)
			entry.Delta = &delta
		}
		history = append(history, entry)
	}
	return history, nil
}

// rows selects the working set: one month's records, or the latest record
// per household when no month is given.
func (s *Service) rows(ctx context.Context, month *time.Time) ([]paymentdomain.BalanceRow, error) {
	if month == nil {
		return s.paymentRepo.LatestRows(ctx)
	}
	return s.paymentRepo.RowsByMonth(ctx, paymentdomain.NormalizeMonth(*month))
}

func (s *Service) householdInfo(row paymentdomain.BalanceRow, rules []rankdomain.RankConfiguration) analysisdomain.HouseholdPaymentInfo {
	return analysisdomain.HouseholdPaymentInfo{
		HouseholdID:        row.HouseholdID,
		HouseholdName:      row.HouseholdName,
		BuildingNumber:     row.BuildingNumber,
		EntranceNumber:     row.EntranceNumber,
		DoorNumber:         row.DoorNumber,
		FloorNumber:        row.FloorNumber,
		OutstandingBalance: row.OutstandingBalance,
		RecordMonth:        row.RecordMonth,
		RankCategory:       rankdomain.Classify(row.OutstandingBalance, rules),
	}
}

func sumBalances(rows []paymentdomain.BalanceRow) (total decimal.Decimal, withDebt int) {
	total = decimal.Zero
	for _, row := range rows {
		total = total.Add(row.OutstandingBalance)
		if row.OutstandingBalance.GreaterThan(decimal.Zero) {
			withDebt++
		}
	}
	return total, withDebt
}

func sortByBalanceDesc(infos []analysisdomain.HouseholdPaymentInfo) {
	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].OutstandingBalance.GreaterThan(infos[j].OutstandingBalance)
	})
}
