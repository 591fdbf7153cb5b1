package services

import (
	"encoding/json"
	"log"
	"os"

	"phongtro/internal/models/db_models"
	"phongtro/pkg/utils"
)

type TierPricing struct {
	DailyPrice   int64 `json:"daily_price"`
	WeeklyPrice  int64 `json:"weekly_price"`
	MonthlyPrice int64 `json:"monthly_price"`
	Priority     int   `json:"priority"` // 1 = highest display priority
}

// PricingTable is the five-tier price table, in whole VND. It is loaded
// once at process start and treated as immutable afterwards.
type PricingTable map[db_models.PostTier]TierPricing

func DefaultPricingTable() PricingTable {
	return PricingTable{
		db_models.TierVipNoiBat: {DailyPrice: 50000, WeeklyPrice: 315000, MonthlyPrice: 1800000, Priority: 1},
		db_models.TierVip1:      {DailyPrice: 30000, WeeklyPrice: 190000, MonthlyPrice: 1200000, Priority: 2},
		db_models.TierVip2:      {DailyPrice: 20000, WeeklyPrice: 133000, MonthlyPrice: 800000, Priority: 3},
		db_models.TierVip3:      {DailyPrice: 10000, WeeklyPrice: 63000, MonthlyPrice: 400000, Priority: 4},
		db_models.TierStandard:  {Priority: 5},
	}
}

// LoadPricingTable returns the default table, optionally overridden per
// tier by the JSON file named in PRICING_TABLE_FILE.
func LoadPricingTable() PricingTable {
	table := DefaultPricingTable()

	path := os.Getenv("PRICING_TABLE_FILE")
	if path == "" {
		return table
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Error reading pricing table file %s: %v", path, err)
		return table
	}

	var overrides map[db_models.PostTier]TierPricing
	if err := json.Unmarshal(raw, &overrides); err != nil {
		log.Printf("Error parsing pricing table file %s: %v", path, err)
		return table
	}

	for tier, pricing := range overrides {
		if !tier.Valid() {
			log.Printf("Ignoring pricing override for unknown tier %q", tier)
			continue
		}
		table[tier] = pricing
	}

	// STANDARD is never paid regardless of configuration.
	std := table[db_models.TierStandard]
	std.DailyPrice, std.WeeklyPrice, std.MonthlyPrice = 0, 0, 0
	std.Priority = 5
	table[db_models.TierStandard] = std

	return table
}

type PricingServiceInterface interface {
	// Cost prices days of featured visibility at tier's rates. Callers
	// enforce policy caps on days; the calculator only rejects days <= 0.
	Cost(tier db_models.PostTier, days int) (int64, error)
	Priority(tier db_models.PostTier) int
	Table() PricingTable
}

type pricingService struct {
	table PricingTable
}

func NewPricingService(table PricingTable) PricingServiceInterface {
	return &pricingService{table: table}
}

func (p *pricingService) Cost(tier db_models.PostTier, days int) (int64, error) {
	if !tier.Valid() {
		return 0, utils.ErrInvalidTier
	}
	if days <= 0 {
		return 0, utils.ErrInvalidDuration
	}

	if tier == db_models.TierStandard {
		return 0, nil
	}

	pricing := p.table[tier]

	// Bucket selection. At exactly 7 or 30 days the larger bucket wins
	// even when small multiples of the daily rate would be cheaper.
	switch {
	case days >= 30:
		months := int64((days + 29) / 30)
		return months * pricing.MonthlyPrice, nil
	case days >= 7:
		weeks := int64((days + 6) / 7)
		return weeks * pricing.WeeklyPrice, nil
	default:
		return int64(days) * pricing.DailyPrice, nil
	}
}

func (p *pricingService) Priority(tier db_models.PostTier) int {
	if pricing, ok := p.table[tier]; ok {
		return pricing.Priority
	}
	return 5
}

func (p *pricingService) Table() PricingTable {
	out := make(PricingTable, len(p.table))
	for tier, pricing := range p.table {
		out[tier] = pricing
	}
	return out
}
