// Package pricing computes the rental charge for a completed rental as
// base daily price x billed days x the product of all rule multipliers.
package pricing

import (
	"sort"
	"time"

	"github.com/carfleet-billing/internal/domain/money"
	"github.com/shopspring/decimal"
)

// Rule contributes one multiplicative factor to the rental charge
type Rule interface {
	// Multiplier returns the factor for the given rental parameters
	Multiplier(durationDays int64, carYear int, referenceDate time.Time) decimal.Decimal
}

// Engine applies an ordered set of pricing rules
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine applying the given rules in order
func NewEngine(rules ...Rule) *Engine {
	return &Engine{rules: rules}
}

// DefaultEngine builds the production rule set: base factor, duration
// discounts at 7 and 14 days, and age depreciation.
func DefaultEngine() *Engine {
	return NewEngine(
		BaseRule{},
		NewDurationDiscountRule(map[int64]decimal.Decimal{
			7:  decimal.NewFromFloat(0.05),
			14: decimal.NewFromFloat(0.10),
		}),
		AgeDepreciationRule{},
	)
}

// Calculate returns the total rental charge rounded to two decimal
// places. Durations below one day are billed as one day.
func (e *Engine) Calculate(baseDailyPrice money.Money, durationDays int64, carYear int, referenceDate time.Time) money.Money {
	if durationDays < 1 {
		durationDays = 1
	}
	total := baseDailyPrice.MulInt(durationDays)
	for _, rule := range e.rules {
		total = total.MulFactor(rule.Multiplier(durationDays, carYear, referenceDate))
	}
	return total.Round()
}

// BaseRule contributes a neutral factor of one
type BaseRule struct{}

func (BaseRule) Multiplier(int64, int, time.Time) decimal.Decimal {
	return decimal.NewFromInt(1)
}

// DurationDiscountRule discounts longer rentals. Thresholds are checked
// in ascending order and the highest threshold the duration reaches
// determines the discount.
type DurationDiscountRule struct {
	thresholds []int64
	discounts  map[int64]decimal.Decimal
}

// NewDurationDiscountRule builds a rule from a threshold-to-discount map
func NewDurationDiscountRule(tiers map[int64]decimal.Decimal) DurationDiscountRule {
	thresholds := make([]int64, 0, len(tiers))
	for days := range tiers {
		thresholds = append(thresholds, days)
	}
	sort.Slice(thresholds, func(i, j int) bool { return thresholds[i] < thresholds[j] })
	return DurationDiscountRule{thresholds: thresholds, discounts: tiers}
}

func (r DurationDiscountRule) Multiplier(durationDays int64, _ int, _ time.Time) decimal.Decimal {
	discount := decimal.Zero
	for _, threshold := range r.thresholds {
		if durationDays >= threshold {
			discount = r.discounts[threshold]
		}
	}
	return decimal.NewFromInt(1).Sub(discount)
}

// AgeDepreciationRule reduces the charge by 2% per year of car age,
// with age capped at ten years so the factor never drops below 0.8.
type AgeDepreciationRule struct{}

var (
	depreciationPerYear = decimal.NewFromFloat(0.02)
	depreciationFloor   = decimal.NewFromFloat(0.8)
)

func (AgeDepreciationRule) Multiplier(_ int64, carYear int, referenceDate time.Time) decimal.Decimal {
	age := referenceDate.Year() - carYear
	if age < 0 {
		age = 0
	}
	if age > 10 {
		age = 10
	}
	factor := decimal.NewFromInt(1).Sub(depreciationPerYear.Mul(decimal.NewFromInt(int64(age))))
	if factor.LessThan(depreciationFloor) {
		return depreciationFloor
	}
	return factor
}
