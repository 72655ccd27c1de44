package calculation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rvdmeer/hyponorm/internal/domain"
)

// MarginalRate returns the rate on the last euro of income: the rate of the
// highest bracket whose lower bound lies strictly below the income. Income
// at or below every lower bound falls back to the lowest bracket's rate.
func MarginalRate(taxableIncome decimal.Decimal, brackets []domain.TaxBracket) decimal.Decimal {
	if len(brackets) == 0 {
		return decimal.Zero
	}

	sorted := make([]domain.TaxBracket, len(brackets))
	copy(sorted, brackets)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Lower.GreaterThan(sorted[j].Lower) })

	for _, b := range sorted {
		if taxableIncome.GreaterThan(b.Lower) {
			return b.Rate
		}
	}
	return sorted[len(sorted)-1].Rate
}

// EffectiveDeductionRate caps a marginal rate at the maximum
// mortgage-interest deduction rate, the limitation phased in since 2014.
func EffectiveDeductionRate(marginalRate, maxDeductionRate decimal.Decimal) decimal.Decimal {
	if marginalRate.GreaterThan(maxDeductionRate) {
		return maxDeductionRate
	}
	return marginalRate
}

// BracketsFor selects the bracket table for a partner: the AOW table when
// the partner is past AOW age and an AOW table exists, the regular table
// otherwise.
func BracketsFor(partner domain.Partner, rules *domain.FiscalYearRules) []domain.TaxBracket {
	aowAge := rules.AOWAge
	if aowAge == 0 {
		aowAge = domain.DefaultAOWAge
	}
	if (partner.IsAOW || partner.Age >= aowAge) && len(rules.TaxBracketsBox1AOW) > 0 {
		return rules.TaxBracketsBox1AOW
	}
	return rules.TaxBracketsBox1
}
