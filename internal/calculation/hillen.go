package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/rvdmeer/hyponorm/internal/domain"
)

// CalculateHillenDeduction returns the Wet Hillen deduction: a fraction of
// the gap between the eigenwoningforfait and the deductible interest, granted
// only when the interest falls short of the EWF. The reduction percentage is
// the phase-out dial and comes straight from the fiscal rules.
func CalculateHillenDeduction(ewf, deductibleInterest decimal.Decimal, cfg domain.HillenConfig) decimal.Decimal {
	if !cfg.Enabled {
		return decimal.Zero
	}
	if deductibleInterest.GreaterThanOrEqual(ewf) {
		return decimal.Zero
	}
	return roundCurrency(ewf.Sub(deductibleInterest).Mul(cfg.ReductionPercentage))
}

// CalculateNetEWFAddition returns the EWF addition that remains taxable
// after the Hillen deduction, floored at zero.
func CalculateNetEWFAddition(ewf, deductibleInterest decimal.Decimal, cfg domain.HillenConfig) decimal.Decimal {
	net := ewf.Sub(CalculateHillenDeduction(ewf, deductibleInterest, cfg))
	if net.IsNegative() {
		return decimal.Zero
	}
	return net
}
