package calculation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rvdmeer/hyponorm/internal/domain"
)

// CalculateEWF returns the annual eigenwoningforfait (deemed rental income)
// for a WOZ value. Band selection is a containment test with inclusive
// bounds; the last band's missing upper bound is treated as unbounded. Bands
// with a fixed amount plus excess percentage implement the villa-tax regime
// for high-value property.
func CalculateEWF(wozValue decimal.Decimal, table []domain.EWFBand, fiscalYear int) (decimal.Decimal, error) {
	if wozValue.IsNegative() || len(table) == 0 {
		return decimal.Decimal{}, &WOZValueOutOfRangeError{WOZValue: wozValue, FiscalYear: fiscalYear}
	}

	bands := make([]domain.EWFBand, len(table))
	copy(bands, table)
	sort.Slice(bands, func(i, j int) bool { return bands[i].Lower.LessThan(bands[j].Lower) })

	for _, band := range bands {
		if wozValue.LessThan(band.Lower) {
			continue
		}
		if band.Upper != nil && wozValue.GreaterThan(*band.Upper) {
			continue
		}

		if band.FixedAmount != nil && band.ExcessPercentage != nil {
			threshold := band.Lower
			if band.Threshold != nil {
				threshold = *band.Threshold
			}
			excess := wozValue.Sub(threshold)
			if excess.IsNegative() {
				excess = decimal.Zero
			}
			return roundCurrency(band.FixedAmount.Add(excess.Mul(*band.ExcessPercentage))), nil
		}

		if band.Percentage != nil {
			return roundCurrency(wozValue.Mul(*band.Percentage)), nil
		}

		// Exempt band.
		return decimal.Zero, nil
	}

	// Unreachable with a well-formed table partitioning [0, inf).
	return decimal.Decimal{}, &WOZValueOutOfRangeError{WOZValue: wozValue, FiscalYear: fiscalYear}
}
