package rules

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rvdmeer/hyponorm/internal/domain"
)

var one = decimal.NewFromInt(1)

// Validate checks a fiscal rule set for internal consistency. A rule set that
// passes can be fed to the calculators without further guards.
func Validate(r *domain.FiscalYearRules) error {
	if r.FiscalYear < 1900 || r.FiscalYear > 2200 {
		return fmt.Errorf("implausible fiscal year %d", r.FiscalYear)
	}

	if err := validateBrackets("tax_brackets_box1", r.TaxBracketsBox1); err != nil {
		return err
	}
	if len(r.TaxBracketsBox1AOW) > 0 {
		if err := validateBrackets("tax_brackets_box1_aow", r.TaxBracketsBox1AOW); err != nil {
			return err
		}
	}

	if !rateInRange(r.MaxDeductionRate) {
		return fmt.Errorf("max_deduction_rate %s outside [0, 1]", r.MaxDeductionRate)
	}
	if !rateInRange(r.Hillen.ReductionPercentage) {
		return fmt.Errorf("hillen reduction_percentage %s outside [0, 1]", r.Hillen.ReductionPercentage)
	}

	return validateEWFBands(r.EWFTable)
}

// validateBrackets requires a contiguous, ascending bracket table whose last
// bracket is unbounded.
func validateBrackets(name string, brackets []domain.TaxBracket) error {
	if len(brackets) == 0 {
		return fmt.Errorf("%s is empty", name)
	}

	for i, b := range brackets {
		if b.Lower.IsNegative() {
			return fmt.Errorf("%s[%d]: negative lower bound %s", name, i, b.Lower)
		}
		if !rateInRange(b.Rate) {
			return fmt.Errorf("%s[%d]: rate %s outside [0, 1]", name, i, b.Rate)
		}

		last := i == len(brackets)-1
		if last {
			if b.Upper != nil {
				return fmt.Errorf("%s[%d]: last bracket must be unbounded", name, i)
			}
			continue
		}
		if b.Upper == nil {
			return fmt.Errorf("%s[%d]: only the last bracket may be unbounded", name, i)
		}
		if !b.Upper.GreaterThan(b.Lower) {
			return fmt.Errorf("%s[%d]: upper %s not above lower %s", name, i, b.Upper, b.Lower)
		}
		if !brackets[i+1].Lower.Equal(*b.Upper) {
			return fmt.Errorf("%s[%d]: next lower %s does not continue at upper %s",
				name, i, brackets[i+1].Lower, b.Upper)
		}
	}

	return nil
}

// validateEWFBands requires the bands to partition [0, inf) exactly: the
// first band starts at zero, each next band starts one past the previous
// upper bound, and the last band is unbounded. Band bounds are inclusive,
// so equal neighbors overlap and a jump of two leaves a gap.
func validateEWFBands(bands []domain.EWFBand) error {
	if len(bands) == 0 {
		return fmt.Errorf("ewf_table is empty")
	}
	if !bands[0].Lower.IsZero() {
		return fmt.Errorf("ewf_table[0]: first band must start at 0, got %s", bands[0].Lower)
	}

	for i, b := range bands {
		if err := validateEWFBandShape(i, b); err != nil {
			return err
		}

		last := i == len(bands)-1
		if last {
			if b.Upper != nil {
				return fmt.Errorf("ewf_table[%d]: last band must be unbounded", i)
			}
			continue
		}
		if b.Upper == nil {
			return fmt.Errorf("ewf_table[%d]: only the last band may be unbounded", i)
		}
		if b.Upper.LessThan(b.Lower) {
			return fmt.Errorf("ewf_table[%d]: upper %s below lower %s", i, b.Upper, b.Lower)
		}

		next := bands[i+1].Lower
		if !next.GreaterThan(*b.Upper) {
			return fmt.Errorf("ewf_table[%d]: band starting at %s overlaps band ending at %s", i+1, next, b.Upper)
		}
		if next.GreaterThan(b.Upper.Add(one)) {
			return fmt.Errorf("ewf_table[%d]: gap between %s and %s", i+1, b.Upper, next)
		}
	}

	return nil
}

func validateEWFBandShape(i int, b domain.EWFBand) error {
	switch {
	case b.Percentage != nil:
		if b.FixedAmount != nil || b.ExcessPercentage != nil {
			return fmt.Errorf("ewf_table[%d]: percentage band carries fixed-amount fields", i)
		}
		if !rateInRange(*b.Percentage) {
			return fmt.Errorf("ewf_table[%d]: percentage %s outside [0, 1]", i, b.Percentage)
		}
	case b.FixedAmount != nil:
		if b.ExcessPercentage == nil {
			return fmt.Errorf("ewf_table[%d]: fixed-amount band without excess_percentage", i)
		}
		if !rateInRange(*b.ExcessPercentage) {
			return fmt.Errorf("ewf_table[%d]: excess_percentage %s outside [0, 1]", i, b.ExcessPercentage)
		}
	case b.ExcessPercentage != nil:
		return fmt.Errorf("ewf_table[%d]: excess_percentage without fixed_amount", i)
	}
	return nil
}

func rateInRange(rate decimal.Decimal) bool {
	return !rate.IsNegative() && rate.LessThanOrEqual(one)
}
