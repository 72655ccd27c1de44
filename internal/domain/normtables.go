package domain

import (
	"github.com/shopspring/decimal"
)

// RateQuote is one interest-rate step in a housing-expense row: the
// expense-to-income quote that applies up to and including Rate.
type RateQuote struct {
	Rate  decimal.Decimal `yaml:"rate" json:"rate"`
	Quote decimal.Decimal `yaml:"quote" json:"quote"`
}

// IncomeRow is one income step of a housing-expense table. Quotes must be
// sorted ascending by rate.
type IncomeRow struct {
	Income decimal.Decimal `yaml:"income" json:"income"`
	Quotes []RateQuote     `yaml:"quotes" json:"quotes"`
}

// HousingExpenseTable maps (income, rate) to a housing-expense quote via a
// stepped lookup: the highest income step not exceeding the test income, then
// within that row the lowest rate step at or above the test rate. Rows must
// be sorted ascending by income.
type HousingExpenseTable []IncomeRow

// HousingExpenseTableSet holds the four table variants the affordability
// engine selects between: with/without AOW crossed with deductible (box 1)
// versus non-deductible (box 3) debt.
type HousingExpenseTableSet struct {
	Standard     HousingExpenseTable `yaml:"standard" json:"standard"`
	StandardBox3 HousingExpenseTable `yaml:"standard_box3" json:"standard_box3"`
	AOW          HousingExpenseTable `yaml:"aow" json:"aow"`
	AOWBox3      HousingExpenseTable `yaml:"aow_box3" json:"aow_box3"`
}

// Select returns the table for the given AOW flag and fiscal box of the debt.
func (s *HousingExpenseTableSet) Select(receivesAOW, box3 bool) HousingExpenseTable {
	switch {
	case receivesAOW && box3:
		return s.AOWBox3
	case receivesAOW:
		return s.AOW
	case box3:
		return s.StandardBox3
	default:
		return s.Standard
	}
}

// EnergyLabelNone is the tier for homes without a valid energy label. It
// carries no flat bonus but still caps a sustainability investment.
const EnergyLabelNone = "none"

// EnergyLabelTier is one energy-label bonus tier: a flat bonus plus a cap on
// the additional sustainability-investment bonus. The top tiers carry a zero
// cap, so investments no longer add borrowing room there.
type EnergyLabelTier struct {
	Label         string          `yaml:"label" json:"label"`
	Bonus         decimal.Decimal `yaml:"bonus" json:"bonus"`
	InvestmentCap decimal.Decimal `yaml:"investment_cap" json:"investment_cap"`
}

// StudentLoanBracket maps a test-rate ceiling to the student-loan annualized
// multiplier. A nil ceiling marks the fallback bracket for rates above every
// explicit ceiling.
type StudentLoanBracket struct {
	RateCeiling *decimal.Decimal `yaml:"rate_ceiling,omitempty" json:"rate_ceiling,omitempty"`
	Factor      decimal.Decimal  `yaml:"factor" json:"factor"`
}

// NormTables is the static table set backing the affordability engine. It
// does not vary by year in the current deployment but is injected as
// immutable data so a year-keyed store can replace it without touching the
// engine.
type NormTables struct {
	Version     string `yaml:"version" json:"version"`
	LastUpdated string `yaml:"last_updated,omitempty" json:"last_updated,omitempty"`

	Quotes             HousingExpenseTableSet `yaml:"quotes" json:"quotes"`
	EnergyLabels       []EnergyLabelTier      `yaml:"energy_labels" json:"energy_labels"`
	StudentLoanFactors []StudentLoanBracket   `yaml:"student_loan_factors" json:"student_loan_factors"`
	Defaults           AffordabilityConstants `yaml:"defaults" json:"defaults"`
}

// EnergyLabelTier returns the tier for a label, or false when the label is
// unknown or empty.
func (t *NormTables) EnergyLabelTier(label string) (EnergyLabelTier, bool) {
	for _, tier := range t.EnergyLabels {
		if tier.Label == label {
			return tier, true
		}
	}
	return EnergyLabelTier{}, false
}
