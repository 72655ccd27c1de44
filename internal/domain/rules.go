package domain

import (
	"github.com/shopspring/decimal"
)

// TaxBracket is one box-1 income tax bracket. A nil Upper means the bracket
// is unbounded; the last bracket of a valid table always is.
type TaxBracket struct {
	Lower decimal.Decimal  `yaml:"lower" json:"lower"`
	Upper *decimal.Decimal `yaml:"upper,omitempty" json:"upper,omitempty"`
	Rate  decimal.Decimal  `yaml:"rate" json:"rate"`
}

// EWFBand is one eigenwoningforfait band. Bounds are inclusive on both
// sides; a nil Upper means unbounded. A band carries exactly one of:
//   - Percentage: the standard flat EWF percentage of the WOZ value,
//   - FixedAmount + ExcessPercentage (+ Threshold): the villa-tax regime,
//   - nothing: an exempt band (EWF of zero).
type EWFBand struct {
	Lower            decimal.Decimal  `yaml:"lower" json:"lower"`
	Upper            *decimal.Decimal `yaml:"upper,omitempty" json:"upper,omitempty"`
	Percentage       *decimal.Decimal `yaml:"percentage,omitempty" json:"percentage,omitempty"`
	FixedAmount      *decimal.Decimal `yaml:"fixed_amount,omitempty" json:"fixed_amount,omitempty"`
	ExcessPercentage *decimal.Decimal `yaml:"excess_percentage,omitempty" json:"excess_percentage,omitempty"`
	Threshold        *decimal.Decimal `yaml:"threshold,omitempty" json:"threshold,omitempty"`
}

// HillenConfig configures the Wet Hillen phase-out. The reduction percentage
// shrinks year over year in the published tables; the engine treats it as an
// opaque value.
type HillenConfig struct {
	Enabled             bool            `yaml:"enabled" json:"enabled"`
	ReductionPercentage decimal.Decimal `yaml:"reduction_percentage" json:"reduction_percentage"`
}

// FiscalYearRules is the immutable rule set for one fiscal year, consumed by
// the monthly-cost engine. Loaded once per year by the rules store and never
// mutated afterwards.
type FiscalYearRules struct {
	FiscalYear int `yaml:"fiscal_year" json:"fiscal_year"`

	TaxBracketsBox1 []TaxBracket `yaml:"tax_brackets_box1" json:"tax_brackets_box1"`
	// TaxBracketsBox1AOW is the alternate bracket table for partners at or
	// past AOW age. Optional; the regular table applies when absent.
	TaxBracketsBox1AOW []TaxBracket `yaml:"tax_brackets_box1_aow,omitempty" json:"tax_brackets_box1_aow,omitempty"`

	MaxDeductionRate decimal.Decimal `yaml:"max_deduction_rate" json:"max_deduction_rate"`

	EWFTable []EWFBand    `yaml:"ewf_table" json:"ewf_table"`
	Hillen   HillenConfig `yaml:"hillen" json:"hillen"`

	// AOWAge is the age from which the AOW bracket table applies.
	AOWAge int `yaml:"aow_age,omitempty" json:"aow_age,omitempty"`

	EffectiveDate string `yaml:"effective_date,omitempty" json:"effective_date,omitempty"`
	Source        string `yaml:"source,omitempty" json:"source,omitempty"`
	Notes         string `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// DefaultAOWAge applies when a rules file does not pin the AOW age.
const DefaultAOWAge = 67
