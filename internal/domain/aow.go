package domain

import (
	"time"
)

// AOWCategory is the three-way retirement classification used as an input
// signal by the affordability engine.
type AOWCategory string

const (
	AOWReached       AOWCategory = "REACHED"
	AOWWithin10Years AOWCategory = "WITHIN_10_YEARS"
	AOWMoreThan10    AOWCategory = "MORE_THAN_10_YEARS"
)

// AOWRow maps a birth-date ceiling to the statutory retirement age for that
// cohort, expressed as years plus months.
type AOWRow struct {
	BornOnOrBefore time.Time `yaml:"born_on_or_before" json:"born_on_or_before"`
	Years          int       `yaml:"years" json:"years"`
	Months         int       `yaml:"months" json:"months"`
}

// AOWOffset is the unconditional fallback for birth dates past every
// explicit ceiling.
type AOWOffset struct {
	Years  int `yaml:"years" json:"years"`
	Months int `yaml:"months" json:"months"`
}

// AOWTable is the statutory retirement-age table. Rows must be sorted
// ascending by ceiling; the fallback applies beyond the last row.
type AOWTable struct {
	Version  string    `yaml:"version,omitempty" json:"version,omitempty"`
	Rows     []AOWRow  `yaml:"rows" json:"rows"`
	Fallback AOWOffset `yaml:"fallback" json:"fallback"`
}

// AOWClassification is the classifier output for one birth date.
type AOWClassification struct {
	Category       AOWCategory `yaml:"category" json:"category"`
	RetirementDate time.Time   `yaml:"retirement_date" json:"retirement_date"`
	// YearsRemaining is years + months/12, rounded to one decimal, zero once
	// the retirement date has been reached.
	YearsRemaining float64 `yaml:"years_remaining" json:"years_remaining"`
}
