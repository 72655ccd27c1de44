package calculation

import (
	"math"
	"time"

	"github.com/rvdmeer/hyponorm/internal/domain"
)

// AOWCalculator resolves statutory retirement dates from the cohort table
// and classifies how far away they are.
type AOWCalculator struct {
	Table *domain.AOWTable
}

// NewAOWCalculator creates a classifier bound to one cohort table.
func NewAOWCalculator(table *domain.AOWTable) *AOWCalculator {
	return &AOWCalculator{Table: table}
}

// RetirementDate returns the statutory retirement date for a birth date:
// the birth date shifted by the age of the first cohort row whose ceiling
// covers it, or by the fallback age past the last row.
func (c *AOWCalculator) RetirementDate(birthDate time.Time) time.Time {
	years, months := c.Table.Fallback.Years, c.Table.Fallback.Months
	for _, row := range c.Table.Rows {
		if !birthDate.After(row.BornOnOrBefore) {
			years, months = row.Years, row.Months
			break
		}
	}
	return addYearsMonths(birthDate, years, months)
}

// Classify categorizes a birth date relative to a reference date. Within
// ten years means the remaining whole years plus months, rounded to one
// decimal, do not exceed 10.0.
func (c *AOWCalculator) Classify(birthDate, referenceDate time.Time) domain.AOWClassification {
	retirement := c.RetirementDate(birthDate)

	if !retirement.After(referenceDate) {
		return domain.AOWClassification{
			Category:       domain.AOWReached,
			RetirementDate: retirement,
			YearsRemaining: 0,
		}
	}

	months := monthsBetween(referenceDate, retirement)
	yearsRemaining := math.Round(float64(months)/12*10) / 10

	category := domain.AOWMoreThan10
	if yearsRemaining <= 10.0 {
		category = domain.AOWWithin10Years
	}

	return domain.AOWClassification{
		Category:       category,
		RetirementDate: retirement,
		YearsRemaining: yearsRemaining,
	}
}

// addYearsMonths shifts a date by calendar years and months, clamping the
// day to the length of the target month (Jan 31 plus one month is Feb 28,
// not Mar 3).
func addYearsMonths(t time.Time, years, months int) time.Time {
	y, m, d := t.Date()
	total := int(m) - 1 + months + years*12
	y += total / 12
	mm := time.Month(total%12 + 1)
	if last := daysIn(y, mm); d > last {
		d = last
	}
	return time.Date(y, mm, d, 0, 0, 0, 0, t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// monthsBetween counts the whole calendar months from one date to a later
// one. A partial trailing month does not count, judged after day clamping
// so that month-end cohorts are not shortchanged.
func monthsBetween(from, to time.Time) int {
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if months > 0 && addYearsMonths(from, 0, months).After(to) {
		months--
	}
	if months < 0 {
		months = 0
	}
	return months
}
