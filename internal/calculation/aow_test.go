package calculation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rvdmeer/hyponorm/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixtureAOWTable() *domain.AOWTable {
	return &domain.AOWTable{
		Rows: []domain.AOWRow{
			{BornOnOrBefore: date(1947, time.December, 31), Years: 65, Months: 0},
			{BornOnOrBefore: date(1956, time.May, 31), Years: 66, Months: 10},
			{BornOnOrBefore: date(1960, time.December, 31), Years: 67, Months: 0},
		},
		Fallback: domain.AOWOffset{Years: 67, Months: 3},
	}
}

func TestAOWRetirementDate(t *testing.T) {
	calc := NewAOWCalculator(fixtureAOWTable())

	tests := []struct {
		name      string
		birthDate time.Time
		expected  time.Time
	}{
		{"earliest cohort", date(1940, time.May, 10), date(2005, time.May, 10)},
		{"ceiling itself belongs to the cohort", date(1947, time.December, 31), date(2012, time.December, 31)},
		{"first row past a ceiling moves to the next cohort", date(1948, time.January, 1), date(2014, time.November, 1)},
		{"67-year cohort", date(1958, time.July, 15), date(2025, time.July, 15)},
		{"fallback beyond the last ceiling", date(1970, time.March, 15), date(2037, time.June, 15)},
		{"day clamps to the shorter target month", date(1956, time.January, 31), date(2022, time.November, 30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.RetirementDate(tt.birthDate)
			assert.True(t, got.Equal(tt.expected), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestAOWClassify(t *testing.T) {
	calc := NewAOWCalculator(fixtureAOWTable())
	reference := date(2026, time.August, 29)

	tests := []struct {
		name           string
		birthDate      time.Time
		reference      time.Time
		category       domain.AOWCategory
		yearsRemaining float64
	}{
		{
			name:           "long since reached",
			birthDate:      date(1940, time.May, 10),
			reference:      reference,
			category:       domain.AOWReached,
			yearsRemaining: 0,
		},
		{
			name:           "reached on the reference date itself",
			birthDate:      date(1958, time.July, 15),
			reference:      date(2025, time.July, 15),
			category:       domain.AOWReached,
			yearsRemaining: 0,
		},
		{
			name:           "exactly ten years away is still within ten",
			birthDate:      date(1970, time.March, 15),
			reference:      date(2027, time.June, 15),
			category:       domain.AOWWithin10Years,
			yearsRemaining: 10.0,
		},
		{
			name:           "just over ten years away",
			birthDate:      date(1970, time.March, 15),
			reference:      date(2026, time.August, 29),
			category:       domain.AOWMoreThan10,
			yearsRemaining: 10.8,
		},
		{
			name:           "a few years short",
			birthDate:      date(1960, time.June, 1),
			reference:      reference,
			category:       domain.AOWWithin10Years,
			yearsRemaining: 0.8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.Classify(tt.birthDate, tt.reference)
			assert.Equal(t, tt.category, got.Category)
			assert.Equal(t, tt.yearsRemaining, got.YearsRemaining)
		})
	}
}

func TestMonthsBetween(t *testing.T) {
	tests := []struct {
		name     string
		from     time.Time
		to       time.Time
		expected int
	}{
		{"same day", date(2026, time.March, 15), date(2026, time.March, 15), 0},
		{"partial month does not count", date(2026, time.March, 15), date(2026, time.April, 14), 0},
		{"exact month", date(2026, time.March, 15), date(2026, time.April, 15), 1},
		{"exact years", date(2026, time.March, 15), date(2036, time.March, 15), 120},
		{"month-end clamp still counts the month", date(2026, time.January, 31), date(2026, time.February, 28), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, monthsBetween(tt.from, tt.to))
		})
	}
}
