package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validNormTablesYAML = `
version: "test"
defaults:
  test_rate: 0.05
quotes:
  standard:
    - income: 0
      quotes:
        - { rate: 0.05, quote: 0.20 }
  standard_box3:
    - income: 0
      quotes:
        - { rate: 0.05, quote: 0.18 }
  aow:
    - income: 0
      quotes:
        - { rate: 0.05, quote: 0.21 }
  aow_box3:
    - income: 0
      quotes:
        - { rate: 0.05, quote: 0.19 }
energy_labels:
  - { label: "A", bonus: 5000, investment_cap: 10000 }
student_loan_factors:
  - { rate_ceiling: 0.065, factor: 1.4 }
  - { factor: 1.4 }
`

const validAOWYAML = `
version: "test"
rows:
  - { born_on_or_before: 1947-12-31, years: 65, months: 0 }
  - { born_on_or_before: 1960-12-31, years: 67, months: 0 }
fallback: { years: 67, months: 3 }
`

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tables.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadNormTables(t *testing.T) {
	tables, err := LoadNormTables(writeTempFile(t, validNormTablesYAML), nil)
	require.NoError(t, err)

	assert.Equal(t, "test", tables.Version)
	assert.Len(t, tables.Quotes.Standard, 1)

	// Absent defaults fall back to the published norm parameters.
	assert.True(t, tables.Defaults.TestRate.Equal(mustDecimal("0.05")))
	assert.Equal(t, 360, tables.Defaults.LoanTermMonths)
	assert.True(t, tables.Defaults.SingleEarnerAllowance.Equal(mustDecimal("17000")))
}

func TestLoadNormTablesRejectsBadData(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "missing file section",
			content: "version: \"x\"\n",
			want:    "is empty",
		},
		{
			name: "student brackets without fallback",
			content: `
version: "x"
quotes:
  standard: [{ income: 0, quotes: [{ rate: 0.05, quote: 0.2 }] }]
  standard_box3: [{ income: 0, quotes: [{ rate: 0.05, quote: 0.2 }] }]
  aow: [{ income: 0, quotes: [{ rate: 0.05, quote: 0.2 }] }]
  aow_box3: [{ income: 0, quotes: [{ rate: 0.05, quote: 0.2 }] }]
student_loan_factors:
  - { rate_ceiling: 0.065, factor: 1.4 }
`,
			want: "uncapped fallback",
		},
		{
			name: "duplicate energy label",
			content: `
version: "x"
quotes:
  standard: [{ income: 0, quotes: [{ rate: 0.05, quote: 0.2 }] }]
  standard_box3: [{ income: 0, quotes: [{ rate: 0.05, quote: 0.2 }] }]
  aow: [{ income: 0, quotes: [{ rate: 0.05, quote: 0.2 }] }]
  aow_box3: [{ income: 0, quotes: [{ rate: 0.05, quote: 0.2 }] }]
energy_labels:
  - { label: "A", bonus: 0, investment_cap: 0 }
  - { label: "A", bonus: 5000, investment_cap: 0 }
student_loan_factors:
  - { factor: 1.4 }
`,
			want: "duplicate label",
		},
		{
			name: "quote out of range",
			content: `
version: "x"
quotes:
  standard: [{ income: 0, quotes: [{ rate: 0.05, quote: 1.2 }] }]
  standard_box3: [{ income: 0, quotes: [{ rate: 0.05, quote: 0.2 }] }]
  aow: [{ income: 0, quotes: [{ rate: 0.05, quote: 0.2 }] }]
  aow_box3: [{ income: 0, quotes: [{ rate: 0.05, quote: 0.2 }] }]
student_loan_factors:
  - { factor: 1.4 }
`,
			want: "outside [0, 1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadNormTables(writeTempFile(t, tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadAOWTable(t *testing.T) {
	table, err := LoadAOWTable(writeTempFile(t, validAOWYAML), nil)
	require.NoError(t, err)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, 65, table.Rows[0].Years)
	assert.Equal(t, 67, table.Fallback.Years)
	assert.Equal(t, 3, table.Fallback.Months)
}

func TestLoadAOWTableRejectsBadData(t *testing.T) {
	unordered := `
rows:
  - { born_on_or_before: 1960-12-31, years: 67, months: 0 }
  - { born_on_or_before: 1947-12-31, years: 65, months: 0 }
fallback: { years: 67, months: 3 }
`
	_, err := LoadAOWTable(writeTempFile(t, unordered), nil)
	require.ErrorContains(t, err, "not ascending")

	badMonths := `
rows:
  - { born_on_or_before: 1947-12-31, years: 65, months: 12 }
fallback: { years: 67, months: 3 }
`
	_, err = LoadAOWTable(writeTempFile(t, badMonths), nil)
	require.ErrorContains(t, err, "implausible")
}

func TestShippedEnergyLabelSchedule(t *testing.T) {
	tables, err := LoadNormTables(filepath.Join("..", "..", "config", "normtables.yaml"), nil)
	require.NoError(t, err)

	want := []struct {
		label string
		bonus string
		cap   string
	}{
		{"none", "0", "10000"},
		{"G", "0", "20000"},
		{"F", "0", "20000"},
		{"E", "0", "20000"},
		{"D", "5000", "15000"},
		{"C", "5000", "15000"},
		{"B", "10000", "10000"},
		{"A", "10000", "10000"},
		{"A+", "20000", "10000"},
		{"A++", "20000", "10000"},
		{"A+++", "25000", "0"},
		{"A++++", "30000", "0"},
		{"A+++++", "40000", "0"},
	}
	require.Len(t, tables.EnergyLabels, len(want))
	for _, w := range want {
		tier, ok := tables.EnergyLabelTier(w.label)
		require.True(t, ok, "label %s", w.label)
		assert.True(t, tier.Bonus.Equal(mustDecimal(w.bonus)),
			"label %s: bonus %s, want %s", w.label, tier.Bonus, w.bonus)
		assert.True(t, tier.InvestmentCap.Equal(mustDecimal(w.cap)),
			"label %s: cap %s, want %s", w.label, tier.InvestmentCap, w.cap)
	}
}

func TestShippedStudentLoanFactors(t *testing.T) {
	tables, err := LoadNormTables(filepath.Join("..", "..", "config", "normtables.yaml"), nil)
	require.NoError(t, err)

	want := []struct {
		ceiling string
		factor  string
	}{
		{"0.015", "1.05"},
		{"0.020", "1.05"},
		{"0.025", "1.10"},
		{"0.030", "1.15"},
		{"0.035", "1.20"},
		{"0.040", "1.20"},
		{"0.045", "1.25"},
		{"0.050", "1.30"},
		{"0.055", "1.30"},
		{"0.060", "1.35"},
		{"0.065", "1.40"},
		{"", "1.40"},
	}
	require.Len(t, tables.StudentLoanFactors, len(want))
	for i, w := range want {
		bracket := tables.StudentLoanFactors[i]
		if w.ceiling == "" {
			assert.Nil(t, bracket.RateCeiling, "bracket %d is the fallback", i)
		} else {
			require.NotNil(t, bracket.RateCeiling, "bracket %d", i)
			assert.True(t, bracket.RateCeiling.Equal(mustDecimal(w.ceiling)),
				"bracket %d: ceiling %s, want %s", i, bracket.RateCeiling, w.ceiling)
		}
		assert.True(t, bracket.Factor.Equal(mustDecimal(w.factor)),
			"bracket %d: factor %s, want %s", i, bracket.Factor, w.factor)
	}
}

func TestShippedDataFilesAreValid(t *testing.T) {
	_, err := LoadNormTables(filepath.Join("..", "..", "config", "normtables.yaml"), nil)
	assert.NoError(t, err)

	_, err = LoadAOWTable(filepath.Join("..", "..", "config", "aow.yaml"), nil)
	assert.NoError(t, err)

	store := NewStore(filepath.Join("..", "..", "config", "rules"), nil)
	years, err := store.AvailableYears()
	require.NoError(t, err)
	require.NotEmpty(t, years)
	for _, year := range years {
		_, err := store.Get(year)
		assert.NoError(t, err, "rules for %d", year)
	}
}
