package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/rvdmeer/hyponorm/internal/domain"
)

func TestMarginalRate(t *testing.T) {
	brackets := fixtureRules().TaxBracketsBox1

	tests := []struct {
		name     string
		income   decimal.Decimal
		expected decimal.Decimal
	}{
		{"zero income falls back to the lowest rate", decimal.Zero, decimal.NewFromFloat(0.3575)},
		{"first bracket", decimal.NewFromInt(30000), decimal.NewFromFloat(0.3575)},
		{"exactly on a bound stays in the lower bracket", decimal.NewFromInt(38883), decimal.NewFromFloat(0.3575)},
		{"one euro into the second bracket", decimal.NewFromInt(38884), decimal.NewFromFloat(0.3756)},
		{"middle bracket", decimal.NewFromInt(65000), decimal.NewFromFloat(0.3756)},
		{"top bracket", decimal.NewFromInt(120000), decimal.NewFromFloat(0.495)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MarginalRate(tt.income, brackets)
			assert.True(t, got.Equal(tt.expected), "expected %s, got %s", tt.expected, got)
		})
	}

	assert.True(t, MarginalRate(decimal.NewFromInt(50000), nil).IsZero())
}

func TestEffectiveDeductionRate(t *testing.T) {
	cap := decimal.NewFromFloat(0.3756)

	got := EffectiveDeductionRate(decimal.NewFromFloat(0.495), cap)
	assert.True(t, got.Equal(cap), "high rates are capped, got %s", got)

	low := decimal.NewFromFloat(0.3575)
	got = EffectiveDeductionRate(low, cap)
	assert.True(t, got.Equal(low), "rates under the cap pass through, got %s", got)
}

func TestBracketsFor(t *testing.T) {
	rules := fixtureRules()

	young := domain.Partner{ID: "p1", Age: 40}
	assert.Equal(t, rules.TaxBracketsBox1, BracketsFor(young, rules))

	byAge := domain.Partner{ID: "p2", Age: 70}
	assert.Equal(t, rules.TaxBracketsBox1AOW, BracketsFor(byAge, rules))

	byFlag := domain.Partner{ID: "p3", Age: 50, IsAOW: true}
	assert.Equal(t, rules.TaxBracketsBox1AOW, BracketsFor(byFlag, rules))

	// Without an AOW table everyone uses the regular brackets.
	noAOW := fixtureRules()
	noAOW.TaxBracketsBox1AOW = nil
	assert.Equal(t, noAOW.TaxBracketsBox1, BracketsFor(byAge, noAOW))
}
