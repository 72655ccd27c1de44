package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/rvdmeer/hyponorm/internal/domain"
)

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func fixtureRules() *domain.FiscalYearRules {
	return &domain.FiscalYearRules{
		FiscalYear: 2026,
		TaxBracketsBox1: []domain.TaxBracket{
			{Lower: decimal.Zero, Upper: decimalPtr(decimal.NewFromInt(38883)), Rate: decimal.NewFromFloat(0.3575)},
			{Lower: decimal.NewFromInt(38883), Upper: decimalPtr(decimal.NewFromInt(78426)), Rate: decimal.NewFromFloat(0.3756)},
			{Lower: decimal.NewFromInt(78426), Rate: decimal.NewFromFloat(0.495)},
		},
		TaxBracketsBox1AOW: []domain.TaxBracket{
			{Lower: decimal.Zero, Upper: decimalPtr(decimal.NewFromInt(38883)), Rate: decimal.NewFromFloat(0.1792)},
			{Lower: decimal.NewFromInt(38883), Upper: decimalPtr(decimal.NewFromInt(78426)), Rate: decimal.NewFromFloat(0.3756)},
			{Lower: decimal.NewFromInt(78426), Rate: decimal.NewFromFloat(0.495)},
		},
		MaxDeductionRate: decimal.NewFromFloat(0.3756),
		EWFTable: []domain.EWFBand{
			{Lower: decimal.Zero, Upper: decimalPtr(decimal.NewFromInt(75000))},
			{
				Lower:      decimal.NewFromInt(75001),
				Upper:      decimalPtr(decimal.NewFromInt(1350000)),
				Percentage: decimalPtr(decimal.NewFromFloat(0.0035)),
			},
			{
				Lower:            decimal.NewFromInt(1350001),
				FixedAmount:      decimalPtr(decimal.NewFromInt(4725)),
				ExcessPercentage: decimalPtr(decimal.NewFromFloat(0.0235)),
				Threshold:        decimalPtr(decimal.NewFromInt(1350000)),
			},
		},
		Hillen: domain.HillenConfig{
			Enabled:             true,
			ReductionPercentage: decimal.NewFromFloat(0.5),
		},
		AOWAge: 67,
	}
}

// fixtureQuoteTable builds a single-step housing-expense table: one income
// row at zero with one quote for every rate.
func fixtureQuoteTable(quote float64) domain.HousingExpenseTable {
	return domain.HousingExpenseTable{
		{
			Income: decimal.Zero,
			Quotes: []domain.RateQuote{
				{Rate: decimal.NewFromFloat(0.065), Quote: decimal.NewFromFloat(quote)},
			},
		},
	}
}

func fixtureNormTables() *domain.NormTables {
	return &domain.NormTables{
		Version: "test",
		Quotes: domain.HousingExpenseTableSet{
			Standard:     fixtureQuoteTable(0.26),
			StandardBox3: fixtureQuoteTable(0.23),
			AOW:          fixtureQuoteTable(0.27),
			AOWBox3:      fixtureQuoteTable(0.24),
		},
		EnergyLabels: []domain.EnergyLabelTier{
			{Label: domain.EnergyLabelNone, Bonus: decimal.Zero, InvestmentCap: decimal.NewFromInt(10000)},
			{Label: "C", Bonus: decimal.NewFromInt(5000), InvestmentCap: decimal.NewFromInt(15000)},
			{Label: "A", Bonus: decimal.NewFromInt(10000), InvestmentCap: decimal.NewFromInt(10000)},
			{Label: "A++++", Bonus: decimal.NewFromInt(30000), InvestmentCap: decimal.Zero},
		},
		StudentLoanFactors: []domain.StudentLoanBracket{
			{RateCeiling: decimalPtr(decimal.NewFromFloat(0.015)), Factor: decimal.NewFromFloat(1.05)},
			{RateCeiling: decimalPtr(decimal.NewFromFloat(0.045)), Factor: decimal.NewFromFloat(1.2)},
			{RateCeiling: decimalPtr(decimal.NewFromFloat(0.065)), Factor: decimal.NewFromFloat(1.4)},
			{Factor: decimal.NewFromFloat(1.4)},
		},
		Defaults: domain.DefaultAffordabilityConstants(),
	}
}

func fixtureAffordabilityInput() *domain.AffordabilityInput {
	return &domain.AffordabilityInput{
		Applicant: domain.ApplicantIncome{Main: decimal.NewFromInt(60000)},
		Alone:     true,
		Constants: domain.DefaultAffordabilityConstants(),
	}
}
