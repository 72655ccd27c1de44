package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvdmeer/hyponorm/internal/domain"
)

func fixtureMonthlyRequest() *domain.MonthlyCostsRequest {
	return &domain.MonthlyCostsRequest{
		FiscalYear: 2026,
		WOZValue:   decimal.NewFromInt(450000),
		LoanParts: []domain.MonthlyLoanPart{
			{
				ID:           "part-1",
				Principal:    decimal.NewFromInt(100000),
				InterestRate: decimal.NewFromFloat(0.048),
				TermYears:    30,
				Repayment:    domain.RepaymentInterestOnly,
				Box:          domain.Box1,
			},
		},
		Partners: []domain.Partner{
			{ID: "p1", TaxableIncome: decimal.NewFromInt(65000), Age: 41},
		},
		MonthNumber:   1,
		IncludeEWF:    true,
		IncludeHillen: true,
	}
}

func TestMonthlyCostsSinglePartner(t *testing.T) {
	calc := NewMonthlyCostsCalculator(fixtureRules())

	resp, err := calc.Calculate(fixtureMonthlyRequest())
	require.NoError(t, err)

	// 100000 at 4.8% interest-only: 400 per month, 4800 per year.
	assert.True(t, resp.TotalGrossMonthly.Equal(decimal.NewFromInt(400)),
		"gross %s", resp.TotalGrossMonthly)
	assert.True(t, resp.TaxBreakdown.TotalInterestBox1Annual.Equal(decimal.NewFromInt(4800)))

	// EWF: 450000 * 0.0035 = 1575 per year.
	assert.True(t, resp.TaxBreakdown.EWFAnnual.Equal(decimal.NewFromInt(1575)))
	assert.True(t, resp.TaxBreakdown.EWFMonthly.Equal(decimal.NewFromFloat(131.25)))

	// 65000 sits in the middle bracket; the cap changes nothing.
	assert.True(t, resp.TaxBreakdown.MarginalRate.Equal(decimal.NewFromFloat(0.3756)))
	assert.True(t, resp.TaxBreakdown.EffectiveDeductionRate.Equal(decimal.NewFromFloat(0.3756)))

	// Deduction: 4800 * 0.3756 = 1802.88 per year, 150.24 per month.
	assert.True(t, resp.TaxBreakdown.InterestDeductionMonthly.Equal(decimal.NewFromFloat(150.24)),
		"deduction %s", resp.TaxBreakdown.InterestDeductionMonthly)

	// Interest exceeds the EWF, so no Hillen deduction applies.
	assert.False(t, resp.TaxBreakdown.HillenApplicable)
	assert.True(t, resp.TaxBreakdown.HillenDeductionAnnual.IsZero())

	// EWF tax: 1575 * 0.3756 / 12 = 49.30 per month.
	assert.True(t, resp.TaxBreakdown.EWFTaxMonthly.Equal(decimal.NewFromFloat(49.30)),
		"ewf tax %s", resp.TaxBreakdown.EWFTaxMonthly)

	// Net: 400 - 150.24 + 49.30.
	assert.True(t, resp.NetMonthlyCost.Equal(decimal.NewFromFloat(299.06)),
		"net %s", resp.NetMonthlyCost)

	assert.Empty(t, resp.PartnerResults, "single partner gets no per-partner breakdown")
	assert.Equal(t, domain.Disclaimer, resp.Disclaimer)
}

func TestMonthlyCostsIsIdempotent(t *testing.T) {
	calc := NewMonthlyCostsCalculator(fixtureRules())
	req := fixtureMonthlyRequest()

	first, err := calc.Calculate(req)
	require.NoError(t, err)
	second, err := calc.Calculate(req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestMonthlyCostsTwoPartnersDefaultSplit(t *testing.T) {
	req := fixtureMonthlyRequest()
	req.LoanParts[0].Principal = decimal.NewFromInt(250000)
	req.Partners = append(req.Partners,
		domain.Partner{ID: "p2", TaxableIncome: decimal.NewFromInt(30000), Age: 39})

	resp, err := NewMonthlyCostsCalculator(fixtureRules()).Calculate(req)
	require.NoError(t, err)

	// 250000 at 4.8%: 1000 per month, 12000 per year, split 50/50 by default.
	require.Len(t, resp.PartnerResults, 2)
	assert.True(t, resp.PartnerResults[0].InterestShareAnnual.Equal(decimal.NewFromInt(6000)),
		"p1 share %s", resp.PartnerResults[0].InterestShareAnnual)
	assert.True(t, resp.PartnerResults[1].InterestShareAnnual.Equal(decimal.NewFromInt(6000)),
		"p2 share %s", resp.PartnerResults[1].InterestShareAnnual)

	// Household marginal rate is the max of both partners.
	assert.True(t, resp.TaxBreakdown.MarginalRate.Equal(decimal.NewFromFloat(0.3756)))

	// EWF is always shared 50/50.
	assert.True(t, resp.PartnerResults[0].EWFShareAnnual.Equal(decimal.NewFromFloat(787.50)))
	assert.True(t, resp.PartnerResults[1].EWFShareAnnual.Equal(decimal.NewFromFloat(787.50)))
}

func TestMonthlyCostsHillen(t *testing.T) {
	// A small interest-only part keeps the annual interest below the EWF.
	req := fixtureMonthlyRequest()
	req.LoanParts[0].Principal = decimal.NewFromInt(20000)
	req.LoanParts[0].InterestRate = decimal.NewFromFloat(0.03)

	resp, err := NewMonthlyCostsCalculator(fixtureRules()).Calculate(req)
	require.NoError(t, err)

	// Interest 600 per year against an EWF of 1575: deduction (1575-600)*0.5.
	assert.True(t, resp.TaxBreakdown.HillenApplicable)
	assert.True(t, resp.TaxBreakdown.HillenDeductionAnnual.Equal(decimal.NewFromFloat(487.50)),
		"hillen %s", resp.TaxBreakdown.HillenDeductionAnnual)
	assert.True(t, resp.TaxBreakdown.NetEWFAdditionAnnual.Equal(decimal.NewFromFloat(1087.50)))

	// Switching Hillen off restores the full addition.
	req.IncludeHillen = false
	resp, err = NewMonthlyCostsCalculator(fixtureRules()).Calculate(req)
	require.NoError(t, err)
	assert.False(t, resp.TaxBreakdown.HillenApplicable)
	assert.True(t, resp.TaxBreakdown.NetEWFAdditionAnnual.Equal(decimal.NewFromInt(1575)))
}

func TestMonthlyCostsWithoutEWF(t *testing.T) {
	req := fixtureMonthlyRequest()
	req.IncludeEWF = false

	resp, err := NewMonthlyCostsCalculator(fixtureRules()).Calculate(req)
	require.NoError(t, err)

	assert.True(t, resp.TaxBreakdown.EWFAnnual.IsZero())
	assert.True(t, resp.TaxBreakdown.EWFTaxMonthly.IsZero())
	assert.True(t, resp.NetMonthlyCost.Equal(
		resp.TotalGrossMonthly.Sub(resp.TaxBreakdown.InterestDeductionMonthly)))
}

func TestMonthlyCostsBox3InterestNotDeducted(t *testing.T) {
	req := fixtureMonthlyRequest()
	req.LoanParts = append(req.LoanParts, domain.MonthlyLoanPart{
		ID:           "part-box3",
		Principal:    decimal.NewFromInt(60000),
		InterestRate: decimal.NewFromFloat(0.05),
		TermYears:    30,
		Repayment:    domain.RepaymentInterestOnly,
		Box:          domain.Box3,
	})

	resp, err := NewMonthlyCostsCalculator(fixtureRules()).Calculate(req)
	require.NoError(t, err)

	assert.True(t, resp.TotalInterestBox1Monthly.Equal(decimal.NewFromInt(400)))
	assert.True(t, resp.TotalInterestBox3Monthly.Equal(decimal.NewFromInt(250)))
	// The deduction still follows box 1 only.
	assert.True(t, resp.TaxBreakdown.InterestDeductionMonthly.Equal(decimal.NewFromFloat(150.24)))
}

func TestMonthlyCostsRejectsSavingsPart(t *testing.T) {
	req := fixtureMonthlyRequest()
	req.LoanParts[0].Repayment = domain.RepaymentSavings

	_, err := NewMonthlyCostsCalculator(fixtureRules()).Calculate(req)
	var inputErr *DomainInputError
	require.ErrorAs(t, err, &inputErr)
}
