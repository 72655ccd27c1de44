package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/rvdmeer/hyponorm/internal/domain"
)

// MonthlyCostsCalculator prices a fully structured mortgage for one month
// and works out its net-of-tax cost under one fiscal year's rules.
type MonthlyCostsCalculator struct {
	Rules *domain.FiscalYearRules
}

// NewMonthlyCostsCalculator creates a calculator bound to one rule set.
func NewMonthlyCostsCalculator(rules *domain.FiscalYearRules) *MonthlyCostsCalculator {
	return &MonthlyCostsCalculator{Rules: rules}
}

type monthlyTotals struct {
	grossMonthly        decimal.Decimal
	interestMonthly     decimal.Decimal
	principalMonthly    decimal.Decimal
	interestBox1Monthly decimal.Decimal
	interestBox3Monthly decimal.Decimal
	interestBox1Annual  decimal.Decimal
	interestBox3Annual  decimal.Decimal
}

// Calculate runs the full monthly-cost pipeline for a validated request.
func (c *MonthlyCostsCalculator) Calculate(req *domain.MonthlyCostsRequest) (*domain.MonthlyCostsResponse, error) {
	loanResults, err := c.priceLoanParts(req)
	if err != nil {
		return nil, err
	}

	totals := sumLoanParts(loanResults)

	ewfAnnual := decimal.Zero
	if req.IncludeEWF {
		ewfAnnual, err = CalculateEWF(req.WOZValue, c.Rules.EWFTable, c.Rules.FiscalYear)
		if err != nil {
			return nil, err
		}
	}
	ewfMonthly := roundCurrency(ewfAnnual.Div(twelve))

	partnerInfo := make([]PartnerTaxInfo, 0, len(req.Partners))
	for _, p := range req.Partners {
		partnerInfo = append(partnerInfo, PartnerTaxInfoFor(p, c.Rules))
	}

	distribution, err := c.distribute(req, partnerInfo, totals.interestBox1Annual)
	if err != nil {
		return nil, err
	}

	effectiveRate := weightedEffectiveRate(distribution)

	interestDeductionAnnual := TotalTaxBenefit(distribution)
	interestDeductionMonthly := roundCurrency(interestDeductionAnnual.Div(twelve))

	marginalRate := combinedMarginalRate(partnerInfo)

	hillenApplicable := false
	hillenDeductionAnnual := decimal.Zero
	hillenBenefitMonthly := decimal.Zero
	if req.IncludeHillen && c.Rules.Hillen.Enabled {
		hillenDeductionAnnual = CalculateHillenDeduction(ewfAnnual, totals.interestBox1Annual, c.Rules.Hillen)
		hillenApplicable = hillenDeductionAnnual.IsPositive()
		hillenBenefitMonthly = roundCurrency(hillenDeductionAnnual.Mul(marginalRate).Div(twelve))
	}

	netEWFAdditionAnnual := ewfAnnual.Sub(hillenDeductionAnnual)
	if netEWFAdditionAnnual.IsNegative() {
		netEWFAdditionAnnual = decimal.Zero
	}
	ewfTaxMonthly := roundCurrency(netEWFAdditionAnnual.Mul(marginalRate).Div(twelve))

	breakdown := domain.TaxBreakdown{
		EWFAnnual:                ewfAnnual,
		EWFMonthly:               ewfMonthly,
		TotalInterestBox1Annual:  totals.interestBox1Annual,
		TotalInterestBox1Monthly: totals.interestBox1Monthly,
		MarginalRate:             marginalRate,
		EffectiveDeductionRate:   effectiveRate,
		InterestDeductionAnnual:  interestDeductionAnnual,
		InterestDeductionMonthly: interestDeductionMonthly,
		HillenApplicable:         hillenApplicable,
		HillenDeductionAnnual:    hillenDeductionAnnual,
		HillenBenefitMonthly:     hillenBenefitMonthly,
		NetEWFAdditionAnnual:     netEWFAdditionAnnual,
		EWFTaxMonthly:            ewfTaxMonthly,
		TotalTaxBenefitMonthly:   interestDeductionMonthly,
		TotalTaxCostMonthly:      ewfTaxMonthly,
		NetTaxEffectMonthly:      interestDeductionMonthly.Sub(ewfTaxMonthly),
	}

	var partnerResults []domain.PartnerResult
	if len(req.Partners) > 1 {
		partnerResults = buildPartnerResults(partnerInfo, distribution, ewfAnnual)
	}

	netMonthly := totals.grossMonthly.Sub(interestDeductionMonthly).Add(ewfTaxMonthly)

	return &domain.MonthlyCostsResponse{
		FiscalYear:               c.Rules.FiscalYear,
		MonthNumber:              req.MonthNumber,
		WOZValue:                 req.WOZValue,
		LoanParts:                loanResults,
		TotalGrossMonthly:        totals.grossMonthly,
		TotalInterestMonthly:     totals.interestMonthly,
		TotalPrincipalMonthly:    totals.principalMonthly,
		TotalInterestBox1Monthly: totals.interestBox1Monthly,
		TotalInterestBox3Monthly: totals.interestBox3Monthly,
		TaxBreakdown:             breakdown,
		PartnerResults:           partnerResults,
		NetMonthlyCost:           roundCurrency(netMonthly),
		Disclaimer:               domain.Disclaimer,
	}, nil
}

func (c *MonthlyCostsCalculator) priceLoanParts(req *domain.MonthlyCostsRequest) ([]domain.LoanPartResult, error) {
	results := make([]domain.LoanPartResult, 0, len(req.LoanParts))

	for _, part := range req.LoanParts {
		calc, err := CalculatorFor(part.Repayment)
		if err != nil {
			return nil, err
		}
		payment := calc.CalculateMonth(part.Principal, part.InterestRate, part.TermYears, req.MonthNumber)

		results = append(results, domain.LoanPartResult{
			LoanPartID:         part.ID,
			Repayment:          part.Repayment,
			Box:                part.Box,
			Principal:          part.Principal,
			RemainingPrincipal: payment.RemainingPrincipal,
			InterestPayment:    payment.InterestPayment,
			PrincipalPayment:   payment.PrincipalPayment,
			GrossPayment:       payment.GrossPayment,
		})
	}

	return results, nil
}

func sumLoanParts(results []domain.LoanPartResult) monthlyTotals {
	gross := decimal.Zero
	interest := decimal.Zero
	principal := decimal.Zero
	interestBox1 := decimal.Zero
	interestBox3 := decimal.Zero

	for _, r := range results {
		gross = gross.Add(r.GrossPayment)
		interest = interest.Add(r.InterestPayment)
		principal = principal.Add(r.PrincipalPayment)

		if r.Box == domain.Box1 {
			interestBox1 = interestBox1.Add(r.InterestPayment)
		} else {
			interestBox3 = interestBox3.Add(r.InterestPayment)
		}
	}

	return monthlyTotals{
		grossMonthly:        roundCurrency(gross),
		interestMonthly:     roundCurrency(interest),
		principalMonthly:    roundCurrency(principal),
		interestBox1Monthly: roundCurrency(interestBox1),
		interestBox3Monthly: roundCurrency(interestBox3),
		interestBox1Annual:  roundCurrency(interestBox1.Mul(twelve)),
		interestBox3Annual:  roundCurrency(interestBox3.Mul(twelve)),
	}
}

func (c *MonthlyCostsCalculator) distribute(
	req *domain.MonthlyCostsRequest,
	partnerInfo []PartnerTaxInfo,
	totalInterestAnnual decimal.Decimal,
) (DistributionResult, error) {
	partner1 := partnerInfo[0]
	var partner2 *PartnerTaxInfo
	if len(partnerInfo) > 1 {
		partner2 = &partnerInfo[1]
	}

	method := domain.DistributeFixedPercent
	parameter := decimal.NewFromInt(100)
	if partner2 != nil {
		parameter = decimal.NewFromInt(50)
	}
	paramPtr := &parameter

	if req.Distribution != nil && partner2 != nil {
		method = req.Distribution.Method
		paramPtr = req.Distribution.Parameter
	}

	return DistributeInterest(totalInterestAnnual, partner1, partner2, method, c.Rules.MaxDeductionRate, paramPtr)
}

// weightedEffectiveRate is the share-weighted capped rate shown in the
// breakdown. Not to be confused with the household marginal rate used for
// the EWF and Hillen tax amounts.
func weightedEffectiveRate(d DistributionResult) decimal.Decimal {
	if d.Partner2Share.IsZero() {
		return d.Partner1EffectiveRate
	}
	total := d.Partner1Share.Add(d.Partner2Share)
	if total.IsZero() {
		return d.Partner1EffectiveRate
	}
	weighted := d.Partner1Share.Mul(d.Partner1EffectiveRate).
		Add(d.Partner2Share.Mul(d.Partner2EffectiveRate)).
		Div(total)
	return roundCurrency(weighted)
}

// combinedMarginalRate is the household display rate: the single partner's
// marginal rate, or the maximum of both.
func combinedMarginalRate(partnerInfo []PartnerTaxInfo) decimal.Decimal {
	if len(partnerInfo) == 1 {
		return partnerInfo[0].MarginalRate
	}
	max := partnerInfo[0].MarginalRate
	for _, p := range partnerInfo[1:] {
		if p.MarginalRate.GreaterThan(max) {
			max = p.MarginalRate
		}
	}
	return max
}

// buildPartnerResults produces the per-partner breakdown. The EWF share is
// split 50/50 regardless of the interest distribution method.
func buildPartnerResults(partnerInfo []PartnerTaxInfo, d DistributionResult, ewfAnnual decimal.Decimal) []domain.PartnerResult {
	two := decimal.NewFromInt(2)
	ewfShare := ewfAnnual.Div(two)

	results := []domain.PartnerResult{{
		PartnerID:               partnerInfo[0].PartnerID,
		TaxableIncome:           partnerInfo[0].TaxableIncome,
		MarginalRate:            partnerInfo[0].MarginalRate,
		EffectiveRate:           d.Partner1EffectiveRate,
		InterestShareAnnual:     d.Partner1Share,
		InterestDeductionAnnual: roundCurrency(d.Partner1Share.Mul(d.Partner1EffectiveRate)),
		EWFShareAnnual:          ewfShare,
	}}

	if len(partnerInfo) > 1 {
		results = append(results, domain.PartnerResult{
			PartnerID:               partnerInfo[1].PartnerID,
			TaxableIncome:           partnerInfo[1].TaxableIncome,
			MarginalRate:            partnerInfo[1].MarginalRate,
			EffectiveRate:           d.Partner2EffectiveRate,
			InterestShareAnnual:     d.Partner2Share,
			InterestDeductionAnnual: roundCurrency(d.Partner2Share.Mul(d.Partner2EffectiveRate)),
			EWFShareAnnual:          ewfShare,
		})
	}

	return results
}
