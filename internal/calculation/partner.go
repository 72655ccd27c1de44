package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/rvdmeer/hyponorm/internal/domain"
)

// PartnerTaxInfo is the derived tax position of one partner.
type PartnerTaxInfo struct {
	PartnerID     string
	TaxableIncome decimal.Decimal
	MarginalRate  decimal.Decimal
	IsAOW         bool
}

// DistributionResult is the outcome of splitting annual box-1 interest
// between up to two partners. The shares always sum exactly to the total.
type DistributionResult struct {
	Partner1Share         decimal.Decimal
	Partner2Share         decimal.Decimal
	Partner1EffectiveRate decimal.Decimal
	Partner2EffectiveRate decimal.Decimal
}

// PartnerTaxInfoFor derives a partner's marginal rate from the applicable
// bracket table.
func PartnerTaxInfoFor(partner domain.Partner, rules *domain.FiscalYearRules) PartnerTaxInfo {
	aowAge := rules.AOWAge
	if aowAge == 0 {
		aowAge = domain.DefaultAOWAge
	}
	return PartnerTaxInfo{
		PartnerID:     partner.ID,
		TaxableIncome: partner.TaxableIncome,
		MarginalRate:  MarginalRate(partner.TaxableIncome, BracketsFor(partner, rules)),
		IsAOW:         partner.IsAOW || partner.Age >= aowAge,
	}
}

// DistributeInterest splits the annual deductible interest between partners.
//
// A single partner takes everything at their capped rate. For two partners
// fixed_percent gives partner 1 a rounded percentage and partner 2 the exact
// remainder (so the shares sum to the total despite rounding), fixed_amount
// gives partner 1 the amount capped at the total, and optimize assigns the
// full amount to the partner with the higher capped rate, ties to partner 1.
func DistributeInterest(
	totalInterest decimal.Decimal,
	partner1 PartnerTaxInfo,
	partner2 *PartnerTaxInfo,
	method domain.DistributionMethod,
	maxDeductionRate decimal.Decimal,
	parameter *decimal.Decimal,
) (DistributionResult, error) {
	if partner2 == nil {
		return DistributionResult{
			Partner1Share:         totalInterest,
			Partner2Share:         decimal.Zero,
			Partner1EffectiveRate: EffectiveDeductionRate(partner1.MarginalRate, maxDeductionRate),
			Partner2EffectiveRate: decimal.Zero,
		}, nil
	}

	p1Rate := EffectiveDeductionRate(partner1.MarginalRate, maxDeductionRate)
	p2Rate := EffectiveDeductionRate(partner2.MarginalRate, maxDeductionRate)

	var p1Share, p2Share decimal.Decimal

	switch method {
	case domain.DistributeFixedPercent:
		if parameter == nil {
			return DistributionResult{}, &DomainInputError{
				Field: "distribution.parameter", Value: "", Reason: "fixed_percent requires a percentage (0-100)",
			}
		}
		p1Share = roundCurrency(totalInterest.Mul(parameter.Div(decimal.NewFromInt(100))))
		p2Share = totalInterest.Sub(p1Share)

	case domain.DistributeFixedAmount:
		if parameter == nil {
			return DistributionResult{}, &DomainInputError{
				Field: "distribution.parameter", Value: "", Reason: "fixed_amount requires an amount",
			}
		}
		p1Share = *parameter
		if p1Share.GreaterThan(totalInterest) {
			p1Share = totalInterest
		}
		p1Share = roundCurrency(p1Share)
		p2Share = totalInterest.Sub(p1Share)

	case domain.DistributeOptimize:
		if p1Rate.GreaterThanOrEqual(p2Rate) {
			p1Share = totalInterest
			p2Share = decimal.Zero
		} else {
			p1Share = decimal.Zero
			p2Share = totalInterest
		}

	default:
		return DistributionResult{}, &DomainInputError{
			Field: "distribution.method", Value: string(method), Reason: "unknown distribution method",
		}
	}

	return DistributionResult{
		Partner1Share:         p1Share,
		Partner2Share:         p2Share,
		Partner1EffectiveRate: p1Rate,
		Partner2EffectiveRate: p2Rate,
	}, nil
}

// TotalTaxBenefit returns the combined annual deduction benefit of a
// distribution.
func TotalTaxBenefit(d DistributionResult) decimal.Decimal {
	p1 := d.Partner1Share.Mul(d.Partner1EffectiveRate)
	p2 := d.Partner2Share.Mul(d.Partner2EffectiveRate)
	return roundCurrency(p1.Add(p2))
}
