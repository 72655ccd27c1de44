package domain

import (
	"github.com/shopspring/decimal"
)

// DistributionMethod selects how annual box-1 interest is split between two
// fiscal partners.
type DistributionMethod string

const (
	// DistributeFixedPercent assigns partner 1 a percentage (0-100) of the
	// total; partner 2 receives the remainder.
	DistributeFixedPercent DistributionMethod = "fixed_percent"
	// DistributeFixedAmount assigns partner 1 a fixed amount capped at the
	// total; partner 2 receives the remainder.
	DistributeFixedAmount DistributionMethod = "fixed_amount"
	// DistributeOptimize assigns everything to the partner with the higher
	// capped deduction rate. Ties go to partner 1.
	DistributeOptimize DistributionMethod = "optimize"
)

// Partner is one fiscal partner in a monthly-cost request.
type Partner struct {
	ID            string          `yaml:"id" json:"id"`
	TaxableIncome decimal.Decimal `yaml:"taxable_income" json:"taxable_income"`
	Age           int             `yaml:"age" json:"age"`
	IsAOW         bool            `yaml:"is_aow" json:"is_aow"`
}

// PartnerDistribution configures the interest split for two-partner
// households. Parameter is the percentage for fixed_percent, the amount for
// fixed_amount, and unused for optimize.
type PartnerDistribution struct {
	Method    DistributionMethod `yaml:"method" json:"method"`
	Parameter *decimal.Decimal   `yaml:"parameter,omitempty" json:"parameter,omitempty"`
}

// MonthlyCostsRequest is a fully validated monthly-cost calculation request.
type MonthlyCostsRequest struct {
	FiscalYear   int                  `yaml:"fiscal_year" json:"fiscal_year"`
	WOZValue     decimal.Decimal      `yaml:"woz_value" json:"woz_value"`
	LoanParts    []MonthlyLoanPart    `yaml:"loan_parts" json:"loan_parts"`
	Partners     []Partner            `yaml:"partners" json:"partners"`
	Distribution *PartnerDistribution `yaml:"distribution,omitempty" json:"distribution,omitempty"`

	// MonthNumber is the 1-based month of the schedule being priced.
	MonthNumber int `yaml:"month_number" json:"month_number"`

	IncludeEWF    bool `yaml:"include_ewf" json:"include_ewf"`
	IncludeHillen bool `yaml:"include_hillen" json:"include_hillen"`
}

// LoanPartResult is the priced month for one loan part.
type LoanPartResult struct {
	LoanPartID         string          `yaml:"loan_part_id" json:"loan_part_id"`
	Repayment          RepaymentType   `yaml:"repayment" json:"repayment"`
	Box                FiscalBox       `yaml:"box" json:"box"`
	Principal          decimal.Decimal `yaml:"principal" json:"principal"`
	RemainingPrincipal decimal.Decimal `yaml:"remaining_principal" json:"remaining_principal"`
	InterestPayment    decimal.Decimal `yaml:"interest_payment" json:"interest_payment"`
	PrincipalPayment   decimal.Decimal `yaml:"principal_payment" json:"principal_payment"`
	GrossPayment       decimal.Decimal `yaml:"gross_payment" json:"gross_payment"`
}

// TaxBreakdown carries every intermediate tax quantity of the monthly-cost
// pipeline; downstream consumers and the tests audit these directly.
type TaxBreakdown struct {
	EWFAnnual  decimal.Decimal `yaml:"ewf_annual" json:"ewf_annual"`
	EWFMonthly decimal.Decimal `yaml:"ewf_monthly" json:"ewf_monthly"`

	TotalInterestBox1Annual  decimal.Decimal `yaml:"total_interest_box1_annual" json:"total_interest_box1_annual"`
	TotalInterestBox1Monthly decimal.Decimal `yaml:"total_interest_box1_monthly" json:"total_interest_box1_monthly"`

	// MarginalRate is the household display rate: the single partner's rate,
	// or the maximum of both partners' rates. It is deliberately not the
	// distribution-weighted rate used for the interest benefit.
	MarginalRate           decimal.Decimal `yaml:"marginal_rate" json:"marginal_rate"`
	EffectiveDeductionRate decimal.Decimal `yaml:"effective_deduction_rate" json:"effective_deduction_rate"`

	InterestDeductionAnnual  decimal.Decimal `yaml:"interest_deduction_annual" json:"interest_deduction_annual"`
	InterestDeductionMonthly decimal.Decimal `yaml:"interest_deduction_monthly" json:"interest_deduction_monthly"`

	HillenApplicable      bool            `yaml:"hillen_applicable" json:"hillen_applicable"`
	HillenDeductionAnnual decimal.Decimal `yaml:"hillen_deduction_annual" json:"hillen_deduction_annual"`
	HillenBenefitMonthly  decimal.Decimal `yaml:"hillen_benefit_monthly" json:"hillen_benefit_monthly"`

	NetEWFAdditionAnnual decimal.Decimal `yaml:"net_ewf_addition_annual" json:"net_ewf_addition_annual"`
	EWFTaxMonthly        decimal.Decimal `yaml:"ewf_tax_monthly" json:"ewf_tax_monthly"`

	TotalTaxBenefitMonthly decimal.Decimal `yaml:"total_tax_benefit_monthly" json:"total_tax_benefit_monthly"`
	TotalTaxCostMonthly    decimal.Decimal `yaml:"total_tax_cost_monthly" json:"total_tax_cost_monthly"`
	NetTaxEffectMonthly    decimal.Decimal `yaml:"net_tax_effect_monthly" json:"net_tax_effect_monthly"`
}

// PartnerResult is the per-partner breakdown for two-partner households. The
// EWF share is always split 50/50, independent of the interest distribution.
type PartnerResult struct {
	PartnerID               string          `yaml:"partner_id" json:"partner_id"`
	TaxableIncome           decimal.Decimal `yaml:"taxable_income" json:"taxable_income"`
	MarginalRate            decimal.Decimal `yaml:"marginal_rate" json:"marginal_rate"`
	EffectiveRate           decimal.Decimal `yaml:"effective_rate" json:"effective_rate"`
	InterestShareAnnual     decimal.Decimal `yaml:"interest_share_annual" json:"interest_share_annual"`
	InterestDeductionAnnual decimal.Decimal `yaml:"interest_deduction_annual" json:"interest_deduction_annual"`
	EWFShareAnnual          decimal.Decimal `yaml:"ewf_share_annual" json:"ewf_share_annual"`
}

// MonthlyCostsResponse is the complete monthly-cost engine output.
type MonthlyCostsResponse struct {
	FiscalYear  int             `yaml:"fiscal_year" json:"fiscal_year"`
	MonthNumber int             `yaml:"month_number" json:"month_number"`
	WOZValue    decimal.Decimal `yaml:"woz_value" json:"woz_value"`

	LoanParts []LoanPartResult `yaml:"loan_parts" json:"loan_parts"`

	TotalGrossMonthly        decimal.Decimal `yaml:"total_gross_monthly" json:"total_gross_monthly"`
	TotalInterestMonthly     decimal.Decimal `yaml:"total_interest_monthly" json:"total_interest_monthly"`
	TotalPrincipalMonthly    decimal.Decimal `yaml:"total_principal_monthly" json:"total_principal_monthly"`
	TotalInterestBox1Monthly decimal.Decimal `yaml:"total_interest_box1_monthly" json:"total_interest_box1_monthly"`
	TotalInterestBox3Monthly decimal.Decimal `yaml:"total_interest_box3_monthly" json:"total_interest_box3_monthly"`

	TaxBreakdown TaxBreakdown `yaml:"tax_breakdown" json:"tax_breakdown"`

	PartnerResults []PartnerResult `yaml:"partner_results,omitempty" json:"partner_results,omitempty"`

	NetMonthlyCost decimal.Decimal `yaml:"net_monthly_cost" json:"net_monthly_cost"`

	Disclaimer string `yaml:"disclaimer" json:"disclaimer"`
}

// Disclaimer is attached to every monthly-cost response.
const Disclaimer = "Indicative only, not filing advice. Changes in legislation, income or interest rates may affect the outcome."
