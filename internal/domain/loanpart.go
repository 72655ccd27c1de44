package domain

import (
	"github.com/shopspring/decimal"
)

// RepaymentType identifies how a loan part is repaid.
type RepaymentType string

const (
	RepaymentAnnuity      RepaymentType = "annuity"
	RepaymentLinear       RepaymentType = "linear"
	RepaymentInterestOnly RepaymentType = "interest_only"
	// RepaymentSavings is the legacy savings-mortgage type. It only occurs in
	// affordability requests; the monthly-cost engine does not accept it.
	RepaymentSavings RepaymentType = "savings"
)

// IsStandard reports whether the part counts as a standard (annuity or
// linear) repayment for the affordability norms. Interest-only and savings
// parts are non-standard and steer the engine into the flat-rate room
// formulas.
func (t RepaymentType) IsStandard() bool {
	return t == RepaymentAnnuity || t == RepaymentLinear
}

// FiscalBox is the Dutch income-tax box a loan part falls in. Box 1 interest
// is deductible, box 3 interest is not.
type FiscalBox int

const (
	Box1 FiscalBox = 1
	Box3 FiscalBox = 3
)

// AffordabilityLoanPart is one existing mortgage part in an affordability
// request. Principals are split by fiscal box; the revision period decides
// whether the norm test rate or the actual contract rate applies.
type AffordabilityLoanPart struct {
	Repayment            RepaymentType   `yaml:"repayment" json:"repayment"`
	OriginalTermMonths   int             `yaml:"original_term_months" json:"original_term_months"`
	RemainingTermMonths  int             `yaml:"remaining_term_months" json:"remaining_term_months"`
	PrincipalBox1        decimal.Decimal `yaml:"principal_box1" json:"principal_box1"`
	PrincipalBox3        decimal.Decimal `yaml:"principal_box3" json:"principal_box3"`
	RevisionPeriodMonths int             `yaml:"revision_period_months" json:"revision_period_months"`
	ExtraDeposit         decimal.Decimal `yaml:"extra_deposit" json:"extra_deposit"`
	ActualRate           decimal.Decimal `yaml:"actual_rate" json:"actual_rate"`
}

// MonthlyLoanPart is one loan part in a monthly-cost request. Unlike the
// affordability shape it carries a single principal and an explicit box.
type MonthlyLoanPart struct {
	ID           string          `yaml:"id" json:"id"`
	Principal    decimal.Decimal `yaml:"principal" json:"principal"`
	InterestRate decimal.Decimal `yaml:"interest_rate" json:"interest_rate"`
	TermYears    int             `yaml:"term_years" json:"term_years"`
	Repayment    RepaymentType   `yaml:"repayment" json:"repayment"`
	Box          FiscalBox       `yaml:"box" json:"box"`
}
