package domain

import (
	"github.com/shopspring/decimal"
)

// ApplicantIncome holds the income components of the main applicant. The
// gross assessable income is the sum of all components minus alimony paid.
type ApplicantIncome struct {
	Main            decimal.Decimal `yaml:"main" json:"main"`
	Annuity         decimal.Decimal `yaml:"annuity" json:"annuity"`
	AlimonyReceived decimal.Decimal `yaml:"alimony_received" json:"alimony_received"`
	Investment      decimal.Decimal `yaml:"investment" json:"investment"`
	Rental          decimal.Decimal `yaml:"rental" json:"rental"`
	AlimonyPaid     decimal.Decimal `yaml:"alimony_paid" json:"alimony_paid"`
}

// Total returns the signed sum of the applicant's income components.
func (a ApplicantIncome) Total() decimal.Decimal {
	return a.Main.
		Add(a.Annuity).
		Add(a.AlimonyReceived).
		Add(a.Investment).
		Add(a.Rental).
		Sub(a.AlimonyPaid)
}

// PartnerIncome holds the income components of the partner. Investment and
// rental income are attributed to the main applicant only.
type PartnerIncome struct {
	Main            decimal.Decimal `yaml:"main" json:"main"`
	Annuity         decimal.Decimal `yaml:"annuity" json:"annuity"`
	AlimonyReceived decimal.Decimal `yaml:"alimony_received" json:"alimony_received"`
	AlimonyPaid     decimal.Decimal `yaml:"alimony_paid" json:"alimony_paid"`
}

// Total returns the signed sum of the partner's income components.
func (p PartnerIncome) Total() decimal.Decimal {
	return p.Main.
		Add(p.Annuity).
		Add(p.AlimonyReceived).
		Sub(p.AlimonyPaid)
}

// AffordabilityConstants are the tunable norm parameters. Defaults come from
// the norm-table configuration and individual requests may override them.
type AffordabilityConstants struct {
	// TestRate is the regulatory assessment rate applied to parts whose
	// revision period is below RevisionThresholdMonths.
	TestRate decimal.Decimal `yaml:"test_rate" json:"test_rate"`
	// Current10YearRate is the reference rate used when no principal exists.
	Current10YearRate decimal.Decimal `yaml:"current_10_year_rate" json:"current_10_year_rate"`
	// RevisionThresholdMonths gates per-part rate selection: parts with a
	// shorter revision period are tested at TestRate instead of their own rate.
	RevisionThresholdMonths int `yaml:"revision_threshold_months" json:"revision_threshold_months"`
	// SecondIncomeFactor weights the lower of the two incomes in the test
	// income for two-earner households.
	SecondIncomeFactor decimal.Decimal `yaml:"second_income_factor" json:"second_income_factor"`
	// LoanTermMonths is the normative term used for annuity-equivalent
	// conversions.
	LoanTermMonths int `yaml:"loan_term_months" json:"loan_term_months"`
	// SingleEarnerThresholdNonAOW and SingleEarnerThresholdAOW are the income
	// cutoffs for the single-earner correction; the AOW variant applies a
	// slightly lower cutoff.
	SingleEarnerThresholdNonAOW decimal.Decimal `yaml:"single_earner_threshold_non_aow" json:"single_earner_threshold_non_aow"`
	SingleEarnerThresholdAOW    decimal.Decimal `yaml:"single_earner_threshold_aow" json:"single_earner_threshold_aow"`
	// SingleEarnerAllowance is the flat correction amount granted when the
	// single-earner rule matches.
	SingleEarnerAllowance decimal.Decimal `yaml:"single_earner_allowance" json:"single_earner_allowance"`
}

// DefaultAffordabilityConstants returns the current published norm
// parameters, used when neither the norm tables nor the request override
// them.
func DefaultAffordabilityConstants() AffordabilityConstants {
	return AffordabilityConstants{
		TestRate:                    decimal.NewFromFloat(0.05),
		Current10YearRate:           decimal.NewFromFloat(0.05),
		RevisionThresholdMonths:     120,
		SecondIncomeFactor:          decimal.NewFromInt(1),
		LoanTermMonths:              360,
		SingleEarnerThresholdNonAOW: decimal.NewFromInt(30000),
		SingleEarnerThresholdAOW:    decimal.NewFromInt(29000),
		SingleEarnerAllowance:       decimal.NewFromInt(17000),
	}
}

// Merged returns the constants with zero-valued fields filled from the
// defaults. Explicit zero rates cannot be expressed, which matches the norm:
// none of these parameters is ever published as zero.
func (c AffordabilityConstants) Merged(defaults AffordabilityConstants) AffordabilityConstants {
	out := c
	if out.TestRate.IsZero() {
		out.TestRate = defaults.TestRate
	}
	if out.Current10YearRate.IsZero() {
		out.Current10YearRate = defaults.Current10YearRate
	}
	if out.RevisionThresholdMonths == 0 {
		out.RevisionThresholdMonths = defaults.RevisionThresholdMonths
	}
	if out.SecondIncomeFactor.IsZero() {
		out.SecondIncomeFactor = defaults.SecondIncomeFactor
	}
	if out.LoanTermMonths == 0 {
		out.LoanTermMonths = defaults.LoanTermMonths
	}
	if out.SingleEarnerThresholdNonAOW.IsZero() {
		out.SingleEarnerThresholdNonAOW = defaults.SingleEarnerThresholdNonAOW
	}
	if out.SingleEarnerThresholdAOW.IsZero() {
		out.SingleEarnerThresholdAOW = defaults.SingleEarnerThresholdAOW
	}
	if out.SingleEarnerAllowance.IsZero() {
		out.SingleEarnerAllowance = defaults.SingleEarnerAllowance
	}
	return out
}

// AffordabilityInput is a fully validated maximum-mortgage request.
type AffordabilityInput struct {
	Applicant             ApplicantIncome `yaml:"applicant" json:"applicant"`
	Partner               PartnerIncome   `yaml:"partner" json:"partner"`
	OtherApplicantsIncome decimal.Decimal `yaml:"other_applicants_income" json:"other_applicants_income"`

	// Alone marks a single-person household. The partner income is then
	// excluded from the household total.
	Alone       bool `yaml:"alone" json:"alone"`
	ReceivesAOW bool `yaml:"receives_aow" json:"receives_aow"`

	EnergyLabel              string          `yaml:"energy_label" json:"energy_label"`
	SustainabilityInvestment decimal.Decimal `yaml:"sustainability_investment" json:"sustainability_investment"`

	RegisteredCreditLimits   decimal.Decimal `yaml:"registered_credit_limits" json:"registered_credit_limits"`
	UnregisteredCreditLimits decimal.Decimal `yaml:"unregistered_credit_limits" json:"unregistered_credit_limits"`
	StudentLoanMonthly       decimal.Decimal `yaml:"student_loan_monthly" json:"student_loan_monthly"`
	GroundRentMonthly        decimal.Decimal `yaml:"ground_rent_monthly" json:"ground_rent_monthly"`
	OtherCreditMonthly       decimal.Decimal `yaml:"other_credit_monthly" json:"other_credit_monthly"`

	LoanParts []AffordabilityLoanPart `yaml:"loan_parts" json:"loan_parts"`

	// Scenario 2 ("what if") incomes. A nil pointer means not supplied; an
	// explicit zero counts as supplied and triggers the second scenario.
	ChangedApplicantIncome *decimal.Decimal `yaml:"changed_applicant_income" json:"changed_applicant_income"`
	ChangedPartnerIncome   *decimal.Decimal `yaml:"changed_partner_income" json:"changed_partner_income"`
	ChangedReceivesAOW     *bool            `yaml:"changed_receives_aow" json:"changed_receives_aow"`
	OtherApplicantsIncome2 decimal.Decimal  `yaml:"other_applicants_income_scenario2" json:"other_applicants_income_scenario2"`

	Constants AffordabilityConstants `yaml:"constants" json:"constants"`
}

// HasSecondScenario reports whether a second scenario must be computed.
func (in *AffordabilityInput) HasSecondScenario() bool {
	return in.ChangedApplicantIncome != nil || in.ChangedPartnerIncome != nil
}

// RegimeResult holds the four affordability outcomes for one repayment
// regime: the maximum total mortgage and the incremental room, each split by
// fiscal box of the new debt.
type RegimeResult struct {
	MaxTotalBox1 decimal.Decimal `yaml:"max_total_box1" json:"max_total_box1"`
	MaxTotalBox3 decimal.Decimal `yaml:"max_total_box3" json:"max_total_box3"`
	RoomBox1     decimal.Decimal `yaml:"room_box1" json:"room_box1"`
	RoomBox3     decimal.Decimal `yaml:"room_box3" json:"room_box3"`
}

// ScenarioResult is the outcome of one income/AOW scenario.
type ScenarioResult struct {
	Annuity    RegimeResult `yaml:"annuity" json:"annuity"`
	NonAnnuity RegimeResult `yaml:"non_annuity" json:"non_annuity"`
}

// AffordabilityDebug exposes the baseline scenario's intermediate quantities
// for audit and testing.
type AffordabilityDebug struct {
	TestIncome                   decimal.Decimal `yaml:"test_income" json:"test_income"`
	TestRate                     decimal.Decimal `yaml:"test_rate" json:"test_rate"`
	RatioBox1                    decimal.Decimal `yaml:"ratio_box1" json:"ratio_box1"`
	RatioBox3                    decimal.Decimal `yaml:"ratio_box3" json:"ratio_box3"`
	WeightedRate                 decimal.Decimal `yaml:"weighted_rate" json:"weighted_rate"`
	EnergyLabelBonus             decimal.Decimal `yaml:"energy_label_bonus" json:"energy_label_bonus"`
	TotalCorrection              decimal.Decimal `yaml:"total_correction" json:"total_correction"`
	SingleEarnerCorrectionNonAOW decimal.Decimal `yaml:"single_earner_correction_non_aow" json:"single_earner_correction_non_aow"`
	SingleEarnerCorrectionAOW    decimal.Decimal `yaml:"single_earner_correction_aow" json:"single_earner_correction_aow"`
	TotalIncome                  decimal.Decimal `yaml:"total_income" json:"total_income"`
	ApplicantIncome              decimal.Decimal `yaml:"applicant_income" json:"applicant_income"`
	PartnerIncome                decimal.Decimal `yaml:"partner_income" json:"partner_income"`
}

// AffordabilityResult is the complete engine output.
type AffordabilityResult struct {
	Scenario1 ScenarioResult     `yaml:"scenario1" json:"scenario1"`
	Scenario2 *ScenarioResult    `yaml:"scenario2,omitempty" json:"scenario2,omitempty"`
	Debug     AffordabilityDebug `yaml:"debug" json:"debug"`
}
