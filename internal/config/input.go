package config

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rvdmeer/hyponorm/internal/domain"
)

// Request bounds. Values outside these are almost certainly unit mistakes
// (cents instead of euros, percents instead of fractions) and are rejected
// rather than silently producing nonsense.
var (
	maxIncome     = decimal.NewFromInt(10_000_000)
	maxRate       = decimal.NewFromFloat(0.20)
	maxWOZValue   = decimal.NewFromInt(100_000_000)
	hundred       = decimal.NewFromInt(100)
	maxLoanParts  = 10
	maxTermMonths = 600
	maxTermYears  = 50
)

// InputParser parses and validates request files. The norm tables back the
// energy-label membership check and supply the constant defaults; a nil
// tables pointer skips both.
type InputParser struct {
	Tables *domain.NormTables
}

// NewInputParser creates a new input parser.
func NewInputParser(tables *domain.NormTables) *InputParser {
	return &InputParser{Tables: tables}
}

// LoadAffordabilityInput loads a maximum-mortgage request from a YAML or
// JSON file.
func (ip *InputParser) LoadAffordabilityInput(filename string) (*domain.AffordabilityInput, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.ParseAffordabilityInput(data)
}

// ParseAffordabilityInput parses and validates a maximum-mortgage request.
func (ip *InputParser) ParseAffordabilityInput(data []byte) (*domain.AffordabilityInput, error) {
	var in domain.AffordabilityInput
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}

	defaults := domain.DefaultAffordabilityConstants()
	if ip.Tables != nil {
		defaults = ip.Tables.Defaults.Merged(defaults)
	}
	in.Constants = in.Constants.Merged(defaults)

	if err := ip.ValidateAffordabilityInput(&in); err != nil {
		return nil, fmt.Errorf("request validation failed: %w", err)
	}
	return &in, nil
}

// ValidateAffordabilityInput validates a maximum-mortgage request.
func (ip *InputParser) ValidateAffordabilityInput(in *domain.AffordabilityInput) error {
	incomes := []struct {
		name  string
		value decimal.Decimal
	}{
		{"applicant.main", in.Applicant.Main},
		{"applicant.annuity", in.Applicant.Annuity},
		{"applicant.alimony_received", in.Applicant.AlimonyReceived},
		{"applicant.investment", in.Applicant.Investment},
		{"applicant.rental", in.Applicant.Rental},
		{"applicant.alimony_paid", in.Applicant.AlimonyPaid},
		{"partner.main", in.Partner.Main},
		{"partner.annuity", in.Partner.Annuity},
		{"partner.alimony_received", in.Partner.AlimonyReceived},
		{"partner.alimony_paid", in.Partner.AlimonyPaid},
		{"other_applicants_income", in.OtherApplicantsIncome},
		{"other_applicants_income_scenario2", in.OtherApplicantsIncome2},
	}
	for _, inc := range incomes {
		if err := validateAmount(inc.name, inc.value, maxIncome); err != nil {
			return err
		}
	}
	if in.ChangedApplicantIncome != nil {
		if err := validateAmount("changed_applicant_income", *in.ChangedApplicantIncome, maxIncome); err != nil {
			return err
		}
	}
	if in.ChangedPartnerIncome != nil {
		if err := validateAmount("changed_partner_income", *in.ChangedPartnerIncome, maxIncome); err != nil {
			return err
		}
	}

	obligations := []struct {
		name  string
		value decimal.Decimal
	}{
		{"registered_credit_limits", in.RegisteredCreditLimits},
		{"unregistered_credit_limits", in.UnregisteredCreditLimits},
		{"student_loan_monthly", in.StudentLoanMonthly},
		{"ground_rent_monthly", in.GroundRentMonthly},
		{"other_credit_monthly", in.OtherCreditMonthly},
		{"sustainability_investment", in.SustainabilityInvestment},
	}
	for _, ob := range obligations {
		if err := validateAmount(ob.name, ob.value, maxIncome); err != nil {
			return err
		}
	}

	if in.EnergyLabel != "" && ip.Tables != nil {
		if _, ok := ip.Tables.EnergyLabelTier(in.EnergyLabel); !ok {
			return fmt.Errorf("unknown energy_label %q", in.EnergyLabel)
		}
	}

	if len(in.LoanParts) > maxLoanParts {
		return fmt.Errorf("at most %d loan parts are supported, got %d", maxLoanParts, len(in.LoanParts))
	}
	for i := range in.LoanParts {
		if err := validateAffordabilityLoanPart(i, &in.LoanParts[i]); err != nil {
			return err
		}
	}

	return validateConstants(&in.Constants)
}

func validateAffordabilityLoanPart(i int, part *domain.AffordabilityLoanPart) error {
	switch part.Repayment {
	case domain.RepaymentAnnuity, domain.RepaymentLinear, domain.RepaymentInterestOnly, domain.RepaymentSavings:
	default:
		return fmt.Errorf("loan_parts[%d]: unknown repayment type %q", i, part.Repayment)
	}

	if part.OriginalTermMonths < 1 || part.OriginalTermMonths > maxTermMonths {
		return fmt.Errorf("loan_parts[%d]: original term must be between 1 and %d months", i, maxTermMonths)
	}
	if part.RemainingTermMonths < 1 || part.RemainingTermMonths > part.OriginalTermMonths {
		return fmt.Errorf("loan_parts[%d]: remaining term must be between 1 and the original term", i)
	}
	if part.RevisionPeriodMonths < 0 || part.RevisionPeriodMonths > maxTermMonths {
		return fmt.Errorf("loan_parts[%d]: revision period must be between 0 and %d months", i, maxTermMonths)
	}
	if part.ActualRate.IsNegative() || part.ActualRate.GreaterThan(maxRate) {
		return fmt.Errorf("loan_parts[%d]: interest rate must be a fraction between 0 and %s", i, maxRate)
	}
	if err := validateAmount(fmt.Sprintf("loan_parts[%d].principal_box1", i), part.PrincipalBox1, maxWOZValue); err != nil {
		return err
	}
	if err := validateAmount(fmt.Sprintf("loan_parts[%d].principal_box3", i), part.PrincipalBox3, maxWOZValue); err != nil {
		return err
	}
	return validateAmount(fmt.Sprintf("loan_parts[%d].extra_deposit", i), part.ExtraDeposit, maxWOZValue)
}

func validateConstants(c *domain.AffordabilityConstants) error {
	if c.TestRate.LessThanOrEqual(decimal.Zero) || c.TestRate.GreaterThan(maxRate) {
		return fmt.Errorf("constants.test_rate must be a fraction between 0 and %s", maxRate)
	}
	if c.Current10YearRate.LessThanOrEqual(decimal.Zero) || c.Current10YearRate.GreaterThan(maxRate) {
		return fmt.Errorf("constants.current_10_year_rate must be a fraction between 0 and %s", maxRate)
	}
	if c.LoanTermMonths < 1 || c.LoanTermMonths > maxTermMonths {
		return fmt.Errorf("constants.loan_term_months must be between 1 and %d", maxTermMonths)
	}
	if c.RevisionThresholdMonths < 0 || c.RevisionThresholdMonths > maxTermMonths {
		return fmt.Errorf("constants.revision_threshold_months must be between 0 and %d", maxTermMonths)
	}
	if c.SecondIncomeFactor.IsNegative() || c.SecondIncomeFactor.GreaterThan(decimal.NewFromInt(2)) {
		return fmt.Errorf("constants.second_income_factor must be between 0 and 2")
	}
	return nil
}

// LoadMonthlyCostsRequest loads a monthly-cost request from a YAML or JSON
// file.
func (ip *InputParser) LoadMonthlyCostsRequest(filename string) (*domain.MonthlyCostsRequest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.ParseMonthlyCostsRequest(data)
}

// ParseMonthlyCostsRequest parses and validates a monthly-cost request.
// Absent include flags default to true, absent loan-part IDs are generated,
// and interest rates above 1 are read as percentages and scaled down.
func (ip *InputParser) ParseMonthlyCostsRequest(data []byte) (*domain.MonthlyCostsRequest, error) {
	var req domain.MonthlyCostsRequest
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}

	var flags struct {
		IncludeEWF    *bool `yaml:"include_ewf"`
		IncludeHillen *bool `yaml:"include_hillen"`
	}
	if err := yaml.Unmarshal(data, &flags); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	req.IncludeEWF = flags.IncludeEWF == nil || *flags.IncludeEWF
	req.IncludeHillen = flags.IncludeHillen == nil || *flags.IncludeHillen

	ApplyMonthlyCostsDefaults(&req)

	if err := ip.ValidateMonthlyCostsRequest(&req); err != nil {
		return nil, fmt.Errorf("request validation failed: %w", err)
	}
	return &req, nil
}

// ApplyMonthlyCostsDefaults normalizes a monthly-cost request in place:
// month number 1 when unset, generated loan-part IDs, percentage-style
// rates scaled to fractions, and box 1 when no box is given.
func ApplyMonthlyCostsDefaults(req *domain.MonthlyCostsRequest) {
	if req.MonthNumber == 0 {
		req.MonthNumber = 1
	}
	for i := range req.LoanParts {
		part := &req.LoanParts[i]
		if part.ID == "" {
			part.ID = uuid.NewString()
		}
		if part.InterestRate.GreaterThan(decimal.NewFromInt(1)) {
			part.InterestRate = part.InterestRate.Div(hundred)
		}
		if part.Box == 0 {
			part.Box = domain.Box1
		}
	}
}

// ValidateMonthlyCostsRequest validates a monthly-cost request.
func (ip *InputParser) ValidateMonthlyCostsRequest(req *domain.MonthlyCostsRequest) error {
	if req.FiscalYear < 1900 || req.FiscalYear > 2200 {
		return fmt.Errorf("implausible fiscal_year %d", req.FiscalYear)
	}
	if req.WOZValue.LessThanOrEqual(decimal.Zero) || req.WOZValue.GreaterThan(maxWOZValue) {
		return fmt.Errorf("woz_value must be positive and at most %s", maxWOZValue)
	}

	// Unlike the affordability request, the part count is unbounded here.
	if len(req.LoanParts) == 0 {
		return fmt.Errorf("at least one loan part is required")
	}

	maxMonth := 0
	for i := range req.LoanParts {
		part := &req.LoanParts[i]
		switch part.Repayment {
		case domain.RepaymentAnnuity, domain.RepaymentLinear, domain.RepaymentInterestOnly:
		case domain.RepaymentSavings:
			return fmt.Errorf("loan_parts[%d]: savings parts cannot be priced", i)
		default:
			return fmt.Errorf("loan_parts[%d]: unknown repayment type %q", i, part.Repayment)
		}
		if part.Box != domain.Box1 && part.Box != domain.Box3 {
			return fmt.Errorf("loan_parts[%d]: box must be 1 or 3", i)
		}
		if part.Principal.LessThanOrEqual(decimal.Zero) || part.Principal.GreaterThan(maxWOZValue) {
			return fmt.Errorf("loan_parts[%d]: principal must be positive and at most %s", i, maxWOZValue)
		}
		if part.InterestRate.IsNegative() || part.InterestRate.GreaterThan(maxRate) {
			return fmt.Errorf("loan_parts[%d]: interest rate must be a fraction between 0 and %s", i, maxRate)
		}
		if part.TermYears < 1 || part.TermYears > maxTermYears {
			return fmt.Errorf("loan_parts[%d]: term must be between 1 and %d years", i, maxTermYears)
		}
		if months := part.TermYears * 12; months > maxMonth {
			maxMonth = months
		}
	}

	if req.MonthNumber < 1 || req.MonthNumber > maxMonth {
		return fmt.Errorf("month_number must be between 1 and %d", maxMonth)
	}

	if len(req.Partners) < 1 || len(req.Partners) > 2 {
		return fmt.Errorf("between 1 and 2 partners are required, got %d", len(req.Partners))
	}
	seen := make(map[string]bool, len(req.Partners))
	for i, p := range req.Partners {
		if p.ID == "" {
			return fmt.Errorf("partners[%d]: id is required", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("partners[%d]: duplicate id %q", i, p.ID)
		}
		seen[p.ID] = true
		if err := validateAmount(fmt.Sprintf("partners[%d].taxable_income", i), p.TaxableIncome, maxIncome); err != nil {
			return err
		}
		if p.Age != 0 && (p.Age < 18 || p.Age > 120) {
			return fmt.Errorf("partners[%d]: age must be between 18 and 120", i)
		}
	}

	return validateDistribution(req)
}

func validateDistribution(req *domain.MonthlyCostsRequest) error {
	if req.Distribution == nil {
		return nil
	}
	if len(req.Partners) < 2 {
		return fmt.Errorf("distribution requires two partners")
	}

	d := req.Distribution
	switch d.Method {
	case domain.DistributeFixedPercent:
		if d.Parameter == nil {
			return fmt.Errorf("distribution method fixed_percent requires a parameter")
		}
		if d.Parameter.IsNegative() || d.Parameter.GreaterThan(hundred) {
			return fmt.Errorf("distribution parameter must be a percentage between 0 and 100")
		}
	case domain.DistributeFixedAmount:
		if d.Parameter == nil {
			return fmt.Errorf("distribution method fixed_amount requires a parameter")
		}
		if d.Parameter.IsNegative() {
			return fmt.Errorf("distribution parameter cannot be negative")
		}
	case domain.DistributeOptimize:
	default:
		return fmt.Errorf("unknown distribution method %q", d.Method)
	}
	return nil
}

func validateAmount(name string, value decimal.Decimal, max decimal.Decimal) error {
	if value.IsNegative() {
		return fmt.Errorf("%s cannot be negative", name)
	}
	if value.GreaterThan(max) {
		return fmt.Errorf("%s exceeds the supported maximum of %s", name, max)
	}
	return nil
}
