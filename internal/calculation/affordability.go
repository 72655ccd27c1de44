package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rvdmeer/hyponorm/internal/domain"
)

// AffordabilityCalculator computes maximum borrowing capacity under the
// national affordability norms. It is a pure function of the request plus
// the injected norm tables.
type AffordabilityCalculator struct {
	Tables *domain.NormTables
}

// NewAffordabilityCalculator creates a calculator bound to one norm-table set.
func NewAffordabilityCalculator(tables *domain.NormTables) *AffordabilityCalculator {
	return &AffordabilityCalculator{Tables: tables}
}

// creditLimitFactor is the annualized burden on revolving credit limits.
var creditLimitFactor = decimal.NewFromFloat(0.24)

// loanAggregates are the loan-part-derived sums shared by both scenarios.
type loanAggregates struct {
	sumBox1 decimal.Decimal
	sumBox3 decimal.Decimal

	// weightedRate is the principal-and-term-weighted average of the per-part
	// test rates.
	weightedRate decimal.Decimal

	// nonStandardCount is the number of interest-only and savings parts; it
	// gates the flat-rate room formulas.
	nonStandardCount int

	// normCost* is the normative annualized payment per box: PMT over the
	// remaining term for standard parts, the original term for non-standard
	// ones.
	normCostBox1 decimal.Decimal
	normCostBox3 decimal.Decimal

	// typeCost* is the annual cost under the part's actual repayment type.
	typeCostBox1 decimal.Decimal
	typeCostBox3 decimal.Decimal

	// extraDeposit* passes the side deposits through, gated on the
	// corresponding normative payment being positive.
	extraDepositBox1 decimal.Decimal
	extraDepositBox3 decimal.Decimal
}

// scenarioIncome is the income configuration of one scenario.
type scenarioIncome struct {
	totalIncome     decimal.Decimal
	applicantIncome decimal.Decimal
	partnerIncome   decimal.Decimal
	alone           bool
	receivesAOW     bool
}

// scenarioOutcome carries a scenario's result plus its intermediates.
type scenarioOutcome struct {
	result domain.ScenarioResult

	testIncome      decimal.Decimal
	testRate        decimal.Decimal
	ratioBox1       decimal.Decimal
	ratioBox3       decimal.Decimal
	energyBonus     decimal.Decimal
	totalCorrection decimal.Decimal
	corrNonAOW      decimal.Decimal
	corrAOW         decimal.Decimal
}

// Calculate runs the affordability pipeline: the mandatory baseline scenario
// and, when a changed income is supplied, the second scenario reusing the
// baseline's loan-part aggregates.
func (c *AffordabilityCalculator) Calculate(in *domain.AffordabilityInput) (*domain.AffordabilityResult, error) {
	applicantIncome := in.Applicant.Total()
	partnerIncome := in.Partner.Total()

	// Household total includes the other-applicants income; the test income
	// for the table lookup deliberately does not. Both quantities are needed
	// side by side further down.
	totalIncome := applicantIncome.Add(in.OtherApplicantsIncome)
	if !in.Alone {
		totalIncome = totalIncome.Add(partnerIncome)
	}

	agg := c.aggregateLoanParts(in)

	baseline := scenarioIncome{
		totalIncome:     totalIncome,
		applicantIncome: applicantIncome,
		partnerIncome:   partnerIncome,
		alone:           in.Alone,
		receivesAOW:     in.ReceivesAOW,
	}

	s1, err := c.runScenario(baseline, agg, in)
	if err != nil {
		return nil, err
	}

	result := &domain.AffordabilityResult{
		Scenario1: s1.result,
		Debug: domain.AffordabilityDebug{
			TestIncome:                   s1.testIncome,
			TestRate:                     s1.testRate,
			RatioBox1:                    s1.ratioBox1,
			RatioBox3:                    s1.ratioBox3,
			WeightedRate:                 agg.weightedRate,
			EnergyLabelBonus:             s1.energyBonus,
			TotalCorrection:              s1.totalCorrection,
			SingleEarnerCorrectionNonAOW: s1.corrNonAOW,
			SingleEarnerCorrectionAOW:    s1.corrAOW,
			TotalIncome:                  totalIncome,
			ApplicantIncome:              applicantIncome,
			PartnerIncome:                partnerIncome,
		},
	}

	if in.HasSecondScenario() {
		s2, err := c.runScenario(c.secondScenarioIncome(in), agg, in)
		if err != nil {
			return nil, err
		}
		result.Scenario2 = &s2.result
	}

	return result, nil
}

// secondScenarioIncome substitutes the changed incomes and the optional AOW
// override; an absent changed income counts as zero once the scenario
// triggers.
func (c *AffordabilityCalculator) secondScenarioIncome(in *domain.AffordabilityInput) scenarioIncome {
	applicant := decimal.Zero
	if in.ChangedApplicantIncome != nil {
		applicant = *in.ChangedApplicantIncome
	}
	partner := decimal.Zero
	if in.ChangedPartnerIncome != nil {
		partner = *in.ChangedPartnerIncome
	}

	total := applicant.Add(in.OtherApplicantsIncome2)
	if !in.Alone {
		total = total.Add(partner)
	}

	receivesAOW := in.ReceivesAOW
	if in.ChangedReceivesAOW != nil {
		receivesAOW = *in.ChangedReceivesAOW
	}

	return scenarioIncome{
		totalIncome:     total,
		applicantIncome: applicant,
		partnerIncome:   partner,
		alone:           in.Alone,
		receivesAOW:     receivesAOW,
	}
}

// aggregateLoanParts derives the per-part test rates and the cost sums both
// scenarios share.
func (c *AffordabilityCalculator) aggregateLoanParts(in *domain.AffordabilityInput) loanAggregates {
	consts := in.Constants
	var agg loanAggregates

	type processedPart struct {
		part     domain.AffordabilityLoanPart
		rate     decimal.Decimal
		standard bool
	}

	parts := make([]processedPart, 0, len(in.LoanParts))
	for _, part := range in.LoanParts {
		rate := part.ActualRate
		if part.RevisionPeriodMonths < consts.RevisionThresholdMonths {
			rate = consts.TestRate
		}
		standard := part.Repayment.IsStandard()
		if !standard {
			agg.nonStandardCount++
		}
		parts = append(parts, processedPart{part: part, rate: rate, standard: standard})

		agg.sumBox1 = agg.sumBox1.Add(part.PrincipalBox1)
		agg.sumBox3 = agg.sumBox3.Add(part.PrincipalBox3)
	}

	// Principal-and-term-weighted average rate, falling back to the test
	// rate when no principal is outstanding.
	numerator := decimal.Zero
	denominator := decimal.Zero
	for _, p := range parts {
		remaining := decimal.NewFromInt(int64(p.part.RemainingTermMonths))
		weight := p.part.PrincipalBox1.Add(p.part.PrincipalBox3).Mul(remaining)
		numerator = numerator.Add(p.rate.Mul(weight))
		denominator = denominator.Add(weight)
	}
	if denominator.IsPositive() {
		agg.weightedRate = numerator.Div(denominator)
	} else {
		agg.weightedRate = consts.TestRate
	}

	for _, p := range parts {
		termMonths := p.part.RemainingTermMonths
		if !p.standard {
			termMonths = p.part.OriginalTermMonths
		}
		monthlyRate := p.rate.Div(twelve)

		normBox1 := Pmt(monthlyRate, termMonths, p.part.PrincipalBox1, decimal.Zero).Neg().Mul(twelve)
		normBox3 := Pmt(monthlyRate, termMonths, p.part.PrincipalBox3, decimal.Zero).Neg().Mul(twelve)

		var typeBox1, typeBox3 decimal.Decimal
		switch p.part.Repayment {
		case domain.RepaymentAnnuity:
			typeBox1 = Pmt(monthlyRate, p.part.RemainingTermMonths, p.part.PrincipalBox1, decimal.Zero).Neg().Mul(twelve)
			typeBox3 = Pmt(monthlyRate, p.part.RemainingTermMonths, p.part.PrincipalBox3, decimal.Zero).Neg().Mul(twelve)
		case domain.RepaymentLinear:
			remaining := decimal.NewFromInt(int64(p.part.RemainingTermMonths))
			linearFactor := p.rate.Add(twelve.Div(remaining))
			typeBox1 = p.part.PrincipalBox1.Mul(linearFactor)
			typeBox3 = p.part.PrincipalBox3.Mul(linearFactor)
		default:
			// Interest-only and savings parts carry the bare interest cost.
			typeBox1 = p.part.PrincipalBox1.Mul(p.rate)
			typeBox3 = p.part.PrincipalBox3.Mul(p.rate)
		}

		agg.normCostBox1 = agg.normCostBox1.Add(normBox1)
		agg.normCostBox3 = agg.normCostBox3.Add(normBox3)
		agg.typeCostBox1 = agg.typeCostBox1.Add(typeBox1)
		agg.typeCostBox3 = agg.typeCostBox3.Add(typeBox3)

		if normBox1.IsPositive() {
			agg.extraDepositBox1 = agg.extraDepositBox1.Add(p.part.ExtraDeposit)
		}
		if normBox3.IsPositive() {
			agg.extraDepositBox3 = agg.extraDepositBox3.Add(p.part.ExtraDeposit)
		}
	}

	return agg
}

// runScenario evaluates one income/AOW configuration against the shared
// loan-part aggregates.
func (c *AffordabilityCalculator) runScenario(si scenarioIncome, agg loanAggregates, in *domain.AffordabilityInput) (scenarioOutcome, error) {
	consts := in.Constants
	var out scenarioOutcome

	// Test income for the table lookup: the applicant income alone for a
	// single household, otherwise the stronger of the two weighted
	// combinations. The other-applicants income never enters here.
	if si.alone {
		out.testIncome = si.applicantIncome
	} else {
		out.testIncome = decimal.Max(
			si.applicantIncome.Add(si.partnerIncome.Mul(consts.SecondIncomeFactor)),
			si.partnerIncome.Add(si.applicantIncome.Mul(consts.SecondIncomeFactor)),
		)
	}

	totalPrincipal := agg.sumBox1.Add(agg.sumBox3)
	if totalPrincipal.IsZero() {
		out.testRate = consts.Current10YearRate.Round(5)
	} else {
		out.testRate = agg.weightedRate.Round(5)
	}

	var err error
	out.ratioBox1, err = lookupQuote(c.Tables.Quotes.Select(si.receivesAOW, false), out.testIncome, out.testRate)
	if err != nil {
		return out, err
	}
	out.ratioBox3, err = lookupQuote(c.Tables.Quotes.Select(si.receivesAOW, true), out.testIncome, out.testRate)
	if err != nil {
		return out, err
	}

	out.corrNonAOW = singleEarnerCorrection(si.applicantIncome, si.partnerIncome, si.alone,
		consts.SingleEarnerThresholdNonAOW, consts.SingleEarnerAllowance)
	out.corrAOW = singleEarnerCorrection(si.applicantIncome, si.partnerIncome, si.alone,
		consts.SingleEarnerThresholdAOW, consts.SingleEarnerAllowance)

	out.energyBonus = c.energyLabelBonus(in.EnergyLabel, in.SustainabilityInvestment)

	if si.receivesAOW {
		out.totalCorrection = out.energyBonus.Add(out.corrAOW)
	} else {
		out.totalCorrection = out.energyBonus.Add(out.corrNonAOW)
	}

	// Per-euro monthly annuity factor over the normative term.
	pmtFactor := Pmt(out.testRate.Div(twelve), consts.LoanTermMonths, one, decimal.Zero).Neg()

	annualizedCorrection := out.totalCorrection.Mul(pmtFactor).Mul(twelve)
	flatCorrection := out.totalCorrection.Mul(out.testRate)

	debtCorrection := c.debtCorrection(in, agg, out.testRate)

	// Housing cost capacity, box1 and box3, scaled by the ratio quotient.
	ratioQuotient, err := guardDiv(out.ratioBox1, out.ratioBox3, "box3 housing-expense ratio")
	if err != nil {
		return out, err
	}

	base := si.totalIncome.Mul(out.ratioBox1).Add(annualizedCorrection).Sub(debtCorrection).Sub(agg.normCostBox1)
	scaled, err := guardDiv(base, ratioQuotient, "housing-expense ratio quotient")
	if err != nil {
		return out, err
	}
	housingBox1 := scaled.Sub(agg.normCostBox3).Mul(ratioQuotient)
	housingBox3 := scaled.Sub(agg.normCostBox3)

	// The alternate capacity backs the non-standard regime: flat-rate
	// correction when non-standard parts exist, annuity-equivalent otherwise.
	altCorrection := annualizedCorrection
	if agg.nonStandardCount > 0 {
		altCorrection = flatCorrection
	}
	altBase := si.totalIncome.Mul(out.ratioBox1).Add(altCorrection).Sub(debtCorrection).
		Sub(agg.typeCostBox1).Sub(agg.extraDepositBox1)
	altScaled, err := guardDiv(altBase, ratioQuotient, "housing-expense ratio quotient")
	if err != nil {
		return out, err
	}
	housingBox1Alt := altScaled.Sub(agg.typeCostBox3).Sub(agg.extraDepositBox3).Mul(ratioQuotient)
	housingBox3Alt := altScaled.Sub(agg.typeCostBox3).Sub(agg.extraDepositBox3)

	// Annuity regime: capacity divided by the per-euro annuity payment.
	annuityDivisor := pmtFactor.Mul(twelve)
	roomBox1Annuity, err := guardDiv(housingBox1, annuityDivisor, "annuity factor")
	if err != nil {
		return out, err
	}
	roomBox3Annuity, err := guardDiv(housingBox3, annuityDivisor, "annuity factor")
	if err != nil {
		return out, err
	}

	// Non-annuity regime: with non-standard parts present the capacity is
	// divided by the flat test rate (the no-principal edge keeps the primary
	// capacity); without them the annuity division applies to the alternate
	// capacity.
	var roomBox1NonAnnuity, roomBox3NonAnnuity decimal.Decimal
	if agg.nonStandardCount > 0 {
		numBox1, numBox3 := housingBox1Alt, housingBox3Alt
		if totalPrincipal.IsZero() {
			numBox1, numBox3 = housingBox1, housingBox3
		}
		roomBox1NonAnnuity, err = guardDiv(numBox1, out.testRate, "test rate")
		if err != nil {
			return out, err
		}
		roomBox3NonAnnuity, err = guardDiv(numBox3, out.testRate, "test rate")
		if err != nil {
			return out, err
		}
	} else {
		roomBox1NonAnnuity, err = guardDiv(housingBox1Alt, annuityDivisor, "annuity factor")
		if err != nil {
			return out, err
		}
		roomBox3NonAnnuity, err = guardDiv(housingBox3Alt, annuityDivisor, "annuity factor")
		if err != nil {
			return out, err
		}
	}

	out.result = domain.ScenarioResult{
		Annuity: domain.RegimeResult{
			MaxTotalBox1: roundCurrency(totalPrincipal.Add(roomBox1Annuity)),
			MaxTotalBox3: roundCurrency(totalPrincipal.Add(roomBox3Annuity)),
			RoomBox1:     roundCurrency(roomBox1Annuity),
			RoomBox3:     roundCurrency(roomBox3Annuity),
		},
		NonAnnuity: domain.RegimeResult{
			MaxTotalBox1: roundCurrency(totalPrincipal.Add(roomBox1NonAnnuity)),
			MaxTotalBox3: roundCurrency(totalPrincipal.Add(roomBox3NonAnnuity)),
			RoomBox1:     roundCurrency(roomBox1NonAnnuity),
			RoomBox3:     roundCurrency(roomBox3NonAnnuity),
		},
	}

	return out, nil
}

// debtCorrection annualizes the household's other obligations. The
// student-loan term uses the bracket-selected multiplier once any box-1
// principal exists, the raw annualized amount otherwise.
func (c *AffordabilityCalculator) debtCorrection(in *domain.AffordabilityInput, agg loanAggregates, testRate decimal.Decimal) decimal.Decimal {
	base := in.RegisteredCreditLimits.Mul(creditLimitFactor).
		Add(in.UnregisteredCreditLimits.Mul(creditLimitFactor)).
		Add(in.GroundRentMonthly.Mul(twelve)).
		Add(in.OtherCreditMonthly.Mul(twelve))

	if agg.sumBox1.IsZero() {
		return base.Add(in.StudentLoanMonthly.Mul(twelve))
	}
	return base.Add(c.studentLoanCorrection(testRate, in.StudentLoanMonthly))
}

// studentLoanCorrection multiplies the annualized student-loan payment by
// the factor of the first bracket whose ceiling is at or above the test
// rate; the fallback bracket covers rates beyond every ceiling.
func (c *AffordabilityCalculator) studentLoanCorrection(testRate, monthlyPayment decimal.Decimal) decimal.Decimal {
	annual := monthlyPayment.Mul(twelve)

	factor := decimal.Zero
	for _, bracket := range c.Tables.StudentLoanFactors {
		factor = bracket.Factor
		if bracket.RateCeiling == nil || testRate.LessThanOrEqual(*bracket.RateCeiling) {
			break
		}
	}
	return annual.Mul(factor)
}

// energyLabelBonus is the flat label bonus plus the sustainability
// investment capped per tier. An empty label falls back to the no-label
// tier, unknown labels yield nothing; the investment only counts when
// positive.
func (c *AffordabilityCalculator) energyLabelBonus(label string, investment decimal.Decimal) decimal.Decimal {
	if label == "" {
		label = domain.EnergyLabelNone
	}
	tier, ok := c.Tables.EnergyLabelTier(label)
	if !ok {
		return decimal.Zero
	}
	bonus := tier.Bonus
	if investment.IsPositive() {
		capped := investment
		if capped.GreaterThan(tier.InvestmentCap) {
			capped = tier.InvestmentCap
		}
		bonus = bonus.Add(capped)
	}
	return bonus
}

// singleEarnerCorrection grants the allowance to single households where
// exactly one of the two incomes is positive and above the threshold.
// Households with two positive incomes, or with both incomes at or below
// the threshold, get nothing.
func singleEarnerCorrection(income, partnerIncome decimal.Decimal, alone bool, threshold, allowance decimal.Decimal) decimal.Decimal {
	if !alone {
		return decimal.Zero
	}
	switch {
	case income.IsPositive() && partnerIncome.IsPositive():
		return decimal.Zero
	case income.IsZero() && partnerIncome.GreaterThan(threshold):
		return allowance
	case income.GreaterThan(threshold) && partnerIncome.IsZero():
		return allowance
	default:
		return decimal.Zero
	}
}

// lookupQuote performs the stepped two-key lookup: the highest income step
// not exceeding the test income (the lowest step when none qualifies), then
// the lowest rate step at or above the test rate (the last step when the
// rate exceeds them all). Both fallbacks are defined behavior, not errors.
func lookupQuote(table domain.HousingExpenseTable, testIncome, testRate decimal.Decimal) (decimal.Decimal, error) {
	if len(table) == 0 {
		return decimal.Decimal{}, fmt.Errorf("housing-expense table is empty")
	}

	row := table[0]
	for _, r := range table {
		if testIncome.GreaterThanOrEqual(r.Income) {
			row = r
		} else {
			break
		}
	}

	if len(row.Quotes) == 0 {
		return decimal.Decimal{}, fmt.Errorf("housing-expense row for income %s has no rate steps", row.Income)
	}

	quote := row.Quotes[len(row.Quotes)-1].Quote
	for _, rq := range row.Quotes {
		if testRate.LessThanOrEqual(rq.Rate) {
			quote = rq.Quote
			break
		}
	}
	return quote, nil
}
