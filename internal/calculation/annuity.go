package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rvdmeer/hyponorm/internal/domain"
)

var (
	one    = decimal.NewFromInt(1)
	twelve = decimal.NewFromInt(12)
)

// roundCurrency rounds a monetary amount to the cent, half-up. Rounding
// happens at every accumulation boundary, not only at final output; the
// cent-level results depend on that ordering.
func roundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Pmt is the standard closed-form fixed-payment formula. Following the
// financial sign convention it returns the negative of the outflow; callers
// negate it where the result represents an amount owed. A zero rate degrades
// to linear division, which keeps the exponential form free of a zero
// denominator.
func Pmt(ratePerPeriod decimal.Decimal, periods int, presentValue, futureValue decimal.Decimal) decimal.Decimal {
	n := decimal.NewFromInt(int64(periods))
	if ratePerPeriod.IsZero() {
		return presentValue.Add(futureValue).Div(n).Neg()
	}
	pvif := one.Add(ratePerPeriod).Pow(n)
	num := ratePerPeriod.Mul(presentValue.Mul(pvif).Add(futureValue))
	return num.Div(pvif.Sub(one)).Neg()
}

// MonthlyPayment is the priced month of a single loan part. All amounts are
// non-negative and rounded to the cent.
type MonthlyPayment struct {
	InterestPayment    decimal.Decimal
	PrincipalPayment   decimal.Decimal
	GrossPayment       decimal.Decimal
	RemainingPrincipal decimal.Decimal
}

// LoanCalculator prices one month of a loan part. The month number is
// 1-based.
type LoanCalculator interface {
	CalculateMonth(principal, annualRate decimal.Decimal, termYears, monthNumber int) MonthlyPayment
}

// AnnuityCalculator prices a fixed-total-payment loan.
type AnnuityCalculator struct{}

func (AnnuityCalculator) CalculateMonth(principal, annualRate decimal.Decimal, termYears, monthNumber int) MonthlyPayment {
	n := termYears * 12
	r := annualRate.Div(twelve)

	var annuity decimal.Decimal
	if r.IsZero() {
		annuity = principal.Div(decimal.NewFromInt(int64(n)))
	} else {
		// A = P * r(1+r)^n / ((1+r)^n - 1)
		factor := one.Add(r).Pow(decimal.NewFromInt(int64(n)))
		annuity = principal.Mul(r.Mul(factor)).Div(factor.Sub(one))
	}

	remainingStart := principal
	if monthNumber > 1 {
		remainingStart = annuityRemaining(principal, r, annuity, monthNumber-1)
	}
	if remainingStart.IsNegative() {
		remainingStart = decimal.Zero
	}

	interest := roundCurrency(remainingStart.Mul(r))
	principalPayment := roundCurrency(annuity.Sub(interest))
	remainingEnd := remainingStart.Sub(principalPayment)
	if remainingEnd.IsNegative() {
		remainingEnd = decimal.Zero
	}

	return MonthlyPayment{
		InterestPayment:    interest,
		PrincipalPayment:   principalPayment,
		GrossPayment:       roundCurrency(annuity),
		RemainingPrincipal: remainingEnd,
	}
}

// annuityRemaining computes the outstanding balance after k months via the
// closed-form amortization formula B_k = P(1+r)^k - A((1+r)^k - 1)/r.
func annuityRemaining(principal, monthlyRate, annuity decimal.Decimal, afterMonths int) decimal.Decimal {
	k := decimal.NewFromInt(int64(afterMonths))
	if monthlyRate.IsZero() {
		return principal.Sub(annuity.Mul(k))
	}
	factor := one.Add(monthlyRate).Pow(k)
	return principal.Mul(factor).Sub(annuity.Mul(factor.Sub(one)).Div(monthlyRate))
}

// LinearCalculator prices a constant-principal-repayment loan. The total
// payment decreases monotonically over the term.
type LinearCalculator struct{}

func (LinearCalculator) CalculateMonth(principal, annualRate decimal.Decimal, termYears, monthNumber int) MonthlyPayment {
	n := decimal.NewFromInt(int64(termYears * 12))
	monthlyPrincipal := roundCurrency(principal.Div(n))

	remainingStart := principal.Sub(monthlyPrincipal.Mul(decimal.NewFromInt(int64(monthNumber - 1))))
	if remainingStart.IsNegative() {
		remainingStart = decimal.Zero
	}

	interest := roundCurrency(remainingStart.Mul(annualRate).Div(twelve))
	remainingEnd := remainingStart.Sub(monthlyPrincipal)
	if remainingEnd.IsNegative() {
		remainingEnd = decimal.Zero
	}

	return MonthlyPayment{
		InterestPayment:    interest,
		PrincipalPayment:   monthlyPrincipal,
		GrossPayment:       interest.Add(monthlyPrincipal),
		RemainingPrincipal: remainingEnd,
	}
}

// InterestOnlyCalculator prices a bullet loan: no principal repayment, the
// balance stays at the original principal for the life of the loan.
type InterestOnlyCalculator struct{}

func (InterestOnlyCalculator) CalculateMonth(principal, annualRate decimal.Decimal, termYears, monthNumber int) MonthlyPayment {
	interest := roundCurrency(principal.Mul(annualRate).Div(twelve))

	return MonthlyPayment{
		InterestPayment:    interest,
		PrincipalPayment:   decimal.Zero,
		GrossPayment:       interest,
		RemainingPrincipal: principal,
	}
}

// CalculatorFor returns the loan calculator for a repayment type. The
// savings type exists only in affordability requests and has no monthly
// schedule.
func CalculatorFor(t domain.RepaymentType) (LoanCalculator, error) {
	switch t {
	case domain.RepaymentAnnuity:
		return AnnuityCalculator{}, nil
	case domain.RepaymentLinear:
		return LinearCalculator{}, nil
	case domain.RepaymentInterestOnly:
		return InterestOnlyCalculator{}, nil
	default:
		return nil, &DomainInputError{
			Field:  "repayment",
			Value:  string(t),
			Reason: fmt.Sprintf("no monthly schedule for this type; valid: %s, %s, %s", domain.RepaymentAnnuity, domain.RepaymentLinear, domain.RepaymentInterestOnly),
		}
	}
}
