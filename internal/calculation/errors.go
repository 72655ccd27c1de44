package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DivisionGuardError signals that a structurally-should-never-be-zero
// denominator turned out zero. It points at corrupt configuration or an
// uncovered edge case, not at bad user input, and is surfaced as a fatal
// error rather than propagated as Inf/NaN.
type DivisionGuardError struct {
	Quantity string
}

func (e *DivisionGuardError) Error() string {
	return fmt.Sprintf("division guard: %s is zero", e.Quantity)
}

// guardDiv divides num by den, failing with a DivisionGuardError naming the
// denominator when it is zero.
func guardDiv(num, den decimal.Decimal, quantity string) (decimal.Decimal, error) {
	if den.IsZero() {
		return decimal.Decimal{}, &DivisionGuardError{Quantity: quantity}
	}
	return num.Div(den), nil
}

// DomainInputError reports a value outside the modeled range. It is the
// caller's fault and carries enough context to render a precise message.
type DomainInputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *DomainInputError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// WOZValueOutOfRangeError reports a WOZ value that no EWF band covers, a
// negative WOZ value, or an empty band table.
type WOZValueOutOfRangeError struct {
	WOZValue   decimal.Decimal
	FiscalYear int
}

func (e *WOZValueOutOfRangeError) Error() string {
	return fmt.Sprintf("WOZ value %s falls outside the EWF configuration for %d", e.WOZValue, e.FiscalYear)
}
