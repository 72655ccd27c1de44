package rules

import "fmt"

// RulesNotFoundError reports that no rules file exists for a fiscal year.
type RulesNotFoundError struct {
	FiscalYear int
	Path       string
}

func (e *RulesNotFoundError) Error() string {
	return fmt.Sprintf("no fiscal rules for %d (looked at %s)", e.FiscalYear, e.Path)
}

// InvalidRulesError reports a rules file that exists but fails to parse or
// validate. The underlying cause, when any, is wrapped.
type InvalidRulesError struct {
	FiscalYear int
	Reason     string
	Err        error
}

func (e *InvalidRulesError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid fiscal rules for %d: %s: %v", e.FiscalYear, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid fiscal rules for %d: %s", e.FiscalYear, e.Reason)
}

func (e *InvalidRulesError) Unwrap() error {
	return e.Err
}
