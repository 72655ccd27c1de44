package rules

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rvdmeer/hyponorm/internal/domain"
)

// LoadNormTables reads and validates the affordability norm tables. Missing
// defaults are filled in from the published norm parameters.
func LoadNormTables(path string, logger *zap.Logger) (*domain.NormTables, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading norm tables %s: %w", path, err)
	}

	var tables domain.NormTables
	if err := yaml.Unmarshal(data, &tables); err != nil {
		return nil, fmt.Errorf("parsing norm tables %s: %w", path, err)
	}

	tables.Defaults = tables.Defaults.Merged(domain.DefaultAffordabilityConstants())

	if err := validateNormTables(&tables); err != nil {
		return nil, fmt.Errorf("norm tables %s: %w", path, err)
	}

	logger.Debug("loaded norm tables",
		zap.String("path", path),
		zap.String("version", tables.Version),
		zap.Int("energy_labels", len(tables.EnergyLabels)))
	return &tables, nil
}

// LoadAOWTable reads and validates the statutory retirement-age table.
func LoadAOWTable(path string, logger *zap.Logger) (*domain.AOWTable, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading retirement-age table %s: %w", path, err)
	}

	var table domain.AOWTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing retirement-age table %s: %w", path, err)
	}

	if err := validateAOWTable(&table); err != nil {
		return nil, fmt.Errorf("retirement-age table %s: %w", path, err)
	}

	logger.Debug("loaded retirement-age table",
		zap.String("path", path),
		zap.String("version", table.Version),
		zap.Int("rows", len(table.Rows)))
	return &table, nil
}

func validateNormTables(t *domain.NormTables) error {
	sets := []struct {
		name  string
		table domain.HousingExpenseTable
	}{
		{"quotes.standard", t.Quotes.Standard},
		{"quotes.standard_box3", t.Quotes.StandardBox3},
		{"quotes.aow", t.Quotes.AOW},
		{"quotes.aow_box3", t.Quotes.AOWBox3},
	}
	for _, set := range sets {
		if err := validateHousingExpenseTable(set.name, set.table); err != nil {
			return err
		}
	}

	seen := make(map[string]bool, len(t.EnergyLabels))
	for i, tier := range t.EnergyLabels {
		if tier.Label == "" {
			return fmt.Errorf("energy_labels[%d]: empty label", i)
		}
		if seen[tier.Label] {
			return fmt.Errorf("energy_labels[%d]: duplicate label %q", i, tier.Label)
		}
		seen[tier.Label] = true
		if tier.Bonus.IsNegative() || tier.InvestmentCap.IsNegative() {
			return fmt.Errorf("energy_labels[%d] (%s): negative bonus or cap", i, tier.Label)
		}
	}

	if len(t.StudentLoanFactors) == 0 {
		return fmt.Errorf("student_loan_factors is empty")
	}
	for i, bracket := range t.StudentLoanFactors {
		last := i == len(t.StudentLoanFactors)-1
		if last {
			if bracket.RateCeiling != nil {
				return fmt.Errorf("student_loan_factors[%d]: last bracket must be the uncapped fallback", i)
			}
			continue
		}
		if bracket.RateCeiling == nil {
			return fmt.Errorf("student_loan_factors[%d]: only the last bracket may omit rate_ceiling", i)
		}
		if next := t.StudentLoanFactors[i+1].RateCeiling; next != nil && !next.GreaterThan(*bracket.RateCeiling) {
			return fmt.Errorf("student_loan_factors[%d]: rate ceilings not ascending", i+1)
		}
	}

	return nil
}

func validateHousingExpenseTable(name string, table domain.HousingExpenseTable) error {
	if len(table) == 0 {
		return fmt.Errorf("%s is empty", name)
	}
	for i, row := range table {
		if i > 0 && !row.Income.GreaterThan(table[i-1].Income) {
			return fmt.Errorf("%s[%d]: income steps not ascending", name, i)
		}
		if len(row.Quotes) == 0 {
			return fmt.Errorf("%s[%d]: row has no rate steps", name, i)
		}
		for j, rq := range row.Quotes {
			if j > 0 && !rq.Rate.GreaterThan(row.Quotes[j-1].Rate) {
				return fmt.Errorf("%s[%d].quotes[%d]: rate steps not ascending", name, i, j)
			}
			if rq.Quote.IsNegative() || rq.Quote.GreaterThan(one) {
				return fmt.Errorf("%s[%d].quotes[%d]: quote %s outside [0, 1]", name, i, j, rq.Quote)
			}
		}
	}
	return nil
}

func validateAOWTable(t *domain.AOWTable) error {
	for i, row := range t.Rows {
		if row.BornOnOrBefore.IsZero() {
			return fmt.Errorf("rows[%d]: missing born_on_or_before", i)
		}
		if i > 0 && !row.BornOnOrBefore.After(t.Rows[i-1].BornOnOrBefore) {
			return fmt.Errorf("rows[%d]: ceilings not ascending", i)
		}
		if row.Years <= 0 || row.Months < 0 || row.Months > 11 {
			return fmt.Errorf("rows[%d]: implausible retirement age %dy%dm", i, row.Years, row.Months)
		}
	}
	if t.Fallback.Years <= 0 || t.Fallback.Months < 0 || t.Fallback.Months > 11 {
		return fmt.Errorf("fallback: implausible retirement age %dy%dm", t.Fallback.Years, t.Fallback.Months)
	}
	return nil
}
