package rules

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validRulesYAML = `
fiscal_year: 2026
max_deduction_rate: 0.3756
aow_age: 67
tax_brackets_box1:
  - lower: 0
    upper: 38883
    rate: 0.3575
  - lower: 38883
    upper: 78426
    rate: 0.3756
  - lower: 78426
    rate: 0.495
ewf_table:
  - lower: 0
    upper: 75000
  - lower: 75001
    upper: 1350000
    percentage: 0.0035
  - lower: 1350001
    fixed_amount: 4725
    excess_percentage: 0.0235
    threshold: 1350000
hillen:
  enabled: true
  reduction_percentage: 0.7333
`

func writeRulesFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestStoreGet(t *testing.T) {
	dir := t.TempDir()
	writeRulesFile(t, dir, "2026.yaml", validRulesYAML)

	store := NewStore(dir, nil)

	rules, err := store.Get(2026)
	require.NoError(t, err)
	assert.Equal(t, 2026, rules.FiscalYear)
	assert.Len(t, rules.TaxBracketsBox1, 3)
	assert.True(t, rules.Hillen.Enabled)
	assert.True(t, rules.MaxDeductionRate.Equal(mustDecimal("0.3756")))
}

func TestStoreGetMissingYear(t *testing.T) {
	store := NewStore(t.TempDir(), nil)

	_, err := store.Get(1999)
	var notFound *RulesNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, 1999, notFound.FiscalYear)
}

func TestStoreGetInvalidFile(t *testing.T) {
	dir := t.TempDir()
	writeRulesFile(t, dir, "2026.yaml", "fiscal_year: [not a year")

	store := NewStore(dir, nil)
	_, err := store.Get(2026)
	var invalid *InvalidRulesError
	require.ErrorAs(t, err, &invalid)
}

func TestStoreGetYearMismatch(t *testing.T) {
	dir := t.TempDir()
	writeRulesFile(t, dir, "2027.yaml", validRulesYAML)

	store := NewStore(dir, nil)
	_, err := store.Get(2027)
	var invalid *InvalidRulesError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Error(), "declares fiscal year 2026")
}

func TestStoreCachesUntilInvalidated(t *testing.T) {
	dir := t.TempDir()
	writeRulesFile(t, dir, "2026.yaml", validRulesYAML)

	store := NewStore(dir, nil)
	first, err := store.Get(2026)
	require.NoError(t, err)

	// Removing the file does not affect the cached entry.
	require.NoError(t, os.Remove(filepath.Join(dir, "2026.yaml")))
	cached, err := store.Get(2026)
	require.NoError(t, err)
	assert.Same(t, first, cached)

	// After invalidation the missing file surfaces.
	store.Invalidate(2026)
	_, err = store.Get(2026)
	var notFound *RulesNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestStoreRetriesAfterFailedLoad(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, nil)

	_, err := store.Get(2026)
	var notFound *RulesNotFoundError
	require.ErrorAs(t, err, &notFound)

	// A file written after the failed load is visible without Invalidate.
	writeRulesFile(t, dir, "2026.yaml", validRulesYAML)
	rules, err := store.Get(2026)
	require.NoError(t, err)
	assert.Equal(t, 2026, rules.FiscalYear)

	// Repairing a broken file works the same way.
	writeRulesFile(t, dir, "2025.yaml", "fiscal_year: [broken")
	_, err = store.Get(2025)
	var invalid *InvalidRulesError
	require.ErrorAs(t, err, &invalid)

	writeRulesFile(t, dir, "2025.yaml", validRulesYAML)
	_, err = store.Get(2025)
	require.ErrorAs(t, err, &invalid, "year mismatch is still rejected")
	assert.Contains(t, invalid.Error(), "declares fiscal year 2026")
}

func TestStoreConcurrentGet(t *testing.T) {
	dir := t.TempDir()
	writeRulesFile(t, dir, "2026.yaml", validRulesYAML)

	store := NewStore(dir, nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rules, err := store.Get(2026)
			assert.NoError(t, err)
			assert.Equal(t, 2026, rules.FiscalYear)
		}()
	}
	wg.Wait()
}

func TestStoreAvailableYears(t *testing.T) {
	dir := t.TempDir()
	writeRulesFile(t, dir, "2026.yaml", validRulesYAML)
	writeRulesFile(t, dir, "2025.yaml", validRulesYAML)
	writeRulesFile(t, dir, "notes.txt", "ignored")

	store := NewStore(dir, nil)
	years, err := store.AvailableYears()
	require.NoError(t, err)
	assert.Equal(t, []int{2025, 2026}, years)
}
