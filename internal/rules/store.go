package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rvdmeer/hyponorm/internal/domain"
)

// Store loads per-year fiscal rule files lazily and caches the successful
// loads. A cached year is read and validated at most once until invalidated;
// concurrent callers for the same year share a single load.
type Store struct {
	dir    string
	logger *zap.Logger

	mu      sync.Mutex
	entries map[int]*storeEntry
}

type storeEntry struct {
	once  sync.Once
	rules *domain.FiscalYearRules
	err   error
}

// NewStore creates a store over a directory of <year>.yaml files. A nil
// logger disables logging.
func NewStore(dir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		dir:     dir,
		logger:  logger,
		entries: make(map[int]*storeEntry),
	}
}

// Get returns the validated rule set for a fiscal year, loading it on first
// use. Missing years yield a RulesNotFoundError, unparseable or inconsistent
// files an InvalidRulesError. Only successful loads are cached, so a rules
// file that appears or is repaired after a failed Get is picked up on the
// next call.
func (s *Store) Get(fiscalYear int) (*domain.FiscalYearRules, error) {
	s.mu.Lock()
	entry, ok := s.entries[fiscalYear]
	if !ok {
		entry = &storeEntry{}
		s.entries[fiscalYear] = entry
	}
	s.mu.Unlock()

	entry.once.Do(func() {
		entry.rules, entry.err = s.load(fiscalYear)
	})

	if entry.err != nil {
		s.mu.Lock()
		if s.entries[fiscalYear] == entry {
			delete(s.entries, fiscalYear)
		}
		s.mu.Unlock()
	}
	return entry.rules, entry.err
}

// Invalidate drops the cached entry for a year so the next Get rereads the
// file. Unknown years are a no-op.
func (s *Store) Invalidate(fiscalYear int) {
	s.mu.Lock()
	delete(s.entries, fiscalYear)
	s.mu.Unlock()
}

// AvailableYears lists the fiscal years present in the directory, sorted
// ascending. Files not named <year>.yaml are ignored.
func (s *Store) AvailableYears() ([]int, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading rules directory %s: %w", s.dir, err)
	}

	var years []int
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		name := strings.TrimSuffix(de.Name(), ".yaml")
		if name == de.Name() {
			continue
		}
		year, err := strconv.Atoi(name)
		if err != nil {
			continue
		}
		years = append(years, year)
	}
	sort.Ints(years)
	return years, nil
}

func (s *Store) load(fiscalYear int) (*domain.FiscalYearRules, error) {
	path := filepath.Join(s.dir, fmt.Sprintf("%d.yaml", fiscalYear))

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("fiscal rules file missing",
				zap.Int("fiscal_year", fiscalYear),
				zap.String("path", path))
			return nil, &RulesNotFoundError{FiscalYear: fiscalYear, Path: path}
		}
		return nil, &InvalidRulesError{FiscalYear: fiscalYear, Reason: "reading file", Err: err}
	}

	var rules domain.FiscalYearRules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, &InvalidRulesError{FiscalYear: fiscalYear, Reason: "parsing yaml", Err: err}
	}
	if rules.FiscalYear != fiscalYear {
		return nil, &InvalidRulesError{
			FiscalYear: fiscalYear,
			Reason:     fmt.Sprintf("file declares fiscal year %d", rules.FiscalYear),
		}
	}
	if err := Validate(&rules); err != nil {
		return nil, &InvalidRulesError{FiscalYear: fiscalYear, Reason: "validation", Err: err}
	}

	s.logger.Debug("loaded fiscal rules",
		zap.Int("fiscal_year", fiscalYear),
		zap.String("path", path),
		zap.String("source", rules.Source))
	return &rules, nil
}
