package export

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/cleared-dev/pocket/internal/balance"
	"github.com/cleared-dev/pocket/internal/calendar"
	"github.com/cleared-dev/pocket/internal/report"
)

// Service writes exports below a root directory.
type Service struct {
	root string
}

// NewService creates a Service writing below root.
func NewService(root string) *Service {
	return &Service{root: root}
}

// WriteStatements splits entries by month and writes each month to
// <root>/YYYY/MM/statement.csv, oldest entry first. It returns the written paths
// in month order.
func (s *Service) WriteStatements(entries []report.Entry) ([]string, error) {
	byMonth := make(map[string][]report.Entry)
	for _, e := range entries {
		if e.Date.IsZero() {
			continue
		}
		key := e.Date.MonthKey()
		byMonth[key] = append(byMonth[key], e)
	}

	months := make([]string, 0, len(byMonth))
	for k := range byMonth {
		months = append(months, k)
	}
	slices.Sort(months)

	paths := make([]string, 0, len(months))
	for _, m := range months {
		rows := byMonth[m]
		slices.SortStableFunc(rows, func(a, b report.Entry) int {
			if c := a.Date.Compare(b.Date); c != 0 {
				return c
			}
			return cmp.Compare(a.RefID, b.RefID)
		})
		path, err := s.writeMonth(m, rows)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (s *Service) writeMonth(key string, rows []report.Entry) (string, error) {
	path, err := s.monthPath(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating month dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating statement %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteEntries(f, rows); err != nil {
		return "", fmt.Errorf("writing statement %s: %w", path, err)
	}
	return path, f.Close()
}

// ReadMonth reads the statement written for a month key ("2024-03").
func (s *Service) ReadMonth(key string) ([]report.Entry, error) {
	path, err := s.monthPath(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening statement: %w", err)
	}
	defer f.Close()
	return ReadEntries(f)
}

// WriteBalances writes <root>/balances.csv.
func (s *Service) WriteBalances(b balance.Balances) (string, error) {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}
	path := filepath.Join(s.root, "balances.csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating balances file: %w", err)
	}
	defer f.Close()

	if err := WriteBalances(f, b); err != nil {
		return "", err
	}
	return path, f.Close()
}

func (s *Service) monthPath(key string) (string, error) {
	year, month, err := calendar.ParseMonthKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", int(month)), "statement.csv"), nil
}
