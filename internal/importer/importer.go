// Package importer turns bank CSV exports into transactions for the engine.
package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/pocket/internal/calendar"
	"github.com/cleared-dev/pocket/internal/engine"
	"github.com/cleared-dev/pocket/internal/model"
)

// Row is one line of a bank export. Amount is signed as the bank shows it:
// money leaving the account is negative.
type Row struct {
	Date        calendar.Date
	Description string
	Amount      decimal.Decimal
	Reference   string
	Type        string
}

// Parser converts a bank CSV file into rows.
type Parser interface {
	Parse(r io.Reader) ([]Row, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a CSV file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&ChaseParser{})
	r.Register(&SimpleParser{})
	return r
}

// Target says where imported rows are booked. Exactly one of AccountID and CardID
// is set.
type Target struct {
	AccountID string
	CardID    string
	// Installments applies to card purchases; 0 means a single installment.
	Installments int
}

// Skip explains why a row produced no transaction.
type Skip struct {
	Row    Row
	Reason string
}

// Plan converts rows into transaction inputs for target. Rows already present in
// s (same account, date, amount and description) are skipped, as are credits on
// a card, which are payments or refunds rather than purchases.
func Plan(rows []Row, target Target, s model.State) ([]engine.TransactionInput, []Skip, error) {
	accountID := target.AccountID
	switch {
	case target.CardID != "" && target.AccountID != "":
		return nil, nil, fmt.Errorf("import target must be an account or a card, not both")
	case target.CardID != "":
		card, ok := s.Card(target.CardID)
		if !ok {
			return nil, nil, fmt.Errorf("card %q: %w", target.CardID, engine.ErrNotFound)
		}
		accountID = card.AccountID
	case target.AccountID != "":
		if _, ok := s.Account(target.AccountID); !ok {
			return nil, nil, fmt.Errorf("account %q: %w", target.AccountID, engine.ErrNotFound)
		}
	default:
		return nil, nil, fmt.Errorf("import target must name an account or a card")
	}

	seen := make(map[string]bool)
	for _, t := range s.Transactions {
		if t.AccountID == accountID {
			seen[fingerprint(t.Date, t.Signed(), t.Description)] = true
		}
	}

	var ins []engine.TransactionInput
	var skipped []Skip
	for _, row := range rows {
		switch {
		case row.Amount.IsZero():
			skipped = append(skipped, Skip{Row: row, Reason: "zero amount"})
			continue
		case target.CardID != "" && row.Amount.IsPositive():
			skipped = append(skipped, Skip{Row: row, Reason: "card credit"})
			continue
		}
		key := fingerprint(row.Date, row.Amount, row.Description)
		if seen[key] {
			skipped = append(skipped, Skip{Row: row, Reason: "already recorded"})
			continue
		}
		seen[key] = true

		in := engine.TransactionInput{
			Description: row.Description,
			Amount:      row.Amount.Abs(),
			Kind:        model.KindIncome,
			AccountID:   accountID,
			Date:        row.Date,
			Status:      model.StatusPaid,
		}
		if row.Amount.IsNegative() {
			in.Kind = model.KindExpense
		}
		if target.CardID != "" {
			in.PaymentMethod = model.MethodCard
			in.CardID = target.CardID
			in.Status = model.StatusPending
			in.InstallmentCount = max(target.Installments, 1)
		}
		ins = append(ins, in)
	}
	return ins, skipped, nil
}

func fingerprint(date calendar.Date, signed decimal.Decimal, desc string) string {
	return date.String() + "|" + signed.StringFixed(2) + "|" + strings.ToLower(strings.TrimSpace(desc))
}

// importDir is the subdirectory for import CSVs.
const importDir = "import"

// processedDir is the subdirectory for processed CSVs.
const processedDir = "import/processed"

// Scan returns CSV files in <dataDir>/import/.
func Scan(dataDir string) ([]FileInfo, error) {
	dir := filepath.Join(dataDir, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(dataDir, fileName string) error {
	src := filepath.Join(dataDir, importDir, fileName)
	dstDir := filepath.Join(dataDir, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
