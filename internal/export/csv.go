// Package export writes statements and balances as CSV files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/pocket/internal/balance"
	"github.com/cleared-dev/pocket/internal/calendar"
	"github.com/cleared-dev/pocket/internal/report"
)

// Header is the CSV header for statement.csv.
const Header = "kind,ref_id,date,description,debit,credit,settled"

const (
	numFields  = 7
	colKind    = 0
	colRefID   = 1
	colDate    = 2
	colDesc    = 3
	colDebit   = 4
	colCredit  = 5
	colSettled = 6
)

// MarshalEntry converts a statement entry to a CSV row. Money leaving the account
// is written as a debit, money coming in as a credit.
func MarshalEntry(e report.Entry) []string {
	row := make([]string, numFields)
	row[colKind] = string(e.Kind)
	row[colRefID] = e.RefID
	row[colDate] = e.Date.String()
	row[colDesc] = e.Text
	switch {
	case e.Amount.IsNegative():
		row[colDebit] = e.Amount.Neg().StringFixed(2)
	case e.Amount.IsPositive():
		row[colCredit] = e.Amount.StringFixed(2)
	}
	row[colSettled] = strconv.FormatBool(e.Settled)
	return row
}

// UnmarshalEntry converts a CSV row to a statement entry.
func UnmarshalEntry(record []string) (report.Entry, error) {
	if len(record) != numFields {
		return report.Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := calendar.Parse(record[colDate])
	if err != nil {
		return report.Entry{}, err
	}

	var debit, credit decimal.Decimal
	if record[colDebit] != "" {
		if debit, err = decimal.NewFromString(record[colDebit]); err != nil {
			return report.Entry{}, fmt.Errorf("parsing debit %q: %w", record[colDebit], err)
		}
	}
	if record[colCredit] != "" {
		if credit, err = decimal.NewFromString(record[colCredit]); err != nil {
			return report.Entry{}, fmt.Errorf("parsing credit %q: %w", record[colCredit], err)
		}
	}

	settled, err := strconv.ParseBool(record[colSettled])
	if err != nil {
		return report.Entry{}, fmt.Errorf("parsing settled %q: %w", record[colSettled], err)
	}

	return report.Entry{
		Kind:    report.EntryKind(record[colKind]),
		RefID:   record[colRefID],
		Date:    date,
		Text:    record[colDesc],
		Amount:  credit.Sub(debit),
		Settled: settled,
	}, nil
}

// WriteEntries writes entries to a statement.csv writer (including header).
func WriteEntries(w io.Writer, entries []report.Entry) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadEntries reads all entries from a statement.csv reader.
func ReadEntries(r io.Reader) ([]report.Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading statement CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []report.Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// WriteBalances writes one row per account with its derived balance.
func WriteBalances(w io.Writer, b balance.Balances) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"account_id", "account_name", "balance"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, ab := range b.All() {
		if err := cw.Write([]string{ab.AccountID, ab.Name, ab.Balance.StringFixed(2)}); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
