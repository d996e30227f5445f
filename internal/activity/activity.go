// Package activity keeps an append-only CSV record of applied ledger mutations.
package activity

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one row in the activity log.
type Entry struct {
	Timestamp time.Time
	Actor     string
	Op        string
	Details   string
	EntityID  string
	// Balance is the total of all account balances after the mutation.
	Balance decimal.Decimal
}

// Header is the CSV header for activity.csv.
const Header = "timestamp,actor,op,details,entity_id,balance"

const (
	numFields   = 6
	logDir      = "logs"
	logFile     = "logs/activity.csv"
	colTime     = 0
	colActor    = 1
	colOp       = 2
	colDetails  = 3
	colEntityID = 4
	colBalance  = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTime] = e.Timestamp.Format(time.RFC3339)
	row[colActor] = e.Actor
	row[colOp] = e.Op
	row[colDetails] = e.Details
	row[colEntityID] = e.EntityID
	row[colBalance] = e.Balance.StringFixed(2)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTime])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTime], err)
	}
	bal, err := decimal.NewFromString(record[colBalance])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing balance %q: %w", record[colBalance], err)
	}

	return Entry{
		Timestamp: ts,
		Actor:     record[colActor],
		Op:        record[colOp],
		Details:   record[colDetails],
		EntityID:  record[colEntityID],
		Balance:   bal,
	}, nil
}

// Append writes entries to <dataDir>/logs/activity.csv, creating the file and
// header if needed.
func Append(dataDir string, entries []Entry) error {
	dir := filepath.Join(dataDir, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(dataDir, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <dataDir>/logs/activity.csv, or nil if the log
// does not exist yet.
func Read(dataDir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(dataDir, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading activity log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Tail returns the last n entries, newest last.
func Tail(entries []Entry, n int) []Entry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[len(entries)-n:]
}
