package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/pocket/internal/calendar"
)

// SimpleParser parses a plain "date,description,amount" CSV with ISO dates, the
// shape most spreadsheets can export.
type SimpleParser struct{}

const (
	simpleNumFields = 3
	simpleColDate   = 0
	simpleColDesc   = 1
	simpleColAmount = 2
)

// Format returns the parser name.
func (p *SimpleParser) Format() string { return "simple" }

// Parse reads the CSV and returns its rows. The first line is a header.
func (p *SimpleParser) Parse(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = simpleNumFields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var rows []Row
	for i, rec := range records[1:] {
		date, err := calendar.Parse(rec[simpleColDate])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(rec[simpleColAmount]))
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing amount %q: %w", i+2, rec[simpleColAmount], err)
		}
		desc := strings.TrimSpace(rec[simpleColDesc])
		rows = append(rows, Row{
			Date:        date,
			Description: desc,
			Amount:      amount,
			Reference:   makeRef("simple", time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC), desc),
		})
	}
	return rows, nil
}
