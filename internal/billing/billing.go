// Package billing maps card purchases onto invoice due dates.
package billing

import (
	"time"

	"github.com/cleared-dev/pocket/internal/calendar"
	"github.com/cleared-dev/pocket/internal/model"
)

// CutoffDays is how many days before a due date the statement closes. A purchase
// made after the cutoff lands on the following month's invoice.
//
// This is a fixed policy, not a rule taken from any card issuer.
const CutoffDays = 5

// DueDate returns the due date of the installment at offset (0 for the first one)
// of a purchase made with card on the given date.
func DueDate(card model.Card, purchase calendar.Date, offset int) calendar.Date {
	day := calendar.ClampDueDay(card.DueDay)
	due := calendar.Build(purchase.Year(), purchase.Month(), day)
	cutoff := due.AddDays(-CutoffDays)
	if purchase.After(cutoff) {
		due = calendar.Build(purchase.Year(), purchase.Month()+1, day)
	}
	if offset == 0 {
		return due
	}
	return calendar.Build(due.Year(), due.Month()+time.Month(offset), day)
}

// Schedule returns the due dates of all count installments of a purchase.
func Schedule(card model.Card, purchase calendar.Date, count int) []calendar.Date {
	count = max(count, 1)
	dates := make([]calendar.Date, count)
	for i := range dates {
		dates[i] = DueDate(card, purchase, i)
	}
	return dates
}
