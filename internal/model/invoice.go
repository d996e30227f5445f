package model

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/pocket/internal/calendar"
)

// LineItem is one installment's contribution to an invoice. Items entered by hand
// have an empty TransactionID.
type LineItem struct {
	TransactionID    string          `json:"transactionId,omitempty"`
	Description      string          `json:"description"`
	Installment      int             `json:"installment"` // 1-based
	InstallmentCount int             `json:"installmentCount"`
	Amount           decimal.Decimal `json:"amount"`
}

// Invoice aggregates the card charges due on one date.
type Invoice struct {
	ID      string          `json:"id"`
	CardID  string          `json:"cardId"`
	DueDate calendar.Date   `json:"dueDate"`
	Amount  decimal.Decimal `json:"amount"`
	Paid    bool            `json:"paid"`
	Items   []LineItem      `json:"items"`
}

// ItemsTotal returns the cent-rounded sum of the invoice's line items.
func (inv Invoice) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range inv.Items {
		total = total.Add(it.Amount)
	}
	return total.Round(2)
}
