// Package invoices keeps card invoices consistent with the purchases posted to them.
package invoices

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/pocket/internal/billing"
	"github.com/cleared-dev/pocket/internal/calendar"
	"github.com/cleared-dev/pocket/internal/id"
	"github.com/cleared-dev/pocket/internal/model"
	"github.com/cleared-dev/pocket/internal/money"
)

// Ledger holds a working set of invoices. Every method keeps Amount equal to the
// sum of the invoice's items and drops invoices left without items.
type Ledger struct {
	invoices []model.Invoice
	ids      id.Generator
}

// NewLedger returns a Ledger over a private copy of invoices.
func NewLedger(invoices []model.Invoice, ids id.Generator) *Ledger {
	cp := make([]model.Invoice, len(invoices))
	for i, inv := range invoices {
		inv.Items = slices.Clone(inv.Items)
		cp[i] = inv
	}
	return &Ledger{invoices: cp, ids: ids}
}

// Invoices returns the current invoice set.
func (l *Ledger) Invoices() []model.Invoice {
	return l.invoices
}

// PostInstallment adds item to the unpaid invoice of cardID due on due, opening a
// new invoice when there is none. Paid invoices are never reopened. It returns
// the id of the invoice the item landed on.
func (l *Ledger) PostInstallment(cardID string, due calendar.Date, item model.LineItem) string {
	item.Amount = money.Round(item.Amount)
	for i := range l.invoices {
		inv := &l.invoices[i]
		if inv.CardID != cardID || inv.Paid || inv.DueDate != due {
			continue
		}
		inv.Items = append(inv.Items, item)
		inv.Amount = inv.ItemsTotal()
		return inv.ID
	}

	inv := model.Invoice{
		ID:      l.ids.New(),
		CardID:  cardID,
		DueDate: due,
		Items:   []model.LineItem{item},
	}
	inv.Amount = inv.ItemsTotal()
	l.invoices = append(l.invoices, inv)
	return inv.ID
}

// PostCardPurchase spreads a card expense over its installments and posts each one
// on the invoice its billing cycle falls into. It returns the touched invoice ids
// in installment order.
func (l *Ledger) PostCardPurchase(txn model.Transaction, card model.Card) ([]string, error) {
	if !txn.IsCardExpense() {
		return nil, fmt.Errorf("transaction %s is not a card expense", txn.ID)
	}
	if txn.CardID != card.ID {
		return nil, fmt.Errorf("transaction %s is charged to card %q, not %q", txn.ID, txn.CardID, card.ID)
	}

	count := max(txn.InstallmentCount, 1)
	parts := money.SplitInstallments(txn.Amount, count)
	dues := billing.Schedule(card, txn.Date, count)

	touched := make([]string, count)
	for i := 0; i < count; i++ {
		touched[i] = l.PostInstallment(card.ID, dues[i], model.LineItem{
			TransactionID:    txn.ID,
			Description:      txn.Description,
			Installment:      i + 1,
			InstallmentCount: count,
			Amount:           parts[i],
		})
	}
	return touched, nil
}

// Retract removes every line item that came from txnID, recomputes the affected
// totals and prunes invoices left empty. It returns the number of removed items.
func (l *Ledger) Retract(txnID string) int {
	if txnID == "" {
		return 0
	}
	removed := 0
	kept := l.invoices[:0]
	for _, inv := range l.invoices {
		before := len(inv.Items)
		inv.Items = slices.DeleteFunc(inv.Items, func(it model.LineItem) bool {
			return it.TransactionID == txnID
		})
		if n := before - len(inv.Items); n > 0 {
			removed += n
			inv.Amount = inv.ItemsTotal()
		}
		if len(inv.Items) == 0 {
			continue
		}
		kept = append(kept, inv)
	}
	l.invoices = kept
	return removed
}

// MarkPaid moves an unpaid invoice to paid. It reports whether anything changed;
// already paid and unknown invoices are left alone.
func (l *Ledger) MarkPaid(invoiceID string) bool {
	for i := range l.invoices {
		if l.invoices[i].ID == invoiceID {
			if l.invoices[i].Paid {
				return false
			}
			l.invoices[i].Paid = true
			return true
		}
	}
	return false
}

// Remove deletes one invoice and reports whether it existed.
func (l *Ledger) Remove(invoiceID string) bool {
	before := len(l.invoices)
	l.invoices = slices.DeleteFunc(l.invoices, func(inv model.Invoice) bool { return inv.ID == invoiceID })
	return len(l.invoices) != before
}

// RemoveCard deletes every invoice of a card and returns how many were removed.
func (l *Ledger) RemoveCard(cardID string) int {
	before := len(l.invoices)
	l.invoices = slices.DeleteFunc(l.invoices, func(inv model.Invoice) bool { return inv.CardID == cardID })
	return before - len(l.invoices)
}

// Mismatch describes an invoice whose stored amount disagrees with its items.
type Mismatch struct {
	InvoiceID  string
	Amount     decimal.Decimal
	ItemsTotal decimal.Decimal
	Empty      bool
}

func (m Mismatch) Error() string {
	if m.Empty {
		return fmt.Sprintf("invoice %s has no items", m.InvoiceID)
	}
	return fmt.Sprintf("invoice %s: amount %s != items %s", m.InvoiceID, m.Amount.StringFixed(2), m.ItemsTotal.StringFixed(2))
}

// Check returns every invoice that breaks the amount == sum(items) rule or that
// should have been pruned.
func Check(invoices []model.Invoice) []Mismatch {
	var out []Mismatch
	for _, inv := range invoices {
		total := inv.ItemsTotal()
		switch {
		case len(inv.Items) == 0:
			out = append(out, Mismatch{InvoiceID: inv.ID, Amount: inv.Amount, ItemsTotal: total, Empty: true})
		case !money.Round(inv.Amount).Equal(total):
			out = append(out, Mismatch{InvoiceID: inv.ID, Amount: inv.Amount, ItemsTotal: total})
		}
	}
	return out
}
