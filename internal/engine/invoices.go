package engine

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/pocket/internal/calendar"
	"github.com/cleared-dev/pocket/internal/model"
	"github.com/cleared-dev/pocket/internal/money"
)

// AddInvoice posts a manually entered charge on a card's open invoice for the due
// date, opening one if needed. Created holds the invoice id.
func (e *Engine) AddInvoice(in InvoiceInput) (View, error) {
	return e.apply("add invoice", func(s *model.State) (string, error) {
		item, err := validateInvoice(s, in)
		if err != nil {
			return "", err
		}
		l := e.ledger(s)
		invID := l.PostInstallment(in.CardID, in.DueDate, item)
		s.Invoices = l.Invoices()
		return invID, nil
	})
}

// PayInvoice marks an invoice paid. Paying is one-way; already paid and unknown
// invoices are left as they are.
func (e *Engine) PayInvoice(invoiceID string) (View, error) {
	return e.apply("pay invoice", func(s *model.State) (string, error) {
		l := e.ledger(s)
		if l.MarkPaid(invoiceID) {
			s.Invoices = l.Invoices()
		}
		return "", nil
	})
}

// DeleteInvoice removes an invoice. Unknown ids are a no-op.
func (e *Engine) DeleteInvoice(invoiceID string) (View, error) {
	return e.apply("delete invoice", func(s *model.State) (string, error) {
		l := e.ledger(s)
		if l.Remove(invoiceID) {
			s.Invoices = l.Invoices()
		}
		return "", nil
	})
}

// AdjustBalance records a signed manual correction on an account.
func (e *Engine) AdjustBalance(in AdjustmentInput) (View, error) {
	return e.apply("adjust balance", func(s *model.State) (string, error) {
		adj, err := validateAdjustment(s, "adjust balance", in)
		if err != nil {
			return "", err
		}
		adj.ID = e.ids.New()
		s.Adjustments = append(s.Adjustments, adj)
		return adj.ID, nil
	})
}

// ReconcileBalance records the adjustment needed to bring an account's derived
// balance to target. Nothing is recorded when the balance already matches.
func (e *Engine) ReconcileBalance(accountID string, target decimal.Decimal, on calendar.Date) (View, error) {
	current, ok := e.balances.Of(accountID)
	if !ok {
		err := notFound("account", accountID)
		e.log.Warn().Str("op", "reconcile balance").Err(err).Msg("mutation rejected")
		return e.View(), err
	}
	diff := money.Round(target).Sub(current)
	if diff.IsZero() {
		return e.View(), nil
	}
	return e.apply("reconcile balance", func(s *model.State) (string, error) {
		adj, err := validateAdjustment(s, "reconcile balance", AdjustmentInput{
			AccountID:   accountID,
			Amount:      diff,
			Date:        on,
			Description: "Reconciliation",
		})
		if err != nil {
			return "", err
		}
		adj.ID = e.ids.New()
		s.Adjustments = append(s.Adjustments, adj)
		return adj.ID, nil
	})
}
