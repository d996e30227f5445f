package engine

import (
	"fmt"
	"slices"

	"github.com/cleared-dev/pocket/internal/invoices"
	"github.com/cleared-dev/pocket/internal/model"
)

// AddTransaction records a transaction. A card expense is spread over its
// installments and posted on the matching invoices.
func (e *Engine) AddTransaction(in TransactionInput) (View, error) {
	return e.apply("add transaction", func(s *model.State) (string, error) {
		return e.insertTransaction(s, "add transaction", in)
	})
}

// AddTransactions records a batch of transactions atomically: if any input is
// invalid, none is recorded.
func (e *Engine) AddTransactions(ins []TransactionInput) (View, error) {
	return e.apply("add transactions", func(s *model.State) (string, error) {
		for i, in := range ins {
			if _, err := e.insertTransaction(s, "import transaction", in); err != nil {
				return "", fmt.Errorf("row %d: %w", i+1, err)
			}
		}
		return "", nil
	})
}

func (e *Engine) insertTransaction(s *model.State, op string, in TransactionInput) (string, error) {
	txn, err := validateTransaction(s, op, in)
	if err != nil {
		return "", err
	}
	txn.ID = e.ids.New()

	l := e.ledger(s)
	if err := post(l, s, txn); err != nil {
		return "", err
	}
	s.Invoices = l.Invoices()
	s.Transactions = append(s.Transactions, txn)
	return txn.ID, nil
}

// EditTransaction replaces a transaction's fields. Its previous invoice line items
// are retracted and, for card expenses, posted again from the new values.
func (e *Engine) EditTransaction(txnID string, in TransactionInput) (View, error) {
	return e.apply("edit transaction", func(s *model.State) (string, error) {
		i := slices.IndexFunc(s.Transactions, func(t model.Transaction) bool { return t.ID == txnID })
		if i < 0 {
			return "", notFound("transaction", txnID)
		}
		txn, err := validateTransaction(s, "edit transaction", in)
		if err != nil {
			return "", err
		}
		txn.ID = txnID

		l := e.ledger(s)
		l.Retract(txnID)
		if err := post(l, s, txn); err != nil {
			return "", err
		}
		s.Invoices = l.Invoices()
		s.Transactions[i] = txn
		return "", nil
	})
}

// DeleteTransaction removes a transaction and retracts its invoice line items.
// Unknown ids are a no-op.
func (e *Engine) DeleteTransaction(txnID string) (View, error) {
	return e.apply("delete transaction", func(s *model.State) (string, error) {
		if _, ok := s.Transaction(txnID); !ok {
			return "", nil
		}
		l := e.ledger(s)
		l.Retract(txnID)
		s.Invoices = l.Invoices()
		s.Transactions = slices.DeleteFunc(s.Transactions, func(t model.Transaction) bool { return t.ID == txnID })
		return "", nil
	})
}

// SetTransactionStatus marks a transaction paid or pending. Card expenses stay
// pending: their settlement is the paid state of their invoices.
func (e *Engine) SetTransactionStatus(txnID string, status model.Status) (View, error) {
	return e.apply("set transaction status", func(s *model.State) (string, error) {
		return "", setStatus(s, txnID, func(model.Status) model.Status { return status })
	})
}

// ToggleTransactionStatus flips a transaction between paid and pending.
func (e *Engine) ToggleTransactionStatus(txnID string) (View, error) {
	return e.apply("toggle transaction status", func(s *model.State) (string, error) {
		return "", setStatus(s, txnID, func(cur model.Status) model.Status {
			if cur == model.StatusPaid {
				return model.StatusPending
			}
			return model.StatusPaid
		})
	})
}

func setStatus(s *model.State, txnID string, next func(model.Status) model.Status) error {
	i := slices.IndexFunc(s.Transactions, func(t model.Transaction) bool { return t.ID == txnID })
	if i < 0 {
		return notFound("transaction", txnID)
	}
	txn := &s.Transactions[i]
	status := next(txn.Status)

	p := &problems{op: "set transaction status"}
	if !status.Valid() {
		p.add("status", "must be %q or %q, got %q", model.StatusPaid, model.StatusPending, status)
	}
	if txn.PaymentMethod == model.MethodCard && status != model.StatusPending {
		p.add("status", "card purchases stay pending until their invoice is paid")
	}
	if err := p.err(); err != nil {
		return err
	}
	txn.Status = status
	return nil
}

// post puts a card expense on its invoices. Other transactions are left alone.
func post(l *invoices.Ledger, s *model.State, txn model.Transaction) error {
	if !txn.IsCardExpense() {
		return nil
	}
	card, ok := s.Card(txn.CardID)
	if !ok {
		return notFound("card", txn.CardID)
	}
	if _, err := l.PostCardPurchase(txn, card); err != nil {
		return fmt.Errorf("posting installments: %w", err)
	}
	return nil
}
