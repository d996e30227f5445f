// Package balance derives account balances by replaying the whole event set.
package balance

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/pocket/internal/model"
	"github.com/cleared-dev/pocket/internal/money"
)

// AccountBalance is the derived balance of one account.
type AccountBalance struct {
	AccountID string
	Name      string
	Balance   decimal.Decimal
}

// Balances is the result of a recomputation. It is the only place a current
// balance can be read from.
type Balances struct {
	order []string
	by    map[string]AccountBalance
}

// Recompute replays every qualifying event onto each account's opening balance:
//
//   - paid transactions not paid by card (income adds, expense subtracts)
//   - paid invoices of cards owned by the account (subtract)
//   - adjustments (signed)
//
// Each balance is rounded to the cent once, after summation. Events that reference
// unknown accounts or cards are ignored.
func Recompute(s model.State) Balances {
	sums := make(map[string]decimal.Decimal, len(s.Accounts))
	for _, a := range s.Accounts {
		sums[a.ID] = a.OpeningBalance
	}
	add := func(accountID string, d decimal.Decimal) {
		if cur, ok := sums[accountID]; ok {
			sums[accountID] = cur.Add(d)
		}
	}

	for _, t := range s.Transactions {
		if t.Status != model.StatusPaid || t.PaymentMethod == model.MethodCard {
			continue
		}
		add(t.AccountID, t.Signed())
	}

	owner := make(map[string]string, len(s.Cards))
	for _, c := range s.Cards {
		owner[c.ID] = c.AccountID
	}
	for _, inv := range s.Invoices {
		if !inv.Paid {
			continue
		}
		if accountID, ok := owner[inv.CardID]; ok {
			add(accountID, inv.Amount.Neg())
		}
	}

	for _, adj := range s.Adjustments {
		add(adj.AccountID, adj.Amount)
	}

	b := Balances{
		order: make([]string, 0, len(s.Accounts)),
		by:    make(map[string]AccountBalance, len(s.Accounts)),
	}
	for _, a := range s.Accounts {
		if _, dup := b.by[a.ID]; dup {
			continue
		}
		b.order = append(b.order, a.ID)
		b.by[a.ID] = AccountBalance{AccountID: a.ID, Name: a.Name, Balance: money.Round(sums[a.ID])}
	}
	return b
}

// Of returns the balance of one account.
func (b Balances) Of(accountID string) (decimal.Decimal, bool) {
	ab, ok := b.by[accountID]
	return ab.Balance, ok
}

// Total returns the sum of all account balances.
func (b Balances) Total() decimal.Decimal {
	total := decimal.Zero
	for _, ab := range b.by {
		total = total.Add(ab.Balance)
	}
	return total
}

// All returns the balances in account order.
func (b Balances) All() []AccountBalance {
	out := make([]AccountBalance, 0, len(b.order))
	for _, accountID := range b.order {
		out = append(out, b.by[accountID])
	}
	return out
}

// Len returns the number of accounts covered.
func (b Balances) Len() int { return len(b.order) }

// Equal reports whether two recomputations produced the same balances.
func (b Balances) Equal(o Balances) bool {
	if len(b.by) != len(o.by) {
		return false
	}
	for accountID, ab := range b.by {
		other, ok := o.by[accountID]
		if !ok || !ab.Balance.Equal(other.Balance) {
			return false
		}
	}
	return true
}
