package model

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/pocket/internal/calendar"
)

// Kind classifies categories and transactions.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool { return k == KindIncome || k == KindExpense }

// Account is a bank account. Its current balance is never stored here; it is
// derived from OpeningBalance plus the event history by the balance package.
type Account struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
}

// Card is a credit card owned by exactly one account.
type Card struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	AccountID   string          `json:"accountId"`
	CreditLimit decimal.Decimal `json:"creditLimit"`
	DueDay      int             `json:"dueDay"` // 1..28
}

// Category labels transactions for reporting.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// Adjustment is a manual signed correction to an account's derived balance.
type Adjustment struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"accountId"`
	Amount      decimal.Decimal `json:"amount"`
	Date        calendar.Date   `json:"date"`
	Description string          `json:"description"`
}
