package model

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/pocket/internal/calendar"
)

// Status is the settlement state of a transaction at the account level.
type Status string

const (
	StatusPaid    Status = "paid"
	StatusPending Status = "pending"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool { return s == StatusPaid || s == StatusPending }

// PaymentMethod says how a transaction reaches its account.
type PaymentMethod string

const (
	MethodDirect PaymentMethod = "direct"
	MethodCard   PaymentMethod = "card"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool { return m == MethodDirect || m == MethodCard }

// Transaction is a single income or expense entry.
type Transaction struct {
	ID               string          `json:"id"`
	Description      string          `json:"description"`
	Amount           decimal.Decimal `json:"amount"` // always positive
	Kind             Kind            `json:"kind"`
	CategoryID       string          `json:"categoryId,omitempty"`
	AccountID        string          `json:"accountId"`
	Date             calendar.Date   `json:"date"`
	Status           Status          `json:"status"`
	PaymentMethod    PaymentMethod   `json:"paymentMethod"`
	CardID           string          `json:"cardId,omitempty"`
	InstallmentCount int             `json:"installmentCount"`
}

// IsCardExpense reports whether the transaction is settled through card invoices
// rather than directly against its account.
func (t Transaction) IsCardExpense() bool {
	return t.Kind == KindExpense && t.PaymentMethod == MethodCard
}

// Signed returns the amount with the sign of its effect on an account.
func (t Transaction) Signed() decimal.Decimal {
	if t.Kind == KindExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
