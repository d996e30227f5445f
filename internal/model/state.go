package model

import "slices"

// State is the complete event set the engine works on. It is a plain value:
// callers pass it in and get a new one back, nothing is shared globally.
type State struct {
	Accounts     []Account     `json:"accounts"`
	Cards        []Card        `json:"cards"`
	Categories   []Category    `json:"categories"`
	Transactions []Transaction `json:"transactions"`
	Invoices     []Invoice     `json:"invoices"`
	Adjustments  []Adjustment  `json:"adjustments"`
}

// Clone returns a deep copy of s, so that mutating the copy never touches s.
func (s State) Clone() State {
	out := State{
		Accounts:     slices.Clone(s.Accounts),
		Cards:        slices.Clone(s.Cards),
		Categories:   slices.Clone(s.Categories),
		Transactions: slices.Clone(s.Transactions),
		Invoices:     slices.Clone(s.Invoices),
		Adjustments:  slices.Clone(s.Adjustments),
	}
	for i := range out.Invoices {
		out.Invoices[i].Items = slices.Clone(out.Invoices[i].Items)
	}
	return out
}

// Account returns the account with the given id.
func (s State) Account(id string) (Account, bool) { return find(s.Accounts, id, accountID) }

// Card returns the card with the given id.
func (s State) Card(id string) (Card, bool) { return find(s.Cards, id, cardID) }

// Category returns the category with the given id.
func (s State) Category(id string) (Category, bool) { return find(s.Categories, id, categoryID) }

// Transaction returns the transaction with the given id.
func (s State) Transaction(id string) (Transaction, bool) {
	return find(s.Transactions, id, transactionID)
}

// Invoice returns the invoice with the given id.
func (s State) Invoice(id string) (Invoice, bool) { return find(s.Invoices, id, invoiceID) }

func find[T any](items []T, id string, key func(T) string) (T, bool) {
	i := slices.IndexFunc(items, func(it T) bool { return key(it) == id })
	if i < 0 || id == "" {
		var zero T
		return zero, false
	}
	return items[i], true
}

func accountID(a Account) string         { return a.ID }
func cardID(c Card) string               { return c.ID }
func categoryID(c Category) string       { return c.ID }
func transactionID(t Transaction) string { return t.ID }
func invoiceID(i Invoice) string         { return i.ID }
