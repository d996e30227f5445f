package store

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/pocket/internal/id"
	"github.com/cleared-dev/pocket/internal/model"
)

// DefaultOpeningBalance is the opening balance of the starter account.
var DefaultOpeningBalance = decimal.NewFromInt(4500)

// DefaultState returns the starter ledger: one account and a few categories.
func DefaultState(ids id.Generator) model.State {
	return model.State{
		Accounts: []model.Account{
			{ID: ids.New(), Name: "Main Account", OpeningBalance: DefaultOpeningBalance},
		},
		Cards: []model.Card{},
		Categories: []model.Category{
			{ID: ids.New(), Name: "Housing", Kind: model.KindExpense},
			{ID: ids.New(), Name: "Groceries", Kind: model.KindExpense},
			{ID: ids.New(), Name: "Salary", Kind: model.KindIncome},
		},
		Transactions: []model.Transaction{},
		Invoices:     []model.Invoice{},
		Adjustments:  []model.Adjustment{},
	}
}
