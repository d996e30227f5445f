package engine

import (
	"slices"

	"github.com/cleared-dev/pocket/internal/model"
)

// AddAccount creates an account with a fixed opening balance.
func (e *Engine) AddAccount(in AccountInput) (View, error) {
	return e.apply("add account", func(s *model.State) (string, error) {
		acct, err := validateAccount(in)
		if err != nil {
			return "", err
		}
		acct.ID = e.ids.New()
		s.Accounts = append(s.Accounts, acct)
		return acct.ID, nil
	})
}

// DeleteAccount removes an account together with its transactions, its cards and
// their invoices, and its adjustments. Unknown ids are a no-op.
func (e *Engine) DeleteAccount(accountID string) (View, error) {
	return e.apply("delete account", func(s *model.State) (string, error) {
		if _, ok := s.Account(accountID); !ok {
			return "", nil
		}

		l := e.ledger(s)
		for _, t := range s.Transactions {
			if t.AccountID == accountID {
				l.Retract(t.ID)
			}
		}
		for _, c := range s.Cards {
			if c.AccountID == accountID {
				l.RemoveCard(c.ID)
			}
		}
		s.Invoices = l.Invoices()

		s.Transactions = slices.DeleteFunc(s.Transactions, func(t model.Transaction) bool { return t.AccountID == accountID })
		s.Cards = slices.DeleteFunc(s.Cards, func(c model.Card) bool { return c.AccountID == accountID })
		s.Adjustments = slices.DeleteFunc(s.Adjustments, func(a model.Adjustment) bool { return a.AccountID == accountID })
		s.Accounts = slices.DeleteFunc(s.Accounts, func(a model.Account) bool { return a.ID == accountID })
		return "", nil
	})
}

// AddCard creates a card owned by an existing account.
func (e *Engine) AddCard(in CardInput) (View, error) {
	return e.apply("add card", func(s *model.State) (string, error) {
		card, err := e.validateCard(s, in)
		if err != nil {
			return "", err
		}
		card.ID = e.ids.New()
		s.Cards = append(s.Cards, card)
		return card.ID, nil
	})
}

// DeleteCard removes a card and its invoices. Transactions charged to it are kept
// but lose their card reference. Unknown ids are a no-op.
func (e *Engine) DeleteCard(cardID string) (View, error) {
	return e.apply("delete card", func(s *model.State) (string, error) {
		if _, ok := s.Card(cardID); !ok {
			return "", nil
		}
		l := e.ledger(s)
		l.RemoveCard(cardID)
		s.Invoices = l.Invoices()

		for i := range s.Transactions {
			if s.Transactions[i].CardID == cardID {
				s.Transactions[i].CardID = ""
			}
		}
		s.Cards = slices.DeleteFunc(s.Cards, func(c model.Card) bool { return c.ID == cardID })
		return "", nil
	})
}

// AddCategory creates a category.
func (e *Engine) AddCategory(in CategoryInput) (View, error) {
	return e.apply("add category", func(s *model.State) (string, error) {
		cat, err := validateCategory(in)
		if err != nil {
			return "", err
		}
		cat.ID = e.ids.New()
		s.Categories = append(s.Categories, cat)
		return cat.ID, nil
	})
}

// DeleteCategory removes a category and clears it from the transactions that
// used it. Unknown ids are a no-op.
func (e *Engine) DeleteCategory(categoryID string) (View, error) {
	return e.apply("delete category", func(s *model.State) (string, error) {
		if categoryID == "" {
			return "", nil
		}
		for i := range s.Transactions {
			if s.Transactions[i].CategoryID == categoryID {
				s.Transactions[i].CategoryID = ""
			}
		}
		s.Categories = slices.DeleteFunc(s.Categories, func(c model.Category) bool { return c.ID == categoryID })
		return "", nil
	})
}
