// Package lookup resolves entity ids to names without ever failing on stale ids.
package lookup

import (
	"github.com/cleared-dev/pocket/internal/model"
)

// Placeholder names returned for ids that no longer resolve.
const (
	UnknownAccount = "Unknown account"
	UnknownCard    = "Unknown card"
	Uncategorized  = "Uncategorized"
)

// Service provides in-memory lookup over one state's accounts, cards and categories.
type Service struct {
	accounts   map[string]model.Account
	cards      map[string]model.Card
	categories map[string]model.Category
}

// NewService indexes the entities of s.
func NewService(s model.State) *Service {
	svc := &Service{
		accounts:   make(map[string]model.Account, len(s.Accounts)),
		cards:      make(map[string]model.Card, len(s.Cards)),
		categories: make(map[string]model.Category, len(s.Categories)),
	}
	for _, a := range s.Accounts {
		svc.accounts[a.ID] = a
	}
	for _, c := range s.Cards {
		svc.cards[c.ID] = c
	}
	for _, c := range s.Categories {
		svc.categories[c.ID] = c
	}
	return svc
}

// AccountName returns the account's name or UnknownAccount.
func (s *Service) AccountName(id string) string {
	if a, ok := s.accounts[id]; ok {
		return a.Name
	}
	return UnknownAccount
}

// CardName returns the card's name or UnknownCard.
func (s *Service) CardName(id string) string {
	if c, ok := s.cards[id]; ok {
		return c.Name
	}
	return UnknownCard
}

// CategoryName returns the category's name or Uncategorized.
func (s *Service) CategoryName(id string) string {
	if c, ok := s.categories[id]; ok {
		return c.Name
	}
	return Uncategorized
}

// CardAccount returns the id of the account that owns a card.
func (s *Service) CardAccount(cardID string) (string, bool) {
	c, ok := s.cards[cardID]
	return c.AccountID, ok
}

// CategoriesOfKind returns the categories usable for a transaction kind, in no
// particular order.
func (s *Service) CategoriesOfKind(kind model.Kind) []model.Category {
	var result []model.Category
	for _, c := range s.categories {
		if c.Kind == kind {
			result = append(result, c)
		}
	}
	return result
}
