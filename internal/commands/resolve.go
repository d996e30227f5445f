package commands

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/pocket/internal/engine"
	"github.com/cleared-dev/pocket/internal/id"
	"github.com/cleared-dev/pocket/internal/model"
)

type ref struct {
	id   string
	name string
}

// resolve finds the one entity that ref names by id, id prefix or name.
func resolve(kind, query string, items []ref) (string, error) {
	query = strings.TrimSpace(query)
	var hits []string
	for _, it := range items {
		if it.id == query {
			return it.id, nil
		}
		if id.Match(it.id, query) || (it.name != "" && strings.EqualFold(it.name, query)) {
			hits = append(hits, it.id)
		}
	}
	switch len(hits) {
	case 0:
		return "", fmt.Errorf("%s %q: %w", kind, query, engine.ErrNotFound)
	case 1:
		return hits[0], nil
	default:
		return "", fmt.Errorf("%s %q is ambiguous: matches %d entries", kind, query, len(hits))
	}
}

func (s *session) account(query string) (string, error) {
	st := s.engine.View().State
	items := make([]ref, len(st.Accounts))
	for i, a := range st.Accounts {
		items[i] = ref{a.ID, a.Name}
	}
	return resolve("account", query, items)
}

func (s *session) card(query string) (string, error) {
	st := s.engine.View().State
	items := make([]ref, len(st.Cards))
	for i, c := range st.Cards {
		items[i] = ref{c.ID, c.Name}
	}
	return resolve("card", query, items)
}

func (s *session) category(query string) (string, error) {
	st := s.engine.View().State
	items := make([]ref, len(st.Categories))
	for i, c := range st.Categories {
		items[i] = ref{c.ID, c.Name}
	}
	return resolve("category", query, items)
}

func (s *session) transaction(query string) (model.Transaction, error) {
	st := s.engine.View().State
	items := make([]ref, len(st.Transactions))
	for i, t := range st.Transactions {
		items[i] = ref{id: t.ID}
	}
	txnID, err := resolve("transaction", query, items)
	if err != nil {
		return model.Transaction{}, err
	}
	txn, _ := st.Transaction(txnID)
	return txn, nil
}

func (s *session) invoice(query string) (model.Invoice, error) {
	st := s.engine.View().State
	items := make([]ref, len(st.Invoices))
	for i, inv := range st.Invoices {
		items[i] = ref{id: inv.ID}
	}
	invID, err := resolve("invoice", query, items)
	if err != nil {
		return model.Invoice{}, err
	}
	inv, _ := st.Invoice(invID)
	return inv, nil
}
