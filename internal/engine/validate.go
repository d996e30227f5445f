package engine

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/pocket/internal/calendar"
	"github.com/cleared-dev/pocket/internal/model"
	"github.com/cleared-dev/pocket/internal/money"
)

// AccountInput holds parameters for creating an account.
type AccountInput struct {
	Name           string
	OpeningBalance decimal.Decimal
}

// CardInput holds parameters for creating a card.
type CardInput struct {
	Name        string
	AccountID   string
	CreditLimit decimal.Decimal
	DueDay      int // 0 means the engine default
}

// CategoryInput holds parameters for creating a category.
type CategoryInput struct {
	Name string
	Kind model.Kind
}

// TransactionInput holds parameters for creating or replacing a transaction.
type TransactionInput struct {
	Description      string
	Amount           decimal.Decimal
	Kind             model.Kind
	CategoryID       string
	AccountID        string // may be empty for card expenses; the card's account is used
	Date             calendar.Date
	Status           model.Status
	PaymentMethod    model.PaymentMethod // empty means direct
	CardID           string
	InstallmentCount int
}

// InvoiceInput holds parameters for a manually entered invoice charge.
type InvoiceInput struct {
	CardID      string
	DueDate     calendar.Date
	Amount      decimal.Decimal
	Description string
}

// AdjustmentInput holds parameters for a manual balance correction.
type AdjustmentInput struct {
	AccountID   string
	Amount      decimal.Decimal
	Date        calendar.Date
	Description string
}

func checkName(p *problems, field, name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		p.add(field, "must not be empty")
	}
	return name
}

// checkPositive rounds d to the cent and requires the result to be above zero.
func checkPositive(p *problems, field string, d decimal.Decimal) decimal.Decimal {
	d = money.Round(d)
	if !d.IsPositive() {
		p.add(field, "must be positive, got %s", d.StringFixed(2))
	}
	return d
}

func checkDate(p *problems, field string, d calendar.Date) {
	if d.IsZero() {
		p.add(field, "is required")
	}
}

func validateAccount(in AccountInput) (model.Account, error) {
	p := &problems{op: "add account"}
	acct := model.Account{
		Name:           checkName(p, "name", in.Name),
		OpeningBalance: money.Round(in.OpeningBalance),
	}
	return acct, p.err()
}

func (e *Engine) validateCard(s *model.State, in CardInput) (model.Card, error) {
	p := &problems{op: "add card"}
	card := model.Card{
		Name:        checkName(p, "name", in.Name),
		AccountID:   in.AccountID,
		CreditLimit: money.Round(in.CreditLimit),
		DueDay:      in.DueDay,
	}
	if _, ok := s.Account(in.AccountID); !ok {
		p.add("accountId", "unknown account %q", in.AccountID)
	}
	if card.CreditLimit.IsNegative() {
		p.add("creditLimit", "must not be negative")
	}
	if card.DueDay == 0 {
		card.DueDay = e.dueDay
	}
	card.DueDay = calendar.ClampDueDay(card.DueDay)
	return card, p.err()
}

func validateCategory(in CategoryInput) (model.Category, error) {
	p := &problems{op: "add category"}
	cat := model.Category{Name: checkName(p, "name", in.Name), Kind: in.Kind}
	if !in.Kind.Valid() {
		p.add("kind", "must be %q or %q, got %q", model.KindIncome, model.KindExpense, in.Kind)
	}
	return cat, p.err()
}

// validateTransaction normalizes in into a transaction. Card expenses are pinned
// to pending and booked on the card's account.
func validateTransaction(s *model.State, op string, in TransactionInput) (model.Transaction, error) {
	p := &problems{op: op}
	txn := model.Transaction{
		Description:      checkName(p, "description", in.Description),
		Amount:           checkPositive(p, "amount", in.Amount),
		Kind:             in.Kind,
		CategoryID:       in.CategoryID,
		AccountID:        in.AccountID,
		Date:             in.Date,
		Status:           in.Status,
		PaymentMethod:    in.PaymentMethod,
		CardID:           in.CardID,
		InstallmentCount: in.InstallmentCount,
	}
	checkDate(p, "date", in.Date)

	if !txn.Kind.Valid() {
		p.add("kind", "must be %q or %q, got %q", model.KindIncome, model.KindExpense, txn.Kind)
	}
	if txn.PaymentMethod == "" {
		txn.PaymentMethod = model.MethodDirect
	}
	if !txn.PaymentMethod.Valid() {
		p.add("paymentMethod", "must be %q or %q, got %q", model.MethodDirect, model.MethodCard, txn.PaymentMethod)
	}
	if txn.Status == "" {
		txn.Status = model.StatusPending
	}
	if !txn.Status.Valid() {
		p.add("status", "must be %q or %q, got %q", model.StatusPaid, model.StatusPending, txn.Status)
	}

	if txn.CategoryID != "" {
		cat, ok := s.Category(txn.CategoryID)
		switch {
		case !ok:
			p.add("categoryId", "unknown category %q", txn.CategoryID)
		case txn.Kind.Valid() && cat.Kind != txn.Kind:
			p.add("categoryId", "category %q is for %s, not %s", cat.Name, cat.Kind, txn.Kind)
		}
	}

	switch {
	case txn.PaymentMethod == model.MethodCard && txn.Kind == model.KindIncome:
		p.add("paymentMethod", "only expenses can be paid by card")
	case txn.PaymentMethod == model.MethodCard:
		card, ok := s.Card(txn.CardID)
		if !ok {
			if txn.CardID == "" {
				p.add("cardId", "card purchases require a card")
			} else {
				p.add("cardId", "unknown card %q", txn.CardID)
			}
			break
		}
		if txn.AccountID == "" {
			txn.AccountID = card.AccountID
		}
		if txn.AccountID != card.AccountID {
			p.add("accountId", "card %q belongs to account %q, not %q", card.Name, card.AccountID, txn.AccountID)
		}
		if txn.InstallmentCount < 1 {
			p.add("installmentCount", "must be at least 1, got %d", txn.InstallmentCount)
		}
		if txn.InstallmentCount > MaxInstallments {
			p.add("installmentCount", "must be at most %d, got %d", MaxInstallments, txn.InstallmentCount)
		}
		txn.Status = model.StatusPending
	default:
		txn.CardID = ""
		txn.InstallmentCount = 1
	}

	if _, ok := s.Account(txn.AccountID); !ok {
		p.add("accountId", "unknown account %q", txn.AccountID)
	}
	return txn, p.err()
}

func validateInvoice(s *model.State, in InvoiceInput) (model.LineItem, error) {
	p := &problems{op: "add invoice"}
	if _, ok := s.Card(in.CardID); !ok {
		p.add("cardId", "unknown card %q", in.CardID)
	}
	checkDate(p, "dueDate", in.DueDate)
	item := model.LineItem{
		Description:      strings.TrimSpace(in.Description),
		Installment:      1,
		InstallmentCount: 1,
		Amount:           checkPositive(p, "amount", in.Amount),
	}
	if item.Description == "" {
		item.Description = "Manual charge"
	}
	return item, p.err()
}

func validateAdjustment(s *model.State, op string, in AdjustmentInput) (model.Adjustment, error) {
	p := &problems{op: op}
	adj := model.Adjustment{
		AccountID:   in.AccountID,
		Amount:      money.Round(in.Amount),
		Date:        in.Date,
		Description: strings.TrimSpace(in.Description),
	}
	if _, ok := s.Account(in.AccountID); !ok {
		p.add("accountId", "unknown account %q", in.AccountID)
	}
	if adj.Amount.IsZero() {
		p.add("amount", "must not be zero")
	}
	checkDate(p, "date", in.Date)
	if adj.Description == "" {
		adj.Description = "Balance adjustment"
	}
	return adj, p.err()
}
