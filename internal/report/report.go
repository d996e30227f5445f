// Package report aggregates the event set into period totals and monthly series.
// Every function here is read-only.
package report

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/pocket/internal/balance"
	"github.com/cleared-dev/pocket/internal/calendar"
	"github.com/cleared-dev/pocket/internal/model"
	"github.com/cleared-dev/pocket/internal/money"
)

// Totals is the dashboard summary for a period.
type Totals struct {
	Period         Period
	PaidIncome     decimal.Decimal
	PaidExpense    decimal.Decimal
	PendingIncome  decimal.Decimal
	PendingExpense decimal.Decimal
	Balance        decimal.Decimal // current, not period scoped
	UnpaidInvoices decimal.Decimal
	Forecast       decimal.Decimal
}

// ComputeTotals sums the period's transactions and unpaid invoices. Card expenses
// are left out of the transaction sums because they are counted through their
// invoices.
func ComputeTotals(s model.State, b balance.Balances, p Period) Totals {
	t := Totals{
		Period:         p,
		PaidIncome:     decimal.Zero,
		PaidExpense:    decimal.Zero,
		PendingIncome:  decimal.Zero,
		PendingExpense: decimal.Zero,
		UnpaidInvoices: decimal.Zero,
		Balance:        b.Total(),
	}

	for _, txn := range s.Transactions {
		if txn.PaymentMethod == model.MethodCard || !p.Contains(txn.Date) {
			continue
		}
		switch {
		case txn.Kind == model.KindIncome && txn.Status == model.StatusPaid:
			t.PaidIncome = t.PaidIncome.Add(txn.Amount)
		case txn.Kind == model.KindIncome:
			t.PendingIncome = t.PendingIncome.Add(txn.Amount)
		case txn.Status == model.StatusPaid:
			t.PaidExpense = t.PaidExpense.Add(txn.Amount)
		default:
			t.PendingExpense = t.PendingExpense.Add(txn.Amount)
		}
	}

	for _, inv := range s.Invoices {
		if !inv.Paid && p.Contains(inv.DueDate) {
			t.UnpaidInvoices = t.UnpaidInvoices.Add(inv.Amount)
		}
	}

	t.PaidIncome = money.Round(t.PaidIncome)
	t.PaidExpense = money.Round(t.PaidExpense)
	t.PendingIncome = money.Round(t.PendingIncome)
	t.PendingExpense = money.Round(t.PendingExpense)
	t.UnpaidInvoices = money.Round(t.UnpaidInvoices)
	t.Forecast = t.Balance.Add(t.PendingIncome).Sub(t.PendingExpense).Sub(t.UnpaidInvoices)
	return t
}

// FlowPoint is the income and expense booked in one month.
type FlowPoint struct {
	Month   string
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// MonthlyFlow returns, per month key, the income and expense of all transactions
// dated in that month regardless of status or payment method.
func MonthlyFlow(s model.State, months []string) []FlowPoint {
	idx := indexMonths(months)
	points := make([]FlowPoint, len(months))
	for i, m := range months {
		points[i] = FlowPoint{Month: m, Income: decimal.Zero, Expense: decimal.Zero}
	}
	for _, txn := range s.Transactions {
		i, ok := idx[txn.Date.MonthKey()]
		if !ok {
			continue
		}
		if txn.Kind == model.KindIncome {
			points[i].Income = points[i].Income.Add(txn.Amount)
		} else {
			points[i].Expense = points[i].Expense.Add(txn.Amount)
		}
	}
	return points
}

// ResultPoint is the surplus or deficit of one month.
type ResultPoint struct {
	Month         string
	Income        decimal.Decimal
	DirectExpense decimal.Decimal
	Invoices      decimal.Decimal // invoices due that month, paid or not
	Net           decimal.Decimal
}

// MonthlyResult returns income minus direct expenses minus invoices due, per month.
func MonthlyResult(s model.State, months []string) []ResultPoint {
	idx := indexMonths(months)
	points := make([]ResultPoint, len(months))
	for i, m := range months {
		points[i] = ResultPoint{Month: m, Income: decimal.Zero, DirectExpense: decimal.Zero, Invoices: decimal.Zero}
	}
	for _, txn := range s.Transactions {
		i, ok := idx[txn.Date.MonthKey()]
		if !ok {
			continue
		}
		switch {
		case txn.Kind == model.KindIncome:
			points[i].Income = points[i].Income.Add(txn.Amount)
		case txn.PaymentMethod != model.MethodCard:
			points[i].DirectExpense = points[i].DirectExpense.Add(txn.Amount)
		}
	}
	for _, inv := range s.Invoices {
		if i, ok := idx[inv.DueDate.MonthKey()]; ok {
			points[i].Invoices = points[i].Invoices.Add(inv.Amount)
		}
	}
	for i := range points {
		p := &points[i]
		p.Net = p.Income.Sub(p.DirectExpense).Sub(p.Invoices)
	}
	return points
}

func indexMonths(months []string) map[string]int {
	idx := make(map[string]int, len(months))
	for i, m := range months {
		if _, dup := idx[m]; !dup {
			idx[m] = i
		}
	}
	return idx
}

// Names resolves ids to display names, falling back to a placeholder for ids that
// no longer exist.
type Names interface {
	CategoryName(id string) string
	CardName(id string) string
}

// CategoryTotal is the expense booked under one category name.
type CategoryTotal struct {
	Name   string
	Amount decimal.Decimal
	Share  decimal.Decimal // fraction of the listed total, 0..1
}

// ExpensesByCategory groups all expenses by category name and returns the limit
// largest groups, biggest first. A limit of 0 returns every group.
func ExpensesByCategory(s model.State, names Names, limit int) []CategoryTotal {
	sums := make(map[string]decimal.Decimal)
	for _, txn := range s.Transactions {
		if txn.Kind != model.KindExpense {
			continue
		}
		name := names.CategoryName(txn.CategoryID)
		sums[name] = sums[name].Add(txn.Amount)
	}

	out := make([]CategoryTotal, 0, len(sums))
	for name, amount := range sums {
		out = append(out, CategoryTotal{Name: name, Amount: amount})
	}
	slices.SortFunc(out, func(a, b CategoryTotal) int {
		if c := b.Amount.Cmp(a.Amount); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	total := decimal.Zero
	for _, ct := range out {
		total = total.Add(ct.Amount)
	}
	for i := range out {
		out[i].Share = decimal.Zero
		if total.IsPositive() {
			out[i].Share = out[i].Amount.Div(total)
		}
	}
	return out
}

// EntryKind tells statement rows apart.
type EntryKind string

const (
	EntryTransaction EntryKind = "transaction"
	EntryInvoice     EntryKind = "invoice"
)

// Entry is one line of the account statement.
type Entry struct {
	Kind    EntryKind
	RefID   string
	Date    calendar.Date
	Text    string
	Amount  decimal.Decimal // signed: expenses and invoices are negative
	Settled bool
}

// Statement lists every transaction and invoice, newest first.
func Statement(s model.State, names Names) []Entry {
	entries := make([]Entry, 0, len(s.Transactions)+len(s.Invoices))
	for _, txn := range s.Transactions {
		entries = append(entries, Entry{
			Kind:    EntryTransaction,
			RefID:   txn.ID,
			Date:    txn.Date,
			Text:    string(txn.Kind) + ": " + txn.Description,
			Amount:  txn.Signed(),
			Settled: txn.Status == model.StatusPaid,
		})
	}
	for _, inv := range s.Invoices {
		entries = append(entries, Entry{
			Kind:    EntryInvoice,
			RefID:   inv.ID,
			Date:    inv.DueDate,
			Text:    "invoice: " + names.CardName(inv.CardID),
			Amount:  inv.Amount.Neg(),
			Settled: inv.Paid,
		})
	}
	slices.SortStableFunc(entries, func(a, b Entry) int { return b.Date.Compare(a.Date) })
	return entries
}
