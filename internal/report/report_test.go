package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/pocket/internal/balance"
	"github.com/cleared-dev/pocket/internal/calendar"
	"github.com/cleared-dev/pocket/internal/lookup"
	"github.com/cleared-dev/pocket/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func tx(id, on, amount string, kind model.Kind, status model.Status, method model.PaymentMethod, category string) model.Transaction {
	return model.Transaction{
		ID:               id,
		Description:      id,
		AccountID:        "a1",
		Date:             calendar.MustParse(on),
		Amount:           dec(amount),
		Kind:             kind,
		Status:           status,
		PaymentMethod:    method,
		CategoryID:       category,
		InstallmentCount: 1,
	}
}

func fixture() model.State {
	return model.State{
		Accounts:   []model.Account{{ID: "a1", Name: "Checking", OpeningBalance: dec("1000")}},
		Cards:      []model.Card{{ID: "c1", Name: "Gold", AccountID: "a1", DueDay: 10}},
		Categories: []model.Category{{ID: "food", Name: "Food", Kind: model.KindExpense}, {ID: "rent", Name: "Rent", Kind: model.KindExpense}},
		Transactions: []model.Transaction{
			tx("salary", "2024-03-05", "3000", model.KindIncome, model.StatusPaid, model.MethodDirect, ""),
			tx("bonus", "2024-04-02", "500", model.KindIncome, model.StatusPending, model.MethodDirect, ""),
			tx("rent", "2024-03-01", "1200", model.KindExpense, model.StatusPaid, model.MethodDirect, "rent"),
			tx("power", "2024-03-20", "80.10", model.KindExpense, model.StatusPending, model.MethodDirect, ""),
			tx("tv", "2024-03-08", "300", model.KindExpense, model.StatusPending, model.MethodCard, "food"),
			tx("lunch", "2024-04-11", "45.90", model.KindExpense, model.StatusPaid, model.MethodDirect, "food"),
		},
		Invoices: []model.Invoice{
			{ID: "i1", CardID: "c1", DueDate: calendar.MustParse("2024-03-10"), Amount: dec("150"), Paid: true},
			{ID: "i2", CardID: "c1", DueDate: calendar.MustParse("2024-04-10"), Amount: dec("100")},
			{ID: "i3", CardID: "gone", DueDate: calendar.MustParse("2024-05-10"), Amount: dec("200")},
		},
	}
}

func TestComputeTotals_AllTime(t *testing.T) {
	s := fixture()
	b := balance.Recompute(s)
	got := ComputeTotals(s, b, AllTime())

	assert.Equal(t, "3000.00", got.PaidIncome.StringFixed(2))
	assert.Equal(t, "1245.90", got.PaidExpense.StringFixed(2))
	assert.Equal(t, "500.00", got.PendingIncome.StringFixed(2))
	assert.Equal(t, "80.10", got.PendingExpense.StringFixed(2), "card expense excluded")
	// 1000 + 3000 - 1200 - 45.90 - 150
	assert.Equal(t, "2604.10", got.Balance.StringFixed(2))
	assert.Equal(t, "300.00", got.UnpaidInvoices.StringFixed(2))
	// 2604.10 + 500 - 80.10 - 300
	assert.Equal(t, "2724.00", got.Forecast.StringFixed(2))
}

func TestComputeTotals_Month(t *testing.T) {
	s := fixture()
	b := balance.Recompute(s)
	p, err := Month("2024-04")
	require.NoError(t, err)
	got := ComputeTotals(s, b, p)

	assert.True(t, got.PaidIncome.IsZero())
	assert.Equal(t, "45.90", got.PaidExpense.StringFixed(2))
	assert.Equal(t, "500.00", got.PendingIncome.StringFixed(2))
	assert.True(t, got.PendingExpense.IsZero())
	assert.Equal(t, "2604.10", got.Balance.StringFixed(2), "balance is not period scoped")
	assert.Equal(t, "100.00", got.UnpaidInvoices.StringFixed(2))
	assert.Equal(t, "3004.10", got.Forecast.StringFixed(2))
}

func TestMonthlyFlow(t *testing.T) {
	got := MonthlyFlow(fixture(), []string{"2024-02", "2024-03", "2024-04"})
	require.Len(t, got, 3)

	assert.Equal(t, "2024-02", got[0].Month)
	assert.True(t, got[0].Income.IsZero())
	assert.True(t, got[0].Expense.IsZero())

	assert.Equal(t, "3000.00", got[1].Income.StringFixed(2))
	assert.Equal(t, "1580.10", got[1].Expense.StringFixed(2), "flow includes card purchases")

	assert.Equal(t, "500.00", got[2].Income.StringFixed(2))
	assert.Equal(t, "45.90", got[2].Expense.StringFixed(2))
}

func TestMonthlyResult(t *testing.T) {
	got := MonthlyResult(fixture(), []string{"2024-03", "2024-04", "2024-05"})
	require.Len(t, got, 3)

	// 3000 - (1200 + 80.10) - 150
	assert.Equal(t, "1569.90", got[0].Net.StringFixed(2))
	assert.Equal(t, "1280.10", got[0].DirectExpense.StringFixed(2))
	assert.Equal(t, "150.00", got[0].Invoices.StringFixed(2))
	// 500 - 45.90 - 100
	assert.Equal(t, "354.10", got[1].Net.StringFixed(2))
	// invoice of a deleted card still counts, it has no name to resolve here
	assert.Equal(t, "-200.00", got[2].Net.StringFixed(2))
}

func TestExpensesByCategory(t *testing.T) {
	s := fixture()
	got := ExpensesByCategory(s, lookup.NewService(s), 0)
	require.Len(t, got, 3)

	assert.Equal(t, "Rent", got[0].Name)
	assert.Equal(t, "1200.00", got[0].Amount.StringFixed(2))
	assert.Equal(t, "Food", got[1].Name)
	assert.Equal(t, "345.90", got[1].Amount.StringFixed(2))
	assert.Equal(t, lookup.Uncategorized, got[2].Name)
	assert.Equal(t, "80.10", got[2].Amount.StringFixed(2))

	share := decimal.Zero
	for _, ct := range got {
		share = share.Add(ct.Share)
	}
	assert.InDelta(t, 1.0, share.InexactFloat64(), 0.0001)

	top := ExpensesByCategory(s, lookup.NewService(s), 1)
	require.Len(t, top, 1)
	assert.Equal(t, "1", top[0].Share.String())
}

func TestExpensesByCategory_Empty(t *testing.T) {
	got := ExpensesByCategory(model.State{}, lookup.NewService(model.State{}), 5)
	assert.Empty(t, got)
}

func TestStatement(t *testing.T) {
	s := fixture()
	got := Statement(s, lookup.NewService(s))
	require.Len(t, got, 9)

	assert.Equal(t, "2024-05-10", got[0].Date.String())
	assert.Equal(t, EntryInvoice, got[0].Kind)
	assert.Equal(t, "invoice: "+lookup.UnknownCard, got[0].Text)
	assert.Equal(t, "-200.00", got[0].Amount.StringFixed(2))

	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].Date.After(got[i-1].Date), "statement is newest first")
	}

	var salary Entry
	for _, e := range got {
		if e.RefID == "salary" {
			salary = e
		}
	}
	assert.Equal(t, "income: salary", salary.Text)
	assert.True(t, salary.Settled)
	assert.Equal(t, "3000.00", salary.Amount.StringFixed(2))
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("all")
	require.NoError(t, err)
	assert.True(t, p.IsAllTime())
	assert.Equal(t, "all", p.String())

	p, err = ParsePeriod("")
	require.NoError(t, err)
	assert.True(t, p.IsAllTime())

	p, err = ParsePeriod("2024-03")
	require.NoError(t, err)
	assert.Equal(t, "2024-03", p.String())
	assert.True(t, p.Contains(calendar.MustParse("2024-03-31")))
	assert.False(t, p.Contains(calendar.MustParse("2024-04-01")))

	_, err = ParsePeriod("March")
	assert.Error(t, err)
}

func TestLastMonths(t *testing.T) {
	got := LastMonths(calendar.MustParse("2024-02-15"), 6)
	assert.Equal(t, []string{"2023-09", "2023-10", "2023-11", "2023-12", "2024-01", "2024-02"}, got)
	assert.Empty(t, LastMonths(calendar.MustParse("2024-02-15"), 0))
}
