package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/pocket/internal/balance"
	"github.com/cleared-dev/pocket/internal/calendar"
	"github.com/cleared-dev/pocket/internal/id"
	"github.com/cleared-dev/pocket/internal/invoices"
	"github.com/cleared-dev/pocket/internal/model"
)

const legacyDoc = `{
  "theme": "dark",
  "banks": [{"id": "b1", "name": "Banco Principal", "balance": 4380}],
  "cards": [{"id": "c1", "name": "Visa", "bankId": "b1", "limit": 5000}],
  "invoices": [
    {"id": "i1", "cardId": "c1", "amount": 300, "dueDate": "2024-04-10", "paid": true},
    {"id": "i2", "cardId": "c1", "amount": 0, "dueDate": "2024-05-10", "paid": false}
  ],
  "categories": [{"id": "k1", "name": "Moradia", "type": "expense"}],
  "transactions": [
    {"id": "t1", "description": "Rent", "amount": 120, "type": "expense", "categoryId": "k1", "bankId": "b1", "date": "2024-03-01", "status": "paid"},
    {"id": "t2", "description": "Salary", "amount": 1000.5, "type": "income", "categoryId": "", "bankId": "b1", "date": "2024-03-05", "status": "pending"}
  ]
}`

func TestDecodeLegacyDocument(t *testing.T) {
	res, err := Decode([]byte(legacyDoc), Options{})
	require.NoError(t, err)

	assert.Equal(t, 0, res.FromVersion)
	assert.Equal(t, []string{"rename-legacy-fields", "apply-defaults", "derive-opening-balances"}, res.Applied)

	s := res.State
	require.Len(t, s.Accounts, 1)
	assert.Equal(t, "Banco Principal", s.Accounts[0].Name)
	assert.Equal(t, "4800.00", s.Accounts[0].OpeningBalance.StringFixed(2))

	require.Len(t, s.Cards, 1)
	assert.Equal(t, "b1", s.Cards[0].AccountID)
	assert.Equal(t, "5000.00", s.Cards[0].CreditLimit.StringFixed(2))
	assert.Equal(t, DefaultDueDay, s.Cards[0].DueDay)

	require.Len(t, s.Categories, 1)
	assert.Equal(t, model.KindExpense, s.Categories[0].Kind)

	require.Len(t, s.Transactions, 2)
	t1 := s.Transactions[0]
	assert.Equal(t, model.KindExpense, t1.Kind)
	assert.Equal(t, "b1", t1.AccountID)
	assert.Equal(t, model.MethodDirect, t1.PaymentMethod)
	assert.Equal(t, 1, t1.InstallmentCount)
	assert.Equal(t, calendar.MustParse("2024-03-01"), t1.Date)
	assert.Empty(t, s.Transactions[1].CategoryID)
	assert.Equal(t, "1000.50", s.Transactions[1].Amount.StringFixed(2))

	require.Len(t, s.Invoices, 1, "empty legacy invoices are pruned")
	inv := s.Invoices[0]
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "Imported invoice", inv.Items[0].Description)
	assert.Equal(t, "300.00", inv.Amount.StringFixed(2))
	assert.Empty(t, invoices.Check(s.Invoices))

	assert.NotNil(t, s.Adjustments)

	b, ok := balance.Recompute(s).Of("b1")
	require.True(t, ok)
	assert.Equal(t, "4380.00", b.StringFixed(2), "replay reproduces the stored running balance")
}

func TestApplyDefaults(t *testing.T) {
	doc := object{
		"version": 1,
		"accounts": []any{object{"id": "a1", "name": "A", "openingBalance": "10"}},
		"cards": []any{
			object{"id": "c1", "accountId": "a1"},
			object{"id": "c2", "accountId": "a1", "dueDay": 31},
			object{"id": "c3", "accountId": "a1", "dueDay": 0},
		},
		"transactions": []any{
			object{"id": "t1", "kind": "expense", "paymentMethod": "card", "cardId": "c1", "status": "paid", "installmentCount": 0, "amount": "5", "accountId": "a1", "date": "2024-01-02", "description": "x"},
		},
	}

	applied, err := Migrate(doc, Options{DefaultDueDay: 15})
	require.NoError(t, err)
	assert.Equal(t, []string{"apply-defaults", "derive-opening-balances"}, applied)

	var s model.State
	require.NoError(t, roundTrip(doc, &s))
	assert.Equal(t, 15, s.Cards[0].DueDay)
	assert.Equal(t, 28, s.Cards[1].DueDay)
	assert.Equal(t, 1, s.Cards[2].DueDay)
	assert.Equal(t, model.StatusPending, s.Transactions[0].Status, "card expenses are pinned to pending")
	assert.Equal(t, 1, s.Transactions[0].InstallmentCount)
	assert.Equal(t, "10.00", s.Accounts[0].OpeningBalance.StringFixed(2), "explicit opening balances are kept")
	assert.NotNil(t, s.Adjustments)
	assert.NotNil(t, s.Invoices)
}

func TestMigrationsAreOrdered(t *testing.T) {
	for i, m := range Migrations {
		assert.Equal(t, i, m.From, m.Name)
		assert.NotEmpty(t, m.Name)
	}
	assert.Len(t, Migrations, CurrentVersion)
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"not an object", `[]`},
		{"newer version", `{"version": 99}`},
		{"bad list", `{"banks": {"id": "b1"}}`},
		{"non-finite amount", `{"version": 1, "invoices": [{"id": "i1", "cardId": "c1", "amount": "Infinity"}]}`},
		{"fractional due day", `{"version": 1, "cards": [{"id": "c1", "dueDay": 10.5}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc), Options{})
			assert.Error(t, err)
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "ledger.json")
	st := New(path, Options{}, &id.Sequence{Prefix: "x"})

	res, err := st.Load()
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, "Main Account", res.State.Accounts[0].Name)
	assert.Len(t, res.State.Categories, 3)

	s := res.State
	s.Cards = append(s.Cards, model.Card{ID: "c1", Name: "Visa", AccountID: s.Accounts[0].ID, CreditLimit: decimal.NewFromInt(900), DueDay: 12})
	s.Invoices = append(s.Invoices, model.Invoice{
		ID: "i1", CardID: "c1", DueDate: calendar.MustParse("2024-04-12"), Amount: decimal.RequireFromString("33.34"),
		Items: []model.LineItem{{TransactionID: "t1", Description: "Laptop", Installment: 1, InstallmentCount: 3, Amount: decimal.RequireFromString("33.34")}},
	})
	require.NoError(t, st.Save(s))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files are left behind")

	res, err = st.Load()
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, CurrentVersion, res.FromVersion)
	assert.Empty(t, res.Applied)
	assert.Equal(t, "Main Account", res.State.Accounts[0].Name)
	assert.True(t, s.Accounts[0].OpeningBalance.Equal(res.State.Accounts[0].OpeningBalance))
	require.Len(t, res.State.Invoices, 1)
	assert.Equal(t, s.Invoices[0].Items[0].TransactionID, res.State.Invoices[0].Items[0].TransactionID)
	assert.True(t, s.Invoices[0].Amount.Equal(res.State.Invoices[0].Amount))
	assert.Equal(t, s.Invoices[0].DueDate, res.State.Invoices[0].DueDate)
}

func TestLoadReportsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := New(path, Options{}, nil).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}
