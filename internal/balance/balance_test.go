package balance

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/pocket/internal/calendar"
	"github.com/cleared-dev/pocket/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func txn(id, accountID, amount string, kind model.Kind, status model.Status, method model.PaymentMethod) model.Transaction {
	return model.Transaction{
		ID:               id,
		AccountID:        accountID,
		Amount:           dec(amount),
		Kind:             kind,
		Status:           status,
		PaymentMethod:    method,
		Date:             calendar.MustParse("2024-03-01"),
		InstallmentCount: 1,
	}
}

func fixture() model.State {
	return model.State{
		Accounts: []model.Account{
			{ID: "a1", Name: "Checking", OpeningBalance: dec("4500")},
			{ID: "a2", Name: "Savings", OpeningBalance: dec("1000.10")},
		},
		Cards: []model.Card{
			{ID: "c1", AccountID: "a1", DueDay: 10},
			{ID: "c2", AccountID: "a2", DueDay: 15},
		},
		Transactions: []model.Transaction{
			txn("t1", "a1", "120.00", model.KindExpense, model.StatusPaid, model.MethodDirect),
			txn("t2", "a1", "3000", model.KindIncome, model.StatusPaid, model.MethodDirect),
			txn("t3", "a1", "999", model.KindIncome, model.StatusPending, model.MethodDirect),
			txn("t4", "a1", "250", model.KindExpense, model.StatusPending, model.MethodCard),
			txn("t5", "a2", "0.10", model.KindExpense, model.StatusPaid, model.MethodDirect),
		},
		Invoices: []model.Invoice{
			{ID: "i1", CardID: "c1", Amount: dec("300"), Paid: true},
			{ID: "i2", CardID: "c1", Amount: dec("50"), Paid: false},
			{ID: "i3", CardID: "c2", Amount: dec("0.33"), Paid: true},
			{ID: "i4", CardID: "gone", Amount: dec("77"), Paid: true},
		},
		Adjustments: []model.Adjustment{
			{ID: "j1", AccountID: "a1", Amount: dec("-10.50")},
			{ID: "j2", AccountID: "a2", Amount: dec("0.01")},
			{ID: "j3", AccountID: "gone", Amount: dec("5")},
		},
	}
}

func TestRecompute_OpeningMinusDirectExpense(t *testing.T) {
	s := model.State{
		Accounts:     []model.Account{{ID: "a1", OpeningBalance: dec("4500")}},
		Transactions: []model.Transaction{txn("t1", "a1", "120.00", model.KindExpense, model.StatusPaid, model.MethodDirect)},
	}
	got, ok := Recompute(s).Of("a1")
	require.True(t, ok)
	assert.Equal(t, "4380.00", got.StringFixed(2))
}

func TestRecompute_AllEventKinds(t *testing.T) {
	b := Recompute(fixture())

	a1, ok := b.Of("a1")
	require.True(t, ok)
	// 4500 - 120 + 3000 - 300 (paid invoice) - 10.50
	assert.Equal(t, "7069.50", a1.StringFixed(2))

	a2, ok := b.Of("a2")
	require.True(t, ok)
	// 1000.10 - 0.10 - 0.33 + 0.01
	assert.Equal(t, "999.68", a2.StringFixed(2))

	_, ok = b.Of("gone")
	assert.False(t, ok)

	assert.Equal(t, "8069.18", b.Total().StringFixed(2))
	require.Len(t, b.All(), 2)
	assert.Equal(t, "Checking", b.All()[0].Name)
	assert.Equal(t, 2, b.Len())
}

func TestRecompute_CardExpenseNeverTouchesAccount(t *testing.T) {
	s := model.State{
		Accounts: []model.Account{{ID: "a1", OpeningBalance: dec("100")}},
		// Even a card expense wrongly marked paid is ignored.
		Transactions: []model.Transaction{txn("t1", "a1", "40", model.KindExpense, model.StatusPaid, model.MethodCard)},
	}
	got, _ := Recompute(s).Of("a1")
	assert.Equal(t, "100.00", got.StringFixed(2))
}

func TestRecompute_PaidInvoiceSubtractedOnce(t *testing.T) {
	s := model.State{
		Accounts: []model.Account{{ID: "a1", OpeningBalance: dec("1000")}},
		Cards:    []model.Card{{ID: "c1", AccountID: "a1", DueDay: 10}},
		Invoices: []model.Invoice{{ID: "i1", CardID: "c1", Amount: dec("33.34")}},
	}
	before, _ := Recompute(s).Of("a1")
	assert.Equal(t, "1000.00", before.StringFixed(2))

	s.Invoices[0].Paid = true
	after, _ := Recompute(s).Of("a1")
	assert.Equal(t, "966.66", after.StringFixed(2))

	again, _ := Recompute(s).Of("a1")
	assert.True(t, after.Equal(again))
}

func TestRecompute_FollowsCardReassignment(t *testing.T) {
	s := fixture()
	s.Cards[0].AccountID = "a2"
	b := Recompute(s)
	a1, _ := b.Of("a1")
	a2, _ := b.Of("a2")
	assert.Equal(t, "7369.50", a1.StringFixed(2))
	assert.Equal(t, "699.68", a2.StringFixed(2))
}

func TestRecompute_Idempotent(t *testing.T) {
	s := fixture()
	first := Recompute(s)
	second := Recompute(s)
	assert.True(t, first.Equal(second))
	assert.Equal(t, fixture(), s, "recompute must not modify its input")
}

func TestRecompute_OrderIndependent(t *testing.T) {
	s := fixture()
	want := Recompute(s)

	r := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := s.Clone()
		r.Shuffle(len(shuffled.Transactions), func(i, j int) {
			shuffled.Transactions[i], shuffled.Transactions[j] = shuffled.Transactions[j], shuffled.Transactions[i]
		})
		r.Shuffle(len(shuffled.Adjustments), func(i, j int) {
			shuffled.Adjustments[i], shuffled.Adjustments[j] = shuffled.Adjustments[j], shuffled.Adjustments[i]
		})
		r.Shuffle(len(shuffled.Invoices), func(i, j int) {
			shuffled.Invoices[i], shuffled.Invoices[j] = shuffled.Invoices[j], shuffled.Invoices[i]
		})
		assert.True(t, want.Equal(Recompute(shuffled)))
	}
}

func TestRecompute_RoundsAfterSummation(t *testing.T) {
	s := model.State{
		Accounts: []model.Account{{ID: "a1"}},
		Adjustments: []model.Adjustment{
			{AccountID: "a1", Amount: dec("0.004")},
			{AccountID: "a1", Amount: dec("0.004")},
		},
	}
	got, _ := Recompute(s).Of("a1")
	// Per-term rounding would give 0.00.
	assert.Equal(t, "0.01", got.StringFixed(2))
}

func TestBalancesEqual(t *testing.T) {
	a := Recompute(fixture())
	s := fixture()
	s.Adjustments = append(s.Adjustments, model.Adjustment{AccountID: "a1", Amount: dec("1")})
	assert.False(t, a.Equal(Recompute(s)))
	assert.False(t, a.Equal(Balances{}))
}
