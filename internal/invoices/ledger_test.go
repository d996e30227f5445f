package invoices

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/pocket/internal/calendar"
	"github.com/cleared-dev/pocket/internal/id"
	"github.com/cleared-dev/pocket/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(s string) calendar.Date { return calendar.MustParse(s) }

var card = model.Card{ID: "card-1", AccountID: "acct-1", DueDay: 10}

func purchase(txnID, amount, on string, installments int) model.Transaction {
	return model.Transaction{
		ID:               txnID,
		Description:      "Purchase " + txnID,
		Amount:           dec(amount),
		Kind:             model.KindExpense,
		AccountID:        "acct-1",
		Date:             day(on),
		Status:           model.StatusPending,
		PaymentMethod:    model.MethodCard,
		CardID:           card.ID,
		InstallmentCount: installments,
	}
}

func newLedger(invoices ...model.Invoice) *Ledger {
	return NewLedger(invoices, &id.Sequence{Prefix: "inv"})
}

func requireConsistent(t *testing.T, l *Ledger) {
	t.Helper()
	require.Empty(t, Check(l.Invoices()))
}

func TestPostCardPurchase_Scenario(t *testing.T) {
	l := newLedger()
	touched, err := l.PostCardPurchase(purchase("t1", "100.00", "2024-03-08", 3), card)
	require.NoError(t, err)
	assert.Equal(t, []string{"inv-001", "inv-002", "inv-003"}, touched)

	invs := l.Invoices()
	require.Len(t, invs, 3)
	wantDue := []string{"2024-04-10", "2024-05-10", "2024-06-10"}
	wantAmt := []string{"33.34", "33.33", "33.33"}
	for i, inv := range invs {
		assert.Equal(t, wantDue[i], inv.DueDate.String())
		assert.Equal(t, wantAmt[i], inv.Amount.StringFixed(2))
		assert.False(t, inv.Paid)
		require.Len(t, inv.Items, 1)
		assert.Equal(t, i+1, inv.Items[0].Installment)
		assert.Equal(t, 3, inv.Items[0].InstallmentCount)
		assert.Equal(t, "t1", inv.Items[0].TransactionID)
	}
	requireConsistent(t, l)
}

func TestPostInstallment_MergesIntoOpenInvoice(t *testing.T) {
	l := newLedger()
	_, err := l.PostCardPurchase(purchase("t1", "50.00", "2024-03-01", 1), card)
	require.NoError(t, err)
	_, err = l.PostCardPurchase(purchase("t2", "25.50", "2024-03-02", 1), card)
	require.NoError(t, err)

	invs := l.Invoices()
	require.Len(t, invs, 1)
	assert.Equal(t, "75.50", invs[0].Amount.StringFixed(2))
	assert.Len(t, invs[0].Items, 2)
	requireConsistent(t, l)
}

func TestPostInstallment_NeverMergesIntoPaid(t *testing.T) {
	l := newLedger()
	first := l.PostInstallment(card.ID, day("2024-04-10"), model.LineItem{Description: "a", Amount: dec("10")})
	require.True(t, l.MarkPaid(first))

	second := l.PostInstallment(card.ID, day("2024-04-10"), model.LineItem{Description: "b", Amount: dec("5")})
	assert.NotEqual(t, first, second)

	invs := l.Invoices()
	require.Len(t, invs, 2)
	assert.True(t, invs[0].Paid)
	assert.Equal(t, "10.00", invs[0].Amount.StringFixed(2))
	assert.False(t, invs[1].Paid)
	assert.Equal(t, "5.00", invs[1].Amount.StringFixed(2))
}

func TestPostInstallment_SeparatesCardsAndDates(t *testing.T) {
	l := newLedger()
	l.PostInstallment("card-1", day("2024-04-10"), model.LineItem{Amount: dec("1")})
	l.PostInstallment("card-2", day("2024-04-10"), model.LineItem{Amount: dec("1")})
	l.PostInstallment("card-1", day("2024-05-10"), model.LineItem{Amount: dec("1")})
	assert.Len(t, l.Invoices(), 3)
}

func TestPostCardPurchase_Rejects(t *testing.T) {
	l := newLedger()

	direct := purchase("t1", "10", "2024-03-01", 1)
	direct.PaymentMethod = model.MethodDirect
	_, err := l.PostCardPurchase(direct, card)
	assert.Error(t, err)

	other := purchase("t2", "10", "2024-03-01", 1)
	other.CardID = "card-9"
	_, err = l.PostCardPurchase(other, card)
	assert.Error(t, err)

	assert.Empty(t, l.Invoices())
}

func TestRetract_Completeness(t *testing.T) {
	l := newLedger()
	_, err := l.PostCardPurchase(purchase("t1", "100.00", "2024-03-08", 3), card)
	require.NoError(t, err)
	_, err = l.PostCardPurchase(purchase("t2", "40.00", "2024-03-07", 2), card)
	require.NoError(t, err)
	require.Len(t, l.Invoices(), 3)

	removed := l.Retract("t1")
	assert.Equal(t, 3, removed)

	invs := l.Invoices()
	require.Len(t, invs, 2, "the June invoice only held t1 and is pruned")
	for _, inv := range invs {
		for _, it := range inv.Items {
			assert.Equal(t, "t2", it.TransactionID)
		}
		assert.Equal(t, "20.00", inv.Amount.StringFixed(2))
	}
	requireConsistent(t, l)

	assert.Equal(t, 0, l.Retract("t1"), "second retraction is a no-op")
	assert.Equal(t, 0, l.Retract(""))
}

func TestRetract_KeepsManualItems(t *testing.T) {
	l := newLedger()
	l.PostInstallment(card.ID, day("2024-04-10"), model.LineItem{Description: "manual", Amount: dec("80")})
	_, err := l.PostCardPurchase(purchase("t1", "20", "2024-03-01", 1), card)
	require.NoError(t, err)

	// Both posted on different due dates, so retract only touches the purchase.
	l.Retract("t1")
	invs := l.Invoices()
	require.Len(t, invs, 1)
	assert.Equal(t, "80.00", invs[0].Amount.StringFixed(2))
}

func TestEditAsRetractAndRepost(t *testing.T) {
	l := newLedger()
	txn := purchase("t1", "100.00", "2024-03-08", 3)
	_, err := l.PostCardPurchase(txn, card)
	require.NoError(t, err)

	assert.Equal(t, 3, l.Retract("t1"))
	txn.InstallmentCount = 1
	_, err = l.PostCardPurchase(txn, card)
	require.NoError(t, err)

	invs := l.Invoices()
	require.Len(t, invs, 1)
	assert.Equal(t, "2024-04-10", invs[0].DueDate.String())
	assert.Equal(t, "100.00", invs[0].Amount.StringFixed(2))
	requireConsistent(t, l)
}

func TestMarkPaid(t *testing.T) {
	l := newLedger()
	invID := l.PostInstallment(card.ID, day("2024-04-10"), model.LineItem{Amount: dec("10")})

	assert.True(t, l.MarkPaid(invID))
	assert.False(t, l.MarkPaid(invID), "paid is terminal")
	assert.False(t, l.MarkPaid("missing"))
	assert.True(t, l.Invoices()[0].Paid)
}

func TestRemove(t *testing.T) {
	l := newLedger()
	a := l.PostInstallment("card-1", day("2024-04-10"), model.LineItem{Amount: dec("1")})
	l.PostInstallment("card-2", day("2024-04-10"), model.LineItem{Amount: dec("1")})
	l.PostInstallment("card-2", day("2024-05-10"), model.LineItem{Amount: dec("1")})

	assert.True(t, l.Remove(a))
	assert.False(t, l.Remove(a))
	assert.Equal(t, 2, l.RemoveCard("card-2"))
	assert.Empty(t, l.Invoices())
}

func TestNewLedgerCopies(t *testing.T) {
	orig := []model.Invoice{{ID: "i1", CardID: card.ID, DueDate: day("2024-04-10"), Amount: dec("5"),
		Items: []model.LineItem{{TransactionID: "t1", Amount: dec("5")}}}}
	l := newLedger(orig...)
	l.Retract("t1")
	assert.Empty(t, l.Invoices())
	assert.Len(t, orig[0].Items, 1)
}

func TestCheck(t *testing.T) {
	invs := []model.Invoice{
		{ID: "ok", Amount: dec("3"), Items: []model.LineItem{{Amount: dec("1")}, {Amount: dec("2")}}},
		{ID: "drift", Amount: dec("4"), Items: []model.LineItem{{Amount: dec("1")}}},
		{ID: "empty", Amount: dec("0")},
	}
	got := Check(invs)
	require.Len(t, got, 2)
	assert.Equal(t, "drift", got[0].InvoiceID)
	assert.Contains(t, got[0].Error(), "amount 4.00 != items 1.00")
	assert.True(t, got[1].Empty)
}
