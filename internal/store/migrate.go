package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/pocket/internal/balance"
	"github.com/cleared-dev/pocket/internal/calendar"
	"github.com/cleared-dev/pocket/internal/model"
)

// CurrentVersion is the schema version Save writes.
const CurrentVersion = 3

// object is one decoded JSON object. Migrations work on this untyped form so
// that they can read any historical shape.
type object = map[string]any

// Migration upgrades a document from version From to From+1.
type Migration struct {
	From  int
	Name  string
	Apply func(doc object, opts Options) error
}

// Migrations lists every schema step in order.
var Migrations = []Migration{
	{From: 0, Name: "rename-legacy-fields", Apply: renameLegacyFields},
	{From: 1, Name: "apply-defaults", Apply: applyDefaults},
	{From: 2, Name: "derive-opening-balances", Apply: deriveOpeningBalances},
}

// Migrate upgrades doc in place to CurrentVersion and returns the names of the
// steps it applied.
func Migrate(doc object, opts Options) ([]string, error) {
	from, err := version(doc)
	if err != nil {
		return nil, err
	}
	if from > CurrentVersion {
		return nil, fmt.Errorf("document version %d is newer than supported version %d", from, CurrentVersion)
	}

	var applied []string
	for _, m := range Migrations {
		if m.From < from {
			continue
		}
		if err := m.Apply(doc, opts); err != nil {
			return applied, fmt.Errorf("migration %s: %w", m.Name, err)
		}
		doc["version"] = m.From + 1
		applied = append(applied, m.Name)
	}
	return applied, nil
}

func version(doc object) (int, error) {
	v, ok := doc["version"]
	if !ok || v == nil {
		return 0, nil
	}
	n, err := intValue(v)
	if err != nil {
		return 0, fmt.Errorf("reading version: %w", err)
	}
	return n, nil
}

// renameLegacyFields maps the original app's names onto the current ones. The
// stored running balance of each bank survives as legacyBalance.
func renameLegacyFields(doc object, _ Options) error {
	if _, ok := doc["accounts"]; !ok {
		if banks, ok := doc["banks"]; ok {
			doc["accounts"] = banks
		}
	}
	delete(doc, "banks")
	delete(doc, "theme")

	accounts, err := objects(doc, "accounts")
	if err != nil {
		return err
	}
	for _, a := range accounts {
		rename(a, "balance", "legacyBalance")
	}

	cards, err := objects(doc, "cards")
	if err != nil {
		return err
	}
	for _, c := range cards {
		rename(c, "bankId", "accountId")
		rename(c, "limit", "creditLimit")
	}

	txns, err := objects(doc, "transactions")
	if err != nil {
		return err
	}
	for _, t := range txns {
		rename(t, "type", "kind")
		rename(t, "bankId", "accountId")
	}

	cats, err := objects(doc, "categories")
	if err != nil {
		return err
	}
	for _, c := range cats {
		rename(c, "type", "kind")
	}
	return nil
}

// applyDefaults fills every field older documents may lack.
func applyDefaults(doc object, opts Options) error {
	for _, key := range []string{"accounts", "cards", "categories", "transactions", "invoices", "adjustments"} {
		if v, ok := doc[key]; !ok || v == nil {
			doc[key] = []any{}
		}
	}

	cards, err := objects(doc, "cards")
	if err != nil {
		return err
	}
	for _, c := range cards {
		day := opts.dueDay()
		if !blank(c, "dueDay") {
			if day, err = intValue(c["dueDay"]); err != nil {
				return fmt.Errorf("card %v dueDay: %w", c["id"], err)
			}
		}
		c["dueDay"] = calendar.ClampDueDay(day)
		if blank(c, "creditLimit") {
			c["creditLimit"] = "0"
		}
	}

	txns, err := objects(doc, "transactions")
	if err != nil {
		return err
	}
	for _, t := range txns {
		if blank(t, "paymentMethod") {
			t["paymentMethod"] = string(model.MethodDirect)
		}
		if blank(t, "status") {
			t["status"] = string(model.StatusPending)
		}
		count := 1
		if !blank(t, "installmentCount") {
			if count, err = intValue(t["installmentCount"]); err != nil {
				return fmt.Errorf("transaction %v installmentCount: %w", t["id"], err)
			}
		}
		t["installmentCount"] = max(count, 1)
		if blank(t, "categoryId") {
			delete(t, "categoryId")
		}
		if blank(t, "cardId") {
			delete(t, "cardId")
		}
	}

	invs, err := objects(doc, "invoices")
	if err != nil {
		return err
	}
	for _, inv := range invs {
		if blank(inv, "paid") {
			inv["paid"] = false
		}
		if _, ok := inv["items"]; ok && inv["items"] != nil {
			continue
		}
		amount, err := decimalValue(inv["amount"])
		if err != nil {
			return fmt.Errorf("invoice %v amount: %w", inv["id"], err)
		}
		items := []any{}
		if !amount.IsZero() {
			items = append(items, object{
				"description":      "Imported invoice",
				"installment":      1,
				"installmentCount": 1,
				"amount":           amount.String(),
			})
		}
		inv["items"] = items
	}
	return nil
}

// deriveOpeningBalances pins card expenses to pending, recomputes invoice totals
// from their items and replaces each legacy running balance with the opening
// balance that replays to it.
func deriveOpeningBalances(doc object, _ Options) error {
	txns, err := objects(doc, "transactions")
	if err != nil {
		return err
	}
	for _, t := range txns {
		if t["kind"] == string(model.KindExpense) && t["paymentMethod"] == string(model.MethodCard) {
			t["status"] = string(model.StatusPending)
		}
	}

	legacy := make(map[string]decimal.Decimal)
	accounts, err := objects(doc, "accounts")
	if err != nil {
		return err
	}
	for _, a := range accounts {
		lb, ok := a["legacyBalance"]
		delete(a, "legacyBalance")
		if !ok || !blank(a, "openingBalance") {
			continue
		}
		d, err := decimalValue(lb)
		if err != nil {
			return fmt.Errorf("account %v legacyBalance: %w", a["id"], err)
		}
		id, _ := a["id"].(string)
		legacy[id] = d
		a["openingBalance"] = "0"
	}

	var s model.State
	if err := roundTrip(doc, &s); err != nil {
		return err
	}

	kept := s.Invoices[:0]
	for _, inv := range s.Invoices {
		if len(inv.Items) == 0 {
			continue
		}
		inv.Amount = inv.ItemsTotal()
		kept = append(kept, inv)
	}
	s.Invoices = kept

	replayed := balance.Recompute(s)
	for i, a := range s.Accounts {
		lb, ok := legacy[a.ID]
		if !ok {
			continue
		}
		effect, _ := replayed.Of(a.ID)
		s.Accounts[i].OpeningBalance = lb.Sub(effect)
	}

	var next object
	if err := roundTrip(s, &next); err != nil {
		return err
	}
	for k := range doc {
		if k != "version" {
			delete(doc, k)
		}
	}
	for k, v := range next {
		doc[k] = v
	}
	return nil
}

func objects(doc object, key string) ([]object, error) {
	raw, ok := doc[key]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected a list, got %T", key, raw)
	}
	out := make([]object, len(list))
	for i, v := range list {
		m, ok := v.(object)
		if !ok {
			return nil, fmt.Errorf("%s[%d]: expected an object, got %T", key, i, v)
		}
		out[i] = m
	}
	return out, nil
}

func rename(m object, from, to string) {
	v, ok := m[from]
	if !ok {
		return
	}
	if _, exists := m[to]; !exists {
		m[to] = v
	}
	delete(m, from)
}

func blank(m object, key string) bool {
	v, ok := m[key]
	return !ok || v == nil || v == ""
}

func intValue(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case json.Number:
		i, err := strconv.Atoi(n.String())
		if err != nil {
			f, ferr := n.Float64()
			if ferr != nil || f != float64(int(f)) {
				return 0, fmt.Errorf("%q is not a whole number", n)
			}
			return int(f), nil
		}
		return i, nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("%v is not a whole number", n)
		}
		return int(n), nil
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("%q is not a whole number", n)
		}
		return i, nil
	}
	return 0, fmt.Errorf("unexpected %T", v)
}

// decimalValue accepts the number or string encodings amounts have had. A
// missing amount is zero.
func decimalValue(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case nil:
		return decimal.Zero, nil
	case json.Number:
		return decimal.NewFromString(n.String())
	case string:
		if n == "" {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(n)
	case float64:
		return decimal.NewFromFloat(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	}
	return decimal.Zero, fmt.Errorf("unexpected %T", v)
}

// roundTrip re-encodes in as JSON and decodes it into out, keeping numbers exact.
func roundTrip(in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decoding document: %w", err)
	}
	return nil
}
