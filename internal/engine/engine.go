// Package engine applies mutations to a personal ledger and keeps every derived
// value (invoice totals, balances) consistent with the event history.
//
// An Engine owns one event set. Each mutation validates its input, is applied to a
// copy of the state, and only replaces the state once it succeeded, followed by a
// full balance recomputation. Engine does no locking; see Guarded.
package engine

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/pocket/internal/balance"
	"github.com/cleared-dev/pocket/internal/calendar"
	"github.com/cleared-dev/pocket/internal/id"
	"github.com/cleared-dev/pocket/internal/invoices"
	"github.com/cleared-dev/pocket/internal/lookup"
	"github.com/cleared-dev/pocket/internal/model"
	"github.com/cleared-dev/pocket/internal/report"
)

// DefaultDueDay is used for cards created without a due day.
const DefaultDueDay = 10

// MaxInstallments bounds how many invoices one purchase may be spread over.
const MaxInstallments = 120

// View is the result of a mutation: a copy of the new state and the balances
// recomputed from it.
type View struct {
	State    model.State
	Balances balance.Balances
	// Created is the id of the entity the mutation created, if any.
	Created string
}

// Engine owns one ledger state.
type Engine struct {
	state    model.State
	balances balance.Balances
	ids      id.Generator
	log      zerolog.Logger
	dueDay   int
}

// Option configures an Engine.
type Option func(*Engine)

// WithIDs sets the id generator for new entities.
func WithIDs(g id.Generator) Option { return func(e *Engine) { e.ids = g } }

// WithLogger sets the logger mutations are reported to.
func WithLogger(l zerolog.Logger) Option { return func(e *Engine) { e.log = l } }

// WithDefaultDueDay sets the due day given to cards created without one.
func WithDefaultDueDay(day int) Option {
	return func(e *Engine) { e.dueDay = calendar.ClampDueDay(day) }
}

// New returns an Engine over a private copy of s.
func New(s model.State, opts ...Option) *Engine {
	e := &Engine{
		state:  s.Clone(),
		ids:    id.UUID{},
		log:    zerolog.Nop(),
		dueDay: DefaultDueDay,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.balances = balance.Recompute(e.state)
	return e
}

// View returns the current state and balances.
func (e *Engine) View() View {
	return View{State: e.state.Clone(), Balances: e.balances}
}

// Names resolves the view's entity ids to display names.
func (v View) Names() *lookup.Service { return lookup.NewService(v.State) }

// Balances returns the balances recomputed after the last mutation.
func (e *Engine) Balances() balance.Balances { return e.balances }

// Verify reports invoices whose amount drifted from their items.
func (e *Engine) Verify() error {
	var errs []error
	for _, m := range invoices.Check(e.state.Invoices) {
		errs = append(errs, m)
	}
	return errors.Join(errs...)
}

// apply runs fn against a copy of the state. On success the copy becomes the new
// state and balances are recomputed; on failure nothing changes.
func (e *Engine) apply(op string, fn func(s *model.State) (string, error)) (View, error) {
	next := e.state.Clone()
	created, err := fn(&next)
	if err != nil {
		e.log.Warn().Str("op", op).Err(err).Msg("mutation rejected")
		return e.View(), err
	}
	e.state = next
	e.balances = balance.Recompute(e.state)
	e.log.Debug().
		Str("op", op).
		Str("created", created).
		Int("transactions", len(e.state.Transactions)).
		Int("invoices", len(e.state.Invoices)).
		Msg("mutation applied")

	v := e.View()
	v.Created = created
	return v, nil
}

func (e *Engine) ledger(s *model.State) *invoices.Ledger {
	return invoices.NewLedger(s.Invoices, e.ids)
}

// Totals returns the dashboard totals for a period.
func (e *Engine) Totals(p report.Period) report.Totals {
	return report.ComputeTotals(e.state, e.balances, p)
}

// MonthlyFlow returns income and expense per month key.
func (e *Engine) MonthlyFlow(months []string) []report.FlowPoint {
	return report.MonthlyFlow(e.state, months)
}

// MonthlyResult returns the net result per month key.
func (e *Engine) MonthlyResult(months []string) []report.ResultPoint {
	return report.MonthlyResult(e.state, months)
}

// ExpensesByCategory returns the largest expense categories.
func (e *Engine) ExpensesByCategory(limit int) []report.CategoryTotal {
	return report.ExpensesByCategory(e.state, lookup.NewService(e.state), limit)
}

// Statement returns all transactions and invoices, newest first.
func (e *Engine) Statement() []report.Entry {
	return report.Statement(e.state, lookup.NewService(e.state))
}
