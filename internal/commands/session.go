package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/pocket/internal/activity"
	"github.com/cleared-dev/pocket/internal/calendar"
	"github.com/cleared-dev/pocket/internal/config"
	"github.com/cleared-dev/pocket/internal/engine"
	"github.com/cleared-dev/pocket/internal/id"
	"github.com/cleared-dev/pocket/internal/logger"
	"github.com/cleared-dev/pocket/internal/money"
	"github.com/cleared-dev/pocket/internal/notify"
	"github.com/cleared-dev/pocket/internal/store"
)

// notifyTimeout bounds how long a command waits for sync before exiting.
const notifyTimeout = 30 * time.Second

// session is one command invocation against a ledger directory.
type session struct {
	dir      string
	cfg      *config.Config
	log      zerolog.Logger
	store    *store.Store
	engine   *engine.Engine
	notifier notify.Notifier
	out      io.Writer
	ctx      context.Context
}

func ledgerDir(cmd *cobra.Command) (string, error) {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return abs, nil
}

// openSession loads config and ledger and builds an engine over it.
func openSession(cmd *cobra.Command) (*session, error) {
	dir, err := ledgerDir(cmd)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s is not a pocket ledger (run pocket init)", dir)
	}
	if err != nil {
		return nil, err
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	log := logger.New(level).With().Str("ledger", dir).Logger()

	st := store.New(filepath.Join(dir, cfg.Data.File), store.Options{DefaultDueDay: cfg.Cards.DefaultDueDay}, id.UUID{})
	res, err := st.Load()
	if err != nil {
		return nil, err
	}
	if len(res.Applied) > 0 {
		log.Info().Int("from", res.FromVersion).Strs("steps", res.Applied).Msg("ledger upgraded")
	}

	s := &session{
		dir:   dir,
		cfg:   cfg,
		log:   log,
		store: st,
		engine: engine.New(res.State,
			engine.WithLogger(log),
			engine.WithDefaultDueDay(cfg.Cards.DefaultDueDay),
		),
		out: cmd.OutOrStdout(),
		ctx: logger.WithContext(cmd.Context(), log),
	}
	if cfg.Sync.Git && notify.IsRepo(dir) {
		s.notifier = notify.GitNotifier{Dir: dir, AuthorName: cfg.Sync.AuthorName, AuthorEmail: cfg.Sync.AuthorEmail}
	}
	if res.Created || len(res.Applied) > 0 {
		if err := st.Save(res.State); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// commit persists a successful mutation, records it in the activity log and
// hands it to the notifier. Only the save can fail the command.
func (s *session) commit(op, summary string, v engine.View) error {
	if err := s.store.Save(v.State); err != nil {
		return err
	}

	entry := activity.Entry{
		Timestamp: time.Now().UTC(),
		Actor:     s.cfg.Owner.Name,
		Op:        op,
		Details:   summary,
		EntityID:  v.Created,
		Balance:   v.Balances.Total(),
	}
	if err := activity.Append(s.dir, []activity.Entry{entry}); err != nil {
		s.log.Warn().Err(err).Msg("writing activity log")
	}

	ctx := s.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	<-notify.Dispatch(ctx, s.log, s.notifier, notify.Event{Op: op, EntityID: v.Created, Summary: summary})
	return nil
}

func (s *session) money(d decimal.Decimal) string {
	return money.Format(d, s.cfg.Currency)
}

func (s *session) signed(d decimal.Decimal) string {
	return money.FormatSigned(d, s.cfg.Currency)
}

func (s *session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// parseDate parses a --date style flag; empty means today.
func parseDate(s string) (calendar.Date, error) {
	if strings.TrimSpace(s) == "" {
		return calendar.Today(), nil
	}
	return calendar.Parse(s)
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := money.Parse(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}
