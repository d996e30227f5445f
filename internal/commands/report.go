package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/pocket/internal/activity"
	"github.com/cleared-dev/pocket/internal/calendar"
	"github.com/cleared-dev/pocket/internal/export"
	"github.com/cleared-dev/pocket/internal/id"
	"github.com/cleared-dev/pocket/internal/report"
)

func newReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summaries, charts data and exports",
	}
	cmd.AddCommand(
		newReportSummaryCommand(),
		newReportFlowCommand(),
		newReportResultCommand(),
		newReportCategoriesCommand(),
		newReportStatementCommand(),
		newReportExportCommand(),
		newReportCheckCommand(),
	)
	return cmd
}

func newReportSummaryCommand() *cobra.Command {
	var period string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Balance, income, expenses and forecast",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			p, err := report.ParsePeriod(period)
			if err != nil {
				return err
			}
			tot := s.engine.Totals(p)
			t := newTable(s.out, "PERIOD", tot.Period.String())
			t.row("Balance", s.money(tot.Balance))
			t.row("Income received", s.money(tot.PaidIncome))
			t.row("Expenses paid", s.money(tot.PaidExpense))
			t.row("Income pending", s.money(tot.PendingIncome))
			t.row("Expenses pending", s.money(tot.PendingExpense))
			t.row("Open invoices", s.money(tot.UnpaidInvoices))
			t.row("Forecast", s.money(tot.Forecast))
			return t.flush()
		},
	}
	cmd.Flags().StringVar(&period, "period", "all", "month (YYYY-MM) or all")
	return cmd
}

// months returns the trailing month keys for the --months flag, falling back to
// the configured report window.
func (s *session) months(n int) []string {
	if n <= 0 {
		n = s.cfg.Report.Months
	}
	return report.LastMonths(calendar.Today(), n)
}

func newReportFlowCommand() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "flow",
		Short: "Income and expense per month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			t := newTable(s.out, "MONTH", "INCOME", "EXPENSE")
			for _, p := range s.engine.MonthlyFlow(s.months(n)) {
				t.row(p.Month, s.money(p.Income), s.money(p.Expense))
			}
			return t.flush()
		},
	}
	cmd.Flags().IntVar(&n, "months", 0, "number of months (default from config)")
	return cmd
}

func newReportResultCommand() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "result",
		Short: "Monthly surplus or deficit including card invoices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			t := newTable(s.out, "MONTH", "INCOME", "EXPENSES", "INVOICES", "NET")
			for _, p := range s.engine.MonthlyResult(s.months(n)) {
				t.row(p.Month, s.money(p.Income), s.money(p.DirectExpense), s.money(p.Invoices), s.signed(p.Net))
			}
			return t.flush()
		},
	}
	cmd.Flags().IntVar(&n, "months", 0, "number of months (default from config)")
	return cmd
}

func newReportCategoriesCommand() *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Largest expense categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			t := newTable(s.out, "CATEGORY", "AMOUNT", "SHARE")
			for _, ct := range s.engine.ExpensesByCategory(top) {
				t.row(ct.Name, s.money(ct.Amount), ct.Share.Shift(2).StringFixed(1)+"%")
			}
			return t.flush()
		},
	}
	cmd.Flags().IntVar(&top, "top", 5, "number of categories, 0 for all")
	return cmd
}

func newReportStatementCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "statement",
		Short: "Transactions and invoices, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			entries := s.engine.Statement()
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}
			t := newTable(s.out, "DATE", "ID", "DESCRIPTION", "SETTLED", "AMOUNT")
			for _, e := range entries {
				settled := "no"
				if e.Settled {
					settled = "yes"
				}
				t.row(e.Date.String(), id.Short(e.RefID), e.Text, settled, s.signed(e.Amount))
			}
			return t.flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of entries, 0 for all")
	return cmd
}

func newReportExportCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write monthly statement CSVs and a balances CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			if out == "" {
				out = filepath.Join(s.dir, "exports")
			}
			svc := export.NewService(out)
			paths, err := svc.WriteStatements(s.engine.Statement())
			if err != nil {
				return err
			}
			balances, err := svc.WriteBalances(s.engine.Balances())
			if err != nil {
				return err
			}
			for _, p := range append(paths, balances) {
				s.printf("wrote %s\n", p)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output directory (default <dir>/exports)")
	return cmd
}

func newReportCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify that every invoice total matches its items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			if err := s.engine.Verify(); err != nil {
				return fmt.Errorf("ledger check failed:\n%w", err)
			}
			s.printf("ok: %d invoices consistent\n", len(s.engine.View().State.Invoices))
			return nil
		},
	}
}

func newLogCommand() *cobra.Command {
	var tail int
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the activity log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			entries, err := activity.Read(s.dir)
			if err != nil {
				return err
			}
			t := newTable(s.out, "TIME", "ACTOR", "OP", "DETAILS", "BALANCE")
			for _, e := range activity.Tail(entries, tail) {
				t.row(e.Timestamp.Local().Format("2006-01-02 15:04"), e.Actor, e.Op, e.Details, s.money(e.Balance))
			}
			return t.flush()
		},
	}
	cmd.Flags().IntVar(&tail, "tail", 20, "number of entries, 0 for all")
	return cmd
}
