package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/pocket/internal/engine"
	"github.com/cleared-dev/pocket/internal/id"
	"github.com/cleared-dev/pocket/internal/model"
	"github.com/cleared-dev/pocket/internal/report"
)

func newTxCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transaction"},
		Short:   "Record and edit transactions",
	}
	cmd.AddCommand(
		newTxListCommand(),
		newTxAddCommand(),
		newTxEditCommand(),
		newTxDeleteCommand(),
		newTxToggleCommand(),
		newTxStatusCommand(),
	)
	return cmd
}

// txFlags are the transaction fields settable from the command line.
type txFlags struct {
	description  string
	amount       string
	kind         string
	category     string
	account      string
	card         string
	installments int
	date         string
	pending      bool
}

func (f *txFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.kind, "kind", string(model.KindExpense), "income or expense")
	cmd.Flags().StringVar(&f.category, "category", "", "category name or id")
	cmd.Flags().StringVar(&f.account, "account", "", "account name or id (default: the only account, or the card's)")
	cmd.Flags().StringVar(&f.card, "card", "", "pay by this card")
	cmd.Flags().IntVar(&f.installments, "installments", 1, "number of monthly installments for card purchases")
	cmd.Flags().StringVar(&f.date, "date", "", "transaction date (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&f.pending, "pending", false, "record as not yet settled")
}

// apply copies the flags that were given onto in. With all set, every flag is
// applied, including defaults.
func (f *txFlags) apply(s *session, cmd *cobra.Command, in *engine.TransactionInput, all bool) error {
	changed := func(name string) bool { return all || cmd.Flags().Changed(name) }

	if changed("description") && f.description != "" {
		in.Description = f.description
	}
	if changed("amount") && f.amount != "" {
		amount, err := parseAmount(f.amount)
		if err != nil {
			return err
		}
		in.Amount = amount
	}
	if changed("kind") {
		in.Kind = model.Kind(f.kind)
	}
	if changed("category") {
		in.CategoryID = ""
		if f.category != "" {
			catID, err := s.category(f.category)
			if err != nil {
				return err
			}
			in.CategoryID = catID
		}
	}
	if changed("card") {
		in.CardID = ""
		in.PaymentMethod = model.MethodDirect
		if f.card != "" {
			cardID, err := s.card(f.card)
			if err != nil {
				return err
			}
			in.CardID = cardID
			in.PaymentMethod = model.MethodCard
			in.AccountID = ""
		}
	}
	if changed("account") {
		if f.account != "" {
			accountID, err := s.account(f.account)
			if err != nil {
				return err
			}
			in.AccountID = accountID
		} else if in.PaymentMethod != model.MethodCard {
			accts := s.engine.View().State.Accounts
			if len(accts) != 1 {
				return fmt.Errorf("--account is required when the ledger has %d accounts", len(accts))
			}
			in.AccountID = accts[0].ID
		}
	}
	if changed("installments") {
		in.InstallmentCount = f.installments
	}
	if changed("date") {
		on, err := parseDate(f.date)
		if err != nil {
			return err
		}
		in.Date = on
	}
	if changed("pending") {
		in.Status = model.StatusPaid
		if f.pending || in.PaymentMethod == model.MethodCard {
			in.Status = model.StatusPending
		}
	}
	return nil
}

func newTxListCommand() *cobra.Command {
	var period, account string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
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
			accountID := ""
			if account != "" {
				if accountID, err = s.account(account); err != nil {
					return err
				}
			}

			v := s.engine.View()
			names := v.Names()
			t := newTable(s.out, "DATE", "ID", "DESCRIPTION", "CATEGORY", "ACCOUNT", "METHOD", "STATUS", "AMOUNT")
			for _, e := range s.engine.Statement() {
				if e.Kind != report.EntryTransaction || !p.Contains(e.Date) {
					continue
				}
				txn, _ := v.State.Transaction(e.RefID)
				if accountID != "" && txn.AccountID != accountID {
					continue
				}
				method := string(txn.PaymentMethod)
				if txn.IsCardExpense() {
					method = names.CardName(txn.CardID)
					if txn.InstallmentCount > 1 {
						method += " " + strconv.Itoa(txn.InstallmentCount) + "x"
					}
				}
				t.row(txn.Date.String(), id.Short(txn.ID), txn.Description, names.CategoryName(txn.CategoryID),
					names.AccountName(txn.AccountID), method, string(txn.Status), s.signed(txn.Signed()))
			}
			return t.flush()
		},
	}
	cmd.Flags().StringVar(&period, "period", "all", "month (YYYY-MM) or all")
	cmd.Flags().StringVar(&account, "account", "", "only this account")
	return cmd
}

func newTxAddCommand() *cobra.Command {
	var f txFlags
	cmd := &cobra.Command{
		Use:   "add <description> <amount>",
		Short: "Record a transaction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			f.description, f.amount = args[0], args[1]
			var in engine.TransactionInput
			if err := f.apply(s, cmd, &in, true); err != nil {
				return err
			}
			v, err := s.engine.AddTransaction(in)
			if err != nil {
				return err
			}
			if err := s.commit("add transaction", fmt.Sprintf("%s %s", in.Description, s.money(in.Amount)), v); err != nil {
				return err
			}
			s.printf("Added %s %s (%s)\n", in.Kind, in.Description, id.Short(v.Created))
			if in.PaymentMethod == model.MethodCard {
				printInstallments(s, v, v.Created)
			}
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

// printInstallments lists the invoices a card purchase was posted on.
func printInstallments(s *session, v engine.View, txnID string) {
	for _, inv := range v.State.Invoices {
		for _, it := range inv.Items {
			if it.TransactionID == txnID {
				s.printf("  %d/%d due %s: %s\n", it.Installment, it.InstallmentCount, inv.DueDate, s.money(it.Amount))
			}
		}
	}
}

func newTxEditCommand() *cobra.Command {
	var f txFlags
	cmd := &cobra.Command{
		Use:   "edit <transaction>",
		Short: "Change a transaction; card installments are posted again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			txn, err := s.transaction(args[0])
			if err != nil {
				return err
			}
			in := engine.TransactionInput{
				Description:      txn.Description,
				Amount:           txn.Amount,
				Kind:             txn.Kind,
				CategoryID:       txn.CategoryID,
				AccountID:        txn.AccountID,
				Date:             txn.Date,
				Status:           txn.Status,
				PaymentMethod:    txn.PaymentMethod,
				CardID:           txn.CardID,
				InstallmentCount: txn.InstallmentCount,
			}
			if err := f.apply(s, cmd, &in, false); err != nil {
				return err
			}
			v, err := s.engine.EditTransaction(txn.ID, in)
			if err != nil {
				return err
			}
			if err := s.commit("edit transaction", in.Description, v); err != nil {
				return err
			}
			s.printf("Updated %s (%s)\n", in.Description, id.Short(txn.ID))
			if in.PaymentMethod == model.MethodCard {
				printInstallments(s, v, txn.ID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&f.description, "description", "", "new description")
	cmd.Flags().StringVar(&f.amount, "amount", "", "new amount")
	f.register(cmd)
	return cmd
}

func newTxDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <transaction>",
		Short: "Delete a transaction and its installments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			txn, err := s.transaction(args[0])
			if err != nil {
				return err
			}
			v, err := s.engine.DeleteTransaction(txn.ID)
			if err != nil {
				return err
			}
			if err := s.commit("delete transaction", txn.Description, v); err != nil {
				return err
			}
			s.printf("Deleted %s\n", txn.Description)
			return nil
		},
	}
}

func newTxToggleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <transaction>",
		Short: "Flip a transaction between paid and pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			txn, err := s.transaction(args[0])
			if err != nil {
				return err
			}
			v, err := s.engine.ToggleTransactionStatus(txn.ID)
			if err != nil {
				return err
			}
			return finishStatus(s, v, txn.ID)
		},
	}
}

func newTxStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "status <transaction> <paid|pending>",
		Short:     "Mark a transaction paid or pending",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(model.StatusPaid), string(model.StatusPending)},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			txn, err := s.transaction(args[0])
			if err != nil {
				return err
			}
			v, err := s.engine.SetTransactionStatus(txn.ID, model.Status(args[1]))
			if err != nil {
				return err
			}
			return finishStatus(s, v, txn.ID)
		},
	}
}

func finishStatus(s *session, v engine.View, txnID string) error {
	txn, _ := v.State.Transaction(txnID)
	if err := s.commit("set transaction status", fmt.Sprintf("%s %s", txn.Description, txn.Status), v); err != nil {
		return err
	}
	bal, _ := v.Balances.Of(txn.AccountID)
	s.printf("%s is %s, %s balance %s\n", txn.Description, txn.Status, v.Names().AccountName(txn.AccountID), s.money(bal))
	return nil
}
