package commands

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/pocket/internal/engine"
	"github.com/cleared-dev/pocket/internal/id"
	"github.com/cleared-dev/pocket/internal/model"
	"github.com/cleared-dev/pocket/internal/money"
)

func newAccountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage bank accounts",
	}
	cmd.AddCommand(
		newAccountListCommand(),
		newAccountAddCommand(),
		newAccountDeleteCommand(),
		newAccountAdjustCommand(),
		newAccountReconcileCommand(),
	)
	return cmd
}

func newAccountListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts with their current balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			b := s.engine.Balances()
			t := newTable(s.out, "ID", "NAME", "BALANCE")
			for _, ab := range b.All() {
				t.row(id.Short(ab.AccountID), ab.Name, s.money(ab.Balance))
			}
			t.row("", "Total", s.money(b.Total()))
			return t.flush()
		},
	}
}

func newAccountAddCommand() *cobra.Command {
	var opening string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			amount, err := parseAmount(opening)
			if err != nil {
				return err
			}
			v, err := s.engine.AddAccount(engine.AccountInput{Name: args[0], OpeningBalance: amount})
			if err != nil {
				return err
			}
			if err := s.commit("add account", args[0], v); err != nil {
				return err
			}
			s.printf("Added account %s (%s)\n", args[0], id.Short(v.Created))
			return nil
		},
	}
	cmd.Flags().StringVar(&opening, "opening", "0", "opening balance")
	return cmd
}

func newAccountDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <account>",
		Short: "Delete an account with its cards, invoices and transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			accountID, err := s.account(args[0])
			if err != nil {
				return err
			}
			v, err := s.engine.DeleteAccount(accountID)
			if err != nil {
				return err
			}
			if err := s.commit("delete account", args[0], v); err != nil {
				return err
			}
			s.printf("Deleted account %s\n", args[0])
			return nil
		},
	}
}

func newAccountAdjustCommand() *cobra.Command {
	var date, note string
	cmd := &cobra.Command{
		Use:   "adjust <account> <amount>",
		Short: "Record a signed manual correction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			accountID, err := s.account(args[0])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			on, err := parseDate(date)
			if err != nil {
				return err
			}
			v, err := s.engine.AdjustBalance(engine.AdjustmentInput{
				AccountID:   accountID,
				Amount:      amount,
				Date:        on,
				Description: note,
			})
			if err != nil {
				return err
			}
			if err := s.commit("adjust balance", fmt.Sprintf("%s %s", args[0], s.signed(amount)), v); err != nil {
				return err
			}
			bal, _ := v.Balances.Of(accountID)
			s.printf("Adjusted %s by %s, balance %s\n", args[0], s.signed(amount), s.money(bal))
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "adjustment date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&note, "note", "Manual adjustment", "description")
	return cmd
}

func newAccountReconcileCommand() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "reconcile <account> <balance>",
		Short: "Set an account's balance to match the bank",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			accountID, err := s.account(args[0])
			if err != nil {
				return err
			}
			target, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			on, err := parseDate(date)
			if err != nil {
				return err
			}
			before, _ := s.engine.Balances().Of(accountID)
			v, err := s.engine.ReconcileBalance(accountID, target, on)
			if err != nil {
				return err
			}
			if v.Created == "" {
				s.printf("%s already at %s\n", args[0], s.money(before))
				return nil
			}
			if err := s.commit("reconcile balance", fmt.Sprintf("%s to %s", args[0], s.money(target)), v); err != nil {
				return err
			}
			after, _ := v.Balances.Of(accountID)
			s.printf("Reconciled %s: %s -> %s\n", args[0], s.money(before), s.money(after))
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "reconciliation date (YYYY-MM-DD, default today)")
	return cmd
}

func newCardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Manage credit cards",
	}
	cmd.AddCommand(newCardListCommand(), newCardAddCommand(), newCardDeleteCommand())
	return cmd
}

func newCardListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cards with their open invoice total",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			v := s.engine.View()
			names := v.Names()
			open := make(map[string]decimal.Decimal)
			for _, inv := range v.State.Invoices {
				if !inv.Paid {
					open[inv.CardID] = open[inv.CardID].Add(inv.Amount)
				}
			}
			t := newTable(s.out, "ID", "NAME", "ACCOUNT", "DUE DAY", "LIMIT", "OPEN")
			for _, c := range v.State.Cards {
				t.row(id.Short(c.ID), c.Name, names.AccountName(c.AccountID), strconv.Itoa(c.DueDay),
					s.money(c.CreditLimit), s.money(money.Round(open[c.ID])))
			}
			return t.flush()
		},
	}
}

func newCardAddCommand() *cobra.Command {
	var account, limit string
	var dueDay int
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a credit card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			accountID, err := s.account(account)
			if err != nil {
				return err
			}
			creditLimit, err := parseAmount(limit)
			if err != nil {
				return err
			}
			v, err := s.engine.AddCard(engine.CardInput{
				Name:        args[0],
				AccountID:   accountID,
				CreditLimit: creditLimit,
				DueDay:      dueDay,
			})
			if err != nil {
				return err
			}
			if err := s.commit("add card", args[0], v); err != nil {
				return err
			}
			card, _ := v.State.Card(v.Created)
			s.printf("Added card %s (%s), due on day %d\n", card.Name, id.Short(card.ID), card.DueDay)
			return nil
		},
	}
	cmd.Flags().StringVar(&account, "account", "", "owning account (required)")
	_ = cmd.MarkFlagRequired("account")
	cmd.Flags().StringVar(&limit, "limit", "0", "credit limit")
	cmd.Flags().IntVar(&dueDay, "due-day", 0, "invoice due day, 1-28 (default from config)")
	return cmd
}

func newCardDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <card>",
		Short: "Delete a card and its invoices",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			cardID, err := s.card(args[0])
			if err != nil {
				return err
			}
			v, err := s.engine.DeleteCard(cardID)
			if err != nil {
				return err
			}
			if err := s.commit("delete card", args[0], v); err != nil {
				return err
			}
			s.printf("Deleted card %s\n", args[0])
			return nil
		},
	}
}

func newCategoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage categories",
	}
	cmd.AddCommand(newCategoryListCommand(), newCategoryAddCommand(), newCategoryDeleteCommand())
	return cmd
}

func newCategoryListCommand() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			v := s.engine.View()
			cats := v.State.Categories
			if kind != "" {
				cats = v.Names().CategoriesOfKind(model.Kind(kind))
			}
			t := newTable(s.out, "ID", "NAME", "KIND")
			for _, c := range cats {
				t.row(id.Short(c.ID), c.Name, string(c.Kind))
			}
			return t.flush()
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "only income or expense categories")
	return cmd
}

func newCategoryAddCommand() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			v, err := s.engine.AddCategory(engine.CategoryInput{Name: args[0], Kind: model.Kind(kind)})
			if err != nil {
				return err
			}
			if err := s.commit("add category", args[0], v); err != nil {
				return err
			}
			s.printf("Added %s category %s (%s)\n", kind, args[0], id.Short(v.Created))
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", string(model.KindExpense), "income or expense")
	return cmd
}

func newCategoryDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <category>",
		Short: "Delete a category; its transactions become uncategorized",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			categoryID, err := s.category(args[0])
			if err != nil {
				return err
			}
			v, err := s.engine.DeleteCategory(categoryID)
			if err != nil {
				return err
			}
			if err := s.commit("delete category", args[0], v); err != nil {
				return err
			}
			s.printf("Deleted category %s\n", args[0])
			return nil
		},
	}
}
