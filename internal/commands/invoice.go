package commands

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/pocket/internal/calendar"
	"github.com/cleared-dev/pocket/internal/engine"
	"github.com/cleared-dev/pocket/internal/id"
	"github.com/cleared-dev/pocket/internal/model"
)

func newInvoiceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoice",
		Short: "Inspect and settle card invoices",
	}
	cmd.AddCommand(
		newInvoiceListCommand(),
		newInvoiceShowCommand(),
		newInvoiceAddCommand(),
		newInvoicePayCommand(),
		newInvoiceDeleteCommand(),
	)
	return cmd
}

func newInvoiceListCommand() *cobra.Command {
	var card string
	var unpaid bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List invoices by due date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			cardID := ""
			if card != "" {
				if cardID, err = s.card(card); err != nil {
					return err
				}
			}
			v := s.engine.View()
			names := v.Names()
			invs := v.State.Invoices
			slices.SortStableFunc(invs, func(a, b model.Invoice) int { return a.DueDate.Compare(b.DueDate) })
			t := newTable(s.out, "DUE", "ID", "CARD", "ITEMS", "STATUS", "AMOUNT")
			for _, inv := range invs {
				if (cardID != "" && inv.CardID != cardID) || (unpaid && inv.Paid) {
					continue
				}
				status := "open"
				if inv.Paid {
					status = "paid"
				}
				t.row(inv.DueDate.String(), id.Short(inv.ID), names.CardName(inv.CardID),
					strconv.Itoa(len(inv.Items)), status, s.money(inv.Amount))
			}
			return t.flush()
		},
	}
	cmd.Flags().StringVar(&card, "card", "", "only this card")
	cmd.Flags().BoolVar(&unpaid, "unpaid", false, "only invoices not yet paid")
	return cmd
}

func newInvoiceShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <invoice>",
		Short: "Show an invoice's line items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			inv, err := s.invoice(args[0])
			if err != nil {
				return err
			}
			s.printf("%s due %s: %s\n", s.engine.View().Names().CardName(inv.CardID), inv.DueDate, s.money(inv.Amount))
			t := newTable(s.out, "INSTALLMENT", "DESCRIPTION", "AMOUNT")
			for _, it := range inv.Items {
				t.row(fmt.Sprintf("%d/%d", it.Installment, it.InstallmentCount), it.Description, s.money(it.Amount))
			}
			return t.flush()
		},
	}
}

func newInvoiceAddCommand() *cobra.Command {
	var card, due, note string
	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Add a manual charge to a card's invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			cardID, err := s.card(card)
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			dueDate, err := calendar.Parse(due)
			if err != nil {
				return fmt.Errorf("--due: %w", err)
			}
			v, err := s.engine.AddInvoice(engine.InvoiceInput{
				CardID:      cardID,
				DueDate:     dueDate,
				Amount:      amount,
				Description: note,
			})
			if err != nil {
				return err
			}
			if err := s.commit("add invoice", fmt.Sprintf("%s %s due %s", card, s.money(amount), dueDate), v); err != nil {
				return err
			}
			inv, _ := v.State.Invoice(v.Created)
			s.printf("Invoice %s due %s now %s\n", id.Short(inv.ID), inv.DueDate, s.money(inv.Amount))
			return nil
		},
	}
	cmd.Flags().StringVar(&card, "card", "", "card name or id (required)")
	_ = cmd.MarkFlagRequired("card")
	cmd.Flags().StringVar(&due, "due", "", "due date, YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("due")
	cmd.Flags().StringVar(&note, "note", "Manual charge", "description")
	return cmd
}

func newInvoicePayCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pay <invoice>",
		Short: "Mark an invoice paid; its amount leaves the card's account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			inv, err := s.invoice(args[0])
			if err != nil {
				return err
			}
			if inv.Paid {
				s.printf("Invoice %s is already paid\n", id.Short(inv.ID))
				return nil
			}
			v, err := s.engine.PayInvoice(inv.ID)
			if err != nil {
				return err
			}
			if err := s.commit("pay invoice", fmt.Sprintf("%s due %s", s.money(inv.Amount), inv.DueDate), v); err != nil {
				return err
			}
			s.printf("Paid invoice %s: %s, balance %s\n", id.Short(inv.ID), s.money(inv.Amount), s.money(v.Balances.Total()))
			return nil
		},
	}
}

func newInvoiceDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <invoice>",
		Short: "Delete an invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			inv, err := s.invoice(args[0])
			if err != nil {
				return err
			}
			v, err := s.engine.DeleteInvoice(inv.ID)
			if err != nil {
				return err
			}
			if err := s.commit("delete invoice", fmt.Sprintf("due %s", inv.DueDate), v); err != nil {
				return err
			}
			s.printf("Deleted invoice %s\n", id.Short(inv.ID))
			return nil
		},
	}
}
