package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/diewo77/invoicer/i18n"
	"github.com/diewo77/invoicer/internal/form"
	"github.com/diewo77/invoicer/internal/models"
	"github.com/diewo77/invoicer/internal/services"
	"github.com/diewo77/invoicer/internal/store"
	"github.com/spf13/cobra"
)

func (c *cli) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the invoice directory and database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.printf(cmd, "invoices: %s\n", c.svc.Dir())
			if dir := c.cfg.Database.DataDir(); dir != "" {
				c.printf(cmd, "database: %s\n", c.cfg.Database.Path)
			} else {
				c.printf(cmd, "database: %s@%s/%s\n", c.cfg.Database.User, c.cfg.Database.Host, c.cfg.Database.DBName)
			}
			return nil
		},
	}
}

func (c *cli) generateCmd() *cobra.Command {
	var (
		d     form.Draft
		items []string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an invoice PDF and save it to the history",
		Example: `  invoicer generate --client Acme --tax 10 \
    --item "Widget:2:5.00" --item "Setup:1.5:40"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := form.New()
			for i, raw := range items {
				row, err := form.ParseRow(raw)
				if err != nil {
					return err
				}
				if i > 0 {
					f.AddRow()
				}
				f.SetName(i, row.Name)
				f.SetQuantity(i, row.Quantity)
				f.SetPrice(i, row.Price)
			}
			d.Rows = f.Rows()

			inv, path, err := c.svc.Generate(cmd.Context(), d)
			if err != nil {
				var verr *form.ValidationError
				if errors.As(err, &verr) {
					for _, field := range verr.Violations.Fields() {
						c.printf(cmd, "%s: %s\n", field, i18n.T(c.lang, verr.Messages()[field]))
					}
					return errors.New(i18n.T(c.lang, "validation_failed"))
				}
				return err
			}

			amounts := f.Amounts()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PRODUCT\tQTY\tPRICE\tAMOUNT")
			for i, row := range d.Rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", row.Name, row.Quantity, row.Price, amounts[i])
			}
			tw.Flush()
			printTotals(cmd, inv)
			c.printf(cmd, "%s\n", i18n.Tf(c.lang, "invoice_saved", path))
			return nil
		},
	}
	cmd.Flags().StringVar(&d.ClientName, "client", "", "client name (required)")
	cmd.Flags().StringVar(&d.InvoiceDate, "date", "", "invoice date, defaults to today (YYYY-MM-DD)")
	cmd.Flags().StringVar(&d.TaxPercent, "tax", "0", "tax percent")
	cmd.Flags().StringVar(&d.Notes, "notes", "", "free-text notes printed under the totals")
	cmd.Flags().StringArrayVar(&items, "item", nil, "line item as name:quantity:price (repeatable)")
	return cmd
}

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved invoices, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := c.svc.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				c.printf(cmd, "%s\n", i18n.T(c.lang, "no_invoices"))
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "INVOICE NO\tCLIENT\tDATE\tTOTAL")
			for _, s := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\n", s.Number, s.ClientName, s.InvoiceDate, s.Total)
			}
			return tw.Flush()
		},
	}
}

func (c *cli) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <invoice-number>",
		Short: "Show a saved invoice with its line items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := c.svc.Get(cmd.Context(), args[0])
			if err != nil {
				return c.translate(err)
			}
			c.printf(cmd, "Invoice No: %s\nDate: %s\nClient: %s\n\n", inv.Number, inv.InvoiceDate, inv.ClientName)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PRODUCT\tQTY\tPRICE\tAMOUNT")
			for _, it := range inv.Items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", it.Name, it.Quantity, models.Money(it.UnitPrice), models.Money(it.Amount()))
			}
			tw.Flush()
			printTotals(cmd, inv)
			if inv.Notes != "" {
				c.printf(cmd, "\nNotes:\n%s\n", inv.Notes)
			}
			return nil
		},
	}
}

func (c *cli) viewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view <invoice-number>",
		Short: "Open the invoice PDF in the system viewer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.translate(c.svc.View(cmd.Context(), args[0]))
		},
	}
}

func (c *cli) deleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <invoice-number>",
		Short: "Delete an invoice record and its PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number := strings.TrimSpace(args[0])
			if number == "" {
				return c.translate(services.ErrNoSelection)
			}
			if !yes && !confirm(cmd, i18n.Tf(c.lang, "confirm_delete", number)) {
				c.printf(cmd, "%s\n", i18n.T(c.lang, "delete_cancelled"))
				return nil
			}
			if err := c.svc.Delete(cmd.Context(), number); err != nil {
				return c.translate(err)
			}
			c.printf(cmd, "%s\n", i18n.Tf(c.lang, "invoice_deleted", number))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (c *cli) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.xlsx>",
		Short: "Export the invoice history to an Excel workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			n, err := c.svc.Export(cmd.Context(), f)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			c.printf(cmd, "%s\n", i18n.Tf(c.lang, "export_written", n, args[0]))
			return nil
		},
	}
}

// translate replaces known sentinel errors with a localized message.
func (c *cli) translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, services.ErrPDFNotFound):
		return errors.New(i18n.T(c.lang, "pdf_not_found"))
	case errors.Is(err, services.ErrNoSelection):
		return errors.New(i18n.T(c.lang, "no_selection"))
	case errors.Is(err, store.ErrNotFound):
		return errors.New(i18n.T(c.lang, "not_found"))
	}
	return err
}

func printTotals(cmd *cobra.Command, inv *models.Invoice) {
	sub, tax, total := services.Totals(inv)
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "\nSubtotal:\t%s\t\n", sub)
	fmt.Fprintf(tw, "Tax (%s%%):\t%s\t\n", inv.TaxPercent.String(), tax)
	fmt.Fprintf(tw, "Total:\t%s\t\n", total)
	tw.Flush()
}

// confirm asks a yes/no question on the command's input. Anything but y/yes
// (including EOF) is a no.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "o", "oui":
		return true
	}
	return false
}
