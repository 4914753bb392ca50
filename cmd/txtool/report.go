package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"upidash/internal/aggregate"
	"upidash/internal/core"
	"upidash/internal/filter"
	"upidash/internal/services"
)

type reportFlags struct {
	types      []string
	categories []string
	months     []string
	amountMin  string
	amountMax  string
	top        int
	currency   string
}

func newReportCmd(root *rootFlags) *cobra.Command {
	f := &reportFlags{}
	cmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Print the dashboard summary for a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := root.loader(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			table, err := loader.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			sel := filter.Selection{
				Types:      f.types,
				Categories: f.categories,
				Months:     f.months,
				AmountMin:  f.amountMin,
				AmountMax:  f.amountMax,
			}
			for _, name := range []string{"type", "category", "month", "amount-min", "amount-max"} {
				if cmd.Flags().Changed(name) {
					sel.Applied = true
				}
			}
			// Flags left unset keep every value of that control.
			opts := filter.OptionsFor(table)
			if sel.Applied {
				if !cmd.Flags().Changed("type") {
					sel.Types = opts.Types
				}
				if !cmd.Flags().Changed("category") {
					sel.Categories = opts.Categories
				}
				if !cmd.Flags().Changed("month") {
					sel.Months = opts.Months
				}
			}

			criteria, warnings := sel.Resolve(opts)
			view := services.BuildView(table, opts, criteria, f.top)
			view.Warnings = warnings
			return writeReport(cmd.OutOrStdout(), view, f.currency)
		},
	}
	cmd.Flags().StringSliceVar(&f.types, "type", nil, "transaction types to keep (repeatable)")
	cmd.Flags().StringSliceVar(&f.categories, "category", nil, "categories to keep (repeatable)")
	cmd.Flags().StringSliceVar(&f.months, "month", nil, "months (YYYY-MM) to keep (repeatable)")
	cmd.Flags().StringVar(&f.amountMin, "amount-min", "", "minimum amount, inclusive")
	cmd.Flags().StringVar(&f.amountMax, "amount-max", "", "maximum amount, inclusive")
	cmd.Flags().IntVar(&f.top, "top", aggregate.DefaultTopMerchants, "number of top merchants")
	cmd.Flags().StringVar(&f.currency, "currency", "₹", "currency symbol")
	return cmd
}

func writeReport(w io.Writer, v *services.View, symbol string) error {
	for _, warn := range v.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn.Message)
	}
	fmt.Fprintf(w, "Total transactions: %d\n", v.Summary.RowCount)
	fmt.Fprintf(w, "Total amount: %s\n", core.FormatCurrency(v.Summary.TotalAmount, symbol))

	sections := []struct {
		title  string
		totals []core.Total
	}{
		{"Monthly Spend (Filtered)", v.Monthly},
		{"Top Merchants", v.Merchants},
		{"Spend by Category", v.Categories},
	}
	for _, s := range sections {
		fmt.Fprintf(w, "\n%s\n", s.title)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		for _, t := range s.totals {
			fmt.Fprintf(tw, "  %s\t%s\t\n", t.Key, core.FormatCurrency(t.Amount, symbol))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}
