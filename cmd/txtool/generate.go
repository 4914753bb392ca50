package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"upidash/internal/dataset"
)

func newGenerateCmd(_ *rootFlags) *cobra.Command {
	var (
		rows   int
		months int
		start  string
		seed   uint64
	)
	cmd := &cobra.Command{
		Use:   "generate <output.csv>",
		Short: "Write a synthetic UPI transaction CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := time.Parse("2006-01", start)
			if err != nil {
				return fmt.Errorf("invalid --start %q: want YYYY-MM", start)
			}
			table := dataset.GenerateSynthetic(dataset.SyntheticOptions{
				Rows:   rows,
				Start:  from,
				Months: months,
				Seed:   seed,
			})
			if err := dataset.WriteCSVFile(args[0], table.Rows()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d synthetic transactions to %s\n", table.Len(), args[0])
			return nil
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 1000, "number of transactions")
	cmd.Flags().IntVar(&months, "months", 6, "number of months covered")
	cmd.Flags().StringVar(&start, "start", "2024-01", "first month (YYYY-MM)")
	cmd.Flags().Uint64Var(&seed, "seed", 42, "random seed")
	return cmd
}
