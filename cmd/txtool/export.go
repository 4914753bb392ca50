package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"upidash/internal/dataset"
)

func newExportCmd(root *rootFlags) *cobra.Command {
	var newestFirst bool
	cmd := &cobra.Command{
		Use:   "export <input> <output.csv>",
		Short: "Write any supported dataset back out as CSV",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := root.loader(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			table, err := loader.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			rows := table.Rows()
			if newestFirst {
				rows = table.SortedByDateTimeDesc()
			}
			if err := dataset.WriteCSVFile(args[1], rows); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d transactions to %s\n", len(rows), args[1])
			return nil
		},
	}
	cmd.Flags().BoolVar(&newestFirst, "newest-first", false, "sort rows by datetime, newest first")
	return cmd
}
