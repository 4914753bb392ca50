package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"upidash/internal/storage"
)

func newConvertCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <input> <snapshot.db>",
		Short: "Write a dataset into a SQLite snapshot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := args[0], args[1]
			loader, err := root.loader(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			table, err := loader.Load(cmd.Context(), in)
			if err != nil {
				return err
			}

			repo, err := storage.NewSQLiteRepository(out)
			if err != nil {
				return fmt.Errorf("open snapshot: %w", err)
			}
			defer repo.Close()

			if err := repo.ReplaceTransactions(cmd.Context(), in, table.Rows()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d transactions from %s to %s (schema v%d)\n",
				table.Len(), in, out, repo.SchemaVersion())
			return nil
		},
	}
}
