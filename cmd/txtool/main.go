package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"upidash/internal/cli"
	"upidash/internal/dataset"
	applog "upidash/internal/log"
)

type rootFlags struct {
	source   string
	logLevel string
}

func main() {
	cli.LoadEnvFile()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "txtool",
		Short:         "Inspect, convert and generate UPI transaction datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.source, "source", "auto", "input format: auto, csv, sqlite or sheets")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", envOr("LOG_LEVEL", "warn"), "log level")

	root.AddCommand(
		newReportCmd(flags),
		newConvertCmd(flags),
		newExportCmd(flags),
		newGenerateCmd(flags),
	)
	return root
}

func (f *rootFlags) logger() *applog.Logger {
	return cli.SetupLogger(f.logLevel).WithComponent(applog.ComponentCLI)
}

// loader returns a one-shot loader for path honouring --source.
func (f *rootFlags) loader(ctx context.Context, path string) (*dataset.Loader, error) {
	st, err := dataset.ParseSourceType(f.source)
	if err != nil {
		return nil, err
	}
	logger := f.logger()
	readers, err := cli.RemoteReaders(ctx, st, path, logger)
	if err != nil {
		return nil, err
	}
	return dataset.NewLoader(dataset.LoaderOptions{Source: st, CacheSize: 1, Logger: logger, Readers: readers}), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
