package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "harvesthub",
		Short:         "HarvestHub crop tracking API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file (default $HARVESTHUB_CONFIG)")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newSeedSchemesCommand(opts))
	return cmd
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func newSeedSchemesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-schemes",
		Short: "Insert the sample government schemes into an empty collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeedSchemes(cmd.Context(), opts)
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "harvesthub:", err)
		stop()
		os.Exit(1)
	}
}
