package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gosom/multirouter/common/logger"
	"github.com/gosom/multirouter/runner"
	"github.com/gosom/multirouter/runner/filerunner"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := newRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.Error("multirouter failed", "error", err)
		logger.Close()
		os.Exit(1)
	}

	logger.Close()
}

func newRootCmd() *cobra.Command {
	cfg := runner.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "multirouter [flags] <source|sources.csv> <destination|destinations.csv>",
		Short: "Distance and travel time from one location to many, or many to one",
		Long: `multirouter fills the Google Maps directions page for every location in a
CSV list and writes <list>_dist_time.csv next to it.

  multirouter "Seattle, WA" destinations.csv   one source, many destinations
  multirouter sources.csv "Seattle, WA"        many sources, one destination

Subcommand names (history, help, completion) take precedence over
locations. Put -- before the arguments to use one as a location:

  multirouter -- history destinations.csv`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return logger.Init(logger.Config{Folder: cfg.LogFolder, Debug: cfg.Debug})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := runner.ResolvePlan(args[0], args[1])
			if err != nil {
				return err
			}

			r, err := filerunner.New(cmd.Context(), cfg, plan)
			if err != nil {
				return err
			}

			return errors.Join(r.Run(cmd.Context()), r.Close(cmd.Context()))
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfg.LogFolder, "log-folder", cfg.LogFolder, "write logs/multirouter_<date>.log under this folder")
	flags.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug logging")
	flags.StringVar(&cfg.DatabaseURL, "db", cfg.DatabaseURL, "record runs in this SQLite file or postgres:// URL")

	f := cmd.Flags()
	f.StringVar(&cfg.Driver, "driver", cfg.Driver, "browser driver: playwright|rod")
	f.BoolVar(&cfg.Headless, "headless", cfg.Headless, "run the browser without a window")
	f.DurationVar(&cfg.WaitTime, "wait", cfg.WaitTime, "how long to wait for search boxes and trip results")
	f.StringVar(&cfg.DirectionsURL, "url", cfg.DirectionsURL, "directions page URL")
	f.StringVar(&cfg.SelectorsFile, "selectors", cfg.SelectorsFile, "YAML file overriding page selectors")
	f.StringVar(&cfg.RowFillPolicy, "row-fill-policy", cfg.RowFillPolicy, "on a per-row search box timeout: ignore|abort")
	f.BoolVar(&cfg.BlockStyles, "block-styles", cfg.BlockStyles, "strip stylesheets after the page loads")
	f.BoolVar(&cfg.XLSX, "xlsx", cfg.XLSX, "also write an .xlsx copy of the results")
	f.StringVar(&cfg.S3Bucket, "s3-bucket", cfg.S3Bucket, "upload result files to this S3 bucket")
	f.StringVar(&cfg.S3Prefix, "s3-prefix", cfg.S3Prefix, "key prefix for S3 uploads")
	f.StringVar(&cfg.S3Region, "s3-region", cfg.S3Region, "AWS region for S3 uploads")

	cmd.AddCommand(newHistoryCmd(cfg))

	return cmd
}
