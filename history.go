package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/gosom/multirouter/gmaps"
	"github.com/gosom/multirouter/runner"
	"github.com/gosom/multirouter/store"
)

func newHistoryCmd(cfg *runner.Config) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recorded runs, or the trips of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.DatabaseURL == "" {
				return errors.New("--db is required")
			}

			st, err := store.Open(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer st.Close()

			out := cmd.OutOrStdout()

			if len(args) == 1 {
				return printTrips(cmd, st, args[0], out)
			}

			runs, err := st.Runs(cmd.Context(), limit)
			if err != nil {
				return err
			}

			for _, r := range runs {
				status := runStatus(r)

				fmt.Fprintf(out, "%s  %s  %-11s  %s  %d rows  %s\n",
					r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Mode,
					runewidth.FillRight(runewidth.Truncate(r.Fixed, 30, "…"), 30), r.Rows, status)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "number of runs to list")

	return cmd
}

func runStatus(r store.Run) string {
	switch {
	case r.Status == store.RunFailed && r.Error != "":
		return "failed: " + r.Error
	case r.Status == store.RunFailed:
		return "failed"
	case r.FinishedAt != nil:
		return r.FinishedAt.Sub(r.CreatedAt).Round(time.Second).String()
	default:
		return "unfinished"
	}
}

func printTrips(cmd *cobra.Command, st *store.Store, runID string, out io.Writer) error {
	trips, err := st.Trips(cmd.Context(), runID)
	if err != nil {
		return err
	}

	if len(trips) == 0 {
		return fmt.Errorf("no trips recorded for run %s", runID)
	}

	for _, t := range trips {
		dist, minutes := "None", "None"
		if t.DistanceMi != nil {
			dist = gmaps.FormatMiles(*t.DistanceMi)
		}

		if t.TimeMin != nil {
			minutes = fmt.Sprint(*t.TimeMin)
		}

		fmt.Fprintf(out, "%4d  %s  %10s  %6s  %s\n",
			t.Position, runewidth.FillRight(runewidth.Truncate(t.Location, 40, "…"), 40), dist, minutes, t.Status)
	}

	return nil
}
