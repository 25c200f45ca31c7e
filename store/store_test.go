package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosom/multirouter/gmaps"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	w, err := s.NewRun(ctx, Run{Mode: "many-to-one", Fixed: "Seattle, WA", ListPath: "in.csv", OutputPath: "in_dist_time.csv"})
	require.NoError(t, err)
	require.NotEmpty(t, w.RunID())

	dist, minutes := 12.5, 31

	require.NoError(t, w.Write(ctx, &gmaps.TripResult{Position: 0, Location: "Tacoma", Status: gmaps.TripFound, DistanceMi: &dist, TimeMin: &minutes}))
	require.NoError(t, w.Write(ctx, &gmaps.TripResult{Position: 1, Location: "Atlantis", Status: gmaps.TripTimedOut}))

	runs, err := s.Runs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Nil(t, runs[0].FinishedAt)
	require.Equal(t, RunRunning, runs[0].Status)
	require.Equal(t, 2, runs[0].Rows)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	require.Error(t, w.Write(ctx, &gmaps.TripResult{Position: 2}))

	runs, err = s.Runs(ctx, 5)
	require.NoError(t, err)
	require.NotNil(t, runs[0].FinishedAt)
	require.Equal(t, RunFinished, runs[0].Status)
	require.Empty(t, runs[0].Error)
	require.Equal(t, "Seattle, WA", runs[0].Fixed)

	trips, err := s.Trips(ctx, w.RunID())
	require.NoError(t, err)
	require.Len(t, trips, 2)
	require.Equal(t, "Tacoma", trips[0].Location)
	require.InDelta(t, 12.5, *trips[0].DistanceMi, 1e-9)
	require.Equal(t, 31, *trips[0].TimeMin)
	require.Equal(t, gmaps.TripTimedOut, trips[1].Status)
	require.Nil(t, trips[1].TimeMin)
}

func TestFailedRunIsNotFinished(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	w, err := s.NewRun(ctx, Run{Mode: "one-to-many", Fixed: "Seattle, WA", ListPath: "c.csv", OutputPath: "c_dist_time.csv"})
	require.NoError(t, err)

	require.NoError(t, w.Fail(errors.New("malformed trip text: distance \"about far\"")))
	require.NoError(t, w.Close())
	require.NoError(t, w.Fail(errors.New("again")))

	runs, err := s.Runs(ctx, 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, RunFailed, runs[0].Status)
	require.Nil(t, runs[0].FinishedAt)
	require.Contains(t, runs[0].Error, "about far")
}

func TestDuplicatePositionRejected(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	w, err := s.NewRun(ctx, Run{Mode: "one-to-many", Fixed: "A", ListPath: "b.csv", OutputPath: "b_dist_time.csv"})
	require.NoError(t, err)

	require.NoError(t, w.Write(ctx, &gmaps.TripResult{Position: 0, Location: "B", Status: gmaps.TripUnreachable}))
	require.Error(t, w.Write(ctx, &gmaps.TripResult{Position: 0, Location: "B", Status: gmaps.TripUnreachable}))
}

func TestRebind(t *testing.T) {
	pg := &Store{dialect: dialectPostgres}
	require.Equal(t, "UPDATE runs SET finished_at = $1 WHERE id = $2", pg.rebind("UPDATE runs SET finished_at = ? WHERE id = ?"))

	lite := &Store{dialect: dialectSQLite}
	require.Equal(t, "SELECT ?", lite.rebind("SELECT ?"))
}

func TestParseStatus(t *testing.T) {
	st, err := parseStatus("unreachable")
	require.NoError(t, err)
	require.Equal(t, gmaps.TripUnreachable, st)

	_, err = parseStatus("lost")
	require.Error(t, err)
}
