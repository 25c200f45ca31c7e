package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosom/multirouter/gmaps"
	"github.com/gosom/multirouter/runner"
	"github.com/gosom/multirouter/store"
)

func TestRootRejectsAmbiguousArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"Seattle", "Portland"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.ExecuteContext(context.Background())
	require.ErrorIs(t, err, runner.ErrAmbiguousArgs)
}

func TestRootNeedsTwoArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"only.csv"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	require.Error(t, cmd.ExecuteContext(context.Background()))
}

func TestRootDoubleDashSkipsSubcommands(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--", "history", "Seattle"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.ExecuteContext(context.Background())
	require.ErrorIs(t, err, runner.ErrAmbiguousArgs)
	require.Contains(t, cmd.Long, "multirouter -- history")
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "history.db")

	st, err := store.Open(ctx, dbPath)
	require.NoError(t, err)

	w, err := st.NewRun(ctx, store.Run{Mode: "one-to-many", Fixed: "Seattle, WA", ListPath: "c.csv", OutputPath: "c_dist_time.csv"})
	require.NoError(t, err)

	minutes := 38
	dist := 33.0
	require.NoError(t, w.Write(ctx, &gmaps.TripResult{Position: 0, Location: "Tacoma, WA", Status: gmaps.TripFound, DistanceMi: &dist, TimeMin: &minutes}))
	require.NoError(t, w.Close())
	require.NoError(t, st.Close())

	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.SetArgs([]string{"history", "--db", dbPath})
	cmd.SetOut(&out)
	require.NoError(t, cmd.ExecuteContext(ctx))
	require.Contains(t, out.String(), w.RunID())
	require.Contains(t, out.String(), "1 rows")

	out.Reset()

	cmd = newRootCmd()
	cmd.SetArgs([]string{"history", "--db", dbPath, w.RunID()})
	cmd.SetOut(&out)
	require.NoError(t, cmd.ExecuteContext(ctx))
	require.Contains(t, out.String(), "Tacoma, WA")
	require.Contains(t, out.String(), "33.0")
	require.Contains(t, out.String(), "found")

	cmd = newRootCmd()
	cmd.SetArgs([]string{"history"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	require.Error(t, cmd.ExecuteContext(ctx))
}

func TestHistoryShowsFailedRun(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "history.db")

	st, err := store.Open(ctx, dbPath)
	require.NoError(t, err)

	w, err := st.NewRun(ctx, store.Run{Mode: "many-to-one", Fixed: "Seattle, WA", ListPath: "c.csv", OutputPath: "c_dist_time.csv"})
	require.NoError(t, err)
	require.NoError(t, w.Fail(errors.New("malformed trip text")))
	require.NoError(t, st.Close())

	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.SetArgs([]string{"history", "--db", dbPath})
	cmd.SetOut(&out)
	require.NoError(t, cmd.ExecuteContext(ctx))
	require.Contains(t, out.String(), w.RunID())
	require.Contains(t, out.String(), "failed: malformed trip text")
}
