// Package store keeps a history of runs and their trip results in SQLite or
// Postgres.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/gosom/multirouter/gmaps"
)

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// Store is a SQL backed run history.
type Store struct {
	db      *sql.DB
	dialect dialect
}

// Run outcomes stored in runs.status.
const (
	RunRunning  = "running"
	RunFinished = "finished"
	RunFailed   = "failed"
)

type Run struct {
	ID         string
	Mode       string
	Fixed      string
	ListPath   string
	OutputPath string
	Status     string
	Error      string
	CreatedAt  time.Time
	FinishedAt *time.Time
	Rows       int
}

// Open connects to dsn. URLs starting with postgres:// or postgresql:// use
// pgx; anything else is a SQLite file path.
func Open(ctx context.Context, dsn string) (*Store, error) {
	driver, d := "sqlite", dialectSQLite
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver, d = "pgx", dialectPostgres
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	if d == dialectSQLite {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("verify history database connection: %w", err)
	}

	s := Store{db: db, dialect: d}

	if err := s.migrate(ctx); err != nil {
		_ = db.Close()

		return nil, err
	}

	return &s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			mode TEXT NOT NULL,
			fixed TEXT NOT NULL,
			list_path TEXT NOT NULL,
			output_path TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'running',
			error TEXT NULL,
			created_at TIMESTAMP NOT NULL,
			finished_at TIMESTAMP NULL
		)`,
		`CREATE TABLE IF NOT EXISTS trips (
			run_id TEXT NOT NULL REFERENCES runs(id),
			position INTEGER NOT NULL,
			location TEXT NOT NULL,
			status TEXT NOT NULL,
			distance_mi DOUBLE PRECISION NULL,
			time_min INTEGER NULL,
			PRIMARY KEY (run_id, position)
		)`,
	}

	for _, q := range stmts {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrate history database: %w", err)
		}
	}

	return nil
}

// rebind turns ? placeholders into $n for Postgres.
func (s *Store) rebind(q string) string {
	if s.dialect != dialectPostgres {
		return q
	}

	var b strings.Builder

	n := 0

	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))

			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// NewRun records the start of a run and returns a writer for its trips.
func (s *Store) NewRun(ctx context.Context, run Run) (*RunWriter, error) {
	run.ID = uuid.New().String()
	run.Status = RunRunning
	run.CreatedAt = time.Now().UTC()

	q := s.rebind(`INSERT INTO runs (id, mode, fixed, list_path, output_path, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`)

	_, err := s.db.ExecContext(ctx, q, run.ID, run.Mode, run.Fixed, run.ListPath, run.OutputPath, run.Status, run.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	return &RunWriter{store: s, run: run}, nil
}

// Runs returns the most recent runs first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	q := s.rebind(`
	SELECT r.id, r.mode, r.fixed, r.list_path, r.output_path, r.status, r.error, r.created_at, r.finished_at,
		(SELECT COUNT(*) FROM trips t WHERE t.run_id = r.id)
	FROM runs r
	ORDER BY r.created_at DESC
	LIMIT ?`)

	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var ans []Run

	for rows.Next() {
		var (
			r        Run
			runErr   sql.NullString
			finished sql.NullTime
		)

		if err := rows.Scan(&r.ID, &r.Mode, &r.Fixed, &r.ListPath, &r.OutputPath, &r.Status, &runErr, &r.CreatedAt, &finished, &r.Rows); err != nil {
			return nil, fmt.Errorf("scan runs: %w", err)
		}

		r.Error = runErr.String

		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
		}

		ans = append(ans, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("runs row iteration: %w", err)
	}

	return ans, nil
}

// Trips returns the stored results of a run in input order.
func (s *Store) Trips(ctx context.Context, runID string) ([]gmaps.TripResult, error) {
	q := s.rebind(`
	SELECT position, location, status, distance_mi, time_min
	FROM trips
	WHERE run_id = ?
	ORDER BY position`)

	rows, err := s.db.QueryContext(ctx, q, runID)
	if err != nil {
		return nil, fmt.Errorf("query trips: %w", err)
	}
	defer rows.Close()

	var ans []gmaps.TripResult

	for rows.Next() {
		var (
			res     gmaps.TripResult
			status  string
			dist    sql.NullFloat64
			minutes sql.NullInt64
		)

		if err := rows.Scan(&res.Position, &res.Location, &status, &dist, &minutes); err != nil {
			return nil, fmt.Errorf("scan trips: %w", err)
		}

		res.Status, err = parseStatus(status)
		if err != nil {
			return nil, err
		}

		if dist.Valid {
			v := dist.Float64
			res.DistanceMi = &v
		}

		if minutes.Valid {
			v := int(minutes.Int64)
			res.TimeMin = &v
		}

		ans = append(ans, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("trips row iteration: %w", err)
	}

	return ans, nil
}

func parseStatus(s string) (gmaps.TripStatus, error) {
	for _, st := range []gmaps.TripStatus{gmaps.TripFound, gmaps.TripUnreachable, gmaps.TripTimedOut} {
		if st.String() == s {
			return st, nil
		}
	}

	return 0, fmt.Errorf("unknown trip status %q", s)
}

// RunWriter appends trips to one run.
type RunWriter struct {
	store  *Store
	run    Run
	closed bool
}

func (w *RunWriter) RunID() string {
	return w.run.ID
}

func (w *RunWriter) Write(ctx context.Context, res *gmaps.TripResult) error {
	if w.closed {
		return errors.New("run writer is closed")
	}

	var (
		dist    sql.NullFloat64
		minutes sql.NullInt64
	)

	if res.DistanceMi != nil {
		dist = sql.NullFloat64{Float64: *res.DistanceMi, Valid: true}
	}

	if res.TimeMin != nil {
		minutes = sql.NullInt64{Int64: int64(*res.TimeMin), Valid: true}
	}

	q := w.store.rebind(`INSERT INTO trips (run_id, position, location, status, distance_mi, time_min) VALUES (?, ?, ?, ?, ?, ?)`)

	_, err := w.store.db.ExecContext(ctx, q, w.run.ID, res.Position, res.Location, res.Status.String(), dist, minutes)
	if err != nil {
		return fmt.Errorf("insert trip %d: %w", res.Position, err)
	}

	return nil
}

// Close marks the run finished.
func (w *RunWriter) Close() error {
	if w.closed {
		return nil
	}

	w.closed = true

	q := w.store.rebind(`UPDATE runs SET status = ?, finished_at = ? WHERE id = ?`)

	_, err := w.store.db.Exec(q, RunFinished, time.Now().UTC(), w.run.ID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}

	return nil
}

// Fail marks the run failed with cause. finished_at stays empty. Close
// after Fail is a no-op.
func (w *RunWriter) Fail(cause error) error {
	if w.closed {
		return nil
	}

	w.closed = true

	var msg sql.NullString
	if cause != nil {
		msg = sql.NullString{String: cause.Error(), Valid: true}
	}

	q := w.store.rebind(`UPDATE runs SET status = ?, error = ? WHERE id = ?`)

	_, err := w.store.db.Exec(q, RunFailed, msg, w.run.ID)
	if err != nil {
		return fmt.Errorf("fail run: %w", err)
	}

	return nil
}
