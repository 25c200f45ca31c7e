package filerunner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gosom/multirouter/browser"
	"github.com/gosom/multirouter/common/logger"
	"github.com/gosom/multirouter/export"
	"github.com/gosom/multirouter/gmaps"
	"github.com/gosom/multirouter/runner"
	"github.com/gosom/multirouter/store"
)

// OpenFunc starts a browser session.
type OpenFunc func(ctx context.Context, opts browser.Options) (gmaps.Session, error)

// Uploader ships a finished file somewhere.
type Uploader interface {
	Upload(ctx context.Context, localPath string) error
}

type Option func(*filerunner)

func WithOpener(open OpenFunc) Option {
	return func(w *filerunner) {
		w.open = open
	}
}

func WithUploader(u Uploader) Option {
	return func(w *filerunner) {
		w.uploader = u
	}
}

// WithSummary renders the end of run table to out.
func WithSummary(out io.Writer) Option {
	return func(w *filerunner) {
		w.summaryOut = out
	}
}

type filerunner struct {
	cfg        *runner.Config
	plan       runner.Plan
	selectors  gmaps.Selectors
	open       OpenFunc
	store      *store.Store
	uploader   Uploader
	summaryOut io.Writer
}

func New(ctx context.Context, cfg *runner.Config, plan runner.Plan, opts ...Option) (runner.Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	selectors, err := gmaps.LoadSelectors(cfg.SelectorsFile)
	if err != nil {
		return nil, err
	}

	ans := filerunner{
		cfg:       cfg,
		plan:      plan,
		selectors: selectors,
		open:      browser.Open,
	}

	if logger.IsTerminal(os.Stdout) {
		ans.summaryOut = os.Stdout
	}

	for _, opt := range opts {
		opt(&ans)
	}

	if ans.uploader == nil && cfg.S3Bucket != "" {
		u, err := export.NewS3Uploader(ctx, export.S3Config{
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.S3Prefix,
			Region:    cfg.S3Region,
			AccessKey: cfg.AWSAccessKey,
			SecretKey: cfg.AWSSecretKey,
		})
		if err != nil {
			return nil, err
		}

		ans.uploader = u
	}

	if cfg.DatabaseURL != "" {
		st, err := store.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}

		ans.store = st
	}

	return &ans, nil
}

func (w *filerunner) Close(context.Context) error {
	if w.store != nil {
		return w.store.Close()
	}

	return nil
}

func (w *filerunner) Run(ctx context.Context) error {
	t0 := time.Now().UTC()

	logger.Info("starting browser", "driver", w.cfg.Driver, "headless", w.cfg.Headless, "mode", w.plan.Mode.String())

	session, err := w.open(ctx, browser.Options{
		Driver:   w.cfg.Driver,
		Headless: w.cfg.Headless,
	})
	if err != nil {
		return err
	}

	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn("failed to close browser", "error", err)
		}
	}()

	dir := w.directions(session)

	if err := dir.Open(ctx); err != nil {
		return err
	}

	fixedRole := w.plan.FixedRole()

	if err := dir.FillSearchBox(ctx, fixedRole, w.plan.Fixed); err != nil {
		logger.Error("failed to fill "+fixedRole.String()+" box", "location", w.plan.Fixed, "error", err)

		return fmt.Errorf("failed to fill %s box: %w", fixedRole, err)
	}

	summary, err := w.processList(ctx, dir)
	if err != nil {
		return err
	}

	if err := w.export(ctx, w.plan.OutputPath()); err != nil {
		return err
	}

	if w.summaryOut != nil {
		summary.Render(w.summaryOut)
	}

	logger.Info("finished",
		"rows", summary.Total(),
		"found", summary.Count(gmaps.TripFound),
		"unreachable", summary.Count(gmaps.TripUnreachable),
		"timed_out", summary.Count(gmaps.TripTimedOut),
		"duration", time.Now().UTC().Sub(t0).String(),
	)

	return nil
}

func (w *filerunner) directions(page gmaps.Page) *gmaps.Directions {
	opts := []gmaps.DirectionsOptions{
		gmaps.WithURL(w.cfg.DirectionsURL),
		gmaps.WithSelectors(w.selectors),
		gmaps.WithWaitTime(w.cfg.WaitTime),
	}

	if w.cfg.BlockStyles {
		opts = append(opts, gmaps.WithBlockStyles())
	}

	return gmaps.NewDirections(page, opts...)
}

// processList streams every location of the list through the page and
// writes one row per location. Writers are closed before it returns.
func (w *filerunner) processList(ctx context.Context, dir *gmaps.Directions) (_ *Summary, err error) {
	rowRole := w.plan.RowRole()

	logger.Info("reading "+rowRole.String()+"s", "path", w.plan.ListPath)

	locations, err := runner.OpenLocations(w.plan.ListPath)
	if err != nil {
		return nil, err
	}
	defer locations.Close()

	writers, err := w.writers(ctx)
	if err != nil {
		return nil, err
	}

	defer func() {
		for _, wr := range writers {
			if cerr := closeWriter(wr, err); cerr != nil && err == nil {
				err = cerr
			}
		}
	}()

	summary := NewSummary()

	for {
		pos, location, err := locations.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, err
		}

		res, err := w.processRow(ctx, dir, pos, location)
		if err != nil {
			return nil, err
		}

		for _, wr := range writers {
			if err := wr.Write(ctx, &res); err != nil {
				return nil, err
			}
		}

		logger.Info("trip",
			"location", res.Location,
			"status", res.Status.String(),
			"distance_mi", logValue(res.DistanceMi),
			"time_min", logValue(res.TimeMin),
		)

		summary.Add(res)
	}

	return summary, nil
}

// failer is implemented by writers that record how a run ended.
type failer interface {
	Fail(cause error) error
}

// closeWriter closes wr, or marks it failed when the run stopped on runErr.
func closeWriter(wr ResultWriter, runErr error) error {
	if f, ok := wr.(failer); ok && runErr != nil {
		return f.Fail(runErr)
	}

	return wr.Close()
}

func (w *filerunner) writers(ctx context.Context) ([]ResultWriter, error) {
	out := w.plan.OutputPath()

	logger.Info("writing results", "path", out)

	csvWriter, err := NewCsvWriter(out)
	if err != nil {
		return nil, err
	}

	writers := []ResultWriter{csvWriter}

	if w.store == nil {
		return writers, nil
	}

	rw, err := w.store.NewRun(ctx, store.Run{
		Mode:       w.plan.Mode.String(),
		Fixed:      w.plan.Fixed,
		ListPath:   w.plan.ListPath,
		OutputPath: out,
	})
	if err != nil {
		_ = csvWriter.Close()

		return nil, err
	}

	logger.Info("recording run", "run_id", rw.RunID())

	return append(writers, rw), nil
}

func (w *filerunner) processRow(ctx context.Context, dir *gmaps.Directions, pos int, location string) (gmaps.TripResult, error) {
	role := w.plan.RowRole()

	if err := dir.FillSearchBox(ctx, role, location); err != nil {
		if !errors.Is(err, gmaps.ErrSearchBoxNotFound) || w.cfg.RowFillPolicy == runner.RowFillAbort {
			return gmaps.TripResult{}, fmt.Errorf("failed to fill %s box for %q: %w", role, location, err)
		}

		logger.Debug("continuing after failed fill", "location", location, "policy", w.cfg.RowFillPolicy)
	}

	trip, err := dir.ReadTrip(ctx)
	if err != nil {
		return gmaps.TripResult{}, fmt.Errorf("failed to read trip for %q: %w", location, err)
	}

	res, err := gmaps.NewTripResult(pos, location, trip)
	if err != nil {
		return res, fmt.Errorf("failed to parse trip for %q: %w", location, err)
	}

	return res, nil
}

// export writes the optional workbook and uploads every produced file.
func (w *filerunner) export(ctx context.Context, csvPath string) error {
	files := []string{csvPath}

	if w.cfg.XLSX {
		xlsxPath := export.XLSXName(csvPath)
		if err := export.WriteXLSX(csvPath, xlsxPath); err != nil {
			return err
		}

		logger.Info("wrote workbook", "path", xlsxPath)

		files = append(files, xlsxPath)
	}

	if w.uploader == nil {
		return nil
	}

	egroup, ctx := errgroup.WithContext(ctx)

	for _, f := range files {
		egroup.Go(func() error {
			if err := w.uploader.Upload(ctx, f); err != nil {
				return err
			}

			logger.Info("uploaded", "path", f)

			return nil
		})
	}

	return egroup.Wait()
}

func logValue[T any](v *T) any {
	if v == nil {
		return absentValue
	}

	return *v
}
