package gmaps

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/gosom/multirouter/common/logger"
)

const DefaultWaitTime = 10 * time.Second

var ErrSearchBoxNotFound = errors.New("search boxes not found")

type DirectionsOptions func(*Directions)

// Directions drives the maps directions page through a Page.
type Directions struct {
	page        Page
	url         string
	selectors   Selectors
	waitTime    time.Duration
	blockStyles bool
}

func NewDirections(page Page, opts ...DirectionsOptions) *Directions {
	d := Directions{
		page:      page,
		url:       DefaultDirectionsURL,
		selectors: DefaultSelectors(),
		waitTime:  DefaultWaitTime,
	}

	for _, opt := range opts {
		opt(&d)
	}

	return &d
}

func WithURL(u string) DirectionsOptions {
	return func(d *Directions) {
		if u != "" {
			d.url = u
		}
	}
}

func WithSelectors(s Selectors) DirectionsOptions {
	return func(d *Directions) {
		d.selectors = s
	}
}

func WithWaitTime(t time.Duration) DirectionsOptions {
	return func(d *Directions) {
		if t > 0 {
			d.waitTime = t
		}
	}
}

func WithBlockStyles() DirectionsOptions {
	return func(d *Directions) {
		d.blockStyles = true
	}
}

// Open navigates to the directions page.
func (d *Directions) Open(ctx context.Context) error {
	if err := d.page.Navigate(ctx, d.url); err != nil {
		return fmt.Errorf("failed to open %s: %w", d.url, err)
	}

	if d.blockStyles {
		blockUnnecessaryResources(ctx, d.page)
	}

	return nil
}

// FillSearchBox types name into the box that belongs to role and submits it.
func (d *Directions) FillSearchBox(ctx context.Context, role Role, name string) error {
	err := d.page.WaitAttached(ctx, d.selectors.SearchBox, d.waitTime)
	if errors.Is(err, ErrWaitTimeout) {
		logger.Warn("failed to find search boxes", "role", role.String(), "location", name)

		return ErrSearchBoxNotFound
	}

	if err != nil {
		return err
	}

	if err := d.page.Fill(ctx, d.selectors.SearchBox, role.index(), name); err != nil {
		return fmt.Errorf("failed to fill %s box: %w", role, err)
	}

	return nil
}

// ReadTrip waits for the first trip block and extracts its distance and
// duration text. A missing block is reported through Trip.Status.
func (d *Directions) ReadTrip(ctx context.Context) (Trip, error) {
	err := d.page.WaitAttached(ctx, d.selectors.TripBlock, d.waitTime)
	if errors.Is(err, ErrWaitTimeout) {
		return d.missingTrip(ctx)
	}

	if err != nil {
		return Trip{}, err
	}

	html, err := d.page.OuterHTML(ctx, d.selectors.TripBlock)
	if err != nil {
		return Trip{}, fmt.Errorf("failed to read trip block: %w", err)
	}

	return d.parseTripBlock(html)
}

func (d *Directions) missingTrip(ctx context.Context) (Trip, error) {
	unreachable, err := d.page.Exists(ctx, d.selectors.ErrorText)
	if err != nil {
		return Trip{}, err
	}

	if unreachable {
		logger.Warn("destination is unreachable")

		return Trip{Status: TripUnreachable}, nil
	}

	logger.Warn("loading took too long", "wait", d.waitTime.String())

	return Trip{Status: TripTimedOut}, nil
}

func (d *Directions) parseTripBlock(html string) (Trip, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Trip{}, fmt.Errorf("failed to parse trip block: %w", err)
	}

	numbers := doc.Find(d.selectors.TripNumbers).First()
	if numbers.Length() == 0 {
		return Trip{}, fmt.Errorf("trip block has no %s element", d.selectors.TripNumbers)
	}

	distance := numbers.Find(d.selectors.TripDistance).First()
	duration := numbers.Find(d.selectors.TripDuration).First()

	if distance.Length() == 0 || duration.Length() == 0 {
		return Trip{}, fmt.Errorf("trip block is missing distance or duration")
	}

	return Trip{
		Status:       TripFound,
		DistanceText: strings.TrimSpace(distance.Text()),
		DurationText: strings.TrimSpace(duration.Text()),
	}, nil
}
