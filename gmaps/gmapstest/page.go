// Package gmapstest provides an in memory directions page for tests.
package gmapstest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gosom/multirouter/gmaps"
)

// Route is what the fake page renders for a source/destination pair.
type Route struct {
	Distance    string
	Duration    string
	Unreachable bool
}

type Fill struct {
	Index int
	Value string
}

// Page emulates the directions page: two search boxes and a trip block
// that appears once both boxes hold a known pair. Unknown pairs behave like
// a page that never finishes loading.
type Page struct {
	mu sync.Mutex

	sel    gmaps.Selectors
	routes map[[2]string]Route

	// MissingSearchBox makes the nth wait for the search boxes (zero based)
	// time out.
	MissingSearchBox map[int]bool
	// NavigateErr is returned by Navigate.
	NavigateErr error

	boxes       [2]string
	searchWaits int

	Navigated []string
	Fills     []Fill
	Evals     []string
	Closed    bool
}

func New(sel gmaps.Selectors) *Page {
	return &Page{
		sel:              sel,
		routes:           make(map[[2]string]Route),
		MissingSearchBox: make(map[int]bool),
	}
}

func (p *Page) AddRoute(source, destination string, r Route) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.routes[[2]string{source, destination}] = r
}

func (p *Page) Navigate(_ context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.NavigateErr != nil {
		return p.NavigateErr
	}

	p.Navigated = append(p.Navigated, url)

	return nil
}

func (p *Page) WaitAttached(ctx context.Context, selector string, _ time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	switch selector {
	case p.sel.SearchBox:
		n := p.searchWaits
		p.searchWaits++

		if p.MissingSearchBox[n] {
			return gmaps.ErrWaitTimeout
		}

		return nil
	case p.sel.TripBlock:
		if r, ok := p.current(); ok && !r.Unreachable {
			return nil
		}

		return gmaps.ErrWaitTimeout
	default:
		return fmt.Errorf("unexpected wait for %s", selector)
	}
}

func (p *Page) Fill(_ context.Context, selector string, nth int, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if selector != p.sel.SearchBox {
		return fmt.Errorf("unexpected fill of %s", selector)
	}

	if nth < 0 || nth >= len(p.boxes) {
		return fmt.Errorf("no search box at index %d", nth)
	}

	p.boxes[nth] = value
	p.Fills = append(p.Fills, Fill{Index: nth, Value: value})

	return nil
}

func (p *Page) OuterHTML(_ context.Context, selector string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	r, ok := p.current()
	if selector != p.sel.TripBlock || !ok || r.Unreachable {
		return "", fmt.Errorf("no element matches %s", selector)
	}

	return fmt.Sprintf(
		`<div id="%s"><div class="%s"><div class="%s"><span>%s</span></div><div class="%s"> %s </div></div></div>`,
		name(p.sel.TripBlock), name(p.sel.TripNumbers),
		name(p.sel.TripDuration), r.Duration,
		name(p.sel.TripDistance), r.Distance,
	), nil
}

func (p *Page) Exists(_ context.Context, selector string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if selector != p.sel.ErrorText {
		return false, nil
	}

	r, ok := p.current()

	return ok && r.Unreachable, nil
}

func (p *Page) Eval(_ context.Context, js string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Evals = append(p.Evals, js)

	return nil
}

func (p *Page) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Closed = true

	return nil
}

// Boxes returns the current source and destination box values.
func (p *Page) Boxes() (string, string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.boxes[0], p.boxes[1]
}

func (p *Page) current() (Route, bool) {
	if p.boxes[0] == "" || p.boxes[1] == "" {
		return Route{}, false
	}

	r, ok := p.routes[p.boxes]

	return r, ok
}

// name strips the leading . or # of a simple selector.
func name(selector string) string {
	return strings.TrimLeft(selector, ".#")
}
