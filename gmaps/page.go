package gmaps

import (
	"context"
	"errors"
	"time"
)

// ErrWaitTimeout is returned by a Page when a bounded wait expires before
// the element shows up.
var ErrWaitTimeout = errors.New("wait timed out")

// Page is the narrow set of DOM capabilities the directions scraper needs.
// Selectors are CSS selectors.
type Page interface {
	Navigate(ctx context.Context, url string) error
	// WaitAttached blocks until at least one element matches selector or
	// timeout elapses, in which case ErrWaitTimeout is returned.
	WaitAttached(ctx context.Context, selector string, timeout time.Duration) error
	// Fill clears the nth element matching selector, types value and
	// presses Enter.
	Fill(ctx context.Context, selector string, nth int, value string) error
	OuterHTML(ctx context.Context, selector string) (string, error)
	Exists(ctx context.Context, selector string) (bool, error)
	Eval(ctx context.Context, js string) error
}

// Session is a Page backed by a live browser that must be released.
type Session interface {
	Page
	Close() error
}
