// Package browser opens live browser sessions that satisfy gmaps.Session.
package browser

import (
	"context"
	"fmt"

	"github.com/gosom/multirouter/gmaps"
)

const (
	DriverPlaywright = "playwright"
	DriverRod        = "rod"
)

type Options struct {
	Driver   string
	Headless bool
}

// Open launches a browser with a single blank page. The caller owns the
// returned session and must Close it.
func Open(ctx context.Context, opts Options) (gmaps.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch opts.Driver {
	case DriverPlaywright, "":
		return openPlaywright(opts)
	case DriverRod:
		return openRod(ctx, opts)
	default:
		return nil, fmt.Errorf("unknown browser driver %q", opts.Driver)
	}
}
