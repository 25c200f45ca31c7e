package gmaps

import (
	"context"

	"github.com/gosom/multirouter/common/logger"
)

// blockUnnecessaryResources removes the stylesheets already on the page.
// Class names stay in the DOM so selectors keep matching; only the visual
// layer goes away.
func blockUnnecessaryResources(ctx context.Context, page Page) {
	err := page.Eval(ctx, `() => {
		document.querySelectorAll('link[rel="stylesheet"], style').forEach(el => el.remove());
	}`)
	if err != nil {
		logger.Debug("failed to strip stylesheets", "error", err)
	}
}
