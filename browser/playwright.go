package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/gosom/multirouter/gmaps"
)

type playwrightSession struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
}

func openPlaywright(opts Options) (*playwrightSession, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		_ = pw.Stop()

		return nil, fmt.Errorf("failed to launch chromium: %w", err)
	}

	page, err := b.NewPage()
	if err != nil {
		_ = b.Close()
		_ = pw.Stop()

		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &playwrightSession{pw: pw, browser: b, page: page}, nil
}

func (s *playwrightSession) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})

	return err
}

func (s *playwrightSession) WaitAttached(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if errors.Is(err, playwright.ErrTimeout) {
		return gmaps.ErrWaitTimeout
	}

	return err
}

func (s *playwrightSession) Fill(ctx context.Context, selector string, nth int, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	box := s.page.Locator(selector).Nth(nth)

	if err := box.Clear(); err != nil {
		return err
	}

	if err := box.Fill(value); err != nil {
		return err
	}

	return box.Press("Enter")
}

func (s *playwrightSession) OuterHTML(ctx context.Context, selector string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	v, err := s.page.Locator(selector).First().Evaluate("el => el.outerHTML", nil)
	if err != nil {
		return "", err
	}

	html, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("unexpected outerHTML type %T", v)
	}

	return html, nil
}

func (s *playwrightSession) Exists(ctx context.Context, selector string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	n, err := s.page.Locator(selector).Count()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (s *playwrightSession) Eval(ctx context.Context, js string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := s.page.Evaluate(js)

	return err
}

func (s *playwrightSession) Close() error {
	return errors.Join(s.browser.Close(), s.pw.Stop())
}
