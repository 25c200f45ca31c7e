package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/gosom/multirouter/gmaps"
)

type rodSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
}

func openRod(ctx context.Context, opts Options) (*rodSession, error) {
	l := launcher.New().Headless(opts.Headless)

	u, err := l.Context(ctx).Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch chrome: %w", err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Kill()

		return nil, fmt.Errorf("failed to connect to chrome: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = b.Close()
		l.Kill()

		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &rodSession{launcher: l, browser: b, page: page}, nil
}

func (s *rodSession) Navigate(ctx context.Context, url string) error {
	p := s.page.Context(ctx)

	if err := p.Navigate(url); err != nil {
		return err
	}

	return p.WaitLoad()
}

func (s *rodSession) WaitAttached(ctx context.Context, selector string, timeout time.Duration) error {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, err := s.page.Context(tctx).Element(selector)
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return gmaps.ErrWaitTimeout
	}

	return err
}

func (s *rodSession) Fill(ctx context.Context, selector string, nth int, value string) error {
	els, err := s.page.Context(ctx).Elements(selector)
	if err != nil {
		return err
	}

	if nth >= len(els) {
		return fmt.Errorf("selector %s matched %d elements, need index %d", selector, len(els), nth)
	}

	box := els[nth]

	if err := box.SelectAllText(); err != nil {
		return err
	}

	if err := box.Input(value); err != nil {
		return err
	}

	return box.Type(input.Enter)
}

func (s *rodSession) OuterHTML(ctx context.Context, selector string) (string, error) {
	has, el, err := s.page.Context(ctx).Has(selector)
	if err != nil {
		return "", err
	}

	if !has {
		return "", fmt.Errorf("no element matches %s", selector)
	}

	return el.HTML()
}

func (s *rodSession) Exists(ctx context.Context, selector string) (bool, error) {
	has, _, err := s.page.Context(ctx).Has(selector)

	return has, err
}

func (s *rodSession) Eval(ctx context.Context, js string) error {
	_, err := s.page.Context(ctx).Eval(js)

	return err
}

func (s *rodSession) Close() error {
	err := s.browser.Close()
	s.launcher.Cleanup()

	return err
}
