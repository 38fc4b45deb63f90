package browser

import (
	"context"
	"io"

	"github.com/bonial-oss/page-monitor-bot/pkg/config"
	"github.com/pkg/errors"
	"github.com/playwright-community/playwright-go"
)

// Launcher starts Chromium sessions via playwright.
type Launcher struct {
	config config.BrowserConfig
}

// NewLauncher creates a new *Launcher with given BrowserConfig.
func NewLauncher(config config.BrowserConfig) *Launcher {
	return &Launcher{config: config}
}

// Launch installs the playwright driver and Chromium if needed, starts a
// browser and opens a blank page. Everything started up to a failure is torn
// down again before the error is returned.
func (l *Launcher) Launch(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts := &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}

	err := playwright.Install(opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to install playwright")
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to start playwright")
	}

	session := &Session{}
	session.closers = []func() error{pw.Stop}

	fail := func(err error, msg string) (*Session, error) {
		_ = session.Close()
		return nil, errors.Wrap(err, msg)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(l.config.Headless),
		Args:     l.config.Args,
	})
	if err != nil {
		return fail(err, "failed to launch browser")
	}

	session.closers = prepend(session.closers, func() error { return browser.Close() })

	browserContext, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  l.config.ViewportWidth,
			Height: l.config.ViewportHeight,
		},
	})
	if err != nil {
		return fail(err, "failed to create browser context")
	}

	session.closers = prepend(session.closers, func() error { return browserContext.Close() })

	p, err := browserContext.NewPage()
	if err != nil {
		return fail(err, "failed to create page")
	}

	session.closers = prepend(session.closers, func() error { return p.Close() })

	p.SetDefaultTimeout(float64(l.config.NavigationTimeout.Std().Milliseconds()))
	session.page = p

	return session, nil
}

// prepend puts closer first so that resources are closed in reverse order
// of creation.
func prepend(closers []func() error, closer func() error) []func() error {
	return append([]func() error{closer}, closers...)
}
