package driver

import (
	"context"
	"time"

	"github.com/bonial-oss/page-monitor-bot/pkg/config"
	"github.com/bonial-oss/page-monitor-bot/pkg/driver/browser"
	"github.com/pkg/errors"
)

// Session is an open browser page. Every method is a blocking call that
// returns an error if the step failed or timed out.
type Session interface {
	// Navigate opens url and waits until the page settled or timeout
	// elapsed.
	Navigate(url string, timeout time.Duration) error

	// WaitForElement waits until an element matching selector is visible.
	WaitForElement(selector string, timeout time.Duration) error

	// TypeInto enters text into the input matching selector.
	TypeInto(selector, text string) error

	// Click clicks the element matching selector. Must return an error if no
	// element matches.
	Click(selector string) error

	// ReadContent returns the current page content.
	ReadContent() (string, error)

	// Close releases the session and all browser resources behind it.
	Close() error
}

// Opener acquires new sessions.
type Opener interface {
	// Open starts a browser and returns a session on a blank page.
	Open(ctx context.Context) (Session, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(ctx context.Context) (Session, error)

// Open implements Opener.
func (f OpenerFunc) Open(ctx context.Context) (Session, error) {
	return f(ctx)
}

// New creates a new Opener by name. Returns an error if the named driver is
// not supported.
func New(name string, c config.BrowserConfig) (Opener, error) {
	switch name {
	case config.DriverPlaywright:
		launcher := browser.NewLauncher(c)

		return OpenerFunc(func(ctx context.Context) (Session, error) {
			session, err := launcher.Launch(ctx)
			if err != nil {
				return nil, err
			}

			return session, nil
		}), nil
	default:
		return nil, errors.Errorf("unsupported driver %q", name)
	}
}
