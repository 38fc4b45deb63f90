package browser

import (
	"time"

	"github.com/pkg/errors"
	"github.com/playwright-community/playwright-go"
)

// page is the part of playwright.Page a Session needs.
type page interface {
	Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error)
	WaitForSelector(selector string, options ...playwright.PageWaitForSelectorOptions) (playwright.ElementHandle, error)
	Fill(selector, value string, options ...playwright.PageFillOptions) error
	QuerySelector(selector string, options ...playwright.PageQuerySelectorOptions) (playwright.ElementHandle, error)
	Content() (string, error)
}

// Session is a single browser page. It implements driver.Session.
type Session struct {
	page    page
	closers []func() error
	closed  bool
}

// Navigate implements driver.Session. Navigation is considered done once the
// network is idle.
func (s *Session) Navigate(url string, timeout time.Duration) error {
	waitUntil := playwright.WaitUntilState("networkidle")

	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: &waitUntil,
		Timeout:   milliseconds(timeout),
	})
	if err != nil {
		return errors.Wrapf(err, "navigation to %s failed", url)
	}

	return nil
}

// WaitForElement implements driver.Session.
func (s *Session) WaitForElement(selector string, timeout time.Duration) error {
	state := playwright.WaitForSelectorState("visible")

	_, err := s.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		State:   &state,
		Timeout: milliseconds(timeout),
	})
	if err != nil {
		return errors.Wrapf(err, "waiting for %q failed", selector)
	}

	return nil
}

// TypeInto implements driver.Session.
func (s *Session) TypeInto(selector, text string) error {
	err := s.page.Fill(selector, text)
	if err != nil {
		return errors.Wrapf(err, "filling %q failed", selector)
	}

	return nil
}

// Click implements driver.Session. The element must already be present.
func (s *Session) Click(selector string) error {
	element, err := s.page.QuerySelector(selector)
	if err != nil {
		return errors.Wrapf(err, "selector query %q failed", selector)
	}

	if element == nil {
		return errors.Errorf("no element found matching selector %q", selector)
	}

	err = element.Click()
	if err != nil {
		return errors.Wrapf(err, "click on %q failed", selector)
	}

	return nil
}

// ReadContent implements driver.Session. It returns the serialized HTML of
// the page.
func (s *Session) ReadContent() (string, error) {
	content, err := s.page.Content()
	if err != nil {
		return "", errors.Wrap(err, "reading page content failed")
	}

	return content, nil
}

// Close implements driver.Session. It closes page, context and browser and
// stops the playwright driver. All resources are released even if one of
// them fails to close; the first error is returned. Subsequent calls are
// no-ops.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}

	s.closed = true

	var firstErr error

	for _, closer := range s.closers {
		if err := closer(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

func milliseconds(d time.Duration) *float64 {
	if d <= 0 {
		return nil
	}

	return playwright.Float(float64(d.Milliseconds()))
}
