package browser

import (
	"errors"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeElement struct {
	playwright.ElementHandle

	clicks int
	err    error
}

func (e *fakeElement) Click(_ ...playwright.ElementHandleClickOptions) error {
	e.clicks++
	return e.err
}

type fakePage struct {
	gotoURL     string
	gotoOptions playwright.PageGotoOptions
	gotoErr     error

	waitSelector string
	waitOptions  playwright.PageWaitForSelectorOptions
	waitErr      error

	filled map[string]string

	elements map[string]*fakeElement

	content    string
	contentErr error
}

func (p *fakePage) Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error) {
	p.gotoURL = url
	p.gotoOptions = options[0]
	return nil, p.gotoErr
}

func (p *fakePage) WaitForSelector(selector string, options ...playwright.PageWaitForSelectorOptions) (playwright.ElementHandle, error) {
	p.waitSelector = selector
	p.waitOptions = options[0]
	return nil, p.waitErr
}

func (p *fakePage) Fill(selector, value string, _ ...playwright.PageFillOptions) error {
	if p.filled == nil {
		p.filled = make(map[string]string)
	}

	p.filled[selector] = value

	return nil
}

func (p *fakePage) QuerySelector(selector string, _ ...playwright.PageQuerySelectorOptions) (playwright.ElementHandle, error) {
	element, ok := p.elements[selector]
	if !ok {
		return nil, nil
	}

	return element, nil
}

func (p *fakePage) Content() (string, error) {
	return p.content, p.contentErr
}

func TestSession_Navigate(t *testing.T) {
	page := &fakePage{}
	s := &Session{page: page}

	require.NoError(t, s.Navigate("https://example.com", 15*time.Second))

	assert.Equal(t, "https://example.com", page.gotoURL)
	require.NotNil(t, page.gotoOptions.WaitUntil)
	assert.Equal(t, playwright.WaitUntilState("networkidle"), *page.gotoOptions.WaitUntil)
	require.NotNil(t, page.gotoOptions.Timeout)
	assert.Equal(t, 15000.0, *page.gotoOptions.Timeout)

	page.gotoErr = errors.New("timeout")

	err := s.Navigate("https://example.com", 0)
	require.Error(t, err)
	assert.Equal(t, "navigation to https://example.com failed: timeout", err.Error())
	assert.Nil(t, page.gotoOptions.Timeout)
}

func TestSession_WaitForElement(t *testing.T) {
	page := &fakePage{}
	s := &Session{page: page}

	require.NoError(t, s.WaitForElement("#dashboard-page", time.Second))

	assert.Equal(t, "#dashboard-page", page.waitSelector)
	require.NotNil(t, page.waitOptions.State)
	assert.Equal(t, playwright.WaitForSelectorState("visible"), *page.waitOptions.State)
	assert.Equal(t, 1000.0, *page.waitOptions.Timeout)

	page.waitErr = errors.New("timeout")
	assert.EqualError(t, s.WaitForElement("#dashboard-page", time.Second), `waiting for "#dashboard-page" failed: timeout`)
}

func TestSession_TypeInto(t *testing.T) {
	page := &fakePage{}
	s := &Session{page: page}

	require.NoError(t, s.TypeInto(`[name="email"]`, "test@example.com"))

	assert.Equal(t, map[string]string{`[name="email"]`: "test@example.com"}, page.filled)
}

func TestSession_Click(t *testing.T) {
	tests := []struct {
		name     string
		elements map[string]*fakeElement
		expected string
	}{
		{
			name:     "clicks existing element",
			elements: map[string]*fakeElement{"button": {}},
		},
		{
			name:     "fails if element is missing",
			expected: `no element found matching selector "button"`,
		},
		{
			name:     "fails if click fails",
			elements: map[string]*fakeElement{"button": {err: errors.New("detached")}},
			expected: `click on "button" failed: detached`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := &Session{page: &fakePage{elements: test.elements}}

			err := s.Click("button")
			if test.expected != "" {
				require.Error(t, err)
				assert.Equal(t, test.expected, err.Error())
			} else {
				require.NoError(t, err)
				assert.Equal(t, 1, test.elements["button"].clicks)
			}
		})
	}
}

func TestSession_ReadContent(t *testing.T) {
	page := &fakePage{content: "<html><body>Passport</body></html>"}
	s := &Session{page: page}

	content, err := s.ReadContent()
	require.NoError(t, err)
	assert.Equal(t, "<html><body>Passport</body></html>", content)

	page.contentErr = errors.New("target closed")

	_, err = s.ReadContent()
	assert.EqualError(t, err, "reading page content failed: target closed")
}

func TestSession_Close(t *testing.T) {
	var order []string

	closer := func(name string, err error) func() error {
		return func() error {
			order = append(order, name)
			return err
		}
	}

	s := &Session{}
	s.closers = []func() error{closer("driver", nil)}
	s.closers = prepend(s.closers, closer("browser", errors.New("browser gone")))
	s.closers = prepend(s.closers, closer("page", nil))

	err := s.Close()
	require.Error(t, err)
	assert.Equal(t, "browser gone", err.Error())
	assert.Equal(t, []string{"page", "browser", "driver"}, order)

	require.NoError(t, s.Close())
	assert.Len(t, order, 3)
}
