package fake

import (
	"context"
	"time"

	"github.com/bonial-oss/page-monitor-bot/pkg/driver"
	"github.com/stretchr/testify/mock"
)

// Session is a fake session that can be used in unit tests.
type Session struct {
	mock.Mock
}

// Navigate implements driver.Session.
func (s *Session) Navigate(url string, timeout time.Duration) error {
	args := s.Called(url, timeout)

	return args.Error(0)
}

// WaitForElement implements driver.Session.
func (s *Session) WaitForElement(selector string, timeout time.Duration) error {
	args := s.Called(selector, timeout)

	return args.Error(0)
}

// TypeInto implements driver.Session.
func (s *Session) TypeInto(selector, text string) error {
	args := s.Called(selector, text)

	return args.Error(0)
}

// Click implements driver.Session.
func (s *Session) Click(selector string) error {
	args := s.Called(selector)

	return args.Error(0)
}

// ReadContent implements driver.Session.
func (s *Session) ReadContent() (string, error) {
	args := s.Called()

	return args.String(0), args.Error(1)
}

// Close implements driver.Session.
func (s *Session) Close() error {
	args := s.Called()

	return args.Error(0)
}

// Opener is a fake opener that can be used in unit tests.
type Opener struct {
	mock.Mock
}

// Open implements driver.Opener.
func (o *Opener) Open(ctx context.Context) (driver.Session, error) {
	args := o.Called(ctx)
	if obj, ok := args.Get(0).(driver.Session); ok {
		return obj, args.Error(1)
	}

	return nil, args.Error(1)
}
