package notifier

import (
	"context"

	"github.com/bonial-oss/page-monitor-bot/pkg/config"
	"github.com/bonial-oss/page-monitor-bot/pkg/notifier/null"
	"github.com/bonial-oss/page-monitor-bot/pkg/notifier/telegram"
	"github.com/go-logr/logr"
	"github.com/pkg/errors"
)

// Interface is the interface for a notifier.
type Interface interface {
	// Notify delivers message and reports whether delivery succeeded. It
	// must not panic or escalate delivery failures in any other way.
	Notify(ctx context.Context, message string) bool
}

// New creates a new notifier by name. Returns an error if the named notifier
// is not supported or cannot be set up with c.
func New(name string, c config.TelegramConfig, log logr.Logger) (Interface, error) {
	switch name {
	case config.NotifierTelegram:
		n, err := telegram.NewNotifier(c, log)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to set up telegram notifier")
		}

		return n, nil
	case config.NotifierNull:
		return null.NewNotifier(log), nil
	default:
		return nil, errors.Errorf("unsupported notifier %q", name)
	}
}
