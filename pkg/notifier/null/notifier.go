package null

import (
	"context"

	"github.com/go-logr/logr"
)

// Notifier does not deliver anything but logs the message. This is useful
// for dry runs and testing.
type Notifier struct {
	log logr.Logger
}

// NewNotifier creates a new *Notifier.
func NewNotifier(log logr.Logger) *Notifier {
	return &Notifier{log: log.WithName("null-notifier")}
}

// Notify implements notifier.Interface.
func (n *Notifier) Notify(_ context.Context, message string) bool {
	n.log.Info("not sending notification", "message", message)

	return true
}
