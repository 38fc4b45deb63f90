package fake

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// Notifier is a fake notifier that can be used in unit tests.
type Notifier struct {
	mock.Mock
}

// Notify implements notifier.Interface.
func (n *Notifier) Notify(ctx context.Context, message string) bool {
	args := n.Called(ctx, message)

	return args.Bool(0)
}
