package notifier

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Notifier delivers a text message to the operator.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// NoopNotifier logs messages instead of sending them, used when Telegram is not configured.
type NoopNotifier struct{}

func NewNoopNotifier() *NoopNotifier { return &NoopNotifier{} }

func (n *NoopNotifier) Notify(_ context.Context, text string) error {
	log.Debug().Str("text", text).Msg("notification (telegram disabled)")
	return nil
}
