package notify

import (
	"context"

	"github.com/jsseok/futseeker/logger"
)

// Notifier delivers a plain-text alert message. Callers must not depend on
// delivery succeeding; a failed notification never aborts an evaluation.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Fanout delivers a message to every notifier in turn. Individual failures
// are logged and do not stop the remaining notifiers.
type Fanout []Notifier

var _ Notifier = (Fanout)(nil)

// Notify implements Notifier
func (f Fanout) Notify(ctx context.Context, message string) error {
	for _, n := range f {
		if err := n.Notify(ctx, message); err != nil {
			logger.ForComponent("notify").Warn().Err(err).Msg("Notifier failed")
		}
	}
	return nil
}

// Log writes alerts to the application log. It keeps alerts visible when
// no webhook is configured.
type Log struct {
	log *logger.Logger
}

var _ Notifier = (*Log)(nil)

// NewLog creates a log-backed notifier
func NewLog() *Log {
	return &Log{log: logger.ForComponent("notify")}
}

// Notify implements Notifier
func (l *Log) Notify(ctx context.Context, message string) error {
	l.log.Info().Str("alert", message).Msg("Price alert")
	return nil
}
