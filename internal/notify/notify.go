// Package notify delivers password reset links to users. The provider only
// emits the event; mail delivery belongs to whatever consumes it.
package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/atinyakov/TodoKeeper/internal/models"
)

// LogNotifier writes reset events to the log. It is used when no broker is
// configured.
type LogNotifier struct {
	log *zap.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// NotifyPasswordReset logs the reset token for the given address.
func (n *LogNotifier) NotifyPasswordReset(_ context.Context, ev models.PasswordReset) error {
	n.log.Info("password reset requested",
		zap.String("email", ev.Email),
		zap.String("token", ev.Token),
		zap.Time("expires_at", ev.ExpiresAt),
	)
	return nil
}
