package notification

import (
	"context"

	"github.com/envio/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LogDispatcher writes notifications to the application log. It stands in
// for a real delivery channel (email, push) in deployments that don't have
// one configured.
type LogDispatcher struct {
	logger *zap.Logger
}

// NewLogDispatcher creates a log-backed notification dispatcher
func NewLogDispatcher(logger *zap.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

// Dispatch logs the notification at info level
func (d *LogDispatcher) Dispatch(ctx context.Context, n shared.Notification) error {
	d.logger.Info("notification dispatched",
		zap.String("event_type", n.EventType),
		zap.String("entity_id", n.EntityID.String()),
		zap.String("recipient", n.Recipient.String()),
	)
	return nil
}

// Ensure LogDispatcher implements NotificationDispatcher
var _ shared.NotificationDispatcher = (*LogDispatcher)(nil)
