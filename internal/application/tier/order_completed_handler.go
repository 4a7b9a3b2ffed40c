package tier

import (
	"context"
	"fmt"

	"github.com/envio/backend/internal/domain/shared"
	"github.com/envio/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// OrderCompletedHandler recomputes a user's tier when one of their orders
// completes
type OrderCompletedHandler struct {
	tierService *TierService
	logger      *zap.Logger
}

// NewOrderCompletedHandler creates a new handler for order completed events
func NewOrderCompletedHandler(tierService *TierService, logger *zap.Logger) *OrderCompletedHandler {
	return &OrderCompletedHandler{
		tierService: tierService,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderCompletedHandler) EventTypes() []string {
	return []string{trade.EventTypeOrderCompleted}
}

// Handle recomputes the tier of the order's owner
func (h *OrderCompletedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	completedEvent, ok := event.(*trade.OrderCompletedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			trade.EventTypeOrderCompleted, event.EventType())
	}

	result, err := h.tierService.Recompute(ctx, completedEvent.UserID)
	if err != nil {
		h.logger.Error("tier recompute failed after order completion",
			zap.String("order_id", completedEvent.OrderID.String()),
			zap.String("user_id", completedEvent.UserID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to recompute tier: %w", err)
	}

	if result.Changed {
		h.logger.Info("tier changed after order completion",
			zap.String("user_id", completedEvent.UserID.String()),
			zap.String("old_tier", result.OldTier),
			zap.String("new_tier", result.NewTier))
	}
	return nil
}

// Ensure OrderCompletedHandler implements shared.EventHandler
var _ shared.EventHandler = (*OrderCompletedHandler)(nil)
