package tier

import (
	"context"
	"fmt"

	"github.com/envio/backend/internal/domain/remittance"
	"github.com/envio/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RemittanceDeliveredHandler recomputes a user's tier when one of their
// remittances is delivered. Delivery implies a validated payment, so every
// delivered remittance is an interaction.
type RemittanceDeliveredHandler struct {
	tierService *TierService
	logger      *zap.Logger
}

// NewRemittanceDeliveredHandler creates a new handler for remittance delivered events
func NewRemittanceDeliveredHandler(tierService *TierService, logger *zap.Logger) *RemittanceDeliveredHandler {
	return &RemittanceDeliveredHandler{
		tierService: tierService,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *RemittanceDeliveredHandler) EventTypes() []string {
	return []string{remittance.EventTypeRemittanceDelivered}
}

// Handle recomputes the tier of the remittance's sender
func (h *RemittanceDeliveredHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	deliveredEvent, ok := event.(*remittance.RemittanceDeliveredEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			remittance.EventTypeRemittanceDelivered, event.EventType())
	}

	result, err := h.tierService.Recompute(ctx, deliveredEvent.UserID)
	if err != nil {
		h.logger.Error("tier recompute failed after remittance delivery",
			zap.String("remittance_id", deliveredEvent.RemittanceID.String()),
			zap.String("user_id", deliveredEvent.UserID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to recompute tier: %w", err)
	}

	if result.Changed {
		h.logger.Info("tier changed after remittance delivery",
			zap.String("user_id", deliveredEvent.UserID.String()),
			zap.String("old_tier", result.OldTier),
			zap.String("new_tier", result.NewTier))
	}
	return nil
}

// Ensure RemittanceDeliveredHandler implements shared.EventHandler
var _ shared.EventHandler = (*RemittanceDeliveredHandler)(nil)
