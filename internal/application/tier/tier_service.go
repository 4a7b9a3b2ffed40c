package tier

import (
	"context"
	"errors"

	"github.com/envio/backend/internal/domain/remittance"
	"github.com/envio/backend/internal/domain/shared"
	"github.com/envio/backend/internal/domain/tier"
	"github.com/envio/backend/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RoleAdmin is the JWT role allowed to pin tiers manually
const RoleAdmin = "admin"

// TierService reclassifies users from their interaction history and lets
// operators pin a tier manually. Interaction count = completed orders plus
// remittances delivered with a validated payment.
type TierService struct {
	assignmentRepo tier.AssignmentRepository
	orderRepo      trade.OrderRepository
	remitRepo      remittance.Repository
	thresholds     tier.Thresholds
	uow            shared.UnitOfWork
	logger         *zap.Logger
}

// NewTierService creates a new TierService
func NewTierService(
	assignmentRepo tier.AssignmentRepository,
	orderRepo trade.OrderRepository,
	remitRepo remittance.Repository,
	thresholds tier.Thresholds,
	uow shared.UnitOfWork,
	logger *zap.Logger,
) *TierService {
	return &TierService{
		assignmentRepo: assignmentRepo,
		orderRepo:      orderRepo,
		remitRepo:      remitRepo,
		thresholds:     thresholds,
		uow:            uow,
		logger:         logger,
	}
}

// Recompute derives the user's tier from their interaction count and
// supersedes the stored assignment when it differs. Idempotent: running it
// twice in a row changes nothing the second time, and a manual assignment
// stays put until the user's interaction count moves.
func (s *TierService) Recompute(ctx context.Context, userID uuid.UUID) (*RecomputeResult, error) {
	interactions, err := s.interactionCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	computed := s.thresholds.Classify(interactions)

	current, err := s.assignmentRepo.FindByUser(ctx, userID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	// Never classified: regular is implicit, so only a higher tier is
	// worth materializing.
	if current == nil {
		if computed == tier.TierRegular {
			return &RecomputeResult{
				OldTier:          tier.TierRegular.String(),
				NewTier:          tier.TierRegular.String(),
				InteractionCount: interactions,
			}, nil
		}

		assignment, err := tier.NewAutomaticAssignment(userID, computed, interactions)
		if err != nil {
			return nil, err
		}
		if err := s.persist(ctx, assignment); err != nil {
			return nil, err
		}
		s.logger.Info("user classified",
			zap.String("user_id", userID.String()),
			zap.String("tier", computed.String()),
			zap.Int64("interactions", interactions))
		return &RecomputeResult{
			Changed:          true,
			OldTier:          tier.TierRegular.String(),
			NewTier:          computed.String(),
			InteractionCount: interactions,
		}, nil
	}

	if current.Tier == computed {
		return &RecomputeResult{
			OldTier:          current.Tier.String(),
			NewTier:          computed.String(),
			InteractionCount: interactions,
		}, nil
	}

	// A manual pin holds against reclassification until the user's
	// interactions actually move; only new activity may unpin it.
	if current.Source == tier.SourceManual && current.InteractionCount == interactions {
		s.logger.Debug("manual pin retained",
			zap.String("user_id", userID.String()),
			zap.String("pinned_tier", current.Tier.String()),
			zap.String("computed_tier", computed.String()),
			zap.Int64("interactions", interactions))
		return &RecomputeResult{
			OldTier:          current.Tier.String(),
			NewTier:          current.Tier.String(),
			InteractionCount: interactions,
		}, nil
	}

	oldTier := current.Tier
	if err := current.Supersede(computed, tier.SourceAutomatic, nil, "", interactions); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, current); err != nil {
		return nil, err
	}

	s.logger.Info("user reclassified",
		zap.String("user_id", userID.String()),
		zap.String("old_tier", oldTier.String()),
		zap.String("new_tier", computed.String()),
		zap.Int64("interactions", interactions))

	return &RecomputeResult{
		Changed:          true,
		OldTier:          oldTier.String(),
		NewTier:          computed.String(),
		InteractionCount: interactions,
	}, nil
}

// ManualAssign pins a user's tier. Only admins may call it; the assignment
// and a manual history entry are written even when the tier is unchanged,
// so the operator's intent is preserved in the trail.
func (s *TierService) ManualAssign(ctx context.Context, actorID uuid.UUID, actorRole string, userID uuid.UUID, req ManualAssignRequest) (*AssignmentResponse, error) {
	if actorRole != RoleAdmin {
		return nil, shared.ErrUnauthorized
	}
	target := tier.Tier(req.Tier)
	if !target.IsValid() {
		return nil, shared.ErrInvalidTier
	}

	// Record the interaction count at pin time; Recompute only unpins a
	// manual assignment once the count has moved past this value.
	interactions, err := s.interactionCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	current, err := s.assignmentRepo.FindByUser(ctx, userID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if current == nil {
		current, err = tier.NewManualAssignment(userID, target, actorID, req.Reason)
		if err != nil {
			return nil, err
		}
		current.InteractionCount = interactions
	} else {
		if err := current.Supersede(target, tier.SourceManual, &actorID, req.Reason, interactions); err != nil {
			return nil, err
		}
	}

	if err := s.persist(ctx, current); err != nil {
		return nil, err
	}

	s.logger.Info("tier pinned manually",
		zap.String("user_id", userID.String()),
		zap.String("tier", target.String()),
		zap.String("actor_id", actorID.String()))

	response := ToAssignmentResponse(current)
	return &response, nil
}

// GetByUser returns the user's current assignment; a never-classified user
// reads as regular with automatic provenance.
func (s *TierService) GetByUser(ctx context.Context, userID uuid.UUID) (*AssignmentResponse, error) {
	current, err := s.assignmentRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return &AssignmentResponse{
				UserID: userID,
				Tier:   tier.TierRegular.String(),
				Source: string(tier.SourceAutomatic),
			}, nil
		}
		return nil, err
	}
	response := ToAssignmentResponse(current)
	return &response, nil
}

// History returns the user's assignment trail, newest first
func (s *TierService) History(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]HistoryEntryResponse, int64, error) {
	page, err := s.assignmentRepo.HistoryByUser(ctx, userID, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToHistoryEntryResponses(page.Items), page.Total, nil
}

func (s *TierService) interactionCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	completedOrders, err := s.orderRepo.CountCompletedByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	deliveredRemits, err := s.remitRepo.CountDeliveredByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return completedOrders + deliveredRemits, nil
}

// persist writes the assignment and its history record in one transaction
func (s *TierService) persist(ctx context.Context, assignment *tier.Assignment) error {
	return s.uow.Execute(ctx, func(txCtx context.Context) error {
		if err := s.assignmentRepo.Save(txCtx, assignment); err != nil {
			return err
		}
		return s.assignmentRepo.AppendHistory(txCtx, assignment.ToHistoryEntry())
	})
}
