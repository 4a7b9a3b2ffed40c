package audit

import (
	"context"
	"time"

	"github.com/envio/backend/internal/domain/audit"
	"github.com/envio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuditService exposes the read side of the audit trail and a direct Record
// entry point for callers outside the lifecycle services.
type AuditService struct {
	auditLog audit.Log
	logger   *zap.Logger
}

// NewAuditService creates a new AuditService
func NewAuditService(auditLog audit.Log, logger *zap.Logger) *AuditService {
	return &AuditService{
		auditLog: auditLog,
		logger:   logger,
	}
}

// Record appends an audit entry and returns its ID
func (s *AuditService) Record(ctx context.Context, action audit.Action, entityTable string, entityID uuid.UUID, actorID *uuid.UUID, prior, post any, reason string) (uuid.UUID, error) {
	entry, err := audit.NewEntry(action, entityTable, entityID, actorID, prior, post, reason)
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.auditLog.Record(ctx, entry); err != nil {
		s.logger.Error("audit write failed",
			zap.String("entity_table", entityTable),
			zap.String("entity_id", entityID.String()),
			zap.Error(err))
		return uuid.Nil, shared.ErrAuditWriteFailure
	}
	return entry.ID, nil
}

// History returns the trail for one entity, newest first
func (s *AuditService) History(ctx context.Context, entityTable string, entityID uuid.UUID, filter shared.Filter) ([]EntryResponse, int64, error) {
	page, err := s.auditLog.History(ctx, entityTable, entityID, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToEntryResponses(page.Items), page.Total, nil
}

// ByActor returns the entries one actor recorded, newest first
func (s *AuditService) ByActor(ctx context.Context, actorID uuid.UUID, filter shared.Filter) ([]EntryResponse, int64, error) {
	page, err := s.auditLog.ByActor(ctx, actorID, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToEntryResponses(page.Items), page.Total, nil
}

// EntryResponse is the API representation of an audit entry
type EntryResponse struct {
	ID          uuid.UUID  `json:"id"`
	Action      string     `json:"action"`
	EntityTable string     `json:"entity_table"`
	EntityID    uuid.UUID  `json:"entity_id"`
	ActorID     *uuid.UUID `json:"actor_id,omitempty"`
	PriorState  any        `json:"prior_state,omitempty"`
	PostState   any        `json:"post_state,omitempty"`
	Reason      string     `json:"reason,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToEntryResponses converts domain entries to their API representation
func ToEntryResponses(entries []*audit.Entry) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i, entry := range entries {
		responses[i] = EntryResponse{
			ID:          entry.ID,
			Action:      entry.Action.String(),
			EntityTable: entry.EntityTable,
			EntityID:    entry.EntityID,
			ActorID:     entry.ActorID,
			Reason:      entry.Reason,
			CreatedAt:   entry.CreatedAt,
		}
		if len(entry.PriorState) > 0 {
			responses[i].PriorState = entry.PriorState
		}
		if len(entry.PostState) > 0 {
			responses[i].PostState = entry.PostState
		}
	}
	return responses
}
