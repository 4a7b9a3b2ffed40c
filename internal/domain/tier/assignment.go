package tier

import (
	"time"

	"github.com/envio/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Source distinguishes how an assignment came to be
type Source string

const (
	SourceAutomatic Source = "automatic"
	SourceManual    Source = "manual"
)

// Assignment is a user's current tier. Assignments are created lazily on a
// user's first reclassification and superseded in place, never deleted; the
// trail of supersessions lives in HistoryEntry records.
type Assignment struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	Tier             Tier
	Source           Source
	AssignedBy       *uuid.UUID // nil for automatic assignments
	Reason           string
	InteractionCount int64
	AssignedAt       time.Time
}

// HistoryEntry is an append-only record of one assignment change
type HistoryEntry struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Tier       Tier
	Source     Source
	AssignedBy *uuid.UUID
	Reason     string
	CreatedAt  time.Time
}

// NewAutomaticAssignment creates an assignment produced by reclassification
func NewAutomaticAssignment(userID uuid.UUID, t Tier, interactions int64) (*Assignment, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}
	if !t.IsValid() {
		return nil, shared.ErrInvalidTier
	}
	return &Assignment{
		ID:               uuid.New(),
		UserID:           userID,
		Tier:             t,
		Source:           SourceAutomatic,
		InteractionCount: interactions,
		AssignedAt:       time.Now(),
	}, nil
}

// NewManualAssignment creates an assignment made by an operator
func NewManualAssignment(userID uuid.UUID, t Tier, actorID uuid.UUID, reason string) (*Assignment, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}
	if !t.IsValid() {
		return nil, shared.ErrInvalidTier
	}
	if actorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACTOR_ID", "Actor ID cannot be empty")
	}
	return &Assignment{
		ID:         uuid.New(),
		UserID:     userID,
		Tier:       t,
		Source:     SourceManual,
		AssignedBy: &actorID,
		Reason:     reason,
		AssignedAt: time.Now(),
	}, nil
}

// Supersede replaces this assignment's tier in place, stamping the new
// source and provenance. The previous state is the caller's to record.
func (a *Assignment) Supersede(t Tier, source Source, assignedBy *uuid.UUID, reason string, interactions int64) error {
	if !t.IsValid() {
		return shared.ErrInvalidTier
	}
	a.Tier = t
	a.Source = source
	a.AssignedBy = assignedBy
	a.Reason = reason
	a.InteractionCount = interactions
	a.AssignedAt = time.Now()
	return nil
}

// ToHistoryEntry snapshots the assignment as an append-only history record
func (a *Assignment) ToHistoryEntry() *HistoryEntry {
	return &HistoryEntry{
		ID:         uuid.New(),
		UserID:     a.UserID,
		Tier:       a.Tier,
		Source:     a.Source,
		AssignedBy: a.AssignedBy,
		Reason:     a.Reason,
		CreatedAt:  a.AssignedAt,
	}
}
