package tier

import (
	"time"

	"github.com/envio/backend/internal/domain/tier"
	"github.com/google/uuid"
)

// ManualAssignRequest is the operator payload for pinning a user's tier
type ManualAssignRequest struct {
	Tier   string `json:"tier" binding:"required"`
	Reason string `json:"reason"`
}

// RecomputeResult reports the outcome of a reclassification
type RecomputeResult struct {
	Changed          bool   `json:"changed"`
	OldTier          string `json:"old_tier"`
	NewTier          string `json:"new_tier"`
	InteractionCount int64  `json:"interaction_count"`
}

// AssignmentResponse is the API representation of a tier assignment
type AssignmentResponse struct {
	UserID           uuid.UUID  `json:"user_id"`
	Tier             string     `json:"tier"`
	Source           string     `json:"source"`
	AssignedBy       *uuid.UUID `json:"assigned_by,omitempty"`
	Reason           string     `json:"reason,omitempty"`
	InteractionCount int64      `json:"interaction_count"`
	AssignedAt       time.Time  `json:"assigned_at"`
}

// HistoryEntryResponse is the API representation of one history record
type HistoryEntryResponse struct {
	Tier       string     `json:"tier"`
	Source     string     `json:"source"`
	AssignedBy *uuid.UUID `json:"assigned_by,omitempty"`
	Reason     string     `json:"reason,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ToAssignmentResponse converts a domain assignment to its API representation
func ToAssignmentResponse(a *tier.Assignment) AssignmentResponse {
	return AssignmentResponse{
		UserID:           a.UserID,
		Tier:             a.Tier.String(),
		Source:           string(a.Source),
		AssignedBy:       a.AssignedBy,
		Reason:           a.Reason,
		InteractionCount: a.InteractionCount,
		AssignedAt:       a.AssignedAt,
	}
}

// ToHistoryEntryResponses converts domain history records
func ToHistoryEntryResponses(entries []*tier.HistoryEntry) []HistoryEntryResponse {
	responses := make([]HistoryEntryResponse, len(entries))
	for i, entry := range entries {
		responses[i] = HistoryEntryResponse{
			Tier:       entry.Tier.String(),
			Source:     string(entry.Source),
			AssignedBy: entry.AssignedBy,
			Reason:     entry.Reason,
			CreatedAt:  entry.CreatedAt,
		}
	}
	return responses
}
