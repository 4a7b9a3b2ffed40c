package models

import (
	"time"

	"github.com/envio/backend/internal/domain/tier"
	"github.com/google/uuid"
)

// TierAssignmentModel is the persistence model for the current tier
// assignment. One row per user.
type TierAssignmentModel struct {
	ID               uuid.UUID   `gorm:"type:uuid;primary_key"`
	UserID           uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex"`
	Tier             tier.Tier   `gorm:"type:varchar(20);not null"`
	Source           tier.Source `gorm:"type:varchar(20);not null"`
	AssignedBy       *uuid.UUID  `gorm:"type:uuid"`
	Reason           string      `gorm:"type:varchar(500)"`
	InteractionCount int64       `gorm:"not null;default:0"`
	AssignedAt       time.Time   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TierAssignmentModel) TableName() string {
	return "tier_assignments"
}

// ToDomain converts the persistence model to a domain Assignment.
func (m *TierAssignmentModel) ToDomain() *tier.Assignment {
	return &tier.Assignment{
		ID:               m.ID,
		UserID:           m.UserID,
		Tier:             m.Tier,
		Source:           m.Source,
		AssignedBy:       m.AssignedBy,
		Reason:           m.Reason,
		InteractionCount: m.InteractionCount,
		AssignedAt:       m.AssignedAt,
	}
}

// TierAssignmentModelFromDomain creates a persistence model from a domain Assignment.
func TierAssignmentModelFromDomain(assignment *tier.Assignment) *TierAssignmentModel {
	return &TierAssignmentModel{
		ID:               assignment.ID,
		UserID:           assignment.UserID,
		Tier:             assignment.Tier,
		Source:           assignment.Source,
		AssignedBy:       assignment.AssignedBy,
		Reason:           assignment.Reason,
		InteractionCount: assignment.InteractionCount,
		AssignedAt:       assignment.AssignedAt,
	}
}

// TierHistoryModel is the persistence model for the tier assignment history
// trail. Rows are append-only.
type TierHistoryModel struct {
	ID         uuid.UUID   `gorm:"type:uuid;primary_key"`
	UserID     uuid.UUID   `gorm:"type:uuid;not null;index"`
	Tier       tier.Tier   `gorm:"type:varchar(20);not null"`
	Source     tier.Source `gorm:"type:varchar(20);not null"`
	AssignedBy *uuid.UUID  `gorm:"type:uuid"`
	Reason     string      `gorm:"type:varchar(500)"`
	CreatedAt  time.Time   `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (TierHistoryModel) TableName() string {
	return "tier_assignment_history"
}

// ToDomain converts the persistence model to a domain HistoryEntry.
func (m *TierHistoryModel) ToDomain() *tier.HistoryEntry {
	return &tier.HistoryEntry{
		ID:         m.ID,
		UserID:     m.UserID,
		Tier:       m.Tier,
		Source:     m.Source,
		AssignedBy: m.AssignedBy,
		Reason:     m.Reason,
		CreatedAt:  m.CreatedAt,
	}
}

// TierHistoryModelFromDomain creates a persistence model from a domain HistoryEntry.
func TierHistoryModelFromDomain(entry *tier.HistoryEntry) *TierHistoryModel {
	return &TierHistoryModel{
		ID:         entry.ID,
		UserID:     entry.UserID,
		Tier:       entry.Tier,
		Source:     entry.Source,
		AssignedBy: entry.AssignedBy,
		Reason:     entry.Reason,
		CreatedAt:  entry.CreatedAt,
	}
}
