package models

import (
	"encoding/json"
	"time"

	"github.com/envio/backend/internal/domain/audit"
	"github.com/google/uuid"
)

// AuditEntryModel is the persistence model for audit log entries. The table
// is append-only; rows are never updated or deleted (enforced by a REVOKE in
// the schema migration).
type AuditEntryModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	Action      audit.Action    `gorm:"type:varchar(10);not null"`
	EntityTable string          `gorm:"type:varchar(100);not null;index:idx_audit_entity,priority:1"`
	EntityID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_audit_entity,priority:2"`
	ActorID     *uuid.UUID      `gorm:"type:uuid;index"`
	PriorState  json.RawMessage `gorm:"type:jsonb"`
	PostState   json.RawMessage `gorm:"type:jsonb"`
	Reason      string          `gorm:"type:varchar(500)"`
	CreatedAt   time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AuditEntryModel) TableName() string {
	return "audit_entries"
}

// ToDomain converts the persistence model to a domain audit Entry.
func (m *AuditEntryModel) ToDomain() *audit.Entry {
	return &audit.Entry{
		ID:          m.ID,
		Action:      m.Action,
		EntityTable: m.EntityTable,
		EntityID:    m.EntityID,
		ActorID:     m.ActorID,
		PriorState:  m.PriorState,
		PostState:   m.PostState,
		Reason:      m.Reason,
		CreatedAt:   m.CreatedAt,
	}
}

// AuditEntryModelFromDomain creates a persistence model from a domain Entry.
func AuditEntryModelFromDomain(entry *audit.Entry) *AuditEntryModel {
	return &AuditEntryModel{
		ID:          entry.ID,
		Action:      entry.Action,
		EntityTable: entry.EntityTable,
		EntityID:    entry.EntityID,
		ActorID:     entry.ActorID,
		PriorState:  entry.PriorState,
		PostState:   entry.PostState,
		Reason:      entry.Reason,
		CreatedAt:   entry.CreatedAt,
	}
}
