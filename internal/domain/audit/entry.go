package audit

import (
	"encoding/json"
	"time"

	"github.com/envio/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Action describes the kind of mutation an audit entry records
type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// IsValid checks if the action is known
func (a Action) IsValid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// String returns the string representation of Action
func (a Action) String() string {
	return string(a)
}

// Entry is an immutable record of a single mutation to a protected entity.
// Entries are written exactly once and never updated or deleted; the store
// layer exposes no mutation path and the schema revokes UPDATE/DELETE.
type Entry struct {
	ID          uuid.UUID
	Action      Action
	EntityTable string
	EntityID    uuid.UUID
	ActorID     *uuid.UUID // nil for system-initiated mutations (e.g. the reset sweep)
	PriorState  json.RawMessage
	PostState   json.RawMessage
	Reason      string
	CreatedAt   time.Time
}

// NewEntry creates a new audit entry. prior and post are marshalled to JSON;
// either may be nil (creation has no prior state, deletion no post state).
func NewEntry(action Action, entityTable string, entityID uuid.UUID, actorID *uuid.UUID, prior, post any, reason string) (*Entry, error) {
	if !action.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTION", "Unknown audit action")
	}
	if entityTable == "" {
		return nil, shared.NewDomainError("INVALID_ENTITY_TABLE", "Entity table cannot be empty")
	}
	if entityID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ENTITY_ID", "Entity ID cannot be empty")
	}

	entry := &Entry{
		ID:          uuid.New(),
		Action:      action,
		EntityTable: entityTable,
		EntityID:    entityID,
		ActorID:     actorID,
		Reason:      reason,
		CreatedAt:   time.Now(),
	}

	if prior != nil {
		data, err := json.Marshal(prior)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_STATE", "Prior state cannot be serialized")
		}
		entry.PriorState = data
	}
	if post != nil {
		data, err := json.Marshal(post)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_STATE", "Post state cannot be serialized")
		}
		entry.PostState = data
	}

	return entry, nil
}
