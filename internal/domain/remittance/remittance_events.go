package remittance

import (
	"github.com/envio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeRemittance = "Remittance"

// Event type constants
const (
	EventTypeRemittanceCreated          = "RemittanceCreated"
	EventTypeRemittancePaymentValidated = "RemittancePaymentValidated"
	EventTypeRemittancePaymentRejected  = "RemittancePaymentRejected"
	EventTypeRemittanceDelivered        = "RemittanceDelivered"
	EventTypeRemittanceCancelled        = "RemittanceCancelled"
)

// RemittanceCreatedEvent is raised when a new remittance is submitted
type RemittanceCreatedEvent struct {
	shared.BaseDomainEvent
	RemittanceID      uuid.UUID       `json:"remittance_id"`
	RemittanceNumber  string          `json:"remittance_number"`
	UserID            uuid.UUID       `json:"user_id"`
	AmountSent        decimal.Decimal `json:"amount_sent"`
	PayoutCurrency    string          `json:"payout_currency"`
	AssignedAccountID *uuid.UUID      `json:"assigned_account_id,omitempty"`
}

// NewRemittanceCreatedEvent creates a new RemittanceCreatedEvent
func NewRemittanceCreatedEvent(remit *Remittance) *RemittanceCreatedEvent {
	return &RemittanceCreatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeRemittanceCreated, AggregateTypeRemittance, remit.ID),
		RemittanceID:      remit.ID,
		RemittanceNumber:  remit.RemittanceNumber,
		UserID:            remit.UserID,
		AmountSent:        remit.AmountSent,
		PayoutCurrency:    remit.PayoutCurrency,
		AssignedAccountID: remit.AssignedAccountID,
	}
}

// EventType returns the event type name
func (e *RemittanceCreatedEvent) EventType() string {
	return EventTypeRemittanceCreated
}

// RemittancePaymentValidatedEvent is raised when the collection is reconciled
type RemittancePaymentValidatedEvent struct {
	shared.BaseDomainEvent
	RemittanceID      uuid.UUID       `json:"remittance_id"`
	RemittanceNumber  string          `json:"remittance_number"`
	UserID            uuid.UUID       `json:"user_id"`
	AmountSent        decimal.Decimal `json:"amount_sent"`
	AssignedAccountID *uuid.UUID      `json:"assigned_account_id,omitempty"`
}

// NewRemittancePaymentValidatedEvent creates a new RemittancePaymentValidatedEvent
func NewRemittancePaymentValidatedEvent(remit *Remittance) *RemittancePaymentValidatedEvent {
	return &RemittancePaymentValidatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeRemittancePaymentValidated, AggregateTypeRemittance, remit.ID),
		RemittanceID:      remit.ID,
		RemittanceNumber:  remit.RemittanceNumber,
		UserID:            remit.UserID,
		AmountSent:        remit.AmountSent,
		AssignedAccountID: remit.AssignedAccountID,
	}
}

// EventType returns the event type name
func (e *RemittancePaymentValidatedEvent) EventType() string {
	return EventTypeRemittancePaymentValidated
}

// RemittancePaymentRejectedEvent is raised when reconciliation fails
type RemittancePaymentRejectedEvent struct {
	shared.BaseDomainEvent
	RemittanceID     uuid.UUID `json:"remittance_id"`
	RemittanceNumber string    `json:"remittance_number"`
	UserID           uuid.UUID `json:"user_id"`
	Reason           string    `json:"reason"`
}

// NewRemittancePaymentRejectedEvent creates a new RemittancePaymentRejectedEvent
func NewRemittancePaymentRejectedEvent(remit *Remittance) *RemittancePaymentRejectedEvent {
	return &RemittancePaymentRejectedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeRemittancePaymentRejected, AggregateTypeRemittance, remit.ID),
		RemittanceID:     remit.ID,
		RemittanceNumber: remit.RemittanceNumber,
		UserID:           remit.UserID,
		Reason:           remit.RejectionReason,
	}
}

// EventType returns the event type name
func (e *RemittancePaymentRejectedEvent) EventType() string {
	return EventTypeRemittancePaymentRejected
}

// RemittanceDeliveredEvent is raised when the payout reaches the recipient.
// The tier reclassification handler consumes it.
type RemittanceDeliveredEvent struct {
	shared.BaseDomainEvent
	RemittanceID     uuid.UUID `json:"remittance_id"`
	RemittanceNumber string    `json:"remittance_number"`
	UserID           uuid.UUID `json:"user_id"`
}

// NewRemittanceDeliveredEvent creates a new RemittanceDeliveredEvent
func NewRemittanceDeliveredEvent(remit *Remittance) *RemittanceDeliveredEvent {
	return &RemittanceDeliveredEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeRemittanceDelivered, AggregateTypeRemittance, remit.ID),
		RemittanceID:     remit.ID,
		RemittanceNumber: remit.RemittanceNumber,
		UserID:           remit.UserID,
	}
}

// EventType returns the event type name
func (e *RemittanceDeliveredEvent) EventType() string {
	return EventTypeRemittanceDelivered
}

// RemittanceCancelledEvent is raised when the remittance is cancelled
type RemittanceCancelledEvent struct {
	shared.BaseDomainEvent
	RemittanceID     uuid.UUID `json:"remittance_id"`
	RemittanceNumber string    `json:"remittance_number"`
	UserID           uuid.UUID `json:"user_id"`
	Reason           string    `json:"reason"`
}

// NewRemittanceCancelledEvent creates a new RemittanceCancelledEvent
func NewRemittanceCancelledEvent(remit *Remittance) *RemittanceCancelledEvent {
	return &RemittanceCancelledEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeRemittanceCancelled, AggregateTypeRemittance, remit.ID),
		RemittanceID:     remit.ID,
		RemittanceNumber: remit.RemittanceNumber,
		UserID:           remit.UserID,
		Reason:           remit.CancelReason,
	}
}

// EventType returns the event type name
func (e *RemittanceCancelledEvent) EventType() string {
	return EventTypeRemittanceCancelled
}
