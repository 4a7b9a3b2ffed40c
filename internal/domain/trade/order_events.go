package trade

import (
	"github.com/envio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated          = "OrderCreated"
	EventTypeOrderPaymentValidated = "OrderPaymentValidated"
	EventTypeOrderPaymentRejected  = "OrderPaymentRejected"
	EventTypeOrderShipped          = "OrderShipped"
	EventTypeOrderCompleted        = "OrderCompleted"
	EventTypeOrderCancelled        = "OrderCancelled"
)

// OrderCreatedEvent is raised when a new order is created at checkout
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID           uuid.UUID       `json:"order_id"`
	OrderNumber       string          `json:"order_number"`
	UserID            uuid.UUID       `json:"user_id"`
	PayableAmount     decimal.Decimal `json:"payable_amount"`
	AssignedAccountID *uuid.UUID      `json:"assigned_account_id,omitempty"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, order.ID),
		OrderID:           order.ID,
		OrderNumber:       order.OrderNumber,
		UserID:            order.UserID,
		PayableAmount:     order.PayableAmount,
		AssignedAccountID: order.AssignedAccountID,
	}
}

// EventType returns the event type name
func (e *OrderCreatedEvent) EventType() string {
	return EventTypeOrderCreated
}

// OrderPaymentValidatedEvent is raised when the payment is reconciled
// against the assigned collection account
type OrderPaymentValidatedEvent struct {
	shared.BaseDomainEvent
	OrderID           uuid.UUID       `json:"order_id"`
	OrderNumber       string          `json:"order_number"`
	UserID            uuid.UUID       `json:"user_id"`
	PayableAmount     decimal.Decimal `json:"payable_amount"`
	AssignedAccountID *uuid.UUID      `json:"assigned_account_id,omitempty"`
}

// NewOrderPaymentValidatedEvent creates a new OrderPaymentValidatedEvent
func NewOrderPaymentValidatedEvent(order *Order) *OrderPaymentValidatedEvent {
	return &OrderPaymentValidatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeOrderPaymentValidated, AggregateTypeOrder, order.ID),
		OrderID:           order.ID,
		OrderNumber:       order.OrderNumber,
		UserID:            order.UserID,
		PayableAmount:     order.PayableAmount,
		AssignedAccountID: order.AssignedAccountID,
	}
}

// EventType returns the event type name
func (e *OrderPaymentValidatedEvent) EventType() string {
	return EventTypeOrderPaymentValidated
}

// OrderPaymentRejectedEvent is raised when reconciliation fails
type OrderPaymentRejectedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	UserID      uuid.UUID `json:"user_id"`
	Reason      string    `json:"reason"`
}

// NewOrderPaymentRejectedEvent creates a new OrderPaymentRejectedEvent
func NewOrderPaymentRejectedEvent(order *Order) *OrderPaymentRejectedEvent {
	return &OrderPaymentRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaymentRejected, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		UserID:          order.UserID,
		Reason:          order.RejectionReason,
	}
}

// EventType returns the event type name
func (e *OrderPaymentRejectedEvent) EventType() string {
	return EventTypeOrderPaymentRejected
}

// OrderShippedEvent is raised when the order is handed to the carrier
type OrderShippedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	UserID      uuid.UUID `json:"user_id"`
}

// NewOrderShippedEvent creates a new OrderShippedEvent
func NewOrderShippedEvent(order *Order) *OrderShippedEvent {
	return &OrderShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderShipped, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		UserID:          order.UserID,
	}
}

// EventType returns the event type name
func (e *OrderShippedEvent) EventType() string {
	return EventTypeOrderShipped
}

// OrderCompletedEvent is raised when the order closes. The tier
// reclassification handler consumes it.
type OrderCompletedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	UserID      uuid.UUID `json:"user_id"`
}

// NewOrderCompletedEvent creates a new OrderCompletedEvent
func NewOrderCompletedEvent(order *Order) *OrderCompletedEvent {
	return &OrderCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCompleted, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		UserID:          order.UserID,
	}
}

// EventType returns the event type name
func (e *OrderCompletedEvent) EventType() string {
	return EventTypeOrderCompleted
}

// OrderCancelledEvent is raised when the order is cancelled
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	UserID      uuid.UUID `json:"user_id"`
	Reason      string    `json:"reason"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(order *Order) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		UserID:          order.UserID,
		Reason:          order.CancelReason,
	}
}

// EventType returns the event type name
func (e *OrderCancelledEvent) EventType() string {
	return EventTypeOrderCancelled
}
