package trade

import (
	"fmt"
	"time"

	"github.com/envio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the main lifecycle status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// orderTransitions is the closed transition table: illegal edges simply
// do not appear. DELIVERED keeps the explicit edge to COMPLETED but is
// otherwise terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:  {OrderStatusCompleted},
	OrderStatusCompleted:  {},
	OrderStatusCancelled:  {},
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further main-status transitions exist
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// PaymentStatus is the payment validation sub-state, independent of the
// main lifecycle dimension
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusValidated PaymentStatus = "VALIDATED"
	PaymentStatusRejected  PaymentStatus = "REJECTED"
)

// IsValid checks if the payment status is known
func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentStatusPending, PaymentStatusValidated, PaymentStatusRejected:
		return true
	}
	return false
}

// Order represents a customer goods order aggregate root. It is created on
// checkout submission with a collection account already assigned, and is
// mutated exclusively through lifecycle transition methods. Orders are never
// physically deleted; cancellation is a terminal status.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber        string
	UserID             uuid.UUID
	TotalAmount        decimal.Decimal
	ShippingCost       decimal.Decimal
	PayableAmount      decimal.Decimal // TotalAmount + ShippingCost
	Status             OrderStatus
	PaymentStatus      PaymentStatus
	AssignedAccountID  *uuid.UUID
	RejectionReason    string
	CancelReason       string
	PaymentValidatedAt *time.Time
	PaymentRejectedAt  *time.Time
	ProcessingAt       *time.Time
	ShippedAt          *time.Time
	DeliveredAt        *time.Time
	CompletedAt        *time.Time
	CancelledAt        *time.Time
}

// NewOrder creates a new order in PENDING status with payment pending
func NewOrder(orderNumber string, userID uuid.UUID, totalAmount, shippingCost decimal.Decimal, assignedAccountID uuid.UUID) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if totalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Order total must be positive")
	}
	if shippingCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_SHIPPING_COST", "Shipping cost cannot be negative")
	}
	if assignedAccountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Assigned account ID cannot be empty")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		UserID:            userID,
		TotalAmount:       totalAmount,
		ShippingCost:      shippingCost,
		PayableAmount:     totalAmount.Add(shippingCost),
		Status:            OrderStatusPending,
		PaymentStatus:     PaymentStatusPending,
		AssignedAccountID: &assignedAccountID,
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// ValidatePayment marks the payment as manually reconciled against the
// assigned collection account, unlocking the PROCESSING transition
func (o *Order) ValidatePayment() error {
	if o.Status != OrderStatusPending {
		return shared.ErrInvalidTransition
	}
	if o.PaymentStatus == PaymentStatusValidated {
		return shared.NewDomainError("PAYMENT_ALREADY_VALIDATED", "Payment has already been validated")
	}
	if o.PaymentStatus == PaymentStatusRejected {
		return shared.NewDomainError("PAYMENT_REJECTED", "Rejected payment cannot be validated")
	}

	now := time.Now()
	o.PaymentStatus = PaymentStatusValidated
	o.PaymentValidatedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderPaymentValidatedEvent(o))

	return nil
}

// RejectPayment records a failed reconciliation and halts progression
func (o *Order) RejectPayment(reason string) error {
	if o.Status != OrderStatusPending {
		return shared.ErrInvalidTransition
	}
	if o.PaymentStatus != PaymentStatusPending {
		return shared.NewDomainError("PAYMENT_NOT_PENDING", "Only a pending payment can be rejected")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Rejection reason is required")
	}

	now := time.Now()
	o.PaymentStatus = PaymentStatusRejected
	o.RejectionReason = reason
	o.PaymentRejectedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderPaymentRejectedEvent(o))

	return nil
}

// Process moves the order into fulfillment. Requires validated payment.
func (o *Order) Process() error {
	if !o.Status.CanTransitionTo(OrderStatusProcessing) {
		return shared.ErrInvalidTransition
	}
	if o.PaymentStatus != PaymentStatusValidated {
		return shared.ErrPaymentNotValidated
	}

	now := time.Now()
	o.Status = OrderStatusProcessing
	o.ProcessingAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// Ship marks the order as handed to the carrier
func (o *Order) Ship() error {
	if !o.Status.CanTransitionTo(OrderStatusShipped) {
		return shared.ErrInvalidTransition
	}

	now := time.Now()
	o.Status = OrderStatusShipped
	o.ShippedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderShippedEvent(o))

	return nil
}

// Deliver marks the order as received by the customer
func (o *Order) Deliver() error {
	if !o.Status.CanTransitionTo(OrderStatusDelivered) {
		return shared.ErrInvalidTransition
	}

	now := time.Now()
	o.Status = OrderStatusDelivered
	o.DeliveredAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// Complete closes the order. This is the interaction counted by tier
// reclassification.
func (o *Order) Complete() error {
	if !o.Status.CanTransitionTo(OrderStatusCompleted) {
		return shared.ErrInvalidTransition
	}

	now := time.Now()
	o.Status = OrderStatusCompleted
	o.CompletedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderCompletedEvent(o))

	return nil
}

// Cancel terminates the order from any non-terminal state
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.ErrInvalidTransition
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelReason = reason
	o.CancelledAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderCancelledEvent(o))

	return nil
}

// TransitionTo dispatches a requested main-status edge to the matching
// transition method, failing closed on anything not in the table
func (o *Order) TransitionTo(target OrderStatus, reason string) error {
	switch target {
	case OrderStatusProcessing:
		return o.Process()
	case OrderStatusShipped:
		return o.Ship()
	case OrderStatusDelivered:
		return o.Deliver()
	case OrderStatusCompleted:
		return o.Complete()
	case OrderStatusCancelled:
		return o.Cancel(reason)
	default:
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Unknown target status %q", target))
	}
}

// IsCompleted returns true if the order reached COMPLETED
func (o *Order) IsCompleted() bool {
	return o.Status == OrderStatusCompleted
}

// IsCancelled returns true if the order was cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// IsTerminal returns true if the order is in a terminal state
func (o *Order) IsTerminal() bool {
	return o.Status.IsTerminal()
}

// OrderSnapshot captures the auditable state of an order
type OrderSnapshot struct {
	ID              uuid.UUID     `json:"id"`
	OrderNumber     string        `json:"order_number"`
	Status          OrderStatus   `json:"status"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	PayableAmount   string        `json:"payable_amount"`
	RejectionReason string        `json:"rejection_reason,omitempty"`
	CancelReason    string        `json:"cancel_reason,omitempty"`
}

// Snapshot returns the auditable state of the order
func (o *Order) Snapshot() OrderSnapshot {
	return OrderSnapshot{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		Status:          o.Status,
		PaymentStatus:   o.PaymentStatus,
		PayableAmount:   o.PayableAmount.String(),
		RejectionReason: o.RejectionReason,
		CancelReason:    o.CancelReason,
	}
}
