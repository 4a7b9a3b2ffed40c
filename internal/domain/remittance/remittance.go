package remittance

import (
	"fmt"
	"time"

	"github.com/envio/backend/internal/domain/shared"
	"github.com/envio/backend/internal/domain/shared/valueobject"
	"github.com/envio/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status aliases the shared lifecycle shape. Remittances walk the same
// status graph as orders; SHIPPED reads as "payout dispatched".
type Status = trade.OrderStatus

const (
	StatusPending    = trade.OrderStatusPending
	StatusProcessing = trade.OrderStatusProcessing
	StatusShipped    = trade.OrderStatusShipped
	StatusDelivered  = trade.OrderStatusDelivered
	StatusCompleted  = trade.OrderStatusCompleted
	StatusCancelled  = trade.OrderStatusCancelled
)

// Recipient identifies who receives the payout on the destination side
type Recipient struct {
	Name    string
	Country string
	Phone   string
}

// Validate checks the recipient block
func (r Recipient) Validate() error {
	if r.Name == "" {
		return shared.NewDomainError("INVALID_RECIPIENT", "Recipient name cannot be empty")
	}
	if r.Country == "" {
		return shared.NewDomainError("INVALID_RECIPIENT", "Recipient country cannot be empty")
	}
	return nil
}

// Remittance represents a money transfer aggregate root. It shares the
// order lifecycle shape but counts toward tier reclassification on
// delivery with validated payment rather than on completion.
type Remittance struct {
	shared.BaseAggregateRoot
	RemittanceNumber   string
	UserID             uuid.UUID
	AmountSent         decimal.Decimal // collected in USD
	ExchangeRate       decimal.Decimal // captured at creation from the rate service
	PayoutAmount       decimal.Decimal // AmountSent * ExchangeRate
	PayoutCurrency     string
	Recipient          Recipient
	Status             Status
	PaymentStatus      trade.PaymentStatus
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

// NewRemittance creates a new remittance in PENDING status with payment pending
func NewRemittance(remittanceNumber string, userID uuid.UUID, amountSent, exchangeRate decimal.Decimal, payoutCurrency string, recipient Recipient, assignedAccountID uuid.UUID) (*Remittance, error) {
	if remittanceNumber == "" {
		return nil, shared.NewDomainError("INVALID_REMITTANCE_NUMBER", "Remittance number cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if amountSent.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Remittance amount must be positive")
	}
	if exchangeRate.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_RATE", "Exchange rate must be positive")
	}
	if payoutCurrency == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Payout currency cannot be empty")
	}
	if err := recipient.Validate(); err != nil {
		return nil, err
	}
	if assignedAccountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Assigned account ID cannot be empty")
	}

	// Collection happens in USD; the payout is captured at the agreed rate.
	payout, err := valueobject.NewMoneyUSD(amountSent).Convert(exchangeRate, valueobject.Currency(payoutCurrency))
	if err != nil {
		return nil, shared.NewDomainError("INVALID_RATE", err.Error())
	}

	remit := &Remittance{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RemittanceNumber:  remittanceNumber,
		UserID:            userID,
		AmountSent:        amountSent,
		ExchangeRate:      exchangeRate,
		PayoutAmount:      payout.Round(2).Amount(),
		PayoutCurrency:    payoutCurrency,
		Recipient:         recipient,
		Status:            StatusPending,
		PaymentStatus:     trade.PaymentStatusPending,
		AssignedAccountID: &assignedAccountID,
	}

	remit.AddDomainEvent(NewRemittanceCreatedEvent(remit))

	return remit, nil
}

// ValidatePayment marks the collection as reconciled, unlocking processing
func (r *Remittance) ValidatePayment() error {
	if r.Status != StatusPending {
		return shared.ErrInvalidTransition
	}
	if r.PaymentStatus == trade.PaymentStatusValidated {
		return shared.NewDomainError("PAYMENT_ALREADY_VALIDATED", "Payment has already been validated")
	}
	if r.PaymentStatus == trade.PaymentStatusRejected {
		return shared.NewDomainError("PAYMENT_REJECTED", "Rejected payment cannot be validated")
	}

	now := time.Now()
	r.PaymentStatus = trade.PaymentStatusValidated
	r.PaymentValidatedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewRemittancePaymentValidatedEvent(r))

	return nil
}

// RejectPayment records a failed reconciliation and halts progression
func (r *Remittance) RejectPayment(reason string) error {
	if r.Status != StatusPending {
		return shared.ErrInvalidTransition
	}
	if r.PaymentStatus != trade.PaymentStatusPending {
		return shared.NewDomainError("PAYMENT_NOT_PENDING", "Only a pending payment can be rejected")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Rejection reason is required")
	}

	now := time.Now()
	r.PaymentStatus = trade.PaymentStatusRejected
	r.RejectionReason = reason
	r.PaymentRejectedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewRemittancePaymentRejectedEvent(r))

	return nil
}

// Process moves the remittance into payout preparation. Requires validated payment.
func (r *Remittance) Process() error {
	if !r.Status.CanTransitionTo(StatusProcessing) {
		return shared.ErrInvalidTransition
	}
	if r.PaymentStatus != trade.PaymentStatusValidated {
		return shared.ErrPaymentNotValidated
	}

	now := time.Now()
	r.Status = StatusProcessing
	r.ProcessingAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	return nil
}

// Ship marks the payout as dispatched to the destination side
func (r *Remittance) Ship() error {
	if !r.Status.CanTransitionTo(StatusShipped) {
		return shared.ErrInvalidTransition
	}

	now := time.Now()
	r.Status = StatusShipped
	r.ShippedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	return nil
}

// Deliver marks the payout as received by the recipient. This is the
// interaction counted by tier reclassification for remittances.
func (r *Remittance) Deliver() error {
	if !r.Status.CanTransitionTo(StatusDelivered) {
		return shared.ErrInvalidTransition
	}

	now := time.Now()
	r.Status = StatusDelivered
	r.DeliveredAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewRemittanceDeliveredEvent(r))

	return nil
}

// Complete closes the remittance after delivery
func (r *Remittance) Complete() error {
	if !r.Status.CanTransitionTo(StatusCompleted) {
		return shared.ErrInvalidTransition
	}

	now := time.Now()
	r.Status = StatusCompleted
	r.CompletedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	return nil
}

// Cancel terminates the remittance from any non-terminal state
func (r *Remittance) Cancel(reason string) error {
	if !r.Status.CanTransitionTo(StatusCancelled) {
		return shared.ErrInvalidTransition
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	r.Status = StatusCancelled
	r.CancelReason = reason
	r.CancelledAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewRemittanceCancelledEvent(r))

	return nil
}

// TransitionTo dispatches a requested main-status edge to the matching
// transition method, failing closed on anything not in the table
func (r *Remittance) TransitionTo(target Status, reason string) error {
	switch target {
	case StatusProcessing:
		return r.Process()
	case StatusShipped:
		return r.Ship()
	case StatusDelivered:
		return r.Deliver()
	case StatusCompleted:
		return r.Complete()
	case StatusCancelled:
		return r.Cancel(reason)
	default:
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Unknown target status %q", target))
	}
}

// IsDeliveredWithValidatedPayment reports whether this remittance counts as
// a tier interaction
func (r *Remittance) IsDeliveredWithValidatedPayment() bool {
	return r.DeliveredAt != nil && r.PaymentStatus == trade.PaymentStatusValidated
}

// IsTerminal returns true if the remittance is in a terminal state
func (r *Remittance) IsTerminal() bool {
	return r.Status.IsTerminal()
}

// RemittanceSnapshot captures the auditable state of a remittance
type RemittanceSnapshot struct {
	ID               uuid.UUID           `json:"id"`
	RemittanceNumber string              `json:"remittance_number"`
	Status           Status              `json:"status"`
	PaymentStatus    trade.PaymentStatus `json:"payment_status"`
	AmountSent       string              `json:"amount_sent"`
	PayoutAmount     string              `json:"payout_amount"`
	PayoutCurrency   string              `json:"payout_currency"`
	RejectionReason  string              `json:"rejection_reason,omitempty"`
	CancelReason     string              `json:"cancel_reason,omitempty"`
}

// Snapshot returns the auditable state of the remittance
func (r *Remittance) Snapshot() RemittanceSnapshot {
	return RemittanceSnapshot{
		ID:               r.ID,
		RemittanceNumber: r.RemittanceNumber,
		Status:           r.Status,
		PaymentStatus:    r.PaymentStatus,
		AmountSent:       r.AmountSent.String(),
		PayoutAmount:     r.PayoutAmount.String(),
		PayoutCurrency:   r.PayoutCurrency,
		RejectionReason:  r.RejectionReason,
		CancelReason:     r.CancelReason,
	}
}
