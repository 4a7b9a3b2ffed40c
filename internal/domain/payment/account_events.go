package payment

import (
	"github.com/envio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeAccount = "PaymentAccount"

// Event type constants
const (
	EventTypeAccountCreated       = "PaymentAccountCreated"
	EventTypeAccountDisabled      = "PaymentAccountDisabled"
	EventTypeAccountUsageRecorded = "PaymentAccountUsageRecorded"
)

// AccountCreatedEvent is raised when a new collection account is registered
type AccountCreatedEvent struct {
	shared.BaseDomainEvent
	AccountID uuid.UUID `json:"account_id"`
	Name      string    `json:"name"`
	Holder    string    `json:"holder"`
}

// NewAccountCreatedEvent creates a new AccountCreatedEvent
func NewAccountCreatedEvent(account *Account) *AccountCreatedEvent {
	return &AccountCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountCreated, AggregateTypeAccount, account.ID),
		AccountID:       account.ID,
		Name:            account.Name,
		Holder:          account.Holder,
	}
}

// EventType returns the event type name
func (e *AccountCreatedEvent) EventType() string {
	return EventTypeAccountCreated
}

// AccountDisabledEvent is raised when an account is pulled from rotation
type AccountDisabledEvent struct {
	shared.BaseDomainEvent
	AccountID uuid.UUID `json:"account_id"`
	Name      string    `json:"name"`
}

// NewAccountDisabledEvent creates a new AccountDisabledEvent
func NewAccountDisabledEvent(account *Account) *AccountDisabledEvent {
	return &AccountDisabledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountDisabled, AggregateTypeAccount, account.ID),
		AccountID:       account.ID,
		Name:            account.Name,
	}
}

// EventType returns the event type name
func (e *AccountDisabledEvent) EventType() string {
	return EventTypeAccountDisabled
}

// AccountUsageRecordedEvent is raised when confirmed usage is applied to
// an account's period counters
type AccountUsageRecordedEvent struct {
	shared.BaseDomainEvent
	AccountID    uuid.UUID       `json:"account_id"`
	Amount       decimal.Decimal `json:"amount"`
	DailyAmount  decimal.Decimal `json:"daily_amount"`
	MonthlyTotal decimal.Decimal `json:"monthly_total"`
}

// NewAccountUsageRecordedEvent creates a new AccountUsageRecordedEvent
func NewAccountUsageRecordedEvent(account *Account, amount decimal.Decimal) *AccountUsageRecordedEvent {
	return &AccountUsageRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountUsageRecorded, AggregateTypeAccount, account.ID),
		AccountID:       account.ID,
		Amount:          amount,
		DailyAmount:     account.CurrentDailyAmount,
		MonthlyTotal:    account.CurrentMonthlyAmount,
	}
}

// EventType returns the event type name
func (e *AccountUsageRecordedEvent) EventType() string {
	return EventTypeAccountUsageRecorded
}
