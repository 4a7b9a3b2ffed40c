package payment

import (
	"fmt"
	"time"

	"github.com/envio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType describes what kind of transaction an account must support
type TransactionType string

const (
	TransactionTypeGoods      TransactionType = "GOODS"
	TransactionTypeRemittance TransactionType = "REMITTANCE"
)

// IsValid checks if the transaction type is known
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeGoods, TransactionTypeRemittance:
		return true
	}
	return false
}

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// TransactionRequest is the ephemeral allocator input describing an incoming
// payment-bearing transaction. It is never persisted.
type TransactionRequest struct {
	Type   TransactionType
	Amount decimal.Decimal
}

// NewTransactionRequest validates and creates a transaction request
func NewTransactionRequest(txType TransactionType, amount decimal.Decimal) (TransactionRequest, error) {
	if !txType.IsValid() {
		return TransactionRequest{}, shared.NewDomainError("INVALID_TRANSACTION_TYPE", fmt.Sprintf("Unknown transaction type %q", txType))
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return TransactionRequest{}, shared.NewDomainError("INVALID_AMOUNT", "Transaction amount must be positive")
	}
	return TransactionRequest{Type: txType, Amount: amount}, nil
}

// Account represents a shared payment collection account (e.g. a Zelle account)
// with per-period usage ceilings. Counters are mutated only through RecordUsage
// on the ledger service; allocation alone never consumes capacity.
//
// A nil limit means unbounded for that dimension.
type Account struct {
	shared.BaseAggregateRoot
	Name                 string
	Holder               string
	Enabled              bool
	UsableForGoods       bool
	UsableForRemittances bool
	DailyLimit           *decimal.Decimal
	MonthlyLimit         *decimal.Decimal
	SecurityLimit        *decimal.Decimal // hard ceiling below the nominal daily limit
	CurrentDailyAmount   decimal.Decimal
	CurrentMonthlyAmount decimal.Decimal
	LastResetDate        time.Time
	PriorityOrder        int
	LastUsedAt           *time.Time
}

// NewAccount creates a new payment collection account
func NewAccount(name, holder string, usableForGoods, usableForRemittances bool, priorityOrder int) (*Account, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Account name cannot be empty")
	}
	if holder == "" {
		return nil, shared.NewDomainError("INVALID_HOLDER", "Account holder cannot be empty")
	}
	if !usableForGoods && !usableForRemittances {
		return nil, shared.NewDomainError("INVALID_CAPABILITY", "Account must support goods or remittances")
	}

	account := &Account{
		BaseAggregateRoot:    shared.NewBaseAggregateRoot(),
		Name:                 name,
		Holder:               holder,
		Enabled:              true,
		UsableForGoods:       usableForGoods,
		UsableForRemittances: usableForRemittances,
		CurrentDailyAmount:   decimal.Zero,
		CurrentMonthlyAmount: decimal.Zero,
		LastResetDate:        startOfDay(time.Now()),
		PriorityOrder:        priorityOrder,
	}

	account.AddDomainEvent(NewAccountCreatedEvent(account))

	return account, nil
}

// SetLimits updates the usage ceilings. A nil limit means unbounded.
func (a *Account) SetLimits(daily, monthly, security *decimal.Decimal) error {
	for _, limit := range []*decimal.Decimal{daily, monthly, security} {
		if limit != nil && limit.LessThanOrEqual(decimal.Zero) {
			return shared.NewDomainError("INVALID_LIMIT", "Limits must be positive when set")
		}
	}

	a.DailyLimit = daily
	a.MonthlyLimit = monthly
	a.SecurityLimit = security
	a.UpdatedAt = time.Now()

	return nil
}

// AccountUpdate carries the optional fields of an operator edit. Nil name,
// holder, and priority leave the current value in place; limits are replaced
// wholesale because clearing a ceiling is a valid edit.
type AccountUpdate struct {
	Name          *string
	Holder        *string
	DailyLimit    *decimal.Decimal
	MonthlyLimit  *decimal.Decimal
	SecurityLimit *decimal.Decimal
	PriorityOrder *int
}

// ApplyUpdate applies an operator edit as a single versioned state change.
func (a *Account) ApplyUpdate(update AccountUpdate) error {
	if update.Name != nil && *update.Name == "" {
		return shared.NewDomainError("INVALID_NAME", "Account name cannot be empty")
	}
	if update.Holder != nil && *update.Holder == "" {
		return shared.NewDomainError("INVALID_HOLDER", "Account holder cannot be empty")
	}
	if err := a.SetLimits(update.DailyLimit, update.MonthlyLimit, update.SecurityLimit); err != nil {
		return err
	}

	if update.Name != nil {
		a.Name = *update.Name
	}
	if update.Holder != nil {
		a.Holder = *update.Holder
	}
	if update.PriorityOrder != nil {
		a.PriorityOrder = *update.PriorityOrder
	}
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// Enable puts the account back into rotation
func (a *Account) Enable() {
	a.Enabled = true
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// Disable removes the account from rotation without deleting it
func (a *Account) Disable() {
	a.Enabled = false
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	a.AddDomainEvent(NewAccountDisabledEvent(a))
}

// Supports reports whether the account can receive the given transaction type
func (a *Account) Supports(txType TransactionType) bool {
	switch txType {
	case TransactionTypeGoods:
		return a.UsableForGoods
	case TransactionTypeRemittance:
		return a.UsableForRemittances
	}
	return false
}

// effectiveDailyCeiling is min(dailyLimit, securityLimit); nil means unbounded
func (a *Account) effectiveDailyCeiling() *decimal.Decimal {
	switch {
	case a.DailyLimit == nil:
		return a.SecurityLimit
	case a.SecurityLimit == nil:
		return a.DailyLimit
	case a.SecurityLimit.LessThan(*a.DailyLimit):
		return a.SecurityLimit
	default:
		return a.DailyLimit
	}
}

// projectedCounters returns the counters as they would stand at the given
// time, applying any pending period rollover without mutating the account.
func (a *Account) projectedCounters(now time.Time) (daily, monthly decimal.Decimal) {
	daily = a.CurrentDailyAmount
	monthly = a.CurrentMonthlyAmount
	if a.LastResetDate.Before(startOfDay(now)) {
		daily = decimal.Zero
		if a.LastResetDate.Month() != now.Month() || a.LastResetDate.Year() != now.Year() {
			monthly = decimal.Zero
		}
	}
	return daily, monthly
}

// CanAccept reports whether the account could receive the requested amount at
// the given time without breaching its ceilings. It does not mutate counters.
func (a *Account) CanAccept(req TransactionRequest, now time.Time) bool {
	if !a.Enabled || !a.Supports(req.Type) {
		return false
	}

	daily, monthly := a.projectedCounters(now)

	if ceiling := a.effectiveDailyCeiling(); ceiling != nil {
		if daily.Add(req.Amount).GreaterThan(*ceiling) {
			return false
		}
	}
	if a.MonthlyLimit != nil {
		if monthly.Add(req.Amount).GreaterThan(*a.MonthlyLimit) {
			return false
		}
	}
	return true
}

// ResetCounters applies any pending period rollover: the daily counter is
// zeroed when the last reset predates today, the monthly counter additionally
// when the calendar month changed. Returns true if anything was reset.
func (a *Account) ResetCounters(now time.Time) bool {
	if !a.rollover(now) {
		return false
	}
	a.IncrementVersion()
	return true
}

// rollover performs the reset without touching the version, so RecordUsage
// can fold a pending rollover and the usage increment into one state change.
func (a *Account) rollover(now time.Time) bool {
	today := startOfDay(now)
	if !a.LastResetDate.Before(today) {
		return false
	}

	a.CurrentDailyAmount = decimal.Zero
	if a.LastResetDate.Month() != now.Month() || a.LastResetDate.Year() != now.Year() {
		a.CurrentMonthlyAmount = decimal.Zero
	}
	a.LastResetDate = today
	a.UpdatedAt = now

	return true
}

// RecordUsage applies a confirmed usage amount to the counters after any
// pending rollover. The no-overdraft invariant is enforced here so it can
// never be violated post-commit regardless of caller ordering.
func (a *Account) RecordUsage(amount decimal.Decimal, now time.Time) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Usage amount must be positive")
	}

	a.rollover(now)

	newDaily := a.CurrentDailyAmount.Add(amount)
	newMonthly := a.CurrentMonthlyAmount.Add(amount)

	if ceiling := a.effectiveDailyCeiling(); ceiling != nil && newDaily.GreaterThan(*ceiling) {
		return shared.NewDomainError("DAILY_LIMIT_EXCEEDED", fmt.Sprintf("Account %s daily ceiling exceeded", a.Name))
	}
	if a.MonthlyLimit != nil && newMonthly.GreaterThan(*a.MonthlyLimit) {
		return shared.NewDomainError("MONTHLY_LIMIT_EXCEEDED", fmt.Sprintf("Account %s monthly limit exceeded", a.Name))
	}

	a.CurrentDailyAmount = newDaily
	a.CurrentMonthlyAmount = newMonthly
	a.LastUsedAt = &now
	a.UpdatedAt = now
	a.IncrementVersion()

	a.AddDomainEvent(NewAccountUsageRecordedEvent(a, amount))

	return nil
}

// startOfDay truncates a time to midnight in its location
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AccountSnapshot captures the auditable state of an account
type AccountSnapshot struct {
	ID                   uuid.UUID  `json:"id"`
	Name                 string     `json:"name"`
	Enabled              bool       `json:"enabled"`
	DailyLimit           *string    `json:"daily_limit,omitempty"`
	MonthlyLimit         *string    `json:"monthly_limit,omitempty"`
	SecurityLimit        *string    `json:"security_limit,omitempty"`
	CurrentDailyAmount   string     `json:"current_daily_amount"`
	CurrentMonthlyAmount string     `json:"current_monthly_amount"`
	PriorityOrder        int        `json:"priority_order"`
	LastUsedAt           *time.Time `json:"last_used_at,omitempty"`
}

// Snapshot returns the auditable state of the account
func (a *Account) Snapshot() AccountSnapshot {
	snap := AccountSnapshot{
		ID:                   a.ID,
		Name:                 a.Name,
		Enabled:              a.Enabled,
		CurrentDailyAmount:   a.CurrentDailyAmount.String(),
		CurrentMonthlyAmount: a.CurrentMonthlyAmount.String(),
		PriorityOrder:        a.PriorityOrder,
		LastUsedAt:           a.LastUsedAt,
	}
	if a.DailyLimit != nil {
		s := a.DailyLimit.String()
		snap.DailyLimit = &s
	}
	if a.MonthlyLimit != nil {
		s := a.MonthlyLimit.String()
		snap.MonthlyLimit = &s
	}
	if a.SecurityLimit != nil {
		s := a.SecurityLimit.String()
		snap.SecurityLimit = &s
	}
	return snap
}
