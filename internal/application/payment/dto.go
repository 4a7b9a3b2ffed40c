package payment

import (
	"time"

	"github.com/envio/backend/internal/domain/payment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest is the payload for registering a payment account
type CreateAccountRequest struct {
	Name                 string           `json:"name" binding:"required"`
	Holder               string           `json:"holder" binding:"required"`
	UsableForGoods       bool             `json:"usable_for_goods"`
	UsableForRemittances bool             `json:"usable_for_remittances"`
	DailyLimit           *decimal.Decimal `json:"daily_limit"`
	MonthlyLimit         *decimal.Decimal `json:"monthly_limit"`
	SecurityLimit        *decimal.Decimal `json:"security_limit"`
	PriorityOrder        int              `json:"priority_order"`
}

// UpdateAccountRequest is the payload for updating an account. Limits are
// replaced wholesale on every update; a null limit clears it (unbounded).
type UpdateAccountRequest struct {
	Name          *string          `json:"name"`
	Holder        *string          `json:"holder"`
	DailyLimit    *decimal.Decimal `json:"daily_limit"`
	MonthlyLimit  *decimal.Decimal `json:"monthly_limit"`
	SecurityLimit *decimal.Decimal `json:"security_limit"`
	PriorityOrder *int             `json:"priority_order"`
}

// AllocateRequest asks the allocator for an account without consuming capacity
type AllocateRequest struct {
	Type   payment.TransactionType `json:"type" binding:"required"`
	Amount decimal.Decimal         `json:"amount" binding:"required"`
}

// AccountListFilter carries list query options
type AccountListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Enabled  *bool
}

// AccountResponse is the API representation of a payment account
type AccountResponse struct {
	ID                   uuid.UUID  `json:"id"`
	Name                 string     `json:"name"`
	Holder               string     `json:"holder"`
	Enabled              bool       `json:"enabled"`
	UsableForGoods       bool       `json:"usable_for_goods"`
	UsableForRemittances bool       `json:"usable_for_remittances"`
	DailyLimit           *string    `json:"daily_limit,omitempty"`
	MonthlyLimit         *string    `json:"monthly_limit,omitempty"`
	SecurityLimit        *string    `json:"security_limit,omitempty"`
	CurrentDailyAmount   string     `json:"current_daily_amount"`
	CurrentMonthlyAmount string     `json:"current_monthly_amount"`
	LastResetDate        time.Time  `json:"last_reset_date"`
	PriorityOrder        int        `json:"priority_order"`
	LastUsedAt           *time.Time `json:"last_used_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// ToAccountResponse converts a domain account to its API representation
func ToAccountResponse(account *payment.Account) AccountResponse {
	resp := AccountResponse{
		ID:                   account.ID,
		Name:                 account.Name,
		Holder:               account.Holder,
		Enabled:              account.Enabled,
		UsableForGoods:       account.UsableForGoods,
		UsableForRemittances: account.UsableForRemittances,
		CurrentDailyAmount:   account.CurrentDailyAmount.String(),
		CurrentMonthlyAmount: account.CurrentMonthlyAmount.String(),
		LastResetDate:        account.LastResetDate,
		PriorityOrder:        account.PriorityOrder,
		LastUsedAt:           account.LastUsedAt,
		CreatedAt:            account.CreatedAt,
		UpdatedAt:            account.UpdatedAt,
	}
	if account.DailyLimit != nil {
		s := account.DailyLimit.String()
		resp.DailyLimit = &s
	}
	if account.MonthlyLimit != nil {
		s := account.MonthlyLimit.String()
		resp.MonthlyLimit = &s
	}
	if account.SecurityLimit != nil {
		s := account.SecurityLimit.String()
		resp.SecurityLimit = &s
	}
	return resp
}

// ToAccountResponses converts a slice of domain accounts
func ToAccountResponses(accounts []*payment.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i, account := range accounts {
		responses[i] = ToAccountResponse(account)
	}
	return responses
}
