package remittance

import (
	"time"

	"github.com/envio/backend/internal/domain/remittance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateRemittanceRequest is the remittance submission payload. The exchange
// rate is captured from the rate collaborator at submission time and arrives
// as an input here.
type CreateRemittanceRequest struct {
	UserID           uuid.UUID       `json:"user_id" binding:"required"`
	AmountSent       decimal.Decimal `json:"amount_sent" binding:"required"`
	ExchangeRate     decimal.Decimal `json:"exchange_rate" binding:"required"`
	PayoutCurrency   string          `json:"payout_currency" binding:"required"`
	RecipientName    string          `json:"recipient_name" binding:"required"`
	RecipientCountry string          `json:"recipient_country" binding:"required"`
	RecipientPhone   string          `json:"recipient_phone"`
}

// RejectPaymentRequest carries the mandatory rejection reason
type RejectPaymentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CancelRemittanceRequest carries the mandatory cancellation reason
type CancelRemittanceRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// RemittanceListFilter carries list query options
type RemittanceListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	UserID   *uuid.UUID
	Status   *remittance.Status
}

// RemittanceResponse is the API representation of a remittance
type RemittanceResponse struct {
	ID                 uuid.UUID  `json:"id"`
	RemittanceNumber   string     `json:"remittance_number"`
	UserID             uuid.UUID  `json:"user_id"`
	AmountSent         string     `json:"amount_sent"`
	ExchangeRate       string     `json:"exchange_rate"`
	PayoutAmount       string     `json:"payout_amount"`
	PayoutCurrency     string     `json:"payout_currency"`
	RecipientName      string     `json:"recipient_name"`
	RecipientCountry   string     `json:"recipient_country"`
	RecipientPhone     string     `json:"recipient_phone,omitempty"`
	Status             string     `json:"status"`
	PaymentStatus      string     `json:"payment_status"`
	AssignedAccountID  *uuid.UUID `json:"assigned_account_id,omitempty"`
	RejectionReason    string     `json:"rejection_reason,omitempty"`
	CancelReason       string     `json:"cancel_reason,omitempty"`
	PaymentValidatedAt *time.Time `json:"payment_validated_at,omitempty"`
	DeliveredAt        *time.Time `json:"delivered_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// ToRemittanceResponse converts a domain remittance to its API representation
func ToRemittanceResponse(remit *remittance.Remittance) RemittanceResponse {
	return RemittanceResponse{
		ID:                 remit.ID,
		RemittanceNumber:   remit.RemittanceNumber,
		UserID:             remit.UserID,
		AmountSent:         remit.AmountSent.String(),
		ExchangeRate:       remit.ExchangeRate.String(),
		PayoutAmount:       remit.PayoutAmount.String(),
		PayoutCurrency:     remit.PayoutCurrency,
		RecipientName:      remit.Recipient.Name,
		RecipientCountry:   remit.Recipient.Country,
		RecipientPhone:     remit.Recipient.Phone,
		Status:             remit.Status.String(),
		PaymentStatus:      string(remit.PaymentStatus),
		AssignedAccountID:  remit.AssignedAccountID,
		RejectionReason:    remit.RejectionReason,
		CancelReason:       remit.CancelReason,
		PaymentValidatedAt: remit.PaymentValidatedAt,
		DeliveredAt:        remit.DeliveredAt,
		CompletedAt:        remit.CompletedAt,
		CancelledAt:        remit.CancelledAt,
		CreatedAt:          remit.CreatedAt,
		UpdatedAt:          remit.UpdatedAt,
	}
}

// ToRemittanceResponses converts a slice of domain remittances
func ToRemittanceResponses(remits []remittance.Remittance) []RemittanceResponse {
	responses := make([]RemittanceResponse, len(remits))
	for i := range remits {
		responses[i] = ToRemittanceResponse(&remits[i])
	}
	return responses
}
