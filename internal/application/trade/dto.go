package trade

import (
	"time"

	"github.com/envio/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest is the checkout submission payload. The shipping cost
// is computed by the shipping collaborator before submission and arrives as
// an input here.
type CreateOrderRequest struct {
	UserID       uuid.UUID       `json:"user_id" binding:"required"`
	TotalAmount  decimal.Decimal `json:"total_amount" binding:"required"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
}

// RejectPaymentRequest carries the mandatory rejection reason
type RejectPaymentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CancelOrderRequest carries the mandatory cancellation reason
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// OrderListFilter carries list query options
type OrderListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	UserID   *uuid.UUID
	Status   *trade.OrderStatus
}

// OrderResponse is the API representation of an order
type OrderResponse struct {
	ID                 uuid.UUID  `json:"id"`
	OrderNumber        string     `json:"order_number"`
	UserID             uuid.UUID  `json:"user_id"`
	TotalAmount        string     `json:"total_amount"`
	ShippingCost       string     `json:"shipping_cost"`
	PayableAmount      string     `json:"payable_amount"`
	Status             string     `json:"status"`
	PaymentStatus      string     `json:"payment_status"`
	AssignedAccountID  *uuid.UUID `json:"assigned_account_id,omitempty"`
	RejectionReason    string     `json:"rejection_reason,omitempty"`
	CancelReason       string     `json:"cancel_reason,omitempty"`
	PaymentValidatedAt *time.Time `json:"payment_validated_at,omitempty"`
	ShippedAt          *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt        *time.Time `json:"delivered_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// ToOrderResponse converts a domain order to its API representation
func ToOrderResponse(order *trade.Order) OrderResponse {
	return OrderResponse{
		ID:                 order.ID,
		OrderNumber:        order.OrderNumber,
		UserID:             order.UserID,
		TotalAmount:        order.TotalAmount.String(),
		ShippingCost:       order.ShippingCost.String(),
		PayableAmount:      order.PayableAmount.String(),
		Status:             order.Status.String(),
		PaymentStatus:      string(order.PaymentStatus),
		AssignedAccountID:  order.AssignedAccountID,
		RejectionReason:    order.RejectionReason,
		CancelReason:       order.CancelReason,
		PaymentValidatedAt: order.PaymentValidatedAt,
		ShippedAt:          order.ShippedAt,
		DeliveredAt:        order.DeliveredAt,
		CompletedAt:        order.CompletedAt,
		CancelledAt:        order.CancelledAt,
		CreatedAt:          order.CreatedAt,
		UpdatedAt:          order.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of domain orders
func ToOrderResponses(orders []trade.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}
