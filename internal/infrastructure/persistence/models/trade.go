package models

import (
	"time"

	"github.com/envio/backend/internal/domain/shared"
	"github.com/envio/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	AggregateModel
	OrderNumber        string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	UserID             uuid.UUID           `gorm:"type:uuid;not null;index"`
	TotalAmount        decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	ShippingCost       decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	PayableAmount      decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	Status             trade.OrderStatus   `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	PaymentStatus      trade.PaymentStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	AssignedAccountID  *uuid.UUID          `gorm:"type:uuid;index"`
	RejectionReason    string              `gorm:"type:varchar(500)"`
	CancelReason       string              `gorm:"type:varchar(500)"`
	PaymentValidatedAt *time.Time
	PaymentRejectedAt  *time.Time
	ProcessingAt       *time.Time
	ShippedAt          *time.Time
	DeliveredAt        *time.Time
	CompletedAt        *time.Time
	CancelledAt        *time.Time
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order aggregate.
func (m *OrderModel) ToDomain() *trade.Order {
	return &trade.Order{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		OrderNumber:        m.OrderNumber,
		UserID:             m.UserID,
		TotalAmount:        m.TotalAmount,
		ShippingCost:       m.ShippingCost,
		PayableAmount:      m.PayableAmount,
		Status:             m.Status,
		PaymentStatus:      m.PaymentStatus,
		AssignedAccountID:  m.AssignedAccountID,
		RejectionReason:    m.RejectionReason,
		CancelReason:       m.CancelReason,
		PaymentValidatedAt: m.PaymentValidatedAt,
		PaymentRejectedAt:  m.PaymentRejectedAt,
		ProcessingAt:       m.ProcessingAt,
		ShippedAt:          m.ShippedAt,
		DeliveredAt:        m.DeliveredAt,
		CompletedAt:        m.CompletedAt,
		CancelledAt:        m.CancelledAt,
	}
}

// OrderModelFromDomain creates a persistence model from a domain Order.
func OrderModelFromDomain(order *trade.Order) *OrderModel {
	m := &OrderModel{
		OrderNumber:        order.OrderNumber,
		UserID:             order.UserID,
		TotalAmount:        order.TotalAmount,
		ShippingCost:       order.ShippingCost,
		PayableAmount:      order.PayableAmount,
		Status:             order.Status,
		PaymentStatus:      order.PaymentStatus,
		AssignedAccountID:  order.AssignedAccountID,
		RejectionReason:    order.RejectionReason,
		CancelReason:       order.CancelReason,
		PaymentValidatedAt: order.PaymentValidatedAt,
		PaymentRejectedAt:  order.PaymentRejectedAt,
		ProcessingAt:       order.ProcessingAt,
		ShippedAt:          order.ShippedAt,
		DeliveredAt:        order.DeliveredAt,
		CompletedAt:        order.CompletedAt,
		CancelledAt:        order.CancelledAt,
	}
	m.FromDomainAggregateRoot(order.BaseAggregateRoot)
	return m
}
