package models

import (
	"time"

	"github.com/envio/backend/internal/domain/remittance"
	"github.com/envio/backend/internal/domain/shared"
	"github.com/envio/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RemittanceModel is the persistence model for the Remittance aggregate root.
// The recipient value object is flattened into columns.
type RemittanceModel struct {
	AggregateModel
	RemittanceNumber   string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	UserID             uuid.UUID           `gorm:"type:uuid;not null;index"`
	AmountSent         decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	ExchangeRate       decimal.Decimal     `gorm:"type:decimal(18,6);not null"`
	PayoutAmount       decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	PayoutCurrency     string              `gorm:"type:varchar(10);not null"`
	RecipientName      string              `gorm:"type:varchar(200);not null"`
	RecipientCountry   string              `gorm:"type:varchar(100);not null"`
	RecipientPhone     string              `gorm:"type:varchar(50)"`
	Status             remittance.Status   `gorm:"type:varchar(20);not null;default:'PENDING';index"`
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
func (RemittanceModel) TableName() string {
	return "remittances"
}

// ToDomain converts the persistence model to a domain Remittance aggregate.
func (m *RemittanceModel) ToDomain() *remittance.Remittance {
	return &remittance.Remittance{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		RemittanceNumber: m.RemittanceNumber,
		UserID:           m.UserID,
		AmountSent:       m.AmountSent,
		ExchangeRate:     m.ExchangeRate,
		PayoutAmount:     m.PayoutAmount,
		PayoutCurrency:   m.PayoutCurrency,
		Recipient: remittance.Recipient{
			Name:    m.RecipientName,
			Country: m.RecipientCountry,
			Phone:   m.RecipientPhone,
		},
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

// RemittanceModelFromDomain creates a persistence model from a domain Remittance.
func RemittanceModelFromDomain(remit *remittance.Remittance) *RemittanceModel {
	m := &RemittanceModel{
		RemittanceNumber:   remit.RemittanceNumber,
		UserID:             remit.UserID,
		AmountSent:         remit.AmountSent,
		ExchangeRate:       remit.ExchangeRate,
		PayoutAmount:       remit.PayoutAmount,
		PayoutCurrency:     remit.PayoutCurrency,
		RecipientName:      remit.Recipient.Name,
		RecipientCountry:   remit.Recipient.Country,
		RecipientPhone:     remit.Recipient.Phone,
		Status:             remit.Status,
		PaymentStatus:      remit.PaymentStatus,
		AssignedAccountID:  remit.AssignedAccountID,
		RejectionReason:    remit.RejectionReason,
		CancelReason:       remit.CancelReason,
		PaymentValidatedAt: remit.PaymentValidatedAt,
		PaymentRejectedAt:  remit.PaymentRejectedAt,
		ProcessingAt:       remit.ProcessingAt,
		ShippedAt:          remit.ShippedAt,
		DeliveredAt:        remit.DeliveredAt,
		CompletedAt:        remit.CompletedAt,
		CancelledAt:        remit.CancelledAt,
	}
	m.FromDomainAggregateRoot(remit.BaseAggregateRoot)
	return m
}
