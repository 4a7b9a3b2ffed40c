package models

import (
	"time"

	"github.com/envio/backend/internal/domain/payment"
	"github.com/envio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentAccountModel is the persistence model for the payment Account aggregate root.
type PaymentAccountModel struct {
	AggregateModel
	Name                 string           `gorm:"type:varchar(200);not null"`
	Holder               string           `gorm:"type:varchar(200);not null"`
	Enabled              bool             `gorm:"not null;default:true;index"`
	UsableForGoods       bool             `gorm:"not null;default:false"`
	UsableForRemittances bool             `gorm:"not null;default:false"`
	DailyLimit           *decimal.Decimal `gorm:"type:decimal(18,4)"`
	MonthlyLimit         *decimal.Decimal `gorm:"type:decimal(18,4)"`
	SecurityLimit        *decimal.Decimal `gorm:"type:decimal(18,4)"`
	CurrentDailyAmount   decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	CurrentMonthlyAmount decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	LastResetDate        time.Time        `gorm:"not null;index"`
	PriorityOrder        int              `gorm:"not null;default:0;index"`
	LastUsedAt           *time.Time
}

// TableName returns the table name for GORM
func (PaymentAccountModel) TableName() string {
	return "payment_accounts"
}

// ToDomain converts the persistence model to a domain Account aggregate.
func (m *PaymentAccountModel) ToDomain() *payment.Account {
	return &payment.Account{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Name:                 m.Name,
		Holder:               m.Holder,
		Enabled:              m.Enabled,
		UsableForGoods:       m.UsableForGoods,
		UsableForRemittances: m.UsableForRemittances,
		DailyLimit:           m.DailyLimit,
		MonthlyLimit:         m.MonthlyLimit,
		SecurityLimit:        m.SecurityLimit,
		CurrentDailyAmount:   m.CurrentDailyAmount,
		CurrentMonthlyAmount: m.CurrentMonthlyAmount,
		LastResetDate:        m.LastResetDate,
		PriorityOrder:        m.PriorityOrder,
		LastUsedAt:           m.LastUsedAt,
	}
}

// PaymentAccountModelFromDomain creates a persistence model from a domain Account.
func PaymentAccountModelFromDomain(account *payment.Account) *PaymentAccountModel {
	m := &PaymentAccountModel{
		Name:                 account.Name,
		Holder:               account.Holder,
		Enabled:              account.Enabled,
		UsableForGoods:       account.UsableForGoods,
		UsableForRemittances: account.UsableForRemittances,
		DailyLimit:           account.DailyLimit,
		MonthlyLimit:         account.MonthlyLimit,
		SecurityLimit:        account.SecurityLimit,
		CurrentDailyAmount:   account.CurrentDailyAmount,
		CurrentMonthlyAmount: account.CurrentMonthlyAmount,
		LastResetDate:        account.LastResetDate,
		PriorityOrder:        account.PriorityOrder,
		LastUsedAt:           account.LastUsedAt,
	}
	m.FromDomainAggregateRoot(account.BaseAggregateRoot)
	return m
}
