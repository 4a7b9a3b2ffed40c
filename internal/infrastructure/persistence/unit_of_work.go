package persistence

import (
	"context"

	"github.com/envio/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// txContextKey carries the ambient transaction through the context so that
// repositories called inside a unit of work join the same transaction.
type txContextKey struct{}

// GormUnitOfWork implements shared.UnitOfWork on top of GORM transactions.
type GormUnitOfWork struct {
	db *gorm.DB
}

var _ shared.UnitOfWork = (*GormUnitOfWork)(nil)

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Execute runs fn inside a database transaction. The context passed to fn
// carries the transaction; nested Execute calls join the ambient transaction
// instead of opening a new one, so composed operations commit atomically.
func (u *GormUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

func txFromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return nil
}

// dbFromContext returns the ambient transaction when the context carries one,
// the fallback handle otherwise.
func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return fallback.WithContext(ctx)
}
