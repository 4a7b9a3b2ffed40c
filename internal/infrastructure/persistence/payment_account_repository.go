package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/envio/backend/internal/domain/payment"
	"github.com/envio/backend/internal/domain/shared"
	"github.com/envio/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPaymentAccountRepository implements payment.AccountRepository using GORM
type GormPaymentAccountRepository struct {
	db *gorm.DB
}

// NewGormPaymentAccountRepository creates a new GormPaymentAccountRepository
func NewGormPaymentAccountRepository(db *gorm.DB) *GormPaymentAccountRepository {
	return &GormPaymentAccountRepository{db: db}
}

var _ payment.AccountRepository = (*GormPaymentAccountRepository)(nil)

// FindByID finds an account by its ID
func (r *GormPaymentAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Account, error) {
	var model models.PaymentAccountModel
	if err := dbFromContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindEnabled returns every enabled account ordered by allocator priority
func (r *GormPaymentAccountRepository) FindEnabled(ctx context.Context) ([]*payment.Account, error) {
	var accountModels []models.PaymentAccountModel
	if err := dbFromContext(ctx, r.db).
		Where("enabled = ?", true).
		Order("priority_order ASC, created_at ASC").
		Find(&accountModels).Error; err != nil {
		return nil, err
	}
	accounts := make([]*payment.Account, len(accountModels))
	for i := range accountModels {
		accounts[i] = accountModels[i].ToDomain()
	}
	return accounts, nil
}

// FindStale returns accounts whose counters were last reset before the given day
func (r *GormPaymentAccountRepository) FindStale(ctx context.Context, before time.Time) ([]*payment.Account, error) {
	var accountModels []models.PaymentAccountModel
	if err := dbFromContext(ctx, r.db).
		Where("last_reset_date < ?", before).
		Find(&accountModels).Error; err != nil {
		return nil, err
	}
	accounts := make([]*payment.Account, len(accountModels))
	for i := range accountModels {
		accounts[i] = accountModels[i].ToDomain()
	}
	return accounts, nil
}

// FindAll finds all accounts matching the filter
func (r *GormPaymentAccountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*payment.Account, error) {
	var accountModels []models.PaymentAccountModel
	query := dbFromContext(ctx, r.db).Model(&models.PaymentAccountModel{})
	query = r.applyFilter(query, filter)

	if err := query.Find(&accountModels).Error; err != nil {
		return nil, err
	}
	accounts := make([]*payment.Account, len(accountModels))
	for i := range accountModels {
		accounts[i] = accountModels[i].ToDomain()
	}
	return accounts, nil
}

// Count counts accounts matching the filter
func (r *GormPaymentAccountRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := dbFromContext(ctx, r.db).Model(&models.PaymentAccountModel{})
	query = r.applySearch(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an account
func (r *GormPaymentAccountRepository) Save(ctx context.Context, account *payment.Account) error {
	model := models.PaymentAccountModelFromDomain(account)
	return dbFromContext(ctx, r.db).Save(model).Error
}

// SaveWithLock updates an account with an optimistic version check
func (r *GormPaymentAccountRepository) SaveWithLock(ctx context.Context, account *payment.Account) error {
	db := dbFromContext(ctx, r.db)

	var current models.PaymentAccountModel
	if err := db.Select("version").Where("id = ?", account.GetID()).First(&current).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			model := models.PaymentAccountModelFromDomain(account)
			return db.Create(model).Error
		}
		return err
	}

	// The domain aggregate already incremented its version
	expectedVersion := account.GetVersion() - 1
	if current.Version != expectedVersion {
		return shared.ErrConcurrentModify
	}

	model := models.PaymentAccountModelFromDomain(account)
	result := db.Model(model).
		Where("id = ? AND version = ?", account.GetID(), expectedVersion).
		Save(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrentModify
	}
	return nil
}

// applyFilter applies search, sorting and pagination to the query
func (r *GormPaymentAccountRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)

	// Sorting goes through a whitelist to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, PaymentAccountSortFields, "priority_order")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	if sortField == "priority_order" && filter.OrderBy == "" {
		sortOrder = "ASC"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		offset := (filter.Page - 1) * filter.PageSize
		if offset > 0 {
			query = query.Offset(offset)
		}
	}

	return query
}

func (r *GormPaymentAccountRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(name ILIKE ? OR holder ILIKE ?)", searchPattern, searchPattern)
	}
	if enabled, ok := filter.Filters["enabled"]; ok {
		query = query.Where("enabled = ?", enabled)
	}
	return query
}
