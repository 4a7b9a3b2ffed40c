package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/envio/backend/internal/domain/shared"
	"github.com/envio/backend/internal/domain/trade"
	"github.com/envio/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements trade.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

var _ trade.OrderRepository = (*GormOrderRepository)(nil)

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	if err := dbFromContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrderNumber finds an order by its order number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*trade.Order, error) {
	var model models.OrderModel
	if err := dbFromContext(ctx, r.db).
		Where("order_number = ?", orderNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	var orderModels []models.OrderModel
	query := dbFromContext(ctx, r.db).Model(&models.OrderModel{})
	query = r.applyFilter(query, filter)

	if err := query.Find(&orderModels).Error; err != nil {
		return nil, err
	}
	orders := make([]trade.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = *orderModels[i].ToDomain()
	}
	return orders, nil
}

// FindByUser finds orders belonging to a user
func (r *GormOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]trade.Order, error) {
	var orderModels []models.OrderModel
	query := dbFromContext(ctx, r.db).Model(&models.OrderModel{}).
		Where("user_id = ?", userID)
	query = r.applyFilter(query, filter)

	if err := query.Find(&orderModels).Error; err != nil {
		return nil, err
	}
	orders := make([]trade.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = *orderModels[i].ToDomain()
	}
	return orders, nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := dbFromContext(ctx, r.db).Model(&models.OrderModel{})
	query = r.applyConditions(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountCompletedByUser counts a user's completed orders
func (r *GormOrderRepository) CountCompletedByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).Model(&models.OrderModel{}).
		Where("user_id = ? AND status = ?", userID, trade.OrderStatusCompleted).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an order
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	model := models.OrderModelFromDomain(order)
	return dbFromContext(ctx, r.db).Save(model).Error
}

// SaveWithLock updates an order with an optimistic version check
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *trade.Order) error {
	db := dbFromContext(ctx, r.db)

	var current models.OrderModel
	if err := db.Select("version").Where("id = ?", order.GetID()).First(&current).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			model := models.OrderModelFromDomain(order)
			return db.Create(model).Error
		}
		return err
	}

	// The domain aggregate already incremented its version
	expectedVersion := order.GetVersion() - 1
	if current.Version != expectedVersion {
		return shared.ErrConcurrentModify
	}

	model := models.OrderModelFromDomain(order)
	result := db.Model(model).
		Where("id = ? AND version = ?", order.GetID(), expectedVersion).
		Save(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrentModify
	}
	return nil
}

// GenerateOrderNumber produces the next sequential order number for today,
// formatted ORD-YYYYMMDD-NNNN.
func (r *GormOrderRepository) GenerateOrderNumber(ctx context.Context) (string, error) {
	var count int64
	day := time.Now().Format("20060102")

	if err := dbFromContext(ctx, r.db).Model(&models.OrderModel{}).
		Where("order_number LIKE ?", fmt.Sprintf("ORD-%s-%%", day)).
		Count(&count).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("ORD-%s-%04d", day, count+1), nil
}

// applyFilter applies conditions, sorting and pagination to the query
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyConditions(query, filter)

	sortField := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
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

func (r *GormOrderRepository) applyConditions(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("order_number ILIKE ?", "%"+filter.Search+"%")
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if paymentStatus, ok := filter.Filters["payment_status"]; ok {
		query = query.Where("payment_status = ?", paymentStatus)
	}
	if userID, ok := filter.Filters["user_id"]; ok {
		query = query.Where("user_id = ?", userID)
	}
	return query
}
