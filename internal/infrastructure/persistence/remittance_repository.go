package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/envio/backend/internal/domain/remittance"
	"github.com/envio/backend/internal/domain/shared"
	"github.com/envio/backend/internal/domain/trade"
	"github.com/envio/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRemittanceRepository implements remittance.Repository using GORM
type GormRemittanceRepository struct {
	db *gorm.DB
}

// NewGormRemittanceRepository creates a new GormRemittanceRepository
func NewGormRemittanceRepository(db *gorm.DB) *GormRemittanceRepository {
	return &GormRemittanceRepository{db: db}
}

var _ remittance.Repository = (*GormRemittanceRepository)(nil)

// FindByID finds a remittance by its ID
func (r *GormRemittanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*remittance.Remittance, error) {
	var model models.RemittanceModel
	if err := dbFromContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a remittance by its remittance number
func (r *GormRemittanceRepository) FindByNumber(ctx context.Context, remittanceNumber string) (*remittance.Remittance, error) {
	var model models.RemittanceModel
	if err := dbFromContext(ctx, r.db).
		Where("remittance_number = ?", remittanceNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds remittances matching the filter
func (r *GormRemittanceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]remittance.Remittance, error) {
	var remitModels []models.RemittanceModel
	query := dbFromContext(ctx, r.db).Model(&models.RemittanceModel{})
	query = r.applyFilter(query, filter)

	if err := query.Find(&remitModels).Error; err != nil {
		return nil, err
	}
	remits := make([]remittance.Remittance, len(remitModels))
	for i := range remitModels {
		remits[i] = *remitModels[i].ToDomain()
	}
	return remits, nil
}

// FindByUser finds remittances belonging to a user
func (r *GormRemittanceRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]remittance.Remittance, error) {
	var remitModels []models.RemittanceModel
	query := dbFromContext(ctx, r.db).Model(&models.RemittanceModel{}).
		Where("user_id = ?", userID)
	query = r.applyFilter(query, filter)

	if err := query.Find(&remitModels).Error; err != nil {
		return nil, err
	}
	remits := make([]remittance.Remittance, len(remitModels))
	for i := range remitModels {
		remits[i] = *remitModels[i].ToDomain()
	}
	return remits, nil
}

// Count counts remittances matching the filter
func (r *GormRemittanceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := dbFromContext(ctx, r.db).Model(&models.RemittanceModel{})
	query = r.applyConditions(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountDeliveredByUser counts a user's remittances with validated payment and
// a delivery timestamp.
func (r *GormRemittanceRepository) CountDeliveredByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).Model(&models.RemittanceModel{}).
		Where("user_id = ? AND payment_status = ? AND delivered_at IS NOT NULL",
			userID, trade.PaymentStatusValidated).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a remittance
func (r *GormRemittanceRepository) Save(ctx context.Context, remit *remittance.Remittance) error {
	model := models.RemittanceModelFromDomain(remit)
	return dbFromContext(ctx, r.db).Save(model).Error
}

// SaveWithLock updates a remittance with an optimistic version check
func (r *GormRemittanceRepository) SaveWithLock(ctx context.Context, remit *remittance.Remittance) error {
	db := dbFromContext(ctx, r.db)

	var current models.RemittanceModel
	if err := db.Select("version").Where("id = ?", remit.GetID()).First(&current).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			model := models.RemittanceModelFromDomain(remit)
			return db.Create(model).Error
		}
		return err
	}

	// The domain aggregate already incremented its version
	expectedVersion := remit.GetVersion() - 1
	if current.Version != expectedVersion {
		return shared.ErrConcurrentModify
	}

	model := models.RemittanceModelFromDomain(remit)
	result := db.Model(model).
		Where("id = ? AND version = ?", remit.GetID(), expectedVersion).
		Save(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrentModify
	}
	return nil
}

// GenerateRemittanceNumber produces the next sequential remittance number for
// today, formatted REM-YYYYMMDD-NNNN.
func (r *GormRemittanceRepository) GenerateRemittanceNumber(ctx context.Context) (string, error) {
	var count int64
	day := time.Now().Format("20060102")

	if err := dbFromContext(ctx, r.db).Model(&models.RemittanceModel{}).
		Where("remittance_number LIKE ?", fmt.Sprintf("REM-%s-%%", day)).
		Count(&count).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("REM-%s-%04d", day, count+1), nil
}

// applyFilter applies conditions, sorting and pagination to the query
func (r *GormRemittanceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyConditions(query, filter)

	sortField := ValidateSortField(filter.OrderBy, RemittanceSortFields, "created_at")
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

func (r *GormRemittanceRepository) applyConditions(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(remittance_number ILIKE ? OR recipient_name ILIKE ?)", searchPattern, searchPattern)
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
