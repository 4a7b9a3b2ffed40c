package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/envio/backend/internal/domain/shared"
	"github.com/envio/backend/internal/domain/tier"
	"github.com/envio/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTierAssignmentRepository implements tier.AssignmentRepository using GORM
type GormTierAssignmentRepository struct {
	db *gorm.DB
}

// NewGormTierAssignmentRepository creates a new GormTierAssignmentRepository
func NewGormTierAssignmentRepository(db *gorm.DB) *GormTierAssignmentRepository {
	return &GormTierAssignmentRepository{db: db}
}

var _ tier.AssignmentRepository = (*GormTierAssignmentRepository)(nil)

// FindByUser returns the user's current assignment, or shared.ErrNotFound
// when the user has never been classified.
func (r *GormTierAssignmentRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*tier.Assignment, error) {
	var model models.TierAssignmentModel
	if err := dbFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save upserts the current assignment keyed on user_id
func (r *GormTierAssignmentRepository) Save(ctx context.Context, assignment *tier.Assignment) error {
	model := models.TierAssignmentModelFromDomain(assignment)
	return dbFromContext(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"tier", "source", "assigned_by", "reason", "interaction_count", "assigned_at"}),
		}).
		Create(model).Error
}

// AppendHistory appends one history record. History rows are never updated.
func (r *GormTierAssignmentRepository) AppendHistory(ctx context.Context, entry *tier.HistoryEntry) error {
	model := models.TierHistoryModelFromDomain(entry)
	return dbFromContext(ctx, r.db).Create(model).Error
}

// HistoryByUser returns the user's history, newest first
func (r *GormTierAssignmentRepository) HistoryByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[*tier.HistoryEntry], error) {
	query := dbFromContext(ctx, r.db).Model(&models.TierHistoryModel{}).
		Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("created_at %s", sortOrder))

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		offset := (filter.Page - 1) * filter.PageSize
		if offset > 0 {
			query = query.Offset(offset)
		}
	}

	var historyModels []models.TierHistoryModel
	if err := query.Find(&historyModels).Error; err != nil {
		return nil, err
	}

	entries := make([]*tier.HistoryEntry, len(historyModels))
	for i := range historyModels {
		entries[i] = historyModels[i].ToDomain()
	}

	page := shared.NewPaginated(entries, total, filter.Page, filter.PageSize)
	return &page, nil
}
