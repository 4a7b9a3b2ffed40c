package persistence

import (
	"context"
	"fmt"

	"github.com/envio/backend/internal/domain/audit"
	"github.com/envio/backend/internal/domain/shared"
	"github.com/envio/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAuditLogRepository implements audit.Log using GORM. Record joins the
// ambient transaction when the context carries one, so an audit entry commits
// or rolls back together with the mutation it describes.
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewGormAuditLogRepository creates a new GormAuditLogRepository
func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

var _ audit.Log = (*GormAuditLogRepository)(nil)

// Record appends an audit entry. Entries are insert-only; there is no update
// or delete path through this repository.
func (r *GormAuditLogRepository) Record(ctx context.Context, entry *audit.Entry) error {
	model := models.AuditEntryModelFromDomain(entry)
	return dbFromContext(ctx, r.db).Create(model).Error
}

// History returns the entries for one entity, newest first
func (r *GormAuditLogRepository) History(ctx context.Context, entityTable string, entityID uuid.UUID, filter shared.Filter) (*shared.Paginated[*audit.Entry], error) {
	query := dbFromContext(ctx, r.db).Model(&models.AuditEntryModel{}).
		Where("entity_table = ? AND entity_id = ?", entityTable, entityID)
	return r.paginate(query, filter)
}

// ByActor returns the entries recorded by one actor, newest first
func (r *GormAuditLogRepository) ByActor(ctx context.Context, actorID uuid.UUID, filter shared.Filter) (*shared.Paginated[*audit.Entry], error) {
	query := dbFromContext(ctx, r.db).Model(&models.AuditEntryModel{}).
		Where("actor_id = ?", actorID)
	return r.paginate(query, filter)
}

func (r *GormAuditLogRepository) paginate(query *gorm.DB, filter shared.Filter) (*shared.Paginated[*audit.Entry], error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	sortField := ValidateSortField(filter.OrderBy, AuditEntrySortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		offset := (filter.Page - 1) * filter.PageSize
		if offset > 0 {
			query = query.Offset(offset)
		}
	}

	var entryModels []models.AuditEntryModel
	if err := query.Find(&entryModels).Error; err != nil {
		return nil, err
	}

	entries := make([]*audit.Entry, len(entryModels))
	for i := range entryModels {
		entries[i] = entryModels[i].ToDomain()
	}

	page := shared.NewPaginated(entries, total, filter.Page, filter.PageSize)
	return &page, nil
}
