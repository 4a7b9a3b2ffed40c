package tier

import (
	"context"

	"github.com/envio/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AssignmentRepository stores current assignments and their history trail
type AssignmentRepository interface {
	// FindByUser returns the user's current assignment, or shared.ErrNotFound
	// when the user has never been classified.
	FindByUser(ctx context.Context, userID uuid.UUID) (*Assignment, error)

	// Save upserts the current assignment for the assignment's user
	Save(ctx context.Context, assignment *Assignment) error

	// AppendHistory appends one history record. History is write-once.
	AppendHistory(ctx context.Context, entry *HistoryEntry) error

	// HistoryByUser returns the user's history, newest first
	HistoryByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[*HistoryEntry], error)
}
