package audit

import (
	"context"

	"github.com/envio/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Log is the append-only audit store. Record participates in the ambient
// transaction when the context carries one (see shared.UnitOfWork), so an
// entry commits or rolls back together with the mutation it describes.
type Log interface {
	// Record appends an entry
	Record(ctx context.Context, entry *Entry) error

	// History returns the entries for one entity, newest first
	History(ctx context.Context, entityTable string, entityID uuid.UUID, filter shared.Filter) (*shared.Paginated[*Entry], error)

	// ByActor returns the entries recorded by one actor, newest first
	ByActor(ctx context.Context, actorID uuid.UUID, filter shared.Filter) (*shared.Paginated[*Entry], error)
}
