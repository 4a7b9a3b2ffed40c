package remittance

import (
	"context"

	"github.com/envio/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository manages remittance persistence
type Repository interface {
	// FindByID finds a remittance by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Remittance, error)

	// FindByNumber finds a remittance by its remittance number
	FindByNumber(ctx context.Context, remittanceNumber string) (*Remittance, error)

	// FindAll finds remittances matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Remittance, error)

	// FindByUser finds remittances belonging to a user
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Remittance, error)

	// Count counts remittances matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountDeliveredByUser counts a user's remittances with validated payment
	// and a delivery timestamp, the remittance half of the tier interaction count
	CountDeliveredByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// Save creates or updates a remittance
	Save(ctx context.Context, remit *Remittance) error

	// SaveWithLock updates a remittance with an optimistic version check,
	// returning shared.ErrConcurrentModify when the row changed underneath
	SaveWithLock(ctx context.Context, remit *Remittance) error

	// GenerateRemittanceNumber produces the next sequential remittance number
	GenerateRemittanceNumber(ctx context.Context) (string, error)
}
