package trade

import (
	"context"

	"github.com/envio/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderRepository manages order persistence
type OrderRepository interface {
	// FindByID finds an order by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order by its order number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindAll finds orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// FindByUser finds orders belonging to a user
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Order, error)

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountCompletedByUser counts a user's completed orders, the order half
	// of the tier interaction count
	CountCompletedByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// Save creates or updates an order
	Save(ctx context.Context, order *Order) error

	// SaveWithLock updates an order with an optimistic version check,
	// returning shared.ErrConcurrentModify when the row changed underneath
	SaveWithLock(ctx context.Context, order *Order) error

	// GenerateOrderNumber produces the next sequential order number
	GenerateOrderNumber(ctx context.Context) (string, error)
}
