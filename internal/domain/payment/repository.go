package payment

import (
	"context"
	"time"

	"github.com/envio/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountRepository manages payment account persistence
type AccountRepository interface {
	// FindByID finds an account by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// FindEnabled returns every enabled account, the allocator's candidate pool
	FindEnabled(ctx context.Context) ([]*Account, error)

	// FindStale returns accounts whose counters were last reset before the given day
	FindStale(ctx context.Context, before time.Time) ([]*Account, error)

	// FindAll finds all accounts matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]*Account, error)

	// Count counts accounts matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates an account
	Save(ctx context.Context, account *Account) error

	// SaveWithLock updates an account with an optimistic version check,
	// returning shared.ErrConcurrentModify when the row changed underneath
	SaveWithLock(ctx context.Context, account *Account) error
}
