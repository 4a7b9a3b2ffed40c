package shared

import "context"

// UnitOfWork runs fn inside a single storage transaction. Repository calls
// made with the context passed to fn join that transaction; fn returning an
// error rolls everything back.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}
