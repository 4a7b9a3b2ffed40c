package payment

import (
	"context"
	"time"

	"github.com/envio/backend/internal/domain/audit"
	"github.com/envio/backend/internal/domain/payment"
	"github.com/envio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of payment.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Account), args.Error(1)
}

func (m *MockAccountRepository) FindEnabled(ctx context.Context) ([]*payment.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Account), args.Error(1)
}

func (m *MockAccountRepository) FindStale(ctx context.Context, before time.Time) ([]*payment.Account, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*payment.Account, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Account), args.Error(1)
}

func (m *MockAccountRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) Save(ctx context.Context, account *payment.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) SaveWithLock(ctx context.Context, account *payment.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// MockAuditLog is a mock implementation of audit.Log
type MockAuditLog struct {
	mock.Mock
}

func (m *MockAuditLog) Record(ctx context.Context, entry *audit.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditLog) History(ctx context.Context, entityTable string, entityID uuid.UUID, filter shared.Filter) (*shared.Paginated[*audit.Entry], error) {
	args := m.Called(ctx, entityTable, entityID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*audit.Entry]), args.Error(1)
}

func (m *MockAuditLog) ByActor(ctx context.Context, actorID uuid.UUID, filter shared.Filter) (*shared.Paginated[*audit.Entry], error) {
	args := m.Called(ctx, actorID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*audit.Entry]), args.Error(1)
}

// passthroughUoW runs the unit immediately without a real transaction
type passthroughUoW struct{}

func (passthroughUoW) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// capturingPublisher records every event routed through Publish
type capturingPublisher struct {
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *capturingPublisher) eventTypes() []string {
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.EventType())
	}
	return types
}
