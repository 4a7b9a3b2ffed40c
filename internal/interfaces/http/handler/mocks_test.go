package handler

import (
	"context"
	"time"

	"github.com/envio/backend/internal/domain/audit"
	"github.com/envio/backend/internal/domain/payment"
	"github.com/envio/backend/internal/domain/remittance"
	"github.com/envio/backend/internal/domain/shared"
	"github.com/envio/backend/internal/domain/tier"
	"github.com/envio/backend/internal/domain/trade"
	"github.com/envio/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setJWTContext seeds the auth context values the way the JWT
// middleware does in production.
func setJWTContext(c *gin.Context, userID uuid.UUID, role string) {
	c.Set(middleware.JWTUserIDKey, userID.String())
	c.Set(middleware.JWTRoleKey, role)
}

// authMiddleware returns a test middleware that authenticates every
// request as the given user.
func authMiddleware(userID uuid.UUID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		setJWTContext(c, userID, role)
		c.Next()
	}
}

// fakeUnitOfWork executes the function directly, without a transaction.
type fakeUnitOfWork struct{}

func (u *fakeUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var _ shared.UnitOfWork = (*fakeUnitOfWork)(nil)

// MockAuditLog implements audit.Log for testing
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

var _ audit.Log = (*MockAuditLog)(nil)

// MockAccountRepository implements payment.AccountRepository for testing
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

var _ payment.AccountRepository = (*MockAccountRepository)(nil)

// MockOrderRepository implements trade.OrderRepository for testing
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*trade.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]trade.Order, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountCompletedByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, order *trade.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GenerateOrderNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

var _ trade.OrderRepository = (*MockOrderRepository)(nil)

// MockRemittanceRepository implements remittance.Repository for testing
type MockRemittanceRepository struct {
	mock.Mock
}

func (m *MockRemittanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*remittance.Remittance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*remittance.Remittance), args.Error(1)
}

func (m *MockRemittanceRepository) FindByNumber(ctx context.Context, remittanceNumber string) (*remittance.Remittance, error) {
	args := m.Called(ctx, remittanceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*remittance.Remittance), args.Error(1)
}

func (m *MockRemittanceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]remittance.Remittance, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]remittance.Remittance), args.Error(1)
}

func (m *MockRemittanceRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]remittance.Remittance, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]remittance.Remittance), args.Error(1)
}

func (m *MockRemittanceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRemittanceRepository) CountDeliveredByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRemittanceRepository) Save(ctx context.Context, remit *remittance.Remittance) error {
	args := m.Called(ctx, remit)
	return args.Error(0)
}

func (m *MockRemittanceRepository) SaveWithLock(ctx context.Context, remit *remittance.Remittance) error {
	args := m.Called(ctx, remit)
	return args.Error(0)
}

func (m *MockRemittanceRepository) GenerateRemittanceNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

var _ remittance.Repository = (*MockRemittanceRepository)(nil)

// MockAssignmentRepository implements tier.AssignmentRepository for testing
type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*tier.Assignment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tier.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) Save(ctx context.Context, assignment *tier.Assignment) error {
	args := m.Called(ctx, assignment)
	return args.Error(0)
}

func (m *MockAssignmentRepository) AppendHistory(ctx context.Context, entry *tier.HistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAssignmentRepository) HistoryByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[*tier.HistoryEntry], error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*tier.HistoryEntry]), args.Error(1)
}

var _ tier.AssignmentRepository = (*MockAssignmentRepository)(nil)
