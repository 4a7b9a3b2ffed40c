package trade

import (
	"context"
	"errors"
	"testing"
	"time"

	appPayment "github.com/envio/backend/internal/application/payment"
	"github.com/envio/backend/internal/domain/audit"
	"github.com/envio/backend/internal/domain/payment"
	"github.com/envio/backend/internal/domain/shared"
	"github.com/envio/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockOrderRepository is a mock implementation of trade.OrderRepository
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

// MockNotifier is a mock implementation of shared.NotificationDispatcher
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Dispatch(ctx context.Context, n shared.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type passthroughUoW struct{}

func (passthroughUoW) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type orderFixture struct {
	orderRepo   *MockOrderRepository
	accountRepo *MockAccountRepository
	auditLog    *MockAuditLog
	notifier    *MockNotifier
	svc         *OrderService
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		orderRepo:   new(MockOrderRepository),
		accountRepo: new(MockAccountRepository),
		auditLog:    new(MockAuditLog),
		notifier:    new(MockNotifier),
	}
	logger := zap.NewNop()
	allocation := appPayment.NewAllocationService(f.accountRepo)
	ledger := appPayment.NewLedgerService(f.accountRepo, f.auditLog, passthroughUoW{}, logger)
	f.svc = NewOrderService(f.orderRepo, allocation, ledger, f.auditLog, passthroughUoW{}, logger)
	f.svc.SetNotificationDispatcher(f.notifier)
	return f
}

func newTestAccount(t *testing.T, dailyLimit string) *payment.Account {
	t.Helper()
	account, err := payment.NewAccount("Zelle Main", "Maria Perez", true, true, 1)
	require.NoError(t, err)
	limit, err := decimal.NewFromString(dailyLimit)
	require.NoError(t, err)
	require.NoError(t, account.SetLimits(&limit, nil, nil))
	return account
}

func newPendingOrder(t *testing.T, accountID uuid.UUID) *trade.Order {
	t.Helper()
	order, err := trade.NewOrder("ORD-20260831-0001", uuid.New(), decimal.NewFromInt(80), decimal.NewFromInt(20), accountID)
	require.NoError(t, err)
	order.ClearDomainEvents()
	return order
}

func TestOrderService_Create(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()

	t.Run("allocates account and opens pending order", func(t *testing.T) {
		f := newOrderFixture()
		account := newTestAccount(t, "500")

		f.accountRepo.On("FindEnabled", ctx).Return([]*payment.Account{account}, nil)
		f.orderRepo.On("GenerateOrderNumber", ctx).Return("ORD-20260831-0001", nil)
		f.orderRepo.On("Save", ctx, mock.Anything).Return(nil)
		f.auditLog.On("Record", ctx, mock.MatchedBy(func(e *audit.Entry) bool {
			return e.Action == audit.ActionCreate && e.EntityTable == "orders"
		})).Return(nil)

		resp, err := f.svc.Create(ctx, actorID, CreateOrderRequest{
			UserID:       uuid.New(),
			TotalAmount:  decimal.NewFromInt(80),
			ShippingCost: decimal.NewFromInt(20),
		})

		require.NoError(t, err)
		assert.Equal(t, "PENDING", resp.Status)
		assert.Equal(t, "PENDING", resp.PaymentStatus)
		assert.Equal(t, "100", resp.PayableAmount)
		require.NotNil(t, resp.AssignedAccountID)
		assert.Equal(t, account.ID, *resp.AssignedAccountID)
		assert.True(t, account.CurrentDailyAmount.IsZero(), "allocation must not consume capacity")
	})

	t.Run("no account available", func(t *testing.T) {
		f := newOrderFixture()
		f.accountRepo.On("FindEnabled", ctx).Return([]*payment.Account{}, nil)

		_, err := f.svc.Create(ctx, actorID, CreateOrderRequest{
			UserID:      uuid.New(),
			TotalAmount: decimal.NewFromInt(80),
		})

		assert.ErrorIs(t, err, shared.ErrNoAvailableAccount)
		f.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestOrderService_ValidatePayment(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()

	t.Run("validates and records usage on the assigned account", func(t *testing.T) {
		f := newOrderFixture()
		account := newTestAccount(t, "500")
		order := newPendingOrder(t, account.ID)

		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		f.orderRepo.On("SaveWithLock", ctx, order).Return(nil)
		f.accountRepo.On("FindByID", ctx, account.ID).Return(account, nil)
		f.accountRepo.On("SaveWithLock", ctx, account).Return(nil)
		f.auditLog.On("Record", ctx, mock.Anything).Return(nil)
		f.notifier.On("Dispatch", ctx, mock.Anything).Return(nil)

		resp, err := f.svc.ValidatePayment(ctx, actorID, order.ID)

		require.NoError(t, err)
		assert.Equal(t, "VALIDATED", resp.PaymentStatus)
		assert.True(t, account.CurrentDailyAmount.Equal(decimal.NewFromInt(100)), "confirmed usage moves the counters")
		f.auditLog.AssertNumberOfCalls(t, "Record", 2)
	})

	t.Run("usage over account ceiling fails the validation", func(t *testing.T) {
		f := newOrderFixture()
		account := newTestAccount(t, "50")
		order := newPendingOrder(t, account.ID)

		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		f.orderRepo.On("SaveWithLock", ctx, order).Return(nil)
		f.accountRepo.On("FindByID", ctx, account.ID).Return(account, nil)
		f.auditLog.On("Record", ctx, mock.Anything).Return(nil)

		_, err := f.svc.ValidatePayment(ctx, actorID, order.ID)

		assert.Error(t, err)
		f.notifier.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
	})

	t.Run("already validated", func(t *testing.T) {
		f := newOrderFixture()
		account := newTestAccount(t, "500")
		order := newPendingOrder(t, account.ID)
		require.NoError(t, order.ValidatePayment())

		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)

		_, err := f.svc.ValidatePayment(ctx, actorID, order.ID)

		assert.Error(t, err)
		f.orderRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestOrderService_RejectPayment(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()

	f := newOrderFixture()
	account := newTestAccount(t, "500")
	order := newPendingOrder(t, account.ID)

	f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
	f.orderRepo.On("SaveWithLock", ctx, order).Return(nil)
	f.auditLog.On("Record", ctx, mock.Anything).Return(nil)
	f.notifier.On("Dispatch", ctx, mock.Anything).Return(nil)

	resp, err := f.svc.RejectPayment(ctx, actorID, order.ID, RejectPaymentRequest{Reason: "reference not found"})

	require.NoError(t, err)
	assert.Equal(t, "REJECTED", resp.PaymentStatus)
	assert.Equal(t, "reference not found", resp.RejectionReason)
	assert.True(t, account.CurrentDailyAmount.IsZero(), "rejected payment consumes no capacity")
	f.accountRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestOrderService_Transitions(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()

	t.Run("process requires validated payment", func(t *testing.T) {
		f := newOrderFixture()
		order := newPendingOrder(t, uuid.New())

		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)

		_, err := f.svc.Process(ctx, actorID, order.ID)

		assert.ErrorIs(t, err, shared.ErrPaymentNotValidated)
		f.orderRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("each transition writes exactly one audit entry", func(t *testing.T) {
		f := newOrderFixture()
		order := newPendingOrder(t, uuid.New())
		require.NoError(t, order.ValidatePayment())
		order.ClearDomainEvents()

		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		f.orderRepo.On("SaveWithLock", ctx, order).Return(nil)
		f.auditLog.On("Record", ctx, mock.Anything).Return(nil)
		f.notifier.On("Dispatch", ctx, mock.Anything).Return(nil)

		steps := []func() (*OrderResponse, error){
			func() (*OrderResponse, error) { return f.svc.Process(ctx, actorID, order.ID) },
			func() (*OrderResponse, error) { return f.svc.Ship(ctx, actorID, order.ID) },
			func() (*OrderResponse, error) { return f.svc.Deliver(ctx, actorID, order.ID) },
			func() (*OrderResponse, error) { return f.svc.Complete(ctx, actorID, order.ID) },
		}
		for i, step := range steps {
			_, err := step()
			require.NoError(t, err)
			f.auditLog.AssertNumberOfCalls(t, "Record", i+1)
		}

		assert.Equal(t, trade.OrderStatusCompleted, order.Status)
	})

	t.Run("cancel from terminal state fails closed", func(t *testing.T) {
		f := newOrderFixture()
		order := newPendingOrder(t, uuid.New())
		require.NoError(t, order.Cancel("customer request"))
		order.ClearDomainEvents()

		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)

		_, err := f.svc.Cancel(ctx, actorID, order.ID, CancelOrderRequest{Reason: "again"})

		assert.ErrorIs(t, err, shared.ErrInvalidTransition)
		f.orderRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("audit failure fails the transition", func(t *testing.T) {
		f := newOrderFixture()
		order := newPendingOrder(t, uuid.New())

		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		f.orderRepo.On("SaveWithLock", ctx, order).Return(nil)
		f.auditLog.On("Record", ctx, mock.Anything).Return(errors.New("disk full"))

		_, err := f.svc.Cancel(ctx, actorID, order.ID, CancelOrderRequest{Reason: "customer request"})

		assert.ErrorIs(t, err, shared.ErrAuditWriteFailure)
		f.notifier.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
	})

	t.Run("notification failure does not fail the transition", func(t *testing.T) {
		f := newOrderFixture()
		order := newPendingOrder(t, uuid.New())

		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		f.orderRepo.On("SaveWithLock", ctx, order).Return(nil)
		f.auditLog.On("Record", ctx, mock.Anything).Return(nil)
		f.notifier.On("Dispatch", ctx, mock.Anything).Return(errors.New("smtp down"))

		resp, err := f.svc.Cancel(ctx, actorID, order.ID, CancelOrderRequest{Reason: "customer request"})

		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", resp.Status)
	})
}
