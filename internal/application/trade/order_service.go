package trade

import (
	"context"

	appPayment "github.com/envio/backend/internal/application/payment"
	"github.com/envio/backend/internal/domain/audit"
	"github.com/envio/backend/internal/domain/payment"
	"github.com/envio/backend/internal/domain/shared"
	"github.com/envio/backend/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const orderEntityTable = "orders"

// OrderService handles the goods order lifecycle. Every state change commits
// together with its audit entry; an unauditable transition does not commit.
type OrderService struct {
	orderRepo      trade.OrderRepository
	allocation     *appPayment.AllocationService
	ledger         *appPayment.LedgerService
	auditLog       audit.Log
	uow            shared.UnitOfWork
	eventPublisher shared.EventPublisher
	notifier       shared.NotificationDispatcher
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo trade.OrderRepository,
	allocation *appPayment.AllocationService,
	ledger *appPayment.LedgerService,
	auditLog audit.Log,
	uow shared.UnitOfWork,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:  orderRepo,
		allocation: allocation,
		ledger:     ledger,
		auditLog:   auditLog,
		uow:        uow,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetNotificationDispatcher sets the outbound notification channel
func (s *OrderService) SetNotificationDispatcher(notifier shared.NotificationDispatcher) {
	s.notifier = notifier
}

// Create submits a checkout: allocates a collection account for the payable
// amount and opens the order in PENDING. Allocation consumes no capacity;
// the counters move only when the payment is validated.
func (s *OrderService) Create(ctx context.Context, actorID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	account, err := s.allocation.AllocateAccount(ctx, appPayment.AllocateRequest{
		Type:   payment.TransactionTypeGoods,
		Amount: req.TotalAmount.Add(req.ShippingCost),
	})
	if err != nil {
		return nil, err
	}

	orderNumber, err := s.orderRepo.GenerateOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	order, err := trade.NewOrder(orderNumber, req.UserID, req.TotalAmount, req.ShippingCost, account.ID)
	if err != nil {
		return nil, err
	}

	err = s.uow.Execute(ctx, func(txCtx context.Context) error {
		if err := s.orderRepo.Save(txCtx, order); err != nil {
			return err
		}
		return s.recordAudit(txCtx, audit.ActionCreate, order, &actorID, nil, "")
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// ValidatePayment marks the payment as reconciled and records the confirmed
// usage on the assigned account's counters, in one transaction. A usage that
// would breach the account's ceilings fails the validation.
func (s *OrderService) ValidatePayment(ctx context.Context, actorID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	prior := order.Snapshot()

	if err := order.ValidatePayment(); err != nil {
		return nil, err
	}

	err = s.uow.Execute(ctx, func(txCtx context.Context) error {
		if err := s.orderRepo.SaveWithLock(txCtx, order); err != nil {
			return err
		}
		if err := s.recordAudit(txCtx, audit.ActionUpdate, order, &actorID, prior, "payment validated"); err != nil {
			return err
		}
		return s.ledger.RecordUsage(txCtx, *order.AssignedAccountID, order.PayableAmount, &actorID)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)
	s.notify(ctx, "order.payment_validated", order)

	response := ToOrderResponse(order)
	return &response, nil
}

// RejectPayment records a failed reconciliation. The assigned account's
// counters are left untouched.
func (s *OrderService) RejectPayment(ctx context.Context, actorID, orderID uuid.UUID, req RejectPaymentRequest) (*OrderResponse, error) {
	return s.transition(ctx, actorID, orderID, "payment rejected: "+req.Reason, "order.payment_rejected", func(order *trade.Order) error {
		return order.RejectPayment(req.Reason)
	})
}

// Process moves the order into fulfillment. Requires validated payment.
func (s *OrderService) Process(ctx context.Context, actorID, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, actorID, orderID, "moved to processing", "order.processing", func(order *trade.Order) error {
		return order.Process()
	})
}

// Ship marks the order as handed to the carrier
func (s *OrderService) Ship(ctx context.Context, actorID, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, actorID, orderID, "shipped", "order.shipped", func(order *trade.Order) error {
		return order.Ship()
	})
}

// Deliver marks the order as received by the customer
func (s *OrderService) Deliver(ctx context.Context, actorID, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, actorID, orderID, "delivered", "order.delivered", func(order *trade.Order) error {
		return order.Deliver()
	})
}

// Complete closes the order. The completion event drives tier recomputation.
func (s *OrderService) Complete(ctx context.Context, actorID, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, actorID, orderID, "completed", "order.completed", func(order *trade.Order) error {
		return order.Complete()
	})
}

// Cancel terminates the order from any non-terminal state
func (s *OrderService) Cancel(ctx context.Context, actorID, orderID uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	return s.transition(ctx, actorID, orderID, "cancelled: "+req.Reason, "order.cancelled", func(order *trade.Order) error {
		return order.Cancel(req.Reason)
	})
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.UserID != nil {
		domainFilter.Filters["user_id"] = *filter.UserID
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToOrderResponses(orders), total, nil
}

// transition runs one lifecycle edge: load, mutate, save with version check
// plus audit entry in one transaction, then post-commit events and
// notification.
func (s *OrderService) transition(ctx context.Context, actorID, orderID uuid.UUID, reason, eventType string, fn func(*trade.Order) error) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	prior := order.Snapshot()

	if err := fn(order); err != nil {
		return nil, err
	}

	err = s.uow.Execute(ctx, func(txCtx context.Context) error {
		if err := s.orderRepo.SaveWithLock(txCtx, order); err != nil {
			return err
		}
		return s.recordAudit(txCtx, audit.ActionUpdate, order, &actorID, prior, reason)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)
	s.notify(ctx, eventType, order)

	response := ToOrderResponse(order)
	return &response, nil
}

func (s *OrderService) recordAudit(ctx context.Context, action audit.Action, order *trade.Order, actorID *uuid.UUID, prior any, reason string) error {
	entry, err := audit.NewEntry(action, orderEntityTable, order.ID, actorID, prior, order.Snapshot(), reason)
	if err != nil {
		return err
	}
	if err := s.auditLog.Record(ctx, entry); err != nil {
		s.logger.Error("audit write failed, rolling back order mutation",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
		return shared.ErrAuditWriteFailure
	}
	return nil
}

func (s *OrderService) publishEvents(ctx context.Context, order *trade.Order) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range order.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("event publish failed",
				zap.String("event_type", event.EventType()),
				zap.String("order_id", order.ID.String()),
				zap.Error(err))
		}
	}
	order.ClearDomainEvents()
}

func (s *OrderService) notify(ctx context.Context, eventType string, order *trade.Order) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.Dispatch(ctx, shared.Notification{
		EventType: eventType,
		EntityID:  order.ID,
		Recipient: order.UserID,
	})
	if err != nil {
		s.logger.Warn("notification dispatch failed",
			zap.String("event_type", eventType),
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
	}
}
