package remittance

import (
	"context"

	appPayment "github.com/envio/backend/internal/application/payment"
	"github.com/envio/backend/internal/domain/audit"
	"github.com/envio/backend/internal/domain/payment"
	"github.com/envio/backend/internal/domain/remittance"
	"github.com/envio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const remittanceEntityTable = "remittances"

// RemittanceService handles the remittance lifecycle. It mirrors the order
// service's transition discipline: version-checked save plus audit entry in
// one transaction, post-commit events and notification.
type RemittanceService struct {
	remitRepo      remittance.Repository
	allocation     *appPayment.AllocationService
	ledger         *appPayment.LedgerService
	auditLog       audit.Log
	uow            shared.UnitOfWork
	eventPublisher shared.EventPublisher
	notifier       shared.NotificationDispatcher
	logger         *zap.Logger
}

// NewRemittanceService creates a new RemittanceService
func NewRemittanceService(
	remitRepo remittance.Repository,
	allocation *appPayment.AllocationService,
	ledger *appPayment.LedgerService,
	auditLog audit.Log,
	uow shared.UnitOfWork,
	logger *zap.Logger,
) *RemittanceService {
	return &RemittanceService{
		remitRepo:  remitRepo,
		allocation: allocation,
		ledger:     ledger,
		auditLog:   auditLog,
		uow:        uow,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *RemittanceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetNotificationDispatcher sets the outbound notification channel
func (s *RemittanceService) SetNotificationDispatcher(notifier shared.NotificationDispatcher) {
	s.notifier = notifier
}

// Create submits a remittance: allocates a collection account for the sent
// amount and opens the remittance in PENDING with the captured rate.
func (s *RemittanceService) Create(ctx context.Context, actorID uuid.UUID, req CreateRemittanceRequest) (*RemittanceResponse, error) {
	account, err := s.allocation.AllocateAccount(ctx, appPayment.AllocateRequest{
		Type:   payment.TransactionTypeRemittance,
		Amount: req.AmountSent,
	})
	if err != nil {
		return nil, err
	}

	number, err := s.remitRepo.GenerateRemittanceNumber(ctx)
	if err != nil {
		return nil, err
	}

	recipient := remittance.Recipient{
		Name:    req.RecipientName,
		Country: req.RecipientCountry,
		Phone:   req.RecipientPhone,
	}
	remit, err := remittance.NewRemittance(number, req.UserID, req.AmountSent, req.ExchangeRate, req.PayoutCurrency, recipient, account.ID)
	if err != nil {
		return nil, err
	}

	err = s.uow.Execute(ctx, func(txCtx context.Context) error {
		if err := s.remitRepo.Save(txCtx, remit); err != nil {
			return err
		}
		return s.recordAudit(txCtx, audit.ActionCreate, remit, &actorID, nil, "")
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, remit)

	response := ToRemittanceResponse(remit)
	return &response, nil
}

// ValidatePayment marks the inbound payment as reconciled and records the
// confirmed usage on the assigned account's counters, in one transaction.
func (s *RemittanceService) ValidatePayment(ctx context.Context, actorID, remitID uuid.UUID) (*RemittanceResponse, error) {
	remit, err := s.remitRepo.FindByID(ctx, remitID)
	if err != nil {
		return nil, err
	}
	prior := remit.Snapshot()

	if err := remit.ValidatePayment(); err != nil {
		return nil, err
	}

	err = s.uow.Execute(ctx, func(txCtx context.Context) error {
		if err := s.remitRepo.SaveWithLock(txCtx, remit); err != nil {
			return err
		}
		if err := s.recordAudit(txCtx, audit.ActionUpdate, remit, &actorID, prior, "payment validated"); err != nil {
			return err
		}
		return s.ledger.RecordUsage(txCtx, *remit.AssignedAccountID, remit.AmountSent, &actorID)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, remit)
	s.notify(ctx, "remittance.payment_validated", remit)

	response := ToRemittanceResponse(remit)
	return &response, nil
}

// RejectPayment records a failed reconciliation
func (s *RemittanceService) RejectPayment(ctx context.Context, actorID, remitID uuid.UUID, req RejectPaymentRequest) (*RemittanceResponse, error) {
	return s.transition(ctx, actorID, remitID, "payment rejected: "+req.Reason, "remittance.payment_rejected", func(remit *remittance.Remittance) error {
		return remit.RejectPayment(req.Reason)
	})
}

// Process moves the remittance into payout preparation
func (s *RemittanceService) Process(ctx context.Context, actorID, remitID uuid.UUID) (*RemittanceResponse, error) {
	return s.transition(ctx, actorID, remitID, "moved to processing", "remittance.processing", func(remit *remittance.Remittance) error {
		return remit.Process()
	})
}

// Ship marks the payout as sent to the paying agent
func (s *RemittanceService) Ship(ctx context.Context, actorID, remitID uuid.UUID) (*RemittanceResponse, error) {
	return s.transition(ctx, actorID, remitID, "payout dispatched", "remittance.dispatched", func(remit *remittance.Remittance) error {
		return remit.Ship()
	})
}

// Deliver marks the payout as received by the recipient. For remittances
// this is the interaction counted by tier reclassification.
func (s *RemittanceService) Deliver(ctx context.Context, actorID, remitID uuid.UUID) (*RemittanceResponse, error) {
	return s.transition(ctx, actorID, remitID, "delivered", "remittance.delivered", func(remit *remittance.Remittance) error {
		return remit.Deliver()
	})
}

// Complete closes the remittance after delivery
func (s *RemittanceService) Complete(ctx context.Context, actorID, remitID uuid.UUID) (*RemittanceResponse, error) {
	return s.transition(ctx, actorID, remitID, "completed", "remittance.completed", func(remit *remittance.Remittance) error {
		return remit.Complete()
	})
}

// Cancel terminates the remittance from any non-terminal state
func (s *RemittanceService) Cancel(ctx context.Context, actorID, remitID uuid.UUID, req CancelRemittanceRequest) (*RemittanceResponse, error) {
	return s.transition(ctx, actorID, remitID, "cancelled: "+req.Reason, "remittance.cancelled", func(remit *remittance.Remittance) error {
		return remit.Cancel(req.Reason)
	})
}

// GetByID retrieves a remittance by ID
func (s *RemittanceService) GetByID(ctx context.Context, remitID uuid.UUID) (*RemittanceResponse, error) {
	remit, err := s.remitRepo.FindByID(ctx, remitID)
	if err != nil {
		return nil, err
	}
	response := ToRemittanceResponse(remit)
	return &response, nil
}

// List retrieves remittances with filtering and pagination
func (s *RemittanceService) List(ctx context.Context, filter RemittanceListFilter) ([]RemittanceResponse, int64, error) {
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

	remits, err := s.remitRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.remitRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToRemittanceResponses(remits), total, nil
}

func (s *RemittanceService) transition(ctx context.Context, actorID, remitID uuid.UUID, reason, eventType string, fn func(*remittance.Remittance) error) (*RemittanceResponse, error) {
	remit, err := s.remitRepo.FindByID(ctx, remitID)
	if err != nil {
		return nil, err
	}
	prior := remit.Snapshot()

	if err := fn(remit); err != nil {
		return nil, err
	}

	err = s.uow.Execute(ctx, func(txCtx context.Context) error {
		if err := s.remitRepo.SaveWithLock(txCtx, remit); err != nil {
			return err
		}
		return s.recordAudit(txCtx, audit.ActionUpdate, remit, &actorID, prior, reason)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, remit)
	s.notify(ctx, eventType, remit)

	response := ToRemittanceResponse(remit)
	return &response, nil
}

func (s *RemittanceService) recordAudit(ctx context.Context, action audit.Action, remit *remittance.Remittance, actorID *uuid.UUID, prior any, reason string) error {
	entry, err := audit.NewEntry(action, remittanceEntityTable, remit.ID, actorID, prior, remit.Snapshot(), reason)
	if err != nil {
		return err
	}
	if err := s.auditLog.Record(ctx, entry); err != nil {
		s.logger.Error("audit write failed, rolling back remittance mutation",
			zap.String("remittance_id", remit.ID.String()),
			zap.Error(err))
		return shared.ErrAuditWriteFailure
	}
	return nil
}

func (s *RemittanceService) publishEvents(ctx context.Context, remit *remittance.Remittance) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range remit.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("event publish failed",
				zap.String("event_type", event.EventType()),
				zap.String("remittance_id", remit.ID.String()),
				zap.Error(err))
		}
	}
	remit.ClearDomainEvents()
}

func (s *RemittanceService) notify(ctx context.Context, eventType string, remit *remittance.Remittance) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.Dispatch(ctx, shared.Notification{
		EventType: eventType,
		EntityID:  remit.ID,
		Recipient: remit.UserID,
	})
	if err != nil {
		s.logger.Warn("notification dispatch failed",
			zap.String("event_type", eventType),
			zap.String("remittance_id", remit.ID.String()),
			zap.Error(err))
	}
}
