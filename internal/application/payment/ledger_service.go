package payment

import (
	"context"
	"errors"
	"time"

	"github.com/envio/backend/internal/domain/audit"
	"github.com/envio/backend/internal/domain/payment"
	"github.com/envio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxRecordAttempts = 3

// LedgerService applies confirmed usage to account counters. Each increment
// is one load-mutate-CAS cycle per row, retried a bounded number of times
// under contention.
type LedgerService struct {
	accountRepo    payment.AccountRepository
	auditLog       audit.Log
	uow            shared.UnitOfWork
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(accountRepo payment.AccountRepository, auditLog audit.Log, uow shared.UnitOfWork, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		accountRepo: accountRepo,
		auditLog:    auditLog,
		uow:         uow,
		logger:      logger,
		now:         time.Now,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *LedgerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// RecordUsage increments an account's daily and monthly counters by amount,
// applying any pending period reset first. Retries the version CAS up to
// three times; exhaustion surfaces shared.ErrConcurrentModify.
func (s *LedgerService) RecordUsage(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, actorID *uuid.UUID) error {
	var lastErr error

	for attempt := 0; attempt < maxRecordAttempts; attempt++ {
		account, err := s.accountRepo.FindByID(ctx, accountID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.ErrAccountNotFound
			}
			return err
		}
		prior := account.Snapshot()

		if err := account.RecordUsage(amount, s.now()); err != nil {
			return err
		}

		err = s.uow.Execute(ctx, func(txCtx context.Context) error {
			if err := s.accountRepo.SaveWithLock(txCtx, account); err != nil {
				return err
			}
			return s.recordAudit(txCtx, account, actorID, prior, "usage recorded")
		})
		if err == nil {
			s.publishEvents(ctx, account)
			return nil
		}
		if !errors.Is(err, shared.ErrConcurrentModify) {
			return err
		}

		lastErr = err
		s.logger.Debug("ledger increment lost version race, retrying",
			zap.String("account_id", accountID.String()),
			zap.Int("attempt", attempt+1))
	}

	s.logger.Warn("ledger increment exhausted retries",
		zap.String("account_id", accountID.String()),
		zap.Error(lastErr))
	return shared.ErrConcurrentModify
}

// ResetStale zeroes counters on accounts whose last reset predates today.
// The scheduler runs it shortly after midnight; reads self-heal regardless,
// so the sweep only keeps stored counters honest for reporting.
func (s *LedgerService) ResetStale(ctx context.Context) (int, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stale, err := s.accountRepo.FindStale(ctx, today)
	if err != nil {
		return 0, err
	}

	reset := 0
	for _, account := range stale {
		prior := account.Snapshot()
		if !account.ResetCounters(now) {
			continue
		}

		err := s.uow.Execute(ctx, func(txCtx context.Context) error {
			if err := s.accountRepo.SaveWithLock(txCtx, account); err != nil {
				return err
			}
			return s.recordAudit(txCtx, account, nil, prior, "scheduled counter reset")
		})
		if err != nil {
			// A lost race means traffic already reset the row. Skip it.
			if errors.Is(err, shared.ErrConcurrentModify) {
				continue
			}
			return reset, err
		}
		reset++
	}

	return reset, nil
}

// publishEvents flushes the account's pending domain events after commit
func (s *LedgerService) publishEvents(ctx context.Context, account *payment.Account) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range account.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("event publish failed",
				zap.String("event_type", event.EventType()),
				zap.String("account_id", account.ID.String()),
				zap.Error(err))
		}
	}
	account.ClearDomainEvents()
}

func (s *LedgerService) recordAudit(ctx context.Context, account *payment.Account, actorID *uuid.UUID, prior payment.AccountSnapshot, reason string) error {
	entry, err := audit.NewEntry(audit.ActionUpdate, accountEntityTable, account.ID, actorID, prior, account.Snapshot(), reason)
	if err != nil {
		return err
	}
	if err := s.auditLog.Record(ctx, entry); err != nil {
		s.logger.Error("audit write failed, rolling back ledger mutation",
			zap.String("account_id", account.ID.String()),
			zap.Error(err))
		return shared.ErrAuditWriteFailure
	}
	return nil
}
