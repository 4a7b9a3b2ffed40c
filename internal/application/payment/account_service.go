package payment

import (
	"context"

	"github.com/envio/backend/internal/domain/audit"
	"github.com/envio/backend/internal/domain/payment"
	"github.com/envio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const accountEntityTable = "payment_accounts"

// AccountService handles operator-facing payment account management.
// Every mutation writes an audit entry in the same transaction as the save;
// a mutation that cannot be audited does not commit.
type AccountService struct {
	accountRepo    payment.AccountRepository
	auditLog       audit.Log
	uow            shared.UnitOfWork
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(accountRepo payment.AccountRepository, auditLog audit.Log, uow shared.UnitOfWork, logger *zap.Logger) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		auditLog:    auditLog,
		uow:         uow,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *AccountService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a new payment collection account
func (s *AccountService) Create(ctx context.Context, actorID uuid.UUID, req CreateAccountRequest) (*AccountResponse, error) {
	account, err := payment.NewAccount(req.Name, req.Holder, req.UsableForGoods, req.UsableForRemittances, req.PriorityOrder)
	if err != nil {
		return nil, err
	}
	if err := account.SetLimits(req.DailyLimit, req.MonthlyLimit, req.SecurityLimit); err != nil {
		return nil, err
	}

	err = s.uow.Execute(ctx, func(txCtx context.Context) error {
		if err := s.accountRepo.Save(txCtx, account); err != nil {
			return err
		}
		return s.recordAudit(txCtx, audit.ActionCreate, account.ID, &actorID, nil, account.Snapshot(), "")
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, account)

	response := ToAccountResponse(account)
	return &response, nil
}

// Update changes an account's limits, priority, or holder details
func (s *AccountService) Update(ctx context.Context, actorID, accountID uuid.UUID, req UpdateAccountRequest) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	prior := account.Snapshot()

	err = account.ApplyUpdate(payment.AccountUpdate{
		Name:          req.Name,
		Holder:        req.Holder,
		DailyLimit:    req.DailyLimit,
		MonthlyLimit:  req.MonthlyLimit,
		SecurityLimit: req.SecurityLimit,
		PriorityOrder: req.PriorityOrder,
	})
	if err != nil {
		return nil, err
	}

	err = s.uow.Execute(ctx, func(txCtx context.Context) error {
		if err := s.accountRepo.SaveWithLock(txCtx, account); err != nil {
			return err
		}
		return s.recordAudit(txCtx, audit.ActionUpdate, account.ID, &actorID, prior, account.Snapshot(), "")
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, account)

	response := ToAccountResponse(account)
	return &response, nil
}

// Enable puts an account back into the allocation pool
func (s *AccountService) Enable(ctx context.Context, actorID, accountID uuid.UUID) (*AccountResponse, error) {
	return s.toggle(ctx, actorID, accountID, true, "account enabled")
}

// Disable removes an account from the allocation pool without deleting it
func (s *AccountService) Disable(ctx context.Context, actorID, accountID uuid.UUID) (*AccountResponse, error) {
	return s.toggle(ctx, actorID, accountID, false, "account disabled")
}

func (s *AccountService) toggle(ctx context.Context, actorID, accountID uuid.UUID, enabled bool, reason string) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	prior := account.Snapshot()

	if enabled {
		account.Enable()
	} else {
		account.Disable()
	}

	err = s.uow.Execute(ctx, func(txCtx context.Context) error {
		if err := s.accountRepo.SaveWithLock(txCtx, account); err != nil {
			return err
		}
		return s.recordAudit(txCtx, audit.ActionUpdate, account.ID, &actorID, prior, account.Snapshot(), reason)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, account)

	response := ToAccountResponse(account)
	return &response, nil
}

// GetByID retrieves an account by ID
func (s *AccountService) GetByID(ctx context.Context, accountID uuid.UUID) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	response := ToAccountResponse(account)
	return &response, nil
}

// List retrieves accounts with filtering and pagination
func (s *AccountService) List(ctx context.Context, filter AccountListFilter) ([]AccountResponse, int64, error) {
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
	if filter.Enabled != nil {
		domainFilter.Filters["enabled"] = *filter.Enabled
	}

	accounts, err := s.accountRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.accountRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToAccountResponses(accounts), total, nil
}

// publishEvents flushes the account's pending domain events after commit
func (s *AccountService) publishEvents(ctx context.Context, account *payment.Account) {
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

// recordAudit appends an audit entry inside the caller's transaction. A store
// failure is escalated to the operational log and fails the whole mutation.
func (s *AccountService) recordAudit(ctx context.Context, action audit.Action, accountID uuid.UUID, actorID *uuid.UUID, prior, post any, reason string) error {
	entry, err := audit.NewEntry(action, accountEntityTable, accountID, actorID, prior, post, reason)
	if err != nil {
		return err
	}
	if err := s.auditLog.Record(ctx, entry); err != nil {
		s.logger.Error("audit write failed, rolling back mutation",
			zap.String("entity_table", accountEntityTable),
			zap.String("entity_id", accountID.String()),
			zap.Error(err))
		return shared.ErrAuditWriteFailure
	}
	return nil
}
