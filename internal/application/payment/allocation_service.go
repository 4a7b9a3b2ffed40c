package payment

import (
	"context"
	"time"

	"github.com/envio/backend/internal/domain/payment"
	"github.com/envio/backend/internal/domain/shared"
)

// AllocationService picks the payment account an incoming transaction should
// use. Allocation never consumes capacity; only a later confirmed usage does.
type AllocationService struct {
	accountRepo payment.AccountRepository
	now         func() time.Time
}

// NewAllocationService creates a new AllocationService
func NewAllocationService(accountRepo payment.AccountRepository) *AllocationService {
	return &AllocationService{
		accountRepo: accountRepo,
		now:         time.Now,
	}
}

// Allocate selects the best account for the request, or
// shared.ErrNoAvailableAccount when every account is over limit or unsuitable.
func (s *AllocationService) Allocate(ctx context.Context, req AllocateRequest) (*AccountResponse, error) {
	account, err := s.AllocateAccount(ctx, req)
	if err != nil {
		return nil, err
	}
	response := ToAccountResponse(account)
	return &response, nil
}

// AllocateAccount is the domain-level variant used by the order and
// remittance services at creation time.
func (s *AllocationService) AllocateAccount(ctx context.Context, req AllocateRequest) (*payment.Account, error) {
	txReq, err := payment.NewTransactionRequest(req.Type, req.Amount)
	if err != nil {
		return nil, err
	}

	candidates, err := s.accountRepo.FindEnabled(ctx)
	if err != nil {
		return nil, err
	}

	account := payment.SelectAccount(candidates, txReq, s.now())
	if account == nil {
		return nil, shared.ErrNoAvailableAccount
	}
	return account, nil
}
