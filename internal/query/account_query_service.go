package query

import (
	"context"

	"github.com/eaglebank/payment-service/internal/service"
	"github.com/eaglebank/payment-service/shared/cqrs"
	"github.com/eaglebank/payment-service/shared/models"
)

// AccountLookup reads single accounts, typically through the Redis read model.
type AccountLookup interface {
	FindByID(ctx context.Context, id int64) (*models.Account, bool, error)
}

// AccountLister lists an agreement's accounts by type, implemented by service.AccountService.
type AccountLister interface {
	GetAccounts(ctx context.Context, agreement models.Agreement, accountType int) ([]*models.Account, error)
}

type AccountQueryService struct {
	lookup AccountLookup
	lister AccountLister
}

func NewAccountQueryService(lookup AccountLookup, lister AccountLister) *AccountQueryService {
	return &AccountQueryService{lookup: lookup, lister: lister}
}

func (s *AccountQueryService) GetAccount(ctx context.Context, q cqrs.GetAccountQuery) (*models.Account, error) {
	account, found, err := s.lookup.FindByID(ctx, q.AccountID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, service.ErrAccountNotFound
	}
	return account, nil
}

func (s *AccountQueryService) ListAccounts(ctx context.Context, q cqrs.ListAccountsQuery) ([]*models.Account, error) {
	return s.lister.GetAccounts(ctx, models.Agreement{ID: q.AgreementID}, q.Type)
}
