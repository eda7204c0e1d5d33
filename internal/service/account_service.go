// Package service holds the payment core: direct account bookkeeping
// (AccountService) and agreement-level transfers built on top of it
// (PaymentProcessor).
//
// Operations run synchronously on the caller's goroutine. Every flow resolves
// its accounts before touching a balance, so a lookup failure never leaves a
// partial mutation behind. Accounts are saved one by one through the DAO; a
// crash between two saves leaves a transfer half-applied, and nothing here
// guards against that.
package service

import (
	"context"
	"fmt"

	"github.com/eaglebank/payment-service/shared/models"
	"github.com/shopspring/decimal"
)

// AccountDAO is the persistence collaborator consumed by AccountService.
type AccountDAO interface {
	// FindByID returns the account and true, or nil and false when no account
	// carries the id.
	FindByID(ctx context.Context, id int64) (*models.Account, bool, error)
	FindByAgreementID(ctx context.Context, agreementID int64) ([]*models.Account, error)
	// Save inserts or updates the account and returns the persisted representation.
	Save(ctx context.Context, account *models.Account) (*models.Account, error)
}

// Posting is one balance change applied by ApplyPostings.
type Posting struct {
	Account *models.Account
	Delta   decimal.Decimal
}

// Debit builds a posting that subtracts amount from the account.
func Debit(account *models.Account, amount decimal.Decimal) Posting {
	return Posting{Account: account, Delta: amount.Neg()}
}

// Credit builds a posting that adds amount to the account.
func Credit(account *models.Account, amount decimal.Decimal) Posting {
	return Posting{Account: account, Delta: amount}
}

type AccountService struct {
	dao AccountDAO
}

func NewAccountService(dao AccountDAO) *AccountService {
	return &AccountService{dao: dao}
}

// MakeTransfer moves amount from one account to another by id. No balance
// sufficiency check is made; the source may go negative.
func (s *AccountService) MakeTransfer(ctx context.Context, sourceID, destinationID int64, amount decimal.Decimal) error {
	source, found, err := s.dao.FindByID(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("failed to load source account: %w", err)
	}
	if !found {
		return ErrNoSourceAccount
	}

	destination, found, err := s.dao.FindByID(ctx, destinationID)
	if err != nil {
		return fmt.Errorf("failed to load destination account: %w", err)
	}
	if !found {
		return ErrNoDestinationAccount
	}

	return s.ApplyPostings(ctx, Debit(source, amount), Credit(destination, amount))
}

// GetAccounts returns the agreement's accounts of the given type. An empty
// result is not an error.
func (s *AccountService) GetAccounts(ctx context.Context, agreement models.Agreement, accountType int) ([]*models.Account, error) {
	all, err := s.dao.FindByAgreementID(ctx, agreement.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	matched := make([]*models.Account, 0, len(all))
	for _, account := range all {
		if account.Type == accountType {
			matched = append(matched, account)
		}
	}
	return matched, nil
}

// AddAccount persists a new account under the agreement and returns whatever
// the DAO hands back, typically carrying the generated id.
func (s *AccountService) AddAccount(ctx context.Context, agreement models.Agreement, number string, accountType int, amount decimal.Decimal) (*models.Account, error) {
	account := &models.Account{
		AgreementID: agreement.ID,
		Number:      number,
		Type:        accountType,
		Amount:      amount,
	}
	saved, err := s.dao.Save(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to add account: %w", err)
	}
	return saved, nil
}

// Charge debits a single account. It reports true once the debit is saved.
func (s *AccountService) Charge(ctx context.Context, accountID int64, amount decimal.Decimal) (bool, error) {
	account, found, err := s.dao.FindByID(ctx, accountID)
	if err != nil {
		return false, fmt.Errorf("failed to load account: %w", err)
	}
	if !found {
		return false, ErrAccountNotFound
	}

	if err := s.ApplyPostings(ctx, Debit(account, amount)); err != nil {
		return false, err
	}
	return true, nil
}

// ApplyPostings applies every posting in memory and then saves each posted
// account once, in the order it was first posted. Postings naming the same
// stored account through different objects are folded onto the first object
// seen for that id, so a DAO handing out a fresh copy per read cannot lose or
// invent money. The objects handed to Save are the mutated ones, not copies.
func (s *AccountService) ApplyPostings(ctx context.Context, postings ...Posting) error {
	for _, account := range mergePostings(postings) {
		if _, err := s.dao.Save(ctx, account); err != nil {
			return fmt.Errorf("failed to save account %d: %w", account.ID, err)
		}
	}
	return nil
}

// mergePostings applies the deltas and returns the distinct accounts to save.
// Every alias of a stored account ends up carrying the merged balance.
func mergePostings(postings []Posting) []*models.Account {
	byID := make(map[int64]*models.Account, len(postings))
	queued := make(map[*models.Account]bool, len(postings))
	accounts := make([]*models.Account, 0, len(postings))

	for _, p := range postings {
		target := p.Account
		if target.IsPersisted() {
			if first, ok := byID[target.ID]; ok {
				target = first
			} else {
				byID[target.ID] = target
			}
		}
		target.Amount = target.Amount.Add(p.Delta)
		if !queued[target] {
			queued[target] = true
			accounts = append(accounts, target)
		}
	}

	for _, p := range postings {
		if p.Account.IsPersisted() {
			p.Account.Amount = byID[p.Account.ID].Amount
		}
	}
	return accounts
}
