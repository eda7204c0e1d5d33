package service

import (
	"context"

	"github.com/eaglebank/payment-service/shared/models"
	"github.com/shopspring/decimal"
)

// AccountManager is the slice of AccountService the PaymentProcessor relies on.
type AccountManager interface {
	GetAccounts(ctx context.Context, agreement models.Agreement, accountType int) ([]*models.Account, error)
	ApplyPostings(ctx context.Context, postings ...Posting) error
}

// CommissionAccount points at the account collecting commission, by agreement and type.
type CommissionAccount struct {
	Agreement models.Agreement
	Type      int
}

// PaymentProcessor moves money between agreements, resolving exactly one
// account per agreement/type pair.
type PaymentProcessor struct {
	accounts   AccountManager
	commission CommissionAccount
}

func NewPaymentProcessor(accounts AccountManager, commission CommissionAccount) *PaymentProcessor {
	return &PaymentProcessor{accounts: accounts, commission: commission}
}

func (p *PaymentProcessor) MakeTransfer(
	ctx context.Context,
	sourceAgreement, destinationAgreement models.Agreement,
	sourceType, destinationType int,
	amount decimal.Decimal,
) error {
	source, destination, err := p.resolvePair(ctx, sourceAgreement, destinationAgreement, sourceType, destinationType)
	if err != nil {
		return err
	}
	return p.accounts.ApplyPostings(ctx, Debit(source, amount), Credit(destination, amount))
}

// MakeTransferWithCommission debits the source by amount+commission in one
// posting, credits the destination by amount and the commission account by
// commission.
func (p *PaymentProcessor) MakeTransferWithCommission(
	ctx context.Context,
	sourceAgreement, destinationAgreement models.Agreement,
	sourceType, destinationType int,
	amount, commission decimal.Decimal,
) error {
	source, destination, err := p.resolvePair(ctx, sourceAgreement, destinationAgreement, sourceType, destinationType)
	if err != nil {
		return err
	}
	collector, err := p.resolveOne(ctx, p.commission.Agreement, p.commission.Type, ErrNoCommissionAccount, ErrAmbiguousCommissionAccount)
	if err != nil {
		return err
	}

	return p.accounts.ApplyPostings(ctx,
		Debit(source, amount.Add(commission)),
		Credit(destination, amount),
		Credit(collector, commission),
	)
}

func (p *PaymentProcessor) resolvePair(
	ctx context.Context,
	sourceAgreement, destinationAgreement models.Agreement,
	sourceType, destinationType int,
) (*models.Account, *models.Account, error) {
	source, err := p.resolveOne(ctx, sourceAgreement, sourceType, ErrNoSourceAccount, ErrAmbiguousSourceAccount)
	if err != nil {
		return nil, nil, err
	}
	destination, err := p.resolveOne(ctx, destinationAgreement, destinationType, ErrNoDestinationAccount, ErrAmbiguousDestinationAccount)
	if err != nil {
		return nil, nil, err
	}
	return source, destination, nil
}

func (p *PaymentProcessor) resolveOne(
	ctx context.Context,
	agreement models.Agreement,
	accountType int,
	notFound, ambiguous *AccountError,
) (*models.Account, error) {
	matches, err := p.accounts.GetAccounts(ctx, agreement, accountType)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, notFound
	case 1:
		return matches[0], nil
	default:
		return nil, ambiguous
	}
}
