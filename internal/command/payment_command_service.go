package command

import (
	"context"

	"github.com/eaglebank/payment-service/shared/cqrs"
	"github.com/eaglebank/payment-service/shared/events"
	"github.com/eaglebank/payment-service/shared/models"
	"github.com/eaglebank/payment-service/shared/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AccountOperator is the account-level write side, implemented by service.AccountService.
type AccountOperator interface {
	AddAccount(ctx context.Context, agreement models.Agreement, number string, accountType int, amount decimal.Decimal) (*models.Account, error)
	MakeTransfer(ctx context.Context, sourceID, destinationID int64, amount decimal.Decimal) error
	Charge(ctx context.Context, accountID int64, amount decimal.Decimal) (bool, error)
}

// PaymentOperator is the agreement-level write side, implemented by service.PaymentProcessor.
type PaymentOperator interface {
	MakeTransfer(ctx context.Context, sourceAgreement, destinationAgreement models.Agreement, sourceType, destinationType int, amount decimal.Decimal) error
	MakeTransferWithCommission(ctx context.Context, sourceAgreement, destinationAgreement models.Agreement, sourceType, destinationType int, amount, commission decimal.Decimal) error
}

type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// PaymentCommandService runs the write operations of the payment core and
// announces each completed one on the payment event stream. Domain errors
// are returned untouched; publish failures are only logged.
type PaymentCommandService struct {
	accounts  AccountOperator
	payments  PaymentOperator
	publisher EventPublisher
	logger    *zap.Logger
}

func NewPaymentCommandService(
	accounts AccountOperator,
	payments PaymentOperator,
	publisher EventPublisher,
	logger *zap.Logger,
) *PaymentCommandService {
	return &PaymentCommandService{
		accounts:  accounts,
		payments:  payments,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateAccount opens an account, generating a number when none is given.
func (s *PaymentCommandService) CreateAccount(ctx context.Context, cmd cqrs.CreateAccountCommand) (*models.Account, error) {
	number := cmd.Number
	if number == "" {
		generated, err := utils.GenerateAccountNumber()
		if err != nil {
			return nil, err
		}
		number = generated
	}
	account, err := s.accounts.AddAccount(ctx, models.Agreement{ID: cmd.AgreementID}, number, cmd.Type, cmd.Amount)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.AccountCreated, events.AccountCreatedEvent{
		AccountID:   account.ID,
		AgreementID: account.AgreementID,
		Number:      account.Number,
		Type:        account.Type,
		Amount:      account.Amount,
	})
	return account, nil
}

func (s *PaymentCommandService) TransferBetweenAccounts(ctx context.Context, cmd cqrs.AccountTransferCommand) error {
	if err := s.accounts.MakeTransfer(ctx, cmd.SourceAccountID, cmd.DestinationAccountID, cmd.Amount); err != nil {
		return err
	}
	s.publish(ctx, events.TransferCompleted, events.TransferCompletedEvent{
		SourceAccountID:      cmd.SourceAccountID,
		DestinationAccountID: cmd.DestinationAccountID,
		Amount:               cmd.Amount,
		Commission:           decimal.Zero,
	})
	return nil
}

// TransferBetweenAgreements picks the commission-charging transfer when the
// command carries a positive commission.
func (s *PaymentCommandService) TransferBetweenAgreements(ctx context.Context, cmd cqrs.AgreementTransferCommand) error {
	source := models.Agreement{ID: cmd.SourceAgreementID}
	destination := models.Agreement{ID: cmd.DestinationAgreementID}

	var err error
	if cmd.Commission.IsPositive() {
		err = s.payments.MakeTransferWithCommission(ctx, source, destination, cmd.SourceType, cmd.DestinationType, cmd.Amount, cmd.Commission)
	} else {
		err = s.payments.MakeTransfer(ctx, source, destination, cmd.SourceType, cmd.DestinationType, cmd.Amount)
	}
	if err != nil {
		return err
	}

	s.publish(ctx, events.TransferCompleted, events.TransferCompletedEvent{
		SourceAgreementID:      cmd.SourceAgreementID,
		DestinationAgreementID: cmd.DestinationAgreementID,
		Amount:                 cmd.Amount,
		Commission:             cmd.Commission,
	})
	return nil
}

func (s *PaymentCommandService) ChargeAccount(ctx context.Context, cmd cqrs.ChargeAccountCommand) (bool, error) {
	charged, err := s.accounts.Charge(ctx, cmd.AccountID, cmd.Amount)
	if err != nil {
		return false, err
	}
	s.publish(ctx, events.AccountCharged, events.AccountChargedEvent{
		AccountID: cmd.AccountID,
		Amount:    cmd.Amount,
	})
	return charged, nil
}

func (s *PaymentCommandService) publish(ctx context.Context, eventType string, data any) {
	if err := s.publisher.Publish(ctx, events.PaymentEventsStream, eventType, data); err != nil {
		s.logger.Warn("failed to publish event", zap.String("type", eventType), zap.Error(err))
	}
}
