package cqrs

import "github.com/shopspring/decimal"

type CreateAccountCommand struct {
	AgreementID int64
	Number      string
	Type        int
	Amount      decimal.Decimal
}

// AccountTransferCommand moves money between two accounts addressed by id.
type AccountTransferCommand struct {
	SourceAccountID      int64
	DestinationAccountID int64
	Amount               decimal.Decimal
}

// AgreementTransferCommand moves money between agreements. A positive
// Commission selects the commission-charging transfer.
type AgreementTransferCommand struct {
	SourceAgreementID      int64
	DestinationAgreementID int64
	SourceType             int
	DestinationType        int
	Amount                 decimal.Decimal
	Commission             decimal.Decimal
}

type ChargeAccountCommand struct {
	AccountID int64
	Amount    decimal.Decimal
}
