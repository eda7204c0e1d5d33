package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	AccountCreated    = "account.created"
	AccountCharged    = "account.charged"
	TransferCompleted = "transfer.completed"
)

// Stream names
const (
	PaymentEventsStream = "payment.events"
)

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type AccountCreatedEvent struct {
	AccountID   int64           `json:"accountId"`
	AgreementID int64           `json:"agreementId"`
	Number      string          `json:"number"`
	Type        int             `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
}

type AccountChargedEvent struct {
	AccountID int64           `json:"accountId"`
	Amount    decimal.Decimal `json:"amount"`
}

// TransferCompletedEvent covers both id-based and agreement-based transfers.
// Agreement fields are zero for id-based transfers; Commission is zero unless
// the commission variant ran.
type TransferCompletedEvent struct {
	SourceAccountID        int64           `json:"sourceAccountId,omitempty"`
	DestinationAccountID   int64           `json:"destinationAccountId,omitempty"`
	SourceAgreementID      int64           `json:"sourceAgreementId,omitempty"`
	DestinationAgreementID int64           `json:"destinationAgreementId,omitempty"`
	Amount                 decimal.Decimal `json:"amount"`
	Commission             decimal.Decimal `json:"commission"`
}
