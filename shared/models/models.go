package models

import "github.com/shopspring/decimal"

// Agreement is a customer contract owning one or more accounts.
// Only its identifier matters to the payment core.
type Agreement struct {
	ID int64 `json:"id"`
}

// Account is the write model. ID is zero until the account has been persisted.
// Type distinguishes accounts under the same agreement (e.g. primary vs commission).
type Account struct {
	ID          int64           `json:"id"`
	AgreementID int64           `json:"agreementId"`
	Number      string          `json:"number"`
	Type        int             `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
}

// IsPersisted reports whether the account has been assigned an identifier.
func (a *Account) IsPersisted() bool {
	return a.ID != 0
}
