package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountView is the read-optimised projection of an account held in Redis.
// CachedAt records when the projection was last refreshed from the write store.
type AccountView struct {
	ID          int64           `json:"id"`
	AgreementID int64           `json:"agreementId"`
	Number      string          `json:"number"`
	Type        int             `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	CachedAt    time.Time       `json:"cachedTimestamp"`
}

// NewAccountView projects a write model into its read view.
func NewAccountView(a *Account, at time.Time) *AccountView {
	return &AccountView{
		ID:          a.ID,
		AgreementID: a.AgreementID,
		Number:      a.Number,
		Type:        a.Type,
		Amount:      a.Amount,
		CachedAt:    at,
	}
}

// Account converts the view back into a detached write model.
func (v *AccountView) Account() *Account {
	return &Account{
		ID:          v.ID,
		AgreementID: v.AgreementID,
		Number:      v.Number,
		Type:        v.Type,
		Amount:      v.Amount,
	}
}
