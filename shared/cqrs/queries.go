package cqrs

// GetAccountQuery fetches a single account by id.
type GetAccountQuery struct {
	AccountID int64
}

// ListAccountsQuery fetches the accounts of one type under an agreement.
type ListAccountsQuery struct {
	AgreementID int64
	Type        int
}
