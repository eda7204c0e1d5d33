package query

import (
	"context"
	"errors"
	"testing"

	"github.com/eaglebank/payment-service/internal/service"
	"github.com/eaglebank/payment-service/shared/cqrs"
	"github.com/eaglebank/payment-service/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLookup struct {
	account *models.Account
	found   bool
	err     error
}

func (s stubLookup) FindByID(context.Context, int64) (*models.Account, bool, error) {
	return s.account, s.found, s.err
}

type stubLister struct {
	gotAgreement models.Agreement
	gotType      int
	accounts     []*models.Account
}

func (s *stubLister) GetAccounts(_ context.Context, agreement models.Agreement, accountType int) ([]*models.Account, error) {
	s.gotAgreement = agreement
	s.gotType = accountType
	return s.accounts, nil
}

func TestGetAccount(t *testing.T) {
	ctx := context.Background()
	account := &models.Account{ID: 4}

	tests := []struct {
		name     string
		lookup   stubLookup
		expected *models.Account
		err      error
	}{
		{name: "found", lookup: stubLookup{account: account, found: true}, expected: account},
		{name: "not found", lookup: stubLookup{}, err: service.ErrAccountNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewAccountQueryService(tt.lookup, &stubLister{}).GetAccount(ctx, cqrs.GetAccountQuery{AccountID: 4})
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Same(t, tt.expected, got)
		})
	}

	t.Run("lookup failure", func(t *testing.T) {
		_, err := NewAccountQueryService(stubLookup{err: errors.New("boom")}, &stubLister{}).GetAccount(ctx, cqrs.GetAccountQuery{AccountID: 4})
		require.Error(t, err)
		assert.False(t, service.IsAccountError(err))
	})
}

func TestListAccounts(t *testing.T) {
	lister := &stubLister{accounts: []*models.Account{{ID: 1}, {ID: 2}}}

	got, err := NewAccountQueryService(stubLookup{}, lister).ListAccounts(context.Background(), cqrs.ListAccountsQuery{AgreementID: 9, Type: 1})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, int64(9), lister.gotAgreement.ID)
	assert.Equal(t, 1, lister.gotType)
}
