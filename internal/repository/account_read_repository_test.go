package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/eaglebank/payment-service/shared/models"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- mock implementations ----

type mockAccountStore struct {
	findByIDFn          func(int64) (*models.Account, bool, error)
	findByAgreementIDFn func(int64) ([]*models.Account, error)
	saveFn              func(*models.Account) (*models.Account, error)
	findByIDCalls       int
}

func (m *mockAccountStore) FindByID(_ context.Context, id int64) (*models.Account, bool, error) {
	m.findByIDCalls++
	if m.findByIDFn != nil {
		return m.findByIDFn(id)
	}
	return nil, false, errors.New("not configured")
}

func (m *mockAccountStore) FindByAgreementID(_ context.Context, agreementID int64) ([]*models.Account, error) {
	if m.findByAgreementIDFn != nil {
		return m.findByAgreementIDFn(agreementID)
	}
	return nil, errors.New("not configured")
}

func (m *mockAccountStore) Save(_ context.Context, account *models.Account) (*models.Account, error) {
	if m.saveFn != nil {
		return m.saveFn(account)
	}
	return nil, errors.New("not configured")
}

// failingSetHook rejects every SET so a cache refresh fails while reads and
// deletes still reach Redis.
type failingSetHook struct{}

func (failingSetHook) DialHook(next goredis.DialHook) goredis.DialHook { return next }

func (failingSetHook) ProcessHook(next goredis.ProcessHook) goredis.ProcessHook {
	return func(ctx context.Context, cmd goredis.Cmder) error {
		if cmd.Name() == "set" {
			err := errors.New("set refused")
			cmd.SetErr(err)
			return err
		}
		return next(ctx, cmd)
	}
}

func (failingSetHook) ProcessPipelineHook(next goredis.ProcessPipelineHook) goredis.ProcessPipelineHook {
	return next
}

// ---- helpers ----

func newCachedTestRepository(t *testing.T, store AccountStore, hooks ...goredis.Hook) (*CachedAccountRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	for _, hook := range hooks {
		client.AddHook(hook)
	}
	t.Cleanup(func() { _ = client.Close() })
	return NewCachedAccountRepository(store, client, time.Hour, nil), mr
}

// staleView seeds Redis with a view of account 7 holding the given amount.
func staleView(t *testing.T, mr *miniredis.Miniredis, amount string) {
	t.Helper()
	stale := testAccount()
	stale.Amount = decimal.RequireFromString(amount)
	data, err := json.Marshal(models.NewAccountView(stale, time.Now().UTC()))
	require.NoError(t, err)
	require.NoError(t, mr.Set("account:view:7", string(data)))
}

func testAccount() *models.Account {
	return &models.Account{ID: 7, AgreementID: 3, Number: "01000007", Type: 0, Amount: decimal.RequireFromString("12.34")}
}

// ---- tests ----

func TestCachedFindByIDWarmsCache(t *testing.T) {
	ctx := context.Background()
	store := &mockAccountStore{findByIDFn: func(id int64) (*models.Account, bool, error) { return testAccount(), true, nil }}
	repo, mr := newCachedTestRepository(t, store)

	first, found, err := repo.FindByID(ctx, 7)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, mr.Exists("account:view:7"))

	second, found, err := repo.FindByID(ctx, 7)
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, 1, store.findByIDCalls)
	assert.NotSame(t, first, second)
	assert.Equal(t, first.Number, second.Number)
	assert.True(t, first.Amount.Equal(second.Amount))
}

func TestCachedFindByIDMiss(t *testing.T) {
	ctx := context.Background()
	store := &mockAccountStore{findByIDFn: func(id int64) (*models.Account, bool, error) { return nil, false, nil }}
	repo, mr := newCachedTestRepository(t, store)

	account, found, err := repo.FindByID(ctx, 9)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, account)
	assert.False(t, mr.Exists("account:view:9"))
}

func TestCachedFindByIDStoreError(t *testing.T) {
	store := &mockAccountStore{findByIDFn: func(id int64) (*models.Account, bool, error) { return nil, false, errors.New("db down") }}
	repo, _ := newCachedTestRepository(t, store)

	_, found, err := repo.FindByID(context.Background(), 7)
	require.Error(t, err)
	assert.False(t, found)
}

func TestCachedSaveRefreshesView(t *testing.T) {
	ctx := context.Background()
	store := &mockAccountStore{
		findByIDFn: func(id int64) (*models.Account, bool, error) { return testAccount(), true, nil },
		saveFn: func(a *models.Account) (*models.Account, error) {
			saved := *a
			return &saved, nil
		},
	}
	repo, _ := newCachedTestRepository(t, store)

	account, _, err := repo.FindByID(ctx, 7)
	require.NoError(t, err)

	account.Amount = account.Amount.Sub(decimal.NewFromInt(2))
	_, err = repo.Save(ctx, account)
	require.NoError(t, err)

	cached, found, err := repo.FindByID(ctx, 7)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, decimal.RequireFromString("10.34").Equal(cached.Amount), "got %s", cached.Amount)
	assert.Equal(t, 1, store.findByIDCalls)
}

func TestCachedSaveFailureInvalidates(t *testing.T) {
	ctx := context.Background()
	store := &mockAccountStore{
		findByIDFn: func(id int64) (*models.Account, bool, error) { return testAccount(), true, nil },
		saveFn:     func(a *models.Account) (*models.Account, error) { return nil, errors.New("conflict") },
	}
	repo, mr := newCachedTestRepository(t, store)

	account, _, err := repo.FindByID(ctx, 7)
	require.NoError(t, err)
	require.True(t, mr.Exists("account:view:7"))

	_, err = repo.Save(ctx, account)
	require.Error(t, err)
	assert.False(t, mr.Exists("account:view:7"))
}

func TestCachedSaveOfNewAccountCachesGeneratedID(t *testing.T) {
	ctx := context.Background()
	store := &mockAccountStore{saveFn: func(a *models.Account) (*models.Account, error) {
		saved := *a
		saved.ID = 101
		return &saved, nil
	}}
	repo, mr := newCachedTestRepository(t, store)

	saved, err := repo.Save(ctx, &models.Account{AgreementID: 1, Number: "01000101", Amount: decimal.Zero})
	require.NoError(t, err)
	assert.Equal(t, int64(101), saved.ID)
	assert.True(t, mr.Exists("account:view:101"))
}

func TestCachedFindByAgreementIDBypassesCache(t *testing.T) {
	ctx := context.Background()
	calls := 0
	store := &mockAccountStore{findByAgreementIDFn: func(agreementID int64) ([]*models.Account, error) {
		calls++
		return []*models.Account{testAccount()}, nil
	}}
	repo, mr := newCachedTestRepository(t, store)

	for i := 0; i < 2; i++ {
		accounts, err := repo.FindByAgreementID(ctx, 3)
		require.NoError(t, err)
		require.Len(t, accounts, 1)
	}
	assert.Equal(t, 2, calls)
	assert.True(t, mr.Exists("account:view:7"))
}

func TestCachedSaveDropsViewWhenRefreshFails(t *testing.T) {
	ctx := context.Background()
	store := &mockAccountStore{saveFn: func(a *models.Account) (*models.Account, error) {
		saved := *a
		return &saved, nil
	}}
	repo, mr := newCachedTestRepository(t, store, failingSetHook{})
	staleView(t, mr, "12.34")

	account := testAccount()
	account.Amount = decimal.RequireFromString("2.34")
	_, err := repo.Save(ctx, account)

	require.NoError(t, err)
	assert.False(t, mr.Exists("account:view:7"))
}

func TestWriteThroughReadsStoreNotCache(t *testing.T) {
	ctx := context.Background()
	var saved *models.Account
	store := &mockAccountStore{
		findByIDFn: func(id int64) (*models.Account, bool, error) { return testAccount(), true, nil },
		saveFn: func(a *models.Account) (*models.Account, error) {
			copied := *a
			saved = &copied
			return &copied, nil
		},
	}
	repo, mr := newCachedTestRepository(t, store)
	staleView(t, mr, "999")
	writer := repo.WriteThrough()

	account, found, err := writer.FindByID(ctx, 7)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, decimal.RequireFromString("12.34").Equal(account.Amount), "got %s", account.Amount)
	assert.Equal(t, 1, store.findByIDCalls)

	account.Amount = account.Amount.Add(decimal.NewFromInt(1))
	_, err = writer.Save(ctx, account)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.True(t, decimal.RequireFromString("13.34").Equal(saved.Amount))

	cached, found, err := repo.FindByID(ctx, 7)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, decimal.RequireFromString("13.34").Equal(cached.Amount), "got %s", cached.Amount)
}
