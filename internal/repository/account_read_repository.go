package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/eaglebank/payment-service/shared/models"
	sharedredis "github.com/eaglebank/payment-service/shared/redis"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const accountViewKeyPrefix = "account:view:"

// AccountStore is the contract shared by the Postgres repository and its
// cached decorator.
type AccountStore interface {
	FindByID(ctx context.Context, id int64) (*models.Account, bool, error)
	FindByAgreementID(ctx context.Context, agreementID int64) ([]*models.Account, error)
	Save(ctx context.Context, account *models.Account) (*models.Account, error)
}

// CachedAccountRepository treats Redis as the read model in front of an
// AccountStore. Reads try Redis first and warm it on a miss; every save
// refreshes the cached view. Cache failures never fail the call.
type CachedAccountRepository struct {
	store AccountStore
	cache *sharedredis.ViewCache[models.AccountView]
	now   func() time.Time
}

func NewCachedAccountRepository(store AccountStore, redisClient *goredis.Client, ttl time.Duration, logger *zap.Logger) *CachedAccountRepository {
	return &CachedAccountRepository{
		store: store,
		cache: sharedredis.NewViewCache[models.AccountView](redisClient, ttl, logger),
		now:   time.Now,
	}
}

func accountViewKey(id int64) string {
	return accountViewKeyPrefix + strconv.FormatInt(id, 10)
}

// FindByID returns a fresh Account each call, so callers may mutate it freely.
func (r *CachedAccountRepository) FindByID(ctx context.Context, id int64) (*models.Account, bool, error) {
	if view, ok := r.cache.Get(ctx, accountViewKey(id)); ok {
		return view.Account(), true, nil
	}

	account, found, err := r.store.FindByID(ctx, id)
	if err != nil || !found {
		return nil, found, err
	}
	r.CacheAccount(ctx, account)
	return account, true, nil
}

// FindByAgreementID always reads the store; only it knows the full set.
func (r *CachedAccountRepository) FindByAgreementID(ctx context.Context, agreementID int64) ([]*models.Account, error) {
	accounts, err := r.store.FindByAgreementID(ctx, agreementID)
	if err != nil {
		return nil, err
	}
	for _, account := range accounts {
		r.CacheAccount(ctx, account)
	}
	return accounts, nil
}

func (r *CachedAccountRepository) Save(ctx context.Context, account *models.Account) (*models.Account, error) {
	saved, err := r.store.Save(ctx, account)
	if err != nil {
		r.InvalidateAccount(ctx, account.ID)
		return nil, err
	}
	r.CacheAccount(ctx, saved)
	return saved, nil
}

// CacheAccount stores or refreshes the Redis view of an account. A view that
// cannot be refreshed is dropped, so it never outlives the row it mirrors.
func (r *CachedAccountRepository) CacheAccount(ctx context.Context, account *models.Account) {
	if account == nil || !account.IsPersisted() {
		return
	}
	key := accountViewKey(account.ID)
	if !r.cache.Set(ctx, key, models.NewAccountView(account, r.now().UTC())) {
		r.cache.Delete(ctx, key)
	}
}

// InvalidateAccount drops the cached view so the next read goes to the store.
func (r *CachedAccountRepository) InvalidateAccount(ctx context.Context, id int64) {
	if id == 0 {
		return
	}
	r.cache.Delete(ctx, accountViewKey(id))
}

// WriteThrough returns a repository for callers that mutate what they read.
// It loads accounts from the store only and saves through the cache, keeping
// the Redis views fresh without ever feeding one back into a balance update.
func (r *CachedAccountRepository) WriteThrough() *WriteThroughAccountRepository {
	return &WriteThroughAccountRepository{cached: r}
}

type WriteThroughAccountRepository struct {
	cached *CachedAccountRepository
}

func (r *WriteThroughAccountRepository) FindByID(ctx context.Context, id int64) (*models.Account, bool, error) {
	return r.cached.store.FindByID(ctx, id)
}

func (r *WriteThroughAccountRepository) FindByAgreementID(ctx context.Context, agreementID int64) ([]*models.Account, error) {
	return r.cached.store.FindByAgreementID(ctx, agreementID)
}

func (r *WriteThroughAccountRepository) Save(ctx context.Context, account *models.Account) (*models.Account, error) {
	return r.cached.Save(ctx, account)
}
