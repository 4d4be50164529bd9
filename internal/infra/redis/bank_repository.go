package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rickcomics/myprotectivemasks/internal/domain"
	"golang.org/x/sync/singleflight"
)

// BankLoader fetches question bank content from a backing store.
type BankLoader interface {
	LoadBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// BankRepository caches the bank JSON in Redis and falls back to a loader on
// cache miss. Stored as: SET masks:bank:{bankID} {json} with TTL.
type BankRepository struct {
	client *goredis.Client
	loader BankLoader
	bankID string
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewBankRepository(client *goredis.Client, loader BankLoader, bankID string, ttl time.Duration) *BankRepository {
	return &BankRepository{
		client: client,
		loader: loader,
		bankID: bankID,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BankRepository) GetBank(ctx context.Context) (domain.Bank, error) {
	key := r.key()

	if bank, ok := r.fromCache(ctx, key); ok {
		return bank, nil
	}

	result, err, _ := r.sf.Do(r.bankID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if bank, ok := r.fromCache(ctx, key); ok {
			return bank, nil
		}

		bank, err := r.loader.LoadBank(ctx, r.bankID)
		if err != nil {
			return domain.Bank{}, err
		}

		raw, err := json.Marshal(bank)
		if err != nil {
			return domain.Bank{}, fmt.Errorf("marshal bank: %w", err)
		}
		// best-effort cache fill
		_ = r.client.Set(ctx, key, raw, r.ttlWithJitter()).Err()

		return bank, nil
	})
	if err != nil {
		return domain.Bank{}, err
	}
	return result.(domain.Bank), nil
}

func (r *BankRepository) fromCache(ctx context.Context, key string) (domain.Bank, bool) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return domain.Bank{}, false
	}
	var bank domain.Bank
	if err := json.Unmarshal(raw, &bank); err != nil {
		return domain.Bank{}, false
	}
	return bank, true
}

func (r *BankRepository) key() string {
	return "masks:bank:" + r.bankID
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
