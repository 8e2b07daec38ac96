package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/lbsshop/storefront-api/internal/core/domain"
	"github.com/lbsshop/storefront-api/internal/core/ports"
)

const (
	defaultCacheTTL  = 5 * time.Minute
	productKeyPrefix = "catalog:product:"
	listKeyPrefix    = "catalog:list:"
	generationKey    = "catalog:generation"
)

// CachedProductRepository is a read-through cache in front of a ProductRepository.
// Every key embeds a generation counter that mutations bump after the write
// reaches the wrapped repository. A fill that raced a mutation lands under the
// old generation, is never read again and simply expires. Redis failures fall
// back to the wrapped repository.
type CachedProductRepository struct {
	next   ports.ProductRepository
	client redis.Cmdable
	ttl    time.Duration
	log    zerolog.Logger
}

func NewCachedProductRepository(next ports.ProductRepository, client redis.Cmdable, ttl time.Duration, log zerolog.Logger) *CachedProductRepository {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedProductRepository{next: next, client: client, ttl: ttl, log: log}
}

func (r *CachedProductRepository) Create(ctx context.Context, p *domain.Product) error {
	if err := r.next.Create(ctx, p); err != nil {
		return err
	}
	r.invalidate(ctx, p.ID)
	return nil
}

func (r *CachedProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	gen, ok := r.generation(ctx)
	if !ok {
		return r.next.FindByID(ctx, id)
	}
	key := productKey(gen, id)
	var cached domain.Product
	if r.get(ctx, key, &cached) {
		return &cached, nil
	}

	p, err := r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.set(ctx, key, p)
	return p, nil
}

func (r *CachedProductRepository) List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	gen, ok := r.generation(ctx)
	if !ok {
		return r.next.List(ctx, filter)
	}
	key := listKey(gen, filter)
	var cached []*domain.Product
	if r.get(ctx, key, &cached) {
		return cached, nil
	}

	products, err := r.next.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	r.set(ctx, key, products)
	return products, nil
}

func (r *CachedProductRepository) Update(ctx context.Context, p *domain.Product) error {
	if err := r.next.Update(ctx, p); err != nil {
		return err
	}
	r.invalidate(ctx, p.ID)
	return nil
}

func (r *CachedProductRepository) Delete(ctx context.Context, id string) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *CachedProductRepository) Count(ctx context.Context) (int64, error) {
	return r.next.Count(ctx)
}

// generation reads the counter every key is scoped to. A missing counter is
// generation zero.
func (r *CachedProductRepository) generation(ctx context.Context) (int64, bool) {
	gen, err := r.client.Get(ctx, generationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		r.log.Debug().Err(err).Msg("catalog cache: generation lookup failed")
		return 0, false
	}
	return gen, true
}

func productKey(gen int64, id string) string {
	return fmt.Sprintf("%s%d:%s", productKeyPrefix, gen, id)
}

func listKey(gen int64, filter domain.ProductFilter) string {
	return fmt.Sprintf("%s%d:%s:%s", listKeyPrefix, gen, filter.Category, strconv.FormatBool(filter.ActiveOnly))
}

func (r *CachedProductRepository) get(ctx context.Context, key string, dst any) bool {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Debug().Err(err).Str("key", key).Msg("catalog cache: read failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("catalog cache: corrupt entry")
		return false
	}
	return true
}

func (r *CachedProductRepository) set(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, key, raw, r.ttl).Err(); err != nil {
		r.log.Debug().Err(err).Str("key", key).Msg("catalog cache: write failed")
	}
}

// invalidate retires every cached entry by moving to a new generation.
func (r *CachedProductRepository) invalidate(ctx context.Context, id string) {
	if err := r.client.Incr(ctx, generationKey).Err(); err != nil {
		r.log.Warn().Err(err).Str("product_id", id).Msg("catalog cache: invalidation failed")
	}
}
