package cache

import (
	"context"
	"time"

	"dealer-console/internal/domain"
	"dealer-console/internal/infra"
)

// ReferenceClient caches customers, dealers, variants and promotions, which
// change rarely compared with orders.
type ReferenceClient struct {
	next  infra.ReferenceClientInterface
	cache *Cache
	ttl   time.Duration
}

var _ infra.ReferenceClientInterface = (*ReferenceClient)(nil)

func NewReferenceClient(next infra.ReferenceClientInterface, c *Cache, ttl time.Duration) *ReferenceClient {
	return &ReferenceClient{next: next, cache: c, ttl: ttl}
}

func (r *ReferenceClient) GetCustomer(ctx context.Context, id uint64) (*domain.Customer, error) {
	return GetOrLoad(ctx, r.cache, ReferenceKey("customer", id), r.ttl, func(ctx context.Context) (*domain.Customer, error) {
		return r.next.GetCustomer(ctx, id)
	})
}

func (r *ReferenceClient) GetDealer(ctx context.Context, id uint64) (*domain.Dealer, error) {
	return GetOrLoad(ctx, r.cache, ReferenceKey("dealer", id), r.ttl, func(ctx context.Context) (*domain.Dealer, error) {
		return r.next.GetDealer(ctx, id)
	})
}

func (r *ReferenceClient) GetVariant(ctx context.Context, id uint64) (*domain.Variant, error) {
	return GetOrLoad(ctx, r.cache, ReferenceKey("variant", id), r.ttl, func(ctx context.Context) (*domain.Variant, error) {
		return r.next.GetVariant(ctx, id)
	})
}

func (r *ReferenceClient) GetPromotion(ctx context.Context, id uint64) (*domain.Promotion, error) {
	return GetOrLoad(ctx, r.cache, ReferenceKey("promotion", id), r.ttl, func(ctx context.Context) (*domain.Promotion, error) {
		return r.next.GetPromotion(ctx, id)
	})
}
