package infra

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"dealer-console/internal/domain"
)

const serviceDealer = "dealer"

// ReferenceClient reads the entities forms display and validate against.
// A missing entity is reported as (nil, nil).
type ReferenceClient struct {
	sales  *apiClient
	dealer *apiClient
}

func NewReferenceClient(salesURL, dealerURL string, timeout time.Duration, observer UpstreamObserver) *ReferenceClient {
	return &ReferenceClient{
		sales:  newAPIClient(serviceSales, salesURL, timeout, observer),
		dealer: newAPIClient(serviceDealer, dealerURL, timeout, observer),
	}
}

func (c *ReferenceClient) GetCustomer(ctx context.Context, id uint64) (*domain.Customer, error) {
	var out domain.Customer
	return getOptional(ctx, c.sales, fmt.Sprintf("/api/v1/customers/%d", id), "customers", &out)
}

func (c *ReferenceClient) GetDealer(ctx context.Context, id uint64) (*domain.Dealer, error) {
	var out domain.Dealer
	return getOptional(ctx, c.dealer, fmt.Sprintf("/api/v1/dealers/%d", id), "dealers", &out)
}

func (c *ReferenceClient) GetVariant(ctx context.Context, id uint64) (*domain.Variant, error) {
	var out domain.Variant
	return getOptional(ctx, c.dealer, fmt.Sprintf("/api/v1/vehicle-variants/%d", id), "vehicle-variants", &out)
}

func (c *ReferenceClient) GetPromotion(ctx context.Context, id uint64) (*domain.Promotion, error) {
	var out domain.Promotion
	return getOptional(ctx, c.sales, fmt.Sprintf("/api/v1/promotions/%d", id), "promotions", &out)
}

func getOptional[T any](ctx context.Context, api *apiClient, path, resource string, out *T) (*T, error) {
	err := api.doJSON(ctx, http.MethodGet, path, resource, nil, out)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}
