package infra

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"dealer-console/internal/domain"
)

type OrderItemClient struct {
	api *apiClient
}

func NewOrderItemClient(baseURL string, timeout time.Duration, observer UpstreamObserver) *OrderItemClient {
	return &OrderItemClient{api: newAPIClient(serviceSales, baseURL, timeout, observer)}
}

func (c *OrderItemClient) ListItems(ctx context.Context, orderID uint64) ([]domain.OrderItem, error) {
	var out []domain.OrderItem
	if err := c.api.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/v1/order-items/order/%d", orderID), "order-items", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *OrderItemClient) CreateItem(ctx context.Context, in domain.OrderItemInput) (*domain.OrderItem, error) {
	var item domain.OrderItem
	if err := c.api.doJSON(ctx, http.MethodPost, "/api/v1/order-items", "order-items", in, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *OrderItemClient) UpdateItem(ctx context.Context, id uint64, in domain.OrderItemInput) (*domain.OrderItem, error) {
	var item domain.OrderItem
	if err := c.api.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/v1/order-items/%d", id), "order-items", in, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *OrderItemClient) DeleteItem(ctx context.Context, id uint64) error {
	return c.api.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/order-items/%d", id), "order-items", nil, nil)
}
