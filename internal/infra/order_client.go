package infra

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"dealer-console/internal/domain"
)

const serviceSales = "sales"

type OrderClient struct {
	api *apiClient
}

func NewOrderClient(baseURL string, timeout time.Duration, observer UpstreamObserver) *OrderClient {
	return &OrderClient{api: newAPIClient(serviceSales, baseURL, timeout, observer)}
}

func (c *OrderClient) GetOrder(ctx context.Context, id uint64) (*domain.SalesOrder, error) {
	var o domain.SalesOrder
	if err := c.api.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/v1/sales-orders/%d", id), "sales-orders", nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *OrderClient) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.SalesOrder, error) {
	q := url.Values{}
	if filter.DealerID != 0 {
		q.Set("dealerId", strconv.FormatUint(filter.DealerID, 10))
	}
	if filter.CustomerID != 0 {
		q.Set("customerId", strconv.FormatUint(filter.CustomerID, 10))
	}
	if filter.Status != "" {
		q.Set("status", string(filter.Status))
	}
	path := "/api/v1/sales-orders"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []domain.SalesOrder
	if err := c.api.doJSON(ctx, http.MethodGet, path, "sales-orders", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *OrderClient) ApproveOrder(ctx context.Context, id uint64) (*domain.SalesOrder, error) {
	var o domain.SalesOrder
	if err := c.api.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/v1/sales-orders/%d/approve", id), "sales-orders", nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *OrderClient) UpdateOrderStatus(ctx context.Context, id uint64, status domain.OrderStatus) (*domain.SalesOrder, error) {
	body := map[string]domain.OrderStatus{"status": status}
	var o domain.SalesOrder
	if err := c.api.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/v1/sales-orders/%d/status", id), "sales-orders", body, &o); err != nil {
		return nil, err
	}
	return &o, nil
}
