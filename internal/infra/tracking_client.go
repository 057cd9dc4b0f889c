package infra

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"dealer-console/internal/domain"
)

type TrackingClient struct {
	api *apiClient
}

func NewTrackingClient(baseURL string, timeout time.Duration, observer UpstreamObserver) *TrackingClient {
	return &TrackingClient{api: newAPIClient(serviceSales, baseURL, timeout, observer)}
}

func (c *TrackingClient) ListTracking(ctx context.Context, orderID uint64) ([]domain.OrderTracking, error) {
	var out []domain.OrderTracking
	if err := c.api.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/v1/order-tracking/order/%d", orderID), "order-tracking", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *TrackingClient) AddTracking(ctx context.Context, in domain.TrackingInput) (*domain.OrderTracking, error) {
	var rec domain.OrderTracking
	if err := c.api.doJSON(ctx, http.MethodPost, "/api/v1/order-tracking", "order-tracking", in, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
