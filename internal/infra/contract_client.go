package infra

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"dealer-console/internal/domain"
)

type ContractClient struct {
	api *apiClient
}

func NewContractClient(baseURL string, timeout time.Duration, observer UpstreamObserver) *ContractClient {
	return &ContractClient{api: newAPIClient(serviceSales, baseURL, timeout, observer)}
}

// GetContractByOrder returns nil without error when the order has no contract yet.
func (c *ContractClient) GetContractByOrder(ctx context.Context, orderID uint64) (*domain.SalesContract, error) {
	var sc domain.SalesContract
	err := c.api.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/v1/sales-contracts/order/%d", orderID), "sales-contracts", nil, &sc)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if sc.ContractID == 0 {
		return nil, nil
	}
	return &sc, nil
}

func (c *ContractClient) SignContract(ctx context.Context, contractID uint64, signature string) (*domain.SalesContract, error) {
	body := map[string]string{"digitalSignature": signature}
	var sc domain.SalesContract
	if err := c.api.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/v1/sales-contracts/%d/sign", contractID), "sales-contracts", body, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
