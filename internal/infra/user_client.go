package infra

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"dealer-console/internal/domain"
)

const serviceUser = "user"

type UserFilter struct {
	DealerID uint64
	Role     domain.Role
	Status   domain.UserStatus
}

type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

type UserClient struct {
	api *apiClient
}

func NewUserClient(baseURL string, timeout time.Duration, observer UpstreamObserver) *UserClient {
	return &UserClient{api: newAPIClient(serviceUser, baseURL, timeout, observer)}
}

func (c *UserClient) ListUsers(ctx context.Context, filter UserFilter) ([]domain.User, error) {
	q := url.Values{}
	if filter.DealerID != 0 {
		q.Set("dealerId", strconv.FormatUint(filter.DealerID, 10))
	}
	if filter.Role != "" {
		q.Set("role", string(filter.Role))
	}
	if filter.Status != "" {
		q.Set("status", string(filter.Status))
	}
	path := "/api/v1/users"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []domain.User
	if err := c.api.doJSON(ctx, http.MethodGet, path, "users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *UserClient) UpdateUserStatus(ctx context.Context, id uint64, status domain.UserStatus) error {
	body := map[string]domain.UserStatus{"status": status}
	return c.api.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/v1/users/%d/status", id), "users", body, nil)
}

func (c *UserClient) ImportUsers(ctx context.Context, fileName string, content io.Reader) (*ImportResult, error) {
	var res ImportResult
	if err := c.api.upload(ctx, "/api/v1/users/import", "users", "file", fileName, content, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *UserClient) ExportUsers(ctx context.Context) ([]byte, error) {
	return c.api.download(ctx, "/api/v1/users/export", "users")
}
