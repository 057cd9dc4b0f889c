package infra

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"dealer-console/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (o *recordingObserver) ObserveUpstream(service, resource, outcome string, elapsed time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, service+"/"+resource+"/"+outcome)
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestOrderClient_GetOrder(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		expectedErr error
		apiCode     string
		apiMessage  string
	}{
		{
			name:   "string success code",
			status: http.StatusOK,
			body:   `{"code":"1000","message":"ok","data":{"orderId":7,"orderStatusB2C":"PENDING","totalAmount":1000000000,"managerApproval":false}}`,
		},
		{
			name:   "numeric success code",
			status: http.StatusOK,
			body:   `{"code":1000,"message":"ok","data":{"orderId":7,"orderStatusB2C":"PENDING","totalAmount":"1000000000"}}`,
		},
		{
			name:       "business error on HTTP 200",
			status:     http.StatusOK,
			body:       `{"code":"2004","message":"Order is locked","data":null}`,
			apiCode:    "2004",
			apiMessage: "Order is locked",
		},
		{
			name:        "not found",
			status:      http.StatusNotFound,
			body:        `{"code":"4040","message":"Order not found"}`,
			expectedErr: ErrNotFound,
			apiCode:     "4040",
			apiMessage:  "Order not found",
		},
		{
			name:       "non envelope body",
			status:     http.StatusBadGateway,
			body:       `<html>bad gateway</html>`,
			apiMessage: "Bad Gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/v1/sales-orders/7", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			obs := &recordingObserver{}
			client := NewOrderClient(srv.URL, time.Second, obs)

			order, err := client.GetOrder(context.Background(), 7)

			if tt.apiMessage == "" {
				require.NoError(t, err)
				assert.Equal(t, uint64(7), order.OrderID)
				assert.Equal(t, domain.StatusPending, order.Status)
				assert.True(t, decimal.NewFromInt(1000000000).Equal(order.TotalAmount))
				assert.Equal(t, []string{"sales/sales-orders/success"}, obs.outcomes)
				return
			}

			require.Error(t, err)
			assert.Nil(t, order)
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.apiCode, apiErr.Code)
			assert.Equal(t, tt.apiMessage, apiErr.Message)
			assert.Equal(t, tt.status, apiErr.HTTPStatus)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			}
			assert.False(t, errors.Is(err, ErrTransport))
			assert.Equal(t, []string{"sales/sales-orders/business_error"}, obs.outcomes)
		})
	}
}

func TestAPIClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	obs := &recordingObserver{}
	client := NewOrderItemClient(url, time.Second, obs)
	_, err := client.ListItems(context.Background(), 1)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, []string{"sales/order-items/transport_error"}, obs.outcomes)
}

func TestAPIClient_ForwardsHeaders(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/sales-orders/9/status", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "key-abc", r.Header.Get(HeaderIdempotencyKey))
		assert.Equal(t, "req-1", r.Header.Get(HeaderRequestID))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"status":"IN_PRODUCTION"}`, string(body))
		_, _ = io.WriteString(w, `{"code":"1000","data":{"orderId":9,"orderStatusB2C":"IN_PRODUCTION"}}`)
	})

	ctx := WithToken(context.Background(), "tok-123")
	ctx = WithIdempotencyKey(ctx, "key-abc")
	ctx = WithRequestID(ctx, "req-1")

	order, err := NewOrderClient(srv.URL, time.Second, nil).UpdateOrderStatus(ctx, 9, domain.StatusInProduction)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProduction, order.Status)
}

func TestAPIClient_GetSkipsIdempotencyKey(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get(HeaderIdempotencyKey))
		_, _ = io.WriteString(w, `{"code":"1000","data":[]}`)
	})

	ctx := WithIdempotencyKey(context.Background(), "key-abc")
	items, err := NewOrderItemClient(srv.URL, time.Second, nil).ListItems(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestContractClient_GetContractByOrder(t *testing.T) {
	t.Run("missing contract", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"code":"4040","message":"no contract"}`)
		})
		sc, err := NewContractClient(srv.URL, time.Second, nil).GetContractByOrder(context.Background(), 5)
		assert.NoError(t, err)
		assert.Nil(t, sc)
	})

	t.Run("null data", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"code":"1000","data":null}`)
		})
		sc, err := NewContractClient(srv.URL, time.Second, nil).GetContractByOrder(context.Background(), 5)
		assert.NoError(t, err)
		assert.Nil(t, sc)
	})

	t.Run("existing contract", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/sales-contracts/order/5", r.URL.Path)
			_, _ = io.WriteString(w, `{"code":"1000","data":{"contractId":44,"orderId":5,"contractStatus":"PENDING_SIGNATURE"}}`)
		})
		sc, err := NewContractClient(srv.URL, time.Second, nil).GetContractByOrder(context.Background(), 5)
		require.NoError(t, err)
		assert.Equal(t, uint64(44), sc.ContractID)
		assert.True(t, sc.CanSign())
	})
}

func TestUserClient_ImportAndExport(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/users/import":
			require.NoError(t, r.ParseMultipartForm(1<<20))
			f, hdr, err := r.FormFile("file")
			require.NoError(t, err)
			defer f.Close()
			content, _ := io.ReadAll(f)
			assert.Equal(t, "users.xlsx", hdr.Filename)
			assert.Equal(t, "xlsx-bytes", string(content))
			_, _ = io.WriteString(w, `{"code":"1000","data":{"imported":2,"skipped":1}}`)
		case "/api/v1/users/export":
			w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
			_, _ = io.WriteString(w, "binary-blob")
		default:
			http.NotFound(w, r)
		}
	})
	client := NewUserClient(srv.URL, time.Second, nil)

	res, err := client.ImportUsers(context.Background(), "users.xlsx", strings.NewReader("xlsx-bytes"))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 1, res.Skipped)

	blob, err := client.ExportUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "binary-blob", string(blob))
}

func TestUserClient_ExportReportsEnvelopeError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"code":"4030","message":"not allowed"}`)
	})

	_, err := NewUserClient(srv.URL, time.Second, nil).ExportUsers(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "4030", apiErr.Code)
}

func TestReferenceClient_MissingIsNil(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/vehicle-variants/3" {
			_, _ = io.WriteString(w, `{"code":"1000","data":{"variantId":3,"color":"Red","price":"750000000","specifications":"AWD"}}`)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"code":"4040","message":"missing"}`)
	})
	client := NewReferenceClient(srv.URL, srv.URL, time.Second, nil)

	v, err := client.GetVariant(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Red", v.Color)
	assert.True(t, decimal.NewFromInt(750000000).Equal(v.UnitPrice))

	c, err := client.GetCustomer(context.Background(), 99)
	assert.NoError(t, err)
	assert.Nil(t, c)
}
