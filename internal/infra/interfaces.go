package infra

import (
	"context"
	"io"

	"dealer-console/internal/domain"
)

type OrderClientInterface interface {
	GetOrder(ctx context.Context, id uint64) (*domain.SalesOrder, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.SalesOrder, error)
	ApproveOrder(ctx context.Context, id uint64) (*domain.SalesOrder, error)
	UpdateOrderStatus(ctx context.Context, id uint64, status domain.OrderStatus) (*domain.SalesOrder, error)
}

type OrderItemClientInterface interface {
	ListItems(ctx context.Context, orderID uint64) ([]domain.OrderItem, error)
	CreateItem(ctx context.Context, in domain.OrderItemInput) (*domain.OrderItem, error)
	UpdateItem(ctx context.Context, id uint64, in domain.OrderItemInput) (*domain.OrderItem, error)
	DeleteItem(ctx context.Context, id uint64) error
}

type TrackingClientInterface interface {
	ListTracking(ctx context.Context, orderID uint64) ([]domain.OrderTracking, error)
	AddTracking(ctx context.Context, in domain.TrackingInput) (*domain.OrderTracking, error)
}

type ContractClientInterface interface {
	GetContractByOrder(ctx context.Context, orderID uint64) (*domain.SalesContract, error)
	SignContract(ctx context.Context, contractID uint64, signature string) (*domain.SalesContract, error)
}

type UserClientInterface interface {
	ListUsers(ctx context.Context, filter UserFilter) ([]domain.User, error)
	UpdateUserStatus(ctx context.Context, id uint64, status domain.UserStatus) error
	ImportUsers(ctx context.Context, fileName string, content io.Reader) (*ImportResult, error)
	ExportUsers(ctx context.Context) ([]byte, error)
}

type ReferenceClientInterface interface {
	GetCustomer(ctx context.Context, id uint64) (*domain.Customer, error)
	GetDealer(ctx context.Context, id uint64) (*domain.Dealer, error)
	GetVariant(ctx context.Context, id uint64) (*domain.Variant, error)
	GetPromotion(ctx context.Context, id uint64) (*domain.Promotion, error)
}

var (
	_ OrderClientInterface     = (*OrderClient)(nil)
	_ OrderItemClientInterface = (*OrderItemClient)(nil)
	_ TrackingClientInterface  = (*TrackingClient)(nil)
	_ ContractClientInterface  = (*ContractClient)(nil)
	_ UserClientInterface      = (*UserClient)(nil)
	_ ReferenceClientInterface = (*ReferenceClient)(nil)
)
