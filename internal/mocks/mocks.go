package mocks

import (
	"context"
	"io"

	"dealer-console/internal/domain"
	"dealer-console/internal/infra"

	"github.com/stretchr/testify/mock"
)

type MockOrderClient struct {
	mock.Mock
}

type MockOrderItemClient struct {
	mock.Mock
}

type MockTrackingClient struct {
	mock.Mock
}

type MockContractClient struct {
	mock.Mock
}

type MockUserClient struct {
	mock.Mock
}

type MockReferenceClient struct {
	mock.Mock
}

type MockPublisher struct {
	mock.Mock
}

type MockNotificationRepository struct {
	mock.Mock
}

type MockCommandRepository struct {
	mock.Mock
}

type MockBroadcaster struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, message any) error {
	args := m.Called(ctx, topic, message)
	return args.Error(0)
}

func (m *MockBroadcaster) Broadcast(userID uint64, event string, payload any) {
	m.Called(userID, event, payload)
}

func (m *MockOrderClient) GetOrder(ctx context.Context, id uint64) (*domain.SalesOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SalesOrder), args.Error(1)
}

func (m *MockOrderClient) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.SalesOrder, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SalesOrder), args.Error(1)
}

func (m *MockOrderClient) ApproveOrder(ctx context.Context, id uint64) (*domain.SalesOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SalesOrder), args.Error(1)
}

func (m *MockOrderClient) UpdateOrderStatus(ctx context.Context, id uint64, status domain.OrderStatus) (*domain.SalesOrder, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SalesOrder), args.Error(1)
}

func (m *MockOrderItemClient) ListItems(ctx context.Context, orderID uint64) ([]domain.OrderItem, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderItem), args.Error(1)
}

func (m *MockOrderItemClient) CreateItem(ctx context.Context, in domain.OrderItemInput) (*domain.OrderItem, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderItem), args.Error(1)
}

func (m *MockOrderItemClient) UpdateItem(ctx context.Context, id uint64, in domain.OrderItemInput) (*domain.OrderItem, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderItem), args.Error(1)
}

func (m *MockOrderItemClient) DeleteItem(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTrackingClient) ListTracking(ctx context.Context, orderID uint64) ([]domain.OrderTracking, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderTracking), args.Error(1)
}

func (m *MockTrackingClient) AddTracking(ctx context.Context, in domain.TrackingInput) (*domain.OrderTracking, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderTracking), args.Error(1)
}

func (m *MockContractClient) GetContractByOrder(ctx context.Context, orderID uint64) (*domain.SalesContract, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SalesContract), args.Error(1)
}

func (m *MockContractClient) SignContract(ctx context.Context, contractID uint64, signature string) (*domain.SalesContract, error) {
	args := m.Called(ctx, contractID, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SalesContract), args.Error(1)
}

func (m *MockUserClient) ListUsers(ctx context.Context, filter infra.UserFilter) ([]domain.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserClient) UpdateUserStatus(ctx context.Context, id uint64, status domain.UserStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockUserClient) ImportUsers(ctx context.Context, fileName string, content io.Reader) (*infra.ImportResult, error) {
	args := m.Called(ctx, fileName, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*infra.ImportResult), args.Error(1)
}

func (m *MockUserClient) ExportUsers(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockReferenceClient) GetCustomer(ctx context.Context, id uint64) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockReferenceClient) GetDealer(ctx context.Context, id uint64) (*domain.Dealer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dealer), args.Error(1)
}

func (m *MockReferenceClient) GetVariant(ctx context.Context, id uint64) (*domain.Variant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Variant), args.Error(1)
}

func (m *MockReferenceClient) GetPromotion(ctx context.Context, id uint64) (*domain.Promotion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Promotion), args.Error(1)
}

func (m *MockNotificationRepository) Save(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListByUser(ctx context.Context, userID uint64, unreadOnly bool, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, unreadOnly, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, userID, id uint64) (bool, error) {
	args := m.Called(ctx, userID, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID uint64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, userID uint64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommandRepository) FindOpen(ctx context.Context, fingerprint string) (*domain.Command, error) {
	args := m.Called(ctx, fingerprint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Command), args.Error(1)
}

func (m *MockCommandRepository) Create(ctx context.Context, cmd *domain.Command) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

func (m *MockCommandRepository) RecordAttempt(ctx context.Context, key string, status domain.CommandStatus, lastError string) error {
	args := m.Called(ctx, key, status, lastError)
	return args.Error(0)
}
