package services

import (
	"time"

	"dealer-console/internal/domain"
	"dealer-console/internal/session"

	"github.com/shopspring/decimal"
)

func CreateMockOrder(id uint64, status domain.OrderStatus, managerApproval bool) *domain.SalesOrder {
	return &domain.SalesOrder{
		OrderID:         id,
		CustomerID:      TestCustomerID,
		DealerID:        TestDealerID,
		OrderDate:       time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		TotalAmount:     decimal.NewFromInt(1500000000),
		Status:          status,
		ManagerApproval: managerApproval,
	}
}

func CreateMockItem(id, orderID uint64, unitPrice string, qty int64, discount string) domain.OrderItem {
	return domain.OrderItem{
		OrderItemID: id,
		OrderID:     orderID,
		VariantID:   TestVariantID,
		Quantity:    qty,
		UnitPrice:   decimal.RequireFromString(unitPrice),
		Discount:    decimal.RequireFromString(discount),
		Color:       "White",
	}
}

func CreateMockTracking(id, orderID uint64, status domain.TrackingStatus, at time.Time) domain.OrderTracking {
	return domain.OrderTracking{TrackID: id, OrderID: orderID, Status: status, UpdateDate: at}
}

func quantity(n int64) *int64 { return &n }

func managerCaps() session.Capabilities {
	return session.Capabilities{UserID: TestManagerID, Role: domain.RoleDealerManager, DealerID: TestDealerID, FullName: "Le Van Manager"}
}

func staffCaps() session.Capabilities {
	return session.Capabilities{UserID: TestStaffID, Role: domain.RoleDealerStaff, DealerID: TestDealerID, FullName: "Pham Staff"}
}

const (
	TestOrderID    = uint64(100)
	TestCustomerID = uint64(7)
	TestDealerID   = uint64(3)
	TestVariantID  = uint64(11)
	TestManagerID  = uint64(21)
	TestStaffID    = uint64(22)
)
