package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending          OrderStatus = "PENDING"
	StatusEdited           OrderStatus = "EDITED"
	StatusApproved         OrderStatus = "APPROVED"
	StatusConfirmed        OrderStatus = "CONFIRMED"
	StatusInProduction     OrderStatus = "IN_PRODUCTION"
	StatusReadyForDelivery OrderStatus = "READY_FOR_DELIVERY"
	StatusDelivered        OrderStatus = "DELIVERED"
	StatusCancelled        OrderStatus = "CANCELLED"
)

// orderLifecycle is the display order of order statuses.
var orderLifecycle = []OrderStatus{
	StatusPending,
	StatusEdited,
	StatusApproved,
	StatusConfirmed,
	StatusInProduction,
	StatusReadyForDelivery,
	StatusDelivered,
	StatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, known := range orderLifecycle {
		if s == known {
			return true
		}
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

type Quotation struct {
	QuotationID uint64          `json:"quotationId"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ValidUntil  *time.Time      `json:"validUntil,omitempty"`
}

type SalesOrder struct {
	OrderID         uint64          `json:"orderId"`
	CustomerID      uint64          `json:"customerId"`
	StaffID         uint64          `json:"staffId"`
	DealerID        uint64          `json:"dealerId"`
	OrderDate       time.Time       `json:"orderDate"`
	DeliveryDate    *time.Time      `json:"deliveryDate,omitempty"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	DownPayment     decimal.Decimal `json:"downPayment"`
	Status          OrderStatus     `json:"orderStatusB2C"`
	ManagerApproval bool            `json:"managerApproval"`
	ApprovalDate    *time.Time      `json:"approvalDate,omitempty"`
	Quotation       *Quotation      `json:"quotation,omitempty"`
}

type OrderFilter struct {
	DealerID   uint64      `form:"dealerId"`
	CustomerID uint64      `form:"customerId"`
	Status     OrderStatus `form:"status"`
}
