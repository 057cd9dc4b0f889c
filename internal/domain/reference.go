package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleAdmin         Role = "ADMIN"
	RoleEVMStaff      Role = "EVM_STAFF"
	RoleDealerManager Role = "DEALER_MANAGER"
	RoleDealerStaff   Role = "DEALER_STAFF"
)

type UserStatus string

const (
	UserActive   UserStatus = "ACTIVE"
	UserInactive UserStatus = "INACTIVE"
	UserLocked   UserStatus = "LOCKED"
)

func (s UserStatus) Valid() bool {
	return s == UserActive || s == UserInactive || s == UserLocked
}

type User struct {
	UserID   uint64     `json:"userId"`
	Username string     `json:"username"`
	FullName string     `json:"fullName"`
	Email    string     `json:"email"`
	Phone    string     `json:"phone,omitempty"`
	Role     Role       `json:"role"`
	Status   UserStatus `json:"status"`
	DealerID uint64     `json:"dealerId,omitempty"`
}

type Customer struct {
	CustomerID uint64 `json:"customerId"`
	FullName   string `json:"fullName"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
}

type Dealer struct {
	DealerID   uint64 `json:"dealerId"`
	DealerName string `json:"dealerName"`
	Address    string `json:"address,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Region     string `json:"region,omitempty"`
}

// Variant is one trim/color/configuration of a vehicle model. Field names
// line up with OrderItem so the item form can copy them across.
type Variant struct {
	VariantID      uint64          `json:"variantId"`
	ModelID        uint64          `json:"modelId"`
	VariantName    string          `json:"variantName"`
	Color          string          `json:"color"`
	UnitPrice      decimal.Decimal `json:"price"`
	Specifications string          `json:"specifications"`
	Status         string          `json:"status,omitempty"`
}

type Promotion struct {
	PromotionID  uint64          `json:"promotionId"`
	Title        string          `json:"title"`
	DiscountRate decimal.Decimal `json:"discountRate"`
	StartDate    *time.Time      `json:"startDate,omitempty"`
	EndDate      *time.Time      `json:"endDate,omitempty"`
}

// DiscountPercent converts the 0..1 rate into the item form's percent scale.
func (p Promotion) DiscountPercent() decimal.Decimal {
	return p.DiscountRate.Mul(hundred)
}

// ActiveAt reports whether the promotion window covers t. Open ends count as
// unbounded.
func (p Promotion) ActiveAt(t time.Time) bool {
	if p.StartDate != nil && t.Before(*p.StartDate) {
		return false
	}
	if p.EndDate != nil && t.After(*p.EndDate) {
		return false
	}
	return true
}
