package domain

import "github.com/shopspring/decimal"

type OrderItem struct {
	OrderItemID    uint64          `json:"orderItemId"`
	OrderID        uint64          `json:"orderId"`
	VariantID      uint64          `json:"variantId"`
	Quantity       int64           `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	Discount       decimal.Decimal `json:"discount"`
	FinalPrice     decimal.Decimal `json:"finalPrice"`
	ItemNotes      string          `json:"itemNotes,omitempty"`
	Color          string          `json:"color,omitempty"`
	Specifications string          `json:"specifications,omitempty"`
}

// OrderItemInput is the payload sent to the sales service on create/update.
// finalPrice is deliberately absent; the server computes it.
type OrderItemInput struct {
	OrderID        uint64          `json:"orderId" validate:"required"`
	VariantID      uint64          `json:"variantId" validate:"required"`
	Quantity       int64           `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	Discount       decimal.Decimal `json:"discount"`
	ItemNotes      string          `json:"itemNotes,omitempty" validate:"max=500"`
	Color          string          `json:"color,omitempty" validate:"max=50"`
	Specifications string          `json:"specifications,omitempty"`
}

// Validate runs the checks that block submission before any request is sent.
func (in OrderItemInput) Validate() error {
	errs := structErrors(in)
	if _, err := NewPriceInput(in.UnitPrice, in.Quantity, in.Discount); err != nil {
		errs = append(errs, ValidationErrorsOf(err)...)
	}
	return errs.OrNil()
}
