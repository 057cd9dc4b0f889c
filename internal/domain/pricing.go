package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// PriceInput is a validated (unitPrice, quantity, discount%) triple.
type PriceInput struct {
	UnitPrice decimal.Decimal
	Quantity  int64
	Discount  decimal.Decimal
}

type PricePreview struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	FinalPrice     decimal.Decimal `json:"finalPrice"`
}

func NewPriceInput(unitPrice decimal.Decimal, quantity int64, discount decimal.Decimal) (PriceInput, error) {
	var errs ValidationErrors
	if unitPrice.IsNegative() {
		errs = append(errs, ValidationError{Field: "unitPrice", Message: "must not be negative"})
	}
	if quantity < 1 {
		errs = append(errs, ValidationError{Field: "quantity", Message: "must be at least 1"})
	}
	if discount.IsNegative() || discount.GreaterThan(hundred) {
		errs = append(errs, ValidationError{Field: "discount", Message: "must be between 0 and 100"})
	}
	if err := errs.OrNil(); err != nil {
		return PriceInput{}, err
	}
	return PriceInput{UnitPrice: unitPrice, Quantity: quantity, Discount: discount}, nil
}

// Preview computes the live price breakdown. finalPrice never goes below zero.
func (p PriceInput) Preview() PricePreview {
	subtotal := p.UnitPrice.Mul(decimal.NewFromInt(p.Quantity))
	discountAmount := subtotal.Mul(p.Discount).Div(hundred)
	final := subtotal.Sub(discountAmount)
	if final.IsNegative() {
		final = decimal.Zero
	}
	return PricePreview{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		FinalPrice:     final,
	}
}

// PreviewItem recomputes an item's price from its own inputs, ignoring the
// finalPrice the server sent. Invalid inputs yield ok=false.
func PreviewItem(item OrderItem) (PricePreview, bool) {
	in, err := NewPriceInput(item.UnitPrice, item.Quantity, item.Discount)
	if err != nil {
		return PricePreview{}, false
	}
	return in.Preview(), true
}
