package services

import (
	"context"
	"fmt"

	"dealer-console/internal/domain"
	"dealer-console/internal/infra"

	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
)

const (
	FieldUnitPrice      = "unitPrice"
	FieldColor          = "color"
	FieldSpecifications = "specifications"
)

var variantLockedFields = []string{FieldUnitPrice, FieldColor, FieldSpecifications}

// ItemForm is an order item draft. Pricing is always derived from the current
// inputs and never stored on the draft.
type ItemForm struct {
	input  domain.OrderItemInput
	locked map[string]bool
}

func NewItemForm(orderID uint64) *ItemForm {
	return &ItemForm{
		input:  domain.OrderItemInput{OrderID: orderID, Quantity: 1},
		locked: map[string]bool{},
	}
}

// EditItemForm starts from an existing item. Variant-derived fields stay
// locked when the item references a variant.
func EditItemForm(item domain.OrderItem) *ItemForm {
	f := NewItemForm(item.OrderID)
	_ = copier.Copy(&f.input, &item)
	if item.VariantID != 0 {
		f.lockVariantFields()
	}
	return f
}

// SelectVariant copies price, color and specifications from v and locks them.
func (f *ItemForm) SelectVariant(v domain.Variant) error {
	if err := copier.Copy(&f.input, &v); err != nil {
		return fmt.Errorf("copy variant %d: %w", v.VariantID, err)
	}
	f.lockVariantFields()
	return nil
}

func (f *ItemForm) lockVariantFields() {
	for _, field := range variantLockedFields {
		f.locked[field] = true
	}
}

func (f *ItemForm) Locked(field string) bool {
	return f.locked[field]
}

func (f *ItemForm) LockedFields() []string {
	out := make([]string, 0, len(f.locked))
	for _, field := range variantLockedFields {
		if f.locked[field] {
			out = append(out, field)
		}
	}
	return out
}

func (f *ItemForm) lockedErr(field string) error {
	return domain.ValidationError{Field: field, Message: domain.ErrFieldLocked.Error()}
}

func (f *ItemForm) SetUnitPrice(p decimal.Decimal) error {
	if f.locked[FieldUnitPrice] {
		if p.Equal(f.input.UnitPrice) {
			return nil
		}
		return f.lockedErr(FieldUnitPrice)
	}
	f.input.UnitPrice = p
	return nil
}

func (f *ItemForm) SetColor(color string) error {
	if f.locked[FieldColor] {
		if color == f.input.Color {
			return nil
		}
		return f.lockedErr(FieldColor)
	}
	f.input.Color = color
	return nil
}

func (f *ItemForm) SetSpecifications(spec string) error {
	if f.locked[FieldSpecifications] {
		if spec == f.input.Specifications {
			return nil
		}
		return f.lockedErr(FieldSpecifications)
	}
	f.input.Specifications = spec
	return nil
}

func (f *ItemForm) SetQuantity(q int64) { f.input.Quantity = q }

func (f *ItemForm) SetDiscount(d decimal.Decimal) { f.input.Discount = d }

func (f *ItemForm) SetNotes(notes string) { f.input.ItemNotes = notes }

func (f *ItemForm) Input() domain.OrderItemInput { return f.input }

// ApplyPromotion replaces the discount with the promotion's rate in percent.
func (f *ItemForm) ApplyPromotion(p domain.Promotion) { f.input.Discount = p.DiscountPercent() }

// Preview recomputes the price from the current inputs.
func (f *ItemForm) Preview() (domain.PricePreview, error) {
	in, err := domain.NewPriceInput(f.input.UnitPrice, f.input.Quantity, f.input.Discount)
	if err != nil {
		return domain.PricePreview{}, err
	}
	return in.Preview(), nil
}

// ItemDraftRequest is what the item form submits. Nil fields keep the value
// derived from the variant or promotion.
type ItemDraftRequest struct {
	OrderID        uint64           `json:"orderId"`
	VariantID      uint64           `json:"variantId"`
	PromotionID    uint64           `json:"promotionId,omitempty"`
	Quantity       *int64           `json:"quantity,omitempty"`
	UnitPrice      *decimal.Decimal `json:"unitPrice,omitempty"`
	Discount       *decimal.Decimal `json:"discount,omitempty"`
	Color          *string          `json:"color,omitempty"`
	Specifications *string          `json:"specifications,omitempty"`
	ItemNotes      string           `json:"itemNotes,omitempty"`
}

type ItemDraft struct {
	Input   domain.OrderItemInput `json:"input"`
	Locked  []string              `json:"locked"`
	Preview *domain.PricePreview  `json:"preview,omitempty"`
	Errors  map[string]string     `json:"errors,omitempty"`
}

// ItemFormBuilder resolves variant and promotion references for a draft.
type ItemFormBuilder struct {
	refs infra.ReferenceClientInterface
}

func NewItemFormBuilder(refs infra.ReferenceClientInterface) *ItemFormBuilder {
	return &ItemFormBuilder{refs: refs}
}

// Build applies req on top of base (or a fresh form) and returns the form
// plus any field errors. Reference lookups that fail are returned as errors.
func (b *ItemFormBuilder) Build(ctx context.Context, base *ItemForm, req ItemDraftRequest) (*ItemForm, domain.ValidationErrors, error) {
	f := base
	if f == nil {
		f = NewItemForm(req.OrderID)
	}
	var errs domain.ValidationErrors

	if req.VariantID != 0 && req.VariantID != f.input.VariantID {
		v, err := b.refs.GetVariant(ctx, req.VariantID)
		if err != nil {
			return nil, nil, fmt.Errorf("load variant %d: %w", req.VariantID, err)
		}
		if v == nil {
			errs = append(errs, domain.ValidationError{Field: "variantId", Message: "unknown variant"})
		} else if err := f.SelectVariant(*v); err != nil {
			return nil, nil, err
		}
	}
	if req.PromotionID != 0 {
		p, err := b.refs.GetPromotion(ctx, req.PromotionID)
		if err != nil {
			return nil, nil, fmt.Errorf("load promotion %d: %w", req.PromotionID, err)
		}
		if p == nil {
			errs = append(errs, domain.ValidationError{Field: "promotionId", Message: "unknown promotion"})
		} else {
			f.ApplyPromotion(*p)
		}
	}

	if req.Quantity != nil {
		f.SetQuantity(*req.Quantity)
	}
	if req.Discount != nil {
		f.SetDiscount(*req.Discount)
	}
	if req.UnitPrice != nil {
		errs = appendFieldErr(errs, f.SetUnitPrice(*req.UnitPrice))
	}
	if req.Color != nil {
		errs = appendFieldErr(errs, f.SetColor(*req.Color))
	}
	if req.Specifications != nil {
		errs = appendFieldErr(errs, f.SetSpecifications(*req.Specifications))
	}
	if req.ItemNotes != "" {
		f.SetNotes(req.ItemNotes)
	}
	return f, errs, nil
}

// Draft renders the form for the item editor without submitting it.
func (b *ItemFormBuilder) Draft(ctx context.Context, req ItemDraftRequest) (*ItemDraft, error) {
	f, errs, err := b.Build(ctx, nil, req)
	if err != nil {
		return nil, err
	}
	draft := &ItemDraft{Input: f.Input(), Locked: f.LockedFields()}
	if verr := f.input.Validate(); verr != nil {
		errs = append(errs, domain.ValidationErrorsOf(verr)...)
	}
	if preview, err := f.Preview(); err == nil {
		draft.Preview = &preview
	}
	if len(errs) > 0 {
		draft.Errors = errs.Fields()
	}
	return draft, nil
}

func appendFieldErr(errs domain.ValidationErrors, err error) domain.ValidationErrors {
	if err == nil {
		return errs
	}
	return append(errs, domain.ValidationErrorsOf(err)...)
}
