package services

import (
	"context"
	"testing"

	"dealer-console/internal/domain"
	"dealer-console/internal/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestItemForm_SelectVariantLocksFields(t *testing.T) {
	f := NewItemForm(TestOrderID)
	require.NoError(t, f.SelectVariant(domain.Variant{
		VariantID:      TestVariantID,
		VariantName:    "VF 8 Plus",
		Color:          "Silver",
		UnitPrice:      decimal.NewFromInt(1200000000),
		Specifications: "AWD, 87.7 kWh",
	}))

	in := f.Input()
	assert.Equal(t, TestVariantID, in.VariantID)
	assert.Equal(t, "Silver", in.Color)
	assert.Equal(t, "AWD, 87.7 kWh", in.Specifications)
	assert.True(t, decimal.NewFromInt(1200000000).Equal(in.UnitPrice))
	assert.Equal(t, []string{FieldUnitPrice, FieldColor, FieldSpecifications}, f.LockedFields())

	assert.Error(t, f.SetColor("Black"))
	assert.NoError(t, f.SetColor("Silver"))
	assert.Error(t, f.SetUnitPrice(decimal.NewFromInt(1)))
	assert.Error(t, f.SetSpecifications("RWD"))
	assert.Equal(t, "Silver", f.Input().Color)
}

func TestItemForm_Preview(t *testing.T) {
	tests := []struct {
		name      string
		unitPrice string
		quantity  int64
		discount  string
		final     string
		wantErr   bool
	}{
		{"no discount", "1000", 3, "0", "3000", false},
		{"ten percent", "1000", 3, "10", "2700", false},
		{"full discount", "1000", 1, "100", "0", false},
		{"zero quantity", "1000", 0, "0", "", true},
		{"discount over 100", "1000", 1, "101", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewItemForm(TestOrderID)
			require.NoError(t, f.SetUnitPrice(decimal.RequireFromString(tt.unitPrice)))
			f.SetQuantity(tt.quantity)
			f.SetDiscount(decimal.RequireFromString(tt.discount))

			p, err := f.Preview()
			if tt.wantErr {
				assert.True(t, domain.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.final).Equal(p.FinalPrice), "got %s", p.FinalPrice)
		})
	}
}

func TestItemForm_ApplyPromotion(t *testing.T) {
	f := NewItemForm(TestOrderID)
	require.NoError(t, f.SetUnitPrice(decimal.NewFromInt(2000)))
	f.ApplyPromotion(domain.Promotion{DiscountRate: decimal.RequireFromString("0.25")})

	p, err := f.Preview()
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(25).Equal(f.Input().Discount))
	assert.True(t, decimal.NewFromInt(1500).Equal(p.FinalPrice))
}

func TestEditItemForm(t *testing.T) {
	item := CreateMockItem(1, TestOrderID, "500", 2, "5")
	item.FinalPrice = decimal.NewFromInt(999)
	f := EditItemForm(item)

	in := f.Input()
	assert.Equal(t, int64(2), in.Quantity)
	assert.Equal(t, "White", in.Color)
	assert.True(t, f.Locked(FieldColor))

	free := EditItemForm(domain.OrderItem{OrderID: TestOrderID, Quantity: 1})
	assert.Empty(t, free.LockedFields())
}

func TestItemFormBuilder_Draft(t *testing.T) {
	refs := new(mocks.MockReferenceClient)
	refs.On("GetVariant", mock.Anything, TestVariantID).Return(&domain.Variant{VariantID: TestVariantID, UnitPrice: decimal.NewFromInt(1000), Color: "Red"}, nil)
	refs.On("GetVariant", mock.Anything, uint64(404)).Return(nil, nil)
	b := NewItemFormBuilder(refs)

	draft, err := b.Draft(context.Background(), ItemDraftRequest{OrderID: TestOrderID, VariantID: TestVariantID, Quantity: quantity(2)})
	require.NoError(t, err)
	require.NotNil(t, draft.Preview)
	assert.True(t, decimal.NewFromInt(2000).Equal(draft.Preview.FinalPrice))
	assert.Empty(t, draft.Errors)
	assert.Contains(t, draft.Locked, FieldColor)

	draft, err = b.Draft(context.Background(), ItemDraftRequest{OrderID: TestOrderID, VariantID: 404, Quantity: quantity(1)})
	require.NoError(t, err)
	assert.Contains(t, draft.Errors, "variantId")
}
