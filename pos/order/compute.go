// Package order derives purchase lines and totals from a catalog and a
// quantity selection. Everything here is pure and safe to call from workflow code.
package order

import (
	"fmt"

	"github.com/shopspring/decimal"

	"pos-receipt/pos/types"
)

var hundred = decimal.NewFromInt(100)

// NewSelection returns an all-zero selection for a catalog of n items
func NewSelection(n int) types.QuantitySelection {
	return make(types.QuantitySelection, n)
}

// AdjustQuantity returns a copy of quantities with delta applied at index.
// Quantities never go below zero.
func AdjustQuantity(quantities types.QuantitySelection, index, delta int) (types.QuantitySelection, error) {
	if index < 0 || index >= len(quantities) {
		return nil, &types.PreconditionError{
			Msg: fmt.Sprintf("quantity index %d out of range [0,%d)", index, len(quantities)),
		}
	}

	next := make(types.QuantitySelection, len(quantities))
	copy(next, quantities)
	next[index] = max(0, next[index]+delta)
	return next, nil
}

// ResizeSelection maps quantities chosen against prev onto next. Items are
// matched by id; items new to next start at zero.
func ResizeSelection(prev types.Catalog, quantities types.QuantitySelection, next types.Catalog) types.QuantitySelection {
	byID := make(map[string]int, len(prev))
	for i, item := range prev {
		if item.ID == "" || i >= len(quantities) {
			continue
		}
		byID[item.ID] = quantities[i]
	}

	resized := NewSelection(len(next))
	for i, item := range next {
		if item.ID == "" {
			continue
		}
		resized[i] = byID[item.ID]
	}
	return resized
}

// DiscountAmount is total * percent / 100, truncated toward zero to whole units
func DiscountAmount(total int64, percent decimal.Decimal) int64 {
	return decimal.NewFromInt(total).Mul(percent).Div(hundred).Truncate(0).IntPart()
}

// ComputeSummary builds the receipt body. The discount percent is used as
// given; range checks belong to whoever accepted the input.
func ComputeSummary(catalog types.Catalog, quantities types.QuantitySelection, discountPercent decimal.Decimal) (types.OrderSummary, error) {
	if len(quantities) != len(catalog) {
		return types.OrderSummary{}, &types.PreconditionError{
			Msg: fmt.Sprintf("have %d quantities for %d catalog items", len(quantities), len(catalog)),
		}
	}

	lines := make([]types.PurchaseLine, 0)
	var total int64
	for i, item := range catalog {
		qty := quantities[i]
		if qty <= 0 {
			continue
		}
		subtotal := item.Price * int64(qty)
		lines = append(lines, types.PurchaseLine{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: qty,
			Subtotal: subtotal,
		})
		total += subtotal
	}

	discount := DiscountAmount(total, discountPercent)

	return types.OrderSummary{
		Lines:              lines,
		Total:              total,
		DiscountPercent:    discountPercent,
		DiscountAmount:     discount,
		TotalAfterDiscount: total - discount,
	}, nil
}
