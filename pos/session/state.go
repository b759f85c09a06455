// Package session holds the Catalog view / Receipt view state machine.
// State values are never mutated; every transition returns a new State.
package session

import (
	"fmt"

	"github.com/shopspring/decimal"

	"pos-receipt/pos/order"
	"pos-receipt/pos/types"
)

var (
	minDiscount = decimal.Zero
	maxDiscount = decimal.NewFromInt(100)
)

// State is one snapshot of an ordering session
type State struct {
	View            types.View
	Catalog         types.Catalog
	Quantities      types.QuantitySelection
	DiscountPercent decimal.Decimal
	Summary         *types.OrderSummary
}

// New starts a session on the catalog view with nothing selected
func New(catalog types.Catalog) State {
	return State{
		View:            types.ViewCatalog,
		Catalog:         catalog,
		Quantities:      order.NewSelection(len(catalog)),
		DiscountPercent: decimal.Zero,
	}
}

// RequireView fails with a PreconditionError unless the session shows v
func (s State) RequireView(v types.View, action string) error {
	if s.View != v {
		return &types.PreconditionError{Msg: fmt.Sprintf("cannot %s from the %s view", action, s.View)}
	}
	return nil
}

// AdjustQuantity changes the quantity of the item at index by delta
func (s State) AdjustQuantity(index, delta int) (State, error) {
	if err := s.RequireView(types.ViewCatalog, "adjust quantities"); err != nil {
		return s, err
	}
	q, err := order.AdjustQuantity(s.Quantities, index, delta)
	if err != nil {
		return s, err
	}
	s.Quantities = q
	return s, nil
}

// SetDiscount sets the discount percentage. This is the input boundary, so the
// value is checked against [0,100] here rather than in the computation.
func (s State) SetDiscount(percent decimal.Decimal) (State, error) {
	if err := s.RequireView(types.ViewCatalog, "set a discount"); err != nil {
		return s, err
	}
	if percent.LessThan(minDiscount) || percent.GreaterThan(maxDiscount) {
		return s, &types.ValidationError{Msg: fmt.Sprintf("discount %s%% is outside 0-100", percent.String())}
	}
	s.DiscountPercent = percent
	return s, nil
}

// WithCatalog swaps in a changed catalog, carrying quantities over by item id
func (s State) WithCatalog(next types.Catalog) (State, error) {
	if err := s.RequireView(types.ViewCatalog, "change the catalog"); err != nil {
		return s, err
	}
	s.Quantities = order.ResizeSelection(s.Catalog, s.Quantities, next)
	s.Catalog = next
	return s, nil
}

// GenerateReceipt computes the summary and moves to the receipt view
func (s State) GenerateReceipt() (State, error) {
	if err := s.RequireView(types.ViewCatalog, "generate a receipt"); err != nil {
		return s, err
	}
	summary, err := order.ComputeSummary(s.Catalog, s.Quantities, s.DiscountPercent)
	if err != nil {
		return s, err
	}
	s.View = types.ViewReceipt
	s.Summary = &summary
	return s, nil
}

// IsClean reports whether the session is on the catalog view with nothing
// selected and no discount, so there is no in-progress order to lose.
func (s State) IsClean() bool {
	if s.View != types.ViewCatalog || !s.DiscountPercent.IsZero() {
		return false
	}
	for _, q := range s.Quantities {
		if q != 0 {
			return false
		}
	}
	return true
}

// Close discards the receipt and starts a fresh selection on the same catalog
func (s State) Close() (State, error) {
	if err := s.RequireView(types.ViewReceipt, "close the receipt"); err != nil {
		return s, err
	}
	return New(s.Catalog), nil
}
