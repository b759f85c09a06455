package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// View is the screen a session is currently showing
type View string

const (
	ViewCatalog View = "catalog"
	ViewReceipt View = "receipt"
)

// CatalogItem is a sellable item. Price is in whole currency units.
type CatalogItem struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// Catalog is the ordered list of sellable items; order is display order
type Catalog []CatalogItem

// QuantitySelection holds one quantity per catalog position
type QuantitySelection []int

// PurchaseLine is a catalog item with a positive quantity
type PurchaseLine struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Subtotal int64  `json:"subtotal"`
}

// OrderSummary is the computed receipt body for one selection
type OrderSummary struct {
	Lines              []PurchaseLine  `json:"lines"`
	Total              int64           `json:"total"`
	DiscountPercent    decimal.Decimal `json:"discountPercent"`
	DiscountAmount     int64           `json:"discountAmount"`
	TotalAfterDiscount int64           `json:"totalAfterDiscount"`
}

// Receipt is an issued summary, numbered within a session
type Receipt struct {
	SessionID string       `json:"sessionId"`
	Number    int          `json:"number"`
	IssuedAt  time.Time    `json:"issuedAt"`
	Summary   OrderSummary `json:"summary"`
}

// SessionInput is the input to the SessionWorkflow
type SessionInput struct {
	IdleTimeout       time.Duration
	MaxReceiptsPerRun int
	ExportReceipts    bool

	// ReceiptsIssued and Revision carry counters across continue-as-new runs
	ReceiptsIssued int
	Revision       int
}

// SessionResult is returned when a session ends
type SessionResult struct {
	SessionID      string
	ReceiptsIssued int
	EndReason      string
	EndedAt        time.Time
}

// SessionStatus represents the current state of a session workflow
type SessionStatus struct {
	SessionID       string
	View            View
	Catalog         Catalog
	Quantities      QuantitySelection
	DiscountPercent decimal.Decimal
	Summary         *OrderSummary
	ReceiptsIssued  int
	LastReceiptPath string
	LastError       string

	// Revision is bumped once every handled signal has been fully applied
	Revision int
}

// AdjustQuantityRequest is the signal payload for changing a quantity
type AdjustQuantityRequest struct {
	Index int
	Delta int
}

// SetDiscountRequest is the signal payload for setting the discount percentage
type SetDiscountRequest struct {
	Percent decimal.Decimal
}

// AddItemRequest is the signal payload for adding a catalog item.
// Price is the raw form value.
type AddItemRequest struct {
	Name  string
	Price string
}

// DeleteItemRequest is the signal payload for removing a catalog item
type DeleteItemRequest struct {
	Index int
}
