package models

import "time"

// PaymentStatus is the payment state of a sold record.
type PaymentStatus string

const (
	StatusPending PaymentStatus = "Pending"
	StatusPaid    PaymentStatus = "Paid"
)

// CashSource identifies where cash on hand is kept.
type CashSource string

const (
	SourceGCash   CashSource = "GCash"
	SourceSeaBank CashSource = "SeaBank"
	SourceCash    CashSource = "Cash"
)

// ValidCashSource reports whether s is one of the known cash sources.
func ValidCashSource(s CashSource) bool {
	switch s {
	case SourceGCash, SourceSeaBank, SourceCash:
		return true
	}
	return false
}

// NoSellerBucket is the display bucket for items without a seller.
const NoSellerBucket = "(No seller)"

// InventoryItem represents a bought item not yet offered for sale.
type InventoryItem struct {
	ID         string    `json:"id"`
	Seller     string    `json:"seller"`
	Name       string    `json:"name" binding:"required"`
	BuyCost    float64   `json:"buy_cost"`
	ShipInCost float64   `json:"ship_in_cost"`
	ListPrice  float64   `json:"list_price"` // optional configured sell price; 0 means unset
	ImageRef   string    `json:"image_ref,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Listing represents an item currently offered for sale. BuyCost carries the
// original acquisition cost (buy + ship-in) forward from the inventory item;
// it is 0 for listings created directly.
type Listing struct {
	ID         string    `json:"id"`
	Name       string    `json:"name" binding:"required"`
	ListPrice  float64   `json:"list_price"`
	BuyCost    float64   `json:"buy_cost"`
	ShipInCost float64   `json:"ship_in_cost"`
	Seller     string    `json:"seller"`
	ImageRef   string    `json:"image_ref,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// SoldRecord represents a listing that has been assigned a buyer.
// Status only ever moves Pending -> Paid, never back.
type SoldRecord struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Price    float64       `json:"price"`
	Buyer    string        `json:"buyer"`
	ImageRef string        `json:"image_ref,omitempty"`
	SoldAt   time.Time     `json:"sold_at"`
	Status   PaymentStatus `json:"status"`
}

// CashEntry is one signed movement in the cash-on-hand ledger. Entries are
// immutable once created; corrections are made by deleting and re-adding.
type CashEntry struct {
	ID        string     `json:"id"`
	Source    CashSource `json:"source"`
	Amount    float64    `json:"amount"`
	Note      string     `json:"note,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// PartyKind distinguishes the two name registries.
type PartyKind string

const (
	PartySeller PartyKind = "seller"
	PartyBuyer  PartyKind = "buyer"
)

// Preferences holds the two scalar user preferences.
type Preferences struct {
	Greeting string `json:"greeting"`
	PaidLast bool   `json:"paid_last"`
}

// Pointers holds the two "last selected" name pointers.
type Pointers struct {
	LastSeller string `json:"last_seller"`
	LastBuyer  string `json:"last_buyer"`
}
