package models

// SellerGroup is one seller's bucket in the per-seller report.
type SellerGroup struct {
	Seller string          `json:"seller"`
	Items  []InventoryItem `json:"items"`
	Spent  float64         `json:"spent"`  // sum of buy + ship-in
	Worth  float64         `json:"worth"`  // sum of configured/derived sell prices
	Profit float64         `json:"profit"` // worth - spent
}

// SellerReport groups inventory by seller with grand totals.
type SellerReport struct {
	Groups      []SellerGroup `json:"groups"`
	TotalSpent  float64       `json:"total_spent"`
	TotalWorth  float64       `json:"total_worth"`
	TotalProfit float64       `json:"total_profit"`
}

// BuyerGroup is one buyer's bucket in the per-buyer report.
type BuyerGroup struct {
	Buyer       string       `json:"buyer"`
	Records     []SoldRecord `json:"records"`
	Gross       float64      `json:"gross"`
	ShippingFee float64      `json:"shipping_fee"`
	Net         float64      `json:"net"` // gross - shipping fee
	AllPaid     bool         `json:"all_paid"`
}

// BuyerReport groups sold records by buyer.
type BuyerReport struct {
	Groups []BuyerGroup `json:"groups"`
}

// CashReport summarizes the cash ledger and sold revenue.
type CashReport struct {
	BySource       map[CashSource]float64 `json:"by_source"`
	OnHand         float64                `json:"on_hand"`
	PaidRevenue    float64                `json:"paid_revenue"`
	PendingRevenue float64                `json:"pending_revenue"`
	GrandTotal     float64                `json:"grand_total"` // on hand + paid revenue; pending reported separately
}
