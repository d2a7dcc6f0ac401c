package models

// SnapshotVersion is the current snapshot format version.
const SnapshotVersion = 3

// Snapshot is the full exported state of all collections at a point in time.
// Fields are pointers so that a restore can distinguish "absent" (leave the
// live collection untouched) from "present but empty" (overwrite with empty).
type Snapshot struct {
	Bought     *[]InventoryItem    `json:"bought,omitempty"`
	ForSale    *[]Listing          `json:"forsale,omitempty"`
	Sold       *[]SoldRecord       `json:"sold,omitempty"`
	Cash       *[]CashEntry        `json:"cash,omitempty"`
	Sellers    *[]string           `json:"sellers,omitempty"`
	Shipping   *map[string]float64 `json:"shipping,omitempty"`
	Buyers     *[]string           `json:"buyers,omitempty"`
	ExportedAt string              `json:"exportedAt"`
	Version    int                 `json:"version"`
	Auto       bool                `json:"auto,omitempty"`
}
