package domain

import "time"

type DeviceType string

const (
	DeviceTypePS3  DeviceType = "ps3"
	DeviceTypePS4  DeviceType = "ps4"
	DeviceTypeTV32 DeviceType = "tv_32"
)

// InventoryItem tracks one device type. Available never leaves [0, Stock].
type InventoryItem struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Type      DeviceType `json:"type"`
	Stock     int        `json:"stock"`
	Available int        `json:"available"`
	MinStock  int        `json:"min_stock"`
}

// IsLowStock reports whether the item reached its alert threshold.
func (i InventoryItem) IsLowStock() bool {
	return i.Available <= i.MinStock
}

// Take consumes one unit, floored at zero.
func (i *InventoryItem) Take() {
	if i.Available > 0 {
		i.Available--
	}
}

// Return gives one unit back, capped at Stock.
func (i *InventoryItem) Return() {
	if i.Available < i.Stock {
		i.Available++
	}
}

// StockHistory is an append-only audit record of a stock correction.
type StockHistory struct {
	ID            string    `json:"id"`
	ItemID        string    `json:"item_id"`
	PreviousStock int       `json:"previous_stock"`
	NewStock      int       `json:"new_stock"`
	Reason        string    `json:"reason"`
	ChangedBy     string    `json:"changed_by"`
	ChangedAt     time.Time `json:"changed_at"`
}

func DefaultInventory() []InventoryItem {
	return []InventoryItem{
		{ID: "1", Name: "PlayStation 3", Type: DeviceTypePS3, Stock: 0, Available: 0, MinStock: 2},
		{ID: "2", Name: "PlayStation 4", Type: DeviceTypePS4, Stock: 1, Available: 1, MinStock: 1},
		{ID: "3", Name: "TV 32 inch", Type: DeviceTypeTV32, Stock: 0, Available: 0, MinStock: 2},
	}
}
