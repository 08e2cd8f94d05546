package inventory

import (
	"time"

	inventoryDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/inventory"
)

// Item is a stocked good tracked per tenant. QtyOnHand is the newest
// recorded level, zero when no level has been recorded yet.
type Item struct {
	ID                int64     `json:"id"`
	TenantID          int64     `json:"tenant_id"`
	Name              string    `json:"name"`
	SKU               string    `json:"sku,omitempty"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	QtyOnHand         int       `json:"qty_on_hand"`
	LowStock          bool      `json:"low_stock"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type Level struct {
	ID        int64     `json:"id"`
	ItemID    int64     `json:"item_id"`
	QtyOnHand int       `json:"qty_on_hand"`
	CreatedAt time.Time `json:"created_at"`
}

func FromDataModel(row *inventoryDatamodel.Item, qty int, hasLevel bool) *Item {
	item := &Item{
		ID:                row.ID,
		TenantID:          row.TenantID,
		Name:              row.Name,
		LowStockThreshold: row.LowStockThreshold,
		QtyOnHand:         qty,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}
	if row.SKU != nil {
		item.SKU = *row.SKU
	}
	if hasLevel {
		item.LowStock = qty <= row.LowStockThreshold
	}
	return item
}

func LevelFromDataModel(row *inventoryDatamodel.Level) *Level {
	return &Level{
		ID:        row.ID,
		ItemID:    row.ItemID,
		QtyOnHand: row.QtyOnHand,
		CreatedAt: row.CreatedAt,
	}
}

func LevelsFromDataModel(rows []*inventoryDatamodel.Level) []*Level {
	result := make([]*Level, len(rows))
	for i, row := range rows {
		result[i] = LevelFromDataModel(row)
	}
	return result
}
