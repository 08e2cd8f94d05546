package inventory

import "time"

type Item struct {
	ID                int64     `gorm:"primaryKey"`
	TenantID          int64     `gorm:"column:tenant_id;not null;index"`
	Name              string    `gorm:"column:name;not null"`
	SKU               *string   `gorm:"column:sku"`
	LowStockThreshold int       `gorm:"column:low_stock_threshold;not null;default:0"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Item) TableName() string {
	return "inventory_items"
}

// Level is an append-only stock reading for an item; the newest row is
// the current quantity on hand.
type Level struct {
	ID        int64     `gorm:"primaryKey"`
	TenantID  int64     `gorm:"column:tenant_id;not null;index"`
	ItemID    int64     `gorm:"column:item_id;not null;index"`
	QtyOnHand int       `gorm:"column:qty_on_hand;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Level) TableName() string {
	return "inventory_levels"
}
