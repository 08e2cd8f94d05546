package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/zonoapp/workforce/internal"
	inventoryDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/inventory"
	"github.com/zonoapp/workforce/internal/inventory"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) inventory.RepositoryAPI {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) CreateItem(item *inventoryDatamodel.Item) error {
	return r.db.Create(item).Error
}

func (r *InventoryRepository) GetItem(tenantID, id int64) (*inventoryDatamodel.Item, error) {
	var row inventoryDatamodel.Item
	err := r.db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrItemNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *InventoryRepository) UpdateItem(item *inventoryDatamodel.Item) error {
	item.UpdatedAt = time.Now()
	return r.db.Save(item).Error
}

func (r *InventoryRepository) DeleteItem(tenantID, id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ? AND tenant_id = ?", id, tenantID).
			Delete(&inventoryDatamodel.Level{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND tenant_id = ?", id, tenantID).
			Delete(&inventoryDatamodel.Item{}).Error
	})
}

func (r *InventoryRepository) ListItems(tenantID int64, search string, limit, offset int) ([]*inventoryDatamodel.Item, error) {
	q := r.db.Where("tenant_id = ?", tenantID)
	if search != "" {
		q = q.Where("name ILIKE ? OR sku ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var rows []*inventoryDatamodel.Item
	err := q.Order("name ASC").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, err
}

func (r *InventoryRepository) CreateLevel(level *inventoryDatamodel.Level) error {
	return r.db.Create(level).Error
}

// LatestLevel returns nil, nil when no reading has been recorded.
func (r *InventoryRepository) LatestLevel(tenantID, itemID int64) (*inventoryDatamodel.Level, error) {
	var row inventoryDatamodel.Level
	err := r.db.Where("tenant_id = ? AND item_id = ?", tenantID, itemID).
		Order("id DESC").
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *InventoryRepository) ListLevels(tenantID, itemID int64, limit int) ([]*inventoryDatamodel.Level, error) {
	var rows []*inventoryDatamodel.Level
	err := r.db.Where("tenant_id = ? AND item_id = ?", tenantID, itemID).
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
