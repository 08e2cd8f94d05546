package inventory

import "github.com/zonoapp/workforce/internal"

type CreateItemDTO struct {
	Name              string `json:"name"`
	SKU               string `json:"sku,omitempty"`
	LowStockThreshold int    `json:"low_stock_threshold,omitempty"`
}

func (dto CreateItemDTO) Validate() error {
	if dto.Name == "" {
		return internal.NewValidationError("name is required", internal.ErrCodeValidationFailed)
	}
	if dto.LowStockThreshold < 0 {
		return internal.NewValidationError("low_stock_threshold must not be negative", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateItemDTO struct {
	Name              *string `json:"name,omitempty"`
	SKU               *string `json:"sku,omitempty"`
	LowStockThreshold *int    `json:"low_stock_threshold,omitempty"`
}

type RecordLevelDTO struct {
	QtyOnHand int `json:"qty_on_hand"`
}

func (dto RecordLevelDTO) Validate() error {
	if dto.QtyOnHand < 0 {
		return internal.NewValidationError("qty_on_hand must not be negative", internal.ErrCodeValidationFailed)
	}
	return nil
}

type ListItemsQuery struct {
	Search  string `json:"search,omitempty"`
	LowOnly bool   `json:"low_only,omitempty"`
	Limit   int    `json:"limit,omitempty"`
	Offset  int    `json:"offset,omitempty"`
}
