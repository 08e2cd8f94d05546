package inventory

import (
	"context"
	"log/slog"

	"github.com/zonoapp/workforce/internal"
	"github.com/zonoapp/workforce/internal/auth"
	inventoryDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/inventory"
	"github.com/zonoapp/workforce/internal/core/events"
)

// RepositoryAPI defines inventory persistence. Levels are append-only;
// LatestLevel returns nil when an item has no readings yet.
type RepositoryAPI interface {
	CreateItem(item *inventoryDatamodel.Item) error
	GetItem(tenantID, id int64) (*inventoryDatamodel.Item, error)
	UpdateItem(item *inventoryDatamodel.Item) error
	DeleteItem(tenantID, id int64) error
	ListItems(tenantID int64, search string, limit, offset int) ([]*inventoryDatamodel.Item, error)
	CreateLevel(level *inventoryDatamodel.Level) error
	LatestLevel(tenantID, itemID int64) (*inventoryDatamodel.Level, error)
	ListLevels(tenantID, itemID int64, limit int) ([]*inventoryDatamodel.Level, error)
}

type Service struct {
	repo   RepositoryAPI
	bus    *events.EventBus
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{repo: repo, bus: bus, logger: logger}
}

func (s *Service) withLevel(item *inventoryDatamodel.Item) (*Item, error) {
	level, err := s.repo.LatestLevel(item.TenantID, item.ID)
	if err != nil {
		return nil, err
	}
	if level == nil {
		return FromDataModel(item, 0, false), nil
	}
	return FromDataModel(item, level.QtyOnHand, true), nil
}

func (s *Service) CreateItem(ctx context.Context, actor *internal.Actor, dto CreateItemDTO) (*Item, error) {
	if !auth.Can(actor.Role, auth.ActionInventoryManage) {
		return nil, internal.ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row := &inventoryDatamodel.Item{
		TenantID:          actor.TenantID,
		Name:              dto.Name,
		LowStockThreshold: dto.LowStockThreshold,
	}
	if dto.SKU != "" {
		row.SKU = &dto.SKU
	}
	if err := s.repo.CreateItem(row); err != nil {
		s.logger.Error("failed to create inventory item", "error", err, "tenant_id", actor.TenantID)
		return nil, internal.NewInternalError("failed to create item", err)
	}

	s.logger.Info("inventory item created", "item_id", row.ID, "tenant_id", actor.TenantID)
	s.bus.Publish(ctx, events.NewAuditRecordEvent(actor.TenantID, actor.UserID, "create", "inventory_item", row.ID, nil, dto))
	return FromDataModel(row, 0, false), nil
}

func (s *Service) GetItem(actor *internal.Actor, id int64) (*Item, error) {
	row, err := s.repo.GetItem(actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	return s.withLevel(row)
}

func (s *Service) UpdateItem(ctx context.Context, actor *internal.Actor, id int64, dto UpdateItemDTO) (*Item, error) {
	if !auth.Can(actor.Role, auth.ActionInventoryManage) {
		return nil, internal.ErrForbidden
	}

	row, err := s.repo.GetItem(actor.TenantID, id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		if *dto.Name == "" {
			return nil, internal.NewValidationError("name must not be empty", internal.ErrCodeValidationFailed)
		}
		row.Name = *dto.Name
	}
	if dto.SKU != nil {
		row.SKU = dto.SKU
	}
	if dto.LowStockThreshold != nil {
		if *dto.LowStockThreshold < 0 {
			return nil, internal.NewValidationError("low_stock_threshold must not be negative", internal.ErrCodeValidationFailed)
		}
		row.LowStockThreshold = *dto.LowStockThreshold
	}

	if err := s.repo.UpdateItem(row); err != nil {
		s.logger.Error("failed to update inventory item", "error", err, "item_id", id)
		return nil, internal.NewInternalError("failed to update item", err)
	}
	return s.withLevel(row)
}

func (s *Service) DeleteItem(ctx context.Context, actor *internal.Actor, id int64) error {
	if !auth.Can(actor.Role, auth.ActionInventoryManage) {
		return internal.ErrForbidden
	}
	if _, err := s.repo.GetItem(actor.TenantID, id); err != nil {
		return err
	}
	if err := s.repo.DeleteItem(actor.TenantID, id); err != nil {
		s.logger.Error("failed to delete inventory item", "error", err, "item_id", id)
		return internal.NewInternalError("failed to delete item", err)
	}
	s.bus.Publish(ctx, events.NewAuditRecordEvent(actor.TenantID, actor.UserID, "delete", "inventory_item", id, nil, nil))
	return nil
}

// RecordLevel appends a stock reading. Readings are never edited in
// place; history stays intact for reconciliation.
func (s *Service) RecordLevel(ctx context.Context, actor *internal.Actor, itemID int64, dto RecordLevelDTO) (*Item, error) {
	if !auth.Can(actor.Role, auth.ActionInventoryManage) {
		return nil, internal.ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(actor.TenantID, itemID)
	if err != nil {
		return nil, err
	}

	level := &inventoryDatamodel.Level{
		TenantID:  actor.TenantID,
		ItemID:    itemID,
		QtyOnHand: dto.QtyOnHand,
	}
	if err := s.repo.CreateLevel(level); err != nil {
		s.logger.Error("failed to record inventory level", "error", err, "item_id", itemID)
		return nil, internal.NewInternalError("failed to record level", err)
	}

	if dto.QtyOnHand <= item.LowStockThreshold {
		s.logger.Warn("inventory item below threshold",
			"item_id", itemID,
			"qty_on_hand", dto.QtyOnHand,
			"threshold", item.LowStockThreshold,
			"tenant_id", actor.TenantID)
	}

	return FromDataModel(item, dto.QtyOnHand, true), nil
}

func (s *Service) ListItems(actor *internal.Actor, query ListItemsQuery) ([]*Item, error) {
	limit := query.Limit
	if limit <= 0 || limit > 200 {
		limit = 100
	}

	rows, err := s.repo.ListItems(actor.TenantID, query.Search, limit, query.Offset)
	if err != nil {
		return nil, internal.NewInternalError("failed to list items", err)
	}

	items := make([]*Item, 0, len(rows))
	for _, row := range rows {
		item, err := s.withLevel(row)
		if err != nil {
			return nil, internal.NewInternalError("failed to resolve stock level", err)
		}
		if query.LowOnly && !item.LowStock {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *Service) ItemHistory(actor *internal.Actor, itemID int64, limit int) ([]*Level, error) {
	if _, err := s.repo.GetItem(actor.TenantID, itemID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := s.repo.ListLevels(actor.TenantID, itemID, limit)
	if err != nil {
		return nil, internal.NewInternalError("failed to list levels", err)
	}
	return LevelsFromDataModel(rows), nil
}
