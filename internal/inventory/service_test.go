package inventory_test

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zonoapp/workforce/internal"
	"github.com/zonoapp/workforce/internal/auth"
	inventoryDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/inventory"
	"github.com/zonoapp/workforce/internal/core/events"
	"github.com/zonoapp/workforce/internal/inventory"
)

func TestInventoryService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Inventory Service Suite")
}

// Mock repository for testing
type mockInventoryRepository struct {
	items  map[int64]*inventoryDatamodel.Item
	levels []*inventoryDatamodel.Level
	nextID int64
}

func newMockInventoryRepository() *mockInventoryRepository {
	return &mockInventoryRepository{
		items:  make(map[int64]*inventoryDatamodel.Item),
		nextID: 1,
	}
}

func (m *mockInventoryRepository) CreateItem(item *inventoryDatamodel.Item) error {
	item.ID = m.nextID
	m.nextID++
	copied := *item
	m.items[item.ID] = &copied
	return nil
}

func (m *mockInventoryRepository) GetItem(tenantID, id int64) (*inventoryDatamodel.Item, error) {
	item, ok := m.items[id]
	if !ok || item.TenantID != tenantID {
		return nil, internal.ErrItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (m *mockInventoryRepository) UpdateItem(item *inventoryDatamodel.Item) error {
	copied := *item
	m.items[item.ID] = &copied
	return nil
}

func (m *mockInventoryRepository) DeleteItem(tenantID, id int64) error {
	delete(m.items, id)
	kept := m.levels[:0]
	for _, level := range m.levels {
		if level.ItemID != id {
			kept = append(kept, level)
		}
	}
	m.levels = kept
	return nil
}

func (m *mockInventoryRepository) ListItems(tenantID int64, search string, limit, offset int) ([]*inventoryDatamodel.Item, error) {
	var rows []*inventoryDatamodel.Item
	for _, item := range m.items {
		if item.TenantID != tenantID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(item.Name), strings.ToLower(search)) {
			continue
		}
		rows = append(rows, item)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

func (m *mockInventoryRepository) CreateLevel(level *inventoryDatamodel.Level) error {
	level.ID = m.nextID
	m.nextID++
	copied := *level
	m.levels = append(m.levels, &copied)
	return nil
}

func (m *mockInventoryRepository) LatestLevel(tenantID, itemID int64) (*inventoryDatamodel.Level, error) {
	for i := len(m.levels) - 1; i >= 0; i-- {
		if m.levels[i].TenantID == tenantID && m.levels[i].ItemID == itemID {
			return m.levels[i], nil
		}
	}
	return nil, nil
}

func (m *mockInventoryRepository) ListLevels(tenantID, itemID int64, limit int) ([]*inventoryDatamodel.Level, error) {
	var rows []*inventoryDatamodel.Level
	for i := len(m.levels) - 1; i >= 0; i-- {
		if m.levels[i].TenantID == tenantID && m.levels[i].ItemID == itemID {
			rows = append(rows, m.levels[i])
		}
	}
	return rows, nil
}

var _ = Describe("Inventory Service", func() {
	var (
		repo    *mockInventoryRepository
		service *inventory.Service
		manager *internal.Actor
		staff   *internal.Actor
		ctx     context.Context
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		repo = newMockInventoryRepository()
		service = inventory.NewService(repo, events.NewEventBus(logger), logger)
		ctx = context.Background()

		manager = &internal.Actor{UserID: 1, TenantID: 1, Role: auth.RoleManager}
		staff = &internal.Actor{UserID: 2, TenantID: 1, Role: auth.RoleStaff}
	})

	createItem := func(name string, threshold int) *inventory.Item {
		item, err := service.CreateItem(ctx, manager, inventory.CreateItemDTO{
			Name: name, LowStockThreshold: threshold,
		})
		Expect(err).ToNot(HaveOccurred())
		return item
	}

	Describe("CreateItem", func() {
		It("creates an item without a stock level", func() {
			item := createItem("Espresso Beans", 5)
			Expect(item.QtyOnHand).To(BeZero())
			Expect(item.LowStock).To(BeFalse())
		})

		It("rejects non-managerial callers", func() {
			_, err := service.CreateItem(ctx, staff, inventory.CreateItemDTO{Name: "Beans"})
			Expect(err).To(Equal(internal.ErrForbidden))
		})
	})

	Describe("RecordLevel", func() {
		It("appends readings; the latest one wins", func() {
			item := createItem("Espresso Beans", 5)

			_, err := service.RecordLevel(ctx, manager, item.ID, inventory.RecordLevelDTO{QtyOnHand: 12})
			Expect(err).ToNot(HaveOccurred())
			updated, err := service.RecordLevel(ctx, manager, item.ID, inventory.RecordLevelDTO{QtyOnHand: 7})
			Expect(err).ToNot(HaveOccurred())
			Expect(updated.QtyOnHand).To(Equal(7))

			history, err := service.ItemHistory(manager, item.ID, 10)
			Expect(err).ToNot(HaveOccurred())
			Expect(history).To(HaveLen(2))
		})

		It("flags low stock at or below the threshold", func() {
			item := createItem("Espresso Beans", 5)

			at, err := service.RecordLevel(ctx, manager, item.ID, inventory.RecordLevelDTO{QtyOnHand: 5})
			Expect(err).ToNot(HaveOccurred())
			Expect(at.LowStock).To(BeTrue())

			above, err := service.RecordLevel(ctx, manager, item.ID, inventory.RecordLevelDTO{QtyOnHand: 6})
			Expect(err).ToNot(HaveOccurred())
			Expect(above.LowStock).To(BeFalse())
		})

		It("rejects a negative reading", func() {
			item := createItem("Espresso Beans", 5)
			_, err := service.RecordLevel(ctx, manager, item.ID, inventory.RecordLevelDTO{QtyOnHand: -1})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("ListItems", func() {
		It("filters to low items only when asked", func() {
			beans := createItem("Espresso Beans", 5)
			milk := createItem("Oat Milk", 10)
			createItem("Paper Cups", 100)

			_, err := service.RecordLevel(ctx, manager, beans.ID, inventory.RecordLevelDTO{QtyOnHand: 3})
			Expect(err).ToNot(HaveOccurred())
			_, err = service.RecordLevel(ctx, manager, milk.ID, inventory.RecordLevelDTO{QtyOnHand: 20})
			Expect(err).ToNot(HaveOccurred())

			low, err := service.ListItems(staff, inventory.ListItemsQuery{LowOnly: true})
			Expect(err).ToNot(HaveOccurred())
			Expect(low).To(HaveLen(1))
			Expect(low[0].Name).To(Equal("Espresso Beans"))
		})

		It("never counts an item without readings as low", func() {
			createItem("Paper Cups", 100)
			low, err := service.ListItems(staff, inventory.ListItemsQuery{LowOnly: true})
			Expect(err).ToNot(HaveOccurred())
			Expect(low).To(BeEmpty())
		})
	})

	Describe("DeleteItem", func() {
		It("removes the item and its level history", func() {
			item := createItem("Espresso Beans", 5)
			_, err := service.RecordLevel(ctx, manager, item.ID, inventory.RecordLevelDTO{QtyOnHand: 3})
			Expect(err).ToNot(HaveOccurred())

			Expect(service.DeleteItem(ctx, manager, item.ID)).To(Succeed())
			_, err = service.GetItem(manager, item.ID)
			Expect(err).To(Equal(internal.ErrItemNotFound))
		})
	})
})
