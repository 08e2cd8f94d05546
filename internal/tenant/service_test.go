package tenant_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zonoapp/workforce/internal"
	"github.com/zonoapp/workforce/internal/auth"
	tenantDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/tenant"
	"github.com/zonoapp/workforce/internal/core/events"
	"github.com/zonoapp/workforce/internal/tenant"
)

func TestTenantService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Tenant Service Suite")
}

// Mock repository for testing
type mockTenantRepository struct {
	tenants map[int64]*tenantDatamodel.Tenant
	flags   map[int64]map[string]bool
	nextID  int64

	upsertFailAfter int
	upserts         int
}

func newMockTenantRepository() *mockTenantRepository {
	return &mockTenantRepository{
		tenants:         make(map[int64]*tenantDatamodel.Tenant),
		flags:           make(map[int64]map[string]bool),
		nextID:          1,
		upsertFailAfter: -1,
	}
}

func (m *mockTenantRepository) Create(t *tenantDatamodel.Tenant) error {
	t.ID = m.nextID
	m.nextID++
	copied := *t
	m.tenants[t.ID] = &copied
	return nil
}

func (m *mockTenantRepository) GetByID(id int64) (*tenantDatamodel.Tenant, error) {
	t, ok := m.tenants[id]
	if !ok {
		return nil, internal.ErrTenantNotFound
	}
	copied := *t
	return &copied, nil
}

func (m *mockTenantRepository) List(limit, offset int) ([]*tenantDatamodel.Tenant, error) {
	var rows []*tenantDatamodel.Tenant
	for _, t := range m.tenants {
		rows = append(rows, t)
	}
	return rows, nil
}

func (m *mockTenantRepository) ListFlags(tenantID int64) ([]*tenantDatamodel.FeatureFlag, error) {
	var rows []*tenantDatamodel.FeatureFlag
	for key, enabled := range m.flags[tenantID] {
		rows = append(rows, &tenantDatamodel.FeatureFlag{TenantID: tenantID, Key: key, Enabled: enabled})
	}
	return rows, nil
}

func (m *mockTenantRepository) UpsertFlag(flag *tenantDatamodel.FeatureFlag) error {
	if m.upsertFailAfter >= 0 && m.upserts >= m.upsertFailAfter {
		return errDBDown
	}
	m.upserts++
	if m.flags[flag.TenantID] == nil {
		m.flags[flag.TenantID] = make(map[string]bool)
	}
	m.flags[flag.TenantID][flag.Key] = flag.Enabled
	return nil
}

// Transaction snapshots the flag state and restores it when fn fails,
// mirroring the rollback of the real store.
func (m *mockTenantRepository) Transaction(fn func(tx tenant.RepositoryAPI) error) error {
	snapshot := make(map[int64]map[string]bool, len(m.flags))
	for id, flags := range m.flags {
		copied := make(map[string]bool, len(flags))
		for k, v := range flags {
			copied[k] = v
		}
		snapshot[id] = copied
	}

	if err := fn(m); err != nil {
		m.flags = snapshot
		return err
	}
	return nil
}

var errDBDown = internal.NewInternalError("db down", nil)

var _ = Describe("Tenant Service", func() {
	var (
		repo      *mockTenantRepository
		service   *tenant.Service
		zonoAdmin *internal.Actor
		manager   *internal.Actor
		ctx       context.Context
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		repo = newMockTenantRepository()
		service = tenant.NewService(repo, events.NewEventBus(logger), logger)
		ctx = context.Background()

		zonoAdmin = &internal.Actor{UserID: 1, TenantID: 1, Role: auth.RoleZonoAdmin}
		manager = &internal.Actor{UserID: 2, TenantID: 1, Role: auth.RoleManager}
	})

	Describe("Create", func() {
		It("provisions a tenant for the platform admin", func() {
			created, err := service.Create(ctx, zonoAdmin, tenant.CreateTenantDTO{Name: "Cafe Sonne", Slug: "cafe-sonne"})
			Expect(err).ToNot(HaveOccurred())
			Expect(created.ID).ToNot(BeZero())
		})

		It("rejects tenant-level roles", func() {
			_, err := service.Create(ctx, manager, tenant.CreateTenantDTO{Name: "Cafe Sonne", Slug: "cafe-sonne"})
			Expect(err).To(Equal(internal.ErrForbidden))
		})
	})

	Describe("Get", func() {
		It("hides other tenants behind not found, not forbidden", func() {
			_, err := service.Create(ctx, zonoAdmin, tenant.CreateTenantDTO{Name: "Cafe Sonne", Slug: "cafe-sonne"})
			Expect(err).ToNot(HaveOccurred())
			created, err := service.Create(ctx, zonoAdmin, tenant.CreateTenantDTO{Name: "Bar Luna", Slug: "bar-luna"})
			Expect(err).ToNot(HaveOccurred())
			Expect(created.ID).ToNot(Equal(manager.TenantID))

			_, err = service.Get(manager, created.ID)
			Expect(err).To(Equal(internal.ErrTenantNotFound))
		})

		It("lets a manager read their own tenant", func() {
			created, err := service.Create(ctx, zonoAdmin, tenant.CreateTenantDTO{Name: "Cafe Sonne", Slug: "cafe-sonne"})
			Expect(err).ToNot(HaveOccurred())

			own := &internal.Actor{UserID: 2, TenantID: created.ID, Role: auth.RoleManager}
			got, err := service.Get(own, created.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(got.Slug).To(Equal("cafe-sonne"))
		})
	})

	Describe("SetFeatures", func() {
		var tenantID int64

		BeforeEach(func() {
			created, err := service.Create(ctx, zonoAdmin, tenant.CreateTenantDTO{Name: "Cafe Sonne", Slug: "cafe-sonne"})
			Expect(err).ToNot(HaveOccurred())
			tenantID = created.ID
		})

		It("applies all flags and reads them back", func() {
			err := service.SetFeatures(ctx, zonoAdmin, tenantID, tenant.SetFeaturesDTO{
				Features: map[string]bool{"swaps": true, "inventory": false},
			})
			Expect(err).ToNot(HaveOccurred())

			features, err := service.Features(zonoAdmin, tenantID)
			Expect(err).ToNot(HaveOccurred())
			Expect(features).To(Equal(map[string]bool{"swaps": true, "inventory": false}))
		})

		It("rolls back the whole batch when one write fails", func() {
			err := service.SetFeatures(ctx, zonoAdmin, tenantID, tenant.SetFeaturesDTO{
				Features: map[string]bool{"swaps": true},
			})
			Expect(err).ToNot(HaveOccurred())

			repo.upsertFailAfter = repo.upserts + 1
			err = service.SetFeatures(ctx, zonoAdmin, tenantID, tenant.SetFeaturesDTO{
				Features: map[string]bool{"inventory": true, "exports": true},
			})
			Expect(err).To(HaveOccurred())

			features, err := service.Features(zonoAdmin, tenantID)
			Expect(err).ToNot(HaveOccurred())
			Expect(features).To(Equal(map[string]bool{"swaps": true}))
		})

		It("rejects an empty flag map", func() {
			err := service.SetFeatures(ctx, zonoAdmin, tenantID, tenant.SetFeaturesDTO{})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("fails for an unknown tenant", func() {
			err := service.SetFeatures(ctx, zonoAdmin, 999, tenant.SetFeaturesDTO{
				Features: map[string]bool{"swaps": true},
			})
			Expect(err).To(Equal(internal.ErrTenantNotFound))
		})
	})
})
