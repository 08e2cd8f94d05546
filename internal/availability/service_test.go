package availability_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zonoapp/workforce/internal"
	"github.com/zonoapp/workforce/internal/auth"
	"github.com/zonoapp/workforce/internal/availability"
	availabilityDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/availability"
	employeeDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/employee"
)

func TestAvailabilityService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Availability Service Suite")
}

// Mock repository for testing. Upsert emulates the unique (tenant,
// employee, date) key the real store enforces.
type mockAvailabilityRepository struct {
	rows   map[int64]*availabilityDatamodel.Availability
	nextID int64
}

func newMockAvailabilityRepository() *mockAvailabilityRepository {
	return &mockAvailabilityRepository{
		rows:   make(map[int64]*availabilityDatamodel.Availability),
		nextID: 1,
	}
}

func (m *mockAvailabilityRepository) Upsert(row *availabilityDatamodel.Availability) error {
	for _, existing := range m.rows {
		if existing.TenantID == row.TenantID && existing.EmployeeID == row.EmployeeID && existing.Date.Equal(row.Date) {
			row.ID = existing.ID
			copied := *row
			m.rows[row.ID] = &copied
			return nil
		}
	}
	row.ID = m.nextID
	m.nextID++
	copied := *row
	m.rows[row.ID] = &copied
	return nil
}

func (m *mockAvailabilityRepository) GetByID(tenantID, id int64) (*availabilityDatamodel.Availability, error) {
	row, ok := m.rows[id]
	if !ok || row.TenantID != tenantID {
		return nil, internal.ErrAvailabilityNotFound
	}
	copied := *row
	return &copied, nil
}

func (m *mockAvailabilityRepository) Delete(tenantID, id int64) error {
	delete(m.rows, id)
	return nil
}

func (m *mockAvailabilityRepository) ListRange(tenantID int64, from, to time.Time, employeeID int64) ([]*availabilityDatamodel.Availability, error) {
	var rows []*availabilityDatamodel.Availability
	for _, row := range m.rows {
		if row.TenantID != tenantID {
			continue
		}
		if employeeID != 0 && row.EmployeeID != employeeID {
			continue
		}
		if row.Date.Before(from) || row.Date.After(to) {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type mockAvailabilityEmployeeDirectory struct {
	byUser map[int64]*employeeDatamodel.Employee
}

func (m *mockAvailabilityEmployeeDirectory) FindByUser(tenantID, userID int64) (*employeeDatamodel.Employee, error) {
	emp, ok := m.byUser[userID]
	if !ok || emp.TenantID != tenantID {
		return nil, nil
	}
	return emp, nil
}

var _ = Describe("Availability Service", func() {
	var (
		repo    *mockAvailabilityRepository
		service *availability.Service
		staff   *internal.Actor
		other   *internal.Actor
		manager *internal.Actor
		ctx     context.Context
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		repo = newMockAvailabilityRepository()
		directory := &mockAvailabilityEmployeeDirectory{byUser: map[int64]*employeeDatamodel.Employee{
			2: {ID: 20, TenantID: 1, Name: "Jonas"},
		}}
		service = availability.NewService(repo, directory, logger)
		ctx = context.Background()

		staff = &internal.Actor{UserID: 2, EmployeeID: 20, TenantID: 1, Role: auth.RoleStaff}
		other = &internal.Actor{UserID: 3, EmployeeID: 21, TenantID: 1, Role: auth.RoleStaff}
		manager = &internal.Actor{UserID: 1, EmployeeID: 10, TenantID: 1, Role: auth.RoleManager}
	})

	Describe("UpsertMine", func() {
		It("creates an entry for the caller", func() {
			entry, err := service.UpsertMine(ctx, staff, availability.UpsertAvailabilityDTO{
				Date: "2026-03-01", Start: "09:00", End: "15:00", Note: "school run after",
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(entry.EmployeeID).To(Equal(int64(20)))
			Expect(entry.Note).To(Equal("school run after"))
		})

		It("replaces the entry for the same day instead of adding one", func() {
			_, err := service.UpsertMine(ctx, staff, availability.UpsertAvailabilityDTO{
				Date: "2026-03-01", Start: "09:00", End: "15:00",
			})
			Expect(err).ToNot(HaveOccurred())

			replaced, err := service.UpsertMine(ctx, staff, availability.UpsertAvailabilityDTO{
				Date: "2026-03-01", Start: "10:00", End: "16:00",
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(replaced.Start).To(Equal("10:00"))
			Expect(repo.rows).To(HaveLen(1))
		})

		It("rejects an inverted time range", func() {
			_, err := service.UpsertMine(ctx, staff, availability.UpsertAvailabilityDTO{
				Date: "2026-03-01", Start: "15:00", End: "09:00",
			})
			Expect(err).To(Equal(internal.ErrInvalidTimeRange))
		})

		It("resolves the employee through the user link when the actor carries none", func() {
			linked := &internal.Actor{UserID: 2, EmployeeID: 0, TenantID: 1, Role: auth.RoleStaff}
			entry, err := service.UpsertMine(ctx, linked, availability.UpsertAvailabilityDTO{
				Date: "2026-03-01", Start: "09:00", End: "15:00",
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(entry.EmployeeID).To(Equal(int64(20)))
		})

		It("fails for a user without an employee record", func() {
			unlinked := &internal.Actor{UserID: 42, TenantID: 1, Role: auth.RoleStaff}
			_, err := service.UpsertMine(ctx, unlinked, availability.UpsertAvailabilityDTO{
				Date: "2026-03-01", Start: "09:00", End: "15:00",
			})
			Expect(err).To(Equal(internal.ErrEmployeeNotFound))
		})
	})

	Describe("DeleteMine", func() {
		It("lets the owner delete their entry", func() {
			entry, err := service.UpsertMine(ctx, staff, availability.UpsertAvailabilityDTO{
				Date: "2026-03-01", Start: "09:00", End: "15:00",
			})
			Expect(err).ToNot(HaveOccurred())

			Expect(service.DeleteMine(ctx, staff, entry.ID)).To(Succeed())
			Expect(repo.rows).To(BeEmpty())
		})

		It("forbids deleting someone else's entry", func() {
			entry, err := service.UpsertMine(ctx, staff, availability.UpsertAvailabilityDTO{
				Date: "2026-03-01", Start: "09:00", End: "15:00",
			})
			Expect(err).ToNot(HaveOccurred())

			err = service.DeleteMine(ctx, other, entry.ID)
			Expect(err).To(Equal(internal.ErrForbidden))
		})

		It("lets a manager delete anyone's entry", func() {
			entry, err := service.UpsertMine(ctx, staff, availability.UpsertAvailabilityDTO{
				Date: "2026-03-01", Start: "09:00", End: "15:00",
			})
			Expect(err).ToNot(HaveOccurred())

			Expect(service.DeleteMine(ctx, manager, entry.ID)).To(Succeed())
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			_, err := service.UpsertMine(ctx, staff, availability.UpsertAvailabilityDTO{
				Date: "2026-03-01", Start: "09:00", End: "15:00",
			})
			Expect(err).ToNot(HaveOccurred())
			repo.Upsert(&availabilityDatamodel.Availability{
				TenantID: 1, EmployeeID: 21,
				Date:  time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
				Start: "12:00", End: "20:00",
			})
		})

		It("clamps non-managerial callers to their own entries", func() {
			rows, err := service.List(ctx, staff, availability.ListAvailabilityQuery{
				From: "2026-03-01", To: "2026-03-07", EmployeeID: 21,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].EmployeeID).To(Equal(int64(20)))
		})

		It("lets managers see the whole tenant", func() {
			rows, err := service.List(ctx, manager, availability.ListAvailabilityQuery{
				From: "2026-03-01", To: "2026-03-07",
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(rows).To(HaveLen(2))
		})

		It("rejects an inverted range", func() {
			_, err := service.List(ctx, manager, availability.ListAvailabilityQuery{
				From: "2026-03-07", To: "2026-03-01",
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})
})
