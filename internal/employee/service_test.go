package employee_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zonoapp/workforce/internal"
	"github.com/zonoapp/workforce/internal/auth"
	employeeDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/employee"
	"github.com/zonoapp/workforce/internal/core/events"
	"github.com/zonoapp/workforce/internal/employee"
)

func TestEmployeeService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Employee Service Suite")
}

// Mock repository for testing
type mockEmployeeRepository struct {
	employees  map[int64]*employeeDatamodel.Employee
	referenced map[int64]bool
	nextID     int64
}

func newMockEmployeeRepository() *mockEmployeeRepository {
	return &mockEmployeeRepository{
		employees:  make(map[int64]*employeeDatamodel.Employee),
		referenced: make(map[int64]bool),
		nextID:     1,
	}
}

func (m *mockEmployeeRepository) Create(e *employeeDatamodel.Employee) error {
	e.ID = m.nextID
	m.nextID++
	copied := *e
	m.employees[e.ID] = &copied
	return nil
}

func (m *mockEmployeeRepository) GetByID(tenantID, id int64) (*employeeDatamodel.Employee, error) {
	e, ok := m.employees[id]
	if !ok || e.TenantID != tenantID {
		return nil, internal.ErrEmployeeNotFound
	}
	copied := *e
	return &copied, nil
}

func (m *mockEmployeeRepository) FindInTenant(tenantID, employeeID int64) (*employeeDatamodel.Employee, error) {
	e, ok := m.employees[employeeID]
	if !ok || e.TenantID != tenantID {
		return nil, nil
	}
	return e, nil
}

func (m *mockEmployeeRepository) FindByUser(tenantID, userID int64) (*employeeDatamodel.Employee, error) {
	for _, e := range m.employees {
		if e.TenantID == tenantID && e.UserID != nil && *e.UserID == userID {
			return e, nil
		}
	}
	return nil, nil
}

func (m *mockEmployeeRepository) Update(e *employeeDatamodel.Employee) error {
	copied := *e
	m.employees[e.ID] = &copied
	return nil
}

func (m *mockEmployeeRepository) Delete(tenantID, id int64) error {
	delete(m.employees, id)
	return nil
}

func (m *mockEmployeeRepository) List(tenantID int64, limit, offset int) ([]*employeeDatamodel.Employee, error) {
	var rows []*employeeDatamodel.Employee
	for _, e := range m.employees {
		if e.TenantID == tenantID {
			rows = append(rows, e)
		}
	}
	return rows, nil
}

func (m *mockEmployeeRepository) HasReferences(tenantID, employeeID int64) (bool, error) {
	return m.referenced[employeeID], nil
}

var _ = Describe("Employee Service", func() {
	var (
		repo    *mockEmployeeRepository
		service *employee.Service
		admin   *internal.Actor
		manager *internal.Actor
		ctx     context.Context
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		repo = newMockEmployeeRepository()
		service = employee.NewService(repo, events.NewEventBus(logger), logger)
		ctx = context.Background()

		admin = &internal.Actor{UserID: 1, TenantID: 1, Role: auth.RoleTenantAdmin}
		manager = &internal.Actor{UserID: 5, TenantID: 1, Role: auth.RoleManager}
	})

	Describe("Create", func() {
		It("creates an employee defaulting the role", func() {
			created, err := service.Create(ctx, admin, employee.CreateEmployeeDTO{Name: "Jonas Keller"})
			Expect(err).ToNot(HaveOccurred())
			Expect(created.Role).To(Equal("Staff"))
			Expect(created.UserID).To(BeNil())
		})

		It("rejects managers; employee management is admin-only", func() {
			_, err := service.Create(ctx, manager, employee.CreateEmployeeDTO{Name: "Jonas Keller"})
			Expect(err).To(Equal(internal.ErrForbidden))
		})

		It("rejects a missing name", func() {
			_, err := service.Create(ctx, admin, employee.CreateEmployeeDTO{})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("Delete", func() {
		It("deletes an unreferenced employee", func() {
			created, err := service.Create(ctx, admin, employee.CreateEmployeeDTO{Name: "Jonas Keller"})
			Expect(err).ToNot(HaveOccurred())

			Expect(service.Delete(ctx, admin, created.ID)).To(Succeed())
		})

		It("conflicts when the employee still has shifts or attendance", func() {
			created, err := service.Create(ctx, admin, employee.CreateEmployeeDTO{Name: "Jonas Keller"})
			Expect(err).ToNot(HaveOccurred())
			repo.referenced[created.ID] = true

			err = service.Delete(ctx, admin, created.ID)
			Expect(err).To(Equal(internal.ErrEmployeeReferenced))

			_, err = service.Get(admin, created.ID)
			Expect(err).ToNot(HaveOccurred())
		})

		It("returns not found across tenants", func() {
			created, err := service.Create(ctx, admin, employee.CreateEmployeeDTO{Name: "Jonas Keller"})
			Expect(err).ToNot(HaveOccurred())

			otherAdmin := &internal.Actor{UserID: 9, TenantID: 2, Role: auth.RoleTenantAdmin}
			err = service.Delete(ctx, otherAdmin, created.ID)
			Expect(err).To(Equal(internal.ErrEmployeeNotFound))
		})
	})

	Describe("Update", func() {
		It("relinks an employee to a user", func() {
			created, err := service.Create(ctx, admin, employee.CreateEmployeeDTO{Name: "Jonas Keller"})
			Expect(err).ToNot(HaveOccurred())

			userID := int64(2)
			updated, err := service.Update(ctx, admin, created.ID, employee.UpdateEmployeeDTO{UserID: &userID})
			Expect(err).ToNot(HaveOccurred())
			Expect(*updated.UserID).To(Equal(int64(2)))
			Expect(updated.Name).To(Equal("Jonas Keller"))
		})
	})

	Describe("Me", func() {
		It("resolves the caller's employee record", func() {
			userID := int64(2)
			_, err := service.Create(ctx, admin, employee.CreateEmployeeDTO{Name: "Jonas Keller", UserID: &userID})
			Expect(err).ToNot(HaveOccurred())

			caller := &internal.Actor{UserID: 2, TenantID: 1, Role: auth.RoleStaff}
			me, err := service.Me(caller)
			Expect(err).ToNot(HaveOccurred())
			Expect(me.Name).To(Equal("Jonas Keller"))
		})

		It("returns not found for users without an employee record", func() {
			caller := &internal.Actor{UserID: 42, TenantID: 1, Role: auth.RoleStaff}
			_, err := service.Me(caller)
			Expect(err).To(Equal(internal.ErrEmployeeNotFound))
		})
	})
})
