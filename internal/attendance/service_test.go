package attendance_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zonoapp/workforce/internal"
	"github.com/zonoapp/workforce/internal/attendance"
	"github.com/zonoapp/workforce/internal/auth"
	attendanceDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/attendance"
	employeeDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/employee"
	shiftDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/shift"
	"github.com/zonoapp/workforce/internal/core/events"
)

func TestAttendanceService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Attendance Service Suite")
}

// Mock repository for testing
type mockAttendanceRepository struct {
	rows   map[int64]*attendanceDatamodel.Attendance
	nextID int64
}

func newMockAttendanceRepository() *mockAttendanceRepository {
	return &mockAttendanceRepository{
		rows:   make(map[int64]*attendanceDatamodel.Attendance),
		nextID: 1,
	}
}

func (m *mockAttendanceRepository) GetByID(tenantID, id int64) (*attendanceDatamodel.Attendance, error) {
	row, ok := m.rows[id]
	if !ok || row.TenantID != tenantID {
		return nil, internal.ErrAttendanceNotFound
	}
	copied := *row
	return &copied, nil
}

func (m *mockAttendanceRepository) GetByDay(tenantID, employeeID int64, day time.Time) (*attendanceDatamodel.Attendance, error) {
	for _, row := range m.rows {
		if row.TenantID == tenantID && row.EmployeeID == employeeID && row.Day.Equal(day) {
			copied := *row
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockAttendanceRepository) FindOpen(tenantID, employeeID int64, days []time.Time) (*attendanceDatamodel.Attendance, error) {
	for _, day := range days {
		for _, row := range m.rows {
			if row.TenantID != tenantID || row.EmployeeID != employeeID || !row.Day.Equal(day) {
				continue
			}
			if row.ClockInAt != nil && row.ClockOutAt == nil {
				copied := *row
				return &copied, nil
			}
		}
	}
	return nil, nil
}

func (m *mockAttendanceRepository) Upsert(row *attendanceDatamodel.Attendance) error {
	if row.ID == 0 {
		row.ID = m.nextID
		m.nextID++
	}
	copied := *row
	m.rows[row.ID] = &copied
	return nil
}

func (m *mockAttendanceRepository) Update(row *attendanceDatamodel.Attendance) error {
	copied := *row
	m.rows[row.ID] = &copied
	return nil
}

func (m *mockAttendanceRepository) ListByDay(tenantID int64, day time.Time, employeeID int64) ([]*attendanceDatamodel.Attendance, error) {
	var rows []*attendanceDatamodel.Attendance
	for _, row := range m.rows {
		if row.TenantID != tenantID || !row.Day.Equal(day) {
			continue
		}
		if employeeID != 0 && row.EmployeeID != employeeID {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (m *mockAttendanceRepository) Transaction(fn func(tx attendance.RepositoryAPI) error) error {
	return fn(m)
}

type mockAttendanceEmployeeDirectory struct {
	employees map[int64]*employeeDatamodel.Employee
}

func (m *mockAttendanceEmployeeDirectory) FindInTenant(tenantID, employeeID int64) (*employeeDatamodel.Employee, error) {
	emp, ok := m.employees[employeeID]
	if !ok || emp.TenantID != tenantID {
		return nil, nil
	}
	return emp, nil
}

type mockShiftDirectory struct {
	shifts map[int64]*shiftDatamodel.Shift
}

func (m *mockShiftDirectory) GetByID(tenantID, id int64) (*shiftDatamodel.Shift, error) {
	sh, ok := m.shifts[id]
	if !ok || sh.TenantID != tenantID {
		return nil, internal.ErrShiftNotFound
	}
	return sh, nil
}

var _ = Describe("Attendance Service", func() {
	var (
		repo    *mockAttendanceRepository
		shifts  *mockShiftDirectory
		service *attendance.Service
		berlin  *time.Location
		staff   *internal.Actor
		manager *internal.Actor
		ctx     context.Context
	)

	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	setClock := func(t time.Time) {
		service.WithClock(func() time.Time { return t })
	}

	BeforeEach(func() {
		var err error
		berlin, err = time.LoadLocation("Europe/Berlin")
		Expect(err).ToNot(HaveOccurred())

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		repo = newMockAttendanceRepository()
		shifts = &mockShiftDirectory{shifts: map[int64]*shiftDatamodel.Shift{
			1: {ID: 1, TenantID: 1, EmployeeID: 20, Date: day, Start: "09:00", End: "17:00"},
		}}
		directory := &mockAttendanceEmployeeDirectory{employees: map[int64]*employeeDatamodel.Employee{
			20: {ID: 20, TenantID: 1, Name: "Jonas"},
			21: {ID: 21, TenantID: 1, Name: "Aylin"},
		}}
		service = attendance.NewService(repo, directory, shifts, events.NewEventBus(logger),
			berlin, 5*time.Minute, 5*time.Minute, logger)
		ctx = context.Background()

		staff = &internal.Actor{UserID: 2, EmployeeID: 20, TenantID: 1, Role: auth.RoleStaff}
		manager = &internal.Actor{UserID: 1, EmployeeID: 0, TenantID: 1, Role: auth.RoleManager}
	})

	Describe("ClockIn", func() {
		It("opens the day's row with status working", func() {
			setClock(time.Date(2026, 3, 1, 8, 55, 0, 0, berlin))
			row, err := service.ClockIn(ctx, staff, attendance.ClockInDTO{EmployeeID: 20})
			Expect(err).ToNot(HaveOccurred())
			Expect(row.Status).To(Equal(attendance.StatusWorking))
			Expect(row.Day).To(Equal(day))
			Expect(row.IsOpen()).To(BeTrue())
		})

		It("conflicts on a second clock-in the same day", func() {
			setClock(time.Date(2026, 3, 1, 8, 55, 0, 0, berlin))
			_, err := service.ClockIn(ctx, staff, attendance.ClockInDTO{EmployeeID: 20})
			Expect(err).ToNot(HaveOccurred())

			setClock(time.Date(2026, 3, 1, 9, 30, 0, 0, berlin))
			_, err = service.ClockIn(ctx, staff, attendance.ClockInDTO{EmployeeID: 20})
			Expect(err).To(Equal(internal.ErrAlreadyClockedIn))
		})

		It("stays working inside the grace window", func() {
			shiftID := int64(1)
			setClock(time.Date(2026, 3, 1, 9, 4, 0, 0, berlin))
			row, err := service.ClockIn(ctx, staff, attendance.ClockInDTO{EmployeeID: 20, ShiftID: &shiftID})
			Expect(err).ToNot(HaveOccurred())
			Expect(row.Status).To(Equal(attendance.StatusWorking))
		})

		It("derives late past the grace window", func() {
			shiftID := int64(1)
			setClock(time.Date(2026, 3, 1, 9, 6, 0, 0, berlin))
			row, err := service.ClockIn(ctx, staff, attendance.ClockInDTO{EmployeeID: 20, ShiftID: &shiftID})
			Expect(err).ToNot(HaveOccurred())
			Expect(row.Status).To(Equal(attendance.StatusLate))
		})

		It("forbids staff from clocking in another employee", func() {
			setClock(time.Date(2026, 3, 1, 9, 0, 0, 0, berlin))
			_, err := service.ClockIn(ctx, staff, attendance.ClockInDTO{EmployeeID: 21})
			Expect(err).To(Equal(internal.ErrForbidden))
		})

		It("allows a manager to clock in any employee", func() {
			setClock(time.Date(2026, 3, 1, 9, 0, 0, 0, berlin))
			_, err := service.ClockIn(ctx, manager, attendance.ClockInDTO{EmployeeID: 21})
			Expect(err).ToNot(HaveOccurred())
		})

		It("upgrades an absent marking in place", func() {
			setClock(time.Date(2026, 3, 1, 9, 0, 0, 0, berlin))
			_, err := service.MarkAbsent(ctx, manager, attendance.MarkAbsentDTO{
				Date: "2026-03-01", EmployeeIDs: []int64{20},
			})
			Expect(err).ToNot(HaveOccurred())

			row, err := service.ClockIn(ctx, staff, attendance.ClockInDTO{EmployeeID: 20})
			Expect(err).ToNot(HaveOccurred())
			Expect(row.Status).To(Equal(attendance.StatusWorking))
			Expect(len(repo.rows)).To(Equal(1))
		})
	})

	Describe("ClockOut", func() {
		It("conflicts without an open row", func() {
			setClock(time.Date(2026, 3, 1, 17, 0, 0, 0, berlin))
			_, err := service.ClockOut(ctx, staff, attendance.ClockOutDTO{EmployeeID: 20})
			Expect(err).To(Equal(internal.ErrNotClockedIn))
		})

		It("closes the row with elapsed minutes", func() {
			setClock(time.Date(2026, 3, 1, 9, 0, 0, 0, berlin))
			_, err := service.ClockIn(ctx, staff, attendance.ClockInDTO{EmployeeID: 20})
			Expect(err).ToNot(HaveOccurred())

			setClock(time.Date(2026, 3, 1, 17, 0, 0, 0, berlin))
			row, err := service.ClockOut(ctx, staff, attendance.ClockOutDTO{EmployeeID: 20})
			Expect(err).ToNot(HaveOccurred())
			Expect(row.Minutes).To(Equal(480))
			Expect(row.Status).To(Equal(attendance.StatusPresent))
		})

		It("derives left_early before the shift end minus grace", func() {
			shiftID := int64(1)
			setClock(time.Date(2026, 3, 1, 9, 0, 0, 0, berlin))
			_, err := service.ClockIn(ctx, staff, attendance.ClockInDTO{EmployeeID: 20, ShiftID: &shiftID})
			Expect(err).ToNot(HaveOccurred())

			setClock(time.Date(2026, 3, 1, 16, 40, 0, 0, berlin))
			row, err := service.ClockOut(ctx, staff, attendance.ClockOutDTO{EmployeeID: 20})
			Expect(err).ToNot(HaveOccurred())
			Expect(row.Status).To(Equal(attendance.StatusLeftEarly))
		})

		It("stays present inside the clock-out grace", func() {
			shiftID := int64(1)
			setClock(time.Date(2026, 3, 1, 9, 0, 0, 0, berlin))
			_, err := service.ClockIn(ctx, staff, attendance.ClockInDTO{EmployeeID: 20, ShiftID: &shiftID})
			Expect(err).ToNot(HaveOccurred())

			setClock(time.Date(2026, 3, 1, 16, 56, 0, 0, berlin))
			row, err := service.ClockOut(ctx, staff, attendance.ClockOutDTO{EmployeeID: 20})
			Expect(err).ToNot(HaveOccurred())
			Expect(row.Status).To(Equal(attendance.StatusPresent))
		})

		It("closes yesterday's open row across midnight without splitting the day", func() {
			setClock(time.Date(2026, 3, 1, 23, 58, 0, 0, berlin))
			_, err := service.ClockIn(ctx, staff, attendance.ClockInDTO{EmployeeID: 20})
			Expect(err).ToNot(HaveOccurred())

			setClock(time.Date(2026, 3, 2, 0, 10, 0, 0, berlin))
			row, err := service.ClockOut(ctx, staff, attendance.ClockOutDTO{EmployeeID: 20})
			Expect(err).ToNot(HaveOccurred())
			Expect(row.Day).To(Equal(day))
			Expect(row.Minutes).To(Equal(12))
		})
	})

	Describe("MarkAbsent", func() {
		It("marks the listed employees and skips real clock-ins", func() {
			setClock(time.Date(2026, 3, 1, 9, 0, 0, 0, berlin))
			_, err := service.ClockIn(ctx, staff, attendance.ClockInDTO{EmployeeID: 20})
			Expect(err).ToNot(HaveOccurred())

			marked, err := service.MarkAbsent(ctx, manager, attendance.MarkAbsentDTO{
				Date:        "2026-03-01",
				EmployeeIDs: []int64{20, 21},
				Notes:       "no show",
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(marked).To(HaveLen(1))
			Expect(marked[0].EmployeeID).To(Equal(int64(21)))
			Expect(marked[0].Status).To(Equal(attendance.StatusAbsent))
		})

		It("rejects non-managerial callers", func() {
			_, err := service.MarkAbsent(ctx, staff, attendance.MarkAbsentDTO{
				Date: "2026-03-01", EmployeeIDs: []int64{21},
			})
			Expect(err).To(Equal(internal.ErrForbidden))
		})

		It("fails whole when one employee is unknown", func() {
			_, err := service.MarkAbsent(ctx, manager, attendance.MarkAbsentDTO{
				Date: "2026-03-01", EmployeeIDs: []int64{21, 77},
			})
			Expect(err).To(Equal(internal.ErrEmployeeNotFound))
		})
	})

	Describe("Edit", func() {
		It("recomputes minutes when a clock time changes", func() {
			setClock(time.Date(2026, 3, 1, 9, 0, 0, 0, berlin))
			_, err := service.ClockIn(ctx, staff, attendance.ClockInDTO{EmployeeID: 20})
			Expect(err).ToNot(HaveOccurred())
			setClock(time.Date(2026, 3, 1, 17, 0, 0, 0, berlin))
			row, err := service.ClockOut(ctx, staff, attendance.ClockOutDTO{EmployeeID: 20})
			Expect(err).ToNot(HaveOccurred())

			newOut := time.Date(2026, 3, 1, 18, 0, 0, 0, berlin)
			edited, err := service.Edit(ctx, manager, row.ID, attendance.EditAttendanceDTO{ClockOutAt: &newOut})
			Expect(err).ToNot(HaveOccurred())
			Expect(edited.Minutes).To(Equal(540))
		})

		It("rejects an unknown status value", func() {
			bad := "vanished"
			_, err := service.Edit(ctx, manager, 1, attendance.EditAttendanceDTO{Status: &bad})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("rejects non-managerial callers", func() {
			_, err := service.Edit(ctx, staff, 1, attendance.EditAttendanceDTO{})
			Expect(err).To(Equal(internal.ErrForbidden))
		})
	})

	Describe("ListDay", func() {
		It("clamps non-managerial callers to their own record", func() {
			setClock(time.Date(2026, 3, 1, 9, 0, 0, 0, berlin))
			_, err := service.ClockIn(ctx, staff, attendance.ClockInDTO{EmployeeID: 20})
			Expect(err).ToNot(HaveOccurred())
			_, err = service.ClockIn(ctx, manager, attendance.ClockInDTO{EmployeeID: 21})
			Expect(err).ToNot(HaveOccurred())

			own, err := service.ListDay(staff, "2026-03-01")
			Expect(err).ToNot(HaveOccurred())
			Expect(own).To(HaveLen(1))
			Expect(own[0].EmployeeID).To(Equal(int64(20)))

			all, err := service.ListDay(manager, "2026-03-01")
			Expect(err).ToNot(HaveOccurred())
			Expect(all).To(HaveLen(2))
		})
	})
})
