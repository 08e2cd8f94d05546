package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/zonoapp/workforce/internal"
	"github.com/zonoapp/workforce/internal/auth"
	attendanceDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/attendance"
	employeeDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/employee"
	shiftDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/shift"
	"github.com/zonoapp/workforce/internal/core/events"
	"github.com/zonoapp/workforce/internal/timeutil"
)

// RepositoryAPI is the tenant-scoped store surface for the daily
// attendance aggregate. Upsert relies on the unique (tenant, employee,
// day) key, so concurrent duplicate clock-ins serialize at the store.
type RepositoryAPI interface {
	GetByID(tenantID, id int64) (*attendanceDatamodel.Attendance, error)
	GetByDay(tenantID, employeeID int64, day time.Time) (*attendanceDatamodel.Attendance, error)
	FindOpen(tenantID, employeeID int64, days []time.Time) (*attendanceDatamodel.Attendance, error)
	Upsert(row *attendanceDatamodel.Attendance) error
	Update(row *attendanceDatamodel.Attendance) error
	ListByDay(tenantID int64, day time.Time, employeeID int64) ([]*attendanceDatamodel.Attendance, error)
	Transaction(fn func(tx RepositoryAPI) error) error
}

type EmployeeDirectory interface {
	FindInTenant(tenantID, employeeID int64) (*employeeDatamodel.Employee, error)
}

type ShiftDirectory interface {
	GetByID(tenantID, id int64) (*shiftDatamodel.Shift, error)
}

type Service struct {
	repo          RepositoryAPI
	employees     EmployeeDirectory
	shifts        ShiftDirectory
	bus           *events.EventBus
	loc           *time.Location
	clockInGrace  time.Duration
	clockOutGrace time.Duration
	logger        *slog.Logger
	now           func() time.Time
}

func NewService(repo RepositoryAPI, employees EmployeeDirectory, shifts ShiftDirectory, bus *events.EventBus, loc *time.Location, clockInGrace, clockOutGrace time.Duration, logger *slog.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:          repo,
		employees:     employees,
		shifts:        shifts,
		bus:           bus,
		loc:           loc,
		clockInGrace:  clockInGrace,
		clockOutGrace: clockOutGrace,
		logger:        logger,
		now:           time.Now,
	}
}

// WithClock overrides the time source; used by tests to pin the clock.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) authorizeSelfOrManager(actor *internal.Actor, employeeID int64) error {
	if actor.EmployeeID != 0 && actor.EmployeeID == employeeID {
		return nil
	}
	if auth.IsManagerial(actor.Role) {
		return nil
	}
	return internal.ErrForbidden
}

func (s *Service) guardEmployee(tenantID, employeeID int64) error {
	emp, err := s.employees.FindInTenant(tenantID, employeeID)
	if err != nil {
		return err
	}
	if emp == nil {
		return internal.ErrEmployeeNotFound
	}
	return nil
}

// ClockIn opens the day's attendance row. The row is keyed by the
// business day of the clock-in instant, so an event just before
// midnight lands on the day the employee actually worked.
func (s *Service) ClockIn(ctx context.Context, actor *internal.Actor, dto ClockInDTO) (*Attendance, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.authorizeSelfOrManager(actor, dto.EmployeeID); err != nil {
		return nil, err
	}
	if err := s.guardEmployee(actor.TenantID, dto.EmployeeID); err != nil {
		return nil, err
	}

	now := s.now()
	day := timeutil.Day(now, s.loc)

	existing, err := s.repo.GetByDay(actor.TenantID, dto.EmployeeID, day)
	if err != nil {
		return nil, internal.NewInternalError("failed to load attendance", err)
	}
	if existing != nil && existing.ClockInAt != nil {
		return nil, internal.ErrAlreadyClockedIn
	}

	status := StatusWorking
	if dto.ShiftID != nil {
		sh, err := s.shifts.GetByID(actor.TenantID, *dto.ShiftID)
		if err != nil {
			return nil, err
		}
		scheduledStart, err := timeutil.ClockOnDay(sh.Date, sh.Start, s.loc)
		if err != nil {
			return nil, internal.NewInternalError("shift has malformed start time", err)
		}
		if now.After(scheduledStart.Add(s.clockInGrace)) {
			status = StatusLate
		}
	}

	row := &attendanceDatamodel.Attendance{
		TenantID:   actor.TenantID,
		EmployeeID: dto.EmployeeID,
		Day:        day,
		ShiftID:    dto.ShiftID,
		ClockInAt:  &now,
		ClockInSrc: dto.Source,
		ClockInLat: dto.Lat,
		ClockInLng: dto.Lng,
		Status:     status,
	}
	if existing != nil {
		// An absent marking for the day gets upgraded in place.
		row.ID = existing.ID
		row.Notes = existing.Notes
	}

	if err := s.repo.Upsert(row); err != nil {
		s.logger.Error("failed to upsert attendance", "error", err, "employee_id", dto.EmployeeID)
		return nil, internal.NewInternalError("failed to record clock-in", err)
	}

	s.logger.Info("clock-in recorded",
		"employee_id", dto.EmployeeID,
		"tenant_id", actor.TenantID,
		"day", day.Format(timeutil.DayLayout),
		"status", status)

	s.bus.Publish(ctx, events.NewAuditRecordEvent(actor.TenantID, actor.UserID, "clock_in", "attendance", row.ID, nil, FromDataModel(row)))

	return FromDataModel(row), nil
}

// ClockOut closes the open row. The open row may belong to yesterday's
// business day when a shift spills past midnight; the day key stays the
// clock-in's day and minutes measure true wall-clock elapsed time.
func (s *Service) ClockOut(ctx context.Context, actor *internal.Actor, dto ClockOutDTO) (*Attendance, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.authorizeSelfOrManager(actor, dto.EmployeeID); err != nil {
		return nil, err
	}
	if err := s.guardEmployee(actor.TenantID, dto.EmployeeID); err != nil {
		return nil, err
	}

	now := s.now()
	today := timeutil.Day(now, s.loc)
	yesterday := today.AddDate(0, 0, -1)

	open, err := s.repo.FindOpen(actor.TenantID, dto.EmployeeID, []time.Time{today, yesterday})
	if err != nil {
		return nil, internal.NewInternalError("failed to load attendance", err)
	}
	if open == nil {
		return nil, internal.ErrNotClockedIn
	}

	minutes := timeutil.DiffMinutes(*open.ClockInAt, now)

	status := StatusPresent
	if open.ShiftID != nil {
		sh, err := s.shifts.GetByID(actor.TenantID, *open.ShiftID)
		if err != nil {
			return nil, err
		}
		scheduledEnd, err := timeutil.ClockOnDay(sh.Date, sh.End, s.loc)
		if err != nil {
			return nil, internal.NewInternalError("shift has malformed end time", err)
		}
		if now.Before(scheduledEnd.Add(-s.clockOutGrace)) {
			status = StatusLeftEarly
		}
	}

	open.ClockOutAt = &now
	open.ClockOutSrc = dto.Source
	open.Minutes = minutes
	open.Status = status

	if err := s.repo.Update(open); err != nil {
		s.logger.Error("failed to update attendance", "error", err, "attendance_id", open.ID)
		return nil, internal.NewInternalError("failed to record clock-out", err)
	}

	s.logger.Info("clock-out recorded",
		"employee_id", dto.EmployeeID,
		"tenant_id", actor.TenantID,
		"day", open.Day.Format(timeutil.DayLayout),
		"minutes", minutes,
		"status", status)

	s.bus.Publish(ctx, events.NewAuditRecordEvent(actor.TenantID, actor.UserID, "clock_out", "attendance", open.ID, nil, FromDataModel(open)))

	return FromDataModel(open), nil
}

// Edit is the administrative correction path: managers may rewrite any
// field of an existing row.
func (s *Service) Edit(ctx context.Context, actor *internal.Actor, id int64, dto EditAttendanceDTO) (*Attendance, error) {
	if !auth.Can(actor.Role, auth.ActionAttendanceEdit) {
		return nil, internal.ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	before := FromDataModel(row)

	if dto.ShiftID != nil {
		row.ShiftID = dto.ShiftID
	}
	if dto.ClockInAt != nil {
		row.ClockInAt = dto.ClockInAt
	}
	if dto.ClockOutAt != nil {
		row.ClockOutAt = dto.ClockOutAt
	}
	if dto.Status != nil {
		row.Status = *dto.Status
	}
	if dto.Notes != nil {
		row.Notes = *dto.Notes
	}
	if dto.Minutes != nil {
		row.Minutes = *dto.Minutes
	} else if (dto.ClockInAt != nil || dto.ClockOutAt != nil) && row.ClockInAt != nil && row.ClockOutAt != nil {
		row.Minutes = timeutil.DiffMinutes(*row.ClockInAt, *row.ClockOutAt)
	}

	if err := s.repo.Update(row); err != nil {
		s.logger.Error("failed to edit attendance", "error", err, "attendance_id", id)
		return nil, internal.NewInternalError("failed to edit attendance", err)
	}

	s.logger.Info("attendance corrected", "attendance_id", id, "tenant_id", actor.TenantID)
	s.bus.Publish(ctx, events.NewAuditRecordEvent(actor.TenantID, actor.UserID, "update", "attendance", id, before, FromDataModel(row)))

	return FromDataModel(row), nil
}

// MarkAbsent bulk-marks a day in one transaction so partial application
// never becomes visible. Rows that already hold a real clock-in are
// skipped, never overwritten.
func (s *Service) MarkAbsent(ctx context.Context, actor *internal.Actor, dto MarkAbsentDTO) ([]*Attendance, error) {
	if !auth.Can(actor.Role, auth.ActionMarkAbsent) {
		return nil, internal.ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	day, err := timeutil.ParseDay(dto.Date)
	if err != nil {
		return nil, internal.NewValidationError("date must be YYYY-MM-DD", internal.ErrCodeInvalidDate)
	}

	var marked []*attendanceDatamodel.Attendance
	err = s.repo.Transaction(func(tx RepositoryAPI) error {
		for _, employeeID := range dto.EmployeeIDs {
			if err := s.guardEmployee(actor.TenantID, employeeID); err != nil {
				return err
			}

			existing, err := tx.GetByDay(actor.TenantID, employeeID, day)
			if err != nil {
				return internal.NewInternalError("failed to load attendance", err)
			}
			if existing != nil && existing.ClockInAt != nil {
				continue
			}

			row := &attendanceDatamodel.Attendance{
				TenantID:   actor.TenantID,
				EmployeeID: employeeID,
				Day:        day,
				Status:     StatusAbsent,
				Notes:      dto.Notes,
			}
			if existing != nil {
				row.ID = existing.ID
			}
			if err := tx.Upsert(row); err != nil {
				return internal.NewInternalError("failed to mark absent", err)
			}
			marked = append(marked, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("absences marked",
		"tenant_id", actor.TenantID,
		"day", dto.Date,
		"requested", len(dto.EmployeeIDs),
		"marked", len(marked))

	for _, row := range marked {
		s.bus.Publish(ctx, events.NewAuditRecordEvent(actor.TenantID, actor.UserID, "mark_absent", "attendance", row.ID, nil, FromDataModel(row)))
	}

	return FromDataModelSlice(marked), nil
}

// ListDay returns a day's rows; non-managerial callers only see their
// own record.
func (s *Service) ListDay(actor *internal.Actor, date string) ([]*Attendance, error) {
	day, err := timeutil.ParseDay(date)
	if err != nil {
		return nil, internal.NewValidationError("date must be YYYY-MM-DD", internal.ErrCodeInvalidDate)
	}

	employeeID := int64(0)
	if !auth.Can(actor.Role, auth.ActionAttendanceViewAll) {
		if actor.EmployeeID == 0 {
			return []*Attendance{}, nil
		}
		employeeID = actor.EmployeeID
	}

	rows, err := s.repo.ListByDay(actor.TenantID, day, employeeID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list attendance", err)
	}
	return FromDataModelSlice(rows), nil
}

// ExportDay renders the same day listing as tabular text.
func (s *Service) ExportDay(actor *internal.Actor, date string) (string, error) {
	rows, err := s.ListDay(actor, date)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "EMPLOYEE\tCLOCK IN\tCLOCK OUT\tMINUTES\tSTATUS\tNOTES")
	for _, row := range rows {
		in, out := "-", "-"
		if row.ClockInAt != nil {
			in = row.ClockInAt.In(s.loc).Format("15:04")
		}
		if row.ClockOutAt != nil {
			out = row.ClockOutAt.In(s.loc).Format("15:04")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\n", row.EmployeeID, in, out, row.Minutes, row.Status, row.Notes)
	}
	w.Flush()
	return b.String(), nil
}
