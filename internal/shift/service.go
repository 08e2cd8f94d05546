package shift

import (
	"context"
	"log/slog"
	"time"

	"github.com/zonoapp/workforce/internal"
	"github.com/zonoapp/workforce/internal/auth"
	employeeDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/employee"
	shiftDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/shift"
	"github.com/zonoapp/workforce/internal/core/events"
	"github.com/zonoapp/workforce/internal/timeutil"
)

// RepositoryAPI defines the data access methods for shifts. Every query
// is tenant-scoped; a miss inside the wrong tenant is indistinguishable
// from a miss.
type RepositoryAPI interface {
	Create(s *shiftDatamodel.Shift) error
	GetByID(tenantID, id int64) (*shiftDatamodel.Shift, error)
	Update(s *shiftDatamodel.Shift) error
	Delete(tenantID, id int64) error
	HasOverlap(tenantID, employeeID int64, day time.Time, start, end string, excludeShiftID int64) (bool, error)
	ListByDay(tenantID int64, day time.Time, limit, offset int) ([]*shiftDatamodel.Shift, error)
	ListRange(tenantID int64, from, to time.Time, employeeID int64) ([]*shiftDatamodel.Shift, error)
	ListRecent(tenantID int64, limit, offset int) ([]*shiftDatamodel.Shift, error)
}

// EmployeeDirectory resolves employees for tenant guards; satisfied by
// the employee repository.
type EmployeeDirectory interface {
	FindInTenant(tenantID, employeeID int64) (*employeeDatamodel.Employee, error)
	FindByUser(tenantID, userID int64) (*employeeDatamodel.Employee, error)
}

type Service struct {
	repo        RepositoryAPI
	employees   EmployeeDirectory
	bus         *events.EventBus
	defaultRole string
	logger      *slog.Logger
}

func NewService(repo RepositoryAPI, employees EmployeeDirectory, bus *events.EventBus, defaultRole string, logger *slog.Logger) *Service {
	if defaultRole == "" {
		defaultRole = "Staff"
	}
	return &Service{
		repo:        repo,
		employees:   employees,
		bus:         bus,
		defaultRole: defaultRole,
		logger:      logger,
	}
}

// HasOverlap is the overlap checker: does any existing shift for the
// employee on the day intersect the half-open [start,end)? Pure read of
// committed state; writes that depend on it must re-check inside their
// own transaction when a race matters.
func (s *Service) HasOverlap(tenantID, employeeID int64, day time.Time, start, end string, excludeShiftID int64) (bool, error) {
	return s.repo.HasOverlap(tenantID, employeeID, day, start, end, excludeShiftID)
}

func (s *Service) Create(ctx context.Context, actor *internal.Actor, dto CreateShiftDTO) (*Shift, error) {
	if !auth.Can(actor.Role, auth.ActionShiftManage) {
		return nil, internal.ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		s.logger.Error("shift validation failed", "error", err, "tenant_id", actor.TenantID)
		return nil, err
	}

	emp, err := s.employees.FindInTenant(actor.TenantID, dto.EmployeeID)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, internal.ErrEmployeeNotFound
	}

	day, _ := timeutil.ParseDay(dto.Date)

	overlap, err := s.repo.HasOverlap(actor.TenantID, dto.EmployeeID, day, dto.Start, dto.End, 0)
	if err != nil {
		s.logger.Error("overlap check failed", "error", err, "tenant_id", actor.TenantID)
		return nil, internal.NewInternalError("overlap check failed", err)
	}
	if overlap {
		return nil, internal.ErrShiftOverlap
	}

	role := dto.Role
	if role == "" {
		role = s.defaultRole
	}

	row := &shiftDatamodel.Shift{
		TenantID:   actor.TenantID,
		EmployeeID: dto.EmployeeID,
		Date:       day,
		Start:      dto.Start,
		End:        dto.End,
		Role:       role,
	}
	if err := s.repo.Create(row); err != nil {
		s.logger.Error("failed to create shift", "error", err, "tenant_id", actor.TenantID)
		return nil, internal.NewInternalError("failed to create shift", err)
	}

	created := FromDataModel(row)

	s.logger.Info("shift created",
		"shift_id", row.ID,
		"tenant_id", actor.TenantID,
		"employee_id", dto.EmployeeID,
		"date", created.DateKey(),
		"start", dto.Start,
		"end", dto.End)

	// Best-effort side effects after the commit: notification, email,
	// audit. Their failure never rolls back the shift.
	s.bus.Publish(ctx, events.NewShiftCreatedEvent(actor.TenantID, row.ID, row.EmployeeID, created.DateKey(), row.Start, row.End, row.Role))
	s.bus.Publish(ctx, events.NewAuditRecordEvent(actor.TenantID, actor.UserID, "create", "shift", row.ID, nil, created))

	return created, nil
}

func (s *Service) Update(ctx context.Context, actor *internal.Actor, id int64, dto UpdateShiftDTO) (*Shift, error) {
	if !auth.Can(actor.Role, auth.ActionShiftManage) {
		return nil, internal.ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(actor.TenantID, id)
	if err != nil {
		return nil, err
	}

	if dto.EmployeeID != nil {
		emp, err := s.employees.FindInTenant(actor.TenantID, *dto.EmployeeID)
		if err != nil {
			return nil, err
		}
		if emp == nil {
			return nil, internal.ErrEmployeeNotFound
		}
	}

	// Merge into the effective target state, then validate that.
	target := *existing
	if dto.EmployeeID != nil {
		target.EmployeeID = *dto.EmployeeID
	}
	if dto.Date != nil {
		target.Date, _ = timeutil.ParseDay(*dto.Date)
	}
	if dto.Start != nil {
		target.Start = *dto.Start
	}
	if dto.End != nil {
		target.End = *dto.End
	}
	if dto.Role != nil {
		target.Role = *dto.Role
	}

	if target.Start >= target.End {
		return nil, internal.ErrInvalidTimeRange
	}

	overlap, err := s.repo.HasOverlap(actor.TenantID, target.EmployeeID, target.Date, target.Start, target.End, id)
	if err != nil {
		return nil, internal.NewInternalError("overlap check failed", err)
	}
	if overlap {
		return nil, internal.ErrShiftOverlap
	}

	if err := s.repo.Update(&target); err != nil {
		s.logger.Error("failed to update shift", "error", err, "shift_id", id)
		return nil, internal.NewInternalError("failed to update shift", err)
	}

	updated := FromDataModel(&target)
	s.logger.Info("shift updated", "shift_id", id, "tenant_id", actor.TenantID)
	s.bus.Publish(ctx, events.NewAuditRecordEvent(actor.TenantID, actor.UserID, "update", "shift", id, FromDataModel(existing), updated))

	return updated, nil
}

func (s *Service) Delete(ctx context.Context, actor *internal.Actor, id int64) error {
	if !auth.Can(actor.Role, auth.ActionShiftManage) {
		return internal.ErrForbidden
	}

	existing, err := s.repo.GetByID(actor.TenantID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(actor.TenantID, id); err != nil {
		s.logger.Error("failed to delete shift", "error", err, "shift_id", id)
		return internal.NewInternalError("failed to delete shift", err)
	}

	s.logger.Info("shift deleted", "shift_id", id, "tenant_id", actor.TenantID)
	s.bus.Publish(ctx, events.NewAuditRecordEvent(actor.TenantID, actor.UserID, "delete", "shift", id, FromDataModel(existing), nil))

	return nil
}

// List returns tenant-scoped shifts. A single date or the unscoped
// listing is newest-day-first; a [from,to) range reads chronologically.
func (s *Service) List(actor *internal.Actor, q ListShiftsQuery) ([]*Shift, error) {
	limit := q.Limit
	if limit <= 0 || limit > 200 {
		limit = 100
	}

	switch {
	case q.From != "" && q.To != "":
		from, err := timeutil.ParseDay(q.From)
		if err != nil {
			return nil, internal.NewValidationError("from must be YYYY-MM-DD", internal.ErrCodeInvalidDate)
		}
		to, err := timeutil.ParseDay(q.To)
		if err != nil {
			return nil, internal.NewValidationError("to must be YYYY-MM-DD", internal.ErrCodeInvalidDate)
		}
		if q.EmployeeID != 0 {
			emp, err := s.employees.FindInTenant(actor.TenantID, q.EmployeeID)
			if err != nil {
				return nil, err
			}
			if emp == nil {
				return nil, internal.ErrEmployeeNotFound
			}
		}
		rows, err := s.repo.ListRange(actor.TenantID, from, to, q.EmployeeID)
		if err != nil {
			return nil, internal.NewInternalError("failed to list shifts", err)
		}
		return FromDataModelSlice(rows), nil

	case q.Date != "":
		day, err := timeutil.ParseDay(q.Date)
		if err != nil {
			return nil, internal.NewValidationError("date must be YYYY-MM-DD", internal.ErrCodeInvalidDate)
		}
		rows, err := s.repo.ListByDay(actor.TenantID, day, limit, q.Offset)
		if err != nil {
			return nil, internal.NewInternalError("failed to list shifts", err)
		}
		return FromDataModelSlice(rows), nil

	default:
		rows, err := s.repo.ListRecent(actor.TenantID, limit, q.Offset)
		if err != nil {
			return nil, internal.NewInternalError("failed to list shifts", err)
		}
		return FromDataModelSlice(rows), nil
	}
}

// ListMine resolves the caller's employee record first; a user without
// one simply has no shifts.
func (s *Service) ListMine(actor *internal.Actor, from, to string) ([]*Shift, error) {
	emp, err := s.employees.FindByUser(actor.TenantID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return []*Shift{}, nil
	}

	fromDay, err := timeutil.ParseDay(from)
	if err != nil {
		return nil, internal.NewValidationError("from must be YYYY-MM-DD", internal.ErrCodeInvalidDate)
	}
	toDay, err := timeutil.ParseDay(to)
	if err != nil {
		return nil, internal.NewValidationError("to must be YYYY-MM-DD", internal.ErrCodeInvalidDate)
	}

	rows, err := s.repo.ListRange(actor.TenantID, fromDay, toDay, emp.ID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list shifts", err)
	}
	return FromDataModelSlice(rows), nil
}
