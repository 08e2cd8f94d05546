package availability

import (
	"context"
	"log/slog"
	"time"

	"github.com/zonoapp/workforce/internal"
	"github.com/zonoapp/workforce/internal/auth"
	availabilityDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/availability"
	employeeDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/employee"
	"github.com/zonoapp/workforce/internal/timeutil"
)

// RepositoryAPI defines availability persistence. Upsert writes
// against the unique (tenant, employee, date) key.
type RepositoryAPI interface {
	Upsert(row *availabilityDatamodel.Availability) error
	GetByID(tenantID, id int64) (*availabilityDatamodel.Availability, error)
	Delete(tenantID, id int64) error
	ListRange(tenantID int64, from, to time.Time, employeeID int64) ([]*availabilityDatamodel.Availability, error)
}

type EmployeeDirectory interface {
	FindByUser(tenantID, userID int64) (*employeeDatamodel.Employee, error)
}

type Service struct {
	repo      RepositoryAPI
	employees EmployeeDirectory
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, employees EmployeeDirectory, logger *slog.Logger) *Service {
	return &Service{repo: repo, employees: employees, logger: logger}
}

func (s *Service) resolveEmployee(actor *internal.Actor) (int64, error) {
	if actor.EmployeeID != 0 {
		return actor.EmployeeID, nil
	}
	emp, err := s.employees.FindByUser(actor.TenantID, actor.UserID)
	if err != nil {
		return 0, internal.NewInternalError("failed to resolve employee", err)
	}
	if emp == nil {
		return 0, internal.ErrEmployeeNotFound
	}
	return emp.ID, nil
}

// UpsertMine records the caller's availability for one day, replacing
// any prior entry for the same day.
func (s *Service) UpsertMine(ctx context.Context, actor *internal.Actor, dto UpsertAvailabilityDTO) (*Availability, error) {
	day, err := dto.Validate()
	if err != nil {
		return nil, err
	}

	employeeID, err := s.resolveEmployee(actor)
	if err != nil {
		return nil, err
	}

	row := &availabilityDatamodel.Availability{
		TenantID:   actor.TenantID,
		EmployeeID: employeeID,
		Date:       day,
		Start:      dto.Start,
		End:        dto.End,
	}
	if dto.Note != "" {
		row.Note = &dto.Note
	}
	if err := s.repo.Upsert(row); err != nil {
		s.logger.Error("failed to upsert availability", "error", err, "employee_id", employeeID)
		return nil, internal.NewInternalError("failed to save availability", err)
	}

	s.logger.Info("availability saved",
		"employee_id", employeeID,
		"date", day.Format(timeutil.DayLayout),
		"tenant_id", actor.TenantID)
	return FromDataModel(row), nil
}

// DeleteMine removes one of the caller's own availability entries.
// Managers may remove anyone's.
func (s *Service) DeleteMine(ctx context.Context, actor *internal.Actor, id int64) error {
	row, err := s.repo.GetByID(actor.TenantID, id)
	if err != nil {
		return err
	}

	if !auth.Can(actor.Role, auth.ActionAvailabilityAll) {
		employeeID, err := s.resolveEmployee(actor)
		if err != nil {
			return err
		}
		if row.EmployeeID != employeeID {
			return internal.ErrForbidden
		}
	}

	if err := s.repo.Delete(actor.TenantID, id); err != nil {
		s.logger.Error("failed to delete availability", "error", err, "availability_id", id)
		return internal.NewInternalError("failed to delete availability", err)
	}
	return nil
}

// List returns availability in [from, to]. Non-managerial callers only
// see their own entries regardless of the employee filter.
func (s *Service) List(ctx context.Context, actor *internal.Actor, query ListAvailabilityQuery) ([]*Availability, error) {
	from, err := timeutil.ParseDay(query.From)
	if err != nil {
		return nil, internal.NewValidationError("from must be YYYY-MM-DD", internal.ErrCodeInvalidDate)
	}
	to, err := timeutil.ParseDay(query.To)
	if err != nil {
		return nil, internal.NewValidationError("to must be YYYY-MM-DD", internal.ErrCodeInvalidDate)
	}
	if to.Before(from) {
		return nil, internal.NewValidationError("to must not be before from", internal.ErrCodeInvalidDate)
	}

	employeeID := query.EmployeeID
	if !auth.Can(actor.Role, auth.ActionAvailabilityAll) {
		own, err := s.resolveEmployee(actor)
		if err != nil {
			return nil, err
		}
		employeeID = own
	}

	rows, err := s.repo.ListRange(actor.TenantID, from, to, employeeID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list availability", err)
	}
	return FromDataModelSlice(rows), nil
}
