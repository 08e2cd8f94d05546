package employee

import (
	"context"
	"log/slog"

	"github.com/zonoapp/workforce/internal"
	"github.com/zonoapp/workforce/internal/auth"
	employeeDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/employee"
	"github.com/zonoapp/workforce/internal/core/events"
)

// RepositoryAPI defines tenant-scoped employee access. FindInTenant and
// FindByUser return nil, nil on a miss so callers can map it to their
// own NotFound.
type RepositoryAPI interface {
	Create(e *employeeDatamodel.Employee) error
	GetByID(tenantID, id int64) (*employeeDatamodel.Employee, error)
	FindInTenant(tenantID, employeeID int64) (*employeeDatamodel.Employee, error)
	FindByUser(tenantID, userID int64) (*employeeDatamodel.Employee, error)
	Update(e *employeeDatamodel.Employee) error
	Delete(tenantID, id int64) error
	List(tenantID int64, limit, offset int) ([]*employeeDatamodel.Employee, error)
	HasReferences(tenantID, employeeID int64) (bool, error)
}

type Service struct {
	repo   RepositoryAPI
	bus    *events.EventBus
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{repo: repo, bus: bus, logger: logger}
}

func (s *Service) Create(ctx context.Context, actor *internal.Actor, dto CreateEmployeeDTO) (*Employee, error) {
	if !auth.Can(actor.Role, auth.ActionEmployeeManage) {
		return nil, internal.ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	role := dto.Role
	if role == "" {
		role = "Staff"
	}

	row := &employeeDatamodel.Employee{
		TenantID: actor.TenantID,
		UserID:   dto.UserID,
		Name:     dto.Name,
		Role:     role,
	}
	if err := s.repo.Create(row); err != nil {
		s.logger.Error("failed to create employee", "error", err, "tenant_id", actor.TenantID)
		return nil, internal.NewInternalError("failed to create employee", err)
	}

	s.logger.Info("employee created", "employee_id", row.ID, "tenant_id", actor.TenantID)
	s.bus.Publish(ctx, events.NewAuditRecordEvent(actor.TenantID, actor.UserID, "create", "employee", row.ID, nil, FromDataModel(row)))

	return FromDataModel(row), nil
}

func (s *Service) Get(actor *internal.Actor, id int64) (*Employee, error) {
	row, err := s.repo.GetByID(actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, actor *internal.Actor, id int64, dto UpdateEmployeeDTO) (*Employee, error) {
	if !auth.Can(actor.Role, auth.ActionEmployeeManage) {
		return nil, internal.ErrForbidden
	}

	row, err := s.repo.GetByID(actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	before := FromDataModel(row)

	if dto.Name != nil {
		row.Name = *dto.Name
	}
	if dto.Role != nil {
		row.Role = *dto.Role
	}
	if dto.UserID != nil {
		row.UserID = dto.UserID
	}

	if err := s.repo.Update(row); err != nil {
		s.logger.Error("failed to update employee", "error", err, "employee_id", id)
		return nil, internal.NewInternalError("failed to update employee", err)
	}

	s.bus.Publish(ctx, events.NewAuditRecordEvent(actor.TenantID, actor.UserID, "update", "employee", id, before, FromDataModel(row)))
	return FromDataModel(row), nil
}

// Delete enforces referential retention: an employee with shifts or
// attendance rows stays on the books.
func (s *Service) Delete(ctx context.Context, actor *internal.Actor, id int64) error {
	if !auth.Can(actor.Role, auth.ActionEmployeeManage) {
		return internal.ErrForbidden
	}

	row, err := s.repo.GetByID(actor.TenantID, id)
	if err != nil {
		return err
	}

	referenced, err := s.repo.HasReferences(actor.TenantID, id)
	if err != nil {
		return internal.NewInternalError("failed to check employee references", err)
	}
	if referenced {
		return internal.ErrEmployeeReferenced
	}

	if err := s.repo.Delete(actor.TenantID, id); err != nil {
		s.logger.Error("failed to delete employee", "error", err, "employee_id", id)
		return internal.NewInternalError("failed to delete employee", err)
	}

	s.logger.Info("employee deleted", "employee_id", id, "tenant_id", actor.TenantID)
	s.bus.Publish(ctx, events.NewAuditRecordEvent(actor.TenantID, actor.UserID, "delete", "employee", id, FromDataModel(row), nil))
	return nil
}

func (s *Service) List(actor *internal.Actor, limit, offset int) ([]*Employee, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	rows, err := s.repo.List(actor.TenantID, limit, offset)
	if err != nil {
		return nil, internal.NewInternalError("failed to list employees", err)
	}
	return FromDataModelSlice(rows), nil
}

// Me resolves the caller's own employee record.
func (s *Service) Me(actor *internal.Actor) (*Employee, error) {
	row, err := s.repo.FindByUser(actor.TenantID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, internal.ErrEmployeeNotFound
	}
	return FromDataModel(row), nil
}
