package swap

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/zonoapp/workforce/internal"
	"github.com/zonoapp/workforce/internal/auth"
	employeeDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/employee"
	notificationDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/notification"
	shiftDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/shift"
	"github.com/zonoapp/workforce/internal/core/events"
)

// RepositoryAPI is the tenant-scoped store surface the workflow needs.
// Transaction runs fn against a transactional copy of the repository;
// any error rolls back everything fn did.
type RepositoryAPI interface {
	Create(sw *shiftDatamodel.ShiftSwap) error
	GetByID(tenantID, id int64) (*shiftDatamodel.ShiftSwap, error)
	GetByIDForUpdate(tenantID, id int64) (*shiftDatamodel.ShiftSwap, error)
	GetShift(tenantID, shiftID int64) (*shiftDatamodel.Shift, error)
	HasActiveForShift(tenantID, shiftID int64) (bool, error)
	HasOverlap(tenantID, employeeID int64, day time.Time, start, end string, excludeShiftID int64) (bool, error)
	UpdateStatus(tenantID, id int64, status string, decidedAt *time.Time, decidedByUserID *int64) error
	ReassignShift(tenantID, shiftID, toEmployeeID int64) error
	RecordAudit(entry *notificationDatamodel.AuditLog) error
	ListForEmployee(tenantID, employeeID int64) ([]*shiftDatamodel.ShiftSwap, error)
	Transaction(fn func(tx RepositoryAPI) error) error
}

type EmployeeDirectory interface {
	FindInTenant(tenantID, employeeID int64) (*employeeDatamodel.Employee, error)
}

type Service struct {
	repo      RepositoryAPI
	employees EmployeeDirectory
	bus       *events.EventBus
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, employees EmployeeDirectory, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		employees: employees,
		bus:       bus,
		logger:    logger,
	}
}

// Request creates a swap in pending_target. Only the current assignee or
// a managerial role may initiate, the target must exist in the tenant
// without a conflicting shift, and a shift carries at most one active
// swap at a time.
func (s *Service) Request(ctx context.Context, actor *internal.Actor, shiftID int64, dto RequestSwapDTO) (*Swap, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	sh, err := s.repo.GetShift(actor.TenantID, shiftID)
	if err != nil {
		return nil, err
	}

	isOwner := actor.EmployeeID != 0 && sh.EmployeeID == actor.EmployeeID
	if !isOwner && !auth.IsManagerial(actor.Role) {
		return nil, internal.ErrForbidden
	}

	target, err := s.employees.FindInTenant(actor.TenantID, dto.ToEmployeeID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, internal.ErrEmployeeNotFound
	}

	overlap, err := s.repo.HasOverlap(actor.TenantID, dto.ToEmployeeID, sh.Date, sh.Start, sh.End, sh.ID)
	if err != nil {
		return nil, internal.NewInternalError("overlap check failed", err)
	}
	if overlap {
		return nil, internal.ErrShiftOverlap
	}

	active, err := s.repo.HasActiveForShift(actor.TenantID, shiftID)
	if err != nil {
		return nil, internal.NewInternalError("active swap check failed", err)
	}
	if active {
		return nil, internal.ErrActiveSwapExists
	}

	row := &shiftDatamodel.ShiftSwap{
		TenantID:       actor.TenantID,
		ShiftID:        shiftID,
		FromEmployeeID: sh.EmployeeID,
		ToEmployeeID:   dto.ToEmployeeID,
		Status:         StatusPendingTarget,
		Reason:         dto.Reason,
	}
	if err := s.repo.Create(row); err != nil {
		s.logger.Error("failed to create swap", "error", err, "shift_id", shiftID)
		return nil, internal.NewInternalError("failed to create swap", err)
	}

	s.logger.Info("swap requested",
		"swap_id", row.ID,
		"shift_id", shiftID,
		"from_employee_id", row.FromEmployeeID,
		"to_employee_id", row.ToEmployeeID,
		"tenant_id", actor.TenantID)

	s.bus.Publish(ctx, events.NewSwapDecidedEvent(actor.TenantID, row.ID, shiftID, row.FromEmployeeID, row.ToEmployeeID, row.Status))
	s.bus.Publish(ctx, events.NewAuditRecordEvent(actor.TenantID, actor.UserID, "swap_request", "shift_swap", row.ID, nil, FromDataModel(row)))

	return FromDataModel(row), nil
}

// Accept moves pending_target to pending_manager. Only the target
// employee may accept, and the overlap is re-checked because the
// target's schedule may have changed since the request.
func (s *Service) Accept(ctx context.Context, actor *internal.Actor, id int64) (*Swap, error) {
	sw, err := s.repo.GetByID(actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if sw.Status != StatusPendingTarget {
		return nil, internal.ErrInvalidSwapState
	}
	if actor.EmployeeID == 0 || sw.ToEmployeeID != actor.EmployeeID {
		return nil, internal.ErrForbidden
	}

	sh, err := s.repo.GetShift(actor.TenantID, sw.ShiftID)
	if err != nil {
		return nil, err
	}

	overlap, err := s.repo.HasOverlap(actor.TenantID, sw.ToEmployeeID, sh.Date, sh.Start, sh.End, sw.ShiftID)
	if err != nil {
		return nil, internal.NewInternalError("overlap check failed", err)
	}
	if overlap {
		return nil, internal.ErrShiftOverlap
	}

	if err := s.repo.UpdateStatus(actor.TenantID, id, StatusPendingManager, nil, nil); err != nil {
		s.logger.Error("failed to accept swap", "error", err, "swap_id", id)
		return nil, internal.NewInternalError("failed to accept swap", err)
	}

	sw.Status = StatusPendingManager
	s.logger.Info("swap accepted by target", "swap_id", id, "tenant_id", actor.TenantID)
	s.bus.Publish(ctx, events.NewSwapDecidedEvent(actor.TenantID, id, sw.ShiftID, sw.FromEmployeeID, sw.ToEmployeeID, sw.Status))
	s.bus.Publish(ctx, events.NewAuditRecordEvent(actor.TenantID, actor.UserID, "swap_accept", "shift_swap", id, nil, FromDataModel(sw)))

	return FromDataModel(sw), nil
}

// Approve reassigns the shift and closes the swap as one atomic unit:
// the final overlap re-check, the shift reassignment, the status update
// and the audit row either all commit or none do. A conflicting shift
// created since accept aborts with Conflict and leaves the swap in
// pending_manager for retry or manual decline.
func (s *Service) Approve(ctx context.Context, actor *internal.Actor, id int64) (*Swap, error) {
	if !auth.Can(actor.Role, auth.ActionSwapApprove) {
		return nil, internal.ErrForbidden
	}

	var approved *shiftDatamodel.ShiftSwap

	err := s.repo.Transaction(func(tx RepositoryAPI) error {
		sw, err := tx.GetByIDForUpdate(actor.TenantID, id)
		if err != nil {
			return err
		}
		if sw.Status != StatusPendingManager {
			return internal.ErrInvalidSwapState
		}

		sh, err := tx.GetShift(actor.TenantID, sw.ShiftID)
		if err != nil {
			return err
		}

		overlap, err := tx.HasOverlap(actor.TenantID, sw.ToEmployeeID, sh.Date, sh.Start, sh.End, sw.ShiftID)
		if err != nil {
			return internal.NewInternalError("overlap check failed", err)
		}
		if overlap {
			return internal.ErrShiftOverlap
		}

		if err := tx.ReassignShift(actor.TenantID, sw.ShiftID, sw.ToEmployeeID); err != nil {
			return internal.NewInternalError("failed to reassign shift", err)
		}

		now := time.Now()
		if err := tx.UpdateStatus(actor.TenantID, id, StatusApproved, &now, &actor.UserID); err != nil {
			return internal.NewInternalError("failed to update swap status", err)
		}

		before, _ := json.Marshal(map[string]int64{"employee_id": sw.FromEmployeeID})
		after, _ := json.Marshal(map[string]int64{"employee_id": sw.ToEmployeeID})
		if err := tx.RecordAudit(&notificationDatamodel.AuditLog{
			TenantID: actor.TenantID,
			UserID:   actor.UserID,
			Action:   "swap_approve",
			Entity:   "shift",
			EntityID: sw.ShiftID,
			Before:   before,
			After:    after,
		}); err != nil {
			return internal.NewInternalError("failed to record audit entry", err)
		}

		sw.Status = StatusApproved
		sw.DecidedAt = &now
		sw.DecidedByUserID = &actor.UserID
		approved = sw
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("swap approved",
		"swap_id", id,
		"shift_id", approved.ShiftID,
		"from_employee_id", approved.FromEmployeeID,
		"to_employee_id", approved.ToEmployeeID,
		"tenant_id", actor.TenantID)

	s.bus.Publish(ctx, events.NewSwapDecidedEvent(actor.TenantID, id, approved.ShiftID, approved.FromEmployeeID, approved.ToEmployeeID, approved.Status))

	return FromDataModel(approved), nil
}

// Decline is stage-bound: the target declines while pending_target, a
// managerial role declines while pending_manager. Any other state is a
// Conflict, never a silent no-op.
func (s *Service) Decline(ctx context.Context, actor *internal.Actor, id int64) (*Swap, error) {
	sw, err := s.repo.GetByID(actor.TenantID, id)
	if err != nil {
		return nil, err
	}

	isTarget := actor.EmployeeID != 0 && sw.ToEmployeeID == actor.EmployeeID
	isManager := auth.Can(actor.Role, auth.ActionSwapApprove)
	if !isTarget && !isManager {
		return nil, internal.ErrForbidden
	}

	targetStage := isTarget && sw.Status == StatusPendingTarget
	managerStage := isManager && sw.Status == StatusPendingManager
	if !targetStage && !managerStage {
		return nil, internal.ErrInvalidSwapState
	}

	now := time.Now()
	var decidedBy *int64
	if managerStage {
		decidedBy = &actor.UserID
	}

	if err := s.repo.UpdateStatus(actor.TenantID, id, StatusDeclined, &now, decidedBy); err != nil {
		s.logger.Error("failed to decline swap", "error", err, "swap_id", id)
		return nil, internal.NewInternalError("failed to decline swap", err)
	}

	sw.Status = StatusDeclined
	sw.DecidedAt = &now
	sw.DecidedByUserID = decidedBy

	s.logger.Info("swap declined", "swap_id", id, "by_manager", managerStage, "tenant_id", actor.TenantID)
	s.bus.Publish(ctx, events.NewSwapDecidedEvent(actor.TenantID, id, sw.ShiftID, sw.FromEmployeeID, sw.ToEmployeeID, sw.Status))
	s.bus.Publish(ctx, events.NewAuditRecordEvent(actor.TenantID, actor.UserID, "swap_decline", "shift_swap", id, nil, FromDataModel(sw)))

	return FromDataModel(sw), nil
}

// Cancel lets the original requester withdraw a swap that has not been
// finalized.
func (s *Service) Cancel(ctx context.Context, actor *internal.Actor, id int64) (*Swap, error) {
	sw, err := s.repo.GetByID(actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if actor.EmployeeID == 0 || sw.FromEmployeeID != actor.EmployeeID {
		return nil, internal.ErrForbidden
	}

	domain := FromDataModel(sw)
	if !domain.CanBeCancelled() {
		return nil, internal.ErrInvalidSwapState
	}

	now := time.Now()
	if err := s.repo.UpdateStatus(actor.TenantID, id, StatusCancelled, &now, nil); err != nil {
		s.logger.Error("failed to cancel swap", "error", err, "swap_id", id)
		return nil, internal.NewInternalError("failed to cancel swap", err)
	}

	sw.Status = StatusCancelled
	sw.DecidedAt = &now

	s.logger.Info("swap cancelled by requester", "swap_id", id, "tenant_id", actor.TenantID)
	s.bus.Publish(ctx, events.NewSwapDecidedEvent(actor.TenantID, id, sw.ShiftID, sw.FromEmployeeID, sw.ToEmployeeID, sw.Status))
	s.bus.Publish(ctx, events.NewAuditRecordEvent(actor.TenantID, actor.UserID, "swap_cancel", "shift_swap", id, nil, FromDataModel(sw)))

	return FromDataModel(sw), nil
}

// ListMine returns swaps where the caller's employee record is either
// side, newest first.
func (s *Service) ListMine(actor *internal.Actor) ([]*Swap, error) {
	if actor.EmployeeID == 0 {
		return []*Swap{}, nil
	}
	rows, err := s.repo.ListForEmployee(actor.TenantID, actor.EmployeeID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list swaps", err)
	}
	return FromDataModelSlice(rows), nil
}
