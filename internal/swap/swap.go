package swap

import (
	"time"

	shiftDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/shift"
)

// Swap statuses. pending_target -> pending_manager -> approved is the
// success path; declined and cancelled are terminal failures reachable
// from the pending states. A terminal status never changes again.
const (
	StatusPendingTarget  = "pending_target"
	StatusPendingManager = "pending_manager"
	StatusApproved       = "approved"
	StatusDeclined       = "declined"
	StatusCancelled      = "cancelled"
)

// ActiveStatuses are the non-terminal states; at most one swap per shift
// may be in one of them at a time.
var ActiveStatuses = []string{StatusPendingTarget, StatusPendingManager}

type Swap struct {
	ID              int64      `json:"id"`
	TenantID        int64      `json:"tenant_id"`
	ShiftID         int64      `json:"shift_id"`
	FromEmployeeID  int64      `json:"from_employee_id"`
	ToEmployeeID    int64      `json:"to_employee_id"`
	Status          string     `json:"status"`
	Reason          *string    `json:"reason,omitempty"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`
	DecidedByUserID *int64     `json:"decided_by_user_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (s *Swap) IsTerminal() bool {
	switch s.Status {
	case StatusApproved, StatusDeclined, StatusCancelled:
		return true
	}
	return false
}

func (s *Swap) CanBeAccepted() bool {
	return s.Status == StatusPendingTarget
}

func (s *Swap) CanBeApproved() bool {
	return s.Status == StatusPendingManager
}

func (s *Swap) CanBeCancelled() bool {
	return !s.IsTerminal()
}

func FromDataModel(s *shiftDatamodel.ShiftSwap) *Swap {
	return &Swap{
		ID:              s.ID,
		TenantID:        s.TenantID,
		ShiftID:         s.ShiftID,
		FromEmployeeID:  s.FromEmployeeID,
		ToEmployeeID:    s.ToEmployeeID,
		Status:          s.Status,
		Reason:          s.Reason,
		DecidedAt:       s.DecidedAt,
		DecidedByUserID: s.DecidedByUserID,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func FromDataModelSlice(swaps []*shiftDatamodel.ShiftSwap) []*Swap {
	result := make([]*Swap, len(swaps))
	for i, s := range swaps {
		result[i] = FromDataModel(s)
	}
	return result
}
