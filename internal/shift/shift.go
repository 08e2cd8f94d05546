package shift

import (
	"time"

	shiftDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/shift"
	"github.com/zonoapp/workforce/internal/timeutil"
)

// Shift is a scheduled work interval assigned to one employee on one
// business day. Start/End are zero-padded "HH:MM"; the interval is
// half-open, so [09:00,17:00) and [17:00,18:00) can coexist.
type Shift struct {
	ID         int64     `json:"id"`
	TenantID   int64     `json:"tenant_id"`
	EmployeeID int64     `json:"employee_id"`
	Date       time.Time `json:"date"`
	Start      string    `json:"start"`
	End        string    `json:"end"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (s *Shift) DateKey() string {
	return s.Date.Format(timeutil.DayLayout)
}

func ToDataModel(s *Shift) *shiftDatamodel.Shift {
	return &shiftDatamodel.Shift{
		ID:         s.ID,
		TenantID:   s.TenantID,
		EmployeeID: s.EmployeeID,
		Date:       s.Date,
		Start:      s.Start,
		End:        s.End,
		Role:       s.Role,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

func FromDataModel(s *shiftDatamodel.Shift) *Shift {
	return &Shift{
		ID:         s.ID,
		TenantID:   s.TenantID,
		EmployeeID: s.EmployeeID,
		Date:       s.Date,
		Start:      s.Start,
		End:        s.End,
		Role:       s.Role,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

func FromDataModelSlice(shifts []*shiftDatamodel.Shift) []*Shift {
	result := make([]*Shift, len(shifts))
	for i, s := range shifts {
		result[i] = FromDataModel(s)
	}
	return result
}
