package shift

import (
	"github.com/zonoapp/workforce/internal"
	"github.com/zonoapp/workforce/internal/timeutil"
)

// CreateShiftDTO is the request payload for creating a shift. Date is
// YYYY-MM-DD, Start/End are "HH:MM".
type CreateShiftDTO struct {
	EmployeeID int64  `json:"employee_id"`
	Date       string `json:"date"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Role       string `json:"role,omitempty"`
}

func (dto CreateShiftDTO) Validate() error {
	if dto.EmployeeID <= 0 {
		return internal.NewValidationError("employee_id is required", internal.ErrCodeValidationFailed)
	}
	if _, err := timeutil.ParseDay(dto.Date); err != nil {
		return internal.NewValidationError("date must be YYYY-MM-DD", internal.ErrCodeInvalidDate)
	}
	if !timeutil.ValidClock(dto.Start) || !timeutil.ValidClock(dto.End) {
		return internal.NewValidationError("start and end must be HH:MM", internal.ErrCodeValidationFailed)
	}
	if dto.Start >= dto.End {
		return internal.ErrInvalidTimeRange
	}
	return nil
}

// UpdateShiftDTO carries partial fields; nil means "keep the existing
// value". Range and overlap are re-validated against the merged result.
type UpdateShiftDTO struct {
	EmployeeID *int64  `json:"employee_id,omitempty"`
	Date       *string `json:"date,omitempty"`
	Start      *string `json:"start,omitempty"`
	End        *string `json:"end,omitempty"`
	Role       *string `json:"role,omitempty"`
}

func (dto UpdateShiftDTO) Validate() error {
	if dto.Date != nil {
		if _, err := timeutil.ParseDay(*dto.Date); err != nil {
			return internal.NewValidationError("date must be YYYY-MM-DD", internal.ErrCodeInvalidDate)
		}
	}
	if dto.Start != nil && !timeutil.ValidClock(*dto.Start) {
		return internal.NewValidationError("start must be HH:MM", internal.ErrCodeValidationFailed)
	}
	if dto.End != nil && !timeutil.ValidClock(*dto.End) {
		return internal.NewValidationError("end must be HH:MM", internal.ErrCodeValidationFailed)
	}
	return nil
}

// ListShiftsQuery filters tenant-scoped listings. From/To form a
// half-open [from,to) day range.
type ListShiftsQuery struct {
	Date       string `json:"date,omitempty"`
	From       string `json:"from,omitempty"`
	To         string `json:"to,omitempty"`
	EmployeeID int64  `json:"employee_id,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
}
