package attendance

import (
	"time"

	"github.com/zonoapp/workforce/internal"
)

type ClockInDTO struct {
	EmployeeID int64    `json:"employee_id"`
	ShiftID    *int64   `json:"shift_id,omitempty"`
	Lat        *float64 `json:"lat,omitempty"`
	Lng        *float64 `json:"lng,omitempty"`
	Source     string   `json:"source,omitempty"`
}

func (dto ClockInDTO) Validate() error {
	if dto.EmployeeID <= 0 {
		return internal.NewValidationError("employee_id is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type ClockOutDTO struct {
	EmployeeID int64  `json:"employee_id"`
	Source     string `json:"source,omitempty"`
}

func (dto ClockOutDTO) Validate() error {
	if dto.EmployeeID <= 0 {
		return internal.NewValidationError("employee_id is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// EditAttendanceDTO is the administrative correction payload; nil fields
// keep their stored values.
type EditAttendanceDTO struct {
	ShiftID    *int64     `json:"shift_id,omitempty"`
	ClockInAt  *time.Time `json:"clock_in_at,omitempty"`
	ClockOutAt *time.Time `json:"clock_out_at,omitempty"`
	Minutes    *int       `json:"minutes,omitempty"`
	Status     *string    `json:"status,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
}

func (dto EditAttendanceDTO) Validate() error {
	if dto.Status != nil {
		switch *dto.Status {
		case StatusWorking, StatusLate, StatusPresent, StatusLeftEarly, StatusAbsent:
		default:
			return internal.NewValidationError("invalid attendance status", internal.ErrCodeValidationFailed)
		}
	}
	if dto.Minutes != nil && *dto.Minutes < 0 {
		return internal.NewValidationError("minutes cannot be negative", internal.ErrCodeValidationFailed)
	}
	return nil
}

type MarkAbsentDTO struct {
	Date        string  `json:"date"`
	EmployeeIDs []int64 `json:"employee_ids"`
	Notes       string  `json:"notes,omitempty"`
}

func (dto MarkAbsentDTO) Validate() error {
	if len(dto.EmployeeIDs) == 0 {
		return internal.NewValidationError("employee_ids is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
