package availability

import (
	"time"

	"github.com/zonoapp/workforce/internal"
	"github.com/zonoapp/workforce/internal/timeutil"
)

type UpsertAvailabilityDTO struct {
	Date  string `json:"date"`
	Start string `json:"start"`
	End   string `json:"end"`
	Note  string `json:"note,omitempty"`
}

func (dto UpsertAvailabilityDTO) Validate() (time.Time, error) {
	day, err := timeutil.ParseDay(dto.Date)
	if err != nil {
		return time.Time{}, internal.NewValidationError("date must be YYYY-MM-DD", internal.ErrCodeInvalidDate)
	}
	if !timeutil.ValidClock(dto.Start) || !timeutil.ValidClock(dto.End) {
		return time.Time{}, internal.NewValidationError("start and end must be HH:MM", internal.ErrCodeValidationFailed)
	}
	if dto.Start >= dto.End {
		return time.Time{}, internal.ErrInvalidTimeRange
	}
	return day, nil
}

type ListAvailabilityQuery struct {
	From       string `json:"from"`
	To         string `json:"to"`
	EmployeeID int64  `json:"employee_id,omitempty"`
}
