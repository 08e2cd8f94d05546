package attendance

import (
	"time"

	attendanceDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/attendance"
)

// Derived attendance statuses. working/late are set at clock-in,
// present/left_early at clock-out, absent by administrative marking.
const (
	StatusWorking   = "working"
	StatusLate      = "late"
	StatusPresent   = "present"
	StatusLeftEarly = "left_early"
	StatusAbsent    = "absent"
)

// Attendance is the daily aggregate for one employee on one business
// day, not a raw event stream.
type Attendance struct {
	ID          int64      `json:"id"`
	TenantID    int64      `json:"tenant_id"`
	EmployeeID  int64      `json:"employee_id"`
	Day         time.Time  `json:"day"`
	ShiftID     *int64     `json:"shift_id,omitempty"`
	ClockInAt   *time.Time `json:"clock_in_at,omitempty"`
	ClockOutAt  *time.Time `json:"clock_out_at,omitempty"`
	ClockInSrc  string     `json:"clock_in_src,omitempty"`
	ClockOutSrc string     `json:"clock_out_src,omitempty"`
	ClockInLat  *float64   `json:"clock_in_lat,omitempty"`
	ClockInLng  *float64   `json:"clock_in_lng,omitempty"`
	Minutes     int        `json:"minutes"`
	Status      string     `json:"status"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (a *Attendance) IsOpen() bool {
	return a.ClockInAt != nil && a.ClockOutAt == nil
}

func ToDataModel(a *Attendance) *attendanceDatamodel.Attendance {
	return &attendanceDatamodel.Attendance{
		ID:          a.ID,
		TenantID:    a.TenantID,
		EmployeeID:  a.EmployeeID,
		Day:         a.Day,
		ShiftID:     a.ShiftID,
		ClockInAt:   a.ClockInAt,
		ClockOutAt:  a.ClockOutAt,
		ClockInSrc:  a.ClockInSrc,
		ClockOutSrc: a.ClockOutSrc,
		ClockInLat:  a.ClockInLat,
		ClockInLng:  a.ClockInLng,
		Minutes:     a.Minutes,
		Status:      a.Status,
		Notes:       a.Notes,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func FromDataModel(a *attendanceDatamodel.Attendance) *Attendance {
	return &Attendance{
		ID:          a.ID,
		TenantID:    a.TenantID,
		EmployeeID:  a.EmployeeID,
		Day:         a.Day,
		ShiftID:     a.ShiftID,
		ClockInAt:   a.ClockInAt,
		ClockOutAt:  a.ClockOutAt,
		ClockInSrc:  a.ClockInSrc,
		ClockOutSrc: a.ClockOutSrc,
		ClockInLat:  a.ClockInLat,
		ClockInLng:  a.ClockInLng,
		Minutes:     a.Minutes,
		Status:      a.Status,
		Notes:       a.Notes,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*attendanceDatamodel.Attendance) []*Attendance {
	result := make([]*Attendance, len(rows))
	for i, a := range rows {
		result[i] = FromDataModel(a)
	}
	return result
}
