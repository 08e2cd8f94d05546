package attendance

import "time"

// Attendance is a daily aggregate, one row per (tenant, employee,
// business day). The composite unique index is what makes concurrent
// clock-in upserts resolve deterministically.
type Attendance struct {
	ID          int64      `gorm:"primaryKey"`
	TenantID    int64      `gorm:"column:tenant_id;not null;uniqueIndex:idx_attendance_day"`
	EmployeeID  int64      `gorm:"column:employee_id;not null;uniqueIndex:idx_attendance_day"`
	Day         time.Time  `gorm:"column:day;type:date;not null;uniqueIndex:idx_attendance_day"`
	ShiftID     *int64     `gorm:"column:shift_id"`
	ClockInAt   *time.Time `gorm:"column:clock_in_at"`
	ClockOutAt  *time.Time `gorm:"column:clock_out_at"`
	ClockInSrc  string     `gorm:"column:clock_in_src"`
	ClockOutSrc string     `gorm:"column:clock_out_src"`
	ClockInLat  *float64   `gorm:"column:clock_in_lat"`
	ClockInLng  *float64   `gorm:"column:clock_in_lng"`
	Minutes     int        `gorm:"column:minutes;not null;default:0"`
	Status      string     `gorm:"column:status;not null"`
	Notes       string     `gorm:"column:notes"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Attendance) TableName() string {
	return "attendance"
}
