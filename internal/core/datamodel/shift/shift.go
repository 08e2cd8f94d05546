package shift

import "time"

// Shift times-of-day are zero-padded "HH:MM" strings; Date is the
// canonical UTC-midnight business day.
type Shift struct {
	ID         int64     `gorm:"primaryKey"`
	TenantID   int64     `gorm:"column:tenant_id;not null;index:idx_shifts_tenant_employee_date"`
	EmployeeID int64     `gorm:"column:employee_id;not null;index:idx_shifts_tenant_employee_date"`
	Date       time.Time `gorm:"column:date;type:date;not null;index:idx_shifts_tenant_employee_date"`
	Start      string    `gorm:"column:start;not null"`
	End        string    `gorm:"column:end;not null"`
	Role       string    `gorm:"column:role;not null;default:Staff"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Shift) TableName() string {
	return "shifts"
}

// ShiftSwap snapshots the assignee at request time in FromEmployeeID;
// the live assignment stays on the Shift row until approval.
type ShiftSwap struct {
	ID              int64      `gorm:"primaryKey"`
	TenantID        int64      `gorm:"column:tenant_id;not null;index"`
	ShiftID         int64      `gorm:"column:shift_id;not null;index"`
	FromEmployeeID  int64      `gorm:"column:from_employee_id;not null"`
	ToEmployeeID    int64      `gorm:"column:to_employee_id;not null"`
	Status          string     `gorm:"column:status;not null;default:pending_target"`
	Reason          *string    `gorm:"column:reason"`
	DecidedAt       *time.Time `gorm:"column:decided_at"`
	DecidedByUserID *int64     `gorm:"column:decided_by_user_id"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (ShiftSwap) TableName() string {
	return "shift_swaps"
}
