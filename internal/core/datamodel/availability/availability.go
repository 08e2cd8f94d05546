package availability

import "time"

type Availability struct {
	ID         int64     `gorm:"primaryKey"`
	TenantID   int64     `gorm:"column:tenant_id;not null;uniqueIndex:idx_availability_day"`
	EmployeeID int64     `gorm:"column:employee_id;not null;uniqueIndex:idx_availability_day"`
	Date       time.Time `gorm:"column:date;type:date;not null;uniqueIndex:idx_availability_day"`
	Start      string    `gorm:"column:start;not null"`
	End        string    `gorm:"column:end;not null"`
	Note       *string   `gorm:"column:note"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Availability) TableName() string {
	return "availability"
}
