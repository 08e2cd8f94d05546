package employee

import "time"

// User is the owning login identity; an Employee may exist without one
// (e.g. created by an admin before the invitation is accepted).
type User struct {
	ID           int64     `gorm:"primaryKey"`
	TenantID     int64     `gorm:"column:tenant_id;not null;index"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Role         string    `gorm:"column:role;not null;default:staff"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

type Employee struct {
	ID        int64     `gorm:"primaryKey"`
	TenantID  int64     `gorm:"column:tenant_id;not null;index"`
	UserID    *int64    `gorm:"column:user_id;index"`
	Name      string    `gorm:"column:name;not null"`
	Role      string    `gorm:"column:role;not null;default:Staff"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Employee) TableName() string {
	return "employees"
}
