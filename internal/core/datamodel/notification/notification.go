package notification

import "time"

type Notification struct {
	ID        int64      `gorm:"primaryKey"`
	TenantID  int64      `gorm:"column:tenant_id;not null;index"`
	UserID    int64      `gorm:"column:user_id;not null;index"`
	Type      string     `gorm:"column:type;not null"`
	Title     string     `gorm:"column:title;not null"`
	Body      string     `gorm:"column:body"`
	ReadAt    *time.Time `gorm:"column:read_at"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}

// AuditLog is append-only; rows are written best-effort and never read
// back by the core. Before/After hold JSON snapshots of the entity.
type AuditLog struct {
	ID        int64     `gorm:"primaryKey"`
	TenantID  int64     `gorm:"column:tenant_id;not null;index"`
	UserID    int64     `gorm:"column:user_id;not null"`
	Action    string    `gorm:"column:action;not null"`
	Entity    string    `gorm:"column:entity;not null"`
	EntityID  int64     `gorm:"column:entity_id;not null"`
	Before    []byte    `gorm:"column:before;type:jsonb"`
	After     []byte    `gorm:"column:after;type:jsonb"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
