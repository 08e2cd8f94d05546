package tenant

import "time"

type Tenant struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Slug      string    `gorm:"column:slug;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Tenant) TableName() string {
	return "tenants"
}

type FeatureFlag struct {
	ID        int64     `gorm:"primaryKey"`
	TenantID  int64     `gorm:"column:tenant_id;not null;uniqueIndex:idx_feature_flags_tenant_key"`
	Key       string    `gorm:"column:key;not null;uniqueIndex:idx_feature_flags_tenant_key"`
	Enabled   bool      `gorm:"column:enabled;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (FeatureFlag) TableName() string {
	return "feature_flags"
}
