package postgres

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zonoapp/workforce/internal"
	tenantDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/tenant"
	"github.com/zonoapp/workforce/internal/tenant"
)

type TenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) tenant.RepositoryAPI {
	return &TenantRepository{db: db}
}

func (r *TenantRepository) Create(t *tenantDatamodel.Tenant) error {
	return r.db.Create(t).Error
}

func (r *TenantRepository) GetByID(id int64) (*tenantDatamodel.Tenant, error) {
	var row tenantDatamodel.Tenant
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrTenantNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *TenantRepository) List(limit, offset int) ([]*tenantDatamodel.Tenant, error) {
	var rows []*tenantDatamodel.Tenant
	err := r.db.Order("id ASC").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, err
}

func (r *TenantRepository) ListFlags(tenantID int64) ([]*tenantDatamodel.FeatureFlag, error) {
	var rows []*tenantDatamodel.FeatureFlag
	err := r.db.Where("tenant_id = ?", tenantID).Order("key ASC").Find(&rows).Error
	return rows, err
}

func (r *TenantRepository) UpsertFlag(flag *tenantDatamodel.FeatureFlag) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"enabled", "updated_at"}),
	}).Create(flag).Error
}

func (r *TenantRepository) Transaction(fn func(tx tenant.RepositoryAPI) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&TenantRepository{db: tx})
	})
}
