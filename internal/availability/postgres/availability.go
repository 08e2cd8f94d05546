package postgres

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zonoapp/workforce/internal"
	"github.com/zonoapp/workforce/internal/availability"
	availabilityDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/availability"
)

type AvailabilityRepository struct {
	db *gorm.DB
}

func NewAvailabilityRepository(db *gorm.DB) availability.RepositoryAPI {
	return &AvailabilityRepository{db: db}
}

func (r *AvailabilityRepository) Upsert(row *availabilityDatamodel.Availability) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "employee_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"start", "end", "note", "updated_at"}),
	}).Create(row).Error
}

func (r *AvailabilityRepository) GetByID(tenantID, id int64) (*availabilityDatamodel.Availability, error) {
	var row availabilityDatamodel.Availability
	err := r.db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrAvailabilityNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *AvailabilityRepository) Delete(tenantID, id int64) error {
	return r.db.Where("id = ? AND tenant_id = ?", id, tenantID).
		Delete(&availabilityDatamodel.Availability{}).Error
}

func (r *AvailabilityRepository) ListRange(tenantID int64, from, to time.Time, employeeID int64) ([]*availabilityDatamodel.Availability, error) {
	q := r.db.Where("tenant_id = ? AND date >= ? AND date <= ?", tenantID, from, to)
	if employeeID != 0 {
		q = q.Where("employee_id = ?", employeeID)
	}

	var rows []*availabilityDatamodel.Availability
	err := q.Order("date ASC, employee_id ASC").Find(&rows).Error
	return rows, err
}
