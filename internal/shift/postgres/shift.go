package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/zonoapp/workforce/internal"
	shiftDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/shift"
	"github.com/zonoapp/workforce/internal/shift"
)

// ShiftRepository implements shift.RepositoryAPI using GORM.
type ShiftRepository struct {
	db *gorm.DB
}

func NewShiftRepository(db *gorm.DB) shift.RepositoryAPI {
	return &ShiftRepository{db: db}
}

func (r *ShiftRepository) Create(s *shiftDatamodel.Shift) error {
	return r.db.Create(s).Error
}

func (r *ShiftRepository) GetByID(tenantID, id int64) (*shiftDatamodel.Shift, error) {
	var s shiftDatamodel.Shift
	err := r.db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&s).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrShiftNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *ShiftRepository) Update(s *shiftDatamodel.Shift) error {
	s.UpdatedAt = time.Now()
	return r.db.Save(s).Error
}

func (r *ShiftRepository) Delete(tenantID, id int64) error {
	return r.db.Where("id = ? AND tenant_id = ?", id, tenantID).
		Delete(&shiftDatamodel.Shift{}).Error
}

// HasOverlap reports whether any shift for the employee on the day
// intersects the half-open [start,end). excludeShiftID = 0 excludes
// nothing; a non-zero value lets updates compare against everything but
// themselves.
func (r *ShiftRepository) HasOverlap(tenantID, employeeID int64, day time.Time, start, end string, excludeShiftID int64) (bool, error) {
	q := r.db.Model(&shiftDatamodel.Shift{}).
		Where("tenant_id = ? AND employee_id = ? AND date = ?", tenantID, employeeID, day).
		Where("start < ? AND \"end\" > ?", end, start)
	if excludeShiftID != 0 {
		q = q.Where("id <> ?", excludeShiftID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ShiftRepository) ListByDay(tenantID int64, day time.Time, limit, offset int) ([]*shiftDatamodel.Shift, error) {
	var rows []*shiftDatamodel.Shift
	err := r.db.Where("tenant_id = ? AND date = ?", tenantID, day).
		Order("date DESC, start ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}

func (r *ShiftRepository) ListRange(tenantID int64, from, to time.Time, employeeID int64) ([]*shiftDatamodel.Shift, error) {
	q := r.db.Where("tenant_id = ? AND date >= ? AND date < ?", tenantID, from, to)
	if employeeID != 0 {
		q = q.Where("employee_id = ?", employeeID)
	}

	var rows []*shiftDatamodel.Shift
	err := q.Order("date ASC, start ASC").Find(&rows).Error
	return rows, err
}

func (r *ShiftRepository) ListRecent(tenantID int64, limit, offset int) ([]*shiftDatamodel.Shift, error) {
	var rows []*shiftDatamodel.Shift
	err := r.db.Where("tenant_id = ?", tenantID).
		Order("date DESC, start ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}
