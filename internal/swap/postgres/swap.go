package postgres

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zonoapp/workforce/internal"
	notificationDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/notification"
	shiftDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/shift"
	"github.com/zonoapp/workforce/internal/swap"
)

// SwapRepository implements swap.RepositoryAPI using GORM. Transaction
// hands the callback a repository bound to the transactional handle, so
// the service's approval unit maps onto a single database transaction.
type SwapRepository struct {
	db *gorm.DB
}

func NewSwapRepository(db *gorm.DB) swap.RepositoryAPI {
	return &SwapRepository{db: db}
}

func (r *SwapRepository) Create(sw *shiftDatamodel.ShiftSwap) error {
	return r.db.Create(sw).Error
}

func (r *SwapRepository) GetByID(tenantID, id int64) (*shiftDatamodel.ShiftSwap, error) {
	var sw shiftDatamodel.ShiftSwap
	err := r.db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&sw).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrSwapNotFound
		}
		return nil, err
	}
	return &sw, nil
}

// GetByIDForUpdate takes a row lock so two concurrent approvals of the
// same swap serialize; the loser then fails the status precondition.
func (r *SwapRepository) GetByIDForUpdate(tenantID, id int64) (*shiftDatamodel.ShiftSwap, error) {
	var sw shiftDatamodel.ShiftSwap
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&sw).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrSwapNotFound
		}
		return nil, err
	}
	return &sw, nil
}

func (r *SwapRepository) GetShift(tenantID, shiftID int64) (*shiftDatamodel.Shift, error) {
	var sh shiftDatamodel.Shift
	err := r.db.Where("id = ? AND tenant_id = ?", shiftID, tenantID).First(&sh).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrShiftNotFound
		}
		return nil, err
	}
	return &sh, nil
}

func (r *SwapRepository) HasActiveForShift(tenantID, shiftID int64) (bool, error) {
	var count int64
	err := r.db.Model(&shiftDatamodel.ShiftSwap{}).
		Where("tenant_id = ? AND shift_id = ? AND status IN ?", tenantID, shiftID, swap.ActiveStatuses).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *SwapRepository) HasOverlap(tenantID, employeeID int64, day time.Time, start, end string, excludeShiftID int64) (bool, error) {
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

func (r *SwapRepository) UpdateStatus(tenantID, id int64, status string, decidedAt *time.Time, decidedByUserID *int64) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if decidedAt != nil {
		updates["decided_at"] = *decidedAt
	}
	if decidedByUserID != nil {
		updates["decided_by_user_id"] = *decidedByUserID
	}

	return r.db.Model(&shiftDatamodel.ShiftSwap{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Updates(updates).Error
}

func (r *SwapRepository) ReassignShift(tenantID, shiftID, toEmployeeID int64) error {
	return r.db.Model(&shiftDatamodel.Shift{}).
		Where("id = ? AND tenant_id = ?", shiftID, tenantID).
		Updates(map[string]interface{}{
			"employee_id": toEmployeeID,
			"updated_at":  time.Now(),
		}).Error
}

func (r *SwapRepository) RecordAudit(entry *notificationDatamodel.AuditLog) error {
	return r.db.Create(entry).Error
}

func (r *SwapRepository) ListForEmployee(tenantID, employeeID int64) ([]*shiftDatamodel.ShiftSwap, error) {
	var rows []*shiftDatamodel.ShiftSwap
	err := r.db.Where("tenant_id = ? AND (from_employee_id = ? OR to_employee_id = ?)", tenantID, employeeID, employeeID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *SwapRepository) Transaction(fn func(tx swap.RepositoryAPI) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&SwapRepository{db: tx})
	})
}
