package postgres

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zonoapp/workforce/internal"
	"github.com/zonoapp/workforce/internal/attendance"
	attendanceDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/attendance"
)

// AttendanceRepository implements attendance.RepositoryAPI using GORM.
type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) attendance.RepositoryAPI {
	return &AttendanceRepository{db: db}
}

func (r *AttendanceRepository) GetByID(tenantID, id int64) (*attendanceDatamodel.Attendance, error) {
	var row attendanceDatamodel.Attendance
	err := r.db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrAttendanceNotFound
		}
		return nil, err
	}
	return &row, nil
}

// GetByDay returns nil, nil when no row exists for the day key.
func (r *AttendanceRepository) GetByDay(tenantID, employeeID int64, day time.Time) (*attendanceDatamodel.Attendance, error) {
	var row attendanceDatamodel.Attendance
	err := r.db.Where("tenant_id = ? AND employee_id = ? AND day = ?", tenantID, employeeID, day).
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// FindOpen returns the newest row among the given days that has a
// clock-in but no clock-out, or nil when none is open.
func (r *AttendanceRepository) FindOpen(tenantID, employeeID int64, days []time.Time) (*attendanceDatamodel.Attendance, error) {
	var row attendanceDatamodel.Attendance
	err := r.db.Where("tenant_id = ? AND employee_id = ? AND day IN ?", tenantID, employeeID, days).
		Where("clock_in_at IS NOT NULL AND clock_out_at IS NULL").
		Order("day DESC").
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// Upsert writes against the unique (tenant, employee, day) key, so
// concurrent clock-ins for the same day serialize instead of producing
// duplicate rows.
func (r *AttendanceRepository) Upsert(row *attendanceDatamodel.Attendance) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tenant_id"}, {Name: "employee_id"}, {Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"shift_id", "clock_in_at", "clock_in_src", "clock_in_lat", "clock_in_lng",
			"status", "notes", "updated_at",
		}),
	}).Create(row).Error
}

func (r *AttendanceRepository) Update(row *attendanceDatamodel.Attendance) error {
	row.UpdatedAt = time.Now()
	return r.db.Save(row).Error
}

func (r *AttendanceRepository) ListByDay(tenantID int64, day time.Time, employeeID int64) ([]*attendanceDatamodel.Attendance, error) {
	q := r.db.Where("tenant_id = ? AND day = ?", tenantID, day)
	if employeeID != 0 {
		q = q.Where("employee_id = ?", employeeID)
	}

	var rows []*attendanceDatamodel.Attendance
	err := q.Order("employee_id ASC").Find(&rows).Error
	return rows, err
}

func (r *AttendanceRepository) Transaction(fn func(tx attendance.RepositoryAPI) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&AttendanceRepository{db: tx})
	})
}
