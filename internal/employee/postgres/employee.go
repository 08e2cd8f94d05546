package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/zonoapp/workforce/internal"
	attendanceDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/attendance"
	employeeDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/employee"
	shiftDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/shift"
	"github.com/zonoapp/workforce/internal/employee"
)

// EmployeeRepository implements employee.RepositoryAPI using GORM. It
// also serves as the EmployeeDirectory for the shift, swap and
// attendance services.
type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

var _ employee.RepositoryAPI = (*EmployeeRepository)(nil)

func (r *EmployeeRepository) Create(e *employeeDatamodel.Employee) error {
	return r.db.Create(e).Error
}

func (r *EmployeeRepository) GetByID(tenantID, id int64) (*employeeDatamodel.Employee, error) {
	var e employeeDatamodel.Employee
	err := r.db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&e).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &e, nil
}

// FindInTenant returns nil, nil when the employee does not exist in the
// tenant, leaving the NotFound mapping to the caller.
func (r *EmployeeRepository) FindInTenant(tenantID, employeeID int64) (*employeeDatamodel.Employee, error) {
	var e employeeDatamodel.Employee
	err := r.db.Where("id = ? AND tenant_id = ?", employeeID, tenantID).First(&e).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *EmployeeRepository) FindByUser(tenantID, userID int64) (*employeeDatamodel.Employee, error) {
	var e employeeDatamodel.Employee
	err := r.db.Where("user_id = ? AND tenant_id = ?", userID, tenantID).First(&e).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *EmployeeRepository) Update(e *employeeDatamodel.Employee) error {
	e.UpdatedAt = time.Now()
	return r.db.Save(e).Error
}

func (r *EmployeeRepository) Delete(tenantID, id int64) error {
	return r.db.Where("id = ? AND tenant_id = ?", id, tenantID).
		Delete(&employeeDatamodel.Employee{}).Error
}

func (r *EmployeeRepository) List(tenantID int64, limit, offset int) ([]*employeeDatamodel.Employee, error) {
	var rows []*employeeDatamodel.Employee
	err := r.db.Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}

func (r *EmployeeRepository) HasReferences(tenantID, employeeID int64) (bool, error) {
	var count int64
	err := r.db.Model(&shiftDatamodel.Shift{}).
		Where("tenant_id = ? AND employee_id = ?", tenantID, employeeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	err = r.db.Model(&attendanceDatamodel.Attendance{}).
		Where("tenant_id = ? AND employee_id = ?", tenantID, employeeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
