package employee

import (
	"time"

	employeeDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/employee"
)

// Employee is a staff record within a tenant, optionally linked to a
// login identity via UserID.
type Employee struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenant_id"`
	UserID    *int64    `json:"user_id,omitempty"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToDataModel(e *Employee) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		ID:        e.ID,
		TenantID:  e.TenantID,
		UserID:    e.UserID,
		Name:      e.Name,
		Role:      e.Role,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	return &Employee{
		ID:        e.ID,
		TenantID:  e.TenantID,
		UserID:    e.UserID,
		Name:      e.Name,
		Role:      e.Role,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*employeeDatamodel.Employee) []*Employee {
	result := make([]*Employee, len(rows))
	for i, e := range rows {
		result[i] = FromDataModel(e)
	}
	return result
}
