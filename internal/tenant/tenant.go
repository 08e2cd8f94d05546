package tenant

import (
	"time"

	tenantDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/tenant"
)

type Tenant struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromDataModel(row *tenantDatamodel.Tenant) *Tenant {
	return &Tenant{
		ID:        row.ID,
		Name:      row.Name,
		Slug:      row.Slug,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*tenantDatamodel.Tenant) []*Tenant {
	result := make([]*Tenant, len(rows))
	for i, row := range rows {
		result[i] = FromDataModel(row)
	}
	return result
}
