package availability

import (
	"time"

	availabilityDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/availability"
	"github.com/zonoapp/workforce/internal/timeutil"
)

// Availability is an employee's declared availability for one business
// day. Start and End are times of day in "HH:MM" form.
type Availability struct {
	ID         int64     `json:"id"`
	TenantID   int64     `json:"tenant_id"`
	EmployeeID int64     `json:"employee_id"`
	Date       time.Time `json:"date"`
	Start      string    `json:"start"`
	End        string    `json:"end"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (a *Availability) DateKey() string {
	return a.Date.Format(timeutil.DayLayout)
}

func FromDataModel(row *availabilityDatamodel.Availability) *Availability {
	a := &Availability{
		ID:         row.ID,
		TenantID:   row.TenantID,
		EmployeeID: row.EmployeeID,
		Date:       row.Date,
		Start:      row.Start,
		End:        row.End,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
	if row.Note != nil {
		a.Note = *row.Note
	}
	return a
}

func FromDataModelSlice(rows []*availabilityDatamodel.Availability) []*Availability {
	result := make([]*Availability, len(rows))
	for i, row := range rows {
		result[i] = FromDataModel(row)
	}
	return result
}
