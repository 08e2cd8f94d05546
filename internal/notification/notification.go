package notification

import (
	"time"

	notificationDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/notification"
)

const (
	TypeShiftAssigned = "shift_assigned"
	TypeSwapUpdate    = "swap_update"
)

type Notification struct {
	ID        int64      `json:"id"`
	TenantID  int64      `json:"tenant_id"`
	UserID    int64      `json:"user_id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Body      string     `json:"body,omitempty"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func FromDataModel(row *notificationDatamodel.Notification) *Notification {
	return &Notification{
		ID:        row.ID,
		TenantID:  row.TenantID,
		UserID:    row.UserID,
		Type:      row.Type,
		Title:     row.Title,
		Body:      row.Body,
		ReadAt:    row.ReadAt,
		CreatedAt: row.CreatedAt,
	}
}

func FromDataModelSlice(rows []*notificationDatamodel.Notification) []*Notification {
	result := make([]*Notification, len(rows))
	for i, row := range rows {
		result[i] = FromDataModel(row)
	}
	return result
}

// Recipient is a notifiable user resolved from an employee record.
type Recipient struct {
	UserID int64
	Email  string
	Name   string
}
