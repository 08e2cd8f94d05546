package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeShiftCreated = "shift.created"
	EventTypeSwapDecided  = "swap.decided"
	EventTypeAuditRecord  = "audit.record"
)

// ShiftCreatedEvent fans out to the notification and mail handlers after
// the shift row has committed.
type ShiftCreatedEvent struct {
	BaseEvent
	TenantID   int64  `json:"tenant_id"`
	ShiftID    int64  `json:"shift_id"`
	EmployeeID int64  `json:"employee_id"`
	Date       string `json:"date"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Role       string `json:"role"`
}

func NewShiftCreatedEvent(tenantID, shiftID, employeeID int64, date, start, end, role string) *ShiftCreatedEvent {
	return &ShiftCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeShiftCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"tenant_id":   tenantID,
				"shift_id":    shiftID,
				"employee_id": employeeID,
				"date":        date,
				"start":       start,
				"end":         end,
				"role":        role,
			},
		},
		TenantID:   tenantID,
		ShiftID:    shiftID,
		EmployeeID: employeeID,
		Date:       date,
		Start:      start,
		End:        end,
		Role:       role,
	}
}

// SwapDecidedEvent is published on every swap transition so the parties
// can be notified of progress.
type SwapDecidedEvent struct {
	BaseEvent
	TenantID       int64  `json:"tenant_id"`
	SwapID         int64  `json:"swap_id"`
	ShiftID        int64  `json:"shift_id"`
	FromEmployeeID int64  `json:"from_employee_id"`
	ToEmployeeID   int64  `json:"to_employee_id"`
	Status         string `json:"status"`
}

func NewSwapDecidedEvent(tenantID, swapID, shiftID, fromEmployeeID, toEmployeeID int64, status string) *SwapDecidedEvent {
	return &SwapDecidedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeSwapDecided,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"tenant_id":        tenantID,
				"swap_id":          swapID,
				"shift_id":         shiftID,
				"from_employee_id": fromEmployeeID,
				"to_employee_id":   toEmployeeID,
				"status":           status,
			},
		},
		TenantID:       tenantID,
		SwapID:         swapID,
		ShiftID:        shiftID,
		FromEmployeeID: fromEmployeeID,
		ToEmployeeID:   toEmployeeID,
		Status:         status,
	}
}

// AuditRecordEvent feeds the append-only audit sink. Before/After are
// optional entity snapshots.
type AuditRecordEvent struct {
	BaseEvent
	TenantID int64       `json:"tenant_id"`
	UserID   int64       `json:"user_id"`
	Action   string      `json:"action"`
	Entity   string      `json:"entity"`
	EntityID int64       `json:"entity_id"`
	Before   interface{} `json:"before,omitempty"`
	After    interface{} `json:"after,omitempty"`
}

func NewAuditRecordEvent(tenantID, userID int64, action, entity string, entityID int64, before, after interface{}) *AuditRecordEvent {
	return &AuditRecordEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeAuditRecord,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"tenant_id": tenantID,
				"user_id":   userID,
				"action":    action,
				"entity":    entity,
				"entity_id": entityID,
			},
		},
		TenantID: tenantID,
		UserID:   userID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Before:   before,
		After:    after,
	}
}
