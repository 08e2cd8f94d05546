package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	notificationDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/notification"
	"github.com/zonoapp/workforce/internal/core/events"
)

// AuditSink appends one audit row. Implemented by the postgres audit
// repository.
type AuditSink interface {
	Record(entry *notificationDatamodel.AuditLog) error
}

type EventHandler struct {
	service    *Service
	recipients RecipientDirectory
	mailer     *Mailer
	audit      AuditSink
	logger     *slog.Logger
}

func NewEventHandler(service *Service, recipients RecipientDirectory, mailer *Mailer, audit AuditSink, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		service:    service,
		recipients: recipients,
		mailer:     mailer,
		audit:      audit,
		logger:     logger,
	}
}

func (h *EventHandler) HandleShiftCreated(ctx context.Context, event events.Event) error {
	shiftEvent, ok := event.(*events.ShiftCreatedEvent)
	if !ok {
		h.logger.Error("invalid event type for shift created handler", "event_type", event.EventType())
		return fmt.Errorf("expected ShiftCreatedEvent, got %T", event)
	}

	recipient, err := h.recipients.RecipientForEmployee(shiftEvent.TenantID, shiftEvent.EmployeeID)
	if err != nil {
		return fmt.Errorf("resolve recipient for employee %d: %w", shiftEvent.EmployeeID, err)
	}
	if recipient == nil {
		h.logger.Debug("shift employee has no linked user, skipping notification",
			"employee_id", shiftEvent.EmployeeID,
			"shift_id", shiftEvent.ShiftID)
		return nil
	}

	title := fmt.Sprintf("New shift on %s", shiftEvent.Date)
	body := fmt.Sprintf("%s to %s (%s)", shiftEvent.Start, shiftEvent.End, shiftEvent.Role)
	if _, err := h.service.Notify(ctx, shiftEvent.TenantID, recipient.UserID, TypeShiftAssigned, title, body); err != nil {
		return fmt.Errorf("notify user %d: %w", recipient.UserID, err)
	}

	if h.mailer.Enabled() {
		subject := fmt.Sprintf("Shift scheduled: %s %s", shiftEvent.Date, shiftEvent.Start)
		html := fmt.Sprintf("<h2>New shift</h2><p>Hi %s,</p><p>You have been scheduled on <strong>%s</strong> from <strong>%s</strong> to <strong>%s</strong> as %s.</p>",
			recipient.Name, shiftEvent.Date, shiftEvent.Start, shiftEvent.End, shiftEvent.Role)
		ics := BuildShiftICS(
			fmt.Sprintf("Shift (%s)", shiftEvent.Role),
			shiftEvent.Date, shiftEvent.Start, shiftEvent.End,
			"Scheduled via Zono",
		)
		if err := h.mailer.SendWithICS(recipient.Email, subject, html, "shift.ics", ics); err != nil {
			h.logger.Error("failed to send shift mail",
				"error", err,
				"shift_id", shiftEvent.ShiftID,
				"to", recipient.Email)
		}
	}

	return nil
}

func (h *EventHandler) HandleSwapDecided(ctx context.Context, event events.Event) error {
	swapEvent, ok := event.(*events.SwapDecidedEvent)
	if !ok {
		h.logger.Error("invalid event type for swap decided handler", "event_type", event.EventType())
		return fmt.Errorf("expected SwapDecidedEvent, got %T", event)
	}

	title := fmt.Sprintf("Shift swap %s", swapEvent.Status)
	body := fmt.Sprintf("Swap request for shift %d is now %s", swapEvent.ShiftID, swapEvent.Status)

	for _, employeeID := range []int64{swapEvent.FromEmployeeID, swapEvent.ToEmployeeID} {
		recipient, err := h.recipients.RecipientForEmployee(swapEvent.TenantID, employeeID)
		if err != nil {
			h.logger.Error("failed to resolve swap recipient",
				"error", err,
				"employee_id", employeeID,
				"swap_id", swapEvent.SwapID)
			continue
		}
		if recipient == nil {
			continue
		}
		if _, err := h.service.Notify(ctx, swapEvent.TenantID, recipient.UserID, TypeSwapUpdate, title, body); err != nil {
			h.logger.Error("failed to notify swap party",
				"error", err,
				"user_id", recipient.UserID,
				"swap_id", swapEvent.SwapID)
		}
	}

	return nil
}

func (h *EventHandler) HandleAuditRecord(ctx context.Context, event events.Event) error {
	auditEvent, ok := event.(*events.AuditRecordEvent)
	if !ok {
		h.logger.Error("invalid event type for audit handler", "event_type", event.EventType())
		return fmt.Errorf("expected AuditRecordEvent, got %T", event)
	}

	entry := &notificationDatamodel.AuditLog{
		TenantID: auditEvent.TenantID,
		UserID:   auditEvent.UserID,
		Action:   auditEvent.Action,
		Entity:   auditEvent.Entity,
		EntityID: auditEvent.EntityID,
	}
	if auditEvent.Before != nil {
		if data, err := json.Marshal(auditEvent.Before); err == nil {
			entry.Before = data
		}
	}
	if auditEvent.After != nil {
		if data, err := json.Marshal(auditEvent.After); err == nil {
			entry.After = data
		}
	}

	if err := h.audit.Record(entry); err != nil {
		return fmt.Errorf("record audit entry for %s %d: %w", auditEvent.Entity, auditEvent.EntityID, err)
	}
	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeShiftCreated, h.HandleShiftCreated)
	eventBus.Subscribe(events.EventTypeSwapDecided, h.HandleSwapDecided)
	eventBus.Subscribe(events.EventTypeAuditRecord, h.HandleAuditRecord)

	h.logger.Info("notification event handlers registered",
		"handlers", []string{events.EventTypeShiftCreated, events.EventTypeSwapDecided, events.EventTypeAuditRecord})
}
