package notification

import (
	"context"
	"log/slog"

	"github.com/zonoapp/workforce/internal"
	notificationDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/notification"
)

type RepositoryAPI interface {
	Create(n *notificationDatamodel.Notification) error
	ListForUser(tenantID, userID int64, limit, offset int) ([]*notificationDatamodel.Notification, error)
	CountUnread(tenantID, userID int64) (int64, error)
	MarkRead(tenantID, userID, id int64) error
	MarkAllRead(tenantID, userID int64) error
}

// Notifier pushes a notification to connected clients. The websocket
// hub implements it; tests swap in a recorder.
type Notifier interface {
	EmitToUser(tenantID, userID int64, event string, data interface{})
	EmitToTenant(tenantID int64, event string, data interface{})
}

// RecipientDirectory resolves an employee to their notifiable user.
// Returns nil when the employee has no linked login.
type RecipientDirectory interface {
	RecipientForEmployee(tenantID, employeeID int64) (*Recipient, error)
}

type Service struct {
	repo     RepositoryAPI
	notifier Notifier
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, logger: logger}
}

// Notify persists a notification and pushes it to the user's open
// connections. Persistence failure is returned; push is fire-and-forget.
func (s *Service) Notify(ctx context.Context, tenantID, userID int64, typ, title, body string) (*Notification, error) {
	row := &notificationDatamodel.Notification{
		TenantID: tenantID,
		UserID:   userID,
		Type:     typ,
		Title:    title,
		Body:     body,
	}
	if err := s.repo.Create(row); err != nil {
		s.logger.Error("failed to persist notification", "error", err, "user_id", userID)
		return nil, err
	}

	s.notifier.EmitToUser(tenantID, userID, typ, FromDataModel(row))
	return FromDataModel(row), nil
}

func (s *Service) ListMine(actor *internal.Actor, limit, offset int) ([]*Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.repo.ListForUser(actor.TenantID, actor.UserID, limit, offset)
	if err != nil {
		return nil, internal.NewInternalError("failed to list notifications", err)
	}
	return FromDataModelSlice(rows), nil
}

func (s *Service) UnreadCount(actor *internal.Actor) (int64, error) {
	count, err := s.repo.CountUnread(actor.TenantID, actor.UserID)
	if err != nil {
		return 0, internal.NewInternalError("failed to count notifications", err)
	}
	return count, nil
}

func (s *Service) MarkRead(actor *internal.Actor, id int64) error {
	if err := s.repo.MarkRead(actor.TenantID, actor.UserID, id); err != nil {
		return internal.NewInternalError("failed to mark notification read", err)
	}
	return nil
}

func (s *Service) MarkAllRead(actor *internal.Actor) error {
	if err := s.repo.MarkAllRead(actor.TenantID, actor.UserID); err != nil {
		return internal.NewInternalError("failed to mark notifications read", err)
	}
	return nil
}
