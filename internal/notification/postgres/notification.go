package postgres

import (
	"time"

	"gorm.io/gorm"

	employeeDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/employee"
	notificationDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/notification"
	"github.com/zonoapp/workforce/internal/notification"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

var _ notification.RepositoryAPI = (*NotificationRepository)(nil)

func (r *NotificationRepository) Create(n *notificationDatamodel.Notification) error {
	return r.db.Create(n).Error
}

func (r *NotificationRepository) ListForUser(tenantID, userID int64, limit, offset int) ([]*notificationDatamodel.Notification, error) {
	var rows []*notificationDatamodel.Notification
	err := r.db.Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}

func (r *NotificationRepository) CountUnread(tenantID, userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&notificationDatamodel.Notification{}).
		Where("tenant_id = ? AND user_id = ? AND read_at IS NULL", tenantID, userID).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepository) MarkRead(tenantID, userID, id int64) error {
	now := time.Now()
	return r.db.Model(&notificationDatamodel.Notification{}).
		Where("id = ? AND tenant_id = ? AND user_id = ? AND read_at IS NULL", id, tenantID, userID).
		Update("read_at", now).Error
}

func (r *NotificationRepository) MarkAllRead(tenantID, userID int64) error {
	now := time.Now()
	return r.db.Model(&notificationDatamodel.Notification{}).
		Where("tenant_id = ? AND user_id = ? AND read_at IS NULL", tenantID, userID).
		Update("read_at", now).Error
}

// AuditRepository appends to the audit trail; nothing in the core reads
// it back.
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

var _ notification.AuditSink = (*AuditRepository)(nil)

func (r *AuditRepository) Record(entry *notificationDatamodel.AuditLog) error {
	return r.db.Create(entry).Error
}

// RecipientRepository joins employees to their login users so event
// handlers can address mail and pushes.
type RecipientRepository struct {
	db *gorm.DB
}

func NewRecipientRepository(db *gorm.DB) *RecipientRepository {
	return &RecipientRepository{db: db}
}

var _ notification.RecipientDirectory = (*RecipientRepository)(nil)

func (r *RecipientRepository) RecipientForEmployee(tenantID, employeeID int64) (*notification.Recipient, error) {
	var emp employeeDatamodel.Employee
	err := r.db.Where("id = ? AND tenant_id = ?", employeeID, tenantID).First(&emp).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	if emp.UserID == nil {
		return nil, nil
	}

	var user employeeDatamodel.User
	err = r.db.Where("id = ? AND tenant_id = ?", *emp.UserID, tenantID).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &notification.Recipient{
		UserID: user.ID,
		Email:  user.Email,
		Name:   emp.Name,
	}, nil
}
