package tenant

import (
	"context"
	"log/slog"

	"github.com/zonoapp/workforce/internal"
	"github.com/zonoapp/workforce/internal/auth"
	tenantDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/tenant"
	"github.com/zonoapp/workforce/internal/core/events"
)

// RepositoryAPI defines tenant persistence. Transaction hands back a
// repository bound to the transaction so bulk flag updates commit
// atomically.
type RepositoryAPI interface {
	Create(t *tenantDatamodel.Tenant) error
	GetByID(id int64) (*tenantDatamodel.Tenant, error)
	List(limit, offset int) ([]*tenantDatamodel.Tenant, error)
	ListFlags(tenantID int64) ([]*tenantDatamodel.FeatureFlag, error)
	UpsertFlag(flag *tenantDatamodel.FeatureFlag) error
	Transaction(fn func(tx RepositoryAPI) error) error
}

type Service struct {
	repo   RepositoryAPI
	bus    *events.EventBus
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{repo: repo, bus: bus, logger: logger}
}

// Create provisions a new tenant. Platform operators only.
func (s *Service) Create(ctx context.Context, actor *internal.Actor, dto CreateTenantDTO) (*Tenant, error) {
	if !auth.Can(actor.Role, auth.ActionTenantManage) {
		return nil, internal.ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row := &tenantDatamodel.Tenant{Name: dto.Name, Slug: dto.Slug}
	if err := s.repo.Create(row); err != nil {
		s.logger.Error("failed to create tenant", "error", err, "slug", dto.Slug)
		return nil, internal.NewInternalError("failed to create tenant", err)
	}

	s.logger.Info("tenant created", "tenant_id", row.ID, "slug", row.Slug)
	s.bus.Publish(ctx, events.NewAuditRecordEvent(row.ID, actor.UserID, "create", "tenant", row.ID, nil, FromDataModel(row)))
	return FromDataModel(row), nil
}

// Get returns a tenant. Platform operators may read any tenant, other
// roles only their own.
func (s *Service) Get(actor *internal.Actor, id int64) (*Tenant, error) {
	if !auth.Can(actor.Role, auth.ActionTenantManage) && actor.TenantID != id {
		return nil, internal.ErrTenantNotFound
	}
	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

func (s *Service) List(actor *internal.Actor, limit, offset int) ([]*Tenant, error) {
	if !auth.Can(actor.Role, auth.ActionTenantManage) {
		return nil, internal.ErrForbidden
	}
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	rows, err := s.repo.List(limit, offset)
	if err != nil {
		return nil, internal.NewInternalError("failed to list tenants", err)
	}
	return FromDataModelSlice(rows), nil
}

// Features returns the tenant's feature flags as a key to enabled map.
func (s *Service) Features(actor *internal.Actor, tenantID int64) (map[string]bool, error) {
	if !auth.Can(actor.Role, auth.ActionTenantManage) && actor.TenantID != tenantID {
		return nil, internal.ErrTenantNotFound
	}
	flags, err := s.repo.ListFlags(tenantID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list feature flags", err)
	}

	result := make(map[string]bool, len(flags))
	for _, f := range flags {
		result[f.Key] = f.Enabled
	}
	return result, nil
}

// SetFeatures upserts every flag in the DTO inside one transaction, so
// a partial write never leaves the tenant half configured.
func (s *Service) SetFeatures(ctx context.Context, actor *internal.Actor, tenantID int64, dto SetFeaturesDTO) error {
	if !auth.Can(actor.Role, auth.ActionTenantManage) {
		return internal.ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return err
	}

	if _, err := s.repo.GetByID(tenantID); err != nil {
		return err
	}

	err := s.repo.Transaction(func(tx RepositoryAPI) error {
		for key, enabled := range dto.Features {
			flag := &tenantDatamodel.FeatureFlag{
				TenantID: tenantID,
				Key:      key,
				Enabled:  enabled,
			}
			if err := tx.UpsertFlag(flag); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to set feature flags", "error", err, "tenant_id", tenantID)
		return internal.NewInternalError("failed to set feature flags", err)
	}

	s.logger.Info("feature flags updated", "tenant_id", tenantID, "count", len(dto.Features))
	s.bus.Publish(ctx, events.NewAuditRecordEvent(tenantID, actor.UserID, "update", "feature_flags", tenantID, nil, dto.Features))
	return nil
}
