// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"reviewdesk/internal/domain/entity"
	domainerrors "reviewdesk/internal/domain/errors"
	"reviewdesk/internal/domain/repository"
	"reviewdesk/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// tenantRepository implements repository.TenantRepository.
type tenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) repository.TenantRepository {
	return &tenantRepository{db: db}
}

func (repo *tenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Tenant, error) {
	var tenantM model.TenantModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&tenantM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTenantNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find tenant")
	}

	return toTenantDomain(&tenantM), nil
}

func (repo *tenantRepository) SaveConnection(ctx context.Context, id uuid.UUID, encryptedTokens string, connectedAt time.Time) error {
	return repo.update(ctx, id, "failed to save google connection", map[string]any{
		"google_tokens_encrypted":   encryptedTokens,
		"google_connected_at":       connectedAt,
		"google_reauth_required_at": nil,
	})
}

func (repo *tenantRepository) UpdateTokens(ctx context.Context, id uuid.UUID, encryptedTokens string) error {
	return repo.update(ctx, id, "failed to update google tokens", map[string]any{
		"google_tokens_encrypted": encryptedTokens,
	})
}

func (repo *tenantRepository) MarkReauthRequired(ctx context.Context, id uuid.UUID, at time.Time) error {
	return repo.update(ctx, id, "failed to mark google reauth", map[string]any{
		"google_reauth_required_at": at,
	})
}

func (repo *tenantRepository) ClearConnection(ctx context.Context, id uuid.UUID) error {
	return repo.update(ctx, id, "failed to clear google connection", map[string]any{
		"google_tokens_encrypted":   nil,
		"google_connected_at":       nil,
		"google_reauth_required_at": nil,
		"google_account_id":         nil,
		"google_location_id":        nil,
		"google_location_name":      nil,
	})
}

func (repo *tenantRepository) UpdateSelectedLocation(ctx context.Context, id uuid.UUID, location *entity.SelectedLocation) error {
	return repo.update(ctx, id, "failed to update selected location", map[string]any{
		"google_account_id":    nullable(location.AccountID),
		"google_location_id":   nullable(location.LocationID),
		"google_location_name": nullable(location.LocationName),
	})
}

func (repo *tenantRepository) UpdateLastSyncedAt(ctx context.Context, id uuid.UUID, at time.Time) error {
	return repo.update(ctx, id, "failed to update last sync time", map[string]any{
		"reviews_last_synced_at": at,
	})
}

// update writes columns of one tenant row; map updates keep nil values so
// columns can be cleared.
func (repo *tenantRepository) update(ctx context.Context, id uuid.UUID, failure string, columns map[string]any) error {
	result := repo.db.WithContext(ctx).
		Model(&model.TenantModel{}).
		Where("id = ?", id).
		Updates(columns)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, failure)
	}
	if result.RowsAffected == 0 {
		return repository.ErrTenantNotFound
	}

	return nil
}
