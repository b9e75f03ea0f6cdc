// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"time"

	"reviewdesk/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrTenantNotFound is returned when no tenant row matches.
var ErrTenantNotFound = errors.New("tenant not found")

// TenantRepository reads and updates the Google connection fields of a tenant.
// Each method is a single row-level write.
type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Tenant, error)

	// SaveConnection stores a freshly sealed grant and clears any reauth marker.
	SaveConnection(ctx context.Context, id uuid.UUID, encryptedTokens string, connectedAt time.Time) error

	// UpdateTokens replaces the sealed grant after a refresh.
	UpdateTokens(ctx context.Context, id uuid.UUID, encryptedTokens string) error

	MarkReauthRequired(ctx context.Context, id uuid.UUID, at time.Time) error

	// ClearConnection drops the grant, the connection time and the selected location.
	ClearConnection(ctx context.Context, id uuid.UUID) error

	UpdateSelectedLocation(ctx context.Context, id uuid.UUID, location *entity.SelectedLocation) error

	UpdateLastSyncedAt(ctx context.Context, id uuid.UUID, at time.Time) error
}
