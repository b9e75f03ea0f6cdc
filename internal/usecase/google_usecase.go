package usecase

import (
	"context"
	"time"

	"reviewdesk/internal/domain/entity"

	"github.com/google/uuid"
)

// ConnectInitiation is what the browser needs to start the consent round trip.
// State must be stored by the caller and handed back on completion.
type ConnectInitiation struct {
	AuthURL string
	State   string
}

// CompleteConnectInput carries the callback parameters next to the state the
// caller saved when the flow started.
type CompleteConnectInput struct {
	Code       string
	State      string
	SavedState string
}

// ConnectionStatus summarises a tenant's Google connection.
type ConnectionStatus struct {
	Connected    bool                     `json:"connected"`
	State        entity.ConnectionState   `json:"state"`
	ConnectedAt  *time.Time               `json:"connectedAt,omitempty"`
	Location     *entity.SelectedLocation `json:"location,omitempty"`
	LastSyncedAt *time.Time               `json:"lastSyncedAt,omitempty"`
}

// SelectLocationInput picks the listing reviews are synced from.
type SelectLocationInput struct {
	AccountID    string `json:"accountId" validate:"required"`
	LocationID   string `json:"locationId" validate:"required"`
	LocationName string `json:"locationName" validate:"required"`
}

// GoogleConnectionUsecase defines the Google account connection use cases
type GoogleConnectionUsecase interface {
	// InitiateConnect creates a fresh CSRF state and the consent URL
	InitiateConnect(ctx context.Context, tenantID uuid.UUID) (*ConnectInitiation, error)

	// CompleteConnect verifies state, exchanges the code and stores the sealed grant
	CompleteConnect(ctx context.Context, tenantID uuid.UUID, input *CompleteConnectInput) error

	// Disconnect forgets the grant and the selected location. Cached reviews stay.
	Disconnect(ctx context.Context, tenantID uuid.UUID) error

	// GetStatus reports the connection state without calling Google
	GetStatus(ctx context.Context, tenantID uuid.UUID) (*ConnectionStatus, error)

	// ListAvailableAccounts lists the Business Profile accounts the grant can see
	ListAvailableAccounts(ctx context.Context, tenantID uuid.UUID) ([]*entity.GBPAccount, error)

	// ListAvailableLocations lists the locations of one account
	ListAvailableLocations(ctx context.Context, tenantID uuid.UUID, accountID string) ([]*entity.GBPLocation, error)

	// SelectLocation stores the listing used by sync and publish
	SelectLocation(ctx context.Context, tenantID uuid.UUID, input *SelectLocationInput) error
}
