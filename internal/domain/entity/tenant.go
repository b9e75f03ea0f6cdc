package entity

import (
	"time"

	"github.com/google/uuid"
)

// SelectedLocation is the listing a tenant syncs reviews from.
type SelectedLocation struct {
	AccountID    string `json:"accountId"`
	LocationID   string `json:"locationId"`
	LocationName string `json:"locationName"`
}

// Tenant is one business using the product.
type Tenant struct {
	ID               uuid.UUID
	Name             string
	EncryptedTokens  string // Empty when not connected.
	ConnectedAt      *time.Time
	ReauthRequiredAt *time.Time // Set when Google rejected the stored grant.
	Location         *SelectedLocation
	LastSyncedAt     *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (t *Tenant) IsConnected() bool {
	return t.EncryptedTokens != ""
}

func (t *Tenant) HasLocation() bool {
	return t.Location != nil && t.Location.AccountID != "" && t.Location.LocationID != ""
}

// ConnectionState derives where the tenant sits in the connection lifecycle.
func (t *Tenant) ConnectionState() ConnectionState {
	switch {
	case !t.IsConnected():
		return ConnectionDisconnected
	case t.ReauthRequiredAt != nil:
		return ConnectionReauthRequired
	default:
		return ConnectionConnected
	}
}

// ConnectionState is the persisted part of a tenant's Google connection
// lifecycle. Authorization in progress lives in the browser's state cookie
// and has no state of its own here.
type ConnectionState string

const (
	ConnectionDisconnected   ConnectionState = "disconnected"
	ConnectionConnected      ConnectionState = "connected"
	ConnectionReauthRequired ConnectionState = "reauth_required"
)
