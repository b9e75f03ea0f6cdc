package service

import (
	"context"

	"reviewdesk/internal/domain/entity"
)

// OAuthFlow is the Google authorization code grant with offline access.
type OAuthFlow interface {
	// BuildAuthorizationURL returns the consent URL carrying state.
	BuildAuthorizationURL(state string) string

	// ExchangeCode trades a one-time code for a full bundle. It never retries.
	ExchangeCode(ctx context.Context, code string) (*entity.OAuthTokenBundle, error)

	// Refresh obtains a new access token. A rejected grant surfaces as
	// ErrTokenExpiredOrRevoked; everything else as an UpstreamError.
	Refresh(ctx context.Context, refreshToken string) (*entity.RefreshedToken, error)
}

// AccessToken is a usable bearer token plus, when a refresh happened, the
// resealed blob the caller should persist.
type AccessToken struct {
	Token       string
	UpdatedBlob string
}

func (a *AccessToken) Refreshed() bool {
	return a.UpdatedBlob != ""
}

// TokenAccessor turns a stored blob into a live access token.
type TokenAccessor interface {
	GetValidAccessToken(ctx context.Context, blob string) (*AccessToken, error)
}
