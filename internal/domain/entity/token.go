// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// OAuthTokenBundle is the Google grant held for one tenant. It only ever
// leaves the process sealed inside an encrypted blob.
type OAuthTokenBundle struct {
	AccessToken  string
	RefreshToken string    // Issued once at consent, never replaced by a refresh.
	ExpiresAt    time.Time // Absolute expiry of AccessToken.
	TokenType    string
}

// ExpiresWithin reports whether the access token is unusable at now+margin.
func (b *OAuthTokenBundle) ExpiresWithin(now time.Time, margin time.Duration) bool {
	return !b.ExpiresAt.After(now.Add(margin))
}

// RefreshedToken is what a refresh grant yields.
type RefreshedToken struct {
	AccessToken string
	ExpiresAt   time.Time
}
