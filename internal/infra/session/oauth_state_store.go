// Package session keeps the OAuth CSRF state in a signed browser cookie.
package session

import (
	"net/http"

	"reviewdesk/config"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/pkg/errors"
)

const (
	StateCookieName = "google_oauth_state"
	stateKey        = "state"
	tenantKey       = "tenant"
)

// PendingAuthorization is what the browser carries between /connect and the
// Google callback. The callback arrives without API credentials, so the
// tenant travels in the signed cookie next to the state.
type PendingAuthorization struct {
	State    string
	TenantID uuid.UUID
}

// OAuthStateStore binds a pending authorization request to the browser that
// started it.
type OAuthStateStore struct {
	store *sessions.CookieStore
}

func NewOAuthStateStore(cfg *config.Config) *OAuthStateStore {
	store := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.Session.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &OAuthStateStore{store: store}
}

// Save writes the pending authorization into the cookie on w.
func (s *OAuthStateStore) Save(w http.ResponseWriter, r *http.Request, pending PendingAuthorization) error {
	sess, err := s.store.New(r, StateCookieName)
	if err != nil && sess == nil {
		return errors.Wrap(err, "create oauth state session")
	}

	sess.Values[stateKey] = pending.State
	sess.Values[tenantKey] = pending.TenantID.String()

	return errors.Wrap(sess.Save(r, w), "save oauth state session")
}

// Pop returns the saved authorization and expires the cookie so it cannot be
// replayed. A missing or unreadable cookie yields an empty state.
func (s *OAuthStateStore) Pop(w http.ResponseWriter, r *http.Request) (PendingAuthorization, error) {
	sess, err := s.store.Get(r, StateCookieName)
	if err != nil {
		// Forged or stale cookie: treat as absent and clear it.
		sess, _ = s.store.New(r, StateCookieName)
	}

	var pending PendingAuthorization
	pending.State, _ = sess.Values[stateKey].(string)
	if raw, ok := sess.Values[tenantKey].(string); ok {
		if tenantID, parseErr := uuid.Parse(raw); parseErr == nil {
			pending.TenantID = tenantID
		}
	}

	delete(sess.Values, stateKey)
	delete(sess.Values, tenantKey)
	sess.Options.MaxAge = -1
	if err := sess.Save(r, w); err != nil {
		return pending, errors.Wrap(err, "expire oauth state session")
	}

	return pending, nil
}
