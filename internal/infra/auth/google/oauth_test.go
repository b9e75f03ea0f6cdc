package google

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"reviewdesk/config"
	domainerrors "reviewdesk/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(tokenURL string) *config.Config {
	return &config.Config{
		Google: &config.GoogleConfig{
			ClientID:     "test_client_id",
			ClientSecret: "test_secret",
			RedirectURI:  "http://localhost:8080/api/v1/google/callback",
			TokenURL:     tokenURL,
			HTTPTimeout:  2 * time.Second,
		},
	}
}

type tokenServer struct {
	*httptest.Server
	hits atomic.Int32
	form atomic.Pointer[url.Values]
}

func newTokenServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *tokenServer {
	t.Helper()

	ts := &tokenServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.hits.Add(1)
		if err := r.ParseForm(); err == nil {
			form := r.PostForm
			ts.form.Store(&form)
		}
		handler(w, r)
	}))
	t.Cleanup(ts.Close)

	return ts
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestOAuthService_BuildAuthorizationURL(t *testing.T) {
	svc, err := NewOAuthService(testConfig(""), newDiscardLogger())
	require.NoError(t, err)

	raw := svc.BuildAuthorizationURL("state-123")

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "accounts.google.com", parsed.Host)
	assert.Equal(t, "/o/oauth2/v2/auth", parsed.Path)

	query := parsed.Query()
	assert.Equal(t, "test_client_id", query.Get("client_id"))
	assert.Equal(t, "http://localhost:8080/api/v1/google/callback", query.Get("redirect_uri"))
	assert.Equal(t, "code", query.Get("response_type"))
	assert.Equal(t, businessManageScope, query.Get("scope"))
	assert.Equal(t, "offline", query.Get("access_type"))
	assert.Equal(t, "consent", query.Get("prompt"))
	assert.Equal(t, "state-123", query.Get("state"))
}

func TestNewOAuthService_RequiresClientCredentials(t *testing.T) {
	cfg := testConfig("")
	cfg.Google.ClientSecret = ""

	_, err := NewOAuthService(cfg, newDiscardLogger())

	var cfgErr *domainerrors.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestOAuthService_ExchangeCode(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ts := newTokenServer(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, `{"access_token":"ya29.a","refresh_token":"1//r","expires_in":3600,"token_type":"Bearer"}`)
		})
		svc, err := NewOAuthService(testConfig(ts.URL), newDiscardLogger())
		require.NoError(t, err)

		before := time.Now()
		bundle, err := svc.ExchangeCode(context.Background(), "auth-code")
		require.NoError(t, err)

		assert.Equal(t, "ya29.a", bundle.AccessToken)
		assert.Equal(t, "1//r", bundle.RefreshToken)
		assert.Equal(t, "Bearer", bundle.TokenType)
		assert.WithinDuration(t, before.Add(time.Hour), bundle.ExpiresAt, 5*time.Second)

		form := ts.form.Load()
		require.NotNil(t, form)
		assert.Equal(t, "authorization_code", form.Get("grant_type"))
		assert.Equal(t, "auth-code", form.Get("code"))
		assert.Equal(t, "test_client_id", form.Get("client_id"))
		assert.Equal(t, "test_secret", form.Get("client_secret"))
		assert.Equal(t, "http://localhost:8080/api/v1/google/callback", form.Get("redirect_uri"))
		assert.Equal(t, int32(1), ts.hits.Load())
	})

	t.Run("rejected code is not retried", func(t *testing.T) {
		ts := newTokenServer(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusBadRequest, `{"error":"invalid_grant","error_description":"Bad Request"}`)
		})
		svc, err := NewOAuthService(testConfig(ts.URL), newDiscardLogger())
		require.NoError(t, err)

		_, err = svc.ExchangeCode(context.Background(), "used-code")

		var exchangeErr *domainerrors.ExchangeFailedError
		require.True(t, errors.As(err, &exchangeErr))
		assert.Equal(t, http.StatusBadRequest, exchangeErr.Status)
		assert.Contains(t, exchangeErr.Body, "invalid_grant")
		assert.Equal(t, int32(1), ts.hits.Load())
	})
}

func TestOAuthService_Refresh(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ts := newTokenServer(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, `{"access_token":"ya29.new","expires_in":1800,"token_type":"Bearer"}`)
		})
		svc, err := NewOAuthService(testConfig(ts.URL), newDiscardLogger())
		require.NoError(t, err)

		before := time.Now()
		refreshed, err := svc.Refresh(context.Background(), "1//r")
		require.NoError(t, err)

		assert.Equal(t, "ya29.new", refreshed.AccessToken)
		assert.WithinDuration(t, before.Add(30*time.Minute), refreshed.ExpiresAt, 5*time.Second)

		form := ts.form.Load()
		require.NotNil(t, form)
		assert.Equal(t, "refresh_token", form.Get("grant_type"))
		assert.Equal(t, "1//r", form.Get("refresh_token"))
	})

	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized} {
		t.Run("rejected grant "+http.StatusText(status), func(t *testing.T) {
			ts := newTokenServer(t, func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, status, `{"error":"invalid_grant"}`)
			})
			svc, err := NewOAuthService(testConfig(ts.URL), newDiscardLogger())
			require.NoError(t, err)

			_, err = svc.Refresh(context.Background(), "1//revoked")

			assert.True(t, errors.Is(err, domainerrors.ErrTokenExpiredOrRevoked))
			assert.Equal(t, domainerrors.KindReauthRequired, domainerrors.KindOf(err))
			assert.Equal(t, int32(1), ts.hits.Load())
		})
	}

	t.Run("server error is transient", func(t *testing.T) {
		ts := newTokenServer(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusServiceUnavailable, `{"error":"backend"}`)
		})
		svc, err := NewOAuthService(testConfig(ts.URL), newDiscardLogger())
		require.NoError(t, err)

		_, err = svc.Refresh(context.Background(), "1//r")

		var upstreamErr *domainerrors.UpstreamError
		require.True(t, errors.As(err, &upstreamErr))
		assert.Equal(t, http.StatusServiceUnavailable, upstreamErr.Status)
		assert.Equal(t, domainerrors.KindRetryable, domainerrors.KindOf(err))
		assert.Equal(t, int32(1), ts.hits.Load())
	})

	t.Run("timeout is transient", func(t *testing.T) {
		release := make(chan struct{})
		ts := newTokenServer(t, func(w http.ResponseWriter, _ *http.Request) {
			<-release
			writeJSON(w, http.StatusOK, `{"access_token":"late","expires_in":3600}`)
		})
		defer close(release)

		cfg := testConfig(ts.URL)
		cfg.Google.HTTPTimeout = 50 * time.Millisecond
		svc, err := NewOAuthService(cfg, newDiscardLogger())
		require.NoError(t, err)

		_, err = svc.Refresh(context.Background(), "1//r")

		var upstreamErr *domainerrors.UpstreamError
		require.True(t, errors.As(err, &upstreamErr))
		assert.Equal(t, 0, upstreamErr.Status)
	})
}

func TestOAuthService_MissingExpiryIsTreatedAsExpired(t *testing.T) {
	ts := newTokenServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"access_token":"ya29.x","token_type":"Bearer"}`)
	})
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc, err := newOAuthService(testConfig(ts.URL), newDiscardLogger(), func() time.Time { return fixed })
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), "1//r")
	require.NoError(t, err)

	assert.True(t, refreshed.ExpiresAt.Equal(fixed))
}
