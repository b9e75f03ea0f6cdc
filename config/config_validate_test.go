package config

import (
	"encoding/base64"
	"strings"
	"testing"

	domainerrors "reviewdesk/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{
		Google: &GoogleConfig{
			ClientID:           "client-id",
			ClientSecret:       "client-secret",
			RedirectURI:        "https://app.example.com/api/v1/google/callback",
			TokenEncryptionKey: base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", 32))),
		},
		Auth:    &AuthConfig{JWTSecret: "jwt-secret"},
		Session: &SessionConfig{Secret: "session-secret"},
	}
	cfg.applyDefaults()

	return cfg
}

func TestValidate_AcceptsCompleteConfig(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_RejectsMissingOrBadSettings(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantKey string
	}{
		{
			name:    "missing encryption key",
			mutate:  func(cfg *Config) { cfg.Google.TokenEncryptionKey = "" },
			wantKey: "google.tokenEncryptionKey",
		},
		{
			name:    "key not base64",
			mutate:  func(cfg *Config) { cfg.Google.TokenEncryptionKey = "not base64!!" },
			wantKey: "google.tokenEncryptionKey",
		},
		{
			name: "key too short",
			mutate: func(cfg *Config) {
				cfg.Google.TokenEncryptionKey = base64.StdEncoding.EncodeToString([]byte("short"))
			},
			wantKey: "google.tokenEncryptionKey",
		},
		{
			name:    "missing client secret",
			mutate:  func(cfg *Config) { cfg.Google.ClientSecret = " " },
			wantKey: "google.clientSecret",
		},
		{
			name:    "missing jwt secret",
			mutate:  func(cfg *Config) { cfg.Auth.JWTSecret = "" },
			wantKey: "auth.jwtSecret",
		},
		{
			name:    "missing session secret",
			mutate:  func(cfg *Config) { cfg.Session.Secret = "" },
			wantKey: "session.secret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var cfgErr *domainerrors.ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.wantKey, cfgErr.Key)
			assert.Equal(t, domainerrors.KindConfiguration, domainerrors.KindOf(err))
		})
	}
}

func TestApplyDefaults_FillsClientLimits(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	assert.Equal(t, defaultReviewPageSize, cfg.GBP.ReviewPageSize)
	assert.Equal(t, defaultGBPTimeout, cfg.GBP.Timeout)
	assert.Equal(t, defaultGoogleHTTPTimeout, cfg.Google.HTTPTimeout)
	assert.Equal(t, "none", cfg.PubSub.Provider)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}
