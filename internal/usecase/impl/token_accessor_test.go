package impl

import (
	"context"
	"testing"
	"time"

	"reviewdesk/internal/domain/entity"
	domainerrors "reviewdesk/internal/domain/errors"
	mockService "reviewdesk/internal/mocks/service"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type tokenAccessorFixtures struct {
	accessor *tokenAccessor
	cipher   *mockService.MockTokenCipher
	oauth    *mockService.MockOAuthFlow
	metrics  *recordingMetrics
	now      time.Time
}

func createTestTokenAccessor(t *testing.T) tokenAccessorFixtures {
	cipher := mockService.NewMockTokenCipher(t)
	oauth := mockService.NewMockOAuthFlow(t)
	metrics := newRecordingMetrics()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	return tokenAccessorFixtures{
		accessor: newTokenAccessor(cipher, oauth, metrics, newDiscardLogger(), func() time.Time { return now }),
		cipher:   cipher,
		oauth:    oauth,
		metrics:  metrics,
		now:      now,
	}
}

func TestTokenAccessor_UsesStoredTokenOutsideMargin(t *testing.T) {
	fx := createTestTokenAccessor(t)
	ctx := context.Background()

	fx.cipher.EXPECT().Open("blob").Return(&entity.OAuthTokenBundle{
		AccessToken:  "A1",
		RefreshToken: "R1",
		ExpiresAt:    fx.now.Add(5*time.Minute + time.Second),
	}, nil)

	token, err := fx.accessor.GetValidAccessToken(ctx, "blob")
	require.NoError(t, err)
	assert.Equal(t, "A1", token.Token)
	assert.False(t, token.Refreshed())
	assert.Empty(t, fx.metrics.refreshes)
	fx.oauth.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything)
}

func TestTokenAccessor_RefreshesInsideMargin(t *testing.T) {
	fx := createTestTokenAccessor(t)
	ctx := context.Background()
	newExpiry := fx.now.Add(time.Hour)

	fx.cipher.EXPECT().Open("blob").Return(&entity.OAuthTokenBundle{
		AccessToken:  "A1",
		RefreshToken: "R1",
		ExpiresAt:    fx.now.Add(2 * time.Minute),
		TokenType:    "Bearer",
	}, nil)
	fx.oauth.EXPECT().Refresh(ctx, "R1").Return(&entity.RefreshedToken{AccessToken: "A2", ExpiresAt: newExpiry}, nil)
	fx.cipher.EXPECT().
		Seal(mock.MatchedBy(func(b *entity.OAuthTokenBundle) bool {
			return b.AccessToken == "A2" && b.RefreshToken == "R1" && b.ExpiresAt.Equal(newExpiry) && b.TokenType == "Bearer"
		})).
		Return("blob-2", nil)

	token, err := fx.accessor.GetValidAccessToken(ctx, "blob")
	require.NoError(t, err)
	assert.Equal(t, "A2", token.Token)
	assert.Equal(t, "blob-2", token.UpdatedBlob)
	assert.True(t, token.Refreshed())
	assert.Equal(t, []string{refreshOutcomeSuccess}, fx.metrics.refreshes)
}

func TestTokenAccessor_RefreshesAtExactMargin(t *testing.T) {
	fx := createTestTokenAccessor(t)
	ctx := context.Background()

	fx.cipher.EXPECT().Open("blob").Return(&entity.OAuthTokenBundle{
		AccessToken:  "A1",
		RefreshToken: "R1",
		ExpiresAt:    fx.now.Add(5 * time.Minute),
	}, nil)
	fx.oauth.EXPECT().Refresh(ctx, "R1").Return(&entity.RefreshedToken{AccessToken: "A2", ExpiresAt: fx.now.Add(time.Hour)}, nil)
	fx.cipher.EXPECT().Seal(mock.Anything).Return("blob-2", nil)

	token, err := fx.accessor.GetValidAccessToken(ctx, "blob")
	require.NoError(t, err)
	assert.Equal(t, "A2", token.Token)
}

func TestTokenAccessor_PropagatesRevokedGrant(t *testing.T) {
	fx := createTestTokenAccessor(t)
	ctx := context.Background()

	fx.cipher.EXPECT().Open("blob").Return(&entity.OAuthTokenBundle{
		AccessToken:  "A1",
		RefreshToken: "R1",
		ExpiresAt:    fx.now.Add(-time.Minute),
	}, nil)
	fx.oauth.EXPECT().Refresh(ctx, "R1").Return(nil, domainerrors.ErrTokenExpiredOrRevoked.WrapMessage("invalid_grant"))

	token, err := fx.accessor.GetValidAccessToken(ctx, "blob")
	assert.Nil(t, token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenExpiredOrRevoked))
	assert.Equal(t, domainerrors.KindReauthRequired, domainerrors.KindOf(err))
	assert.Equal(t, []string{refreshOutcomeRevoked}, fx.metrics.refreshes)
	fx.cipher.AssertNotCalled(t, "Seal", mock.Anything)
}

func TestTokenAccessor_UpstreamFailureIsRetryable(t *testing.T) {
	fx := createTestTokenAccessor(t)
	ctx := context.Background()

	fx.cipher.EXPECT().Open("blob").Return(&entity.OAuthTokenBundle{
		AccessToken:  "A1",
		RefreshToken: "R1",
		ExpiresAt:    fx.now,
	}, nil)
	fx.oauth.EXPECT().Refresh(ctx, "R1").Return(nil, domainerrors.NewUpstreamError("oauth_token", 503, "unavailable", nil))

	_, err := fx.accessor.GetValidAccessToken(ctx, "blob")
	require.Error(t, err)
	assert.Equal(t, domainerrors.KindRetryable, domainerrors.KindOf(err))
	assert.Equal(t, []string{refreshOutcomeFailed}, fx.metrics.refreshes)
	assert.Equal(t, []string{"oauth_token"}, fx.metrics.upstream)
}

func TestTokenAccessor_TamperedBlob(t *testing.T) {
	fx := createTestTokenAccessor(t)

	fx.cipher.EXPECT().Open("blob").Return(nil, domainerrors.ErrTokenTampered)

	_, err := fx.accessor.GetValidAccessToken(context.Background(), "blob")
	require.Error(t, err)
	assert.Equal(t, domainerrors.KindCorrupted, domainerrors.KindOf(err))
}
