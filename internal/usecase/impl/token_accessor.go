package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "reviewdesk/internal/delivery/context"
	domainerrors "reviewdesk/internal/domain/errors"
	"reviewdesk/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// accessTokenRefreshMargin is how long an access token must still be valid to
// be handed out without a refresh.
const accessTokenRefreshMargin = 5 * time.Minute

const (
	refreshOutcomeSuccess = "success"
	refreshOutcomeRevoked = "revoked"
	refreshOutcomeFailed  = "failed"
)

type tokenAccessor struct {
	cipher  service.TokenCipher
	oauth   service.OAuthFlow
	metrics service.MetricsRecorder
	now     func() time.Time
	logger  *slog.Logger
}

// TokenAccessorParams holds dependencies for the token accessor, injected by Fx.
type TokenAccessorParams struct {
	fx.In

	Cipher  service.TokenCipher
	OAuth   service.OAuthFlow
	Metrics service.MetricsRecorder
	Logger  *slog.Logger
}

func NewTokenAccessor(params TokenAccessorParams) service.TokenAccessor {
	return newTokenAccessor(params.Cipher, params.OAuth, params.Metrics, params.Logger, time.Now)
}

func newTokenAccessor(
	cipher service.TokenCipher,
	oauth service.OAuthFlow,
	metrics service.MetricsRecorder,
	logger *slog.Logger,
	now func() time.Time,
) *tokenAccessor {
	return &tokenAccessor{
		cipher:  cipher,
		oauth:   oauth,
		metrics: metrics,
		now:     now,
		logger:  logger,
	}
}

func (a *tokenAccessor) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, a.logger)
}

// GetValidAccessToken opens the blob and refreshes the access token when it
// expires within the margin. It never persists; a refresh is reported through
// AccessToken.UpdatedBlob.
func (a *tokenAccessor) GetValidAccessToken(ctx context.Context, blob string) (*service.AccessToken, error) {
	bundle, err := a.cipher.Open(blob)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open stored google tokens")
	}

	if !bundle.ExpiresWithin(a.now(), accessTokenRefreshMargin) {
		return &service.AccessToken{Token: bundle.AccessToken}, nil
	}

	refreshed, err := a.oauth.Refresh(ctx, bundle.RefreshToken)
	if err != nil {
		if errors.Is(err, domainerrors.ErrTokenExpiredOrRevoked) {
			a.metrics.TokenRefreshed(refreshOutcomeRevoked)
			a.log(ctx).Warn("Google refused the stored refresh token")

			return nil, err
		}
		a.metrics.TokenRefreshed(refreshOutcomeFailed)
		recordUpstreamFailure(a.metrics, err)

		return nil, errors.Wrap(err, "failed to refresh google access token")
	}
	a.metrics.TokenRefreshed(refreshOutcomeSuccess)

	bundle.AccessToken = refreshed.AccessToken
	bundle.ExpiresAt = refreshed.ExpiresAt

	updatedBlob, err := a.cipher.Seal(bundle)
	if err != nil {
		return nil, errors.Wrap(err, "failed to seal refreshed google tokens")
	}

	a.log(ctx).Debug("Refreshed google access token", slog.Time("expiresAt", bundle.ExpiresAt))

	return &service.AccessToken{Token: bundle.AccessToken, UpdatedBlob: updatedBlob}, nil
}
