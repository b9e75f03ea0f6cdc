package impl

import (
	"context"
	"log/slog"
	"time"

	"reviewdesk/internal/domain/entity"
	domainerrors "reviewdesk/internal/domain/errors"
	"reviewdesk/internal/domain/repository"
	"reviewdesk/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// googleAccess resolves tenants and their live access tokens. It is shared by
// the connection and review services.
type googleAccess struct {
	tenantRepo repository.TenantRepository
	tokens     service.TokenAccessor
	now        func() time.Time
}

func (g *googleAccess) loadTenant(ctx context.Context, tenantID uuid.UUID) (*entity.Tenant, error) {
	tenant, err := g.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, repository.ErrTenantNotFound) {
			return nil, errors.Wrap(domainerrors.ErrTenantNotFound, "tenant lookup")
		}

		return nil, errors.Wrap(err, "failed to load tenant")
	}

	return tenant, nil
}

// connectedTenant loads a tenant that holds a Google grant.
func (g *googleAccess) connectedTenant(ctx context.Context, tenantID uuid.UUID) (*entity.Tenant, error) {
	tenant, err := g.loadTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !tenant.IsConnected() {
		return nil, errors.Wrap(domainerrors.ErrNotConnected, "tenant has no google grant")
	}

	return tenant, nil
}

// accessToken returns a bearer token for the tenant. A refreshed blob is
// written back; losing that write only costs another refresh next time. A
// revoked grant marks the tenant for reauthorization.
func (g *googleAccess) accessToken(ctx context.Context, logger *slog.Logger, tenant *entity.Tenant) (string, error) {
	token, err := g.tokens.GetValidAccessToken(ctx, tenant.EncryptedTokens)
	if err != nil {
		g.markIfRevoked(ctx, logger, tenant, err)

		return "", err
	}

	if token.Refreshed() {
		if err := g.tenantRepo.UpdateTokens(ctx, tenant.ID, token.UpdatedBlob); err != nil {
			logger.Warn("Failed to persist refreshed google tokens", slog.Any("tenantID", tenant.ID), slog.Any("error", err))
		} else {
			tenant.EncryptedTokens = token.UpdatedBlob
		}
	}

	return token.Token, nil
}

// markIfRevoked moves a connected tenant to reauth-required when Google
// rejected its grant, whether on refresh or on a Business Profile call.
func (g *googleAccess) markIfRevoked(ctx context.Context, logger *slog.Logger, tenant *entity.Tenant, err error) {
	if !errors.Is(err, domainerrors.ErrTokenExpiredOrRevoked) {
		return
	}
	if tenant.ConnectionState() != entity.ConnectionConnected {
		return
	}

	at := g.now()
	if markErr := g.tenantRepo.MarkReauthRequired(ctx, tenant.ID, at); markErr != nil {
		logger.Warn("Failed to mark tenant for reauthorization", slog.Any("tenantID", tenant.ID), slog.Any("error", markErr))

		return
	}
	tenant.ReauthRequiredAt = &at
}

// recordUpstreamFailure counts provider failures by the API surface that failed.
func recordUpstreamFailure(metrics service.MetricsRecorder, err error) {
	var upstreamErr *domainerrors.UpstreamError
	if errors.As(err, &upstreamErr) {
		metrics.UpstreamFailed(upstreamErr.Surface)
	}
}
