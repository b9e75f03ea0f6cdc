package impl

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"
	"time"

	deliverycontext "reviewdesk/internal/delivery/context"
	"reviewdesk/internal/domain/entity"
	domainerrors "reviewdesk/internal/domain/errors"
	"reviewdesk/internal/domain/repository"
	"reviewdesk/internal/domain/service"
	"reviewdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const oauthStateBytes = 32

// connectionService implements the GoogleConnectionUsecase interface.
type connectionService struct {
	googleAccess

	cipher   service.TokenCipher
	oauth    service.OAuthFlow
	gbp      service.GBPClient
	metrics  service.MetricsRecorder
	newState func() (string, error)
	logger   *slog.Logger
}

// ConnectionServiceParams holds dependencies for the connection service, injected by Fx.
type ConnectionServiceParams struct {
	fx.In

	TenantRepo    repository.TenantRepository
	TokenAccessor service.TokenAccessor
	Cipher        service.TokenCipher
	OAuth         service.OAuthFlow
	GBP           service.GBPClient
	Metrics       service.MetricsRecorder
	Logger        *slog.Logger
}

func NewConnectionService(params ConnectionServiceParams) usecase.GoogleConnectionUsecase {
	return &connectionService{
		googleAccess: googleAccess{
			tenantRepo: params.TenantRepo,
			tokens:     params.TokenAccessor,
			now:        time.Now,
		},
		cipher:   params.Cipher,
		oauth:    params.OAuth,
		gbp:      params.GBP,
		metrics:  params.Metrics,
		newState: randomState,
		logger:   params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *connectionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func randomState() (string, error) {
	buf := make([]byte, oauthStateBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "failed to generate oauth state")
	}

	return hex.EncodeToString(buf), nil
}

func (srv *connectionService) InitiateConnect(ctx context.Context, tenantID uuid.UUID) (*usecase.ConnectInitiation, error) {
	if _, err := srv.loadTenant(ctx, tenantID); err != nil {
		return nil, err
	}

	state, err := srv.newState()
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Starting google connection", slog.Any("tenantID", tenantID))

	return &usecase.ConnectInitiation{
		AuthURL: srv.oauth.BuildAuthorizationURL(state),
		State:   state,
	}, nil
}

func (srv *connectionService) CompleteConnect(ctx context.Context, tenantID uuid.UUID, input *usecase.CompleteConnectInput) error {
	if !statesMatch(input.State, input.SavedState) {
		srv.log(ctx).Warn("OAuth state mismatch", slog.Any("tenantID", tenantID))

		return errors.Wrap(domainerrors.ErrCSRFMismatch, "oauth callback rejected")
	}
	if strings.TrimSpace(input.Code) == "" {
		return domainerrors.ErrValidationFailed.WrapMessage("authorization code is required")
	}

	if _, err := srv.loadTenant(ctx, tenantID); err != nil {
		return err
	}

	bundle, err := srv.oauth.ExchangeCode(ctx, input.Code)
	if err != nil {
		var exchangeErr *domainerrors.ExchangeFailedError
		if errors.As(err, &exchangeErr) {
			srv.log(ctx).Error("Google code exchange failed",
				slog.Any("tenantID", tenantID),
				slog.Int("status", exchangeErr.Status),
				slog.String("body", exchangeErr.Body),
			)
		}

		return errors.Wrap(err, "failed to exchange authorization code")
	}
	if bundle.RefreshToken == "" {
		srv.log(ctx).Error("Google grant has no refresh token", slog.Any("tenantID", tenantID))

		return domainerrors.NewExchangeFailedError(http.StatusOK, "token response without refresh_token")
	}

	blob, err := srv.cipher.Seal(bundle)
	if err != nil {
		return errors.Wrap(err, "failed to seal google tokens")
	}

	if err := srv.tenantRepo.SaveConnection(ctx, tenantID, blob, srv.now()); err != nil {
		return errors.Wrap(err, "failed to save google connection")
	}

	srv.log(ctx).Info("Google account connected", slog.Any("tenantID", tenantID))

	return nil
}

// statesMatch compares in constant time. An empty saved state never matches.
func statesMatch(got, saved string) bool {
	if saved == "" || got == "" {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(got), []byte(saved)) == 1
}

func (srv *connectionService) Disconnect(ctx context.Context, tenantID uuid.UUID) error {
	if err := srv.tenantRepo.ClearConnection(ctx, tenantID); err != nil {
		if errors.Is(err, repository.ErrTenantNotFound) {
			return errors.Wrap(domainerrors.ErrTenantNotFound, "disconnect")
		}

		return errors.Wrap(err, "failed to clear google connection")
	}

	srv.log(ctx).Info("Google account disconnected", slog.Any("tenantID", tenantID))

	return nil
}

func (srv *connectionService) GetStatus(ctx context.Context, tenantID uuid.UUID) (*usecase.ConnectionStatus, error) {
	tenant, err := srv.loadTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	status := &usecase.ConnectionStatus{
		Connected:    tenant.IsConnected(),
		State:        tenant.ConnectionState(),
		ConnectedAt:  tenant.ConnectedAt,
		LastSyncedAt: tenant.LastSyncedAt,
	}
	if tenant.HasLocation() {
		status.Location = tenant.Location
	}

	return status, nil
}

func (srv *connectionService) ListAvailableAccounts(ctx context.Context, tenantID uuid.UUID) ([]*entity.GBPAccount, error) {
	tenant, err := srv.connectedTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	token, err := srv.accessToken(ctx, srv.log(ctx), tenant)
	if err != nil {
		return nil, err
	}

	accounts, err := srv.gbp.ListAccounts(ctx, token)
	if err != nil {
		recordUpstreamFailure(srv.metrics, err)
		srv.markIfRevoked(ctx, srv.log(ctx), tenant, err)

		return nil, errors.Wrap(err, "failed to list google accounts")
	}

	return accounts, nil
}

func (srv *connectionService) ListAvailableLocations(ctx context.Context, tenantID uuid.UUID, accountID string) ([]*entity.GBPLocation, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("accountId is required")
	}

	tenant, err := srv.connectedTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	token, err := srv.accessToken(ctx, srv.log(ctx), tenant)
	if err != nil {
		return nil, err
	}

	locations, err := srv.gbp.ListLocations(ctx, token, accountID)
	if err != nil {
		recordUpstreamFailure(srv.metrics, err)
		srv.markIfRevoked(ctx, srv.log(ctx), tenant, err)

		return nil, errors.Wrap(err, "failed to list google locations")
	}

	return locations, nil
}

func (srv *connectionService) SelectLocation(ctx context.Context, tenantID uuid.UUID, input *usecase.SelectLocationInput) error {
	location := &entity.SelectedLocation{
		AccountID:    strings.TrimSpace(input.AccountID),
		LocationID:   strings.TrimSpace(input.LocationID),
		LocationName: strings.TrimSpace(input.LocationName),
	}
	if location.AccountID == "" || location.LocationID == "" || location.LocationName == "" {
		return domainerrors.ErrValidationFailed.WrapMessage("accountId, locationId and locationName are required")
	}

	if _, err := srv.connectedTenant(ctx, tenantID); err != nil {
		return err
	}

	if err := srv.tenantRepo.UpdateSelectedLocation(ctx, tenantID, location); err != nil {
		return errors.Wrap(err, "failed to save selected location")
	}

	srv.log(ctx).Info("Selected google location",
		slog.Any("tenantID", tenantID),
		slog.String("accountID", location.AccountID),
		slog.String("locationID", location.LocationID),
	)

	return nil
}
