// Package handler contains the echo handlers of the public API.
package handler

import (
	"log/slog"
	"net/http"
	"net/url"

	"reviewdesk/config"
	"reviewdesk/internal/delivery/api/middleware"
	"reviewdesk/internal/delivery/api/response"
	deliverycontext "reviewdesk/internal/delivery/context"
	domainerrors "reviewdesk/internal/domain/errors"
	"reviewdesk/internal/infra/session"
	"reviewdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Outcomes reported to the app after the consent round trip.
const (
	callbackConnected     = "connected"
	callbackError         = "error"
	reasonAccessDenied    = "access_denied"
	reasonMissingParams   = "missing_params"
	reasonStateMismatch   = "state_mismatch"
	reasonExchangeFailed  = "exchange_failed"
	reasonTenantNotFound  = "tenant_not_found"
	reasonInternalFailure = "server_error"
)

// GoogleHandlerParams holds dependencies for GoogleHandler, injected by Fx.
type GoogleHandlerParams struct {
	fx.In

	ConnectionUC usecase.GoogleConnectionUsecase
	StateStore   *session.OAuthStateStore
	Config       *config.Config
	Logger       *slog.Logger
}

// GoogleHandler serves the Google connection endpoints.
type GoogleHandler struct {
	connectionUC   usecase.GoogleConnectionUsecase
	stateStore     *session.OAuthStateStore
	appRedirectURL string
	logger         *slog.Logger
}

func NewGoogleHandler(params GoogleHandlerParams) *GoogleHandler {
	return &GoogleHandler{
		connectionUC:   params.ConnectionUC,
		stateStore:     params.StateStore,
		appRedirectURL: params.Config.Google.AppRedirectURL,
		logger:         params.Logger,
	}
}

// Connect starts the consent flow. Browsers are redirected; API clients pass
// redirect=false and receive the URL instead.
func (h *GoogleHandler) Connect(c echo.Context) error {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid tenant in token")
	}

	initiation, err := h.connectionUC.InitiateConnect(c.Request().Context(), tenantID)
	if err != nil {
		return err
	}

	pending := session.PendingAuthorization{State: initiation.State, TenantID: tenantID}
	if err := h.stateStore.Save(c.Response(), c.Request(), pending); err != nil {
		return errors.Wrap(err, "failed to store oauth state")
	}

	if c.QueryParam("redirect") == "false" {
		return response.Success(c, http.StatusOK, map[string]string{"authUrl": initiation.AuthURL})
	}

	return response.Redirect(c, initiation.AuthURL)
}

// Callback finishes the consent flow and sends the browser back to the app.
// It is reached by Google's redirect, so it is not behind tenant auth; the
// tenant comes from the signed state cookie.
func (h *GoogleHandler) Callback(c echo.Context) error {
	pending, err := h.stateStore.Pop(c.Response(), c.Request())
	if err != nil {
		h.log(c).Warn("Failed to expire oauth state cookie", slog.Any("error", err))
	}

	if providerErr := c.QueryParam("error"); providerErr != "" {
		h.log(c).Info("Google consent not granted", slog.String("error", providerErr))

		return h.redirectToApp(c, callbackError, reasonAccessDenied)
	}

	code, state := c.QueryParam("code"), c.QueryParam("state")
	if code == "" || state == "" {
		return h.redirectToApp(c, callbackError, reasonMissingParams)
	}
	if pending.TenantID == uuid.Nil {
		return h.redirectToApp(c, callbackError, reasonStateMismatch)
	}

	err = h.connectionUC.CompleteConnect(c.Request().Context(), pending.TenantID, &usecase.CompleteConnectInput{
		Code:       code,
		State:      state,
		SavedState: pending.State,
	})
	if err != nil {
		h.log(c).Warn("Google connection failed", slog.Any("tenantID", pending.TenantID), slog.Any("error", err))

		return h.redirectToApp(c, callbackError, callbackReason(err))
	}

	return h.redirectToApp(c, callbackConnected, "")
}

func callbackReason(err error) string {
	var exchangeErr *domainerrors.ExchangeFailedError
	switch {
	case errors.Is(err, domainerrors.ErrCSRFMismatch):
		return reasonStateMismatch
	case errors.As(err, &exchangeErr):
		return reasonExchangeFailed
	case errors.Is(err, domainerrors.ErrTenantNotFound):
		return reasonTenantNotFound
	default:
		return reasonInternalFailure
	}
}

func (h *GoogleHandler) redirectToApp(c echo.Context, status, reason string) error {
	target, err := url.Parse(h.appRedirectURL)
	if err != nil {
		return errors.Wrap(err, "invalid app redirect url")
	}

	query := target.Query()
	query.Set("google", status)
	if reason != "" {
		query.Set("reason", reason)
	}
	target.RawQuery = query.Encode()

	return response.Redirect(c, target.String())
}

func (h *GoogleHandler) Disconnect(c echo.Context) error {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid tenant in token")
	}

	if err := h.connectionUC.Disconnect(c.Request().Context(), tenantID); err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Google account disconnected"})
}

func (h *GoogleHandler) Status(c echo.Context) error {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid tenant in token")
	}

	status, err := h.connectionUC.GetStatus(c.Request().Context(), tenantID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, status)
}

func (h *GoogleHandler) ListAccounts(c echo.Context) error {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid tenant in token")
	}

	accounts, err := h.connectionUC.ListAvailableAccounts(c.Request().Context(), tenantID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, map[string]any{"accounts": accounts})
}

func (h *GoogleHandler) ListLocations(c echo.Context) error {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid tenant in token")
	}

	accountID := c.QueryParam("accountId")
	if accountID == "" {
		return response.BadRequest(c, "VALIDATION_ERROR", "accountId is required")
	}

	locations, err := h.connectionUC.ListAvailableLocations(c.Request().Context(), tenantID, accountID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, map[string]any{"locations": locations})
}

func (h *GoogleHandler) SelectLocation(c echo.Context) error {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid tenant in token")
	}

	var req usecase.SelectLocationInput
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid location input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	if err := h.connectionUC.SelectLocation(c.Request().Context(), tenantID, &req); err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Location selected"})
}

func (h *GoogleHandler) log(c echo.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger)
}
