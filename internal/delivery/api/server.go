package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"

	"reviewdesk/config"
	"reviewdesk/internal/delivery"
	apimiddleware "reviewdesk/internal/delivery/api/middleware"
	"reviewdesk/internal/delivery/api/router"
	"reviewdesk/internal/delivery/api/validator"
	"reviewdesk/internal/delivery/middleware"
	"reviewdesk/internal/domain/lifecycle"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"golang.org/x/net/http2"
)

type apiServer struct {
	cfg    *config.Config
	logger *slog.Logger
	server *echo.Echo
}

// ServerParams holds dependencies for HTTP server, injected by Fx.
type ServerParams struct {
	fx.In

	Lc           fx.Lifecycle
	Cfg          *config.Config
	Logger       *slog.Logger
	RouterParams router.RouterParams
}

func NewServer(params ServerParams) (delivery.Delivery, error) {
	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.Server.ReadTimeout = params.Cfg.HTTP.Timeouts.ReadTimeout
	echoServer.Server.ReadHeaderTimeout = params.Cfg.HTTP.Timeouts.ReadHeaderTimeout
	echoServer.Server.WriteTimeout = params.Cfg.HTTP.Timeouts.WriteTimeout
	echoServer.Server.IdleTimeout = params.Cfg.HTTP.Timeouts.IdleTimeout

	// Set up middleware in correct order
	// 1. Recover middleware first (to catch panics early)
	echoServer.Use(echomiddleware.Recover())

	// 2. Request ID middleware (must be before logger to include in logs)
	requestIDMiddleware := middleware.NewRequestIDMiddleware(params.Logger)
	echoServer.Use(requestIDMiddleware.Process)

	// 3. Logger middleware
	loggerMiddleware := middleware.NewLoggerMiddleware(params.Logger, params.Cfg)
	echoServer.Use(loggerMiddleware.Handle)

	// 4. CORS middleware, limited to the dashboard that embeds the Google settings
	echoServer.Use(echomiddleware.CORSWithConfig(corsConfig(params.Cfg, params.Logger)))

	// 5. Request body size limit
	echoServer.Use(echomiddleware.BodyLimit(params.Cfg.HTTP.MaxRequestBodySize))

	// Set up centralized error handler
	errorMiddleware := apimiddleware.NewErrorMiddleware(params.Logger)
	echoServer.HTTPErrorHandler = errorMiddleware.HandleHTTPError

	// Set up validator
	echoServer.Validator = validator.New()

	r := router.NewRouter(params.RouterParams)
	r.RegisterRoutes(echoServer)

	srv := &apiServer{
		cfg:    params.Cfg,
		logger: params.Logger,
		server: echoServer,
	}

	params.Lc.Append(fx.Hook{
		OnStop: srv.stop,
	})

	return srv, nil
}

// corsConfig allows the origin of the app the OAuth callback returns to. The
// API authenticates with a bearer header, so that header must be allowed.
func corsConfig(cfg *config.Config, logger *slog.Logger) echomiddleware.CORSConfig {
	corsCfg := echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderXRequestID},
	}
	if cfg.Google == nil || cfg.Google.AppRedirectURL == "" {
		return corsCfg
	}

	appURL, err := url.Parse(cfg.Google.AppRedirectURL)
	if err != nil || appURL.Scheme == "" || appURL.Host == "" {
		logger.Warn("App redirect URL has no origin, allowing any origin", slog.String("app_redirect_url", cfg.Google.AppRedirectURL))

		return corsCfg
	}
	corsCfg.AllowOrigins = []string{appURL.Scheme + "://" + appURL.Host}

	return corsCfg
}

func (s *apiServer) Serve(ctx context.Context) error {
	hostPort := net.JoinHostPort("0.0.0.0", strconv.Itoa(s.cfg.HTTP.Port))
	attrs := []any{slog.String("host_port", hostPort)}
	if s.cfg.Google != nil {
		attrs = append(attrs, slog.String("oauth_redirect_uri", s.cfg.Google.RedirectURI))
	}
	if s.cfg.Metrics != nil && s.cfg.Metrics.Enabled {
		attrs = append(attrs, slog.String("metrics_path", s.cfg.Metrics.Path))
	}
	s.logger.Info("Starting API HTTP server", attrs...)
	h2Server := &http2.Server{
		IdleTimeout: s.cfg.HTTP.Timeouts.IdleTimeout,
	}
	if err := s.server.StartH2CServer(hostPort, h2Server); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.WithStack(err)
	}

	return nil
}

func (s *apiServer) stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	s.logger.Info("Shutting down API HTTP server")

	return errors.WithStack(s.server.Shutdown(shutdownCtx))
}
